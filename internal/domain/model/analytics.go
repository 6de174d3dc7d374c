package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// 集計の期間粒度
type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
	PeriodAnnual  Period = "annual"
)

func (p Period) Valid() bool {
	switch p {
	case PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodAnnual:
		return true
	}
	return false
}

// 売上集計の絞り込み（すべてAND）
type SalesFilter struct {
	ProductID  *int64
	CategoryID *int64
	Platform   *string
}

type SalesAnalytics struct {
	TotalRevenue      decimal.Decimal `json:"total_revenue"`
	TotalOrders       int64           `json:"total_orders"`
	TotalQuantitySold int64           `json:"total_quantity_sold"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
	PeriodStart       time.Time       `json:"period_start"`
	PeriodEnd         time.Time       `json:"period_end"`
}

type RevenueComparison struct {
	CurrentPeriod  SalesAnalytics  `json:"current_period"`
	PreviousPeriod SalesAnalytics  `json:"previous_period"`
	GrowthRate     float64         `json:"growth_rate"`
	GrowthAmount   decimal.Decimal `json:"growth_amount"`
}

// 期間の窓（両端を含む）
type Window struct {
	Start time.Time
	End   time.Time
}

// CurrentWindow は now で終わる今期の窓を返す。
// daily だけは直近24hではなく当日0時(UTC)から。
func CurrentWindow(p Period, now time.Time) Window {
	now = now.UTC()
	switch p {
	case PeriodDaily:
		y, m, d := now.Date()
		return Window{Start: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), End: now}
	case PeriodWeekly:
		return Window{Start: now.AddDate(0, 0, -7), End: now}
	case PeriodMonthly:
		return Window{Start: now.AddDate(0, 0, -30), End: now}
	default:
		return Window{Start: now.AddDate(0, 0, -365), End: now}
	}
}

// ComparisonWindows は今期と、その直前で同じ長さの前期を返す。
// 前期の終わり = 今期の始まり。
func ComparisonWindows(p Period, now time.Time) (current Window, previous Window) {
	current = CurrentWindow(p, now)
	var length time.Duration
	switch p {
	case PeriodDaily:
		length = 24 * time.Hour
	case PeriodWeekly:
		length = 7 * 24 * time.Hour
	case PeriodMonthly:
		length = 30 * 24 * time.Hour
	default:
		length = 365 * 24 * time.Hour
	}
	previous = Window{Start: current.Start.Add(-length), End: current.Start}
	return current, previous
}

// 前期比。前期売上が0以下なら成長率は0とする（0除算回避）。
func CompareRevenue(current, previous SalesAnalytics) RevenueComparison {
	growth := current.TotalRevenue.Sub(previous.TotalRevenue)

	rate := 0.0
	if previous.TotalRevenue.IsPositive() {
		rate = growth.Div(previous.TotalRevenue).Mul(decimal.NewFromInt(100)).InexactFloat64()
	}

	return RevenueComparison{
		CurrentPeriod:  current,
		PreviousPeriod: previous,
		GrowthRate:     rate,
		GrowthAmount:   growth,
	}
}
