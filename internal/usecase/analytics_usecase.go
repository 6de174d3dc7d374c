package usecase

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"ecadmin/internal/domain/model"
	repo "ecadmin/internal/repository"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type AnalyticsUsecase struct {
	sales   repo.SaleRepository
	clock   Clock
	effects SideEffects
}

// DI
func NewAnalyticsUsecase(sales repo.SaleRepository, clock Clock, effects SideEffects) *AnalyticsUsecase {
	return &AnalyticsUsecase{sales: sales, clock: clock, effects: effects}
}

// GET /sales/analytics の入力
type AnalyticsInput struct {
	Period    model.Period
	StartDate *time.Time
	EndDate   *time.Time
	Filter    model.SalesFilter
}

// Analytics は [start, end] の売上を集計する。
// start/end のどちらかが無ければ period から今期の窓を作る。
func (u *AnalyticsUsecase) Analytics(ctx context.Context, in AnalyticsInput) (model.SalesAnalytics, error) {
	if !in.Period.Valid() {
		return model.SalesAnalytics{}, NewHTTPError(http.StatusBadRequest, "invalid period")
	}

	if in.StartDate == nil || in.EndDate == nil {
		w := model.CurrentWindow(in.Period, u.clock.Now())
		//窓の終わりが現在時刻なのでキャッシュしない
		return u.aggregate(ctx, w, in.Filter)
	}

	w := model.Window{Start: in.StartDate.UTC(), End: in.EndDate.UTC()}
	return u.cachedAggregate(ctx, w, in.Filter)
}

// RevenueComparison は今期と前期の売上を並行に集計して比較する。
func (u *AnalyticsUsecase) RevenueComparison(ctx context.Context, period model.Period, f model.SalesFilter) (model.RevenueComparison, error) {
	if !period.Valid() {
		return model.RevenueComparison{}, NewHTTPError(http.StatusBadRequest, "invalid period")
	}

	current, previous := model.ComparisonWindows(period, u.clock.Now())

	var cur, prev model.SalesAnalytics
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a, err := u.sales.Aggregate(gctx, current.Start, current.End, f)
		cur = a
		return err
	})
	g.Go(func() error {
		a, err := u.sales.Aggregate(gctx, previous.Start, previous.End, f)
		prev = a
		return err
	})
	if err := g.Wait(); err != nil {
		return model.RevenueComparison{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return model.CompareRevenue(cur, prev), nil
}

func (u *AnalyticsUsecase) aggregate(ctx context.Context, w model.Window, f model.SalesFilter) (model.SalesAnalytics, error) {
	a, err := u.sales.Aggregate(ctx, w.Start, w.End, f)
	if err != nil {
		return model.SalesAnalytics{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return a, nil
}

// キャッシュが使えないときはDBから直接集計する
func (u *AnalyticsUsecase) cachedAggregate(ctx context.Context, w model.Window, f model.SalesFilter) (model.SalesAnalytics, error) {
	if u.effects.Cache == nil {
		return u.aggregate(ctx, w, f)
	}
	log := u.effects.logger()

	key, err := u.effects.Cache.BuildKey(ctx, "sales",
		w.Start.Format(time.RFC3339Nano),
		w.End.Format(time.RFC3339Nano),
		filterKey(f),
	)
	if err != nil {
		log.Warn("analytics cache key failed", zap.Error(err))
		return u.aggregate(ctx, w, f)
	}

	var (
		out     model.SalesAnalytics
		loadErr error
	)
	err = u.effects.Cache.FetchJSON(ctx, key, &out, func(ctx context.Context) (interface{}, error) {
		a, err := u.sales.Aggregate(ctx, w.Start, w.End, f)
		loadErr = err
		return a, err
	})
	if loadErr != nil {
		return model.SalesAnalytics{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if err != nil {
		log.Warn("analytics cache read failed", zap.String("key", key), zap.Error(err))
		return u.aggregate(ctx, w, f)
	}
	return out, nil
}

// 絞り込み条件をキャッシュキー用の文字列にする
func filterKey(f model.SalesFilter) string {
	id := func(v *int64) string {
		if v == nil {
			return "-"
		}
		return strconv.FormatInt(*v, 10)
	}
	platform := "-"
	if f.Platform != nil {
		platform = strconv.Quote(*f.Platform)
	}
	return fmt.Sprintf("p=%s,c=%s,pl=%s", id(f.ProductID), id(f.CategoryID), platform)
}
