package usecase

import (
	"context"
	"time"

	"ecadmin/internal/domain/model"

	"go.uber.org/zap"
)

// テストで時刻を固定するため
type Clock interface {
	Now() time.Time
}

// 入力のタグ検証。違反は400のHTTPErrorで返す
type InputValidator interface {
	Struct(v interface{}) error
}

// 集計結果のキャッシュ（Redisが無ければ素通し）
type AnalyticsCache interface {
	BuildKey(ctx context.Context, parts ...string) (string, error)
	FetchJSON(ctx context.Context, key string, dest interface{}, loader func(context.Context) (interface{}, error)) error
	Bump(ctx context.Context) error
}

// 在庫少の通知
type LowStockNotifier interface {
	NotifyLowStock(ctx context.Context, inv model.Inventory) error
}

type StockMetrics interface {
	ObserveAdjustment(changeType string)
	ObserveSale()
	ObserveLowStockAlert()
}

// SideEffects は書き込みcommit後の処理。どれも失敗してもリクエストは失敗させない。
// nilの項目は何もしない
type SideEffects struct {
	Cache    AnalyticsCache
	Notifier LowStockNotifier
	Metrics  StockMetrics
	Log      *zap.Logger
}

func (s SideEffects) logger() *zap.Logger {
	if s.Log == nil {
		return zap.NewNop()
	}
	return s.Log
}

// 集計キャッシュを無効化
func (s SideEffects) bumpAnalytics(ctx context.Context) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Bump(ctx); err != nil {
		s.logger().Warn("analytics cache bump failed", zap.Error(err))
	}
}

// 閾値以下なら通知を積む
func (s SideEffects) alertIfLow(ctx context.Context, inv model.Inventory) {
	if !inv.IsLowStock() {
		return
	}
	if s.Metrics != nil {
		s.Metrics.ObserveLowStockAlert()
	}
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.NotifyLowStock(ctx, inv); err != nil {
		s.logger().Warn("low stock alert enqueue failed",
			zap.Int64("inventory_id", inv.ID),
			zap.Error(err),
		)
	}
}

func (s SideEffects) observeAdjustment(changeType model.ChangeType) {
	if s.Metrics != nil {
		s.Metrics.ObserveAdjustment(string(changeType))
	}
}

func (s SideEffects) observeSale() {
	if s.Metrics != nil {
		s.Metrics.ObserveSale()
	}
}
