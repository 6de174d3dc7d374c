package repository

import (
	"context"
	"time"

	"ecadmin/internal/domain/model"
)

// 売上一覧の絞り込み
type SaleListFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	ProductID *int64
	Platform  *string
	Page
}

type SaleRepository interface {
	Create(ctx context.Context, s model.Sale) (model.Sale, error)
	// 商品・カテゴリ・在庫込みで取得
	FindDetail(ctx context.Context, id int64) (model.Sale, error)
	//sale_dateの新しい順
	List(ctx context.Context, f SaleListFilter) ([]model.Sale, error)

	// [start, end] の売上を集計する。0件なら各値は0。
	Aggregate(ctx context.Context, start, end time.Time, f model.SalesFilter) (model.SalesAnalytics, error)
}
