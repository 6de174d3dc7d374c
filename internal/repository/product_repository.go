package repository

import (
	"context"

	"ecadmin/internal/domain/model"

	"github.com/shopspring/decimal"
)

// 商品一覧の絞り込み
type ProductListFilter struct {
	CategoryID   *int64
	IsActive     *bool
	LowStockOnly bool
	Page
}

// 部分更新。nilの項目は変更しない
// descriptionだけは SetDescription=true & nil で NULL に戻す
type ProductPatch struct {
	Name           *string
	Description    *string
	SetDescription bool
	Price          *decimal.Decimal
	Cost           *decimal.Decimal
	CategoryID     *int64
	IsActive       *bool
}

// 商品の永続化（保存・取得）だけを約束。
type ProductRepository interface {
	//作成。SKUが重複していれば ErrDuplicate
	Create(ctx context.Context, p model.Product) (model.Product, error)
	FindByID(ctx context.Context, id int64) (model.Product, error)
	// カテゴリと在庫も読み込む
	FindDetail(ctx context.Context, id int64) (model.Product, error)
	List(ctx context.Context, f ProductListFilter) ([]model.Product, error)
	Update(ctx context.Context, id int64, patch ProductPatch) error
}
