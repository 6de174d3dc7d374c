package repository

import (
	"context"

	"ecadmin/internal/domain/model"
)

// 在庫一覧の絞り込み
type InventoryListFilter struct {
	LowStockOnly bool
	ActiveOnly   bool
	Page
}

type InventoryRepository interface {
	Create(ctx context.Context, inv model.Inventory) (model.Inventory, error)

	// 行ロック（SELECT ... FOR UPDATE）付きで取得。Tx内で使う
	FindByIDForUpdate(ctx context.Context, id int64) (model.Inventory, error)
	// 商品の在庫を行ロック付きで取得。在庫行が無ければ false
	FindByProductIDForUpdate(ctx context.Context, productID int64) (model.Inventory, bool, error)

	// 商品・カテゴリ込みで取得
	FindDetail(ctx context.Context, id int64) (model.Inventory, error)

	// 在庫数の現在値を設定
	UpdateQuantity(ctx context.Context, id int64, quantity int64) error

	List(ctx context.Context, f InventoryListFilter) ([]model.Inventory, error)
}
