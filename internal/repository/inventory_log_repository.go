package repository

import (
	"context"

	"ecadmin/internal/domain/model"
)

type InventoryLogFilter struct {
	InventoryID int64
	Page
}

// 在庫ログは追記のみ。更新・削除は約束しない。
type InventoryLogRepository interface {
	Create(ctx context.Context, log model.InventoryLog) (model.InventoryLog, error)
	//新しい順
	List(ctx context.Context, f InventoryLogFilter) ([]model.InventoryLog, error)
}
