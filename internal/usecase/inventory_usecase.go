package usecase

import (
	"context"
	"errors"
	"net/http"

	"ecadmin/internal/domain/model"
	repo "ecadmin/internal/repository"
)

type InventoryUsecase struct {
	tx        repo.TransactionManager
	inventory repo.InventoryRepository
	logs      repo.InventoryLogRepository
	validate  InputValidator
	effects   SideEffects
}

// DI
func NewInventoryUsecase(
	tx repo.TransactionManager,
	inventory repo.InventoryRepository,
	logs repo.InventoryLogRepository,
	validate InputValidator,
	effects SideEffects,
) *InventoryUsecase {
	return &InventoryUsecase{
		tx:        tx,
		inventory: inventory,
		logs:      logs,
		validate:  validate,
		effects:   effects,
	}
}

// PUT /inventory/:id の入力
type AdjustInventoryInput struct {
	ChangeType     model.ChangeType `json:"change_type" validate:"required,oneof=stock_in stock_out adjustment"`
	QuantityChange *int64           `json:"quantity_change" validate:"required"`
	Reason         *string          `json:"reason" validate:"omitnil,max=200"`
}

func (u *InventoryUsecase) List(ctx context.Context, lowStockOnly bool, page repo.Page) ([]InventoryOutput, error) {
	if err := checkPage(page); err != nil {
		return []InventoryOutput{}, err
	}

	items, err := u.inventory.List(ctx, repo.InventoryListFilter{
		LowStockOnly: lowStockOnly,
		Page:         page,
	})
	if err != nil {
		return []InventoryOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return toInventoryOutputs(items), nil
}

// 閾値以下かつ有効な商品の在庫。Limit=0 なら全件
func (u *InventoryUsecase) LowStock(ctx context.Context, page repo.Page) ([]InventoryOutput, error) {
	if err := checkOptionalPage(page); err != nil {
		return []InventoryOutput{}, err
	}

	items, err := u.inventory.List(ctx, repo.InventoryListFilter{
		LowStockOnly: true,
		ActiveOnly:   true,
		Page:         page,
	})
	if err != nil {
		return []InventoryOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return toInventoryOutputs(items), nil
}

// Adjust は在庫数の更新とログ追記を1つのTxで行う。
// 行ロックを取ってから読むので、同じ在庫への同時更新は直列になる。
func (u *InventoryUsecase) Adjust(ctx context.Context, inventoryID int64, in AdjustInventoryInput) (InventoryOutput, error) {
	if inventoryID <= 0 {
		return InventoryOutput{}, NewHTTPError(http.StatusBadRequest, "invalid inventory id")
	}
	if err := u.validate.Struct(in); err != nil {
		return InventoryOutput{}, err
	}
	delta := *in.QuantityChange

	var updated model.Inventory
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		inv, err := r.Inventory().FindByIDForUpdate(ctx, inventoryID)
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "Inventory not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		previous := inv.Quantity
		next := model.ApplyChange(in.ChangeType, previous, delta)
		if next < 0 {
			//stock_inの負数で0を下回る場合は書き込まない
			return NewHTTPError(http.StatusBadRequest, "quantity cannot go below zero")
		}

		if err := r.Inventory().UpdateQuantity(ctx, inv.ID, next); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusNotFound, "Inventory not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if _, err := r.InventoryLogs().Create(ctx, model.InventoryLog{
			InventoryID:      inv.ID,
			ChangeType:       in.ChangeType,
			QuantityChange:   delta,
			PreviousQuantity: previous,
			NewQuantity:      next,
			Reason:           in.Reason,
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		inv.Quantity = next
		updated = inv
		return nil
	})
	if err != nil {
		return InventoryOutput{}, dbError(err)
	}

	u.effects.observeAdjustment(in.ChangeType)
	u.effects.alertIfLow(ctx, updated)

	inv, err := u.inventory.FindDetail(ctx, inventoryID)
	if errors.Is(err, repo.ErrNotFound) {
		return InventoryOutput{}, NewHTTPError(http.StatusNotFound, "Inventory not found")
	}
	if err != nil {
		return InventoryOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return toInventoryOutput(inv), nil
}

// 在庫ログ（新しい順）
func (u *InventoryUsecase) Logs(ctx context.Context, inventoryID int64, page repo.Page) ([]model.InventoryLog, error) {
	if inventoryID <= 0 {
		return []model.InventoryLog{}, NewHTTPError(http.StatusBadRequest, "invalid inventory id")
	}
	if err := checkPage(page); err != nil {
		return []model.InventoryLog{}, err
	}

	//存在しない在庫は404にする
	if _, err := u.inventory.FindDetail(ctx, inventoryID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return []model.InventoryLog{}, NewHTTPError(http.StatusNotFound, "Inventory not found")
		}
		return []model.InventoryLog{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	items, err := u.logs.List(ctx, repo.InventoryLogFilter{InventoryID: inventoryID, Page: page})
	if err != nil {
		return []model.InventoryLog{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if items == nil {
		items = []model.InventoryLog{}
	}
	return items, nil
}
