package repository

import (
	"context"

	repo "ecadmin/internal/repository"

	"gorm.io/gorm"
)

type txReposGorm struct {
	categories    repo.CategoryRepository
	products      repo.ProductRepository
	inventory     repo.InventoryRepository
	inventoryLogs repo.InventoryLogRepository
	sales         repo.SaleRepository
}

func (r *txReposGorm) Categories() repo.CategoryRepository        { return r.categories }
func (r *txReposGorm) Products() repo.ProductRepository           { return r.products }
func (r *txReposGorm) Inventory() repo.InventoryRepository        { return r.inventory }
func (r *txReposGorm) InventoryLogs() repo.InventoryLogRepository { return r.inventoryLogs }
func (r *txReposGorm) Sales() repo.SaleRepository                 { return r.sales }

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

// fnがerrorを返したらrollback、nilならcommit
func (tm *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return tm.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		//repoはtxを持ったDBで作り直す
		r := &txReposGorm{
			categories:    NewCategoryGormRepository(tx),
			products:      NewProductGormRepository(tx),
			inventory:     NewInventoryGormRepository(tx),
			inventoryLogs: NewInventoryLogGormRepository(tx),
			sales:         NewSaleGormRepository(tx),
		}
		return fn(r)
	})
}
