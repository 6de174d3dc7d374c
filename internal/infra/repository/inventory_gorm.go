package repository

import (
	"context"

	"ecadmin/internal/domain/model"
	repo "ecadmin/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InventoryGormRepository struct {
	db *gorm.DB
}

func NewInventoryGormRepository(db *gorm.DB) *InventoryGormRepository {
	return &InventoryGormRepository{db: db}
}

func (r *InventoryGormRepository) Create(ctx context.Context, inv model.Inventory) (model.Inventory, error) {
	inv.Product = nil
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&inv).Error; err != nil {
		return model.Inventory{}, translate(err)
	}
	return inv, nil
}

// 行ロック付きで取得
func (r *InventoryGormRepository) FindByIDForUpdate(ctx context.Context, id int64) (model.Inventory, error) {
	var inv model.Inventory
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&inv, id).Error
	if err != nil {
		return model.Inventory{}, translate(err)
	}
	return inv, nil
}

// 商品IDで行ロック付きで取得（無ければ false）
func (r *InventoryGormRepository) FindByProductIDForUpdate(ctx context.Context, productID int64) (model.Inventory, bool, error) {
	var inv model.Inventory
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("product_id = ?", productID).
		First(&inv).Error
	if isNotFound(err) {
		return model.Inventory{}, false, nil
	}
	if err != nil {
		return model.Inventory{}, false, err
	}
	return inv, true, nil
}

// 商品・カテゴリ込みで取得
func (r *InventoryGormRepository) FindDetail(ctx context.Context, id int64) (model.Inventory, error) {
	var inv model.Inventory
	err := r.db.WithContext(ctx).
		Preload("Product.Category").
		First(&inv, id).Error
	if err != nil {
		return model.Inventory{}, translate(err)
	}
	return inv, nil
}

// 在庫の現在値を設定
func (r *InventoryGormRepository) UpdateQuantity(ctx context.Context, id int64, quantity int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.Inventory{}).
		Where("id = ?", id).
		Update("quantity", quantity)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *InventoryGormRepository) List(ctx context.Context, f repo.InventoryListFilter) ([]model.Inventory, error) {
	q := r.db.WithContext(ctx).
		Model(&model.Inventory{}).
		Preload("Product.Category")

	if f.LowStockOnly {
		q = q.Where("inventory.quantity <= inventory.low_stock_threshold")
	}

	//公開中の商品のみ
	if f.ActiveOnly {
		q = q.Joins("JOIN products ON products.id = inventory.product_id").
			Where("products.is_active = ?", true)
	}

	var items []model.Inventory
	if err := paginate(q.Order("inventory.id asc"), f.Page).Find(&items).Error; err != nil {
		return []model.Inventory{}, err
	}
	return items, nil
}
