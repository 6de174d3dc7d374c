package repository

import (
	"context"

	"ecadmin/internal/domain/model"
	repo "ecadmin/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProductGormRepository struct {
	db *gorm.DB
}

// DI
func NewProductGormRepository(db *gorm.DB) *ProductGormRepository {
	return &ProductGormRepository{db: db}
}

// 商品の作成
func (r *ProductGormRepository) Create(ctx context.Context, p model.Product) (model.Product, error) {
	// 関連はここでは保存しない
	p.Category = nil
	p.Inventory = nil
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&p).Error; err != nil {
		return model.Product{}, translate(err)
	}
	return p, nil
}

// IDで商品を取得
func (r *ProductGormRepository) FindByID(ctx context.Context, id int64) (model.Product, error) {
	var p model.Product
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return model.Product{}, translate(err)
	}
	return p, nil
}

// カテゴリ・在庫込みで取得
func (r *ProductGormRepository) FindDetail(ctx context.Context, id int64) (model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Inventory").
		First(&p, id).Error
	if err != nil {
		return model.Product{}, translate(err)
	}
	return p, nil
}

// 絞り込み付き一覧
func (r *ProductGormRepository) List(ctx context.Context, f repo.ProductListFilter) ([]model.Product, error) {
	q := r.db.WithContext(ctx).
		Model(&model.Product{}).
		Preload("Category").
		Preload("Inventory")

	if f.CategoryID != nil {
		q = q.Where("products.category_id = ?", *f.CategoryID)
	}
	if f.IsActive != nil {
		q = q.Where("products.is_active = ?", *f.IsActive)
	}

	//在庫少のみ
	if f.LowStockOnly {
		q = q.Joins("JOIN inventory ON inventory.product_id = products.id").
			Where("inventory.quantity <= inventory.low_stock_threshold")
	}

	var items []model.Product
	if err := paginate(q.Order("products.id asc"), f.Page).Find(&items).Error; err != nil {
		return []model.Product{}, err
	}
	return items, nil
}

// 部分更新（指定された項目だけ）
func (r *ProductGormRepository) Update(ctx context.Context, id int64, patch repo.ProductPatch) error {
	fields := map[string]interface{}{}
	if patch.Name != nil {
		fields["name"] = *patch.Name
	}
	if patch.SetDescription {
		//nilならNULLに戻す
		if patch.Description == nil {
			fields["description"] = nil
		} else {
			fields["description"] = *patch.Description
		}
	}
	if patch.Price != nil {
		fields["price"] = *patch.Price
	}
	if patch.Cost != nil {
		fields["cost"] = *patch.Cost
	}
	if patch.CategoryID != nil {
		fields["category_id"] = *patch.CategoryID
	}
	if patch.IsActive != nil {
		fields["is_active"] = *patch.IsActive
	}

	// 変更なしでも存在確認はする
	if len(fields) == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&model.Product{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return repo.ErrNotFound
		}
		return nil
	}

	res := r.db.WithContext(ctx).Model(&model.Product{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
