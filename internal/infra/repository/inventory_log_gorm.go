package repository

import (
	"context"

	"ecadmin/internal/domain/model"
	repo "ecadmin/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type inventoryLogGormRepository struct {
	db *gorm.DB
}

func NewInventoryLogGormRepository(db *gorm.DB) repo.InventoryLogRepository {
	return &inventoryLogGormRepository{db: db}
}

func (r *inventoryLogGormRepository) Create(ctx context.Context, log model.InventoryLog) (model.InventoryLog, error) {
	log.Inventory = nil
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&log).Error; err != nil {
		return model.InventoryLog{}, err
	}
	return log, nil
}

func (r *inventoryLogGormRepository) List(ctx context.Context, f repo.InventoryLogFilter) ([]model.InventoryLog, error) {
	q := r.db.WithContext(ctx).
		Model(&model.InventoryLog{}).
		Where("inventory_id = ?", f.InventoryID).
		//新しい順
		Order("id DESC")

	var logs []model.InventoryLog
	if err := paginate(q, f.Page).Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
