package repository

import (
	"context"
	"database/sql"
	"time"

	"ecadmin/internal/domain/model"
	repo "ecadmin/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SaleGormRepository struct {
	db *gorm.DB
}

func NewSaleGormRepository(db *gorm.DB) *SaleGormRepository {
	return &SaleGormRepository{db: db}
}

func (r *SaleGormRepository) Create(ctx context.Context, s model.Sale) (model.Sale, error) {
	s.Product = nil
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&s).Error; err != nil {
		return model.Sale{}, translate(err)
	}
	return s, nil
}

func (r *SaleGormRepository) FindDetail(ctx context.Context, id int64) (model.Sale, error) {
	var s model.Sale
	err := r.db.WithContext(ctx).
		Preload("Product.Category").
		Preload("Product.Inventory").
		First(&s, id).Error
	if err != nil {
		return model.Sale{}, translate(err)
	}
	return s, nil
}

func (r *SaleGormRepository) List(ctx context.Context, f repo.SaleListFilter) ([]model.Sale, error) {
	q := r.db.WithContext(ctx).
		Model(&model.Sale{}).
		Preload("Product.Category").
		Preload("Product.Inventory")

	//期間絞り込み
	if f.StartDate != nil {
		q = q.Where("sale_date >= ?", *f.StartDate)
	}
	if f.EndDate != nil {
		q = q.Where("sale_date <= ?", *f.EndDate)
	}
	if f.ProductID != nil {
		q = q.Where("product_id = ?", *f.ProductID)
	}
	if f.Platform != nil {
		q = q.Where("platform = ?", *f.Platform)
	}

	//新しい順
	q = q.Order("sale_date DESC").Order("id DESC")

	var items []model.Sale
	if err := paginate(q, f.Page).Find(&items).Error; err != nil {
		return []model.Sale{}, err
	}
	return items, nil
}

// 集計結果の受け皿。0件のときSUM/AVGはNULLになる
type aggregateRow struct {
	TotalRevenue      decimal.NullDecimal
	TotalOrders       int64
	TotalQuantitySold sql.NullInt64
	AverageOrderValue decimal.NullDecimal
}

// [start, end] の売上集計（両端を含む）
func (r *SaleGormRepository) Aggregate(ctx context.Context, start, end time.Time, f model.SalesFilter) (model.SalesAnalytics, error) {
	q := r.db.WithContext(ctx).
		Model(&model.Sale{}).
		Select(
			"SUM(sales.total_amount) AS total_revenue, " +
				"COUNT(sales.id) AS total_orders, " +
				"SUM(sales.quantity) AS total_quantity_sold, " +
				"AVG(sales.total_amount) AS average_order_value",
		).
		Where("sales.sale_date >= ? AND sales.sale_date <= ?", start, end)

	if f.ProductID != nil {
		q = q.Where("sales.product_id = ?", *f.ProductID)
	}
	//カテゴリは商品をJOINして絞る
	if f.CategoryID != nil {
		q = q.Joins("JOIN products ON products.id = sales.product_id").
			Where("products.category_id = ?", *f.CategoryID)
	}
	if f.Platform != nil {
		q = q.Where("sales.platform = ?", *f.Platform)
	}

	var row aggregateRow
	if err := q.Scan(&row).Error; err != nil {
		return model.SalesAnalytics{}, err
	}

	// NULLは0に寄せる
	out := model.SalesAnalytics{
		TotalRevenue:      decimal.Zero,
		TotalOrders:       row.TotalOrders,
		AverageOrderValue: decimal.Zero,
		PeriodStart:       start,
		PeriodEnd:         end,
	}
	if row.TotalRevenue.Valid {
		out.TotalRevenue = row.TotalRevenue.Decimal
	}
	if row.TotalQuantitySold.Valid {
		out.TotalQuantitySold = row.TotalQuantitySold.Int64
	}
	if row.AverageOrderValue.Valid {
		out.AverageOrderValue = row.AverageOrderValue.Decimal
	}
	return out, nil
}
