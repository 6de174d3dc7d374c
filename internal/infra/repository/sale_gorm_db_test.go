package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"ecadmin/internal/domain/model"
	infradb "ecadmin/internal/infra/db"
	repo "ecadmin/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB接続文字列を環境変数から読む。無ければスキップ
func testDSN() string {
	if v := os.Getenv("TEST_DATABASE_DSN"); v != "" {
		return v
	}
	return os.Getenv("DATABASE_URL")
}

// テストごとにTxを張り、最後にrollbackする
func openTestTx(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := testDSN()
	if dsn == "" {
		t.Skip("TEST_DATABASE_DSN / DATABASE_URL not set")
	}
	gormDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, infradb.Migrate(gormDB))

	tx := gormDB.Begin()
	require.NoError(t, tx.Error)
	t.Cleanup(func() { _ = tx.Rollback().Error })
	return tx
}

type saleSeed struct {
	category  model.Category
	other     model.Category
	productA  model.Product
	productB  model.Product
	windowEnd time.Time
}

// カテゴリ2つ・商品2つ・売上3件
// productA(category): 100 (1/10, shopify) と 50 (1/31 00:00 = 窓の終わりちょうど)
// productB(other):    30 (1/15)
func seedSales(t *testing.T, tx *gorm.DB) saleSeed {
	t.Helper()
	ctx := context.Background()
	suffix := uuid.NewString()

	categories := NewCategoryGormRepository(tx)
	products := NewProductGormRepository(tx)
	sales := NewSaleGormRepository(tx)

	cat, err := categories.Create(ctx, model.Category{Name: "agg-" + suffix})
	require.NoError(t, err)
	other, err := categories.Create(ctx, model.Category{Name: "agg-other-" + suffix})
	require.NoError(t, err)

	newProduct := func(sku string, categoryID int64) model.Product {
		p, err := products.Create(ctx, model.Product{
			Name:       sku,
			SKU:        sku,
			Price:      decimal.NewFromInt(10),
			Cost:       decimal.NewFromInt(5),
			CategoryID: categoryID,
			IsActive:   true,
		})
		require.NoError(t, err)
		return p
	}
	a := newProduct("A-"+suffix[:8], cat.ID)
	b := newProduct("B-"+suffix[:8], other.ID)

	shopify := "shopify"
	end := time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)
	for _, s := range []model.Sale{
		{ProductID: a.ID, Quantity: 2, UnitPrice: decimal.NewFromInt(50), TotalAmount: decimal.NewFromInt(100), Platform: &shopify, SaleDate: time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)},
		{ProductID: a.ID, Quantity: 1, UnitPrice: decimal.NewFromInt(50), TotalAmount: decimal.NewFromInt(50), SaleDate: end},
		{ProductID: b.ID, Quantity: 3, UnitPrice: decimal.NewFromInt(10), TotalAmount: decimal.NewFromInt(30), SaleDate: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
	} {
		_, err := sales.Create(ctx, s)
		require.NoError(t, err)
	}

	return saleSeed{category: cat, other: other, productA: a, productB: b, windowEnd: end}
}

func TestSaleGorm_Aggregate(t *testing.T) {
	tx := openTestTx(t)
	seed := seedSales(t, tx)
	sales := NewSaleGormRepository(tx)
	ctx := context.Background()
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("category filter: 100 + 50 => 150 / 2 / 75", func(t *testing.T) {
		got, err := sales.Aggregate(ctx, start, seed.windowEnd, model.SalesFilter{CategoryID: &seed.category.ID})
		require.NoError(t, err)
		assert.True(t, got.TotalRevenue.Equal(decimal.NewFromInt(150)), got.TotalRevenue.String())
		assert.Equal(t, int64(2), got.TotalOrders)
		assert.Equal(t, int64(3), got.TotalQuantitySold)
		assert.True(t, got.AverageOrderValue.Equal(decimal.NewFromInt(75)), got.AverageOrderValue.String())
	})

	t.Run("other category only sees its own sale", func(t *testing.T) {
		got, err := sales.Aggregate(ctx, start, seed.windowEnd, model.SalesFilter{CategoryID: &seed.other.ID})
		require.NoError(t, err)
		assert.True(t, got.TotalRevenue.Equal(decimal.NewFromInt(30)))
		assert.Equal(t, int64(1), got.TotalOrders)
	})

	t.Run("end is inclusive", func(t *testing.T) {
		got, err := sales.Aggregate(ctx, start, seed.windowEnd.Add(-time.Second), model.SalesFilter{ProductID: &seed.productA.ID})
		require.NoError(t, err)
		assert.True(t, got.TotalRevenue.Equal(decimal.NewFromInt(100)))
		assert.Equal(t, int64(1), got.TotalOrders)

		got, err = sales.Aggregate(ctx, seed.windowEnd, seed.windowEnd, model.SalesFilter{ProductID: &seed.productA.ID})
		require.NoError(t, err)
		assert.True(t, got.TotalRevenue.Equal(decimal.NewFromInt(50)))
	})

	t.Run("filters are ANDed", func(t *testing.T) {
		shopify := "shopify"
		got, err := sales.Aggregate(ctx, start, seed.windowEnd, model.SalesFilter{
			CategoryID: &seed.category.ID,
			ProductID:  &seed.productA.ID,
			Platform:   &shopify,
		})
		require.NoError(t, err)
		assert.True(t, got.TotalRevenue.Equal(decimal.NewFromInt(100)))
		assert.Equal(t, int64(1), got.TotalOrders)

		got, err = sales.Aggregate(ctx, start, seed.windowEnd, model.SalesFilter{
			CategoryID: &seed.category.ID,
			ProductID:  &seed.productB.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(0), got.TotalOrders)
	})

	t.Run("empty window is all zeros", func(t *testing.T) {
		emptyStart := time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC)
		emptyEnd := time.Date(1990, 1, 31, 0, 0, 0, 0, time.UTC)
		got, err := sales.Aggregate(ctx, emptyStart, emptyEnd, model.SalesFilter{CategoryID: &seed.category.ID})
		require.NoError(t, err)
		assert.True(t, got.TotalRevenue.IsZero())
		assert.Equal(t, int64(0), got.TotalOrders)
		assert.Equal(t, int64(0), got.TotalQuantitySold)
		assert.True(t, got.AverageOrderValue.IsZero())
		assert.True(t, got.PeriodStart.Equal(emptyStart))
		assert.True(t, got.PeriodEnd.Equal(emptyEnd))
	})
}

// limit無しでもskipは効く
func TestSaleGorm_List_SkipWithoutLimit(t *testing.T) {
	tx := openTestTx(t)
	seed := seedSales(t, tx)
	sales := NewSaleGormRepository(tx)

	all, err := sales.List(context.Background(), repo.SaleListFilter{ProductID: &seed.productA.ID})
	require.NoError(t, err)
	require.Len(t, all, 2)
	//新しい順
	assert.True(t, all[0].SaleDate.Equal(seed.windowEnd))

	rest, err := sales.List(context.Background(), repo.SaleListFilter{
		ProductID: &seed.productA.ID,
		Page:      repo.Page{Skip: 1},
	})
	require.NoError(t, err)
	require.Len(t, rest, 1)
	assert.Equal(t, all[1].ID, rest[0].ID)
}
