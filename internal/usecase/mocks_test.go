package usecase_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"ecadmin/internal/domain/model"
	repo "ecadmin/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// TxManager / TxRepos mocks
// =====================

// TxManagerMock は WithinTx の中で渡す repos を固定する
type TxManagerMock struct {
	mock.Mock
	Repos repo.TxRepos
}

func (m *TxManagerMock) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	m.Called(ctx)
	return fn(m.Repos)
}

type TxReposMock struct {
	categories    repo.CategoryRepository
	products      repo.ProductRepository
	inventory     repo.InventoryRepository
	inventoryLogs repo.InventoryLogRepository
	sales         repo.SaleRepository
}

func (r *TxReposMock) Categories() repo.CategoryRepository        { return r.categories }
func (r *TxReposMock) Products() repo.ProductRepository           { return r.products }
func (r *TxReposMock) Inventory() repo.InventoryRepository        { return r.inventory }
func (r *TxReposMock) InventoryLogs() repo.InventoryLogRepository { return r.inventoryLogs }
func (r *TxReposMock) Sales() repo.SaleRepository                 { return r.sales }

// =====================
// Repository mocks
// =====================

type CategoryRepoMock struct{ mock.Mock }

func (m *CategoryRepoMock) Create(ctx context.Context, c model.Category) (model.Category, error) {
	args := m.Called(ctx, c)
	created, _ := args.Get(0).(model.Category)
	return created, args.Error(1)
}

func (m *CategoryRepoMock) FindByID(ctx context.Context, id int64) (model.Category, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(model.Category)
	return c, args.Error(1)
}

func (m *CategoryRepoMock) List(ctx context.Context, page repo.Page) ([]model.Category, error) {
	args := m.Called(ctx, page)
	items, _ := args.Get(0).([]model.Category)
	return items, args.Error(1)
}

type ProductRepoMock struct{ mock.Mock }

func (m *ProductRepoMock) Create(ctx context.Context, p model.Product) (model.Product, error) {
	args := m.Called(ctx, p)
	created, _ := args.Get(0).(model.Product)
	return created, args.Error(1)
}

func (m *ProductRepoMock) FindByID(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProductRepoMock) FindDetail(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProductRepoMock) List(ctx context.Context, f repo.ProductListFilter) ([]model.Product, error) {
	args := m.Called(ctx, f)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Error(1)
}

func (m *ProductRepoMock) Update(ctx context.Context, id int64, patch repo.ProductPatch) error {
	args := m.Called(ctx, id, patch)
	return args.Error(0)
}

type InventoryRepoMock struct{ mock.Mock }

func (m *InventoryRepoMock) Create(ctx context.Context, inv model.Inventory) (model.Inventory, error) {
	args := m.Called(ctx, inv)
	created, _ := args.Get(0).(model.Inventory)
	return created, args.Error(1)
}

func (m *InventoryRepoMock) FindByIDForUpdate(ctx context.Context, id int64) (model.Inventory, error) {
	args := m.Called(ctx, id)
	inv, _ := args.Get(0).(model.Inventory)
	return inv, args.Error(1)
}

func (m *InventoryRepoMock) FindByProductIDForUpdate(ctx context.Context, productID int64) (model.Inventory, bool, error) {
	args := m.Called(ctx, productID)
	inv, _ := args.Get(0).(model.Inventory)
	return inv, args.Bool(1), args.Error(2)
}

func (m *InventoryRepoMock) FindDetail(ctx context.Context, id int64) (model.Inventory, error) {
	args := m.Called(ctx, id)
	inv, _ := args.Get(0).(model.Inventory)
	return inv, args.Error(1)
}

func (m *InventoryRepoMock) UpdateQuantity(ctx context.Context, id int64, quantity int64) error {
	args := m.Called(ctx, id, quantity)
	return args.Error(0)
}

func (m *InventoryRepoMock) List(ctx context.Context, f repo.InventoryListFilter) ([]model.Inventory, error) {
	args := m.Called(ctx, f)
	items, _ := args.Get(0).([]model.Inventory)
	return items, args.Error(1)
}

type InventoryLogRepoMock struct{ mock.Mock }

func (m *InventoryLogRepoMock) Create(ctx context.Context, log model.InventoryLog) (model.InventoryLog, error) {
	args := m.Called(ctx, log)
	created, _ := args.Get(0).(model.InventoryLog)
	return created, args.Error(1)
}

func (m *InventoryLogRepoMock) List(ctx context.Context, f repo.InventoryLogFilter) ([]model.InventoryLog, error) {
	args := m.Called(ctx, f)
	items, _ := args.Get(0).([]model.InventoryLog)
	return items, args.Error(1)
}

type SaleRepoMock struct{ mock.Mock }

func (m *SaleRepoMock) Create(ctx context.Context, s model.Sale) (model.Sale, error) {
	args := m.Called(ctx, s)
	created, _ := args.Get(0).(model.Sale)
	return created, args.Error(1)
}

func (m *SaleRepoMock) FindDetail(ctx context.Context, id int64) (model.Sale, error) {
	args := m.Called(ctx, id)
	s, _ := args.Get(0).(model.Sale)
	return s, args.Error(1)
}

func (m *SaleRepoMock) List(ctx context.Context, f repo.SaleListFilter) ([]model.Sale, error) {
	args := m.Called(ctx, f)
	items, _ := args.Get(0).([]model.Sale)
	return items, args.Error(1)
}

func (m *SaleRepoMock) Aggregate(ctx context.Context, start, end time.Time, f model.SalesFilter) (model.SalesAnalytics, error) {
	args := m.Called(ctx, start, end, f)
	a, _ := args.Get(0).(model.SalesAnalytics)
	return a, args.Error(1)
}

// =====================
// side effect mocks
// =====================

type NotifierMock struct{ mock.Mock }

func (m *NotifierMock) NotifyLowStock(ctx context.Context, inv model.Inventory) error {
	args := m.Called(ctx, inv)
	return args.Error(0)
}

type MetricsMock struct{ mock.Mock }

func (m *MetricsMock) ObserveAdjustment(changeType string) { m.Called(changeType) }
func (m *MetricsMock) ObserveSale()                        { m.Called() }
func (m *MetricsMock) ObserveLowStockAlert()               { m.Called() }

type CacheMock struct{ mock.Mock }

func (m *CacheMock) BuildKey(ctx context.Context, parts ...string) (string, error) {
	args := m.Called(ctx, parts)
	return args.String(0), args.Error(1)
}

// FetchJSON はキャッシュミス扱いで常にloaderを呼ぶ
func (m *CacheMock) FetchJSON(ctx context.Context, key string, dest interface{}, loader func(context.Context) (interface{}, error)) error {
	args := m.Called(ctx, key)
	if err := args.Error(0); err != nil {
		return err
	}
	v, err := loader(ctx)
	if err != nil {
		return err
	}
	if a, ok := v.(model.SalesAnalytics); ok {
		*(dest.(*model.SalesAnalytics)) = a
	}
	return nil
}

func (m *CacheMock) Bump(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

// =====================
// Helpers
// =====================

// HTTPErrorの実装詳細に依存しない
func assertErrContains(t *testing.T, err error, wantSubstr string) {
	t.Helper()
	if assert.Error(t, err) {
		assert.True(t, strings.Contains(err.Error(), wantSubstr), "err=%q want contains %q", err.Error(), wantSubstr)
	}
}

func int64Ptr(v int64) *int64 { return &v }
func strPtr(v string) *string { return &v }
func boolPtr(v bool) *bool    { return &v }
