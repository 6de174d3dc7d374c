package usecase_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"ecadmin/internal/domain/model"
	repo "ecadmin/internal/repository"
	"ecadmin/internal/usecase"
	"ecadmin/internal/validator"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type productFixture struct {
	tx         *TxManagerMock
	categories *CategoryRepoMock
	products   *ProductRepoMock
	inventory  *InventoryRepoMock
	cache      *CacheMock
	uc         *usecase.ProductUsecase
}

func newProductFixture() productFixture {
	f := productFixture{
		categories: new(CategoryRepoMock),
		products:   new(ProductRepoMock),
		inventory:  new(InventoryRepoMock),
		cache:      new(CacheMock),
	}
	f.tx = &TxManagerMock{Repos: &TxReposMock{
		categories: f.categories,
		products:   f.products,
		inventory:  f.inventory,
	}}
	f.uc = usecase.NewProductUsecase(f.tx, f.products, validator.New(), usecase.SideEffects{Cache: f.cache})
	return f
}

func createProductInput() usecase.CreateProductInput {
	return usecase.CreateProductInput{
		Name:       " Mug ",
		SKU:        "MUG-001",
		Price:      decimal.RequireFromString("12.50"),
		Cost:       decimal.RequireFromString("4.00"),
		CategoryID: 3,
	}
}

// =====================
// Create
// =====================

func TestProductUsecase_Create_WithDefaults(t *testing.T) {
	ctx := context.Background()
	f := newProductFixture()

	f.tx.On("WithinTx", mock.Anything).Return()
	f.categories.On("FindByID", mock.Anything, int64(3)).Return(model.Category{ID: 3, Name: "Kitchen"}, nil)
	f.products.On("Create", mock.Anything, mock.MatchedBy(func(p model.Product) bool {
		return p.Name == "Mug" && p.SKU == "MUG-001" && p.IsActive && p.CategoryID == 3 &&
			p.Price.Equal(decimal.RequireFromString("12.5"))
	})).Return(model.Product{ID: 10}, nil)
	f.inventory.On("Create", mock.Anything, model.Inventory{
		ProductID:         10,
		Quantity:          0,
		LowStockThreshold: 10,
	}).Return(model.Inventory{ID: 20, ProductID: 10}, nil)
	f.products.On("FindDetail", mock.Anything, int64(10)).Return(model.Product{
		ID:        10,
		Name:      "Mug",
		Category:  &model.Category{ID: 3, Name: "Kitchen"},
		Inventory: &model.Inventory{ID: 20, ProductID: 10, Quantity: 0, LowStockThreshold: 10},
	}, nil)

	out, err := f.uc.Create(ctx, createProductInput())
	require.NoError(t, err)
	assert.Equal(t, int64(10), out.ID)
	assert.Equal(t, int64(0), out.CurrentStock)
	assert.True(t, out.IsLowStock)
	assert.Equal(t, "Kitchen", out.Category.Name)
	assert.Nil(t, out.Product.Inventory)

	f.categories.AssertExpectations(t)
	f.products.AssertExpectations(t)
	f.inventory.AssertExpectations(t)
}

func TestProductUsecase_Create_InitialStockAndThreshold(t *testing.T) {
	ctx := context.Background()
	f := newProductFixture()

	in := createProductInput()
	in.InitialStock = int64Ptr(50)
	in.LowStockThreshold = int64Ptr(5)
	in.IsActive = boolPtr(false)

	f.tx.On("WithinTx", mock.Anything).Return()
	f.categories.On("FindByID", mock.Anything, int64(3)).Return(model.Category{ID: 3}, nil)
	f.products.On("Create", mock.Anything, mock.MatchedBy(func(p model.Product) bool {
		return !p.IsActive
	})).Return(model.Product{ID: 11}, nil)
	f.inventory.On("Create", mock.Anything, model.Inventory{
		ProductID:         11,
		Quantity:          50,
		LowStockThreshold: 5,
	}).Return(model.Inventory{ID: 21}, nil)
	f.products.On("FindDetail", mock.Anything, int64(11)).Return(model.Product{
		ID:        11,
		Inventory: &model.Inventory{Quantity: 50, LowStockThreshold: 5},
	}, nil)

	out, err := f.uc.Create(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, int64(50), out.CurrentStock)
	assert.False(t, out.IsLowStock)
}

func TestProductUsecase_Create_CategoryNotFound(t *testing.T) {
	f := newProductFixture()

	f.tx.On("WithinTx", mock.Anything).Return()
	f.categories.On("FindByID", mock.Anything, int64(3)).Return(model.Category{}, repo.ErrNotFound)

	_, err := f.uc.Create(context.Background(), createProductInput())
	he, ok := usecase.AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, he.Status)
	assert.Equal(t, "Category not found", he.Message)

	f.products.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestProductUsecase_Create_DuplicateSKU(t *testing.T) {
	f := newProductFixture()

	f.tx.On("WithinTx", mock.Anything).Return()
	f.categories.On("FindByID", mock.Anything, int64(3)).Return(model.Category{ID: 3}, nil)
	f.products.On("Create", mock.Anything, mock.Anything).Return(model.Product{}, repo.ErrDuplicate)

	_, err := f.uc.Create(context.Background(), createProductInput())
	he, ok := usecase.AsHTTPError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, he.Status)

	f.inventory.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestProductUsecase_Create_InventoryFailureIsDBError(t *testing.T) {
	f := newProductFixture()

	f.tx.On("WithinTx", mock.Anything).Return()
	f.categories.On("FindByID", mock.Anything, int64(3)).Return(model.Category{ID: 3}, nil)
	f.products.On("Create", mock.Anything, mock.Anything).Return(model.Product{ID: 10}, nil)
	f.inventory.On("Create", mock.Anything, mock.Anything).Return(model.Inventory{}, errors.New("boom"))

	_, err := f.uc.Create(context.Background(), createProductInput())
	assertErrContains(t, err, "db error")
}

func TestProductUsecase_Create_ValidationBeforeStore(t *testing.T) {
	f := newProductFixture()

	in := createProductInput()
	in.Cost = decimal.RequireFromString("-1")

	_, err := f.uc.Create(context.Background(), in)
	assertErrContains(t, err, "cost must be greater than 0")
	f.tx.AssertNotCalled(t, "WithinTx", mock.Anything)
}

// =====================
// List
// =====================

func TestProductUsecase_List_InvalidLimit(t *testing.T) {
	f := newProductFixture()

	_, err := f.uc.List(context.Background(), usecase.ListProductsInput{Page: repo.Page{Skip: 0, Limit: 1001}})
	assertErrContains(t, err, "invalid limit")
}

func TestProductUsecase_List_PassesFilters(t *testing.T) {
	f := newProductFixture()

	page := usecase.DefaultPage()
	f.products.On("List", mock.Anything, repo.ProductListFilter{
		CategoryID:   int64Ptr(3),
		LowStockOnly: true,
		Page:         page,
	}).Return([]model.Product{
		{ID: 1, Inventory: &model.Inventory{Quantity: 2, LowStockThreshold: 10}},
		{ID: 2},
	}, nil)

	outs, err := f.uc.List(context.Background(), usecase.ListProductsInput{
		CategoryID:   int64Ptr(3),
		LowStockOnly: true,
		Page:         page,
	})
	require.NoError(t, err)
	require.Len(t, outs, 2)
	assert.Equal(t, int64(2), outs[0].CurrentStock)
	assert.True(t, outs[0].IsLowStock)
	// 在庫が無い商品は 0 / false
	assert.Equal(t, int64(0), outs[1].CurrentStock)
	assert.False(t, outs[1].IsLowStock)
}

// =====================
// Update
// =====================

func TestProductUsecase_Update_NotFound(t *testing.T) {
	f := newProductFixture()

	f.tx.On("WithinTx", mock.Anything).Return()
	f.products.On("FindByID", mock.Anything, int64(9)).Return(model.Product{}, repo.ErrNotFound)

	_, err := f.uc.Update(context.Background(), 9, usecase.UpdateProductInput{Name: strPtr("x")})
	assertErrContains(t, err, "Product not found")
	f.cache.AssertNotCalled(t, "Bump", mock.Anything)
}

func TestProductUsecase_Update_CategoryNotFound(t *testing.T) {
	f := newProductFixture()

	f.tx.On("WithinTx", mock.Anything).Return()
	f.products.On("FindByID", mock.Anything, int64(9)).Return(model.Product{ID: 9}, nil)
	f.categories.On("FindByID", mock.Anything, int64(42)).Return(model.Category{}, repo.ErrNotFound)

	_, err := f.uc.Update(context.Background(), 9, usecase.UpdateProductInput{CategoryID: int64Ptr(42)})
	assertErrContains(t, err, "Category not found")
	f.products.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestProductUsecase_Update_PartialAndBumpsCache(t *testing.T) {
	ctx := context.Background()
	f := newProductFixture()

	price := decimal.RequireFromString("19.99")
	f.tx.On("WithinTx", mock.Anything).Return()
	f.products.On("FindByID", mock.Anything, int64(9)).Return(model.Product{ID: 9}, nil)
	f.products.On("Update", mock.Anything, int64(9), repo.ProductPatch{
		Price:    &price,
		IsActive: boolPtr(false),
	}).Return(nil)
	f.cache.On("Bump", mock.Anything).Return(nil)
	f.products.On("FindDetail", mock.Anything, int64(9)).Return(model.Product{ID: 9, Price: price}, nil)

	out, err := f.uc.Update(ctx, 9, usecase.UpdateProductInput{Price: &price, IsActive: boolPtr(false)})
	require.NoError(t, err)
	assert.True(t, out.Price.Equal(price))

	f.products.AssertExpectations(t)
	f.cache.AssertExpectations(t)
	f.categories.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestProductUsecase_Update_DescriptionNullClears(t *testing.T) {
	f := newProductFixture()

	f.tx.On("WithinTx", mock.Anything).Return()
	f.products.On("FindByID", mock.Anything, int64(9)).Return(model.Product{ID: 9}, nil)
	f.products.On("Update", mock.Anything, int64(9), repo.ProductPatch{SetDescription: true}).Return(nil)
	f.cache.On("Bump", mock.Anything).Return(nil)
	f.products.On("FindDetail", mock.Anything, int64(9)).Return(model.Product{ID: 9}, nil)

	var in usecase.UpdateProductInput
	require.NoError(t, json.Unmarshal([]byte(`{"description": null}`), &in))

	out, err := f.uc.Update(context.Background(), 9, in)
	require.NoError(t, err)
	assert.Nil(t, out.Description)
	f.products.AssertExpectations(t)
}

func TestProductUsecase_Update_DescriptionSetAndOmitted(t *testing.T) {
	f := newProductFixture()

	desc := "new text"
	f.tx.On("WithinTx", mock.Anything).Return()
	f.products.On("FindByID", mock.Anything, int64(9)).Return(model.Product{ID: 9}, nil)
	f.products.On("Update", mock.Anything, int64(9), repo.ProductPatch{Description: &desc, SetDescription: true}).Return(nil).Once()
	f.products.On("Update", mock.Anything, int64(9), repo.ProductPatch{Name: strPtr("x")}).Return(nil).Once()
	f.cache.On("Bump", mock.Anything).Return(nil)
	f.products.On("FindDetail", mock.Anything, int64(9)).Return(model.Product{ID: 9}, nil)

	_, err := f.uc.Update(context.Background(), 9, usecase.UpdateProductInput{Description: usecase.SetString("new text")})
	require.NoError(t, err)

	// キー無しは変更しない
	var in usecase.UpdateProductInput
	require.NoError(t, json.Unmarshal([]byte(`{"name": "x"}`), &in))
	assert.False(t, in.Description.Set)

	_, err = f.uc.Update(context.Background(), 9, in)
	require.NoError(t, err)
	f.products.AssertExpectations(t)
}

func TestOptionalString_UnmarshalJSON(t *testing.T) {
	cases := []struct {
		name string
		body string
		want usecase.OptionalString
	}{
		{"missing", `{}`, usecase.OptionalString{}},
		{"null", `{"description": null}`, usecase.NullString()},
		{"value", `{"description": "abc"}`, usecase.SetString("abc")},
		{"empty string", `{"description": ""}`, usecase.SetString("")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var in usecase.UpdateProductInput
			require.NoError(t, json.Unmarshal([]byte(tc.body), &in))
			assert.Equal(t, tc.want, in.Description)
		})
	}

	var in usecase.UpdateProductInput
	assert.Error(t, json.Unmarshal([]byte(`{"description": 12}`), &in))
}

func TestProductUsecase_Update_CacheFailureDoesNotFail(t *testing.T) {
	f := newProductFixture()

	f.tx.On("WithinTx", mock.Anything).Return()
	f.products.On("FindByID", mock.Anything, int64(9)).Return(model.Product{ID: 9}, nil)
	f.products.On("Update", mock.Anything, int64(9), mock.Anything).Return(nil)
	f.cache.On("Bump", mock.Anything).Return(errors.New("redis down"))
	f.products.On("FindDetail", mock.Anything, int64(9)).Return(model.Product{ID: 9}, nil)

	_, err := f.uc.Update(context.Background(), 9, usecase.UpdateProductInput{Name: strPtr("New")})
	assert.NoError(t, err)
}

func TestProductUsecase_Update_InvalidID(t *testing.T) {
	f := newProductFixture()

	_, err := f.uc.Update(context.Background(), 0, usecase.UpdateProductInput{})
	assertErrContains(t, err, "invalid product id")
}
