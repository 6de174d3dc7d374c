package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"ecadmin/internal/domain/model"
	repo "ecadmin/internal/repository"

	"github.com/shopspring/decimal"
)

type ProductUsecase struct {
	tx       repo.TransactionManager
	products repo.ProductRepository
	validate InputValidator
	effects  SideEffects
}

// DI
func NewProductUsecase(
	tx repo.TransactionManager,
	products repo.ProductRepository,
	validate InputValidator,
	effects SideEffects,
) *ProductUsecase {
	return &ProductUsecase{
		tx:       tx,
		products: products,
		validate: validate,
		effects:  effects,
	}
}

// POST /products の入力
type CreateProductInput struct {
	Name              string          `json:"name" validate:"required,max=200"`
	Description       *string         `json:"description"`
	SKU               string          `json:"sku" validate:"required,max=50"`
	Price             decimal.Decimal `json:"price" validate:"gt=0,money"`
	Cost              decimal.Decimal `json:"cost" validate:"gt=0,money"`
	CategoryID        int64           `json:"category_id" validate:"required"`
	IsActive          *bool           `json:"is_active"`
	InitialStock      *int64          `json:"initial_stock" validate:"omitnil,gte=0"`
	LowStockThreshold *int64          `json:"low_stock_threshold" validate:"omitnil,gte=0"`
}

// PUT /products/:id の入力。nilは変更しない（SKUは変更不可）
type UpdateProductInput struct {
	Name        *string          `json:"name" validate:"omitnil,min=1,max=200"`
	Description OptionalString   `json:"description"`
	Price       *decimal.Decimal `json:"price" validate:"omitnil,gt=0,money"`
	Cost        *decimal.Decimal `json:"cost" validate:"omitnil,gt=0,money"`
	CategoryID  *int64           `json:"category_id"`
	IsActive    *bool            `json:"is_active"`
}

// 未指定 / null / 値 の3状態を持つ文字列。nullならクリアする
type OptionalString struct {
	Set   bool
	Value *string
}

func SetString(v string) OptionalString { return OptionalString{Set: true, Value: &v} }

func NullString() OptionalString { return OptionalString{Set: true} }

// キーが存在するときだけ呼ばれる
func (o *OptionalString) UnmarshalJSON(b []byte) error {
	o.Set = true
	if string(b) == "null" {
		o.Value = nil
		return nil
	}
	var v string
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

type ListProductsInput struct {
	CategoryID   *int64
	IsActive     *bool
	LowStockOnly bool
	Page         repo.Page
}

// 商品と在庫を同じTxで作る
func (u *ProductUsecase) Create(ctx context.Context, in CreateProductInput) (ProductOutput, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.SKU = strings.TrimSpace(in.SKU)
	if err := u.validate.Struct(in); err != nil {
		return ProductOutput{}, err
	}

	isActive := true
	if in.IsActive != nil {
		isActive = *in.IsActive
	}
	var initialStock int64
	if in.InitialStock != nil {
		initialStock = *in.InitialStock
	}
	threshold := model.DefaultLowStockThreshold
	if in.LowStockThreshold != nil {
		threshold = *in.LowStockThreshold
	}

	var productID int64
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := r.Categories().FindByID(ctx, in.CategoryID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusNotFound, "Category not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		p, err := r.Products().Create(ctx, model.Product{
			Name:        in.Name,
			Description: in.Description,
			SKU:         in.SKU,
			Price:       in.Price,
			Cost:        in.Cost,
			CategoryID:  in.CategoryID,
			IsActive:    isActive,
		})
		if errors.Is(err, repo.ErrDuplicate) {
			return NewHTTPError(http.StatusConflict, "SKU already exists")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if _, err := r.Inventory().Create(ctx, model.Inventory{
			ProductID:         p.ID,
			Quantity:          initialStock,
			LowStockThreshold: threshold,
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		productID = p.ID
		return nil
	})
	if err != nil {
		return ProductOutput{}, dbError(err)
	}

	return u.detail(ctx, productID)
}

func (u *ProductUsecase) List(ctx context.Context, in ListProductsInput) ([]ProductOutput, error) {
	if err := checkPage(in.Page); err != nil {
		return []ProductOutput{}, err
	}

	items, err := u.products.List(ctx, repo.ProductListFilter{
		CategoryID:   in.CategoryID,
		IsActive:     in.IsActive,
		LowStockOnly: in.LowStockOnly,
		Page:         in.Page,
	})
	if err != nil {
		return []ProductOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	outs := make([]ProductOutput, 0, len(items))
	for _, p := range items {
		outs = append(outs, toProductOutput(p))
	}
	return outs, nil
}

// 部分更新。価格や有効フラグは集計に効くのでキャッシュも無効化する
func (u *ProductUsecase) Update(ctx context.Context, productID int64, in UpdateProductInput) (ProductOutput, error) {
	if productID <= 0 {
		return ProductOutput{}, NewHTTPError(http.StatusBadRequest, "invalid product id")
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		in.Name = &name
	}
	if err := u.validate.Struct(in); err != nil {
		return ProductOutput{}, err
	}

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := r.Products().FindByID(ctx, productID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusNotFound, "Product not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if in.CategoryID != nil {
			if _, err := r.Categories().FindByID(ctx, *in.CategoryID); err != nil {
				if errors.Is(err, repo.ErrNotFound) {
					return NewHTTPError(http.StatusNotFound, "Category not found")
				}
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
		}

		err := r.Products().Update(ctx, productID, repo.ProductPatch{
			Name:           in.Name,
			Description:    in.Description.Value,
			SetDescription: in.Description.Set,
			Price:          in.Price,
			Cost:           in.Cost,
			CategoryID:     in.CategoryID,
			IsActive:       in.IsActive,
		})
		if errors.Is(err, repo.ErrNotFound) {
			return NewHTTPError(http.StatusNotFound, "Product not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})
	if err != nil {
		return ProductOutput{}, dbError(err)
	}

	u.effects.bumpAnalytics(ctx)
	return u.detail(ctx, productID)
}

// カテゴリ・在庫込みで読み直す
func (u *ProductUsecase) detail(ctx context.Context, productID int64) (ProductOutput, error) {
	p, err := u.products.FindDetail(ctx, productID)
	if errors.Is(err, repo.ErrNotFound) {
		return ProductOutput{}, NewHTTPError(http.StatusNotFound, "Product not found")
	}
	if err != nil {
		return ProductOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return toProductOutput(p), nil
}
