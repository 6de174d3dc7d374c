package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"ecadmin/internal/domain/model"
	repo "ecadmin/internal/repository"

	"github.com/shopspring/decimal"
)

type SaleUsecase struct {
	tx       repo.TransactionManager
	sales    repo.SaleRepository
	clock    Clock
	validate InputValidator
	effects  SideEffects
}

// DI
func NewSaleUsecase(
	tx repo.TransactionManager,
	sales repo.SaleRepository,
	clock Clock,
	validate InputValidator,
	effects SideEffects,
) *SaleUsecase {
	return &SaleUsecase{
		tx:       tx,
		sales:    sales,
		clock:    clock,
		validate: validate,
		effects:  effects,
	}
}

// POST /sales の入力
type CreateSaleInput struct {
	ProductID     int64           `json:"product_id" validate:"required"`
	Quantity      int64           `json:"quantity" validate:"gt=0"`
	UnitPrice     decimal.Decimal `json:"unit_price" validate:"gt=0,money"`
	CustomerEmail *string         `json:"customer_email" validate:"omitnil,max=100"`
	Platform      *string         `json:"platform" validate:"omitnil,max=50"`
	OrderID       *string         `json:"order_id" validate:"omitnil,max=100"`
	SaleDate      *time.Time      `json:"sale_date"`
}

type ListSalesInput struct {
	StartDate *time.Time
	EndDate   *time.Time
	ProductID *int64
	Platform  *string
	Page      repo.Page
}

// Create は売上を記録し、同じTxで在庫を減らす（0で下げ止まり）。
// 販売による減算は在庫ログを残さない。
func (u *SaleUsecase) Create(ctx context.Context, in CreateSaleInput) (SaleOutput, error) {
	if err := u.validate.Struct(in); err != nil {
		return SaleOutput{}, err
	}

	saleDate := u.clock.Now().UTC()
	if in.SaleDate != nil {
		saleDate = in.SaleDate.UTC()
	}

	var (
		saleID      int64
		decremented *model.Inventory
	)
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		if _, err := r.Products().FindByID(ctx, in.ProductID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return NewHTTPError(http.StatusNotFound, "Product not found")
			}
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		s, err := r.Sales().Create(ctx, model.Sale{
			ProductID:     in.ProductID,
			Quantity:      in.Quantity,
			UnitPrice:     in.UnitPrice,
			TotalAmount:   model.SaleTotal(in.Quantity, in.UnitPrice),
			CustomerEmail: in.CustomerEmail,
			Platform:      in.Platform,
			OrderID:       in.OrderID,
			SaleDate:      saleDate,
		})
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		saleID = s.ID

		inv, found, err := r.Inventory().FindByProductIDForUpdate(ctx, in.ProductID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if !found {
			//在庫行の無い商品は売上だけ記録する
			return nil
		}

		inv.Quantity = model.DecrementStock(inv.Quantity, in.Quantity)
		if err := r.Inventory().UpdateQuantity(ctx, inv.ID, inv.Quantity); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		decremented = &inv
		return nil
	})
	if err != nil {
		return SaleOutput{}, dbError(err)
	}

	u.effects.observeSale()
	u.effects.bumpAnalytics(ctx)
	if decremented != nil {
		u.effects.alertIfLow(ctx, *decremented)
	}

	s, err := u.sales.FindDetail(ctx, saleID)
	if err != nil {
		return SaleOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return toSaleOutput(s), nil
}

// sale_dateの新しい順
func (u *SaleUsecase) List(ctx context.Context, in ListSalesInput) ([]SaleOutput, error) {
	if err := checkPage(in.Page); err != nil {
		return []SaleOutput{}, err
	}
	if in.Platform != nil {
		p := strings.TrimSpace(*in.Platform)
		in.Platform = &p
	}

	items, err := u.sales.List(ctx, repo.SaleListFilter{
		StartDate: in.StartDate,
		EndDate:   in.EndDate,
		ProductID: in.ProductID,
		Platform:  in.Platform,
		Page:      in.Page,
	})
	if err != nil {
		return []SaleOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	outs := make([]SaleOutput, 0, len(items))
	for _, s := range items {
		outs = append(outs, toSaleOutput(s))
	}
	return outs, nil
}
