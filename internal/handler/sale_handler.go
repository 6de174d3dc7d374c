package handler

import (
	"net/http"
	"time"

	"ecadmin/internal/domain/model"
	"ecadmin/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// SaleCreateRequest は POST /sales の本文。
// sale_date はタイムゾーン無しの形式も受けるので文字列で受ける
type SaleCreateRequest struct {
	ProductID     int64           `json:"product_id"`
	Quantity      int64           `json:"quantity"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	CustomerEmail *string         `json:"customer_email"`
	Platform      *string         `json:"platform"`
	OrderID       *string         `json:"order_id"`
	SaleDate      *string         `json:"sale_date"`
}

// /sales と集計
type SaleHandler struct {
	sales     *usecase.SaleUsecase
	analytics *usecase.AnalyticsUsecase
}

// DI
func NewSaleHandler(sales *usecase.SaleUsecase, analytics *usecase.AnalyticsUsecase) *SaleHandler {
	return &SaleHandler{sales: sales, analytics: analytics}
}

func (h *SaleHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/sales", h.create)
	g.GET("/sales", h.list)
	g.GET("/sales/analytics", h.salesAnalytics)
	g.GET("/sales/revenue-comparison", h.revenueComparison)
}

func (h *SaleHandler) create(c echo.Context) error {
	var req SaleCreateRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	var saleDate *time.Time
	if req.SaleDate != nil && *req.SaleDate != "" {
		t, err := parseDate(*req.SaleDate)
		if err != nil {
			return badRequest(c, "invalid sale_date")
		}
		saleDate = &t
	}

	out, err := h.sales.Create(c.Request().Context(), usecase.CreateSaleInput{
		ProductID:     req.ProductID,
		Quantity:      req.Quantity,
		UnitPrice:     req.UnitPrice,
		CustomerEmail: req.CustomerEmail,
		Platform:      req.Platform,
		OrderID:       req.OrderID,
		SaleDate:      saleDate,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *SaleHandler) list(c echo.Context) error {
	page, err := parsePage(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	start, err := queryDate(c, "start_date")
	if err != nil {
		return badRequest(c, err.Error())
	}
	end, err := queryDate(c, "end_date")
	if err != nil {
		return badRequest(c, err.Error())
	}
	productID, err := queryID(c, "product_id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	outs, err := h.sales.List(c.Request().Context(), usecase.ListSalesInput{
		StartDate: start,
		EndDate:   end,
		ProductID: productID,
		Platform:  queryString(c, "platform"),
		Page:      page,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, outs)
}

// product_id / category_id / platform
func salesFilter(c echo.Context) (model.SalesFilter, error) {
	productID, err := queryID(c, "product_id")
	if err != nil {
		return model.SalesFilter{}, err
	}
	categoryID, err := queryID(c, "category_id")
	if err != nil {
		return model.SalesFilter{}, err
	}
	return model.SalesFilter{
		ProductID:  productID,
		CategoryID: categoryID,
		Platform:   queryString(c, "platform"),
	}, nil
}

func (h *SaleHandler) salesAnalytics(c echo.Context) error {
	start, err := queryDate(c, "start_date")
	if err != nil {
		return badRequest(c, err.Error())
	}
	end, err := queryDate(c, "end_date")
	if err != nil {
		return badRequest(c, err.Error())
	}
	filter, err := salesFilter(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	out, err := h.analytics.Analytics(c.Request().Context(), usecase.AnalyticsInput{
		Period:    model.Period(c.QueryParam("period")),
		StartDate: start,
		EndDate:   end,
		Filter:    filter,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *SaleHandler) revenueComparison(c echo.Context) error {
	filter, err := salesFilter(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	out, err := h.analytics.RevenueComparison(c.Request().Context(), model.Period(c.QueryParam("period")), filter)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
