package handler

import (
	"net/http"

	"ecadmin/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /products
type ProductHandler struct {
	uc *usecase.ProductUsecase
}

// DI
func NewProductHandler(uc *usecase.ProductUsecase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

func (h *ProductHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/products", h.create)
	g.GET("/products", h.list)
	g.PUT("/products/:id", h.update)
}

func (h *ProductHandler) create(c echo.Context) error {
	var in usecase.CreateProductInput
	if err := c.Bind(&in); err != nil {
		return badRequest(c, "invalid body")
	}

	out, err := h.uc.Create(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) list(c echo.Context) error {
	page, err := parsePage(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	categoryID, err := queryID(c, "category_id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	isActive, err := queryBool(c, "is_active")
	if err != nil {
		return badRequest(c, err.Error())
	}
	lowStockOnly, err := queryBool(c, "low_stock_only")
	if err != nil {
		return badRequest(c, err.Error())
	}

	outs, err := h.uc.List(c.Request().Context(), usecase.ListProductsInput{
		CategoryID:   categoryID,
		IsActive:     isActive,
		LowStockOnly: lowStockOnly != nil && *lowStockOnly,
		Page:         page,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, outs)
}

func (h *ProductHandler) update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	var in usecase.UpdateProductInput
	if err := c.Bind(&in); err != nil {
		return badRequest(c, "invalid body")
	}

	out, err := h.uc.Update(c.Request().Context(), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
