package handler

import (
	"net/http"

	"ecadmin/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /inventory
type InventoryHandler struct {
	uc *usecase.InventoryUsecase
}

// DI
func NewInventoryHandler(uc *usecase.InventoryUsecase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

func (h *InventoryHandler) RegisterRoutes(g *echo.Group) {
	g.GET("/inventory", h.list)
	g.GET("/inventory/low-stock", h.lowStock)
	g.PUT("/inventory/:id", h.adjust)
	g.GET("/inventory/:id/logs", h.logs)
}

func (h *InventoryHandler) list(c echo.Context) error {
	page, err := parsePage(c)
	if err != nil {
		return badRequest(c, err.Error())
	}
	lowStockOnly, err := queryBool(c, "low_stock_only")
	if err != nil {
		return badRequest(c, err.Error())
	}

	outs, err := h.uc.List(c.Request().Context(), lowStockOnly != nil && *lowStockOnly, page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, outs)
}

func (h *InventoryHandler) lowStock(c echo.Context) error {
	page, err := parseOptionalPage(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	outs, err := h.uc.LowStock(c.Request().Context(), page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, outs)
}

func (h *InventoryHandler) adjust(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}

	var in usecase.AdjustInventoryInput
	if err := c.Bind(&in); err != nil {
		return badRequest(c, "invalid body")
	}

	out, err := h.uc.Adjust(c.Request().Context(), id, in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *InventoryHandler) logs(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return badRequest(c, err.Error())
	}
	page, err := parsePage(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	items, err := h.uc.Logs(c.Request().Context(), id, page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}
