package handler

import (
	"net/http"

	"ecadmin/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /categories
type CategoryHandler struct {
	uc *usecase.CategoryUsecase
}

// DI
func NewCategoryHandler(uc *usecase.CategoryUsecase) *CategoryHandler {
	return &CategoryHandler{uc: uc}
}

func (h *CategoryHandler) RegisterRoutes(g *echo.Group) {
	g.POST("/categories", h.create)
	g.GET("/categories", h.list)
}

func (h *CategoryHandler) create(c echo.Context) error {
	var in usecase.CreateCategoryInput
	if err := c.Bind(&in); err != nil {
		return badRequest(c, "invalid body")
	}

	cat, err := h.uc.Create(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, cat)
}

func (h *CategoryHandler) list(c echo.Context) error {
	page, err := parsePage(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	items, err := h.uc.List(c.Request().Context(), page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}
