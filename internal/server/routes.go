package server

import (
	"time"

	"ecadmin/internal/config"
	"ecadmin/internal/handler"
	"ecadmin/internal/middleware"
	"ecadmin/internal/observability"

	"github.com/labstack/echo/v4"
)

// Handlers はルートに載せるハンドラ一式
type Handlers struct {
	Categories *handler.CategoryHandler
	Products   *handler.ProductHandler
	Inventory  *handler.InventoryHandler
	Sales      *handler.SaleHandler
}

func RegisterRoutes(e *echo.Echo, cfg config.Config, metrics *observability.Metrics, h Handlers) {
	//認証なし
	handler.NewHealthHandler(time.Now).RegisterRoutes(e)
	e.GET("/metrics", echo.WrapHandler(metrics.Handler()))

	//管理API。AUTH_JWT_SECRETが空なら素通し
	admin := e.Group("",
		middleware.AuthJWT(cfg.AuthJWTSecret),
		middleware.AdminRoleGuard(cfg.AuthJWTSecret),
	)
	if h.Categories != nil {
		h.Categories.RegisterRoutes(admin)
	}
	if h.Products != nil {
		h.Products.RegisterRoutes(admin)
	}
	if h.Inventory != nil {
		h.Inventory.RegisterRoutes(admin)
	}
	if h.Sales != nil {
		h.Sales.RegisterRoutes(admin)
	}
}
