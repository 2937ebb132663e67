package server

import (
	"app/internal/config"

	"github.com/labstack/echo/v4"
)

// 全ルートをまとめて登録する。
func RegisterRoutes(e *echo.Echo, cfg config.Config, h Handlers) {
	h.Auth.RegisterRoutes(e, cfg)
	h.Address.RegisterRoutes(e, cfg)
	h.Cart.RegisterRoutes(e, cfg)
	h.Order.RegisterRoutes(e, cfg)
	h.Product.RegisterRoutes(e)
	h.StaffProduct.RegisterRoutes(e, cfg)
	h.Category.RegisterRoutes(e, cfg)
	h.AuditLog.RegisterRoutes(e, cfg)
}
