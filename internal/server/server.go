package server

import (
	"app/internal/config"
	"app/internal/handler"
	"app/internal/middleware"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Handlers はルート登録に必要なハンドラ一式。
type Handlers struct {
	Auth         *handler.AuthHandler
	Address      *handler.AddressHandler
	Cart         *handler.CartHandler
	Order        *handler.OrderHandler
	Product      *handler.ProductHandler
	StaffProduct *handler.StaffProductHandler
	Category     *handler.CategoryHandler
	AuditLog     *handler.AuditLogHandler
}

// New はechoを組み立てて返す。起動はしない（テストから使えるように）。
func New(cfg config.Config, logger *zerolog.Logger, h Handlers) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.RequestLogger(logger))

	RegisterRoutes(e, cfg, h)

	return e
}

// Start はサーバーを起動する。
func Start(e *echo.Echo, port string) error {
	addr := port
	if addr == "" {
		addr = "8080"
	}
	if addr[0] != ':' {
		addr = ":" + addr
	}

	return e.Start(addr)
}
