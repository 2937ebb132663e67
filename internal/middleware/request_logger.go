package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// 全リクエストの完了ログを出す。
// 認証済みならuser_idも付ける。
func RequestLogger(logger *zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			ev := logger.Info().
				Str("method", c.Request().Method).
				Str("path", c.Request().URL.Path).
				Int("status", c.Response().Status).
				Dur("latency", time.Since(start)).
				Str("remote_ip", c.RealIP())

			if userID, ok := c.Get(CtxUserIDKey).(int64); ok && userID > 0 {
				ev = ev.Int64("user_id", userID)
			}

			ev.Msg("request completed")

			return nil
		}
	}
}
