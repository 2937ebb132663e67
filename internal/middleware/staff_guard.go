package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

//contextに入っているroleがSTAFFかどうかを確認します。

func StaffRoleGuard() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rawRole := c.Get(CtxUserRoleKey)
			role, ok := rawRole.(string)
			if !ok || role == "" {
				return c.JSON(http.StatusUnauthorized, detailJSON("unauthorized"))
			}

			//USERは拒否、STAFFだけ許可
			if role != "STAFF" {
				return c.JSON(http.StatusForbidden, detailJSON("staff only"))
			}

			return next(c)
		}
	}
}
