package middleware

import (
	"net/http"

	"app/internal/domain/model"

	"github.com/labstack/echo/v4"
)

// min以上のロール階層を持つユーザーだけを通す。
func RoleGuard(min model.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			rawRole := c.Get(CtxUserRoleKey)
			roleStr, ok := rawRole.(string)
			if !ok || roleStr == "" {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			role := model.Role(roleStr)
			if !role.IsValid() {
				return c.JSON(http.StatusUnauthorized, errorJSON("unauthorized"))
			}

			//階層が足りなければ403
			if !role.AtLeast(min) {
				return c.JSON(http.StatusForbidden, errorJSON("forbidden"))
			}

			return next(c)
		}
	}
}
