package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/moveswift/logistics-console/internal/core/domain"
)

// RequireActiveAdmin refuses blocked accounts. It must run after RequireSession.
func RequireActiveAdmin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			admin, _ := c.Get(ContextKeyAdmin).(*domain.Admin)
			if admin == nil || admin.IsBlocked {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
