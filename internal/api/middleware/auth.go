package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/moveswift/logistics-console/internal/core/domain"
	"github.com/moveswift/logistics-console/internal/core/ports"
)

// ContextKeyAdmin is the echo context key holding the signed-in *domain.Admin.
const ContextKeyAdmin = "admin"

// RequireSession rejects requests while the console has no authenticated
// session and injects the current admin into the context otherwise.
func RequireSession(identity ports.Identity) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			admin := identity.CurrentAdmin()
			if admin == nil {
				return domain.ErrUnauthenticated
			}
			c.Set(ContextKeyAdmin, admin)
			return next(c)
		}
	}
}
