package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/moveswift/logistics-console/internal/api/middleware"
	"github.com/moveswift/logistics-console/internal/core/domain"
)

// ctxAdmin returns the admin injected by the RequireSession middleware.
func ctxAdmin(c echo.Context) (*domain.Admin, error) {
	admin, _ := c.Get(middleware.ContextKeyAdmin).(*domain.Admin)
	if admin == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing session")
	}
	return admin, nil
}

// pathID returns a required path parameter.
func pathID(c echo.Context, name string) (string, error) {
	id := c.Param(name)
	if id == "" {
		return "", domain.NewValidationError("%s is required", name)
	}
	return id, nil
}

// bindAndValidate decodes the JSON body into req and runs the validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return c.Validate(req)
}
