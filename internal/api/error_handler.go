package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/moveswift/logistics-console/internal/core/domain"
)

const loginPath = "/login"

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error    string `json:"error"`
	Redirect string `json:"redirect,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that maps console
// errors to status codes and renders {"error": "<message>"}. A lost session
// also carries {"redirect": "/login"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, resp := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, resp)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	var (
		authErr *domain.AuthError
		valErr  *domain.ValidationError
		netErr  *domain.NetworkError
		apiErr  *domain.APIError
	)
	switch {
	case errors.As(err, &authErr):
		return http.StatusUnauthorized, errorResponse{Error: authErr.Message}
	case errors.As(err, &valErr):
		return http.StatusUnprocessableEntity, errorResponse{Error: valErr.Message}
	case errors.Is(err, domain.ErrSessionExpired), errors.Is(err, domain.ErrUnauthenticated):
		resp := errorResponse{Error: "Session expired. Please log in again."}
		if errors.Is(err, domain.ErrUnauthenticated) {
			resp.Error = "Authentication required"
		}
		if c.Path() != "/auth/login" {
			resp.Redirect = loginPath
		}
		return http.StatusUnauthorized, resp
	case domain.IsNotFound(err):
		return http.StatusNotFound, errorResponse{Error: domain.MessageFor(err, "not found")}
	case errors.As(err, &netErr):
		if netErr.Timeout {
			return http.StatusGatewayTimeout, errorResponse{Error: netErr.Message()}
		}
		return http.StatusServiceUnavailable, errorResponse{Error: netErr.Message()}
	case errors.As(err, &apiErr):
		return apiErr.Status, errorResponse{Error: apiErr.Error()}
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, errorResponse{Error: "access forbidden"}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
}
