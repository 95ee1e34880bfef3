package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/moveswift/logistics-console/internal/core/ports"
)

// PreferencesHandler exposes the persisted display preference.
type PreferencesHandler struct {
	session ports.SessionService
}

func NewPreferencesHandler(session ports.SessionService) *PreferencesHandler {
	return &PreferencesHandler{session: session}
}

type preferencesRequest struct {
	Theme string `json:"theme" validate:"required,oneof=light dark"`
}

type preferencesResponse struct {
	Theme string `json:"theme"`
}

// Get returns the stored preferences.
//
// @Summary      Get preferences
// @Tags         preferences
// @Produce      json
// @Success      200  {object}  preferencesResponse
// @Router       /preferences [get]
func (h *PreferencesHandler) Get(c echo.Context) error {
	theme, err := h.session.Theme(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, preferencesResponse{Theme: theme})
}

// Update stores the preferences.
//
// @Summary      Update preferences
// @Tags         preferences
// @Accept       json
// @Produce      json
// @Param        body  body      preferencesRequest  true  "Preferences"
// @Success      200   {object}  preferencesResponse
// @Failure      422   {object}  map[string]string
// @Router       /preferences [put]
func (h *PreferencesHandler) Update(c echo.Context) error {
	var req preferencesRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.session.SetTheme(c.Request().Context(), req.Theme); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, preferencesResponse{Theme: req.Theme})
}
