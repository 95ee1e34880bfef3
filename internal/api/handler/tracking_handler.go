package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/moveswift/logistics-console/internal/console"
	"github.com/moveswift/logistics-console/internal/core/ports"
)

type TrackingHandler struct {
	shipments ports.ShipmentService
	logger    zerolog.Logger
}

func NewTrackingHandler(shipments ports.ShipmentService, logger zerolog.Logger) *TrackingHandler {
	return &TrackingHandler{shipments: shipments, logger: logger}
}

// Track looks a shipment up by tracking number.
//
// @Summary      Track shipment
// @Tags         tracking
// @Produce      json
// @Param        trackingNumber  path      string  true  "Tracking number"
// @Success      200             {object}  trackingResponse
// @Failure      404             {object}  map[string]string
// @Failure      422             {object}  map[string]string
// @Router       /track/{trackingNumber} [get]
func (h *TrackingHandler) Track(c echo.Context) error {
	l := console.NewTrackingLookup(c.Request().Context(), h.shipments, h.logger)
	defer l.Close()

	state, err := l.Lookup(c.Request().Context(), c.Param("trackingNumber"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTracking(state))
}
