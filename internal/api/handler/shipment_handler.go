package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/moveswift/logistics-console/internal/console"
	"github.com/moveswift/logistics-console/internal/core/ports"
)

// ShipmentHandler handles HTTP requests for shipment operations.
type ShipmentHandler struct {
	shipments ports.ShipmentService
	logger    zerolog.Logger
}

func NewShipmentHandler(shipments ports.ShipmentService, logger zerolog.Logger) *ShipmentHandler {
	return &ShipmentHandler{shipments: shipments, logger: logger}
}

// List returns all shipments, narrowed by ?q=.
//
// @Summary      List shipments
// @Tags         shipments
// @Produce      json
// @Param        q    query     string  false  "Filter on tracking number, origin or destination"
// @Success      200  {object}  shipmentListResponse
// @Failure      503  {object}  map[string]string
// @Router       /shipments [get]
func (h *ShipmentHandler) List(c echo.Context) error {
	b := console.NewShipmentBoard(c.Request().Context(), h.shipments, h.logger)
	defer b.Close()

	if err := b.Load(c.Request().Context()); err != nil {
		return err
	}
	b.SetFilter(c.QueryParam("q"))
	return c.JSON(http.StatusOK, toShipmentList(b.Snapshot()))
}

// Create registers a shipment. Weight and price may be sent as text.
//
// @Summary      Create shipment
// @Tags         shipments
// @Accept       json
// @Produce      json
// @Param        body  body      createShipmentRequest  true  "Shipment"
// @Success      201   {object}  createShipmentResponse
// @Failure      422   {object}  map[string]string
// @Router       /shipments [post]
func (h *ShipmentHandler) Create(c echo.Context) error {
	var req createShipmentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	shipment, err := h.shipments.Create(c.Request().Context(), req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, createShipmentResponse{
		Message:  "Shipment created successfully",
		Shipment: shipment,
	})
}

// Get returns a shipment with its timeline.
//
// @Summary      Get shipment
// @Tags         shipments
// @Produce      json
// @Param        id   path      string  true  "Shipment ID"
// @Success      200  {object}  shipmentDetailResponse
// @Failure      404  {object}  map[string]string
// @Router       /shipments/{id} [get]
func (h *ShipmentHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	d := console.NewShipmentDetail(c.Request().Context(), h.shipments, h.logger)
	defer d.Close()

	if err := d.Load(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toShipmentDetail(d.Snapshot()))
}

// Update edits a shipment and answers with the reloaded record and timeline.
//
// @Summary      Update shipment
// @Tags         shipments
// @Accept       json
// @Produce      json
// @Param        id    path      string                 true  "Shipment ID"
// @Param        body  body      updateShipmentRequest  true  "Fields to change"
// @Success      200   {object}  shipmentDetailResponse
// @Failure      404   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /shipments/{id} [put]
func (h *ShipmentHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req updateShipmentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	d := console.NewShipmentDetail(c.Request().Context(), h.shipments, h.logger)
	defer d.Close()

	ctx := c.Request().Context()
	if err := d.Load(ctx, id); err != nil {
		return err
	}
	if err := d.Save(ctx, req.toUpdate()); err != nil {
		return err
	}
	resp := toShipmentDetail(d.Snapshot())
	resp.Message = "Shipment updated successfully"
	return c.JSON(http.StatusOK, resp)
}

// Delete soft-deletes a shipment and answers with the refreshed list.
//
// @Summary      Delete shipment
// @Tags         shipments
// @Produce      json
// @Param        id   path      string  true  "Shipment ID"
// @Success      200  {object}  shipmentListResponse
// @Failure      404  {object}  map[string]string
// @Router       /shipments/{id} [delete]
func (h *ShipmentHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	b := console.NewShipmentBoard(c.Request().Context(), h.shipments, h.logger)
	defer b.Close()

	if err := b.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toShipmentList(b.Snapshot()))
}
