package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/moveswift/logistics-console/internal/console"
	"github.com/moveswift/logistics-console/internal/core/ports"
)

// CustomerHandler serves the customers screen. Each request drives its own
// CustomerBoard so mutations answer with both refreshed collections.
type CustomerHandler struct {
	customers ports.CustomerService
	logger    zerolog.Logger
}

func NewCustomerHandler(customers ports.CustomerService, logger zerolog.Logger) *CustomerHandler {
	return &CustomerHandler{customers: customers, logger: logger}
}

func (h *CustomerHandler) board(c echo.Context) *console.CustomerBoard {
	return console.NewCustomerBoard(c.Request().Context(), h.customers, h.logger)
}

// List returns active and deleted customers, narrowed by ?q=.
//
// @Summary      List customers
// @Tags         customers
// @Produce      json
// @Param        q    query     string  false  "Filter on name, email or phone"
// @Success      200  {object}  customerListResponse
// @Failure      401  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /customers [get]
func (h *CustomerHandler) List(c echo.Context) error {
	b := h.board(c)
	defer b.Close()

	if err := b.Load(c.Request().Context()); err != nil {
		return err
	}
	b.SetFilter(c.QueryParam("q"))
	return c.JSON(http.StatusOK, toCustomerList(b.Snapshot()))
}

// Get returns one customer.
//
// @Summary      Get customer
// @Tags         customers
// @Produce      json
// @Param        id   path      string  true  "Customer ID"
// @Success      200  {object}  domain.Customer
// @Failure      404  {object}  map[string]string
// @Router       /customers/{id} [get]
func (h *CustomerHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	customer, err := h.customers.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, customer)
}

// Create registers a customer.
//
// @Summary      Create customer
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        body  body      createCustomerRequest  true  "Customer"
// @Success      201   {object}  customerMutationResponse
// @Failure      422   {object}  map[string]string
// @Router       /customers [post]
func (h *CustomerHandler) Create(c echo.Context) error {
	var req createCustomerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	b := h.board(c)
	defer b.Close()

	customer, err := b.Create(c.Request().Context(), req.toInput())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, customerMutationResponse{
		Message:              "Customer created successfully",
		Customer:             customer,
		customerListResponse: toCustomerList(b.Snapshot()),
	})
}

// Update edits a customer; omitted fields are left unchanged.
//
// @Summary      Update customer
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        id    path      string                 true  "Customer ID"
// @Param        body  body      updateCustomerRequest  true  "Fields to change"
// @Success      200   {object}  customerMutationResponse
// @Failure      404   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /customers/{id} [put]
func (h *CustomerHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req updateCustomerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	b := h.board(c)
	defer b.Close()

	customer, err := b.Update(c.Request().Context(), id, req.toPatch())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, customerMutationResponse{
		Message:              "Customer updated successfully",
		Customer:             customer,
		customerListResponse: toCustomerList(b.Snapshot()),
	})
}

// Delete soft-deletes a customer.
//
// @Summary      Delete customer
// @Tags         customers
// @Produce      json
// @Param        id   path      string  true  "Customer ID"
// @Success      200  {object}  customerMutationResponse
// @Failure      404  {object}  map[string]string
// @Router       /customers/{id} [delete]
func (h *CustomerHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	b := h.board(c)
	defer b.Close()

	if err := b.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, customerMutationResponse{
		Message:              "Customer deleted successfully",
		customerListResponse: toCustomerList(b.Snapshot()),
	})
}

// Restore brings a soft-deleted customer back.
//
// @Summary      Restore customer
// @Tags         customers
// @Produce      json
// @Param        id   path      string  true  "Customer ID"
// @Success      200  {object}  customerMutationResponse
// @Failure      404  {object}  map[string]string
// @Router       /customers/{id}/restore [put]
func (h *CustomerHandler) Restore(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	b := h.board(c)
	defer b.Close()

	if err := b.Restore(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, customerMutationResponse{
		Message:              "Customer restored successfully",
		customerListResponse: toCustomerList(b.Snapshot()),
	})
}
