package service

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/moveswift/logistics-console/internal/core/domain"
	"github.com/moveswift/logistics-console/internal/core/ports"
)

// ShipmentPolicy controls how status edits are checked before sending.
type ShipmentPolicy struct {
	// EnforceTransitions rejects illegal status changes with a ValidationError.
	// When false they are logged and sent anyway.
	EnforceTransitions bool
}

// ShipmentService implements ports.ShipmentService against the backend.
type ShipmentService struct {
	gw     ports.Gateway
	audit  auditor
	policy ShipmentPolicy
	logger zerolog.Logger
}

func NewShipmentService(gw ports.Gateway, audit ports.AuditRepository, identity ports.Identity, policy ShipmentPolicy, logger zerolog.Logger) *ShipmentService {
	return &ShipmentService{
		gw:     gw,
		audit:  auditor{repo: audit, identity: identity, logger: logger},
		policy: policy,
		logger: logger,
	}
}

// shipmentPayload is the wire body of create and update calls.
type shipmentPayload struct {
	Customer      string                `json:"customer,omitempty"`
	SendersName   string                `json:"sendersName,omitempty"`
	ReceiversName string                `json:"receiversName,omitempty"`
	Origin        string                `json:"origin,omitempty"`
	Destination   string                `json:"destination,omitempty"`
	Weight        *float64              `json:"weight,omitempty"`
	Price         *float64              `json:"price,omitempty"`
	Status        domain.ShipmentStatus `json:"status,omitempty"`
	Location      string                `json:"location,omitempty"`
}

// ListAll returns every shipment the backend exposes, in backend order.
func (s *ShipmentService) ListAll(ctx context.Context) ([]domain.Shipment, error) {
	env, err := s.gw.Do(ctx, ports.Call{Method: http.MethodGet, Route: "/shipment/getAllShipments"})
	if err != nil {
		return nil, err
	}
	var shipments []domain.Shipment
	if _, err := env.Payload(&shipments, ports.KeyShipments, ports.KeyData); err != nil {
		return nil, err
	}
	if shipments == nil {
		shipments = []domain.Shipment{}
	}
	return shipments, nil
}

// GetByID has no dedicated backend route: it lists all shipments and filters.
func (s *ShipmentService) GetByID(ctx context.Context, id string) (*domain.Shipment, error) {
	if id == "" {
		return nil, domain.NewValidationError("shipment id is required")
	}
	shipments, err := s.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range shipments {
		if shipments[i].ID == id {
			return &shipments[i], nil
		}
	}
	return nil, &domain.NotFoundError{Entity: domain.EntityShipment, Key: id}
}

// Create registers a shipment for a customer. Status defaults to pending.
func (s *ShipmentService) Create(ctx context.Context, in ports.ShipmentInput) (*domain.Shipment, error) {
	if strings.TrimSpace(in.CustomerID) == "" {
		return nil, domain.NewValidationError("customer is required")
	}
	weight, err := parseAmount("weight", in.Weight)
	if err != nil {
		return nil, err
	}
	price, err := parseAmount("price", in.Price)
	if err != nil {
		return nil, err
	}
	status := in.Status
	if status == "" {
		status = domain.StatusPending
	}
	if !status.Valid() {
		return nil, domain.NewValidationError("unknown status %q", status)
	}

	body := shipmentPayload{
		Customer:      in.CustomerID,
		SendersName:   in.SendersName,
		ReceiversName: in.ReceiversName,
		Origin:        in.Origin,
		Destination:   in.Destination,
		Weight:        weight,
		Price:         price,
		Status:        status,
		Location:      in.Location,
	}
	env, err := s.gw.Do(ctx, ports.Call{Method: http.MethodPost, Route: "/shipment/create-shipment", Body: body})
	if err != nil {
		s.audit.record(ctx, domain.ActionCreate, domain.EntityShipment, "", err)
		return nil, err
	}
	sh := s.acknowledged(env, "create")
	id := ""
	if sh != nil {
		id = sh.ID
	}
	s.audit.record(ctx, domain.ActionCreate, domain.EntityShipment, id, nil)
	s.logger.Info().Str("shipment_id", id).Str("customer_id", in.CustomerID).Msg("shipment created")
	return sh, nil
}

// Update edits a shipment. Empty fields are left out of the request.
func (s *ShipmentService) Update(ctx context.Context, id string, in ports.ShipmentUpdate) (*domain.Shipment, error) {
	if id == "" {
		return nil, domain.NewValidationError("shipment id is required")
	}
	weight, err := parseAmount("weight", in.Weight)
	if err != nil {
		return nil, err
	}
	price, err := parseAmount("price", in.Price)
	if err != nil {
		return nil, err
	}
	if in.Status != "" {
		if !in.Status.Valid() {
			return nil, domain.NewValidationError("unknown status %q", in.Status)
		}
		if err := s.checkTransition(id, in.PreviousStatus, in.Status); err != nil {
			return nil, err
		}
	}

	body := shipmentPayload{
		SendersName:   in.SendersName,
		ReceiversName: in.ReceiversName,
		Origin:        in.Origin,
		Destination:   in.Destination,
		Weight:        weight,
		Price:         price,
		Status:        in.Status,
		Location:      in.Location,
	}
	env, err := s.gw.Do(ctx, ports.Call{Method: http.MethodPut, Route: "/shipment/update-shipment/:id", Params: []string{id}, Body: body})
	s.audit.record(ctx, domain.ActionUpdate, domain.EntityShipment, id, err)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("shipment_id", id).Str("status", string(in.Status)).Msg("shipment updated")
	return s.acknowledged(env, "update"), nil
}

func (s *ShipmentService) checkTransition(id string, from, to domain.ShipmentStatus) error {
	if from == "" || from.CanTransitionTo(to) {
		return nil
	}
	if s.policy.EnforceTransitions {
		return &domain.ValidationError{
			Message: fmt.Sprintf("cannot change status from %s to %s", from, to),
			Err:     domain.ErrInvalidTransition,
		}
	}
	s.logger.Warn().
		Str("shipment_id", id).
		Str("from", string(from)).
		Str("to", string(to)).
		Msg("unusual status transition, sending anyway")
	return nil
}

// SoftDelete removes a shipment from the active list.
func (s *ShipmentService) SoftDelete(ctx context.Context, id string) error {
	if id == "" {
		return domain.NewValidationError("shipment id is required")
	}
	_, err := s.gw.Do(ctx, ports.Call{Method: http.MethodDelete, Route: "/shipment/delete-shipment/:id", Params: []string{id}})
	s.audit.record(ctx, domain.ActionDelete, domain.EntityShipment, id, err)
	if err != nil {
		return err
	}
	s.logger.Info().Str("shipment_id", id).Msg("shipment soft-deleted")
	return nil
}

// TrackByNumber looks a shipment up by its public tracking number.
func (s *ShipmentService) TrackByNumber(ctx context.Context, trackingNumber string) (*domain.Shipment, error) {
	trackingNumber = strings.TrimSpace(trackingNumber)
	if trackingNumber == "" {
		return nil, domain.NewValidationError("Please enter a tracking number")
	}
	env, err := s.gw.Do(ctx, ports.Call{Method: http.MethodGet, Route: "/track/view-tracking/:trackingNumber", Params: []string{trackingNumber}})
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, &domain.NotFoundError{Entity: domain.EntityShipment, Key: trackingNumber}
		}
		return nil, err
	}
	if !env.Success {
		return nil, &domain.NotFoundError{Entity: domain.EntityShipment, Key: trackingNumber}
	}
	var sh *domain.Shipment
	found, err := env.Payload(&sh, ports.KeyShipment)
	if err != nil {
		return nil, err
	}
	if !found || sh == nil {
		return nil, &domain.NotFoundError{Entity: domain.EntityShipment, Key: trackingNumber}
	}
	return sh, nil
}

// Timeline returns the backend's tracking events for a shipment.
func (s *ShipmentService) Timeline(ctx context.Context, id string) ([]domain.TrackingEvent, error) {
	if id == "" {
		return nil, domain.NewValidationError("shipment id is required")
	}
	env, err := s.gw.Do(ctx, ports.Call{Method: http.MethodGet, Route: "/shipment/shipment-timeline/:id", Params: []string{id}})
	if err != nil {
		return nil, err
	}
	var events []domain.TrackingEvent
	found, err := env.Payload(&events, ports.KeyTimeline)
	if err != nil {
		return nil, err
	}
	if !found {
		var nested struct {
			Timeline []domain.TrackingEvent `json:"timeline"`
		}
		if _, err := env.Payload(&nested, ports.KeyData); err != nil {
			return nil, err
		}
		events = nested.Timeline
	}
	if events == nil {
		events = []domain.TrackingEvent{}
	}
	return events, nil
}

// acknowledged decodes the shipment echoed by an accepted mutation. The
// backend state has already changed, so an undecodable echo is only logged.
func (s *ShipmentService) acknowledged(env *ports.Envelope, op string) *domain.Shipment {
	sh, err := decodeShipment(env)
	if err != nil {
		s.logger.Warn().Err(err).Str("op", op).Msg("shipment accepted but response not decodable")
		return nil
	}
	return sh
}

func decodeShipment(env *ports.Envelope) (*domain.Shipment, error) {
	var sh *domain.Shipment
	if _, err := env.Payload(&sh, ports.KeyShipment, ports.KeyData); err != nil {
		return nil, err
	}
	return sh, nil
}

// parseAmount turns form text into a number. Empty text means "not supplied".
func parseAmount(field, text string) (*float64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, domain.NewValidationError("%s must be a number, got %q", field, text)
	}
	if v < 0 {
		return nil, domain.NewValidationError("%s cannot be negative", field)
	}
	return &v, nil
}
