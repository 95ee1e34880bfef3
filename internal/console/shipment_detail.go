package console

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/moveswift/logistics-console/internal/core/domain"
	"github.com/moveswift/logistics-console/internal/core/ports"
)

// ShipmentDetailState is a snapshot of one shipment with its timeline.
type ShipmentDetailState struct {
	Shipment *domain.Shipment
	Timeline []domain.TrackingEvent
	Loading  bool
	Error    string
	// TimelineError is reported apart from Error: the shipment stays usable
	// when only its timeline could not be fetched.
	TimelineError string
	Deleted       bool
}

// ShipmentDetail manages a single shipment screen.
type ShipmentDetail struct {
	shipments ports.ShipmentService
	logger    zerolog.Logger
	scope     scope

	mu    sync.Mutex
	state ShipmentDetailState
}

func NewShipmentDetail(ctx context.Context, shipments ports.ShipmentService, logger zerolog.Logger) *ShipmentDetail {
	return &ShipmentDetail{shipments: shipments, logger: logger, scope: newScope(ctx)}
}

func (d *ShipmentDetail) Close() { d.scope.cancel() }

func (d *ShipmentDetail) Snapshot() ShipmentDetailState {
	d.mu.Lock()
	defer d.mu.Unlock()
	s := d.state
	if s.Shipment != nil {
		sh := *s.Shipment
		s.Shipment = &sh
	}
	s.Timeline = append([]domain.TrackingEvent(nil), s.Timeline...)
	return s
}

// Load fetches the shipment and then its timeline.
func (d *ShipmentDetail) Load(ctx context.Context, id string) error {
	ctx, cancel := d.scope.bind(ctx)
	defer cancel()

	d.update(func(s *ShipmentDetailState) { s.Loading = true })
	defer d.update(func(s *ShipmentDetailState) { s.Loading = false })

	sh, err := d.shipments.GetByID(ctx, id)
	if err != nil {
		msg := domain.MessageFor(err, "Failed to fetch shipment details")
		d.update(func(s *ShipmentDetailState) { s.Error = msg })
		return err
	}

	events, tlErr := d.shipments.Timeline(ctx, id)
	if tlErr != nil {
		d.logger.Warn().Err(tlErr).Str("shipment_id", id).Msg("failed to load shipment timeline")
	}
	if d.scope.closed() {
		return context.Canceled
	}
	d.update(func(s *ShipmentDetailState) {
		s.Shipment = sh
		s.Error = ""
		s.TimelineError = ""
		if tlErr != nil {
			s.Timeline = nil
			s.TimelineError = domain.MessageFor(tlErr, "Failed to load shipment timeline")
		} else {
			s.Timeline = events
		}
	})
	return nil
}

// Save sends an edit and reloads the shipment and its timeline. The current
// status is passed along so the transition can be checked.
func (d *ShipmentDetail) Save(ctx context.Context, in ports.ShipmentUpdate) error {
	current := d.Snapshot().Shipment
	if current == nil {
		return domain.NewValidationError("no shipment loaded")
	}
	if in.PreviousStatus == "" {
		in.PreviousStatus = current.Status
	}

	bound, cancel := d.scope.bind(ctx)
	_, err := d.shipments.Update(bound, current.ID, in)
	cancel()
	if err != nil {
		msg := domain.MessageFor(err, "Failed to update shipment")
		d.update(func(s *ShipmentDetailState) { s.Error = msg })
		return err
	}
	if err := d.Load(ctx, current.ID); err != nil {
		d.logger.Warn().Err(err).Str("shipment_id", current.ID).Msg("shipment not refreshed after update")
	}
	return nil
}

// Delete soft-deletes the loaded shipment.
func (d *ShipmentDetail) Delete(ctx context.Context) error {
	current := d.Snapshot().Shipment
	if current == nil {
		return domain.NewValidationError("no shipment loaded")
	}
	bound, cancel := d.scope.bind(ctx)
	defer cancel()
	if err := d.shipments.SoftDelete(bound, current.ID); err != nil {
		msg := domain.MessageFor(err, "Failed to delete shipment")
		d.update(func(s *ShipmentDetailState) { s.Error = msg })
		return err
	}
	d.update(func(s *ShipmentDetailState) { s.Deleted = true })
	return nil
}

func (d *ShipmentDetail) update(fn func(*ShipmentDetailState)) {
	d.mu.Lock()
	fn(&d.state)
	d.mu.Unlock()
}
