package console

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/moveswift/logistics-console/internal/core/domain"
	"github.com/moveswift/logistics-console/internal/core/ports"
)

// ShipmentBoardState is a snapshot of the shipments screen.
type ShipmentBoardState struct {
	Shipments []domain.Shipment
	Visible   []domain.Shipment
	Filter    string
	Loading   bool
	Error     string
	Stale     bool
}

// ShipmentBoard manages the shipment list.
type ShipmentBoard struct {
	shipments ports.ShipmentService
	logger    zerolog.Logger
	scope     scope

	mu    sync.Mutex
	state ShipmentBoardState
}

func NewShipmentBoard(ctx context.Context, shipments ports.ShipmentService, logger zerolog.Logger) *ShipmentBoard {
	return &ShipmentBoard{shipments: shipments, logger: logger, scope: newScope(ctx)}
}

func (b *ShipmentBoard) Close() { b.scope.cancel() }

func (b *ShipmentBoard) Snapshot() ShipmentBoardState {
	b.mu.Lock()
	defer b.mu.Unlock()
	s := b.state
	s.Shipments = append([]domain.Shipment(nil), s.Shipments...)
	s.Visible = FilterShipments(s.Shipments, s.Filter)
	return s
}

func (b *ShipmentBoard) Load(ctx context.Context) error {
	ctx, cancel := b.scope.bind(ctx)
	defer cancel()

	b.update(func(s *ShipmentBoardState) { s.Loading = true })
	defer b.update(func(s *ShipmentBoardState) { s.Loading = false })

	list, err := b.shipments.ListAll(ctx)
	if err != nil {
		msg := domain.MessageFor(err, "Failed to fetch shipments")
		b.update(func(s *ShipmentBoardState) { s.Error = msg })
		return err
	}
	if b.scope.closed() {
		return context.Canceled
	}
	b.update(func(s *ShipmentBoardState) {
		s.Shipments = list
		s.Error = ""
		s.Stale = false
	})
	return nil
}

func (b *ShipmentBoard) SetFilter(term string) []domain.Shipment {
	b.update(func(s *ShipmentBoardState) { s.Filter = term })
	return b.Snapshot().Visible
}

// Delete soft-deletes a shipment and reloads the list.
func (b *ShipmentBoard) Delete(ctx context.Context, id string) error {
	bound, cancel := b.scope.bind(ctx)
	err := b.shipments.SoftDelete(bound, id)
	cancel()
	if err != nil {
		msg := domain.MessageFor(err, "Failed to delete shipment")
		b.update(func(s *ShipmentBoardState) { s.Error = msg })
		return err
	}
	if err := b.Load(ctx); err != nil {
		b.logger.Warn().Err(err).Msg("shipment list not refreshed after delete")
		b.update(func(s *ShipmentBoardState) { s.Stale = true })
	}
	return nil
}

func (b *ShipmentBoard) update(fn func(*ShipmentBoardState)) {
	b.mu.Lock()
	fn(&b.state)
	b.mu.Unlock()
}

// FilterShipments matches term against tracking number, origin and
// destination, ignoring case.
func FilterShipments(shipments []domain.Shipment, term string) []domain.Shipment {
	lower := strings.ToLower(strings.TrimSpace(term))
	out := make([]domain.Shipment, 0, len(shipments))
	for _, sh := range shipments {
		if lower == "" ||
			strings.Contains(strings.ToLower(sh.TrackingNumber), lower) ||
			strings.Contains(strings.ToLower(sh.Origin), lower) ||
			strings.Contains(strings.ToLower(sh.Destination), lower) {
			out = append(out, sh)
		}
	}
	return out
}
