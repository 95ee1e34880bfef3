package console

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/moveswift/logistics-console/internal/core/domain"
	"github.com/moveswift/logistics-console/internal/core/ports"
	"github.com/moveswift/logistics-console/internal/core/service"
)

// TrackingState is a snapshot of the public tracking screen.
type TrackingState struct {
	TrackingNumber string
	Shipment       *domain.Shipment
	Timeline       []domain.TrackingEvent
	Loading        bool
	NotFound       bool
	Error          string
}

// TrackingLookup resolves tracking numbers. Starting a lookup cancels the
// one still in flight; only the latest lookup publishes its result.
type TrackingLookup struct {
	shipments ports.ShipmentService
	logger    zerolog.Logger
	scope     scope
	gen       generation
	now       func() time.Time

	mu       sync.Mutex
	state    TrackingState
	inflight context.CancelFunc
}

func NewTrackingLookup(ctx context.Context, shipments ports.ShipmentService, logger zerolog.Logger) *TrackingLookup {
	return &TrackingLookup{shipments: shipments, logger: logger, scope: newScope(ctx), now: time.Now}
}

func (l *TrackingLookup) Close() { l.scope.cancel() }

func (l *TrackingLookup) Snapshot() TrackingState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshotLocked()
}

// snapshotLocked copies the state so callers never share its slices.
// l.mu must be held.
func (l *TrackingLookup) snapshotLocked() TrackingState {
	s := l.state
	if s.Shipment != nil {
		sh := *s.Shipment
		s.Shipment = &sh
	}
	s.Timeline = append([]domain.TrackingEvent(nil), s.Timeline...)
	return s
}

// Lookup fetches a shipment by tracking number and derives its timeline from
// the embedded history.
func (l *TrackingLookup) Lookup(ctx context.Context, trackingNumber string) (TrackingState, error) {
	ctx, cancel := l.scope.bind(ctx)
	defer cancel()

	l.mu.Lock()
	n := l.gen.next()
	if l.inflight != nil {
		l.inflight()
	}
	l.inflight = cancel
	l.state = TrackingState{TrackingNumber: trackingNumber, Loading: true}
	l.mu.Unlock()

	sh, err := l.shipments.TrackByNumber(ctx, trackingNumber)

	var events []domain.TrackingEvent
	if err == nil {
		events = service.TimelineFromHistory(sh, l.now, l.logger)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.gen.current(n) {
		return TrackingState{TrackingNumber: trackingNumber}, context.Canceled
	}
	l.inflight = nil
	l.state.Loading = false
	switch {
	case err == nil:
		l.state.Shipment = sh
		l.state.Timeline = events
	case errors.Is(err, domain.ErrNotFound):
		l.state.NotFound = true
		l.state.Error = "Shipment not found"
	default:
		var valErr *domain.ValidationError
		if errors.As(err, &valErr) {
			l.state.Error = valErr.Message
		} else {
			l.state.Error = "Failed to track shipment"
		}
	}
	return l.snapshotLocked(), err
}
