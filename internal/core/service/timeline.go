package service

import (
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/moveswift/logistics-console/internal/core/domain"
)

// TimelineFromHistory derives tracking events from a shipment's embedded
// history, used on the public lookup path where the backend sends no
// timeline. Entries without a timestamp get now() and are marked estimated.
func TimelineFromHistory(sh *domain.Shipment, now func() time.Time, logger zerolog.Logger) []domain.TrackingEvent {
	if sh == nil {
		return []domain.TrackingEvent{}
	}
	if now == nil {
		now = time.Now
	}
	events := make([]domain.TrackingEvent, 0, len(sh.History))
	for i, h := range sh.History {
		ev := domain.TrackingEvent{
			ID:       strconv.Itoa(i),
			Shipment: sh.ID,
			Status:   string(h.Status),
			Location: h.Note,
		}
		if ev.Location == "" {
			ev.Location = string(h.Status)
		}
		if h.UpdatedAt != nil {
			ev.Timestamp = *h.UpdatedAt
		} else {
			ev.Timestamp = now()
			ev.Estimated = true
			logger.Warn().
				Str("shipment_id", sh.ID).
				Int("entry", i).
				Msg("history entry has no timestamp, using current time")
		}
		events = append(events, ev)
	}
	return events
}
