package domain

import "time"

// TrackingEvent is one entry of a shipment timeline. It is a read-only
// projection of the shipment history and is never cached on its own.
type TrackingEvent struct {
	ID        string    `json:"_id"`
	Shipment  string    `json:"shipment"`
	Status    string    `json:"status"`
	Location  string    `json:"location,omitempty"`
	Timestamp time.Time `json:"timestamp"`
	// Estimated is set when the history entry carried no timestamp and the
	// assembly time was substituted.
	Estimated bool `json:"estimated,omitempty"`
}
