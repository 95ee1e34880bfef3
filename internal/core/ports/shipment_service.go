package ports

import (
	"context"

	"github.com/moveswift/logistics-console/internal/core/domain"
)

// ShipmentInput carries the fields of a new shipment as entered in a form.
// Weight and Price are text; empty means "not supplied".
type ShipmentInput struct {
	CustomerID    string
	SendersName   string
	ReceiversName string
	Origin        string
	Destination   string
	Weight        string
	Price         string
	Status        domain.ShipmentStatus // defaults to pending
	Location      string
}

// ShipmentUpdate carries an edit. Empty fields are omitted from the request;
// the tracking number cannot be changed.
type ShipmentUpdate struct {
	SendersName   string
	ReceiversName string
	Origin        string
	Destination   string
	Weight        string
	Price         string
	Status        domain.ShipmentStatus
	Location      string

	// PreviousStatus is the status the edit started from, used to check the
	// transition. Empty skips the check.
	PreviousStatus domain.ShipmentStatus
}

// ShipmentService synchronises shipments with the backend.
type ShipmentService interface {
	ListAll(ctx context.Context) ([]domain.Shipment, error)
	// GetByID fetches the full list and filters it; every call costs one
	// list-all round trip.
	GetByID(ctx context.Context, id string) (*domain.Shipment, error)
	Create(ctx context.Context, in ShipmentInput) (*domain.Shipment, error)
	Update(ctx context.Context, id string, in ShipmentUpdate) (*domain.Shipment, error)
	SoftDelete(ctx context.Context, id string) error
	TrackByNumber(ctx context.Context, trackingNumber string) (*domain.Shipment, error)
	Timeline(ctx context.Context, id string) ([]domain.TrackingEvent, error)
}
