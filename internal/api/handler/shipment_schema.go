package handler

import (
	"bytes"
	"encoding/json"
	"strconv"

	"github.com/moveswift/logistics-console/internal/core/domain"
)

// formNumber is a numeric form field. Clients may send it as text or as a
// JSON number; parsing happens in the service layer.
type formNumber string

func (n *formNumber) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*n = ""
		return nil
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*n = formNumber(s)
		return nil
	default:
		var f float64
		if err := json.Unmarshal(b, &f); err != nil {
			return err
		}
		*n = formNumber(strconv.FormatFloat(f, 'f', -1, 64))
		return nil
	}
}

type createShipmentRequest struct {
	CustomerID    string     `json:"customer" validate:"required"`
	SendersName   string     `json:"sendersName" validate:"required"`
	ReceiversName string     `json:"receiversName" validate:"required"`
	Origin        string     `json:"origin" validate:"required"`
	Destination   string     `json:"destination" validate:"required"`
	Weight        formNumber `json:"weight" swaggertype:"string"`
	Price         formNumber `json:"price" swaggertype:"string"`
	Status        string     `json:"status" validate:"omitempty,oneof=pending assigned in-transit delivered cancelled"`
	Location      string     `json:"location"`
}

type updateShipmentRequest struct {
	SendersName   string     `json:"sendersName"`
	ReceiversName string     `json:"receiversName"`
	Origin        string     `json:"origin"`
	Destination   string     `json:"destination"`
	Weight        formNumber `json:"weight" swaggertype:"string"`
	Price         formNumber `json:"price" swaggertype:"string"`
	Status        string     `json:"status" validate:"omitempty,oneof=pending assigned in-transit delivered cancelled"`
	Location      string     `json:"location"`
	// PreviousStatus is the status the form was opened with. When empty the
	// currently stored status is used.
	PreviousStatus string `json:"previousStatus" validate:"omitempty,oneof=pending assigned in-transit delivered cancelled"`
}

type shipmentListResponse struct {
	Shipments []domain.Shipment `json:"shipments"`
	Total     int               `json:"total"`
	Filter    string            `json:"filter,omitempty"`
	Stale     bool              `json:"stale,omitempty"`
}

type shipmentDetailResponse struct {
	Message       string                 `json:"message,omitempty"`
	Shipment      *domain.Shipment       `json:"shipment"`
	Timeline      []domain.TrackingEvent `json:"timeline"`
	TimelineError string                 `json:"timelineError,omitempty"`
}

type createShipmentResponse struct {
	Message  string           `json:"message"`
	Shipment *domain.Shipment `json:"shipment,omitempty"`
}

type trackingResponse struct {
	TrackingNumber string                 `json:"trackingNumber"`
	Shipment       *domain.Shipment       `json:"shipment"`
	Timeline       []domain.TrackingEvent `json:"timeline"`
}

type dashboardResponse struct {
	TotalShipments     int               `json:"totalShipments"`
	ActiveDeliveries   int               `json:"activeDeliveries"`
	CompletedShipments int               `json:"completedShipments"`
	TotalCustomers     int               `json:"totalCustomers"`
	RecentShipments    []domain.Shipment `json:"recentShipments"`
}
