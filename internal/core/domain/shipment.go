package domain

import (
	"bytes"
	"encoding/json"
	"time"
)

// ShipmentStatus represents the lifecycle state of a shipment.
type ShipmentStatus string

const (
	StatusPending   ShipmentStatus = "pending"
	StatusAssigned  ShipmentStatus = "assigned"
	StatusInTransit ShipmentStatus = "in-transit"
	StatusDelivered ShipmentStatus = "delivered"
	StatusCancelled ShipmentStatus = "cancelled"
)

// Statuses lists every status an operator may pick when editing a shipment.
var Statuses = []ShipmentStatus{
	StatusPending,
	StatusAssigned,
	StatusInTransit,
	StatusDelivered,
	StatusCancelled,
}

// validTransitions is the advisory state machine. The backend has the final
// word; the console only consults it when transition enforcement is enabled.
var validTransitions = map[ShipmentStatus][]ShipmentStatus{
	StatusPending:   {StatusAssigned, StatusCancelled},
	StatusAssigned:  {StatusInTransit, StatusPending, StatusCancelled},
	StatusInTransit: {StatusDelivered, StatusCancelled},
}

// Valid reports whether s is one of the known statuses.
func (s ShipmentStatus) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// Terminal reports whether no further transition is allowed from s.
func (s ShipmentStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// Active reports whether the shipment counts as an active delivery.
func (s ShipmentStatus) Active() bool {
	return s == StatusInTransit || s == StatusAssigned
}

// CanTransitionTo reports whether a transition from current status to next is valid.
// Keeping the same status is always allowed (an edit of other fields).
func (s ShipmentStatus) CanTransitionTo(next ShipmentStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ShipmentHistory records a single status change on a shipment.
type ShipmentHistory struct {
	Status    ShipmentStatus `json:"status"`
	Note      string         `json:"note,omitempty"`
	UpdatedAt *time.Time     `json:"updatedAt,omitempty"`
}

// CustomerRef is the customer link of a shipment. Depending on population the
// backend sends either the bare id or the embedded customer document.
type CustomerRef struct {
	ID       string
	Customer *Customer
}

func (r *CustomerRef) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	if b[0] == '"' {
		return json.Unmarshal(b, &r.ID)
	}
	var c Customer
	if err := json.Unmarshal(b, &c); err != nil {
		return err
	}
	r.ID = c.ID
	r.Customer = &c
	return nil
}

func (r CustomerRef) MarshalJSON() ([]byte, error) {
	if r.Customer != nil {
		return json.Marshal(r.Customer)
	}
	return json.Marshal(r.ID)
}

// Name returns the display name of the referenced customer, "N/A" when the
// reference was not populated.
func (r CustomerRef) Name() string {
	if r.Customer != nil && r.Customer.FullName != "" {
		return r.Customer.FullName
	}
	return "N/A"
}

// AdminRef is the creating admin of a shipment, id or embedded profile.
type AdminRef struct {
	ID    string
	Admin *Admin
}

func (r *AdminRef) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}
	if b[0] == '"' {
		return json.Unmarshal(b, &r.ID)
	}
	var a Admin
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	r.ID = a.ID
	r.Admin = &a
	return nil
}

func (r AdminRef) MarshalJSON() ([]byte, error) {
	if r.Admin != nil {
		return json.Marshal(r.Admin)
	}
	return json.Marshal(r.ID)
}

// Shipment is a cached copy of a backend shipment record.
type Shipment struct {
	ID             string            `json:"_id"`
	TrackingNumber string            `json:"trackingNumber"`
	Customer       CustomerRef       `json:"customer"`
	Admin          AdminRef          `json:"admin"`
	Origin         string            `json:"origin"`
	Destination    string            `json:"destination"`
	SendersName    string            `json:"sendersName"`
	ReceiversName  string            `json:"receiversName"`
	Weight         *float64          `json:"weight,omitempty"`
	Price          *float64          `json:"price,omitempty"`
	Status         ShipmentStatus    `json:"status"`
	Location       string            `json:"location,omitempty"`
	History        []ShipmentHistory `json:"history"`
	IsDeleted      bool              `json:"isDeleted"`
	CreatedAt      time.Time         `json:"createdAt"`
	DeliveredAt    *time.Time        `json:"deliveredAt,omitempty"`
}
