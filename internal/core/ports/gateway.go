package ports

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
)

// Call describes one request to the backend. Route is the path template
// (e.g. "/customer/viewcustomer/:id"); Params fill its ":name" segments in order.
type Call struct {
	Method string
	Route  string
	Params []string
	Body   any
}

// Gateway is the single point of outbound communication with the backend.
//
// Non-2xx answers come back as *domain.APIError, transport failures as
// *domain.NetworkError. A 401 tears the persisted session down before the
// error is returned.
type Gateway interface {
	Do(ctx context.Context, call Call) (*Envelope, error)
}

// Envelope is the response shape shared by every backend endpoint. The backend
// is inconsistent about which key carries the payload, so each candidate key
// is kept raw and resolved once through Payload.
type Envelope struct {
	Success   bool            `json:"success"`
	Message   string          `json:"message"`
	Error     json.RawMessage `json:"error,omitempty"`
	Token     string          `json:"token,omitempty"`
	Total     int             `json:"total,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	Customers json.RawMessage `json:"customers,omitempty"`
	Customer  json.RawMessage `json:"customer,omitempty"`
	Shipments json.RawMessage `json:"shipments,omitempty"`
	Shipment  json.RawMessage `json:"shipment,omitempty"`
	Admin     json.RawMessage `json:"admin,omitempty"`
	Timeline  json.RawMessage `json:"timeline,omitempty"`

	// Status is the HTTP status the envelope arrived with.
	Status int `json:"-"`
}

// Payload keys.
const (
	KeyData      = "data"
	KeyCustomers = "customers"
	KeyCustomer  = "customer"
	KeyShipments = "shipments"
	KeyShipment  = "shipment"
	KeyAdmin     = "admin"
	KeyTimeline  = "timeline"
)

// DecodeEnvelope parses a response body. A bare JSON array is accepted as the
// data payload of a successful envelope.
func DecodeEnvelope(body []byte) (*Envelope, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return &Envelope{}, nil
	}
	if trimmed[0] == '[' {
		return &Envelope{Success: true, Data: json.RawMessage(trimmed)}, nil
	}
	var env Envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	return &env, nil
}

// Payload decodes the first present key into dst. It reports false when none
// of the keys carried a value.
func (e *Envelope) Payload(dst any, keys ...string) (bool, error) {
	for _, k := range keys {
		raw := e.field(k)
		if len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			continue
		}
		if err := json.Unmarshal(raw, dst); err != nil {
			return false, fmt.Errorf("decode %q payload: %w", k, err)
		}
		return true, nil
	}
	return false, nil
}

// ErrorText returns the backend "error" field as text whether it was sent as a
// string or as an object.
func (e *Envelope) ErrorText() string {
	raw := bytes.TrimSpace(e.Error)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

func (e *Envelope) field(key string) json.RawMessage {
	switch key {
	case KeyData:
		return e.Data
	case KeyCustomers:
		return e.Customers
	case KeyCustomer:
		return e.Customer
	case KeyShipments:
		return e.Shipments
	case KeyShipment:
		return e.Shipment
	case KeyAdmin:
		return e.Admin
	case KeyTimeline:
		return e.Timeline
	}
	return nil
}
