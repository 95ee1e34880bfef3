package service

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/moveswift/logistics-console/internal/core/domain"
	"github.com/moveswift/logistics-console/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Scripted gateway
// ---------------------------------------------------------------------------

type stubGateway struct {
	mu      sync.Mutex
	calls   []ports.Call
	handler func(call ports.Call) (*ports.Envelope, error)
}

func (g *stubGateway) Do(_ context.Context, call ports.Call) (*ports.Envelope, error) {
	g.mu.Lock()
	g.calls = append(g.calls, call)
	h := g.handler
	g.mu.Unlock()
	if h == nil {
		return &ports.Envelope{Success: true}, nil
	}
	return h(call)
}

func (g *stubGateway) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.calls)
}

func (g *stubGateway) lastCall() ports.Call {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls[len(g.calls)-1]
}

// envelope builds a successful envelope carrying v under key.
func envelope(key string, v any) *ports.Envelope {
	raw, _ := json.Marshal(v)
	env := &ports.Envelope{Success: true, Status: 200}
	switch key {
	case ports.KeyData:
		env.Data = raw
	case ports.KeyCustomers:
		env.Customers = raw
	case ports.KeyCustomer:
		env.Customer = raw
	case ports.KeyShipments:
		env.Shipments = raw
	case ports.KeyShipment:
		env.Shipment = raw
	case ports.KeyAdmin:
		env.Admin = raw
	case ports.KeyTimeline:
		env.Timeline = raw
	}
	return env
}

// ---------------------------------------------------------------------------
// Audit recorder
// ---------------------------------------------------------------------------

type stubAuditRepo struct {
	mu      sync.Mutex
	entries []domain.AuditEntry
	err     error
}

func (r *stubAuditRepo) Record(_ context.Context, e domain.AuditEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
	return r.err
}

func (r *stubAuditRepo) all() []domain.AuditEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.AuditEntry(nil), r.entries...)
}

type staticIdentity struct{ admin *domain.Admin }

func (i staticIdentity) CurrentAdmin() *domain.Admin { return i.admin }

// ---------------------------------------------------------------------------
// Failing session store
// ---------------------------------------------------------------------------

type failingStore struct{ err error }

func (s failingStore) Get(context.Context, string) (string, bool, error) { return "", false, s.err }
func (s failingStore) Set(context.Context, map[string]string) error { return s.err }
func (s failingStore) Delete(context.Context, ...string) error { return s.err }
