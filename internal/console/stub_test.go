package console

import (
	"context"
	"errors"
	"sync"

	"github.com/moveswift/logistics-console/internal/core/domain"
	"github.com/moveswift/logistics-console/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory customer service
// ---------------------------------------------------------------------------

type stubCustomerService struct {
	mu         sync.Mutex
	customers  []domain.Customer
	listCalls  int
	activeErr  error
	deletedErr error
	mutateErr  error
	// failReloadAfter makes ListActive fail once listCalls exceeds it (0 disables).
	failReloadAfter int
}

func (s *stubCustomerService) ListActive(ctx context.Context) ([]domain.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listCalls++
	if s.activeErr != nil {
		return nil, s.activeErr
	}
	if s.failReloadAfter > 0 && s.listCalls > s.failReloadAfter {
		return nil, &domain.NetworkError{Op: "list", Err: errors.New("refused")}
	}
	return s.filter(false), nil
}

func (s *stubCustomerService) ListDeleted(ctx context.Context) ([]domain.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.deletedErr != nil {
		return nil, s.deletedErr
	}
	return s.filter(true), nil
}

func (s *stubCustomerService) filter(deleted bool) []domain.Customer {
	var out []domain.Customer
	for _, c := range s.customers {
		if c.IsDeleted == deleted {
			out = append(out, c)
		}
	}
	return out
}

func (s *stubCustomerService) Get(ctx context.Context, id string) (*domain.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.customers {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, &domain.NotFoundError{Entity: domain.EntityCustomer, Key: id}
}

func (s *stubCustomerService) Create(ctx context.Context, in ports.CustomerInput) (*domain.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mutateErr != nil {
		return nil, s.mutateErr
	}
	c := domain.Customer{ID: "new", FullName: in.FullName, Email: in.Email}
	s.customers = append(s.customers, c)
	return &c, nil
}

func (s *stubCustomerService) Update(ctx context.Context, id string, patch ports.CustomerPatch) (*domain.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mutateErr != nil {
		return nil, s.mutateErr
	}
	for i := range s.customers {
		if s.customers[i].ID == id {
			if patch.FullName != nil {
				s.customers[i].FullName = *patch.FullName
			}
			c := s.customers[i]
			return &c, nil
		}
	}
	return nil, &domain.NotFoundError{Entity: domain.EntityCustomer, Key: id}
}

func (s *stubCustomerService) SoftDelete(ctx context.Context, id string) error {
	return s.setDeleted(id, true)
}

func (s *stubCustomerService) Restore(ctx context.Context, id string) error {
	return s.setDeleted(id, false)
}

func (s *stubCustomerService) setDeleted(id string, deleted bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mutateErr != nil {
		return s.mutateErr
	}
	for i := range s.customers {
		if s.customers[i].ID == id {
			s.customers[i].IsDeleted = deleted
			return nil
		}
	}
	return &domain.APIError{Status: 404, Message: "Customer not found"}
}

// ---------------------------------------------------------------------------
// In-memory shipment service
// ---------------------------------------------------------------------------

type stubShipmentService struct {
	mu          sync.Mutex
	shipments   []domain.Shipment
	timeline    []domain.TrackingEvent
	timelineErr error
	lastUpdate  ports.ShipmentUpdate
	// track, when set, replaces the default TrackByNumber behaviour.
	track func(ctx context.Context, n string) (*domain.Shipment, error)
}

func (s *stubShipmentService) ListAll(ctx context.Context) ([]domain.Shipment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Shipment
	for _, sh := range s.shipments {
		if !sh.IsDeleted {
			out = append(out, sh)
		}
	}
	return out, nil
}

func (s *stubShipmentService) GetByID(ctx context.Context, id string) (*domain.Shipment, error) {
	list, _ := s.ListAll(ctx)
	for _, sh := range list {
		if sh.ID == id {
			return &sh, nil
		}
	}
	return nil, &domain.NotFoundError{Entity: domain.EntityShipment, Key: id}
}

func (s *stubShipmentService) Create(ctx context.Context, in ports.ShipmentInput) (*domain.Shipment, error) {
	return nil, errors.New("not used")
}

func (s *stubShipmentService) Update(ctx context.Context, id string, in ports.ShipmentUpdate) (*domain.Shipment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastUpdate = in
	for i := range s.shipments {
		if s.shipments[i].ID == id {
			if in.Status != "" {
				s.shipments[i].Status = in.Status
			}
			sh := s.shipments[i]
			return &sh, nil
		}
	}
	return nil, &domain.NotFoundError{Entity: domain.EntityShipment, Key: id}
}

func (s *stubShipmentService) SoftDelete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.shipments {
		if s.shipments[i].ID == id {
			s.shipments[i].IsDeleted = true
			return nil
		}
	}
	return &domain.APIError{Status: 404, Message: "Shipment not found"}
}

func (s *stubShipmentService) TrackByNumber(ctx context.Context, n string) (*domain.Shipment, error) {
	if s.track != nil {
		return s.track(ctx, n)
	}
	if n == "" {
		return nil, domain.NewValidationError("Please enter a tracking number")
	}
	list, _ := s.ListAll(ctx)
	for _, sh := range list {
		if sh.TrackingNumber == n {
			return &sh, nil
		}
	}
	return nil, &domain.NotFoundError{Entity: domain.EntityShipment, Key: n}
}

func (s *stubShipmentService) Timeline(ctx context.Context, id string) ([]domain.TrackingEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timelineErr != nil {
		return nil, s.timelineErr
	}
	return s.timeline, nil
}
