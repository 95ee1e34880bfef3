package handler

import (
	"context"
	"net/http/httptest"
	"strings"
	"sync"

	"github.com/labstack/echo/v4"

	"github.com/moveswift/logistics-console/internal/core/domain"
	"github.com/moveswift/logistics-console/internal/core/ports"
)

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

// newJSONContext builds an echo context for method and target with an
// optional JSON body.
func newJSONContext(e *echo.Echo, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// --- session ---

type stubSession struct {
	state    domain.SessionState
	theme    string
	loginFn  func(ctx context.Context, email, password string) (*domain.Admin, error)
	signupFn func(ctx context.Context, fullName, email, password string) (*domain.Admin, error)
	logouts  int
}

func (s *stubSession) CurrentAdmin() *domain.Admin { return s.state.Admin }

func (s *stubSession) State() domain.SessionState { return s.state }

func (s *stubSession) Login(ctx context.Context, email, password string) (*domain.Admin, error) {
	admin, err := s.loginFn(ctx, email, password)
	if err != nil {
		s.state.Error = domain.MessageFor(err, "An error occurred during login")
		return nil, err
	}
	s.state = domain.SessionState{Admin: admin, Token: "tok-" + admin.ID}
	return admin, nil
}

func (s *stubSession) Logout(ctx context.Context) error {
	s.logouts++
	s.state = domain.SessionState{}
	return nil
}

func (s *stubSession) Signup(ctx context.Context, fullName, email, password string) (*domain.Admin, error) {
	return s.signupFn(ctx, fullName, email, password)
}

func (s *stubSession) Theme(ctx context.Context) (string, error) {
	if s.theme == "" {
		return domain.ThemeLight, nil
	}
	return s.theme, nil
}

func (s *stubSession) SetTheme(ctx context.Context, theme string) error {
	s.theme = theme
	return nil
}

// --- customers ---

type stubCustomers struct {
	mu        sync.Mutex
	customers []domain.Customer
	created   []ports.CustomerInput
	patches   map[string]ports.CustomerPatch
	failWith  error
}

func (s *stubCustomers) list(deleted bool) []domain.Customer {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.Customer
	for _, c := range s.customers {
		if c.IsDeleted == deleted {
			out = append(out, c)
		}
	}
	return out
}

func (s *stubCustomers) ListActive(ctx context.Context) ([]domain.Customer, error) {
	if s.failWith != nil {
		return nil, s.failWith
	}
	return s.list(false), nil
}

func (s *stubCustomers) ListDeleted(ctx context.Context) ([]domain.Customer, error) {
	return s.list(true), nil
}

func (s *stubCustomers) Get(ctx context.Context, id string) (*domain.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.customers {
		if c.ID == id {
			c := c
			return &c, nil
		}
	}
	return nil, &domain.NotFoundError{Entity: "customer", Key: id}
}

func (s *stubCustomers) Create(ctx context.Context, in ports.CustomerInput) (*domain.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.created = append(s.created, in)
	c := domain.Customer{ID: "new-" + in.Email, FullName: in.FullName, Email: in.Email, Phone: in.Phone}
	s.customers = append(s.customers, c)
	return &c, nil
}

func (s *stubCustomers) Update(ctx context.Context, id string, patch ports.CustomerPatch) (*domain.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.patches == nil {
		s.patches = map[string]ports.CustomerPatch{}
	}
	s.patches[id] = patch
	for i, c := range s.customers {
		if c.ID == id {
			if patch.FullName != nil {
				s.customers[i].FullName = *patch.FullName
			}
			c := s.customers[i]
			return &c, nil
		}
	}
	return nil, &domain.APIError{Status: 404, Message: "Customer not found"}
}

func (s *stubCustomers) SoftDelete(ctx context.Context, id string) error {
	return s.setDeleted(id, true)
}

func (s *stubCustomers) Restore(ctx context.Context, id string) error {
	return s.setDeleted(id, false)
}

func (s *stubCustomers) setDeleted(id string, deleted bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.customers {
		if c.ID == id {
			s.customers[i].IsDeleted = deleted
			return nil
		}
	}
	return &domain.APIError{Status: 404, Message: "Customer not found"}
}

// --- shipments ---

type stubShipments struct {
	mu          sync.Mutex
	shipments   []domain.Shipment
	timeline    []domain.TrackingEvent
	timelineErr error
	created     []ports.ShipmentInput
	updates     []ports.ShipmentUpdate
}

func (s *stubShipments) ListAll(ctx context.Context) ([]domain.Shipment, error) {
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

func (s *stubShipments) GetByID(ctx context.Context, id string) (*domain.Shipment, error) {
	list, _ := s.ListAll(ctx)
	for _, sh := range list {
		if sh.ID == id {
			sh := sh
			return &sh, nil
		}
	}
	return nil, &domain.NotFoundError{Entity: "shipment", Key: id}
}

func (s *stubShipments) Create(ctx context.Context, in ports.ShipmentInput) (*domain.Shipment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.created = append(s.created, in)
	sh := domain.Shipment{ID: "s-new", TrackingNumber: "MS-NEW", Origin: in.Origin, Destination: in.Destination, Status: domain.StatusPending}
	s.shipments = append(s.shipments, sh)
	return &sh, nil
}

func (s *stubShipments) Update(ctx context.Context, id string, in ports.ShipmentUpdate) (*domain.Shipment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates = append(s.updates, in)
	for i, sh := range s.shipments {
		if sh.ID == id {
			if in.Status != "" {
				s.shipments[i].Status = in.Status
			}
			if in.Location != "" {
				s.shipments[i].Location = in.Location
			}
			sh := s.shipments[i]
			return &sh, nil
		}
	}
	return nil, &domain.APIError{Status: 404, Message: "Shipment not found"}
}

func (s *stubShipments) SoftDelete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, sh := range s.shipments {
		if sh.ID == id {
			s.shipments[i].IsDeleted = true
			return nil
		}
	}
	return &domain.APIError{Status: 404, Message: "Shipment not found"}
}

func (s *stubShipments) TrackByNumber(ctx context.Context, n string) (*domain.Shipment, error) {
	n = strings.TrimSpace(n)
	if n == "" {
		return nil, domain.NewValidationError("Please enter a tracking number")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, sh := range s.shipments {
		if sh.TrackingNumber == n {
			sh := sh
			return &sh, nil
		}
	}
	return nil, &domain.NotFoundError{Entity: "shipment", Key: n}
}

func (s *stubShipments) Timeline(ctx context.Context, id string) ([]domain.TrackingEvent, error) {
	if s.timelineErr != nil {
		return nil, s.timelineErr
	}
	return s.timeline, nil
}

// --- dashboard ---

type stubDashboard struct {
	summary *ports.DashboardSummary
	err     error
}

func (s stubDashboard) Summary(ctx context.Context) (*ports.DashboardSummary, error) {
	return s.summary, s.err
}
