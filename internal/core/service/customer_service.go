package service

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/moveswift/logistics-console/internal/core/domain"
	"github.com/moveswift/logistics-console/internal/core/ports"
)

// CustomerService implements ports.CustomerService against the backend.
type CustomerService struct {
	gw     ports.Gateway
	audit  auditor
	logger zerolog.Logger
}

func NewCustomerService(gw ports.Gateway, audit ports.AuditRepository, identity ports.Identity, logger zerolog.Logger) *CustomerService {
	return &CustomerService{
		gw:     gw,
		audit:  auditor{repo: audit, identity: identity, logger: logger},
		logger: logger,
	}
}

// ListActive returns the customers that are not soft-deleted.
func (s *CustomerService) ListActive(ctx context.Context) ([]domain.Customer, error) {
	return s.list(ctx, "/customer/getAllCustomers")
}

// ListDeleted returns the soft-deleted customers, fetched from their own endpoint.
func (s *CustomerService) ListDeleted(ctx context.Context) ([]domain.Customer, error) {
	return s.list(ctx, "/customer/delete-customers")
}

func (s *CustomerService) list(ctx context.Context, route string) ([]domain.Customer, error) {
	env, err := s.gw.Do(ctx, ports.Call{Method: http.MethodGet, Route: route})
	if err != nil {
		return nil, err
	}
	var customers []domain.Customer
	if _, err := env.Payload(&customers, ports.KeyCustomers, ports.KeyData); err != nil {
		return nil, err
	}
	if customers == nil {
		customers = []domain.Customer{}
	}
	return customers, nil
}

// Get fetches one customer.
func (s *CustomerService) Get(ctx context.Context, id string) (*domain.Customer, error) {
	if id == "" {
		return nil, domain.NewValidationError("customer id is required")
	}
	env, err := s.gw.Do(ctx, ports.Call{Method: http.MethodGet, Route: "/customer/viewcustomer/:id", Params: []string{id}})
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, &domain.NotFoundError{Entity: domain.EntityCustomer, Key: id}
		}
		return nil, err
	}
	var c *domain.Customer
	found, err := env.Payload(&c, ports.KeyCustomer, ports.KeyData)
	if err != nil {
		return nil, err
	}
	if !found || c == nil {
		return nil, &domain.NotFoundError{Entity: domain.EntityCustomer, Key: id}
	}
	return c, nil
}

// Create registers a new customer. The returned customer is nil when the
// backend acknowledged without echoing the record.
func (s *CustomerService) Create(ctx context.Context, in ports.CustomerInput) (*domain.Customer, error) {
	env, err := s.gw.Do(ctx, ports.Call{Method: http.MethodPost, Route: "/customer/create-customer", Body: in})
	if err != nil {
		s.audit.record(ctx, domain.ActionCreate, domain.EntityCustomer, "", err)
		return nil, err
	}
	c := s.acknowledged(env, "create")
	id := ""
	if c != nil {
		id = c.ID
	}
	s.audit.record(ctx, domain.ActionCreate, domain.EntityCustomer, id, nil)
	s.logger.Info().Str("customer_id", id).Msg("customer created")
	return c, nil
}

// Update sends only the fields set in patch.
func (s *CustomerService) Update(ctx context.Context, id string, patch ports.CustomerPatch) (*domain.Customer, error) {
	if id == "" {
		return nil, domain.NewValidationError("customer id is required")
	}
	env, err := s.gw.Do(ctx, ports.Call{Method: http.MethodPut, Route: "/customer/:id", Params: []string{id}, Body: patch})
	s.audit.record(ctx, domain.ActionUpdate, domain.EntityCustomer, id, err)
	if err != nil {
		return nil, err
	}
	s.logger.Info().Str("customer_id", id).Msg("customer updated")
	return s.acknowledged(env, "update"), nil
}

// SoftDelete moves a customer to the deleted collection.
func (s *CustomerService) SoftDelete(ctx context.Context, id string) error {
	if id == "" {
		return domain.NewValidationError("customer id is required")
	}
	_, err := s.gw.Do(ctx, ports.Call{Method: http.MethodDelete, Route: "/customer/delete-customer/:id", Params: []string{id}})
	s.audit.record(ctx, domain.ActionDelete, domain.EntityCustomer, id, err)
	if err != nil {
		return err
	}
	s.logger.Info().Str("customer_id", id).Msg("customer soft-deleted")
	return nil
}

// Restore moves a customer back to the active collection.
func (s *CustomerService) Restore(ctx context.Context, id string) error {
	if id == "" {
		return domain.NewValidationError("customer id is required")
	}
	_, err := s.gw.Do(ctx, ports.Call{Method: http.MethodPut, Route: "/customer/restore/:id", Params: []string{id}, Body: struct{}{}})
	s.audit.record(ctx, domain.ActionRestore, domain.EntityCustomer, id, err)
	if err != nil {
		return err
	}
	s.logger.Info().Str("customer_id", id).Msg("customer restored")
	return nil
}

// acknowledged decodes the record echoed by an accepted mutation. The backend
// state has already changed, so an undecodable echo is logged, not returned.
func (s *CustomerService) acknowledged(env *ports.Envelope, op string) *domain.Customer {
	c, err := s.decodeOne(env)
	if err != nil {
		s.logger.Warn().Err(err).Str("op", op).Msg("customer accepted but response not decodable")
		return nil
	}
	return c
}

func (s *CustomerService) decodeOne(env *ports.Envelope) (*domain.Customer, error) {
	var c *domain.Customer
	if _, err := env.Payload(&c, ports.KeyCustomer, ports.KeyData); err != nil {
		return nil, err
	}
	return c, nil
}
