package console

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/moveswift/logistics-console/internal/core/domain"
	"github.com/moveswift/logistics-console/internal/core/ports"
)

// CustomerBoardState is a snapshot of the customers screen.
type CustomerBoardState struct {
	Active  []domain.Customer
	Deleted []domain.Customer
	// Visible is Active narrowed by Filter.
	Visible []domain.Customer
	Filter  string
	Loading bool
	Error   string
	// Stale is set when a mutation succeeded but the follow-up reload failed.
	Stale bool
}

// CustomerBoard manages the active and deleted customer lists.
type CustomerBoard struct {
	customers ports.CustomerService
	logger    zerolog.Logger
	scope     scope

	mu    sync.Mutex
	state CustomerBoardState
}

func NewCustomerBoard(ctx context.Context, customers ports.CustomerService, logger zerolog.Logger) *CustomerBoard {
	return &CustomerBoard{
		customers: customers,
		logger:    logger,
		scope:     newScope(ctx),
	}
}

// Close cancels in-flight requests started by the board.
func (b *CustomerBoard) Close() { b.scope.cancel() }

// Snapshot returns a copy of the current state.
func (b *CustomerBoard) Snapshot() CustomerBoardState {
	b.mu.Lock()
	defer b.mu.Unlock()
	s := b.state
	s.Active = append([]domain.Customer(nil), s.Active...)
	s.Deleted = append([]domain.Customer(nil), s.Deleted...)
	s.Visible = FilterCustomers(s.Active, s.Filter)
	return s
}

// Load fetches both collections. The deleted list is secondary: its failure
// is logged and the previous deleted list is kept.
func (b *CustomerBoard) Load(ctx context.Context) error {
	ctx, cancel := b.scope.bind(ctx)
	defer cancel()

	b.update(func(s *CustomerBoardState) { s.Loading = true })
	defer b.update(func(s *CustomerBoardState) { s.Loading = false })

	active, err := b.customers.ListActive(ctx)
	if err != nil {
		b.fail(err, "Failed to fetch customers")
		return err
	}
	deleted, delErr := b.customers.ListDeleted(ctx)
	if delErr != nil {
		b.logger.Warn().Err(delErr).Msg("failed to fetch deleted customers")
	}

	if b.scope.closed() {
		return context.Canceled
	}
	b.update(func(s *CustomerBoardState) {
		s.Active = active
		if delErr == nil {
			s.Deleted = deleted
		}
		s.Error = ""
		s.Stale = false
	})
	return nil
}

// SetFilter narrows the visible list by name, email or phone.
func (b *CustomerBoard) SetFilter(term string) []domain.Customer {
	b.update(func(s *CustomerBoardState) { s.Filter = term })
	return b.Snapshot().Visible
}

func (b *CustomerBoard) Create(ctx context.Context, in ports.CustomerInput) (*domain.Customer, error) {
	var created *domain.Customer
	err := b.mutate(ctx, "Failed to create customer", func(ctx context.Context) error {
		var err error
		created, err = b.customers.Create(ctx, in)
		return err
	})
	return created, err
}

func (b *CustomerBoard) Update(ctx context.Context, id string, patch ports.CustomerPatch) (*domain.Customer, error) {
	var updated *domain.Customer
	err := b.mutate(ctx, "Failed to update customer", func(ctx context.Context) error {
		var err error
		updated, err = b.customers.Update(ctx, id, patch)
		return err
	})
	return updated, err
}

func (b *CustomerBoard) Delete(ctx context.Context, id string) error {
	return b.mutate(ctx, "Failed to delete customer", func(ctx context.Context) error {
		return b.customers.SoftDelete(ctx, id)
	})
}

func (b *CustomerBoard) Restore(ctx context.Context, id string) error {
	return b.mutate(ctx, "Failed to restore customer", func(ctx context.Context) error {
		return b.customers.Restore(ctx, id)
	})
}

// mutate runs op and then reloads both collections. A failed op leaves the
// lists untouched; a failed reload marks them stale.
func (b *CustomerBoard) mutate(ctx context.Context, fallback string, op func(context.Context) error) error {
	bound, cancel := b.scope.bind(ctx)
	err := op(bound)
	cancel()
	if err != nil {
		b.fail(err, fallback)
		return err
	}
	if err := b.Load(ctx); err != nil {
		b.logger.Warn().Err(err).Msg("customer lists not refreshed after mutation")
		b.update(func(s *CustomerBoardState) { s.Stale = true })
	}
	return nil
}

func (b *CustomerBoard) fail(err error, fallback string) {
	msg := domain.MessageFor(err, fallback)
	b.update(func(s *CustomerBoardState) { s.Error = msg })
}

func (b *CustomerBoard) update(fn func(*CustomerBoardState)) {
	b.mu.Lock()
	fn(&b.state)
	b.mu.Unlock()
}

// FilterCustomers matches term against full name and email ignoring case,
// and against phone as a plain substring. An empty term matches everything.
func FilterCustomers(customers []domain.Customer, term string) []domain.Customer {
	term = strings.TrimSpace(term)
	out := make([]domain.Customer, 0, len(customers))
	if term == "" {
		return append(out, customers...)
	}
	lower := strings.ToLower(term)
	for _, c := range customers {
		if strings.Contains(strings.ToLower(c.FullName), lower) ||
			strings.Contains(strings.ToLower(c.Email), lower) ||
			strings.Contains(c.Phone, term) {
			out = append(out, c)
		}
	}
	return out
}
