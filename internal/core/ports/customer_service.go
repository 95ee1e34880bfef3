package ports

import (
	"context"

	"github.com/moveswift/logistics-console/internal/core/domain"
)

// CustomerInput carries the fields of a new customer.
type CustomerInput struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	City     string `json:"city"`
	Country  string `json:"country"`
}

// CustomerPatch carries a partial update; nil fields are left untouched.
type CustomerPatch struct {
	FullName *string `json:"fullName,omitempty"`
	Email    *string `json:"email,omitempty"`
	Phone    *string `json:"phone,omitempty"`
	Address  *string `json:"address,omitempty"`
	City     *string `json:"city,omitempty"`
	Country  *string `json:"country,omitempty"`
}

// CustomerService synchronises customers with the backend.
//
// SoftDelete and Restore move a customer between the active and the deleted
// collections. Callers must refetch both lists afterwards.
type CustomerService interface {
	ListActive(ctx context.Context) ([]domain.Customer, error)
	ListDeleted(ctx context.Context) ([]domain.Customer, error)
	Get(ctx context.Context, id string) (*domain.Customer, error)
	Create(ctx context.Context, in CustomerInput) (*domain.Customer, error)
	Update(ctx context.Context, id string, patch CustomerPatch) (*domain.Customer, error)
	SoftDelete(ctx context.Context, id string) error
	Restore(ctx context.Context, id string) error
}
