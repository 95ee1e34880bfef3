package handler

import (
	"github.com/moveswift/logistics-console/internal/console"
	"github.com/moveswift/logistics-console/internal/core/domain"
	"github.com/moveswift/logistics-console/internal/core/ports"
)

type createCustomerRequest struct {
	FullName string `json:"fullName" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required"`
	Address  string `json:"address"`
	City     string `json:"city"`
	Country  string `json:"country"`
}

func (r createCustomerRequest) toInput() ports.CustomerInput {
	return ports.CustomerInput{
		FullName: r.FullName,
		Email:    r.Email,
		Phone:    r.Phone,
		Address:  r.Address,
		City:     r.City,
		Country:  r.Country,
	}
}

type updateCustomerRequest struct {
	FullName *string `json:"fullName" validate:"omitempty,min=1"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Phone    *string `json:"phone"`
	Address  *string `json:"address"`
	City     *string `json:"city"`
	Country  *string `json:"country"`
}

func (r updateCustomerRequest) toPatch() ports.CustomerPatch {
	return ports.CustomerPatch{
		FullName: r.FullName,
		Email:    r.Email,
		Phone:    r.Phone,
		Address:  r.Address,
		City:     r.City,
		Country:  r.Country,
	}
}

type customerListResponse struct {
	Customers []domain.Customer `json:"customers"`
	Deleted   []domain.Customer `json:"deleted"`
	Total     int               `json:"total"`
	Filter    string            `json:"filter,omitempty"`
	// Stale marks lists that could not be refreshed after a mutation.
	Stale bool `json:"stale,omitempty"`
}

type customerMutationResponse struct {
	Message  string           `json:"message"`
	Customer *domain.Customer `json:"customer,omitempty"`
	customerListResponse
}

func toCustomerList(s console.CustomerBoardState) customerListResponse {
	return customerListResponse{
		Customers: nonNil(s.Visible),
		Deleted:   nonNil(s.Deleted),
		Total:     len(s.Active),
		Filter:    s.Filter,
		Stale:     s.Stale,
	}
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
