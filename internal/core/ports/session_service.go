package ports

import (
	"context"

	"github.com/moveswift/logistics-console/internal/core/domain"
)

// Identity exposes the signed-in admin to components that only display it.
type Identity interface {
	CurrentAdmin() *domain.Admin
}

// SessionService is the authentication lifecycle used by the transport layer.
type SessionService interface {
	Identity
	State() domain.SessionState
	Login(ctx context.Context, email, password string) (*domain.Admin, error)
	Logout(ctx context.Context) error
	Signup(ctx context.Context, fullName, email, password string) (*domain.Admin, error)
	Theme(ctx context.Context) (string, error)
	SetTheme(ctx context.Context, theme string) error
}
