package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/moveswift/logistics-console/internal/core/domain"
	"github.com/moveswift/logistics-console/internal/core/ports"
)

// --- stubs ---

type stubSession struct{ admin *domain.Admin }

func (s *stubSession) CurrentAdmin() *domain.Admin { return s.admin }

func (s *stubSession) State() domain.SessionState {
	if s.admin == nil {
		return domain.SessionState{}
	}
	return domain.SessionState{Admin: s.admin, Token: "t"}
}

func (s *stubSession) Login(ctx context.Context, email, password string) (*domain.Admin, error) {
	return nil, &domain.AuthError{Message: "Invalid credentials"}
}

func (s *stubSession) Logout(ctx context.Context) error {
	s.admin = nil
	return nil
}

func (s *stubSession) Signup(ctx context.Context, fullName, email, password string) (*domain.Admin, error) {
	return &domain.Admin{FullName: fullName, Email: email}, nil
}

func (s *stubSession) Theme(ctx context.Context) (string, error) { return domain.ThemeLight, nil }

func (s *stubSession) SetTheme(ctx context.Context, theme string) error { return nil }

type stubCustomers struct{ ports.CustomerService }

func (stubCustomers) ListActive(ctx context.Context) ([]domain.Customer, error) {
	return []domain.Customer{{ID: "c1", FullName: "Ada Lovelace"}}, nil
}

func (stubCustomers) ListDeleted(ctx context.Context) ([]domain.Customer, error) {
	return nil, nil
}

func newTestRouter(session *stubSession) *echo.Echo {
	return NewRouter(Deps{
		Session:   session,
		Customers: stubCustomers{},
		Logger:    zerolog.Nop(),
	})
}

func serve(e *echo.Echo, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestRouter_PublicRoutes(t *testing.T) {
	e := newTestRouter(&stubSession{})

	for _, target := range []string{"/health", "/health/ready", "/auth/session", "/swagger/doc.json"} {
		if rec := serve(e, http.MethodGet, target); rec.Code != http.StatusOK {
			t.Fatalf("%s: expected 200, got %d", target, rec.Code)
		}
	}
}

func TestRouter_ProtectedRoutesRequireSession(t *testing.T) {
	e := newTestRouter(&stubSession{})

	rec := serve(e, http.MethodGet, "/customers")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"redirect":"/login"`) {
		t.Fatalf("expected login redirect, got %s", rec.Body.String())
	}
	if rec.Header().Get(echo.HeaderXRequestID) == "" {
		t.Fatal("expected a request id on the response")
	}
}

func TestRouter_AuthenticatedRequest(t *testing.T) {
	e := newTestRouter(&stubSession{admin: &domain.Admin{ID: "a1"}})

	rec := serve(e, http.MethodGet, "/customers")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "Ada Lovelace") {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestRouter_BlockedAdmin(t *testing.T) {
	e := newTestRouter(&stubSession{admin: &domain.Admin{ID: "a1", IsBlocked: true}})

	rec := serve(e, http.MethodGet, "/customers")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "access forbidden") {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestRouter_LoginFailureHasNoRedirect(t *testing.T) {
	e := newTestRouter(&stubSession{})

	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":"ops@moveswift.io","password":"x"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "redirect") {
		t.Fatalf("login failure must not redirect, got %s", rec.Body.String())
	}
}

func TestRouter_SignupPasswordMismatch(t *testing.T) {
	e := newTestRouter(&stubSession{})

	req := httptest.NewRequest(http.MethodPost, "/auth/signup", strings.NewReader(
		`{"fullName":"New Admin","email":"new@moveswift.io","password":"secret1","confirmPassword":"secret2"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Passwords do not match") {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestRouter_Metrics(t *testing.T) {
	e := newTestRouter(&stubSession{})
	serve(e, http.MethodGet, "/health")

	rec := serve(e, http.MethodGet, "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "console_requests_total") {
		t.Fatalf("expected echo request metrics in exposition")
	}
}
