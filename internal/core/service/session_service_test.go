package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/moveswift/logistics-console/internal/core/domain"
	"github.com/moveswift/logistics-console/internal/core/ports"
	"github.com/moveswift/logistics-console/internal/infrastructure/db/memory"
	"github.com/moveswift/logistics-console/internal/infrastructure/gateway"
)

var testAdmin = domain.Admin{ID: "adm-1", FullName: "Ada Ops", Email: "ada@moveswift.io", IsAdmin: true}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": testAdmin.ID,
		"exp": exp.Unix(),
	})
	s, err := tok.SignedString([]byte("backend-secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return s
}

func loginEnvelope(t *testing.T, token string) *ports.Envelope {
	t.Helper()
	env := envelope(ports.KeyAdmin, testAdmin)
	env.Token = token
	env.Message = "Login successful"
	return env
}

func assertConsistent(t *testing.T, s domain.SessionState) {
	t.Helper()
	if (s.Token == "") != (s.Admin == nil) {
		t.Fatalf("token and admin out of step: token=%q admin=%v", s.Token, s.Admin)
	}
}

func TestSessionManager_InitialStateIsLoading(t *testing.T) {
	m := NewSessionManager(&stubGateway{}, memory.NewSessionStore(), zerolog.Nop())
	s := m.State()
	if !s.Loading || s.IsAuthenticated() {
		t.Fatalf("expected loading unauthenticated state, got %+v", s)
	}
}

func TestSessionManager_RestoreValid(t *testing.T) {
	store := memory.NewSessionStore()
	raw, _ := json.Marshal(testAdmin)
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	_ = store.Set(context.Background(), map[string]string{
		ports.StoreKeyToken: signedToken(t, exp),
		ports.StoreKeyAdmin: string(raw),
	})

	m := NewSessionManager(&stubGateway{}, store, zerolog.Nop())
	if err := m.Restore(context.Background()); err != nil {
		t.Fatalf("restore: %v", err)
	}

	s := m.State()
	if !s.IsAuthenticated() || s.Loading {
		t.Fatalf("expected authenticated idle session, got %+v", s)
	}
	if s.Admin.Email != testAdmin.Email {
		t.Fatalf("unexpected admin: %+v", s.Admin)
	}
	if s.ExpiresAt == nil || !s.ExpiresAt.Equal(exp) {
		t.Fatalf("expected expiry %v, got %v", exp, s.ExpiresAt)
	}
}

func TestSessionManager_RestoreKeepsExpiredToken(t *testing.T) {
	store := memory.NewSessionStore()
	raw, _ := json.Marshal(testAdmin)
	_ = store.Set(context.Background(), map[string]string{
		ports.StoreKeyToken: signedToken(t, time.Now().Add(-time.Hour)),
		ports.StoreKeyAdmin: string(raw),
	})

	m := NewSessionManager(&stubGateway{}, store, zerolog.Nop())
	_ = m.Restore(context.Background())

	if !m.State().IsAuthenticated() {
		t.Fatal("expired token should be kept until the backend rejects it")
	}
}

func TestSessionManager_RestoreCorruptAdminClearsBoth(t *testing.T) {
	store := memory.NewSessionStore()
	ctx := context.Background()
	_ = store.Set(ctx, map[string]string{
		ports.StoreKeyToken: "opaque-token",
		ports.StoreKeyAdmin: "{not json",
	})

	m := NewSessionManager(&stubGateway{}, store, zerolog.Nop())
	if err := m.Restore(ctx); err != nil {
		t.Fatalf("restore: %v", err)
	}

	s := m.State()
	if s.IsAuthenticated() || s.Loading {
		t.Fatalf("expected unauthenticated idle session, got %+v", s)
	}
	assertConsistent(t, s)
	if _, ok, _ := store.Get(ctx, ports.StoreKeyToken); ok {
		t.Fatal("token should be cleared with a corrupt admin")
	}
	if _, ok, _ := store.Get(ctx, ports.StoreKeyAdmin); ok {
		t.Fatal("admin should be cleared")
	}
}

func TestSessionManager_RestoreTokenOnly(t *testing.T) {
	store := memory.NewSessionStore()
	ctx := context.Background()
	_ = store.Set(ctx, map[string]string{ports.StoreKeyToken: "orphan"})

	m := NewSessionManager(&stubGateway{}, store, zerolog.Nop())
	_ = m.Restore(ctx)

	if m.State().IsAuthenticated() {
		t.Fatal("a token without an admin must not authenticate")
	}
	if _, ok, _ := store.Get(ctx, ports.StoreKeyToken); ok {
		t.Fatal("orphan token should be cleared")
	}
}

func TestSessionManager_RestoreStoreFailure(t *testing.T) {
	m := NewSessionManager(&stubGateway{}, failingStore{err: errors.New("redis down")}, zerolog.Nop())

	if err := m.Restore(context.Background()); err == nil {
		t.Fatal("expected store error")
	}
	if m.State().Loading {
		t.Fatal("loading must end even when restore fails")
	}
}

func TestSessionManager_LoginSuccess(t *testing.T) {
	store := memory.NewSessionStore()
	token := signedToken(t, time.Now().Add(24*time.Hour))
	gw := &stubGateway{handler: func(call ports.Call) (*ports.Envelope, error) {
		return loginEnvelope(t, token), nil
	}}
	m := NewSessionManager(gw, store, zerolog.Nop())

	admin, err := m.Login(context.Background(), "ada@moveswift.io", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if admin.ID != testAdmin.ID {
		t.Fatalf("unexpected admin: %+v", admin)
	}

	call := gw.lastCall()
	if call.Method != http.MethodPost || call.Route != "/auth/login-admin" {
		t.Fatalf("unexpected call: %+v", call)
	}

	s := m.State()
	if !s.IsAuthenticated() || s.Loading || s.Error != "" {
		t.Fatalf("unexpected state: %+v", s)
	}
	if got, _, _ := store.Get(context.Background(), ports.StoreKeyToken); got != token {
		t.Fatal("token should be persisted")
	}
	if raw, _, _ := store.Get(context.Background(), ports.StoreKeyAdmin); !strings.Contains(raw, testAdmin.ID) {
		t.Fatalf("admin should be persisted, got %q", raw)
	}
}

func TestSessionManager_LoginFailures(t *testing.T) {
	cases := []struct {
		name    string
		env     *ports.Envelope
		err     error
		wantMsg string
	}{
		{
			name:    "success false with message",
			env:     &ports.Envelope{Success: false, Message: "Account blocked"},
			wantMsg: "Account blocked",
		},
		{
			name:    "success false without message",
			env:     &ports.Envelope{Success: false},
			wantMsg: "Login failed",
		},
		{
			name:    "missing token",
			env:     envelope(ports.KeyAdmin, testAdmin),
			wantMsg: "Invalid response from server",
		},
		{
			name:    "missing admin",
			env:     &ports.Envelope{Success: true, Token: "tok"},
			wantMsg: "Invalid response from server",
		},
		{
			name:    "timeout",
			err:     &domain.NetworkError{Op: "POST /auth/login-admin", Timeout: true, Err: errors.New("deadline")},
			wantMsg: domain.MsgTimeout,
		},
		{
			name:    "unreachable",
			err:     &domain.NetworkError{Op: "POST /auth/login-admin", Err: errors.New("connection refused")},
			wantMsg: domain.MsgUnreachable,
		},
		{
			name:    "server error field",
			err:     &domain.APIError{Status: 500, ErrorField: "db offline"},
			wantMsg: "db offline",
		},
		{
			name:    "server error without text",
			err:     &domain.APIError{Status: 502},
			wantMsg: "An error occurred during login",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := memory.NewSessionStore()
			gw := &stubGateway{handler: func(ports.Call) (*ports.Envelope, error) { return tc.env, tc.err }}
			m := NewSessionManager(gw, store, zerolog.Nop())
			_ = m.Restore(context.Background())

			_, err := m.Login(context.Background(), "a@b.c", "pw")
			if err == nil {
				t.Fatal("expected error")
			}
			if got := domain.MessageFor(err, "fallback"); got != tc.wantMsg {
				t.Fatalf("expected message %q, got %q", tc.wantMsg, got)
			}

			s := m.State()
			if s.IsAuthenticated() || s.Loading {
				t.Fatalf("failed login must leave an idle unauthenticated session, got %+v", s)
			}
			if s.Error != tc.wantMsg {
				t.Fatalf("expected state error %q, got %q", tc.wantMsg, s.Error)
			}
			if _, ok, _ := store.Get(context.Background(), ports.StoreKeyToken); ok {
				t.Fatal("nothing should be persisted on failure")
			}
		})
	}
}

func TestSessionManager_LoginPersistFailureLeavesSessionUnchanged(t *testing.T) {
	gw := &stubGateway{handler: func(ports.Call) (*ports.Envelope, error) {
		return loginEnvelope(t, "tok"), nil
	}}
	m := NewSessionManager(gw, failingStore{err: errors.New("redis down")}, zerolog.Nop())

	if _, err := m.Login(context.Background(), "a@b.c", "pw"); err == nil {
		t.Fatal("expected persist error")
	}
	s := m.State()
	if s.IsAuthenticated() {
		t.Fatal("session must not be set when it could not be persisted")
	}
	assertConsistent(t, s)
}

func TestSessionManager_LogoutClearsEvenWhenBackendFails(t *testing.T) {
	store := memory.NewSessionStore()
	gw := &stubGateway{handler: func(call ports.Call) (*ports.Envelope, error) {
		if call.Route == "/auth/logout-admin" {
			return nil, &domain.NetworkError{Op: "logout", Err: errors.New("refused")}
		}
		return loginEnvelope(t, "tok"), nil
	}}
	m := NewSessionManager(gw, store, zerolog.Nop())
	ctx := context.Background()
	if _, err := m.Login(ctx, "a@b.c", "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}
	_ = m.SetTheme(ctx, domain.ThemeDark)

	if err := m.Logout(ctx); err != nil {
		t.Fatalf("logout: %v", err)
	}

	s := m.State()
	if s.IsAuthenticated() || s.Loading {
		t.Fatalf("expected idle unauthenticated session, got %+v", s)
	}
	if _, ok, _ := store.Get(ctx, ports.StoreKeyToken); ok {
		t.Fatal("token should be cleared")
	}
	if theme, _ := m.Theme(ctx); theme != domain.ThemeDark {
		t.Fatalf("theme should survive logout, got %q", theme)
	}
}

// The gateway's 401 interception and the manager's expiry hook together
// must leave no trace of the session in memory or in the store.
func TestSessionManager_UnauthorizedResponseExpiresSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/auth/login-admin":
			_ = json.NewEncoder(w).Encode(map[string]any{
				"success": true, "token": "tok-123", "admin": testAdmin,
			})
		default:
			if r.Header.Get("Authorization") != "Bearer tok-123" {
				t.Errorf("expected bearer token on %s", r.URL.Path)
			}
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"success":false,"message":"jwt expired"}`))
		}
	}))
	defer srv.Close()

	store := memory.NewSessionStore()
	gw := gateway.New(gateway.Config{BaseURL: srv.URL}, store, zerolog.Nop())
	m := NewSessionManager(gw, store, zerolog.Nop())
	gw.OnUnauthorized(m.Expire)
	ctx := context.Background()

	if _, err := m.Login(ctx, "ada@moveswift.io", "pw"); err != nil {
		t.Fatalf("login: %v", err)
	}

	customers := NewCustomerService(gw, nil, m, zerolog.Nop())
	_, err := customers.ListActive(ctx)
	if !errors.Is(err, domain.ErrSessionExpired) {
		t.Fatalf("expected session expired error, got %v", err)
	}

	if m.State().IsAuthenticated() {
		t.Fatal("in-memory session should be cleared")
	}
	if _, ok, _ := store.Get(ctx, ports.StoreKeyToken); ok {
		t.Fatal("persisted token should be cleared")
	}
	if _, ok, _ := store.Get(ctx, ports.StoreKeyAdmin); ok {
		t.Fatal("persisted admin should be cleared")
	}
}

func TestSessionManager_InvalidCredentialsThroughGateway(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"success":false,"message":"Invalid credentials"}`))
	}))
	defer srv.Close()

	store := memory.NewSessionStore()
	gw := gateway.New(gateway.Config{BaseURL: srv.URL}, store, zerolog.Nop())
	m := NewSessionManager(gw, store, zerolog.Nop())
	gw.OnUnauthorized(m.Expire)
	_ = m.Restore(context.Background())

	_, err := m.Login(context.Background(), "ada@moveswift.io", "wrong")

	var authErr *domain.AuthError
	if !errors.As(err, &authErr) || authErr.Message != "Invalid credentials" {
		t.Fatalf("expected AuthError(Invalid credentials), got %v", err)
	}
	s := m.State()
	if s.Error != "Invalid credentials" || s.Loading || s.IsAuthenticated() {
		t.Fatalf("unexpected state: %+v", s)
	}
}

func TestSessionManager_Signup(t *testing.T) {
	gw := &stubGateway{handler: func(call ports.Call) (*ports.Envelope, error) {
		return &ports.Envelope{Success: true, Message: "Admin created"}, nil
	}}
	m := NewSessionManager(gw, memory.NewSessionStore(), zerolog.Nop())

	admin, err := m.Signup(context.Background(), "New Admin", "new@moveswift.io", "pw")
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if admin.Email != "new@moveswift.io" {
		t.Fatalf("unexpected admin: %+v", admin)
	}
	if gw.lastCall().Route != "/auth/create-admin" {
		t.Fatalf("unexpected route %s", gw.lastCall().Route)
	}
	if m.State().IsAuthenticated() {
		t.Fatal("signup must not authenticate")
	}
}

func TestSessionManager_SignupFailureMessage(t *testing.T) {
	gw := &stubGateway{handler: func(ports.Call) (*ports.Envelope, error) {
		return nil, &domain.APIError{Status: 400}
	}}
	m := NewSessionManager(gw, memory.NewSessionStore(), zerolog.Nop())

	_, err := m.Signup(context.Background(), "x", "x@y.z", "pw")
	if got := domain.MessageFor(err, ""); got != "Sign up failed. Please try again." {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestSessionManager_Theme(t *testing.T) {
	m := NewSessionManager(&stubGateway{}, memory.NewSessionStore(), zerolog.Nop())
	ctx := context.Background()

	if theme, _ := m.Theme(ctx); theme != domain.ThemeLight {
		t.Fatalf("expected light default, got %q", theme)
	}
	var valErr *domain.ValidationError
	if err := m.SetTheme(ctx, "neon"); !errors.As(err, &valErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if err := m.SetTheme(ctx, domain.ThemeDark); err != nil {
		t.Fatalf("set theme: %v", err)
	}
	if theme, _ := m.Theme(ctx); theme != domain.ThemeDark {
		t.Fatalf("expected dark, got %q", theme)
	}
}
