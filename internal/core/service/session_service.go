package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/moveswift/logistics-console/internal/api/metrics"
	"github.com/moveswift/logistics-console/internal/core/domain"
	"github.com/moveswift/logistics-console/internal/core/ports"
)

const (
	msgLoginFailed     = "Login failed"
	msgInvalidResponse = "Invalid response from server"
	msgLoginError      = "An error occurred during login"
	msgSignupFailed    = "Sign up failed. Please try again."
)

// SessionManager owns the authenticated session of this console process.
// It is constructed once and shared; every read returns a consistent copy.
type SessionManager struct {
	gw     ports.Gateway
	store  ports.SessionStore
	logger zerolog.Logger

	mu    sync.RWMutex
	state domain.SessionState
}

func NewSessionManager(gw ports.Gateway, store ports.SessionStore, logger zerolog.Logger) *SessionManager {
	return &SessionManager{
		gw:     gw,
		store:  store,
		logger: logger,
		state:  domain.SessionState{Loading: true},
	}
}

// State returns a snapshot of the session.
func (m *SessionManager) State() domain.SessionState {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s := m.state
	if s.Admin != nil {
		a := *s.Admin
		s.Admin = &a
	}
	return s
}

// CurrentAdmin returns the signed-in admin or nil.
func (m *SessionManager) CurrentAdmin() *domain.Admin {
	return m.State().Admin
}

// Restore rebuilds the session from the persisted store. Missing or corrupt
// entries clear both credential keys. Loading always ends false.
func (m *SessionManager) Restore(ctx context.Context) error {
	defer m.finish()

	token, hasToken, err := m.store.Get(ctx, ports.StoreKeyToken)
	if err != nil {
		return fmt.Errorf("restore session: %w", err)
	}
	rawAdmin, hasAdmin, err := m.store.Get(ctx, ports.StoreKeyAdmin)
	if err != nil {
		return fmt.Errorf("restore session: %w", err)
	}

	if !hasToken || !hasAdmin || token == "" || rawAdmin == "" {
		metrics.SessionTransitionsTotal.WithLabelValues("restore_empty").Inc()
		return m.clearPersisted(ctx)
	}

	var admin *domain.Admin
	if err := json.Unmarshal([]byte(rawAdmin), &admin); err != nil || admin == nil {
		m.logger.Warn().Err(err).Msg("persisted admin is corrupt, clearing session")
		metrics.SessionTransitionsTotal.WithLabelValues("restore_corrupt").Inc()
		return m.clearPersisted(ctx)
	}

	expiresAt := m.tokenExpiry(token)
	m.mu.Lock()
	m.state.Token = token
	m.state.Admin = admin
	m.state.ExpiresAt = expiresAt
	m.state.Error = ""
	m.mu.Unlock()

	metrics.SessionTransitionsTotal.WithLabelValues("restore_ok").Inc()
	m.logger.Info().Str("admin_id", admin.ID).Msg("session restored")
	return nil
}

// Login authenticates against the backend. A failed attempt leaves the
// session untouched and records the display message in State().Error.
func (m *SessionManager) Login(ctx context.Context, email, password string) (*domain.Admin, error) {
	m.begin()
	defer m.finish()

	token, admin, err := m.authenticate(ctx, email, password)
	if err == nil {
		err = m.persist(ctx, token, admin)
	}
	if err != nil {
		msg := domain.MessageFor(err, msgLoginError)
		m.mu.Lock()
		m.state.Error = msg
		m.mu.Unlock()
		metrics.SessionTransitionsTotal.WithLabelValues("login_failed").Inc()
		m.logger.Warn().Err(err).Str("email", email).Msg("login failed")
		return nil, err
	}

	expiresAt := m.tokenExpiry(token)
	m.mu.Lock()
	m.state.Token = token
	m.state.Admin = admin
	m.state.ExpiresAt = expiresAt
	m.mu.Unlock()

	metrics.SessionTransitionsTotal.WithLabelValues("login_ok").Inc()
	m.logger.Info().Str("admin_id", admin.ID).Msg("admin logged in")
	a := *admin
	return &a, nil
}

func (m *SessionManager) authenticate(ctx context.Context, email, password string) (string, *domain.Admin, error) {
	env, err := m.gw.Do(ctx, ports.Call{
		Method: http.MethodPost,
		Route:  "/auth/login-admin",
		Body:   map[string]string{"email": email, "password": password},
	})
	if err != nil {
		var netErr *domain.NetworkError
		if errors.As(err, &netErr) {
			return "", nil, err
		}
		return "", nil, &domain.AuthError{Message: domain.MessageFor(err, msgLoginError), Err: err}
	}

	if !env.Success {
		msg := env.Message
		if msg == "" {
			msg = msgLoginFailed
		}
		return "", nil, &domain.AuthError{Message: msg}
	}

	var admin *domain.Admin
	found, err := env.Payload(&admin, ports.KeyAdmin)
	if err != nil || !found || admin == nil || env.Token == "" {
		return "", nil, &domain.AuthError{Message: msgInvalidResponse, Err: err}
	}
	return env.Token, admin, nil
}

// Logout ends the session. Memory and persisted credentials are cleared
// whatever the backend answers; only a store failure is returned.
func (m *SessionManager) Logout(ctx context.Context) error {
	m.begin()
	defer m.finish()

	if _, err := m.gw.Do(ctx, ports.Call{Method: http.MethodPost, Route: "/auth/logout-admin"}); err != nil {
		m.logger.Warn().Err(err).Msg("backend logout failed, clearing local session anyway")
	}

	m.clearMemory()
	metrics.SessionTransitionsTotal.WithLabelValues("logout").Inc()
	m.logger.Info().Msg("admin logged out")
	return m.clearPersisted(ctx)
}

// Expire drops the in-memory session. It is registered as the gateway's 401
// listener; the persisted keys are already gone when it runs.
func (m *SessionManager) Expire(_ context.Context) {
	m.clearMemory()
}

// Signup creates a new admin account. It never changes the current session.
func (m *SessionManager) Signup(ctx context.Context, fullName, email, password string) (*domain.Admin, error) {
	env, err := m.gw.Do(ctx, ports.Call{
		Method: http.MethodPost,
		Route:  "/auth/create-admin",
		Body:   map[string]string{"fullName": fullName, "email": email, "password": password},
	})
	if err != nil {
		var netErr *domain.NetworkError
		if errors.As(err, &netErr) {
			return nil, err
		}
		return nil, &domain.AuthError{Message: domain.MessageFor(err, msgSignupFailed), Err: err}
	}
	if !env.Success {
		msg := env.Message
		if msg == "" {
			msg = msgSignupFailed
		}
		return nil, &domain.AuthError{Message: msg}
	}

	var admin *domain.Admin
	if _, err := env.Payload(&admin, ports.KeyAdmin, ports.KeyData); err != nil {
		m.logger.Warn().Err(err).Msg("signup response carried an unreadable admin")
	}
	if admin == nil {
		admin = &domain.Admin{FullName: fullName, Email: email}
	}
	m.logger.Info().Str("email", email).Msg("admin account created")
	return admin, nil
}

// Theme returns the persisted display preference, light when unset.
func (m *SessionManager) Theme(ctx context.Context) (string, error) {
	theme, ok, err := m.store.Get(ctx, ports.StoreKeyTheme)
	if err != nil {
		return "", fmt.Errorf("read theme: %w", err)
	}
	if !ok || (theme != domain.ThemeLight && theme != domain.ThemeDark) {
		return domain.ThemeLight, nil
	}
	return theme, nil
}

// SetTheme persists the display preference. It survives logout.
func (m *SessionManager) SetTheme(ctx context.Context, theme string) error {
	if theme != domain.ThemeLight && theme != domain.ThemeDark {
		return domain.NewValidationError("theme must be %q or %q", domain.ThemeLight, domain.ThemeDark)
	}
	if err := m.store.Set(ctx, map[string]string{ports.StoreKeyTheme: theme}); err != nil {
		return fmt.Errorf("save theme: %w", err)
	}
	return nil
}

func (m *SessionManager) begin() {
	m.mu.Lock()
	m.state.Loading = true
	m.state.Error = ""
	m.mu.Unlock()
}

func (m *SessionManager) finish() {
	m.mu.Lock()
	m.state.Loading = false
	m.mu.Unlock()
}

func (m *SessionManager) clearMemory() {
	m.mu.Lock()
	m.state.Token = ""
	m.state.Admin = nil
	m.state.ExpiresAt = nil
	m.mu.Unlock()
}

func (m *SessionManager) persist(ctx context.Context, token string, admin *domain.Admin) error {
	raw, err := json.Marshal(admin)
	if err != nil {
		return fmt.Errorf("encode admin: %w", err)
	}
	if err := m.store.Set(ctx, map[string]string{
		ports.StoreKeyToken: token,
		ports.StoreKeyAdmin: string(raw),
	}); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}

func (m *SessionManager) clearPersisted(ctx context.Context) error {
	if err := m.store.Delete(ctx, ports.StoreKeyToken, ports.StoreKeyAdmin); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// tokenExpiry reads the exp claim without verifying the signature; the
// backend is the only party holding the key.
func (m *SessionManager) tokenExpiry(token string) *time.Time {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		m.logger.Debug().Err(err).Msg("session token is not a readable JWT")
		return nil
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil
	}
	if exp.Before(time.Now()) {
		m.logger.Warn().Time("expired_at", exp.Time).Msg("session token is past its expiry, waiting for backend to reject it")
	}
	t := exp.Time
	return &t
}
