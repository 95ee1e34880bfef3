// Package gateway is the console's only HTTP client of the MoveSwift backend.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/moveswift/logistics-console/internal/api/metrics"
	"github.com/moveswift/logistics-console/internal/core/domain"
	"github.com/moveswift/logistics-console/internal/core/ports"
)

const (
	DefaultBaseURL = "http://localhost:3000"
	DefaultTimeout = 10 * time.Second

	maxBodyBytes = 10 << 20
)

// Config captures the settings of the backend client.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// ExpiryListener is notified after a 401 answer has cleared the persisted session.
type ExpiryListener func(ctx context.Context)

// Client implements ports.Gateway over net/http.
type Client struct {
	baseURL string
	http    *http.Client
	store   ports.SessionStore
	log     zerolog.Logger

	mu        sync.RWMutex
	listeners []ExpiryListener
}

// New returns a Client. Defaults apply to an empty base URL or a non-positive timeout.
func New(cfg Config, store ports.SessionStore, log zerolog.Logger) *Client {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: base,
		http:    &http.Client{Timeout: timeout},
		store:   store,
		log:     log,
	}
}

// OnUnauthorized registers fn to run after any 401 answer.
func (c *Client) OnUnauthorized(fn ExpiryListener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners = append(c.listeners, fn)
}

// BaseURL returns the backend address requests are sent to.
func (c *Client) BaseURL() string { return c.baseURL }

// Do sends call and decodes the answer into an envelope.
func (c *Client) Do(ctx context.Context, call ports.Call) (*ports.Envelope, error) {
	path, err := expandRoute(call.Route, call.Params)
	if err != nil {
		return nil, err
	}
	op := call.Method + " " + call.Route

	req, err := c.newRequest(ctx, call.Method, path, call.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	metrics.GatewayRequestDuration.WithLabelValues(call.Route).Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, c.transportError(ctx, call, op, err)
	}
	defer resp.Body.Close()

	metrics.GatewayRequestsTotal.WithLabelValues(call.Method, call.Route, strconv.Itoa(resp.StatusCode)).Inc()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, c.transportError(ctx, call, op, err)
	}

	env, decodeErr := ports.DecodeEnvelope(body)
	if env == nil {
		env = &ports.Envelope{}
	}
	env.Status = resp.StatusCode

	if resp.StatusCode == http.StatusUnauthorized {
		c.teardown(ctx, call.Route)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Debug().
			Str("route", call.Route).
			Int("status", resp.StatusCode).
			Str("message", env.Message).
			Msg("backend rejected request")
		return nil, &domain.APIError{
			Status:     resp.StatusCode,
			Message:    env.Message,
			ErrorField: env.ErrorText(),
		}
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("%s: %w", op, decodeErr)
	}

	c.log.Debug().Str("route", call.Route).Int("status", resp.StatusCode).Msg("backend request completed")
	return env, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode body: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	reqID := RequestIDFrom(ctx)
	if reqID == "" {
		reqID = uuid.NewString()
	}
	req.Header.Set("X-Request-ID", reqID)

	token, ok, err := c.store.Get(ctx, ports.StoreKeyToken)
	if err != nil {
		// The backend rejects protected routes without credentials.
		c.log.Warn().Err(err).Msg("session store unavailable, sending request without token")
	} else if ok && token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// transportError classifies a failure that produced no HTTP answer.
func (c *Client) transportError(ctx context.Context, call ports.Call, op string, err error) error {
	if errors.Is(err, context.Canceled) || ctx.Err() == context.Canceled {
		return fmt.Errorf("%s: %w", op, context.Canceled)
	}

	timeout := errors.Is(err, context.DeadlineExceeded)
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		timeout = true
	}

	code := "unreachable"
	if timeout {
		code = "timeout"
	}
	metrics.GatewayRequestsTotal.WithLabelValues(call.Method, call.Route, code).Inc()
	c.log.Warn().Err(err).Str("route", call.Route).Bool("timeout", timeout).Msg("backend request failed")

	return &domain.NetworkError{Op: op, Timeout: timeout, Err: err}
}

// teardown clears the persisted credentials and notifies listeners. It runs
// even when the caller's context is already done.
func (c *Client) teardown(ctx context.Context, route string) {
	ctx = context.WithoutCancel(ctx)
	if err := c.store.Delete(ctx, ports.StoreKeyToken, ports.StoreKeyAdmin); err != nil {
		c.log.Error().Err(err).Msg("failed to clear persisted session after 401")
	}
	metrics.SessionTransitionsTotal.WithLabelValues("expired").Inc()
	c.log.Info().Str("route", route).Msg("token expired or invalid, session torn down")

	c.mu.RLock()
	listeners := append([]ExpiryListener(nil), c.listeners...)
	c.mu.RUnlock()
	for _, fn := range listeners {
		fn(ctx)
	}
}

// expandRoute fills the ":name" segments of route with params, in order.
func expandRoute(route string, params []string) (string, error) {
	segments := strings.Split(route, "/")
	next := 0
	for i, seg := range segments {
		if !strings.HasPrefix(seg, ":") {
			continue
		}
		if next >= len(params) || params[next] == "" {
			return "", fmt.Errorf("route %s: missing value for %s", route, seg)
		}
		segments[i] = url.PathEscape(params[next])
		next++
	}
	if next != len(params) {
		return "", fmt.Errorf("route %s: %d params given, %d used", route, len(params), next)
	}
	return strings.Join(segments, "/"), nil
}
