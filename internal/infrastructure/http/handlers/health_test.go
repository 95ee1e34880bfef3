package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

func TestLiveness(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)

	if err := NewHealthHandler().Liveness(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func readiness(t *testing.T, h *HealthDependenciesHandler) (int, readinessResponse) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health/ready", nil), rec)
	if err := h.Readiness(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var body readinessResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return rec.Code, body
}

func TestReadiness_RedisUp(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	code, body := readiness(t, NewHealthDependenciesHandler(nil, rdb))
	if code != http.StatusOK || body.Dependencies["redis"].Status != "ok" {
		t.Fatalf("unexpected readiness %d %+v", code, body)
	}
	if _, ok := body.Dependencies["mongodb"]; ok {
		t.Fatal("mongodb should not be reported when not configured")
	}
}

func TestReadiness_RedisDown(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()
	mr.Close()

	code, body := readiness(t, NewHealthDependenciesHandler(nil, rdb))
	if code != http.StatusServiceUnavailable || body.Status != "degraded" {
		t.Fatalf("expected degraded readiness, got %d %+v", code, body)
	}
}

func TestReadiness_NoDependencies(t *testing.T) {
	code, body := readiness(t, NewHealthDependenciesHandler(nil, nil))
	if code != http.StatusOK || len(body.Dependencies) != 0 {
		t.Fatalf("unexpected readiness %d %+v", code, body)
	}
}
