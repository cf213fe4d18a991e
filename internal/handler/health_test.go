package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

type pingStub struct {
	err   error
	calls int
}

func (p *pingStub) Ping(ctx context.Context) error {
	p.calls++
	return p.err
}

func TestHealthHandler_Healthz(t *testing.T) {
	// Liveness must not touch dependencies.
	store := &pingStub{err: errors.New("down")}
	h := NewHealthHandler(store, nil)

	rec := httptest.NewRecorder()
	h.Healthz(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
	if store.calls != 0 {
		t.Errorf("Healthz pinged the store %d times", store.calls)
	}

	var response HealthResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.Status != "ok" {
		t.Errorf("expected status 'ok', got %s", response.Status)
	}
}

func TestHealthHandler_Readyz(t *testing.T) {
	tests := []struct {
		name       string
		store      HealthChecker
		cache      HealthChecker
		wantCode   int
		wantStatus string
		wantStore  string
		wantRedis  string
	}{
		{
			name:       "all_healthy",
			store:      &pingStub{},
			cache:      &pingStub{},
			wantCode:   http.StatusOK,
			wantStatus: "ok",
			wantStore:  "ok",
			wantRedis:  "ok",
		},
		{
			name:       "store_down",
			store:      &pingStub{err: errors.New("connection refused")},
			cache:      &pingStub{},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: "unhealthy",
			wantStore:  "error: connection refused",
			wantRedis:  "ok",
		},
		{
			name:       "redis_down",
			store:      &pingStub{},
			cache:      &pingStub{err: errors.New("i/o timeout")},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: "unhealthy",
			wantStore:  "ok",
			wantRedis:  "error: i/o timeout",
		},
		{
			name:       "no_redis_configured",
			store:      &pingStub{},
			cache:      nil,
			wantCode:   http.StatusOK,
			wantStatus: "ok",
			wantStore:  "ok",
			wantRedis:  "not configured",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			h := NewHealthHandler(test.store, test.cache)

			rec := httptest.NewRecorder()
			h.Readyz(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

			if rec.Code != test.wantCode {
				t.Errorf("expected status %d, got %d", test.wantCode, rec.Code)
			}

			var response HealthResponse
			if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if response.Status != test.wantStatus {
				t.Errorf("expected status %q, got %q", test.wantStatus, response.Status)
			}
			if got := response.Checks["store"]; got != test.wantStore {
				t.Errorf("store check = %q, want %q", got, test.wantStore)
			}
			if got := response.Checks["redis"]; got != test.wantRedis {
				t.Errorf("redis check = %q, want %q", got, test.wantRedis)
			}
		})
	}
}
