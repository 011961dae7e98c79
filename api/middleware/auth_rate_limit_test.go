package middleware

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

type fakeLimiterStore struct {
	counts map[string]int64
}

func newFakeLimiterStore() *fakeLimiterStore {
	return &fakeLimiterStore{counts: make(map[string]int64)}
}

func (f *fakeLimiterStore) IncrWithTTL(_ context.Context, key string, _ time.Duration) (int64, error) {
	f.counts[key]++
	return f.counts[key], nil
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthRateLimitDisabledPolicyPassesThrough(t *testing.T) {
	policy := NewAuthRateLimitPolicy("login", 0, 0, 0)
	handler := AuthRateLimit(policy, newFakeLimiterStore(), nil)(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestAuthRateLimitBlocksPerIP(t *testing.T) {
	policy := NewAuthRateLimitPolicy("login", time.Minute, 2, 0)
	handler := AuthRateLimit(policy, newFakeLimiterStore(), nil)(okHandler())

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("request %d expected 200 got %d", i, resp.Code)
		}
	}

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 got %d", resp.Code)
	}
}

func TestAuthRateLimitBlocksPerPhone(t *testing.T) {
	policy := NewAuthRateLimitPolicy("login", time.Minute, 0, 1)
	handler := AuthRateLimit(policy, newFakeLimiterStore(), nil)(okHandler())

	body := `{"telephone":"0707070707","motDePasse":"secret"}`

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	req.RemoteAddr = "10.0.0.1:1234"
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	// phone quota holds across source addresses
	req = httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	req.RemoteAddr = "10.0.0.2:1234"
	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 got %d", resp.Code)
	}
}

func TestAuthRateLimitPreservesBodyForNextHandler(t *testing.T) {
	policy := NewAuthRateLimitPolicy("login", time.Minute, 0, 5)
	var seen string
	handler := AuthRateLimit(policy, newFakeLimiterStore(), nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, err := io.ReadAll(r.Body)
		if err != nil {
			t.Errorf("read body: %v", err)
		}
		seen = string(b)
		w.WriteHeader(http.StatusOK)
	}))

	body := `{"telephone":"0707070707","motDePasse":"secret"}`
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	if seen != body {
		t.Fatalf("downstream handler should see the original body, got %q", seen)
	}
}
