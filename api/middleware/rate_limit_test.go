package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aivanahq/aivana-backend/pkg/logger"
)

type fakeLimiterStore struct {
	counts map[string]int64
	ttls   map[string]time.Duration
	err    error
}

func newFakeLimiterStore() *fakeLimiterStore {
	return &fakeLimiterStore{counts: map[string]int64{}, ttls: map[string]time.Duration{}}
}

func (s *fakeLimiterStore) IncrWithTTL(_ context.Context, key string, ttl time.Duration) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	s.counts[key]++
	s.ttls[key] = ttl
	return s.counts[key], nil
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}

func chatRequest(remoteAddr string) *http.Request {
	req := httptest.NewRequest("POST", "/api/ai/chat", nil)
	req.RemoteAddr = remoteAddr
	return req
}

func TestRateLimitBlocksAfterLimit(t *testing.T) {
	t.Parallel()
	store := newFakeLimiterStore()
	logg := logger.New(logger.Options{ServiceName: "test"})
	handler := RateLimit(NewRateLimitPolicy("chat", time.Minute, 2), store, logg)(okHandler())

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, chatRequest("10.0.0.1:5000"))
		if rec.Code != http.StatusNoContent {
			t.Fatalf("request %d: status = %d", i+1, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, chatRequest("10.0.0.1:5000"))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", rec.Code)
	}
	if store.ttls["rl:ip:chat:10.0.0.1"] != time.Minute {
		t.Fatalf("window ttl = %v", store.ttls["rl:ip:chat:10.0.0.1"])
	}
}

func TestRateLimitCountsClientsSeparately(t *testing.T) {
	t.Parallel()
	store := newFakeLimiterStore()
	handler := RateLimit(NewRateLimitPolicy("chat", time.Minute, 1), store, nil)(okHandler())

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, chatRequest("10.0.0.1:5000"))
	blocked := httptest.NewRecorder()
	handler.ServeHTTP(blocked, chatRequest("10.0.0.1:5000"))
	other := httptest.NewRecorder()
	handler.ServeHTTP(other, chatRequest("10.0.0.2:5000"))

	if first.Code != http.StatusNoContent || other.Code != http.StatusNoContent {
		t.Fatalf("statuses = %d, %d", first.Code, other.Code)
	}
	if blocked.Code != http.StatusTooManyRequests {
		t.Fatalf("second request from same ip: status = %d", blocked.Code)
	}
}

func TestRateLimitPrefersForwardedFor(t *testing.T) {
	t.Parallel()
	store := newFakeLimiterStore()
	handler := RateLimit(NewRateLimitPolicy("chat", time.Minute, 5), store, nil)(okHandler())

	req := chatRequest("10.0.0.1:5000")
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if _, ok := store.counts["rl:ip:chat:203.0.113.9"]; !ok {
		t.Fatalf("keys = %v", store.counts)
	}
}

func TestRateLimitFailsOpenOnStoreError(t *testing.T) {
	t.Parallel()
	store := newFakeLimiterStore()
	store.err = errors.New("redis down")
	logg := logger.New(logger.Options{ServiceName: "test"})
	handler := RateLimit(NewRateLimitPolicy("chat", time.Minute, 1), store, logg)(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, chatRequest("10.0.0.1:5000"))
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want pass-through", rec.Code)
	}
}

func TestRateLimitDisabledPolicyIsNoOp(t *testing.T) {
	t.Parallel()
	store := newFakeLimiterStore()
	handler := RateLimit(NewRateLimitPolicy("chat", 0, 0), store, nil)(okHandler())

	for i := 0; i < 10; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, chatRequest("10.0.0.1:5000"))
		if rec.Code != http.StatusNoContent {
			t.Fatalf("request %d: status = %d", i+1, rec.Code)
		}
	}
	if len(store.counts) != 0 {
		t.Fatalf("store was touched: %v", store.counts)
	}
}

func TestRateLimitNilStoreIsNoOp(t *testing.T) {
	t.Parallel()
	handler := RateLimit(NewRateLimitPolicy("chat", time.Minute, 1), nil, nil)(okHandler())

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, chatRequest("10.0.0.1:5000"))
		if rec.Code != http.StatusNoContent {
			t.Fatalf("request %d: status = %d", i+1, rec.Code)
		}
	}
}
