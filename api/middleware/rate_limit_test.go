package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type fakeLimiter struct {
	counts map[string]int64
	err    error
}

func (f *fakeLimiter) FixedWindowAllow(_ context.Context, scope string, limit int64, _ time.Duration) (bool, int64, error) {
	if f.err != nil {
		return false, 0, f.err
	}
	if f.counts == nil {
		f.counts = map[string]int64{}
	}
	f.counts[scope]++
	return f.counts[scope] <= limit, f.counts[scope], nil
}

func authedRequest(method, userID string) *http.Request {
	req := httptest.NewRequest(method, "/usages", nil)
	return req.WithContext(WithUserID(req.Context(), userID))
}

func TestWriteRateLimitBlocksAfterLimit(t *testing.T) {
	limiter := &fakeLimiter{}
	rejections := &countingRejections{}
	mw := WriteRateLimit(NewWriteRateLimitPolicy("writes", time.Minute, 2), limiter, rejections, nil)
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	for i := 0; i < 2; i++ {
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, authedRequest(http.MethodPost, "user-x"))
		if resp.Code != http.StatusCreated {
			t.Fatalf("request %d: expected 201 got %d", i, resp.Code)
		}
	}

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodDelete, "user-x"))
	if resp.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429 got %d", resp.Code)
	}
	if resp.Header().Get("Retry-After") != "60" {
		t.Fatalf("expected Retry-After of the window, got %q", resp.Header().Get("Retry-After"))
	}
	if len(rejections.reasons) != 1 || rejections.reasons[0] != "rate_limited" {
		t.Fatalf("expected one rate limit rejection, got %v", rejections.reasons)
	}

	// other users have their own window
	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "user-y"))
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 for another user, got %d", resp.Code)
	}
}

func TestWriteRateLimitIgnoresReads(t *testing.T) {
	limiter := &fakeLimiter{}
	mw := WriteRateLimit(NewWriteRateLimitPolicy("", time.Minute, 1), limiter, nil, nil)
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 3; i++ {
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, authedRequest(http.MethodGet, "user-x"))
		if resp.Code != http.StatusOK {
			t.Fatalf("expected reads to pass, got %d", resp.Code)
		}
	}
	if len(limiter.counts) != 0 {
		t.Fatalf("reads must not be counted")
	}
}

func TestWriteRateLimitStoreFailureIsDependencyError(t *testing.T) {
	limiter := &fakeLimiter{err: errors.New("redis down")}
	mw := WriteRateLimit(NewWriteRateLimitPolicy("writes", time.Minute, 1), limiter, nil, nil)
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPut, "user-x"))
	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", resp.Code)
	}
}

func TestWriteRateLimitDisabledPolicyPassesThrough(t *testing.T) {
	handler := WriteRateLimit(NewWriteRateLimitPolicy("writes", 0, 0), &fakeLimiter{}, nil, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodPost, "user-x"))
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d", resp.Code)
	}
}
