package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/attendly/api/internal/model"
)

// ============================================================================
// Allow Tests
// ============================================================================

func TestRateLimiter_AllowsWithinLimit(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(RateLimitConfig{Rate: 10, Burst: 0, Window: time.Minute})
	defer rl.Stop()

	for i := 0; i < 10; i++ {
		allowed, _, _ := rl.Allow("client-1")
		if !allowed {
			t.Fatalf("request %d should be allowed", i)
		}
	}
}

func TestRateLimiter_BlocksOverLimit(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(RateLimitConfig{Rate: 3, Burst: 0, Window: time.Minute})
	defer rl.Stop()

	for i := 0; i < 3; i++ {
		rl.Allow("client-1")
	}

	allowed, remaining, _ := rl.Allow("client-1")
	if allowed {
		t.Error("request over limit should be blocked")
	}
	if remaining != 0 {
		t.Errorf("expected 0 remaining, got %d", remaining)
	}
}

func TestRateLimiter_IndependentKeys(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(RateLimitConfig{Rate: 1, Burst: 0, Window: time.Minute})
	defer rl.Stop()

	rl.Allow("client-1")
	if allowed, _, _ := rl.Allow("client-1"); allowed {
		t.Error("client-1 should be exhausted")
	}
	if allowed, _, _ := rl.Allow("client-2"); !allowed {
		t.Error("client-2 has its own bucket")
	}
}

func TestRateLimiter_BurstExtendsLimit(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(RateLimitConfig{Rate: 2, Burst: 3, Window: time.Minute})
	defer rl.Stop()

	// Rate + burst requests should all pass
	for i := 0; i < 5; i++ {
		allowed, _, _ := rl.Allow("client-1")
		if !allowed {
			t.Fatalf("request %d should be allowed within burst", i)
		}
	}

	if allowed, _, _ := rl.Allow("client-1"); allowed {
		t.Error("request past rate+burst should be blocked")
	}
}

func TestRateLimiter_RefillsAfterWindow(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(RateLimitConfig{Rate: 1, Burst: 0, Window: 20 * time.Millisecond})
	defer rl.Stop()

	rl.Allow("client-1")
	if allowed, _, _ := rl.Allow("client-1"); allowed {
		t.Fatal("should be exhausted")
	}

	time.Sleep(30 * time.Millisecond)

	if allowed, _, _ := rl.Allow("client-1"); !allowed {
		t.Error("bucket should refill after the window")
	}
}

// ============================================================================
// Middleware Tests
// ============================================================================

func TestRateLimit_SetsHeaders(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(RateLimitConfig{Rate: 10, Burst: 0, Window: time.Minute})
	defer rl.Stop()
	handler := &captureHandler{}

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	rr := httptest.NewRecorder()

	RateLimit(rl)(handler).ServeHTTP(rr, req)

	if rr.Header().Get("X-RateLimit-Limit") != "10" {
		t.Errorf("unexpected limit header %q", rr.Header().Get("X-RateLimit-Limit"))
	}
	if rr.Header().Get("X-RateLimit-Remaining") == "" {
		t.Error("expected remaining header")
	}
	if rr.Header().Get("X-RateLimit-Reset") == "" {
		t.Error("expected reset header")
	}
}

func TestRateLimit_Returns429WithRetryAfter(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(RateLimitConfig{Rate: 1, Burst: 0, Window: time.Minute})
	defer rl.Stop()
	handler := &captureHandler{}
	mw := RateLimit(rl)(handler)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.RemoteAddr = "10.0.0.1:1234"

	rr := httptest.NewRecorder()
	mw.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("first request should pass, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	mw.ServeHTTP(rr, req)
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rr.Code)
	}
	if rr.Header().Get("Retry-After") == "" {
		t.Error("expected Retry-After header")
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Errorf("expected problem+json, got %q", ct)
	}
}

func TestRateLimit_KeysAuthenticatedByUserID(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(RateLimitConfig{Rate: 1, Burst: 0, Window: time.Minute})
	defer rl.Stop()
	handler := &captureHandler{}
	mw := RateLimit(rl)(handler)

	// Two users behind the same address each get their own bucket
	for i, userID := range []string{"user:alice", "user:bob"} {
		identity := model.Identity{UserID: userID, Role: model.UserRoleUser}
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		req = req.WithContext(context.WithValue(req.Context(), IdentityKey, identity))

		rr := httptest.NewRecorder()
		mw.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Errorf("user %d should have a fresh bucket, got %d", i, rr.Code)
		}
	}
}

func TestRateLimit_GuestsShareAddressBucket(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(RateLimitConfig{Rate: 1, Burst: 0, Window: time.Minute})
	defer rl.Stop()
	handler := &captureHandler{}
	mw := RateLimit(rl)(handler)

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.RemoteAddr = "10.0.0.1:1234"

	rr := httptest.NewRecorder()
	mw.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("first guest request should pass, got %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	mw.ServeHTTP(rr, req)
	if rr.Code != http.StatusTooManyRequests {
		t.Errorf("second guest request from same address should be limited, got %d", rr.Code)
	}
}

// ============================================================================
// Cleanup Tests
// ============================================================================

func TestRateLimiter_CleanupRemovesStaleBuckets(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(RateLimitConfig{
		Rate:    10,
		Window:  10 * time.Millisecond,
		Cleanup: time.Hour, // Triggered manually
	})
	defer rl.Stop()

	for i := 0; i < 5; i++ {
		rl.Allow(fmt.Sprintf("client-%d", i))
	}

	time.Sleep(30 * time.Millisecond)
	rl.cleanupExpired()

	rl.mu.Lock()
	remaining := len(rl.buckets)
	rl.mu.Unlock()

	if remaining != 0 {
		t.Errorf("expected stale buckets removed, %d remain", remaining)
	}
}
