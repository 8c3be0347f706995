package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimiterBlocksAfterLimit(t *testing.T) {
	rl := NewRateLimiter(3, time.Minute)
	defer rl.Stop()

	h := rl.Middleware(okHandler())

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/accounts/login/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		h.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d blocked early: %d", i+1, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/accounts/login/", nil)
	req.RemoteAddr = "10.0.0.1:1234"
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d after limit, want 429", rec.Code)
	}
}

func TestRateLimiterIsolatesClients(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	defer rl.Stop()

	h := rl.Middleware(okHandler())

	first := httptest.NewRequest(http.MethodPost, "/api/accounts/login/", nil)
	first.RemoteAddr = "10.0.0.1:1234"
	h.ServeHTTP(httptest.NewRecorder(), first)

	rec := httptest.NewRecorder()
	second := httptest.NewRequest(http.MethodPost, "/api/accounts/login/", nil)
	second.RemoteAddr = "10.0.0.2:1234"
	h.ServeHTTP(rec, second)

	if rec.Code != http.StatusOK {
		t.Errorf("different IP blocked: %d", rec.Code)
	}
}
