package fetch

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestGetReturnsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("User-Agent") == "" {
			t.Fatalf("expected user agent header")
		}
		w.Write([]byte("halo"))
	}))
	defer srv.Close()

	client := New(discardLogger(), Config{RateLimitRPS: 100, RateBurst: 10})
	body, status, err := client.Get(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if status != http.StatusOK || string(body) != "halo" {
		t.Fatalf("unexpected response: status=%d body=%q", status, body)
	}
}

func TestGetRetriesTransientStatus(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	client := New(discardLogger(), Config{
		Retries:      2,
		BaseBackoff:  time.Millisecond,
		MaxBackoff:   2 * time.Millisecond,
		RateLimitRPS: 100,
		RateBurst:    10,
	})
	body, status, err := client.Get(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if status != http.StatusOK || string(body) != "ok" {
		t.Fatalf("unexpected response: status=%d body=%q", status, body)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Fatalf("expected 2 attempts, got %d", got)
	}
}

func TestGetDoesNotRetryClientError(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := New(discardLogger(), Config{Retries: 2, RateLimitRPS: 100, RateBurst: 10})
	_, status, err := client.Get(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if status != http.StatusNotFound {
		t.Fatalf("unexpected status: %d", status)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Fatalf("expected 1 attempt, got %d", got)
	}
}

func TestHostRateLimiterHonorsContext(t *testing.T) {
	limiter := NewHostRateLimiter(0.001, 1)
	if err := limiter.Wait(context.Background(), "example.com"); err != nil {
		t.Fatalf("first wait: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := limiter.Wait(ctx, "example.com"); err == nil {
		t.Fatalf("expected context error while throttled")
	}
}
