package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/securevote/voting-service/internal/config"
)

// fakeClock lets tests move the window forward deterministically.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (f *fakeClock) now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

func (f *fakeClock) advance(d time.Duration) {
	f.mu.Lock()
	f.t = f.t.Add(d)
	f.mu.Unlock()
}

func newTestLimiter(limit int) (*RateLimiter, *fakeClock) {
	clock := &fakeClock{t: time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)}
	rl := NewRateLimiter(config.RateLimitConfig{Enabled: true, PerMinute: limit})
	rl.now = clock.now
	return rl, clock
}

func TestRateLimiter_SlidingWindow(t *testing.T) {
	rl, clock := newTestLimiter(3)

	// Calls 1-3 inside the window are allowed, call 4 is rejected.
	for i := 1; i <= 3; i++ {
		if !rl.Allow("client-a") {
			t.Fatalf("call %d rejected, want allowed", i)
		}
		clock.advance(time.Second)
	}
	if rl.Allow("client-a") {
		t.Fatal("call 4 allowed inside the window, want rejected")
	}

	// 60s after the first call its timestamp ages out and one slot frees up.
	clock.advance(58 * time.Second) // first call was 61s ago now
	if !rl.Allow("client-a") {
		t.Error("call after window expiry rejected, want allowed")
	}
}

func TestRateLimiter_RejectionNotRecorded(t *testing.T) {
	rl, clock := newTestLimiter(2)

	rl.Allow("c")
	rl.Allow("c")
	// Hammering while blocked must not extend the block.
	for i := 0; i < 10; i++ {
		if rl.Allow("c") {
			t.Fatal("over-limit call allowed")
		}
		clock.advance(time.Second)
	}
	// 10s of rejections later, the two recorded calls are 10-12s old; after
	// the rest of the window passes the client gets in again.
	clock.advance(51 * time.Second)
	if !rl.Allow("c") {
		t.Error("call after window passed rejected; rejected requests were recorded")
	}
}

func TestRateLimiter_PerClientIsolation(t *testing.T) {
	rl, _ := newTestLimiter(1)

	if !rl.Allow("a") {
		t.Fatal("first call for a rejected")
	}
	if !rl.Allow("b") {
		t.Error("first call for b rejected; buckets are shared across clients")
	}
	if rl.Allow("a") {
		t.Error("second call for a allowed")
	}
}

func TestRateLimiter_Disabled(t *testing.T) {
	rl := NewRateLimiter(config.RateLimitConfig{Enabled: false, PerMinute: 1})
	for i := 0; i < 100; i++ {
		if !rl.Allow("c") {
			t.Fatal("disabled limiter rejected a request")
		}
	}
}

func TestRateLimiter_ConcurrentCallsRespectLimit(t *testing.T) {
	rl, _ := newTestLimiter(50)

	const n = 200
	var wg sync.WaitGroup
	var mu sync.Mutex
	allowed := 0
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if rl.Allow("shared") {
				mu.Lock()
				allowed++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	if allowed != 50 {
		t.Errorf("%d concurrent requests admitted, want exactly 50", allowed)
	}
}

func TestRateLimiter_Middleware(t *testing.T) {
	rl, _ := newTestLimiter(1)
	e := echo.New()
	e.GET("/", func(c echo.Context) error { return c.String(http.StatusOK, "ok") }, rl.Middleware())

	do := func() int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.0.2.1:1234"
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := do(); code != http.StatusOK {
		t.Fatalf("first request status = %d, want 200", code)
	}
	if code := do(); code != http.StatusTooManyRequests {
		t.Errorf("second request status = %d, want 429", code)
	}
}
