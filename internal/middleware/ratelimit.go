package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/securevote/voting-service/internal/config"
)

// rateWindow is the trailing window over which requests are counted.
const rateWindow = 60 * time.Second

// RateLimiter is a sliding-window admission guard.  It keeps, per client,
// the timestamps of requests inside the trailing 60 seconds; a request is
// rejected when the pruned window already holds the configured limit.  The
// state is process-local and mutex-guarded: prune and append happen inside
// one critical section so concurrent requests cannot sneak past the limit
// through lost updates.
type RateLimiter struct {
	mu      sync.Mutex
	enabled bool
	limit   int
	buckets map[string][]time.Time

	now func() time.Time // injectable clock for tests
}

// NewRateLimiter builds a limiter from configuration.  A disabled limiter
// admits everything.
func NewRateLimiter(cfg config.RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		enabled: cfg.Enabled,
		limit:   cfg.PerMinute,
		buckets: map[string][]time.Time{},
		now:     time.Now,
	}
}

// Allow reports whether a request from clientID may proceed, recording it
// if so.  Rejected requests are not recorded, so a client hammering the
// endpoint does not push its own window forward.
func (rl *RateLimiter) Allow(clientID string) bool {
	if !rl.enabled {
		return true
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	cutoff := now.Add(-rateWindow)

	history := rl.buckets[clientID][:0:0]
	for _, t := range rl.buckets[clientID] {
		if !t.Before(cutoff) {
			history = append(history, t)
		}
	}
	if len(history) >= rl.limit {
		rl.buckets[clientID] = history
		return false
	}
	rl.buckets[clientID] = append(history, now)
	return true
}

// Middleware adapts the limiter to Echo, keyed by client IP.  It runs in
// front of every route, authenticated or not.
func (rl *RateLimiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()
			if ip == "" {
				ip = "unknown"
			}
			if !rl.Allow(ip) {
				return c.JSON(http.StatusTooManyRequests, echo.Map{"detail": "Rate limit exceeded"})
			}
			return next(c)
		}
	}
}
