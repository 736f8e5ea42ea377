package middleware

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cubongjay/ragchat/internal/api/response"
	"github.com/cubongjay/ragchat/internal/config"
)

const cleanupInterval = 5 * time.Minute

// RateLimiter enforces a sliding request window per API key. Timestamps of
// recent requests are kept per key; stale entries are pruned lazily on each
// check, and idle keys are dropped on a periodic sweep. The window is
// advisory: concurrent requests from one key may briefly race past the
// limit, which self-corrects on the next check.
type RateLimiter struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu          sync.Mutex
	requests    map[string][]time.Time
	lastCleanup time.Time
}

// NewRateLimiter creates a rate limiter allowing limit requests per window
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:    limit,
		window:   window,
		now:      time.Now,
		requests: make(map[string][]time.Time),
	}
}

// Allow records a request for key and reports whether it is within the window
func (l *RateLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.cleanup(now)

	cutoff := now.Add(-l.window)
	timestamps := l.requests[key]
	for len(timestamps) > 0 && timestamps[0].Before(cutoff) {
		timestamps = timestamps[1:]
	}

	if len(timestamps) >= l.limit {
		l.requests[key] = timestamps
		return false
	}

	l.requests[key] = append(timestamps, now)
	return true
}

// cleanup drops idle keys so the map does not grow unbounded. Caller holds mu.
func (l *RateLimiter) cleanup(now time.Time) {
	if now.Sub(l.lastCleanup) < cleanupInterval {
		return
	}

	cutoff := now.Add(-l.window)
	for key, timestamps := range l.requests {
		for len(timestamps) > 0 && timestamps[0].Before(cutoff) {
			timestamps = timestamps[1:]
		}
		if len(timestamps) == 0 {
			delete(l.requests, key)
		} else {
			l.requests[key] = timestamps
		}
	}

	l.lastCleanup = now
}

// RateLimit returns middleware enforcing the configured per-key window.
// Requests without an API key are not limited; auth rejects them when a
// key is required.
func RateLimit(cfg config.RateLimitConfig) gin.HandlerFunc {
	limiter := NewRateLimiter(cfg.Requests, time.Duration(cfg.WindowSeconds)*time.Second)

	return func(c *gin.Context) {
		if !cfg.Enabled {
			c.Next()
			return
		}

		key := APIKey(c)
		if key == "" {
			c.Next()
			return
		}

		if !limiter.Allow(key) {
			response.Abort(c, http.StatusTooManyRequests, response.CodeRateLimited,
				fmt.Sprintf("rate limit exceeded: %d requests per %d seconds", cfg.Requests, cfg.WindowSeconds),
				map[string]any{"limit": cfg.Requests, "window": cfg.WindowSeconds})
			return
		}

		c.Next()
	}
}
