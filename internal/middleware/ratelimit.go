package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"
)

// RateLimiter is a sliding-window request limiter keyed by client id.
// It is an injected component with its own lifecycle, not a process-wide
// singleton; construct one per router.
type RateLimiter struct {
	maxRequests int
	window      time.Duration

	mu       sync.Mutex
	requests map[string][]time.Time

	// now is replaceable in tests.
	now func() time.Time
}

// NewRateLimiter constructs a limiter allowing maxRequests per client
// within window.
func NewRateLimiter(maxRequests int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		maxRequests: maxRequests,
		window:      window,
		requests:    make(map[string][]time.Time),
		now:         time.Now,
	}
}

// Allow reports whether the client may make another request, recording
// it when allowed. Entries older than the window are dropped on each
// call, so an idle client's history does not grow unbounded.
func (l *RateLimiter) Allow(clientID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	kept := l.requests[clientID][:0]
	for _, t := range l.requests[clientID] {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}

	if len(kept) >= l.maxRequests {
		l.requests[clientID] = kept
		return false
	}

	l.requests[clientID] = append(kept, now)
	return true
}

// WithRateLimit returns a middleware that rejects requests over the
// limiter's budget with 429. Clients are keyed by remote IP.
func WithRateLimit(limiter *RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			host, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				host = r.RemoteAddr
			}
			if !limiter.Allow(host) {
				http.Error(w, "rate limit exceeded", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
