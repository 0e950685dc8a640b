package api

import (
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/volleydle/volleydle-data/internal/api/respond"
	"github.com/volleydle/volleydle-data/internal/config"
)

// --------------------------------------------------------------------------
// Request timing middleware
// --------------------------------------------------------------------------

// TimingMiddleware adds X-Process-Time header to all responses.
func TimingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		elapsed := time.Since(start)
		w.Header().Set("X-Process-Time", fmt.Sprintf("%.2fms", float64(elapsed.Microseconds())/1000.0))
	})
}

// --------------------------------------------------------------------------
// Rate limiting middleware (per-caller token bucket)
// --------------------------------------------------------------------------

// callerLimiter holds one token bucket per caller key. A caller is
// identified by their session cookie when they have one, so players
// behind a shared NAT do not eat each other's budget; cookieless
// requests fall back to the client IP.
type callerLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
}

func newCallerLimiter(requestsPerWindow, burst int, window time.Duration) *callerLimiter {
	rps := float64(requestsPerWindow) / window.Seconds()
	if burst < 1 {
		burst = 1
	}
	return &callerLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Limit(rps),
		burst:    burst,
	}
}

func (l *callerLimiter) getLimiter(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	if limiter, exists := l.limiters[key]; exists {
		return limiter
	}
	limiter := rate.NewLimiter(l.rate, l.burst)
	l.limiters[key] = limiter
	return limiter
}

// callerKey picks the rate-limit identity for a request.
func callerKey(r *http.Request, cookieName string) string {
	if c, err := r.Cookie(cookieName); err == nil && c.Value != "" {
		return "session:" + c.Value
	}
	ip, _, _ := net.SplitHostPort(r.RemoteAddr)
	if ip == "" {
		ip = r.RemoteAddr
	}
	return "ip:" + ip
}

// RateLimitMiddleware returns middleware that rate-limits each caller
// with the budget and burst from config.
func RateLimitMiddleware(cfg *config.Config) func(http.Handler) http.Handler {
	limiter := newCallerLimiter(cfg.RateLimitRequests, cfg.RateLimitBurst, cfg.RateLimitWindow)
	retryAfter := fmt.Sprintf("%d", int(cfg.RateLimitWindow.Seconds()))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			key := callerKey(r, cfg.SessionCookieName)
			if !limiter.getLimiter(key).Allow() {
				w.Header().Set("Retry-After", retryAfter)
				respond.WriteError(w, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
