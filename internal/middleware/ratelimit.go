package middleware

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

type bucket struct {
	count int
	until time.Time
}

type rateLimiter struct {
	mu      sync.Mutex
	limit   int
	per     time.Duration
	buckets map[string]*bucket
}

func newRateLimiter(limit int, per time.Duration) *rateLimiter {
	return &rateLimiter{
		limit:   limit,
		per:     per,
		buckets: make(map[string]*bucket),
	}
}

// allow reports whether a request from ip fits the current window. When the
// caller's window rolls over, expired buckets for every IP are swept so the
// map does not grow without bound under rotating clients.
func (rl *rateLimiter) allow(ip string, now time.Time) (bool, int) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, ok := rl.buckets[ip]
	if !ok || now.After(b.until) {
		rl.sweep(now)
		b = &bucket{count: 0, until: now.Add(rl.per)}
		rl.buckets[ip] = b
	}
	if b.count >= rl.limit {
		retryAfter := int(b.until.Sub(now).Seconds()) + 1
		return false, retryAfter
	}
	b.count++
	return true, 0
}

func (rl *rateLimiter) sweep(now time.Time) {
	for ip, b := range rl.buckets {
		if now.After(b.until) {
			delete(rl.buckets, ip)
		}
	}
}

// RateLimit is a fixed-window per-IP limiter. Windows are tracked in memory
// and reset on restart.
func RateLimit(limit int, per time.Duration) func(http.Handler) http.Handler {
	rl := newRateLimiter(limit, per)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok, retryAfter := rl.allow(clientIPForRateLimit(r), time.Now())
			if !ok {
				w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func clientIPForRateLimit(r *http.Request) string {
	if xf := r.Header.Get("X-Forwarded-For"); xf != "" {
		for _, part := range strings.Split(xf, ",") {
			ip := strings.TrimSpace(part)
			if ip == "" {
				continue
			}
			if net.ParseIP(ip) != nil {
				return ip
			}
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil {
		if net.ParseIP(host) != nil {
			return host
		}
	} else if net.ParseIP(r.RemoteAddr) != nil {
		return r.RemoteAddr
	}

	return r.RemoteAddr
}
