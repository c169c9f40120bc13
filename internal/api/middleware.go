package api

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// clientLimiter keeps one token bucket per client IP.
type clientLimiter struct {
	mu       sync.Mutex
	clients  map[string]*clientEntry
	limit    rate.Limit
	burst    int
	lastSeen time.Duration
}

type clientEntry struct {
	limiter *rate.Limiter
	seen    time.Time
}

func newClientLimiter(perSecond float64, burst int) *clientLimiter {
	if burst <= 0 {
		burst = int(perSecond)
		if burst < 1 {
			burst = 1
		}
	}
	return &clientLimiter{
		clients:  make(map[string]*clientEntry),
		limit:    rate.Limit(perSecond),
		burst:    burst,
		lastSeen: 10 * time.Minute,
	}
}

func (cl *clientLimiter) allow(addr string) bool {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		host = addr
	}

	cl.mu.Lock()
	entry, ok := cl.clients[host]
	if !ok {
		entry = &clientEntry{limiter: rate.NewLimiter(cl.limit, cl.burst), seen: time.Now()}
		cl.clients[host] = entry
		// Evict stale clients while we hold the lock.
		for ip, e := range cl.clients {
			if time.Since(e.seen) > cl.lastSeen {
				delete(cl.clients, ip)
			}
		}
	}
	entry.seen = time.Now()
	cl.mu.Unlock()

	return entry.limiter.Allow()
}

func (s *HTTPServer) rateLimitMiddleware(next http.Handler) http.Handler {
	if s.limiter == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.allow(r.RemoteAddr) {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// authorized checks the API key on mutating endpoints. Caller identity is
// established here; authorization decisions stay outside the reservation
// core.
func (s *HTTPServer) authorized(r *http.Request) bool {
	if s.apiKey == "" {
		return true
	}
	return r.Header.Get("X-API-Key") == s.apiKey
}
