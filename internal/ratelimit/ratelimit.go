// Package ratelimit provides per-client request rate limiting for the
// API.
//
// Each client IP gets its own token bucket. The client IP is taken from
// X-Forwarded-For or X-Real-IP only when the request arrives through a
// configured trusted proxy; otherwise the connection's remote address
// is used, so untrusted clients cannot spoof their way past the limit.
package ratelimit

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// maxBuckets caps the number of tracked client IPs.
const maxBuckets = 10000

// Limiter hands out per-IP token buckets.
type Limiter struct {
	mu             sync.Mutex
	buckets        map[string]*bucket
	rate           rate.Limit
	burst          int
	idleTimeout    time.Duration
	trustedProxies []*net.IPNet
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// New creates a Limiter allowing r requests per second with the given
// burst. trustedProxies lists CIDR ranges (or bare IPs) of reverse
// proxies whose forwarding headers are honored. Stale buckets are
// reaped in the background.
func New(r rate.Limit, burst int, idleTimeout time.Duration, trustedProxies []string) *Limiter {
	l := &Limiter{
		buckets:     make(map[string]*bucket),
		rate:        r,
		burst:       burst,
		idleTimeout: idleTimeout,
	}

	for _, entry := range trustedProxies {
		if ipnet := parseCIDROrIP(entry); ipnet != nil {
			l.trustedProxies = append(l.trustedProxies, ipnet)
		}
	}

	go l.reapStale()
	return l
}

// Middleware rejects requests over the limit with a JSON 429.
func (l *Limiter) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !l.allow(l.clientIP(r)) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "rate limit exceeded"})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func (l *Limiter) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, ok := l.buckets[ip]
	if !ok {
		if len(l.buckets) >= maxBuckets {
			l.evictOldestLocked()
		}
		b = &bucket{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.buckets[ip] = b
	}
	b.lastSeen = time.Now()
	return b.limiter.Allow()
}

func (l *Limiter) evictOldestLocked() {
	var oldestIP string
	var oldest time.Time
	for ip, b := range l.buckets {
		if oldestIP == "" || b.lastSeen.Before(oldest) {
			oldestIP = ip
			oldest = b.lastSeen
		}
	}
	if oldestIP != "" {
		delete(l.buckets, oldestIP)
	}
}

func (l *Limiter) reapStale() {
	ticker := time.NewTicker(l.idleTimeout)
	defer ticker.Stop()

	for range ticker.C {
		cutoff := time.Now().Add(-2 * l.idleTimeout)
		l.mu.Lock()
		for ip, b := range l.buckets {
			if b.lastSeen.Before(cutoff) {
				delete(l.buckets, ip)
			}
		}
		l.mu.Unlock()
	}
}

// clientIP determines the address to rate limit on. Forwarding headers
// are only honored when the direct peer is a trusted proxy.
func (l *Limiter) clientIP(r *http.Request) string {
	remote := parseAddr(r.RemoteAddr)

	if len(l.trustedProxies) > 0 && !l.isTrusted(remote) {
		return remote.String()
	}
	if len(l.trustedProxies) == 0 {
		return remote.String()
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first := strings.TrimSpace(strings.Split(xff, ",")[0])
		if ip := net.ParseIP(first); ip != nil {
			return ip.String()
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		if ip := net.ParseIP(xri); ip != nil {
			return ip.String()
		}
	}
	return remote.String()
}

func (l *Limiter) isTrusted(ip net.IP) bool {
	for _, ipnet := range l.trustedProxies {
		if ipnet.Contains(ip) {
			return true
		}
	}
	return false
}

func parseCIDROrIP(s string) *net.IPNet {
	if _, ipnet, err := net.ParseCIDR(s); err == nil {
		return ipnet
	}
	ip := net.ParseIP(s)
	if ip == nil {
		return nil
	}
	suffix := "/32"
	if ip.To4() == nil {
		suffix = "/128"
	}
	_, ipnet, _ := net.ParseCIDR(s + suffix)
	return ipnet
}

func parseAddr(addr string) net.IP {
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return net.ParseIP(host)
	}
	return net.ParseIP(addr)
}
