package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestMiddlewareAllowsWithinBurst(t *testing.T) {
	l := New(rate.Limit(1), 3, time.Minute, nil)
	h := l.Middleware()(okHandler())

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestMiddlewareRejectsOverBurst(t *testing.T) {
	l := New(rate.Limit(1), 1, time.Minute, nil)
	h := l.Middleware()(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.2:1234"

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.JSONEq(t, `{"error":"rate limit exceeded"}`, rec.Body.String())
}

func TestLimitsArePerIP(t *testing.T) {
	l := New(rate.Limit(1), 1, time.Minute, nil)
	h := l.Middleware()(okHandler())

	first := httptest.NewRequest(http.MethodGet, "/", nil)
	first.RemoteAddr = "10.0.0.3:1234"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, first)
	assert.Equal(t, http.StatusOK, rec.Code)

	// A different client still has a full bucket.
	second := httptest.NewRequest(http.MethodGet, "/", nil)
	second.RemoteAddr = "10.0.0.4:1234"
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, second)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestForwardedHeaderIgnoredFromUntrustedPeer(t *testing.T) {
	l := New(rate.Limit(1), 1, time.Minute, []string{"192.168.0.0/16"})
	h := l.Middleware()(okHandler())

	// Both requests spoof different client IPs, but the untrusted peer
	// address is what counts, so the second is rejected.
	for i, want := range []int{http.StatusOK, http.StatusTooManyRequests} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.5:1234"
		req.Header.Set("X-Forwarded-For", []string{"1.1.1.1", "2.2.2.2"}[i])
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, want, rec.Code)
	}
}

func TestForwardedHeaderHonoredFromTrustedProxy(t *testing.T) {
	l := New(rate.Limit(1), 1, time.Minute, []string{"192.168.0.1"})
	h := l.Middleware()(okHandler())

	// Same trusted proxy, different forwarded clients: separate buckets.
	for _, client := range []string{"1.1.1.1", "2.2.2.2"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "192.168.0.1:1234"
		req.Header.Set("X-Forwarded-For", client)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestParseCIDROrIP(t *testing.T) {
	assert.NotNil(t, parseCIDROrIP("10.0.0.0/8"))
	assert.NotNil(t, parseCIDROrIP("10.1.2.3"))
	assert.NotNil(t, parseCIDROrIP("::1"))
	assert.Nil(t, parseCIDROrIP("not an ip"))
}
