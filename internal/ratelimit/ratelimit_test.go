package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func newTestLimiter(window time.Duration, max int) (*Limiter, *clock) {
	c := &clock{t: time.Date(2018, 1, 1, 0, 0, 0, 0, time.UTC)}
	l := NewLimiter(window, max)
	l.now = c.now
	return l, c
}

func TestLimiter_Allow(t *testing.T) {
	limiter, clk := newTestLimiter(time.Second, 3)
	defer limiter.Stop()

	for i := 0; i < 3; i++ {
		assert.True(t, limiter.Allow("test-key"), "request %d should be allowed", i+1)
	}
	assert.False(t, limiter.Allow("test-key"), "4th request should be blocked")
	assert.True(t, limiter.Allow("other-key"), "keys are independent")

	clk.t = clk.t.Add(1100 * time.Millisecond)
	assert.True(t, limiter.Allow("test-key"), "request after window expiry should be allowed")
}

func TestLimiter_Remaining(t *testing.T) {
	limiter, _ := newTestLimiter(time.Second, 5)
	defer limiter.Stop()

	assert.Equal(t, 5, limiter.Remaining("test-key"))
	limiter.Allow("test-key")
	limiter.Allow("test-key")
	assert.Equal(t, 3, limiter.Remaining("test-key"))
}

func TestMiddleware(t *testing.T) {
	limiter, _ := newTestLimiter(time.Minute, 1)
	defer limiter.Stop()

	h := limiter.Middleware(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	do := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	require.Equal(t, http.StatusNoContent, do("10.0.0.1:1234").Code)
	rec := do("10.0.0.1:5678")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
	assert.Equal(t, http.StatusNoContent, do("10.0.0.2:1234").Code)
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.1:443"
	assert.Equal(t, "192.168.1.1", ClientIP(req))

	req.RemoteAddr = "garbage"
	assert.Equal(t, "garbage", ClientIP(req))
}
