package http

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetClientIP(t *testing.T) {
	r := httptest.NewRequest("GET", "/", nil)
	r.RemoteAddr = "10.0.0.1:5555"
	assert.Equal(t, "10.0.0.1", getClientIP(r))

	r.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "203.0.113.9", getClientIP(r))
}

func TestRateLimiter_EvictsIdleVisitors(t *testing.T) {
	rl := NewRateLimiter(5, 5)
	first := rl.GetLimiter("1.1.1.1")
	rl.GetLimiter("2.2.2.2")

	rl.evictIdle(time.Now().Add(rl.cleanupInterval + time.Second))

	assert.Empty(t, rl.visitors)
	assert.NotSame(t, first, rl.GetLimiter("1.1.1.1"))
}
