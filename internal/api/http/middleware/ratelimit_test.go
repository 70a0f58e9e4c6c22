package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newRateLimitRouter(rps float64, burst int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.GET("/", NewRateLimit(rps, burst).Handle(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return engine
}

func TestRateLimit_AllowsWithinBurst(t *testing.T) {
	engine := newRateLimitRouter(1, 3)

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		engine.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestRateLimit_RejectsOverBurst(t *testing.T) {
	engine := newRateLimitRouter(1, 2)

	var last int
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.2:1234"
		engine.ServeHTTP(rec, req)
		last = rec.Code
	}

	assert.Equal(t, http.StatusTooManyRequests, last)
}

func TestRateLimit_BudgetIsPerClient(t *testing.T) {
	engine := newRateLimitRouter(1, 1)

	first := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.3:1234"
	engine.ServeHTTP(first, req)

	second := httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.4:1234"
	engine.ServeHTTP(second, req)

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusOK, second.Code)
}

func TestRateLimit_EvictsIdleClients(t *testing.T) {
	rl := NewRateLimit(1, 1)

	rl.limiter("10.0.0.5")
	rl.limiter("10.0.0.6")

	// Age one client past the TTL and force the next call to sweep.
	rl.mu.Lock()
	rl.clients["10.0.0.5"].lastSeen = time.Now().Add(-2 * clientIdleTTL)
	rl.nextSweep = time.Now().Add(-time.Second)
	rl.mu.Unlock()

	rl.limiter("10.0.0.7")

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.NotContains(t, rl.clients, "10.0.0.5")
	assert.Contains(t, rl.clients, "10.0.0.6")
	assert.Contains(t, rl.clients, "10.0.0.7")
}
