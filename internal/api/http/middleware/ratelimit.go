package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const (
	clientIdleTTL = 3 * time.Minute
	sweepInterval = time.Minute
)

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimit throttles requests per client IP using token buckets. Idle
// clients are evicted so the map does not grow with every IP ever seen.
type RateLimit struct {
	rps   rate.Limit
	burst int

	mu        sync.Mutex
	clients   map[string]*client
	nextSweep time.Time
}

// NewRateLimit creates a new RateLimit middleware allowing rps requests per
// second with the given burst per client.
func NewRateLimit(rps float64, burst int) *RateLimit {
	return &RateLimit{
		rps:       rate.Limit(rps),
		burst:     burst,
		clients:   make(map[string]*client),
		nextSweep: time.Now().Add(sweepInterval),
	}
}

// Handle rejects requests from clients that exceed their budget.
func (r *RateLimit) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !r.limiter(c.ClientIP()).Allow() {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"status":  "Fail",
				"message": "too many requests",
			})
			return
		}

		c.Next()
	}
}

func (r *RateLimit) limiter(ip string) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	if now.After(r.nextSweep) {
		r.sweep(now)
		r.nextSweep = now.Add(sweepInterval)
	}

	cl, ok := r.clients[ip]
	if !ok {
		cl = &client{limiter: rate.NewLimiter(r.rps, r.burst)}
		r.clients[ip] = cl
	}
	cl.lastSeen = now

	return cl.limiter
}

// sweep drops clients not seen within the idle TTL. Caller holds the lock.
func (r *RateLimit) sweep(now time.Time) {
	for ip, cl := range r.clients {
		if now.Sub(cl.lastSeen) > clientIdleTTL {
			delete(r.clients, ip)
		}
	}
}
