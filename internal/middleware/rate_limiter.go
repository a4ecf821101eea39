package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// ClientLimiter applies a per-IP token bucket to every request passing
// through it. Entries for idle clients are evicted after idleTTL so the
// map does not grow without bound.
type ClientLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientBucket

	limit   rate.Limit
	burst   int
	idleTTL time.Duration
}

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewClientLimiter creates a limiter allowing rps requests per second
// with the given burst per client IP.
func NewClientLimiter(rps float64, burst int) *ClientLimiter {
	cl := &ClientLimiter{
		clients: make(map[string]*clientBucket),
		limit:   rate.Limit(rps),
		burst:   burst,
		idleTTL: 10 * time.Minute,
	}
	go cl.evictLoop()
	return cl
}

// Allow reports whether a request from ip may proceed now.
func (cl *ClientLimiter) Allow(ip string) bool {
	cl.mu.Lock()
	bucket, ok := cl.clients[ip]
	if !ok {
		bucket = &clientBucket{limiter: rate.NewLimiter(cl.limit, cl.burst)}
		cl.clients[ip] = bucket
	}
	bucket.lastSeen = time.Now()
	cl.mu.Unlock()

	return bucket.limiter.Allow()
}

func (cl *ClientLimiter) evictLoop() {
	ticker := time.NewTicker(cl.idleTTL)
	defer ticker.Stop()

	for range ticker.C {
		cutoff := time.Now().Add(-cl.idleTTL)
		cl.mu.Lock()
		for ip, bucket := range cl.clients {
			if bucket.lastSeen.Before(cutoff) {
				delete(cl.clients, ip)
			}
		}
		cl.mu.Unlock()
	}
}

// RateLimit rejects requests over the per-IP budget with a 429.
func RateLimit(rps float64, burst int) gin.HandlerFunc {
	limiter := NewClientLimiter(rps, burst)

	return func(c *gin.Context) {
		if !limiter.Allow(c.ClientIP()) {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "Rate limit exceeded. Please try again later.",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
