package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// rateLimit tracks request counts for one client key.
type rateLimit struct {
	Count      int
	ResetAt    time.Time
	LastAccess time.Time
	Blocked    bool
	BlockUntil time.Time
}

// RateLimitConfig bounds requests per client within a time window; a
// client that exceeds the bound is blocked for BlockDuration.
type RateLimitConfig struct {
	MaxRequests   int
	TimeWindow    time.Duration
	BlockDuration time.Duration
}

// RateLimiter holds in-memory per-IP rate limit state.
type RateLimiter struct {
	store       map[string]*rateLimit
	mutex       sync.Mutex
	cleanupTime time.Duration
}

// NewRateLimiter creates a rate limiter and starts its cleanup loop.
func NewRateLimiter(cleanupTime time.Duration) *RateLimiter {
	limiter := &RateLimiter{
		store:       make(map[string]*rateLimit),
		cleanupTime: cleanupTime,
	}

	go limiter.cleanup()

	return limiter
}

func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(rl.cleanupTime)
	defer ticker.Stop()

	for range ticker.C {
		rl.mutex.Lock()
		now := time.Now()
		for key, limit := range rl.store {
			if now.Sub(limit.LastAccess) > 24*time.Hour {
				delete(rl.store, key)
			}
		}
		rl.mutex.Unlock()
	}
}

func (rl *RateLimiter) isAllowed(key string, config RateLimitConfig) bool {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	now := time.Now()
	limit, exists := rl.store[key]

	if !exists {
		rl.store[key] = &rateLimit{
			Count:      1,
			ResetAt:    now.Add(config.TimeWindow),
			LastAccess: now,
		}
		return true
	}

	if limit.Blocked {
		if now.After(limit.BlockUntil) {
			limit.Blocked = false
			limit.Count = 1
			limit.ResetAt = now.Add(config.TimeWindow)
			limit.LastAccess = now
			return true
		}
		return false
	}

	if now.After(limit.ResetAt) {
		limit.Count = 1
		limit.ResetAt = now.Add(config.TimeWindow)
		limit.LastAccess = now
		return true
	}

	if limit.Count >= config.MaxRequests {
		limit.Blocked = true
		limit.BlockUntil = now.Add(config.BlockDuration)
		limit.LastAccess = now
		return false
	}

	limit.Count++
	limit.LastAccess = now
	return true
}

// Limit returns middleware enforcing config per client IP. The scope
// prefix keeps counters for different endpoints separate.
func (rl *RateLimiter) Limit(scope string, config RateLimitConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := scope + ":" + c.ClientIP()

		if !rl.isAllowed(key, config) {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"message": "Too many requests. Please try again later.",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
