package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRateLimiterAllowsWithinWindow(t *testing.T) {
	limiter := NewRateLimiter(time.Hour)
	config := RateLimitConfig{MaxRequests: 3, TimeWindow: time.Minute, BlockDuration: time.Minute}

	for i := 0; i < 3; i++ {
		assert.True(t, limiter.isAllowed("login:1.2.3.4", config), "request %d", i+1)
	}
}

func TestRateLimiterBlocksOverLimit(t *testing.T) {
	limiter := NewRateLimiter(time.Hour)
	config := RateLimitConfig{MaxRequests: 2, TimeWindow: time.Minute, BlockDuration: time.Minute}

	assert.True(t, limiter.isAllowed("login:1.2.3.4", config))
	assert.True(t, limiter.isAllowed("login:1.2.3.4", config))
	assert.False(t, limiter.isAllowed("login:1.2.3.4", config))
	// still blocked on the next attempt
	assert.False(t, limiter.isAllowed("login:1.2.3.4", config))
}

func TestRateLimiterKeysAreIndependent(t *testing.T) {
	limiter := NewRateLimiter(time.Hour)
	config := RateLimitConfig{MaxRequests: 1, TimeWindow: time.Minute, BlockDuration: time.Minute}

	assert.True(t, limiter.isAllowed("login:1.2.3.4", config))
	assert.False(t, limiter.isAllowed("login:1.2.3.4", config))

	assert.True(t, limiter.isAllowed("login:5.6.7.8", config))
	assert.True(t, limiter.isAllowed("reset:1.2.3.4", config))
}

func TestRateLimiterUnblocksAfterBlockDuration(t *testing.T) {
	limiter := NewRateLimiter(time.Hour)
	config := RateLimitConfig{MaxRequests: 1, TimeWindow: 10 * time.Millisecond, BlockDuration: 20 * time.Millisecond}

	assert.True(t, limiter.isAllowed("login:1.2.3.4", config))
	assert.False(t, limiter.isAllowed("login:1.2.3.4", config))

	time.Sleep(30 * time.Millisecond)
	assert.True(t, limiter.isAllowed("login:1.2.3.4", config))
}

func TestLimitMiddlewareReturns429(t *testing.T) {
	gin.SetMode(gin.TestMode)
	limiter := NewRateLimiter(time.Hour)
	config := RateLimitConfig{MaxRequests: 1, TimeWindow: time.Minute, BlockDuration: time.Minute}

	router := gin.New()
	router.POST("/login", limiter.Limit("login", config), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "ok"})
	})

	first := httptest.NewRecorder()
	router.ServeHTTP(first, httptest.NewRequest(http.MethodPost, "/login", nil))
	assert.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	router.ServeHTTP(second, httptest.NewRequest(http.MethodPost, "/login", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Contains(t, second.Body.String(), "Too many requests")
}
