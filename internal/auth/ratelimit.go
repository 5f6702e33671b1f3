package auth

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

var (
	rateLimiters   = make(map[string]*rate.Limiter)
	rateLimitersMu sync.Mutex
)

// getRateLimiter returns the limiter for a client IP, creating it on first
// sight. A manual expiry check is an operational action; a few per minute is
// plenty.
func getRateLimiter(ip string) *rate.Limiter {
	rateLimitersMu.Lock()
	defer rateLimitersMu.Unlock()

	limiter, exists := rateLimiters[ip]
	if !exists {
		limiter = rate.NewLimiter(rate.Every(6*time.Second), 5)
		rateLimiters[ip] = limiter
	}
	return limiter
}

// RateLimitMiddleware limits requests per client IP. It sits in front of the
// manual trigger so a misbehaving caller cannot hammer full passes.
func RateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := realClientIP(c)
		if !getRateLimiter(ip).Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded, try again later"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// realClientIP prefers the proxy-set headers over gin's own resolution
func realClientIP(c *gin.Context) string {
	if ip := c.GetHeader("X-Real-IP"); ip != "" {
		return ip
	}
	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}
	return c.ClientIP()
}
