package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/NeroTheWero/Roblox-Proxy/internal/domain"
	"github.com/NeroTheWero/Roblox-Proxy/internal/repository"
)

const rateWindow = time.Minute

// RateLimiter returns a middleware that enforces per-IP rate limiting over
// fixed one-minute windows kept in store. maxRequests <= 0 disables it.
// A failing store lets the request through.
func RateLimiter(store repository.RateLimitStore, maxRequests int, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if maxRequests <= 0 {
			c.Next()
			return
		}

		ip := c.ClientIP()
		count, err := store.Hit(c.Request.Context(), ip, rateWindow)
		if err != nil {
			logger.Warn("Rate limit store unavailable, allowing request", zap.String("ip", ip), zap.Error(err))
			c.Next()
			return
		}

		remaining := int64(maxRequests) - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(maxRequests))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))

		if count > int64(maxRequests) {
			c.Header("Retry-After", strconv.Itoa(int(rateWindow.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":  domain.ErrRateLimitExceeded.Error(),
				"status": "error",
				"detail": "Maximum " + strconv.Itoa(maxRequests) + " requests per minute.",
			})
			return
		}

		c.Next()
	}
}
