package middleware

import (
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"forum_api/internal/model"
	"forum_api/internal/ratelimit"

	"github.com/gin-gonic/gin"
)

// RateLimitRemainingKey holds the hits left in the current window
const RateLimitRemainingKey = "rateLimitRemaining"

// RateLimit counts requests per authenticated user, or per client IP for
// anonymous callers, and rejects them with 429 once the limiter says so.
// A failing store lets the request through.
func RateLimit(limiter *ratelimit.Limiter, logger *slog.Logger) gin.HandlerFunc {
	retryMinutes := int(math.Ceil(limiter.Window().Minutes()))
	tooMany := fmt.Sprintf("Too many requests, please try again after %d minutes", retryMinutes)

	return func(c *gin.Context) {
		key := "ip:" + c.ClientIP()
		if id, ok := AuthUserID(c); ok {
			key = "user:" + strconv.Itoa(id)
		}

		res, err := limiter.Hit(c.Request.Context(), key)
		if err != nil {
			logger.Error("rate limiter unavailable", "key", key, "error", err)
			c.Next()
			return
		}

		h := c.Writer.Header()
		h.Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
		h.Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		h.Set("X-RateLimit-Reset", res.ResetAt.UTC().Format(http.TimeFormat))

		if !res.Allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, model.NewErrorResponse(http.StatusTooManyRequests, tooMany))
			return
		}

		c.Set(RateLimitRemainingKey, res.Remaining)
		c.Next()
	}
}

// RateLimitRemaining returns the hits left as recorded by RateLimit
func RateLimitRemaining(c *gin.Context) (int, bool) {
	v, ok := c.Get(RateLimitRemainingKey)
	if !ok {
		return 0, false
	}
	n, ok := v.(int)
	return n, ok
}
