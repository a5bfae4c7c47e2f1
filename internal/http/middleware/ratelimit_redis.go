package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
)

// RedisRateLimit implements a fixed-window rate limiter using Redis INCR/EXPIRE.
// key format: rl:<window_seconds>:<identifier>
// Without a client it falls back to SimpleRateLimit; maxRequests <= 0
// disables limiting.
func RedisRateLimit(rdb *redis.Client, maxRequests int, window time.Duration) gin.HandlerFunc {
	if maxRequests <= 0 {
		return func(c *gin.Context) { c.Next() }
	}
	if rdb == nil {
		return SimpleRateLimit(maxRequests, window)
	}

	return func(c *gin.Context) {
		ident := c.ClientIP()
		key := "rl:" + strconv.FormatInt(int64(window.Seconds()), 10) + ":" + ident
		ctx := c.Request.Context()

		val, err := rdb.Incr(ctx, key).Result()
		if err != nil {
			// on Redis error, fail-open (allow) but set header
			c.Header("X-RateLimit-Error", "redis-error")
			c.Next()
			return
		}

		if val == 1 {
			// first increment, set expiry
			rdb.Expire(ctx, key, window)
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(maxRequests))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(max(0, int64(maxRequests)-val), 10))

		if val > int64(maxRequests) {
			RLBlocked.WithLabelValues(c.FullPath()).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "rate limit exceeded",
				"retry_after": int(window.Seconds()),
			})
			return
		}

		RLRequests.WithLabelValues(c.FullPath()).Inc()
		c.Next()
	}
}
