package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/mailroom-backend/internal/config"
	"github.com/stemsi/mailroom-backend/internal/metrics"
	"github.com/stemsi/mailroom-backend/internal/response"
)

// RateLimiter is a per-IP fixed-window limiter backed by Redis, so the limit
// holds across server instances.
type RateLimiter struct {
	rdb    *redis.Client
	limit  int
	window time.Duration
	log    zerolog.Logger
	now    func() time.Time
}

// NewRateLimiter creates a RateLimiter allowing limit requests per window.
func NewRateLimiter(rdb *redis.Client, limit int, window time.Duration, log zerolog.Logger) *RateLimiter {
	return &RateLimiter{
		rdb:    rdb,
		limit:  limit,
		window: window,
		log:    log.With().Str("component", "rate_limiter").Logger(),
		now:    time.Now,
	}
}

// Middleware returns a Gin middleware that rate-limits requests by client IP.
// Requests pass when Redis is unavailable.
func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.limit <= 0 {
			c.Next()
			return
		}

		windowStart := rl.now().Truncate(rl.window).Unix()
		key := config.CacheKey.AuthAttemptsKey(c.ClientIP(), windowStart)

		ctx := c.Request.Context()
		pipe := rl.rdb.TxPipeline()
		incr := pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, rl.window)
		if _, err := pipe.Exec(ctx); err != nil {
			rl.log.Warn().Err(err).Msg("rate limit counter unavailable")
			c.Next()
			return
		}

		if incr.Val() > int64(rl.limit) {
			metrics.RateLimitedTotal.Inc()
			c.Header("Retry-After", retryAfter(rl.now(), rl.window))
			response.AbortFail(c, http.StatusTooManyRequests, response.ErrRateLimitExceeded)
			return
		}

		c.Next()
	}
}

func retryAfter(now time.Time, window time.Duration) string {
	remaining := now.Truncate(window).Add(window).Sub(now)
	secs := int(remaining.Seconds())
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}
