package middleware

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/cppla/excelanalytics/config"
	"github.com/cppla/excelanalytics/utils"
)

const limiterIdleTTL = 5 * time.Minute

type rateLimiter struct {
	limiter *rate.Limiter
	expires time.Time
}

var (
	limiters   = map[string]*rateLimiter{}
	limitersMu sync.Mutex
)

// RateLimitMiddleware applies a per-IP token bucket. Each scope has its own buckets.
func RateLimitMiddleware(scope string) gin.HandlerFunc {
	perMinute := config.Get().RateLimitPerMinute
	if perMinute < 1 {
		perMinute = 1
	}
	r := rate.Every(time.Minute / time.Duration(perMinute))
	burst := perMinute / 2
	if burst < 1 {
		burst = 1
	}

	return func(ctx *gin.Context) {
		if !getLimiter(scope+"|"+ctx.ClientIP(), r, burst).Allow() {
			utils.Fail(ctx, utils.NewAppError(utils.KindRateLimited, 42901, "rate limit exceeded"))
			return
		}
		ctx.Next()
	}
}

// getLimiter returns the bucket for key. rate.Limiter is safe for concurrent use.
func getLimiter(key string, limit rate.Limit, burst int) *rate.Limiter {
	limitersMu.Lock()
	defer limitersMu.Unlock()

	now := time.Now()
	cleanupExpiredLimitersLocked(now)

	if l, ok := limiters[key]; ok {
		l.expires = now.Add(limiterIdleTTL)
		return l.limiter
	}

	l := &rateLimiter{
		limiter: rate.NewLimiter(limit, burst),
		expires: now.Add(limiterIdleTTL),
	}
	limiters[key] = l
	return l.limiter
}

func cleanupExpiredLimitersLocked(now time.Time) {
	for key, l := range limiters {
		if now.After(l.expires) {
			delete(limiters, key)
		}
	}
}
