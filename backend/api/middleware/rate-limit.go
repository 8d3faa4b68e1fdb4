package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"abrino-storage/backend/common"

	"github.com/gin-gonic/gin"
)

const rateLimitMessage = "Rate limit exceeded. Please try again later."

// The limiter is advisory admission control keyed on the client address.
// Counter state is ephemeral: any Redis failure or restart fails open.

func redisRateLimiter(c *gin.Context, maxRequests int, window time.Duration) bool {
	ctx := context.Background()
	key := "rate_limit:" + c.ClientIP()
	count, err := common.RDB.Incr(ctx, key).Result()
	if err != nil {
		return true
	}
	if count == 1 {
		if err := common.RDB.Expire(ctx, key, window).Err(); err != nil {
			return true
		}
	} else if ttl, err := common.RDB.TTL(ctx, key).Result(); err == nil && ttl < 0 {
		// The key survived a crash between INCR and EXPIRE and would never
		// reset on its own. Re-arm the window instead of counting forever.
		if err := common.RDB.Expire(ctx, key, window).Err(); err != nil {
			return true
		}
	}
	return count <= int64(maxRequests)
}

type memoryRateLimiter struct {
	mu      sync.Mutex
	windows map[string]*clientWindow
}

type clientWindow struct {
	startedAt time.Time
	count     int
}

var inMemoryRateLimiter = &memoryRateLimiter{windows: make(map[string]*clientWindow)}

func (l *memoryRateLimiter) allow(clientID string, maxRequests int, window time.Duration) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := time.Now()
	w, ok := l.windows[clientID]
	if !ok || now.Sub(w.startedAt) >= window {
		l.windows[clientID] = &clientWindow{startedAt: now, count: 1}
		return true
	}
	w.count++
	return w.count <= maxRequests
}

func rateLimitHelper(c *gin.Context, maxRequests int, window time.Duration) {
	var allowed bool
	if common.RedisEnabled {
		allowed = redisRateLimiter(c, maxRequests, window)
	} else {
		allowed = inMemoryRateLimiter.allow(c.ClientIP(), maxRequests, window)
	}
	if !allowed {
		common.RespErrorStr(c, http.StatusTooManyRequests, rateLimitMessage)
		c.Abort()
		return
	}
	c.Next()
}

// GlobalAPIRateLimit guards every /api route. Health checks are mounted
// outside the limited group.
func GlobalAPIRateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		rateLimitHelper(c,
			common.RateLimitRequests,
			time.Duration(common.RateLimitWindow)*time.Second)
	}
}
