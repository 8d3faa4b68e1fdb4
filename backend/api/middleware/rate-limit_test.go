package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"abrino-storage/backend/common"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRateLimiter_QuotaAndWindow(t *testing.T) {
	l := &memoryRateLimiter{windows: make(map[string]*clientWindow)}
	window := 50 * time.Millisecond

	// Exactly the quota succeeds.
	for i := 0; i < 5; i++ {
		assert.True(t, l.allow("10.0.0.1", 5, window), "request %d within quota", i+1)
	}
	// The next request in the same window is rejected.
	assert.False(t, l.allow("10.0.0.1", 5, window))

	// After the window elapses requests succeed again.
	time.Sleep(window + 10*time.Millisecond)
	assert.True(t, l.allow("10.0.0.1", 5, window))
}

func TestMemoryRateLimiter_PerClientIdentity(t *testing.T) {
	l := &memoryRateLimiter{windows: make(map[string]*clientWindow)}
	window := time.Minute

	for i := 0; i < 3; i++ {
		assert.True(t, l.allow("10.0.0.1", 3, window))
	}
	assert.False(t, l.allow("10.0.0.1", 3, window))

	// A different client is unaffected.
	assert.True(t, l.allow("10.0.0.2", 3, window))
}

func newRateLimitContext(remoteAddr string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/api/files", nil)
	c.Request.RemoteAddr = remoteAddr
	return c
}

func TestRedisRateLimiter_RearmsMissingExpiry(t *testing.T) {
	if os.Getenv("REDIS_CONN_STRING") == "" {
		t.Skip("REDIS_CONN_STRING not set")
	}
	require.NoError(t, common.InitRedisClient())

	ctx := context.Background()
	key := "rate_limit:192.0.2.77"
	// A counter left behind without an expiry would otherwise limit the
	// client forever once it crosses the quota.
	require.NoError(t, common.RDB.Set(ctx, key, 3, 0).Err())
	defer common.RDB.Del(ctx, key)

	c := newRateLimitContext("192.0.2.77:4321")
	assert.True(t, redisRateLimiter(c, 10, time.Minute))

	ttl, err := common.RDB.TTL(ctx, key).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}
