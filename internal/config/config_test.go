package config

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	t.Setenv("APP_PORT", "8080")
	t.Setenv("DB_USER", "hotel")
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_PORT", "3306")
	t.Setenv("DB_NAME", "hotel")
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("DB_PASS", "")
	t.Setenv("DB_MIGRATE", "")
	t.Setenv("ACCESS_TOKEN_TTL_MIN", "")
	t.Setenv("RABBITMQ_URL", "")
	t.Setenv("AMQP_URL", "amqp://x")
	t.Setenv("BOOKING_COUNT_PENDING", "yes")

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "", cfg.DBPass)
	assert.True(t, cfg.DBMigrate)
	assert.Equal(t, 15, cfg.AccessTTLMin)
	assert.Equal(t, "amqp://x", cfg.AMQPURL)
	assert.True(t, cfg.CountPending)

	t.Setenv("RABBITMQ_URL", "amqp://primary")
	assert.Equal(t, "amqp://primary", Load().AMQPURL)
}

func TestLoadRateLimitConfig(t *testing.T) {
	t.Setenv("RATE_LIMIT_BURST", "5")
	t.Setenv("RATE_LIMIT_REFILL_EVERY", "2s")
	t.Setenv("RATE_LIMIT_TTL", "1s")
	t.Setenv("RATE_LIMIT_CAPACITY", "")

	cfg := LoadRateLimitConfig()
	assert.Equal(t, 5, cfg.Capacity)
	assert.Equal(t, 1, cfg.RefillTokens)
	assert.Equal(t, 2*time.Second, cfg.RefillInterval)
	assert.Equal(t, 10*time.Second, cfg.TTL, "ttl is raised to five refill intervals")
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("X_BOOL", "off")
	t.Setenv("X_INT", "nope")
	t.Setenv("X_DUR", "90s")

	assert.False(t, envBool("X_BOOL", true))
	assert.True(t, envBool("X_MISSING", true))
	assert.Equal(t, 3, envInt("X_INT", 3))
	assert.Equal(t, 90*time.Second, envDur("X_DUR", time.Second))
	assert.Equal(t, "d", envStr("X_MISSING", "d"))
}

func TestLoadLockAndSchedulerConfig(t *testing.T) {
	t.Setenv("LOCK_BACKEND", "Redis")
	t.Setenv("EXPIRY_JOB_INTERVAL", "10ms")

	assert.True(t, LoadLockConfig().UseRedis())
	assert.Equal(t, time.Second, LoadSchedulerConfig().Interval)
	assert.Equal(t, 5*time.Minute, LoadCacheConfig().TTL)
}

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)
	t.Setenv("REDIS_HOST", "")
	t.Setenv("REDIS_PORT", "")
	t.Setenv("REDIS_TLS", "")
	t.Setenv("REDIS_POOL_SIZE", "")
	t.Setenv("REDIS_PING_TIMEOUT", "")
	t.Setenv("REDIS_ADDR", mr.Addr())

	rdb := NewRedisClient()
	require.NotNil(t, rdb)
	_ = rdb.Close()

	mr.Close()
	assert.Nil(t, NewRedisClient())
}

func TestLoadRedisConfig(t *testing.T) {
	t.Setenv("REDIS_ADDR", "cache:6380")
	t.Setenv("REDIS_HOST", "")
	t.Setenv("REDIS_PORT", "")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("REDIS_TLS", "true")
	t.Setenv("REDIS_POOL_SIZE", "")
	t.Setenv("REDIS_DIAL_TIMEOUT", "")

	c := LoadRedisConfig()
	assert.Equal(t, "cache:6380", c.Addr)
	assert.Equal(t, 3, c.DB)
	assert.Equal(t, 2*time.Second, c.DialTimeout)

	o := c.options()
	require.NotNil(t, o.TLSConfig)
	assert.Zero(t, o.PoolSize)

	t.Setenv("REDIS_HOST", "redis")
	t.Setenv("REDIS_PORT", "6379")
	t.Setenv("REDIS_TLS", "")
	t.Setenv("REDIS_POOL_SIZE", "32")
	c = LoadRedisConfig()
	assert.Equal(t, "redis:6379", c.Addr)
	o = c.options()
	assert.Nil(t, o.TLSConfig)
	assert.Equal(t, 32, o.PoolSize)
}
