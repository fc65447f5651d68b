package config

import (
	"context"
	"crypto/tls"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig locates the Redis server shared by the rate limiter, the
// apartment class cache and, when LOCK_BACKEND=redis, the apartment and
// class locks.
//
// Variables:
//   REDIS_HOST and REDIS_PORT – hostname and port (win over REDIS_ADDR)
//   REDIS_ADDR                – host:port shorthand, default localhost:6379
//   REDIS_PASSWORD            – optional password
//   REDIS_DB                  – database number (default 0)
//   REDIS_TLS                 – enable TLS
//   REDIS_POOL_SIZE           – connections per process (0 keeps the driver default)
//   REDIS_DIAL_TIMEOUT        – connect timeout
//   REDIS_PING_TIMEOUT        – startup reachability check
type RedisConfig struct {
	Addr        string
	Password    string
	DB          int
	TLS         bool
	PoolSize    int
	DialTimeout time.Duration
	PingTimeout time.Duration
}

func LoadRedisConfig() RedisConfig {
	addr := envStr("REDIS_ADDR", "localhost:6379")
	if host, port := envStr("REDIS_HOST", ""), envStr("REDIS_PORT", ""); host != "" && port != "" {
		addr = host + ":" + port
	}
	return RedisConfig{
		Addr:        addr,
		Password:    envStr("REDIS_PASSWORD", ""),
		DB:          envInt("REDIS_DB", 0),
		TLS:         envBool("REDIS_TLS", false),
		PoolSize:    envInt("REDIS_POOL_SIZE", 0),
		DialTimeout: envDur("REDIS_DIAL_TIMEOUT", 2*time.Second),
		PingTimeout: envDur("REDIS_PING_TIMEOUT", 2*time.Second),
	}
}

func (c RedisConfig) options() *redis.Options {
	o := &redis.Options{
		Addr:        c.Addr,
		Password:    c.Password,
		DB:          c.DB,
		DialTimeout: c.DialTimeout,
	}
	if c.PoolSize > 0 {
		o.PoolSize = c.PoolSize
	}
	if c.TLS {
		o.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	return o
}

// NewRedisClient connects with LoadRedisConfig.  It returns nil when the
// server does not answer a ping; callers then run without rate limiting
// or the class cache and fall back to in-process locks.
func NewRedisClient() *redis.Client {
	return ConnectRedis(LoadRedisConfig())
}

// ConnectRedis is NewRedisClient for an explicit configuration.
func ConnectRedis(c RedisConfig) *redis.Client {
	client := redis.NewClient(c.options())
	ctx, cancel := context.WithTimeout(context.Background(), c.PingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil
	}
	return client
}
