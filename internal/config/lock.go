package config

import (
	"strings"
	"time"
)

// LockConfig selects and tunes the keyed lock used by the booking and
// approval engines.  Backend "redis" shares locks between instances;
// anything else keeps them in process.
type LockConfig struct {
	Backend    string
	Prefix     string
	TTL        time.Duration
	RetryDelay time.Duration
	MaxWait    time.Duration
}

func LoadLockConfig() LockConfig {
	return LockConfig{
		Backend:    strings.ToLower(envStr("LOCK_BACKEND", "local")),
		Prefix:     envStr("LOCK_PREFIX", "lock"),
		TTL:        envDur("LOCK_TTL", 10*time.Second),
		RetryDelay: envDur("LOCK_RETRY_DELAY", 10*time.Millisecond),
		MaxWait:    envDur("LOCK_MAX_WAIT", 5*time.Second),
	}
}

// UseRedis reports whether the Redis backend was requested.
func (c LockConfig) UseRedis() bool { return c.Backend == "redis" }
