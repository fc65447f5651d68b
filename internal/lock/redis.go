package lock

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrNotAcquired is returned when a Redis lock could not be taken before
// the retry budget ran out.
var ErrNotAcquired = errors.New("lock: not acquired")

// unlockScript deletes the key only while it still holds our token so an
// expired lock re-acquired by another holder is left alone.
var unlockScript = redis.NewScript(`
    if redis.call('GET', KEYS[1]) == ARGV[1] then
        return redis.call('DEL', KEYS[1])
    end
    return 0
`)

// RedisOptions tunes a Redis locker.
type RedisOptions struct {
	Prefix     string        // key prefix, e.g. "lock"
	TTL        time.Duration // lease length; bounds how long a crashed holder blocks others
	RetryDelay time.Duration // initial wait between attempts, doubled up to MaxDelay
	MaxDelay   time.Duration
	MaxWait    time.Duration // total time Lock may block
}

// Redis is a lease-based lock shared by every process using the same
// Redis instance.
type Redis struct {
	rdb  *redis.Client
	opts RedisOptions
}

// NewRedis returns a Redis locker.  Zero option fields take defaults.
func NewRedis(rdb *redis.Client, opts RedisOptions) *Redis {
	if opts.Prefix == "" {
		opts.Prefix = "lock"
	}
	if opts.TTL <= 0 {
		opts.TTL = 10 * time.Second
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = 10 * time.Millisecond
	}
	if opts.MaxDelay < opts.RetryDelay {
		opts.MaxDelay = 200 * time.Millisecond
	}
	if opts.MaxWait <= 0 {
		opts.MaxWait = 5 * time.Second
	}
	return &Redis{rdb: rdb, opts: opts}
}

// Lock acquires key with SET NX PX, retrying with exponential backoff
// until MaxWait elapses or ctx is done.
func (r *Redis) Lock(ctx context.Context, key string) (func(), error) {
	k := r.opts.Prefix + ":" + key
	token := uuid.NewString()
	deadline := time.Now().Add(r.opts.MaxWait)
	delay := r.opts.RetryDelay

	for {
		ok, err := r.rdb.SetNX(ctx, k, token, r.opts.TTL).Result()
		if err != nil {
			return nil, fmt.Errorf("lock: acquire %s: %w", k, err)
		}
		if ok {
			break
		}
		if time.Now().Add(delay).After(deadline) {
			return nil, fmt.Errorf("%w: %s", ErrNotAcquired, k)
		}
		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return nil, ctx.Err()
		case <-t.C:
		}
		delay *= 2
		if delay > r.opts.MaxDelay {
			delay = r.opts.MaxDelay
		}
	}

	return func() {
		// release even when the request context is already cancelled
		rctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := unlockScript.Run(rctx, r.rdb, []string{k}, token).Err(); err != nil {
			log.Printf("lock: release %s: %v", k, err)
		}
	}, nil
}
