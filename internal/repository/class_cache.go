package repository

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/iliyamo/hotel-booking/internal/model"
)

// ClassSource is the read side of an apartment class store.
type ClassSource interface {
	FindByID(ctx context.Context, id uint64) (*model.ApartmentClass, error)
	FindByType(ctx context.Context, label string) (*model.ApartmentClass, error)
	List(ctx context.Context) ([]model.ApartmentClass, error)
}

// CachedClassStore serves apartment classes from Redis, falling back to
// the wrapped source on a miss.  Concurrent misses for one key share a
// single source read.  Not-found results are not cached.  Any Redis
// failure degrades to a direct read.
type CachedClassStore struct {
	next   ClassSource
	rdb    *redis.Client
	ttl    time.Duration
	prefix string
	group  singleflight.Group
}

// NewCachedClassStore wraps next.  With a nil client every call goes
// straight to next.
func NewCachedClassStore(next ClassSource, rdb *redis.Client, ttl time.Duration, prefix string) *CachedClassStore {
	if ttl <= 0 {
		ttl = time.Minute
	}
	if prefix == "" {
		prefix = "cache"
	}
	return &CachedClassStore{next: next, rdb: rdb, ttl: ttl, prefix: prefix}
}

func (s *CachedClassStore) FindByID(ctx context.Context, id uint64) (*model.ApartmentClass, error) {
	key := s.prefix + ":class:id:" + strconv.FormatUint(id, 10)
	var c model.ApartmentClass
	err := s.load(ctx, key, &c, func() (any, error) { return s.next.FindByID(ctx, id) })
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *CachedClassStore) FindByType(ctx context.Context, label string) (*model.ApartmentClass, error) {
	key := s.prefix + ":class:type:" + strings.ToLower(strings.TrimSpace(label))
	var c model.ApartmentClass
	err := s.load(ctx, key, &c, func() (any, error) { return s.next.FindByType(ctx, label) })
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *CachedClassStore) List(ctx context.Context) ([]model.ApartmentClass, error) {
	var out []model.ApartmentClass
	if err := s.load(ctx, s.prefix+":classes", &out, func() (any, error) { return s.next.List(ctx) }); err != nil {
		return nil, err
	}
	return out, nil
}

// load fills dst from Redis or, on a miss, from fetch.  The fetched value
// is written back with the configured TTL.
func (s *CachedClassStore) load(ctx context.Context, key string, dst any, fetch func() (any, error)) error {
	if s.rdb != nil {
		raw, err := s.rdb.Get(ctx, key).Bytes()
		switch {
		case err == nil:
			if jerr := json.Unmarshal(raw, dst); jerr == nil {
				return nil
			}
			log.Printf("class-cache: drop corrupt entry %s", key)
		case !errors.Is(err, redis.Nil):
			log.Printf("class-cache: get %s: %v", key, err)
		}
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		v, err := fetch()
		if err != nil {
			return nil, err
		}
		body, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		if s.rdb != nil {
			if err := s.rdb.Set(context.WithoutCancel(ctx), key, body, s.ttl).Err(); err != nil {
				log.Printf("class-cache: set %s: %v", key, err)
			}
		}
		return body, nil
	})
	if err != nil {
		return err
	}
	return json.Unmarshal(v.([]byte), dst)
}
