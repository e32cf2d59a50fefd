package utils

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultCacheTTL = time.Hour
	cacheOpTimeout  = 2 * time.Second
)

// UserCachePrefix is the key prefix for everything cached on behalf of one user.
func UserCachePrefix(userID string) string {
	return "cache:user:" + userID + ":"
}

// generationKey lives outside UserCachePrefix so prefix invalidation never resets it.
func generationKey(userID string) string {
	return "cache:gen:user:" + userID
}

// UserCacheKey returns the key for name under the user's current cache generation, or ""
// when the generation cannot be read. Cache calls ignore the empty key.
// Resolve it before reading the database: a write that lands in between bumps the
// generation, so the value filled afterwards is stored under a key nobody reads again.
func UserCacheKey(userID, name string) string {
	var gen int64
	_, err := withCache(cacheOpTimeout, func(ctx context.Context, rc *redis.Client) (err error) {
		gen, err = rc.Get(ctx, generationKey(userID)).Int64()
		if errors.Is(err, redis.Nil) {
			gen, err = 0, nil
		}
		return err
	})
	if err != nil {
		Sugar.Debugf("cache generation lookup failed user=%s err=%v", userID, err)
		return ""
	}
	return UserCachePrefix(userID) + strconv.FormatInt(gen, 10) + ":" + name
}

// InvalidateUserCache moves the user to a new cache generation and drops the old entries.
func InvalidateUserCache(userID string) {
	_, err := withCache(cacheOpTimeout, func(ctx context.Context, rc *redis.Client) error {
		key := generationKey(userID)
		if err := rc.Incr(ctx, key).Err(); err != nil {
			return err
		}
		return rc.Expire(ctx, key, 24*defaultCacheTTL).Err()
	})
	if err != nil {
		Sugar.Warnf("cache generation bump failed user=%s err=%v", userID, err)
	}
	InvalidateByPrefix(UserCachePrefix(userID))
}

// withCache runs fn against Redis with a short deadline. It reports false when Redis is disabled.
func withCache(timeout time.Duration, fn func(ctx context.Context, rc *redis.Client) error) (bool, error) {
	rc := GetRedis()
	if rc == nil {
		return false, nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return true, fn(ctx, rc)
}

// CacheGetBytes returns the cached value for key. Misses, errors and a disabled Redis all report false.
func CacheGetBytes(key string) ([]byte, bool) {
	if key == "" {
		return nil, false
	}
	var b []byte
	enabled, err := withCache(cacheOpTimeout, func(ctx context.Context, rc *redis.Client) (err error) {
		b, err = rc.Get(ctx, key).Bytes()
		return err
	})
	switch {
	case !enabled:
		return nil, false
	case errors.Is(err, redis.Nil):
		return nil, false
	case err != nil:
		Sugar.Debugf("cache get failed key=%s err=%v", key, err)
		return nil, false
	}
	return b, true
}

// CacheGetJSON decodes a cached JSON value into dst.
func CacheGetJSON(key string, dst interface{}) bool {
	b, ok := CacheGetBytes(key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(b, dst); err != nil {
		Sugar.Warnf("cache decode failed key=%s err=%v", key, err)
		return false
	}
	return true
}

// CacheSetBytes stores b under key; a non-positive ttl means one hour.
func CacheSetBytes(key string, b []byte, ttl time.Duration) {
	if key == "" {
		return
	}
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	_, err := withCache(cacheOpTimeout, func(ctx context.Context, rc *redis.Client) error {
		return rc.Set(ctx, key, b, ttl).Err()
	})
	if err != nil {
		Sugar.Warnf("cache set failed key=%s err=%v", key, err)
	}
}

// CacheSetJSON marshals v and stores the JSON.
func CacheSetJSON(key string, v interface{}, ttl time.Duration) {
	b, err := json.Marshal(v)
	if err != nil {
		Sugar.Warnf("cache encode failed key=%s err=%v", key, err)
		return
	}
	CacheSetBytes(key, b, ttl)
}

// InvalidateByPrefix deletes every key under prefix.
func InvalidateByPrefix(prefix string) {
	_, err := withCache(3*time.Second, func(ctx context.Context, rc *redis.Client) error {
		var batch []string
		iter := rc.Scan(ctx, 0, prefix+"*", 500).Iterator()
		for iter.Next(ctx) {
			batch = append(batch, iter.Val())
			if len(batch) == 500 {
				if err := rc.Del(ctx, batch...).Err(); err != nil {
					return err
				}
				batch = batch[:0]
			}
		}
		if err := iter.Err(); err != nil {
			return err
		}
		if len(batch) > 0 {
			return rc.Del(ctx, batch...).Err()
		}
		return nil
	})
	if err != nil {
		Sugar.Warnf("cache invalidate failed prefix=%s err=%v", prefix, err)
	}
}
