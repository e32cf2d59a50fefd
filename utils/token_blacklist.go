package utils

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"sync"
	"time"
)

var (
	blacklist   = map[string]time.Time{}
	blacklistMu sync.RWMutex
)

// blacklistKey stores a digest rather than the bearer token itself.
func blacklistKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return "jwt:blacklist:" + hex.EncodeToString(sum[:])
}

// BlacklistToken revokes a token until its natural expiry. Redis is preferred; memory is the fallback.
func BlacklistToken(token string, expiresAt time.Time) {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return
	}
	key := blacklistKey(token)
	if rc := GetRedis(); rc != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		err := rc.Set(ctx, key, "1", ttl).Err()
		if err == nil {
			return
		}
		Sugar.Warnf("blacklist via redis failed, keeping token in memory: %v", err)
	}
	blacklistMu.Lock()
	blacklist[key] = expiresAt
	sweepBlacklistLocked(time.Now())
	blacklistMu.Unlock()
}

// IsTokenBlacklisted checks if a token was revoked before natural expiration.
func IsTokenBlacklisted(token string) bool {
	key := blacklistKey(token)
	if rc := GetRedis(); rc != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		n, err := rc.Exists(ctx, key).Result()
		if err == nil && n > 0 {
			return true
		}
		// fail open on redis errors; the memory map may still hold the token
	}
	blacklistMu.RLock()
	expiresAt, ok := blacklist[key]
	blacklistMu.RUnlock()
	if !ok {
		return false
	}
	if time.Now().After(expiresAt) {
		blacklistMu.Lock()
		delete(blacklist, key)
		blacklistMu.Unlock()
		return false
	}
	return true
}

func sweepBlacklistLocked(now time.Time) {
	for k, exp := range blacklist {
		if now.After(exp) {
			delete(blacklist, k)
		}
	}
}
