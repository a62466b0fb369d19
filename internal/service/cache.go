package service

import (
	"context"
	"errors"
	"time"

	"github.com/damoang/eventhub-backend/pkg/cache"
	pkglogger "github.com/damoang/eventhub-backend/pkg/logger"
)

// cacheGet reports a hit. A nil or unavailable cache always misses.
func cacheGet(ctx context.Context, c cache.Service, key string, dest interface{}) bool {
	if c == nil || !c.IsAvailable() {
		return false
	}
	err := c.Get(ctx, key, dest)
	if err != nil && !errors.Is(err, cache.ErrMiss) {
		pkglogger.GetLogger().Warn().Err(err).Str("key", key).Msg("cache get failed")
	}
	return err == nil
}

func cacheSet(ctx context.Context, c cache.Service, key string, value interface{}, ttl time.Duration) {
	if c == nil || !c.IsAvailable() {
		return
	}
	if err := c.Set(ctx, key, value, ttl); err != nil {
		pkglogger.GetLogger().Warn().Err(err).Str("key", key).Msg("cache set failed")
	}
}
