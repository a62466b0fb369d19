package realtime

import (
	"context"
	"time"

	"github.com/damoang/eventhub-backend/pkg/cache"
	"github.com/rs/zerolog"
)

// Invalidator drops cached views named by the policy
type Invalidator struct {
	cache   cache.Service
	policy  Policy
	logger  zerolog.Logger
	timeout time.Duration
}

// NewInvalidator 생성자
func NewInvalidator(c cache.Service, logger zerolog.Logger) *Invalidator {
	return &Invalidator{cache: c, logger: logger, timeout: 2 * time.Second}
}

// Attach subscribes the invalidator to bus
func (inv *Invalidator) Attach(bus *Bus) {
	bus.Subscribe("cache-invalidator", inv.Handle)
}

// Handle invalidates the cache entries of e. Message pages and capacity
// counts are always read live, so their scopes only reach dashboards.
func (inv *Invalidator) Handle(e Event) {
	if inv.cache == nil || !inv.cache.IsAvailable() {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), inv.timeout)
	defer cancel()

	for _, scope := range inv.policy.Scopes(e) {
		var err error
		switch scope {
		case ScopeThreadList:
			err = inv.cache.DeletePrefix(ctx, cache.PrefixThreads)
		case ScopeThread, ScopeThreadMeta:
			// no thread id: the change spans every thread
			if e.ThreadID != 0 {
				err = inv.cache.Delete(ctx, cache.ThreadKey(e.ThreadID))
			} else {
				err = inv.cache.DeletePrefix(ctx, cache.PrefixThread)
			}
		case ScopeUnread:
			err = inv.cache.Delete(ctx, cache.PrefixUnread)
		case ScopeSchedule:
			err = inv.cache.DeletePrefix(ctx, cache.PrefixSchedule)
		case ScopeNotices:
			err = inv.cache.DeletePrefix(ctx, cache.PrefixNotices)
		}
		if err != nil {
			inv.logger.Warn().Err(err).Str("scope", string(scope)).Str("kind", string(e.Kind)).
				Msg("cache invalidation failed")
		}
	}
}
