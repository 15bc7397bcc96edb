package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/omarshaarawi/kickbot/internal/models"
)

const DefaultTTL = time.Hour

// Key identifies a cached lookup. Team news pages are per club, so the same
// surname on two clubs is two entries.
type Key struct {
	PlayerName string
	TeamID     string
}

func (k Key) String() string {
	return fmt.Sprintf("%s_%s", k.PlayerName, k.TeamID)
}

// Store holds availability entries. Implementations do not judge freshness;
// Cache does that against its clock.
type Store interface {
	Get(ctx context.Context, key Key) (models.AvailabilityInfo, bool, error)
	Set(ctx context.Context, key Key, info models.AvailabilityInfo, ttl time.Duration) error
	Delete(ctx context.Context, key Key) error
	Keys(ctx context.Context) ([]Key, error)
}

type Cache struct {
	store Store
	clock clockwork.Clock
	ttl   time.Duration
}

func NewCache(store Store, clock clockwork.Clock, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{store: store, clock: clock, ttl: ttl}
}

func (c *Cache) TTL() time.Duration {
	return c.ttl
}

// Get returns the entry for key if it was checked less than TTL ago.
func (c *Cache) Get(ctx context.Context, key Key) (models.AvailabilityInfo, bool, error) {
	info, ok, err := c.store.Get(ctx, key)
	if err != nil || !ok {
		return models.AvailabilityInfo{}, false, err
	}
	if c.expired(info) {
		return models.AvailabilityInfo{}, false, nil
	}
	return info, true, nil
}

func (c *Cache) Set(ctx context.Context, key Key, info models.AvailabilityInfo) error {
	return c.store.Set(ctx, key, info, c.ttl)
}

// Prune drops expired entries and reports how many were removed.
func (c *Cache) Prune(ctx context.Context) (int, error) {
	keys, err := c.store.Keys(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing cache keys: %w", err)
	}

	removed := 0
	for _, key := range keys {
		info, ok, err := c.store.Get(ctx, key)
		if err != nil {
			return removed, fmt.Errorf("reading cache entry %s: %w", key, err)
		}
		if ok && !c.expired(info) {
			continue
		}
		if err := c.store.Delete(ctx, key); err != nil {
			return removed, fmt.Errorf("deleting cache entry %s: %w", key, err)
		}
		removed++
	}
	return removed, nil
}

func (c *Cache) expired(info models.AvailabilityInfo) bool {
	return c.clock.Since(info.LastChecked) >= c.ttl
}
