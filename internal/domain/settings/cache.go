package settings

import (
	"context"
	"time"
)

// CacheConfig controls setting cache behavior
type CacheConfig struct {
	// L1TTL is the in-memory cache TTL
	L1TTL time.Duration
	// L2TTL is the Redis cache TTL
	L2TTL time.Duration
}

// DefaultCacheConfig returns sensible cache defaults. Settings change
// rarely; a short L1 keeps processes from serving stale prices for
// long after an admin edit even without invalidation delivery.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		L1TTL: 30 * time.Second,
		L2TTL: 5 * time.Minute,
	}
}

// Cache stores the active settings per key so the resolver does not
// hit the database on every priced operation. A nil slice with ok
// false means a miss; an empty cached slice is a valid hit.
type Cache interface {
	// Get retrieves the cached active settings for a key
	Get(ctx context.Context, key string) ([]BusinessSetting, bool, error)

	// Set stores the active settings for a key
	Set(ctx context.Context, key string, values []BusinessSetting, ttl time.Duration) error

	// Delete invalidates the cached settings for a key
	Delete(ctx context.Context, key string) error

	// Close releases cache resources
	Close() error
}

// CacheUpdateMessage tells other processes to drop a cached key
type CacheUpdateMessage struct {
	SettingKey string `json:"setting_key"`
}

// CacheInvalidator fan-outs invalidation to all processes
type CacheInvalidator interface {
	// Publish broadcasts an invalidation message
	Publish(ctx context.Context, msg CacheUpdateMessage) error

	// Subscribe receives invalidation messages until ctx is done
	Subscribe(ctx context.Context, callback func(msg CacheUpdateMessage)) error

	// Close releases the underlying connection
	Close() error
}
