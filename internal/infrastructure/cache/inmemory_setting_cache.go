package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cylinderx/backend/internal/domain/settings"
	"go.uber.org/zap"
)

// Constants for in-memory cache configuration
const (
	defaultCleanupInterval = 30 * time.Second
)

// InMemorySettingCache implements settings.Cache using in-memory
// storage. Designed to be used as L1 cache in front of Redis, or
// standalone in single-process deployments.
type InMemorySettingCache struct {
	entries sync.Map // map[string]*settingCacheEntry
	config  settings.CacheConfig
	logger  *zap.Logger
	stopCh  chan struct{}
	stopped int32

	// Stats for monitoring
	hits   int64
	misses int64
}

type settingCacheEntry struct {
	values    []settings.BusinessSetting
	expiresAt time.Time
}

func (e *settingCacheEntry) isExpired() bool {
	return time.Now().After(e.expiresAt)
}

// InMemorySettingCacheOption is a functional option for configuring the cache
type InMemorySettingCacheOption func(*InMemorySettingCache)

// WithInMemoryConfig sets the cache configuration
func WithInMemoryConfig(config settings.CacheConfig) InMemorySettingCacheOption {
	return func(c *InMemorySettingCache) {
		c.config = config
	}
}

// WithInMemoryLogger sets the logger for the cache
func WithInMemoryLogger(logger *zap.Logger) InMemorySettingCacheOption {
	return func(c *InMemorySettingCache) {
		c.logger = logger
	}
}

// NewInMemorySettingCache creates a new in-memory setting cache
func NewInMemorySettingCache(opts ...InMemorySettingCacheOption) *InMemorySettingCache {
	cache := &InMemorySettingCache{
		config: settings.DefaultCacheConfig(),
		logger: zap.NewNop(),
		stopCh: make(chan struct{}),
	}

	for _, opt := range opts {
		opt(cache)
	}

	go cache.cleanupExpired()

	return cache
}

// Get retrieves the cached active settings for a key
func (c *InMemorySettingCache) Get(_ context.Context, key string) ([]settings.BusinessSetting, bool, error) {
	if value, ok := c.entries.Load(key); ok {
		entry := value.(*settingCacheEntry)
		if !entry.isExpired() {
			atomic.AddInt64(&c.hits, 1)
			c.logger.Debug("L1 cache hit for setting", zap.String("key", key))
			return entry.values, true, nil
		}
		c.entries.Delete(key)
	}

	atomic.AddInt64(&c.misses, 1)
	c.logger.Debug("L1 cache miss for setting", zap.String("key", key))
	return nil, false, nil
}

// Set stores the active settings for a key
func (c *InMemorySettingCache) Set(_ context.Context, key string, values []settings.BusinessSetting, ttl time.Duration) error {
	if ttl == 0 {
		ttl = c.config.L1TTL
	}

	copied := make([]settings.BusinessSetting, len(values))
	copy(copied, values)
	c.entries.Store(key, &settingCacheEntry{
		values:    copied,
		expiresAt: time.Now().Add(ttl),
	})
	return nil
}

// Delete invalidates the cached settings for a key
func (c *InMemorySettingCache) Delete(_ context.Context, key string) error {
	c.entries.Delete(key)
	return nil
}

// Close stops the cleanup goroutine
func (c *InMemorySettingCache) Close() error {
	if atomic.CompareAndSwapInt32(&c.stopped, 0, 1) {
		close(c.stopCh)
	}
	return nil
}

// Stats returns hit/miss counters for monitoring
func (c *InMemorySettingCache) Stats() (hits, misses int64) {
	return atomic.LoadInt64(&c.hits), atomic.LoadInt64(&c.misses)
}

// cleanupExpired periodically removes expired entries
func (c *InMemorySettingCache) cleanupExpired() {
	ticker := time.NewTicker(defaultCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopCh:
			return
		case <-ticker.C:
			c.entries.Range(func(key, value interface{}) bool {
				if value.(*settingCacheEntry).isExpired() {
					c.entries.Delete(key)
				}
				return true
			})
		}
	}
}
