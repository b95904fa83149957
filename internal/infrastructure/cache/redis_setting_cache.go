package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/cylinderx/backend/internal/domain/settings"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const settingKeyPrefix = "setting:"

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// RedisSettingCache implements settings.Cache backed by Redis, shared
// across all processes.
type RedisSettingCache struct {
	client *redis.Client
	config settings.CacheConfig
	logger *zap.Logger
}

// RedisSettingCacheOption is a functional option for configuring the cache
type RedisSettingCacheOption func(*RedisSettingCache)

// WithCacheConfig sets the cache configuration
func WithCacheConfig(config settings.CacheConfig) RedisSettingCacheOption {
	return func(c *RedisSettingCache) {
		c.config = config
	}
}

// WithCacheLogger sets the logger for the cache
func WithCacheLogger(logger *zap.Logger) RedisSettingCacheOption {
	return func(c *RedisSettingCache) {
		c.logger = logger
	}
}

// NewRedisSettingCache creates a Redis-backed setting cache
func NewRedisSettingCache(cfg RedisConfig, opts ...RedisSettingCacheOption) (*RedisSettingCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisSettingCacheWithClient(client, opts...), nil
}

// NewRedisSettingCacheWithClient creates a cache with an existing Redis
// client. Useful for testing or when sharing a client across components.
func NewRedisSettingCacheWithClient(client *redis.Client, opts ...RedisSettingCacheOption) *RedisSettingCache {
	cache := &RedisSettingCache{
		client: client,
		config: settings.DefaultCacheConfig(),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(cache)
	}
	return cache
}

func (c *RedisSettingCache) cacheKey(key string) string {
	return settingKeyPrefix + key
}

// Get retrieves the cached active settings for a key
func (c *RedisSettingCache) Get(ctx context.Context, key string) ([]settings.BusinessSetting, bool, error) {
	data, err := c.client.Get(ctx, c.cacheKey(key)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read setting cache: %w", err)
	}

	var values []settings.BusinessSetting
	if err := json.Unmarshal(data, &values); err != nil {
		// A corrupt entry is treated as a miss and dropped
		c.logger.Warn("dropping corrupt setting cache entry",
			zap.String("key", key), zap.Error(err))
		_ = c.client.Del(ctx, c.cacheKey(key)).Err()
		return nil, false, nil
	}
	return values, true, nil
}

// Set stores the active settings for a key
func (c *RedisSettingCache) Set(ctx context.Context, key string, values []settings.BusinessSetting, ttl time.Duration) error {
	if ttl == 0 {
		ttl = c.config.L2TTL
	}

	data, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("failed to serialize settings: %w", err)
	}
	if err := c.client.Set(ctx, c.cacheKey(key), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to write setting cache: %w", err)
	}
	return nil
}

// Delete invalidates the cached settings for a key
func (c *RedisSettingCache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, c.cacheKey(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete setting cache entry: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (c *RedisSettingCache) Close() error {
	return c.client.Close()
}

// GetClient returns the underlying Redis client
func (c *RedisSettingCache) GetClient() *redis.Client {
	return c.client
}
