package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/cylinderx/backend/internal/domain/settings"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const defaultInvalidationChannel = "setting:invalidation"

// RedisSettingInvalidator broadcasts setting invalidation messages over
// Redis pub/sub so every process drops its L1 entry after an admin edit.
type RedisSettingInvalidator struct {
	client  *redis.Client
	channel string
	logger  *zap.Logger

	mu     sync.Mutex
	pubsub *redis.PubSub
}

// RedisSettingInvalidatorOption is a functional option for the invalidator
type RedisSettingInvalidatorOption func(*RedisSettingInvalidator)

// WithInvalidatorChannel sets the pub/sub channel name
func WithInvalidatorChannel(channel string) RedisSettingInvalidatorOption {
	return func(i *RedisSettingInvalidator) {
		i.channel = channel
	}
}

// WithInvalidatorLogger sets the logger
func WithInvalidatorLogger(logger *zap.Logger) RedisSettingInvalidatorOption {
	return func(i *RedisSettingInvalidator) {
		i.logger = logger
	}
}

// NewRedisSettingInvalidator connects a new invalidator
func NewRedisSettingInvalidator(cfg RedisConfig, opts ...RedisSettingInvalidatorOption) (*RedisSettingInvalidator, error) {
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

	return NewRedisSettingInvalidatorWithClient(client, opts...), nil
}

// NewRedisSettingInvalidatorWithClient creates an invalidator with an
// existing Redis client.
func NewRedisSettingInvalidatorWithClient(client *redis.Client, opts ...RedisSettingInvalidatorOption) *RedisSettingInvalidator {
	inv := &RedisSettingInvalidator{
		client:  client,
		channel: defaultInvalidationChannel,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(inv)
	}
	return inv
}

// Publish broadcasts an invalidation message
func (i *RedisSettingInvalidator) Publish(ctx context.Context, msg settings.CacheUpdateMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("failed to serialize invalidation message: %w", err)
	}
	if err := i.client.Publish(ctx, i.channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish invalidation: %w", err)
	}
	return nil
}

// Subscribe receives invalidation messages until ctx is done. Malformed
// messages are logged and skipped.
func (i *RedisSettingInvalidator) Subscribe(ctx context.Context, callback func(msg settings.CacheUpdateMessage)) error {
	i.mu.Lock()
	i.pubsub = i.client.Subscribe(ctx, i.channel)
	pubsub := i.pubsub
	i.mu.Unlock()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case m, ok := <-ch:
			if !ok {
				return nil
			}
			var msg settings.CacheUpdateMessage
			if err := json.Unmarshal([]byte(m.Payload), &msg); err != nil {
				i.logger.Warn("skipping malformed invalidation message",
					zap.String("payload", m.Payload), zap.Error(err))
				continue
			}
			callback(msg)
		}
	}
}

// Close closes the subscription and the Redis client
func (i *RedisSettingInvalidator) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.pubsub != nil {
		_ = i.pubsub.Close()
	}
	return i.client.Close()
}
