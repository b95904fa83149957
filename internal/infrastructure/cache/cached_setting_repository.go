package cache

import (
	"context"

	"github.com/cylinderx/backend/internal/domain/settings"
	"github.com/cylinderx/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CachedSettingRepository decorates a settings.Repository with a cache
// on the hot path, FindActiveByKey, which the resolver calls on every
// priced operation. Writes pass through and invalidate the key, locally
// and via the optional invalidator for other processes. Cache failures
// degrade to the underlying repository, never to an error.
type CachedSettingRepository struct {
	inner       settings.Repository
	cache       settings.Cache
	invalidator settings.CacheInvalidator
	logger      *zap.Logger
}

// NewCachedSettingRepository creates the caching decorator. The
// invalidator may be nil in single-process deployments.
func NewCachedSettingRepository(inner settings.Repository, c settings.Cache, invalidator settings.CacheInvalidator, logger *zap.Logger) *CachedSettingRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedSettingRepository{
		inner:       inner,
		cache:       c,
		invalidator: invalidator,
		logger:      logger,
	}
}

// FindByID finds a setting by its ID
func (r *CachedSettingRepository) FindByID(ctx context.Context, id uuid.UUID) (*settings.BusinessSetting, error) {
	return r.inner.FindByID(ctx, id)
}

// FindActiveByKey finds all active settings for a key, cache first
func (r *CachedSettingRepository) FindActiveByKey(ctx context.Context, key string) ([]settings.BusinessSetting, error) {
	cached, ok, err := r.cache.Get(ctx, key)
	if err != nil {
		r.logger.Warn("setting cache read failed", zap.String("key", key), zap.Error(err))
	} else if ok {
		return cached, nil
	}

	values, err := r.inner.FindActiveByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	if err := r.cache.Set(ctx, key, values, 0); err != nil {
		r.logger.Warn("setting cache write failed", zap.String("key", key), zap.Error(err))
	}
	return values, nil
}

// FindByCategory finds settings in a category
func (r *CachedSettingRepository) FindByCategory(ctx context.Context, categoryID int, filter shared.Filter) ([]settings.BusinessSetting, error) {
	return r.inner.FindByCategory(ctx, categoryID, filter)
}

// FindAll lists settings
func (r *CachedSettingRepository) FindAll(ctx context.Context, filter shared.Filter) ([]settings.BusinessSetting, error) {
	return r.inner.FindAll(ctx, filter)
}

// Save creates or updates a setting and invalidates its key
func (r *CachedSettingRepository) Save(ctx context.Context, setting *settings.BusinessSetting) error {
	if err := r.inner.Save(ctx, setting); err != nil {
		return err
	}
	r.invalidate(ctx, setting.SettingKey)
	return nil
}

// Delete removes a setting and invalidates its key
func (r *CachedSettingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	setting, err := r.inner.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := r.inner.Delete(ctx, id); err != nil {
		return err
	}
	r.invalidate(ctx, setting.SettingKey)
	return nil
}

func (r *CachedSettingRepository) invalidate(ctx context.Context, key string) {
	if err := r.cache.Delete(ctx, key); err != nil {
		r.logger.Warn("setting cache invalidation failed", zap.String("key", key), zap.Error(err))
	}
	if r.invalidator == nil {
		return
	}
	if err := r.invalidator.Publish(ctx, settings.CacheUpdateMessage{SettingKey: key}); err != nil {
		r.logger.Warn("setting invalidation broadcast failed", zap.String("key", key), zap.Error(err))
	}
}
