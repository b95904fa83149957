package persistence

import (
	"context"
	"errors"

	"github.com/cylinderx/backend/internal/domain/settings"
	"github.com/cylinderx/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSettingRepository implements settings.Repository using GORM
type GormSettingRepository struct {
	db *gorm.DB
}

// NewGormSettingRepository creates a new GormSettingRepository
func NewGormSettingRepository(db *gorm.DB) *GormSettingRepository {
	return &GormSettingRepository{db: db}
}

// FindByID finds a setting by its ID
func (r *GormSettingRepository) FindByID(ctx context.Context, id uuid.UUID) (*settings.BusinessSetting, error) {
	var setting settings.BusinessSetting
	if err := r.db.WithContext(ctx).First(&setting, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &setting, nil
}

// FindActiveByKey finds all active settings for a key, any scope.
// Resolution order is decided by the resolver, not here.
func (r *GormSettingRepository) FindActiveByKey(ctx context.Context, key string) ([]settings.BusinessSetting, error) {
	var list []settings.BusinessSetting
	if err := r.db.WithContext(ctx).
		Where("setting_key = ? AND is_active = ?", key, true).
		Order("updated_at DESC").
		Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// FindByCategory finds settings in a category
func (r *GormSettingRepository) FindByCategory(ctx context.Context, categoryID int, filter shared.Filter) ([]settings.BusinessSetting, error) {
	var list []settings.BusinessSetting
	query := applyRecordFilter(
		r.db.WithContext(ctx).Model(&settings.BusinessSetting{}).
			Where("category_id = ?", categoryID),
		filter, SettingSortFields, "updated_at",
	)

	if err := query.Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// FindAll lists settings
func (r *GormSettingRepository) FindAll(ctx context.Context, filter shared.Filter) ([]settings.BusinessSetting, error) {
	var list []settings.BusinessSetting
	query := applyRecordFilter(
		r.db.WithContext(ctx).Model(&settings.BusinessSetting{}),
		filter, SettingSortFields, "updated_at",
	)

	if err := query.Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

// Save creates or updates a setting
func (r *GormSettingRepository) Save(ctx context.Context, setting *settings.BusinessSetting) error {
	return r.db.WithContext(ctx).Save(setting).Error
}

// Delete removes a setting
func (r *GormSettingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&settings.BusinessSetting{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormSettingRepository implements settings.Repository
var _ settings.Repository = (*GormSettingRepository)(nil)
