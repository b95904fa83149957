package persistence

import (
	"context"
	"errors"

	"github.com/cylinderx/backend/internal/domain/outlet"
	"github.com/cylinderx/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormOutletRepository implements outlet.Repository using GORM
type GormOutletRepository struct {
	db *gorm.DB
}

// NewGormOutletRepository creates a new GormOutletRepository
func NewGormOutletRepository(db *gorm.DB) *GormOutletRepository {
	return &GormOutletRepository{db: db}
}

// FindByID finds an outlet by its ID
func (r *GormOutletRepository) FindByID(ctx context.Context, id uuid.UUID) (*outlet.Outlet, error) {
	var o outlet.Outlet
	if err := r.db.WithContext(ctx).First(&o, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// FindByName finds an outlet by its unique name
func (r *GormOutletRepository) FindByName(ctx context.Context, name string) (*outlet.Outlet, error) {
	var o outlet.Outlet
	if err := r.db.WithContext(ctx).First(&o, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// FindAll lists outlets
func (r *GormOutletRepository) FindAll(ctx context.Context, filter shared.Filter) ([]outlet.Outlet, error) {
	var outlets []outlet.Outlet
	query := applyRecordFilter(
		r.db.WithContext(ctx).Model(&outlet.Outlet{}),
		filter, OutletSortFields, "name",
	)

	if err := query.Find(&outlets).Error; err != nil {
		return nil, err
	}
	return outlets, nil
}

// FindActive lists outlets that can take part in operations
func (r *GormOutletRepository) FindActive(ctx context.Context) ([]outlet.Outlet, error) {
	var outlets []outlet.Outlet
	if err := r.db.WithContext(ctx).
		Where("status = ?", outlet.StatusActive).
		Order("name ASC").
		Find(&outlets).Error; err != nil {
		return nil, err
	}
	return outlets, nil
}

// Save creates or updates an outlet
func (r *GormOutletRepository) Save(ctx context.Context, o *outlet.Outlet) error {
	return r.db.WithContext(ctx).Save(o).Error
}

// Ensure GormOutletRepository implements outlet.Repository
var _ outlet.Repository = (*GormOutletRepository)(nil)
