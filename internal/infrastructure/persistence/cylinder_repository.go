package persistence

import (
	"context"
	"errors"

	"github.com/cylinderx/backend/internal/domain/cylinder"
	"github.com/cylinderx/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCylinderRepository implements cylinder.Repository using GORM
type GormCylinderRepository struct {
	db *gorm.DB
}

// NewGormCylinderRepository creates a new GormCylinderRepository
func NewGormCylinderRepository(db *gorm.DB) *GormCylinderRepository {
	return &GormCylinderRepository{db: db}
}

// FindByID finds a cylinder by its ID
func (r *GormCylinderRepository) FindByID(ctx context.Context, id uuid.UUID) (*cylinder.Cylinder, error) {
	var c cylinder.Cylinder
	if err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// FindByCode finds a cylinder by its unique cylinder code
func (r *GormCylinderRepository) FindByCode(ctx context.Context, code string) (*cylinder.Cylinder, error) {
	var c cylinder.Cylinder
	if err := r.db.WithContext(ctx).First(&c, "cylinder_code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// FindByQRCode finds a cylinder by its scan tag
func (r *GormCylinderRepository) FindByQRCode(ctx context.Context, qrCode string) (*cylinder.Cylinder, error) {
	var c cylinder.Cylinder
	if err := r.db.WithContext(ctx).First(&c, "qr_code = ?", qrCode).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// FindByOutlet finds cylinders held at an outlet
func (r *GormCylinderRepository) FindByOutlet(ctx context.Context, outletID uuid.UUID, filter shared.Filter) ([]cylinder.Cylinder, error) {
	var cylinders []cylinder.Cylinder
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&cylinder.Cylinder{}).
			Where("current_outlet_id = ?", outletID),
		filter,
	)

	if err := query.Find(&cylinders).Error; err != nil {
		return nil, err
	}
	return cylinders, nil
}

// FindByOutletAndStatus finds cylinders at an outlet in a given status
func (r *GormCylinderRepository) FindByOutletAndStatus(ctx context.Context, outletID uuid.UUID, status cylinder.Status, filter shared.Filter) ([]cylinder.Cylinder, error) {
	var cylinders []cylinder.Cylinder
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&cylinder.Cylinder{}).
			Where("current_outlet_id = ? AND status = ?", outletID, status),
		filter,
	)

	if err := query.Find(&cylinders).Error; err != nil {
		return nil, err
	}
	return cylinders, nil
}

// Save creates or updates a cylinder without a version guard
func (r *GormCylinderRepository) Save(ctx context.Context, c *cylinder.Cylinder) error {
	return r.db.WithContext(ctx).Save(c).Error
}

// SaveWithLock saves with optimistic locking: the update is guarded by
// the version the aggregate was loaded with, and the stored row advances
// exactly one version per committed save. Zero matched rows means a
// concurrent writer got there first.
func (r *GormCylinderRepository) SaveWithLock(ctx context.Context, c *cylinder.Cylinder) error {
	loaded := c.Version
	result := r.db.WithContext(ctx).
		Model(&cylinder.Cylinder{}).
		Where("id = ? AND version = ?", c.ID, loaded).
		Updates(map[string]interface{}{
			"status":               c.Status,
			"current_outlet_id":    c.CurrentOutletID,
			"current_gas_volume":   c.CurrentGasVolume,
			"last_inspection_date": c.LastInspectionDate,
			"notes":                c.Notes,
			"version":              loaded + 1,
			"updated_at":           c.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	c.IncrementVersion()
	return nil
}

// CountByOutletAndStatus counts cylinders at an outlet in a status
func (r *GormCylinderRepository) CountByOutletAndStatus(ctx context.Context, outletID uuid.UUID, status cylinder.Status) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&cylinder.Cylinder{}).
		Where("current_outlet_id = ? AND status = ?", outletID, status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormCylinderRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "type":
			query = query.Where("type = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "needs_inspection":
			if value == true {
				query = query.Where("last_inspection_date IS NULL OR last_inspection_date < NOW() - INTERVAL '1 year'")
			}
		}
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		field := ValidateSortField(filter.OrderBy, CylinderSortFields, "cylinder_code")
		query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order("cylinder_code ASC")
	}

	return query
}

// Ensure GormCylinderRepository implements cylinder.Repository
var _ cylinder.Repository = (*GormCylinderRepository)(nil)
