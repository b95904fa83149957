package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/cylinderx/backend/internal/domain/ledger"
	"github.com/cylinderx/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormRefillRecordRepository implements ledger.RefillRecordRepository using GORM
type GormRefillRecordRepository struct {
	db *gorm.DB
}

// NewGormRefillRecordRepository creates a new GormRefillRecordRepository
func NewGormRefillRecordRepository(db *gorm.DB) *GormRefillRecordRepository {
	return &GormRefillRecordRepository{db: db}
}

// FindByID finds a refill record by its ID
func (r *GormRefillRecordRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.RefillRecord, error) {
	var record ledger.RefillRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindByCylinder finds refill records for a cylinder, newest first
func (r *GormRefillRecordRepository) FindByCylinder(ctx context.Context, cylinderID uuid.UUID, filter shared.Filter) ([]ledger.RefillRecord, error) {
	var records []ledger.RefillRecord
	query := applyRecordFilter(
		r.db.WithContext(ctx).Model(&ledger.RefillRecord{}).
			Where("cylinder_id = ?", cylinderID),
		filter, RefillRecordSortFields, "refill_date",
	)

	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// FindByBatch finds refill records sharing a batch number
func (r *GormRefillRecordRepository) FindByBatch(ctx context.Context, batchNumber string) ([]ledger.RefillRecord, error) {
	var records []ledger.RefillRecord
	if err := r.db.WithContext(ctx).
		Where("batch_number = ?", batchNumber).
		Order("refill_date DESC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// FindByDateRange finds refill records within a refill-date range
func (r *GormRefillRecordRepository) FindByDateRange(ctx context.Context, start, end time.Time, filter shared.Filter) ([]ledger.RefillRecord, error) {
	var records []ledger.RefillRecord
	query := applyRecordFilter(
		r.db.WithContext(ctx).Model(&ledger.RefillRecord{}).
			Where("refill_date >= ? AND refill_date < ?", start, end),
		filter, RefillRecordSortFields, "refill_date",
	)

	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// Create appends a new refill record
func (r *GormRefillRecordRepository) Create(ctx context.Context, record *ledger.RefillRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// Ensure GormRefillRecordRepository implements ledger.RefillRecordRepository
var _ ledger.RefillRecordRepository = (*GormRefillRecordRepository)(nil)
