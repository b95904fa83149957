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

// GormTransferRecordRepository implements ledger.TransferRecordRepository using GORM
type GormTransferRecordRepository struct {
	db *gorm.DB
}

// NewGormTransferRecordRepository creates a new GormTransferRecordRepository
func NewGormTransferRecordRepository(db *gorm.DB) *GormTransferRecordRepository {
	return &GormTransferRecordRepository{db: db}
}

// FindByID finds a transfer record by its ID
func (r *GormTransferRecordRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.TransferRecord, error) {
	var record ledger.TransferRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindByCylinder finds transfer records for a cylinder, newest first
func (r *GormTransferRecordRepository) FindByCylinder(ctx context.Context, cylinderID uuid.UUID, filter shared.Filter) ([]ledger.TransferRecord, error) {
	var records []ledger.TransferRecord
	query := applyRecordFilter(
		r.db.WithContext(ctx).Model(&ledger.TransferRecord{}).
			Where("cylinder_id = ?", cylinderID),
		filter, TransferRecordSortFields, "transfer_date",
	)

	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// FindLatestByCylinder finds the most recent transfer for a cylinder
func (r *GormTransferRecordRepository) FindLatestByCylinder(ctx context.Context, cylinderID uuid.UUID) (*ledger.TransferRecord, error) {
	var record ledger.TransferRecord
	if err := r.db.WithContext(ctx).
		Where("cylinder_id = ?", cylinderID).
		Order("transfer_date DESC").
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindByDateRange finds transfer records within a date range
func (r *GormTransferRecordRepository) FindByDateRange(ctx context.Context, start, end time.Time, filter shared.Filter) ([]ledger.TransferRecord, error) {
	var records []ledger.TransferRecord
	query := applyRecordFilter(
		r.db.WithContext(ctx).Model(&ledger.TransferRecord{}).
			Where("transfer_date >= ? AND transfer_date < ?", start, end),
		filter, TransferRecordSortFields, "transfer_date",
	)

	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// Create appends a new transfer record
func (r *GormTransferRecordRepository) Create(ctx context.Context, record *ledger.TransferRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// Ensure GormTransferRecordRepository implements ledger.TransferRecordRepository
var _ ledger.TransferRecordRepository = (*GormTransferRecordRepository)(nil)
