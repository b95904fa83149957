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

// GormLeaseRecordRepository implements ledger.LeaseRecordRepository using GORM
type GormLeaseRecordRepository struct {
	db *gorm.DB
}

// NewGormLeaseRecordRepository creates a new GormLeaseRecordRepository
func NewGormLeaseRecordRepository(db *gorm.DB) *GormLeaseRecordRepository {
	return &GormLeaseRecordRepository{db: db}
}

// FindByID finds a lease record by its ID
func (r *GormLeaseRecordRepository) FindByID(ctx context.Context, id uuid.UUID) (*ledger.LeaseRecord, error) {
	var record ledger.LeaseRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindOpenByCylinder finds the open (active or overdue) lease for a cylinder
func (r *GormLeaseRecordRepository) FindOpenByCylinder(ctx context.Context, cylinderID uuid.UUID) (*ledger.LeaseRecord, error) {
	var record ledger.LeaseRecord
	if err := r.db.WithContext(ctx).
		Where("cylinder_id = ? AND status IN ?", cylinderID,
			[]ledger.LeaseStatus{ledger.LeaseStatusActive, ledger.LeaseStatusOverdue}).
		Order("lease_date DESC").
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindActiveByCustomer finds the customer's open leases
func (r *GormLeaseRecordRepository) FindActiveByCustomer(ctx context.Context, customerID uuid.UUID) ([]ledger.LeaseRecord, error) {
	var records []ledger.LeaseRecord
	if err := r.db.WithContext(ctx).
		Where("customer_id = ? AND status IN ?", customerID,
			[]ledger.LeaseStatus{ledger.LeaseStatusActive, ledger.LeaseStatusOverdue}).
		Order("lease_date DESC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// CountActiveByCustomer counts the customer's open leases
func (r *GormLeaseRecordRepository) CountActiveByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&ledger.LeaseRecord{}).
		Where("customer_id = ? AND status IN ?", customerID,
			[]ledger.LeaseStatus{ledger.LeaseStatusActive, ledger.LeaseStatusOverdue}).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindByCylinder finds all lease records for a cylinder, newest first
func (r *GormLeaseRecordRepository) FindByCylinder(ctx context.Context, cylinderID uuid.UUID, filter shared.Filter) ([]ledger.LeaseRecord, error) {
	var records []ledger.LeaseRecord
	query := applyRecordFilter(
		r.db.WithContext(ctx).Model(&ledger.LeaseRecord{}).
			Where("cylinder_id = ?", cylinderID),
		filter, LeaseRecordSortFields, "lease_date",
	)

	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// FindByDateRange finds lease records within a lease-date range
func (r *GormLeaseRecordRepository) FindByDateRange(ctx context.Context, start, end time.Time, filter shared.Filter) ([]ledger.LeaseRecord, error) {
	var records []ledger.LeaseRecord
	query := applyRecordFilter(
		r.db.WithContext(ctx).Model(&ledger.LeaseRecord{}).
			Where("lease_date >= ? AND lease_date < ?", start, end),
		filter, LeaseRecordSortFields, "lease_date",
	)

	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// FindExpiredActive finds active leases whose expected return date is before asOf
func (r *GormLeaseRecordRepository) FindExpiredActive(ctx context.Context, asOf time.Time) ([]ledger.LeaseRecord, error) {
	var records []ledger.LeaseRecord
	if err := r.db.WithContext(ctx).
		Where("status = ? AND expected_return_date < ?", ledger.LeaseStatusActive, asOf).
		Order("expected_return_date ASC").
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// Create appends a new lease record
func (r *GormLeaseRecordRepository) Create(ctx context.Context, record *ledger.LeaseRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// MarkOverdue flips an active lease to overdue. The status guard leaves
// a concurrently returned lease closed; only the status and timestamp
// columns are written.
func (r *GormLeaseRecordRepository) MarkOverdue(ctx context.Context, record *ledger.LeaseRecord) error {
	result := r.db.WithContext(ctx).
		Model(&ledger.LeaseRecord{}).
		Where("id = ? AND status = ?", record.ID, ledger.LeaseStatusActive).
		Updates(map[string]interface{}{
			"status":     record.Status,
			"updated_at": record.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Update persists the return fields of an existing record
func (r *GormLeaseRecordRepository) Update(ctx context.Context, record *ledger.LeaseRecord) error {
	result := r.db.WithContext(ctx).
		Model(record).
		Where("id = ?", record.ID).
		Updates(map[string]interface{}{
			"actual_return_date": record.ActualReturnDate,
			"return_staff_id":    record.ReturnStaffID,
			"status":             record.Status,
			"refund_amount":      record.RefundAmount,
			"notes":              record.Notes,
			"updated_at":         record.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Ensure GormLeaseRecordRepository implements ledger.LeaseRecordRepository
var _ ledger.LeaseRecordRepository = (*GormLeaseRecordRepository)(nil)
