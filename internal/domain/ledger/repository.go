package ledger

import (
	"context"
	"time"

	"github.com/cylinderx/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// LeaseRecordRepository defines the interface for lease record
// persistence. Records are created once; the only permitted update
// closes a lease (return fields) or marks it overdue.
type LeaseRecordRepository interface {
	// FindByID finds a lease record by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*LeaseRecord, error)

	// FindOpenByCylinder finds the open (active or overdue) lease for a
	// cylinder, shared.ErrNotFound when none exists
	FindOpenByCylinder(ctx context.Context, cylinderID uuid.UUID) (*LeaseRecord, error)

	// FindActiveByCustomer finds the customer's open leases
	FindActiveByCustomer(ctx context.Context, customerID uuid.UUID) ([]LeaseRecord, error)

	// CountActiveByCustomer counts the customer's open leases
	CountActiveByCustomer(ctx context.Context, customerID uuid.UUID) (int64, error)

	// FindByCylinder finds all lease records for a cylinder, newest first
	FindByCylinder(ctx context.Context, cylinderID uuid.UUID, filter shared.Filter) ([]LeaseRecord, error)

	// FindByDateRange finds lease records within a lease-date range
	FindByDateRange(ctx context.Context, start, end time.Time, filter shared.Filter) ([]LeaseRecord, error)

	// FindExpiredActive finds active leases whose expected return date
	// is before asOf
	FindExpiredActive(ctx context.Context, asOf time.Time) ([]LeaseRecord, error)

	// Create appends a new lease record
	Create(ctx context.Context, record *LeaseRecord) error

	// Update persists the return fields of an existing record
	Update(ctx context.Context, record *LeaseRecord) error

	// MarkOverdue persists the active-to-overdue status flip, guarded so
	// a lease returned concurrently is left untouched. Zero matched rows
	// surface as shared.ErrConcurrencyConflict.
	MarkOverdue(ctx context.Context, record *LeaseRecord) error
}

// RefillRecordRepository defines the interface for refill record
// persistence. The store is append-only: no update or delete exists.
type RefillRecordRepository interface {
	// FindByID finds a refill record by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*RefillRecord, error)

	// FindByCylinder finds refill records for a cylinder, newest first
	FindByCylinder(ctx context.Context, cylinderID uuid.UUID, filter shared.Filter) ([]RefillRecord, error)

	// FindByBatch finds refill records sharing a batch number
	FindByBatch(ctx context.Context, batchNumber string) ([]RefillRecord, error)

	// FindByDateRange finds refill records within a refill-date range
	FindByDateRange(ctx context.Context, start, end time.Time, filter shared.Filter) ([]RefillRecord, error)

	// Create appends a new refill record
	Create(ctx context.Context, record *RefillRecord) error
}

// TransferRecordRepository defines the interface for transfer record
// persistence. The store is append-only: no update or delete exists.
type TransferRecordRepository interface {
	// FindByID finds a transfer record by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*TransferRecord, error)

	// FindByCylinder finds transfer records for a cylinder, newest first
	FindByCylinder(ctx context.Context, cylinderID uuid.UUID, filter shared.Filter) ([]TransferRecord, error)

	// FindLatestByCylinder finds the most recent transfer for a
	// cylinder, shared.ErrNotFound when the cylinder never moved
	FindLatestByCylinder(ctx context.Context, cylinderID uuid.UUID) (*TransferRecord, error)

	// FindByDateRange finds transfer records within a date range
	FindByDateRange(ctx context.Context, start, end time.Time, filter shared.Filter) ([]TransferRecord, error)

	// Create appends a new transfer record
	Create(ctx context.Context, record *TransferRecord) error
}
