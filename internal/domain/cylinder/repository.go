package cylinder

import (
	"context"

	"github.com/cylinderx/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Repository defines the interface for cylinder persistence.
// All ledger-engine writes go through SaveWithLock so concurrent
// operations on the same cylinder cannot lose updates.
type Repository interface {
	// FindByID finds a cylinder by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Cylinder, error)

	// FindByCode finds a cylinder by its unique cylinder code
	FindByCode(ctx context.Context, code string) (*Cylinder, error)

	// FindByQRCode finds a cylinder by its scan tag
	FindByQRCode(ctx context.Context, qrCode string) (*Cylinder, error)

	// FindByOutlet finds cylinders held at an outlet
	FindByOutlet(ctx context.Context, outletID uuid.UUID, filter shared.Filter) ([]Cylinder, error)

	// FindByOutletAndStatus finds cylinders at an outlet in a given status
	FindByOutletAndStatus(ctx context.Context, outletID uuid.UUID, status Status, filter shared.Filter) ([]Cylinder, error)

	// Save creates or updates a cylinder without a version guard (intake only)
	Save(ctx context.Context, c *Cylinder) error

	// SaveWithLock updates a cylinder guarded by its previous version.
	// Returns shared.ErrConcurrencyConflict when the row was modified
	// by another transaction.
	SaveWithLock(ctx context.Context, c *Cylinder) error

	// CountByOutletAndStatus counts cylinders at an outlet in a status
	CountByOutletAndStatus(ctx context.Context, outletID uuid.UUID, status Status) (int64, error)
}
