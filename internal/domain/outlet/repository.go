package outlet

import (
	"context"

	"github.com/cylinderx/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Repository defines the interface for outlet persistence
type Repository interface {
	// FindByID finds an outlet by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Outlet, error)

	// FindByName finds an outlet by its unique name
	FindByName(ctx context.Context, name string) (*Outlet, error)

	// FindAll lists outlets
	FindAll(ctx context.Context, filter shared.Filter) ([]Outlet, error)

	// FindActive lists outlets that can take part in operations
	FindActive(ctx context.Context) ([]Outlet, error)

	// Save creates or updates an outlet
	Save(ctx context.Context, o *Outlet) error
}
