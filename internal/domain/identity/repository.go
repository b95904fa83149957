package identity

import (
	"context"

	"github.com/cylinderx/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Repository defines the interface for user persistence
type Repository interface {
	// FindByID finds a user by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByEmail finds a user by email
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindByOutlet lists staff attached to an outlet
	FindByOutlet(ctx context.Context, outletID uuid.UUID, filter shared.Filter) ([]User, error)

	// FindByRole lists users with a role
	FindByRole(ctx context.Context, role Role, filter shared.Filter) ([]User, error)

	// Save creates or updates a user
	Save(ctx context.Context, u *User) error
}
