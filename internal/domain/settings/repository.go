package settings

import (
	"context"

	"github.com/cylinderx/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Repository defines the interface for business setting persistence
type Repository interface {
	// FindByID finds a setting by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*BusinessSetting, error)

	// FindActiveByKey finds all active settings for a key, any scope
	FindActiveByKey(ctx context.Context, key string) ([]BusinessSetting, error)

	// FindByCategory finds settings in a category
	FindByCategory(ctx context.Context, categoryID int, filter shared.Filter) ([]BusinessSetting, error)

	// FindAll lists settings
	FindAll(ctx context.Context, filter shared.Filter) ([]BusinessSetting, error)

	// Save creates or updates a setting
	Save(ctx context.Context, setting *BusinessSetting) error

	// Delete removes a setting; prefer Deactivate to keep the audit trail
	Delete(ctx context.Context, id uuid.UUID) error
}
