package outlet

import (
	"github.com/cylinderx/backend/internal/domain/shared"
	"github.com/google/uuid"
)

const aggregateType = "Outlet"

// OutletCreatedEvent is emitted when an outlet is registered
type OutletCreatedEvent struct {
	shared.BaseDomainEvent
	Name string `json:"name"`
}

// NewOutletCreatedEvent creates an OutletCreatedEvent
func NewOutletCreatedEvent(outletID uuid.UUID, name string) *OutletCreatedEvent {
	return &OutletCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("outlet.created", aggregateType, outletID),
		Name:            name,
	}
}
