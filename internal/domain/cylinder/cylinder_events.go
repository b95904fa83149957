package cylinder

import (
	"github.com/cylinderx/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeCylinder = "Cylinder"

// Event type constants
const (
	EventTypeCylinderLeased            = "CylinderLeased"
	EventTypeCylinderReturnedToService = "CylinderReturnedToService"
	EventTypeCylinderDamaged           = "CylinderDamaged"
	EventTypeCylinderRefilled          = "CylinderRefilled"
	EventTypeCylinderTransferred       = "CylinderTransferred"
	EventTypeCylinderRetired           = "CylinderRetired"
)

// LeasedEvent is raised when a cylinder is leased to a customer
type LeasedEvent struct {
	shared.BaseDomainEvent
	CylinderCode string    `json:"cylinder_code"`
	CustomerID   uuid.UUID `json:"customer_id"`
	OutletID     uuid.UUID `json:"outlet_id"`
}

// NewLeasedEvent creates a new LeasedEvent
func NewLeasedEvent(c *Cylinder, customerID, outletID uuid.UUID) *LeasedEvent {
	return &LeasedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCylinderLeased, AggregateTypeCylinder, c.ID),
		CylinderCode:    c.CylinderCode,
		CustomerID:      customerID,
		OutletID:        outletID,
	}
}

// ReturnedToServiceEvent is raised when a cylinder becomes available again
type ReturnedToServiceEvent struct {
	shared.BaseDomainEvent
	CylinderCode string          `json:"cylinder_code"`
	GasVolume    decimal.Decimal `json:"gas_volume"`
}

// NewReturnedToServiceEvent creates a new ReturnedToServiceEvent
func NewReturnedToServiceEvent(c *Cylinder) *ReturnedToServiceEvent {
	return &ReturnedToServiceEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCylinderReturnedToService, AggregateTypeCylinder, c.ID),
		CylinderCode:    c.CylinderCode,
		GasVolume:       c.CurrentGasVolume,
	}
}

// DamagedEvent is raised when a cylinder is marked damaged
type DamagedEvent struct {
	shared.BaseDomainEvent
	CylinderCode string `json:"cylinder_code"`
	Reason       string `json:"reason,omitempty"`
}

// NewDamagedEvent creates a new DamagedEvent
func NewDamagedEvent(c *Cylinder, reason string) *DamagedEvent {
	return &DamagedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCylinderDamaged, AggregateTypeCylinder, c.ID),
		CylinderCode:    c.CylinderCode,
		Reason:          reason,
	}
}

// RefilledEvent is raised when a refill completes
type RefilledEvent struct {
	shared.BaseDomainEvent
	CylinderCode string          `json:"cylinder_code"`
	GasVolume    decimal.Decimal `json:"gas_volume"`
}

// NewRefilledEvent creates a new RefilledEvent
func NewRefilledEvent(c *Cylinder) *RefilledEvent {
	return &RefilledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCylinderRefilled, AggregateTypeCylinder, c.ID),
		CylinderCode:    c.CylinderCode,
		GasVolume:       c.CurrentGasVolume,
	}
}

// TransferredEvent is raised when a cylinder changes outlet
type TransferredEvent struct {
	shared.BaseDomainEvent
	CylinderCode string    `json:"cylinder_code"`
	FromOutletID uuid.UUID `json:"from_outlet_id"`
	ToOutletID   uuid.UUID `json:"to_outlet_id"`
	StaffID      uuid.UUID `json:"staff_id"`
	Reason       string    `json:"reason,omitempty"`
}

// NewTransferredEvent creates a new TransferredEvent
func NewTransferredEvent(c *Cylinder, fromOutletID, toOutletID, staffID uuid.UUID, reason string) *TransferredEvent {
	return &TransferredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCylinderTransferred, AggregateTypeCylinder, c.ID),
		CylinderCode:    c.CylinderCode,
		FromOutletID:    fromOutletID,
		ToOutletID:      toOutletID,
		StaffID:         staffID,
		Reason:          reason,
	}
}

// RetiredEvent is raised when a cylinder is retired
type RetiredEvent struct {
	shared.BaseDomainEvent
	CylinderCode string `json:"cylinder_code"`
	Reason       string `json:"reason,omitempty"`
}

// NewRetiredEvent creates a new RetiredEvent
func NewRetiredEvent(c *Cylinder, reason string) *RetiredEvent {
	return &RetiredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeCylinderRetired, AggregateTypeCylinder, c.ID),
		CylinderCode:    c.CylinderCode,
		Reason:          reason,
	}
}
