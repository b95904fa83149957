package cylinder

import (
	"fmt"
	"strings"
	"time"

	"github.com/cylinderx/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Type is the capacity class of a cylinder. The enumeration is fixed:
// the class determines the rated maximum gas volume in kilograms.
type Type string

const (
	Type5KG  Type = "5kg"
	Type10KG Type = "10kg"
	Type15KG Type = "15kg"
	Type50KG Type = "50kg"
)

// IsValid returns true if the cylinder type is one of the fixed classes
func (t Type) IsValid() bool {
	switch t {
	case Type5KG, Type10KG, Type15KG, Type50KG:
		return true
	}
	return false
}

// RatedVolume returns the rated maximum gas volume for the type in kg
func (t Type) RatedVolume() decimal.Decimal {
	switch t {
	case Type5KG:
		return decimal.NewFromInt(5)
	case Type10KG:
		return decimal.NewFromInt(10)
	case Type15KG:
		return decimal.NewFromInt(15)
	case Type50KG:
		return decimal.NewFromInt(50)
	}
	return decimal.Zero
}

// String returns the string representation of the type
func (t Type) String() string {
	return string(t)
}

// Status is the lifecycle status of a cylinder
type Status string

const (
	StatusAvailable Status = "available"
	StatusLeased    Status = "leased"
	StatusRefilling Status = "refilling"
	StatusDamaged   Status = "damaged"
	StatusRetired   Status = "retired"
)

// IsValid returns true if the status is a known lifecycle status
func (s Status) IsValid() bool {
	switch s {
	case StatusAvailable, StatusLeased, StatusRefilling, StatusDamaged, StatusRetired:
		return true
	}
	return false
}

// String returns the string representation of the status
func (s Status) String() string {
	return string(s)
}

// allowedTransitions is the closed transition table for cylinder status.
// Any transition not listed here is rejected. Retired is terminal.
var allowedTransitions = map[Status][]Status{
	StatusAvailable: {StatusLeased, StatusRefilling, StatusDamaged},
	StatusLeased:    {StatusAvailable, StatusDamaged},
	StatusRefilling: {StatusAvailable, StatusDamaged},
	StatusDamaged:   {StatusRetired},
	StatusRetired:   {},
}

// CanTransition returns true if the status may move to the target status
func (s Status) CanTransition(to Status) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == to {
			return true
		}
	}
	return false
}

// Cylinder is the aggregate root for a physical gas cylinder. It is the
// authoritative record of the cylinder's identity, location, gas volume
// and lifecycle status. Status, location and volume are mutated only
// through the transition methods below. Version holds the value read at
// load time; the guarded save advances it exactly once per committed
// unit of work, however many mutations that unit applied.
type Cylinder struct {
	shared.BaseAggregateRoot
	CylinderCode       string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	QRCode             string          `gorm:"type:varchar(100);not null;uniqueIndex"`
	Type               Type            `gorm:"type:varchar(10);not null"`
	Status             Status          `gorm:"type:varchar(20);not null;index"`
	CurrentOutletID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	CurrentGasVolume   decimal.Decimal `gorm:"type:decimal(10,3);not null;default:0"`
	MaxGasVolume       decimal.Decimal `gorm:"type:decimal(10,3);not null"`
	ManufactureDate    time.Time       `gorm:"type:date;not null"`
	LastInspectionDate *time.Time      `gorm:"type:date"`
	Notes              string          `gorm:"type:varchar(255)"`
}

// TableName returns the table name for GORM
func (Cylinder) TableName() string {
	return "cylinders"
}

// NewCylinder creates a new cylinder at intake. The cylinder starts
// available at the intake outlet with the given fill level.
func NewCylinder(code, qrCode string, cylinderType Type, outletID uuid.UUID, currentVolume decimal.Decimal, manufactureDate time.Time) (*Cylinder, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Cylinder code cannot be empty")
	}
	if strings.TrimSpace(qrCode) == "" {
		return nil, shared.NewDomainError("INVALID_QR_CODE", "Cylinder QR code cannot be empty")
	}
	if !cylinderType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TYPE", fmt.Sprintf("Unknown cylinder type %q", cylinderType))
	}
	if outletID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_OUTLET", "Intake outlet ID cannot be empty")
	}
	maxVolume := cylinderType.RatedVolume()
	if currentVolume.IsNegative() || currentVolume.GreaterThan(maxVolume) {
		return nil, shared.NewDomainError("INVALID_VOLUME",
			fmt.Sprintf("Gas volume %s outside [0, %s] for type %s", currentVolume, maxVolume, cylinderType))
	}

	return &Cylinder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CylinderCode:      code,
		QRCode:            strings.TrimSpace(qrCode),
		Type:              cylinderType,
		Status:            StatusAvailable,
		CurrentOutletID:   outletID,
		CurrentGasVolume:  currentVolume,
		MaxGasVolume:      maxVolume,
		ManufactureDate:   manufactureDate,
	}, nil
}

// transition moves the cylinder to the target status, enforcing the
// closed transition table.
func (c *Cylinder) transition(to Status) error {
	if !c.Status.CanTransition(to) {
		return shared.NewDomainError(shared.CodePreconditionFailed,
			fmt.Sprintf("Cylinder %s cannot transition from %s to %s", c.CylinderCode, c.Status, to))
	}
	c.Status = to
	c.touch()
	return nil
}

func (c *Cylinder) touch() {
	c.UpdatedAt = time.Now()
}

// Lease marks an available cylinder as leased
func (c *Cylinder) Lease(customerID, outletID uuid.UUID) error {
	if c.Status != StatusAvailable {
		return shared.NewDomainError(shared.CodePreconditionFailed,
			fmt.Sprintf("Cylinder %s is %s, not available for lease", c.CylinderCode, c.Status))
	}
	if err := c.transition(StatusLeased); err != nil {
		return err
	}
	c.AddDomainEvent(NewLeasedEvent(c, customerID, outletID))
	return nil
}

// ReturnToService puts a leased or refilling cylinder back to available
func (c *Cylinder) ReturnToService() error {
	if c.Status != StatusLeased && c.Status != StatusRefilling {
		return shared.NewDomainError(shared.CodePreconditionFailed,
			fmt.Sprintf("Cylinder %s is %s, cannot return to service", c.CylinderCode, c.Status))
	}
	if err := c.transition(StatusAvailable); err != nil {
		return err
	}
	c.AddDomainEvent(NewReturnedToServiceEvent(c))
	return nil
}

// MarkDamaged marks the cylinder as damaged. Used when a lease return
// reports a damaged cylinder or when damage is found at the outlet.
func (c *Cylinder) MarkDamaged(reason string) error {
	if err := c.transition(StatusDamaged); err != nil {
		return err
	}
	c.AddDomainEvent(NewDamagedEvent(c, reason))
	return nil
}

// BeginRefill moves an available cylinder into the refilling state
func (c *Cylinder) BeginRefill() error {
	if c.Status != StatusAvailable {
		return shared.NewDomainError(shared.CodePreconditionFailed,
			fmt.Sprintf("Cylinder %s is %s, cannot begin refill", c.CylinderCode, c.Status))
	}
	return c.transition(StatusRefilling)
}

// CompleteRefill records a full refill: gas volume rises to the rated
// maximum and a refilling cylinder returns to available. An available
// cylinder can also be refilled in place without the explicit refilling
// step; its status is unchanged.
func (c *Cylinder) CompleteRefill() error {
	if c.Status != StatusAvailable && c.Status != StatusRefilling {
		return shared.NewDomainError(shared.CodePreconditionFailed,
			fmt.Sprintf("Cylinder %s is %s, cannot complete refill", c.CylinderCode, c.Status))
	}
	c.CurrentGasVolume = c.MaxGasVolume
	if c.Status == StatusRefilling {
		if err := c.transition(StatusAvailable); err != nil {
			return err
		}
	} else {
		c.touch()
	}
	c.AddDomainEvent(NewRefilledEvent(c))
	return nil
}

// SetGasVolume records a measured gas volume within [0, max]. Used at
// lease return when the remaining volume is gauged.
func (c *Cylinder) SetGasVolume(volume decimal.Decimal) error {
	if volume.IsNegative() || volume.GreaterThan(c.MaxGasVolume) {
		return shared.NewDomainError("INVALID_VOLUME",
			fmt.Sprintf("Gas volume %s outside [0, %s] for cylinder %s", volume, c.MaxGasVolume, c.CylinderCode))
	}
	c.CurrentGasVolume = volume
	c.touch()
	return nil
}

// Relocate moves the cylinder to another outlet. Relocation never
// changes the lifecycle status; a leased cylinder cannot be relocated.
func (c *Cylinder) Relocate(toOutletID uuid.UUID, staffID uuid.UUID, reason string) error {
	if c.Status == StatusLeased || c.Status == StatusRetired {
		return shared.NewDomainError(shared.CodeInvalidTransfer,
			fmt.Sprintf("Cylinder %s is %s and cannot be transferred", c.CylinderCode, c.Status))
	}
	if toOutletID == uuid.Nil {
		return shared.NewDomainError("INVALID_OUTLET", "Destination outlet ID cannot be empty")
	}
	if toOutletID == c.CurrentOutletID {
		return shared.NewDomainError(shared.CodeInvalidTransfer,
			fmt.Sprintf("Cylinder %s is already at outlet %s", c.CylinderCode, toOutletID))
	}
	fromOutletID := c.CurrentOutletID
	c.CurrentOutletID = toOutletID
	c.touch()
	c.AddDomainEvent(NewTransferredEvent(c, fromOutletID, toOutletID, staffID, reason))
	return nil
}

// Retire permanently retires a damaged cylinder. Retired is terminal:
// the record is kept, never deleted.
func (c *Cylinder) Retire(reason string) error {
	if c.Status != StatusDamaged {
		return shared.NewDomainError(shared.CodePreconditionFailed,
			fmt.Sprintf("Cylinder %s is %s, only damaged cylinders can be retired", c.CylinderCode, c.Status))
	}
	if err := c.transition(StatusRetired); err != nil {
		return err
	}
	c.AddDomainEvent(NewRetiredEvent(c, reason))
	return nil
}

// RecordInspection records an inspection date
func (c *Cylinder) RecordInspection(date time.Time) {
	c.LastInspectionDate = &date
	c.touch()
}

// IsEmpty returns true if the cylinder has no gas left
func (c *Cylinder) IsEmpty() bool {
	return c.CurrentGasVolume.IsZero()
}

// FillRatio returns current/max volume as a decimal in [0, 1]
func (c *Cylinder) FillRatio() decimal.Decimal {
	if c.MaxGasVolume.IsZero() {
		return decimal.Zero
	}
	return c.CurrentGasVolume.Div(c.MaxGasVolume).Round(4)
}
