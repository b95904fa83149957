package outlet

import (
	"strings"

	"github.com/cylinderx/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Status represents the operational status of an outlet
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Outlet is a physical distribution point where cylinders are stored,
// leased out and refilled. It is the aggregate root for outlet
// operations.
type Outlet struct {
	shared.BaseAggregateRoot
	Name         string     `gorm:"type:varchar(100);not null;uniqueIndex"`
	Location     string     `gorm:"type:varchar(255);not null"`
	ContactPhone string     `gorm:"type:varchar(20)"`
	ContactEmail string     `gorm:"type:varchar(255)"`
	Status       Status     `gorm:"type:varchar(10);not null;default:'active'"`
	ManagerID    *uuid.UUID `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (Outlet) TableName() string {
	return "outlets"
}

// NewOutlet creates an active outlet
func NewOutlet(name, location string) (*Outlet, error) {
	name = strings.TrimSpace(name)
	location = strings.TrimSpace(location)
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Outlet name cannot be empty")
	}
	if location == "" {
		return nil, shared.NewDomainError("INVALID_LOCATION", "Outlet location cannot be empty")
	}

	o := &Outlet{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Location:          location,
		Status:            StatusActive,
	}
	o.AddDomainEvent(NewOutletCreatedEvent(o.ID, name))
	return o, nil
}

// IsActive reports whether the outlet can take part in operations
func (o *Outlet) IsActive() bool {
	return o.Status == StatusActive
}

// Activate re-opens an inactive outlet
func (o *Outlet) Activate() {
	if o.Status == StatusActive {
		return
	}
	o.Status = StatusActive
	o.IncrementVersion()
}

// Deactivate closes the outlet. Cylinders already at the outlet stay
// there until transferred out.
func (o *Outlet) Deactivate() {
	if o.Status == StatusInactive {
		return
	}
	o.Status = StatusInactive
	o.IncrementVersion()
}

// AssignManager sets the responsible staff member
func (o *Outlet) AssignManager(managerID uuid.UUID) {
	o.ManagerID = &managerID
	o.IncrementVersion()
}

// UpdateContact replaces the contact details
func (o *Outlet) UpdateContact(phone, email string) {
	o.ContactPhone = strings.TrimSpace(phone)
	o.ContactEmail = strings.TrimSpace(email)
	o.IncrementVersion()
}
