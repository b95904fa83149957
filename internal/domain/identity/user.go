package identity

import (
	"regexp"
	"strings"

	"github.com/cylinderx/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Role represents what a user can do in the system
type Role string

const (
	RoleAdmin          Role = "admin"
	RoleStaff          Role = "staff"
	RoleRefillOperator Role = "refill_operator"
	RoleCustomer       Role = "customer"
)

// IsValid returns true if the role is known
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleStaff, RoleRefillOperator, RoleCustomer:
		return true
	}
	return false
}

// IsStaffRole reports whether the role may perform ledger operations
func (r Role) IsStaffRole() bool {
	return r == RoleAdmin || r == RoleStaff || r == RoleRefillOperator
}

// PaymentStatus tracks a customer's standing. Customers who fall
// behind get flagged; blocked customers cannot open new leases.
type PaymentStatus string

const (
	PaymentStatusGood    PaymentStatus = "good"
	PaymentStatusOverdue PaymentStatus = "overdue"
	PaymentStatusBlocked PaymentStatus = "blocked"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// User represents a staff member or customer. Staff are attached to
// an outlet; customers lease cylinders and carry a payment standing.
type User struct {
	shared.BaseAggregateRoot
	Email         string        `gorm:"type:varchar(255);not null;uniqueIndex"`
	FirstName     string        `gorm:"type:varchar(100);not null"`
	LastName      string        `gorm:"type:varchar(100);not null"`
	Phone         string        `gorm:"type:varchar(20)"`
	Role          Role          `gorm:"type:varchar(20);not null"`
	OutletID      *uuid.UUID    `gorm:"type:uuid;index"`
	PaymentStatus PaymentStatus `gorm:"type:varchar(10);not null;default:'good'"`
	Active        bool          `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

// NewUser creates an active user
func NewUser(email, firstName, lastName string, role Role) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !emailPattern.MatchString(email) {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Email address is not valid")
	}
	if strings.TrimSpace(firstName) == "" || strings.TrimSpace(lastName) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "First and last name are required")
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Unknown role")
	}

	return &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Email:             email,
		FirstName:         strings.TrimSpace(firstName),
		LastName:          strings.TrimSpace(lastName),
		Role:              role,
		PaymentStatus:     PaymentStatusGood,
		Active:            true,
	}, nil
}

// FullName returns the display name
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// AssignToOutlet attaches a staff member to an outlet
func (u *User) AssignToOutlet(outletID uuid.UUID) error {
	if !u.Role.IsStaffRole() {
		return shared.NewDomainError("INVALID_ROLE", "Only staff can be assigned to an outlet")
	}
	u.OutletID = &outletID
	u.IncrementVersion()
	return nil
}

// CanLease reports whether a customer may open a new lease
func (u *User) CanLease() bool {
	return u.Active && u.Role == RoleCustomer && u.PaymentStatus != PaymentStatusBlocked
}

// FlagOverdue marks the customer as behind on payments
func (u *User) FlagOverdue() {
	if u.PaymentStatus == PaymentStatusBlocked {
		return
	}
	u.PaymentStatus = PaymentStatusOverdue
	u.IncrementVersion()
}

// Block stops the customer from opening new leases
func (u *User) Block() {
	u.PaymentStatus = PaymentStatusBlocked
	u.IncrementVersion()
}

// ClearPaymentFlag restores the customer to good standing
func (u *User) ClearPaymentFlag() {
	u.PaymentStatus = PaymentStatusGood
	u.IncrementVersion()
}

// Deactivate disables the account
func (u *User) Deactivate() {
	u.Active = false
	u.IncrementVersion()
}
