package ledger

import (
	"fmt"
	"time"

	"github.com/cylinderx/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LeaseStatus is the lifecycle status of a lease record
type LeaseStatus string

const (
	LeaseStatusActive   LeaseStatus = "active"
	LeaseStatusReturned LeaseStatus = "returned"
	LeaseStatusOverdue  LeaseStatus = "overdue"
)

// IsValid returns true if the lease status is known
func (s LeaseStatus) IsValid() bool {
	switch s {
	case LeaseStatusActive, LeaseStatusReturned, LeaseStatusOverdue:
		return true
	}
	return false
}

// IsOpen returns true if the lease has not been returned yet
func (s LeaseStatus) IsOpen() bool {
	return s == LeaseStatusActive || s == LeaseStatusOverdue
}

// String returns the string representation
func (s LeaseStatus) String() string {
	return string(s)
}

// ReturnCondition describes the physical condition of a cylinder at
// lease return. The condition selects the return penalty setting.
type ReturnCondition string

const (
	ConditionGood    ReturnCondition = "good"
	ConditionPoor    ReturnCondition = "poor"
	ConditionDamaged ReturnCondition = "damaged"
)

// IsValid returns true if the condition is known
func (c ReturnCondition) IsValid() bool {
	switch c {
	case ConditionGood, ConditionPoor, ConditionDamaged:
		return true
	}
	return false
}

// PenaltyKey returns the settings key holding the penalty for this condition
func (c ReturnCondition) PenaltyKey() string {
	return "return.penalty." + string(c)
}

// LeaseRecord is the ledger record of a cylinder lease. At most one
// open record exists per cylinder; a cylinder is leased iff such a
// record exists. Deposit, fee and refund amounts are fixed at the time
// they are computed and never recomputed.
type LeaseRecord struct {
	shared.BaseEntity
	CylinderID         uuid.UUID        `gorm:"type:uuid;not null;index:idx_lease_cylinder"`
	CustomerID         uuid.UUID        `gorm:"type:uuid;not null;index:idx_lease_customer"`
	OutletID           uuid.UUID        `gorm:"type:uuid;not null;index"`
	StaffID            uuid.UUID        `gorm:"type:uuid;not null"`
	LeaseDate          time.Time        `gorm:"type:timestamptz;not null"`
	ExpectedReturnDate time.Time        `gorm:"type:timestamptz;not null"`
	ActualReturnDate   *time.Time       `gorm:"type:timestamptz"`
	ReturnStaffID      *uuid.UUID       `gorm:"type:uuid"`
	Status             LeaseStatus      `gorm:"type:varchar(20);not null;index"`
	DepositAmount      decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	LeaseAmount        decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	RefundAmount       *decimal.Decimal `gorm:"type:decimal(12,2)"`
	Notes              string           `gorm:"type:varchar(255)"`
}

// TableName returns the table name for GORM
func (LeaseRecord) TableName() string {
	return "lease_records"
}

// NewLeaseRecord creates a new active lease record
func NewLeaseRecord(cylinderID, customerID, outletID, staffID uuid.UUID, expectedReturnDate time.Time, deposit, fee decimal.Decimal) (*LeaseRecord, error) {
	if cylinderID == uuid.Nil || customerID == uuid.Nil || outletID == uuid.Nil || staffID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Lease record requires cylinder, customer, outlet and staff")
	}
	now := time.Now()
	if !expectedReturnDate.After(now) {
		return nil, shared.NewDomainError("INVALID_RETURN_DATE", "Expected return date must be in the future")
	}
	if deposit.IsNegative() || fee.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Deposit and lease amounts cannot be negative")
	}

	return &LeaseRecord{
		BaseEntity:         shared.NewBaseEntity(),
		CylinderID:         cylinderID,
		CustomerID:         customerID,
		OutletID:           outletID,
		StaffID:            staffID,
		LeaseDate:          now,
		ExpectedReturnDate: expectedReturnDate,
		Status:             LeaseStatusActive,
		DepositAmount:      deposit,
		LeaseAmount:        fee,
	}, nil
}

// CompleteReturn closes the lease with the computed refund. A lease can
// be returned exactly once; overdue leases can still be returned.
func (r *LeaseRecord) CompleteReturn(returnStaffID uuid.UUID, refund decimal.Decimal, at time.Time) error {
	if !r.Status.IsOpen() {
		return shared.NewDomainError(shared.CodeAlreadyReturned,
			fmt.Sprintf("Lease %s is %s, not open", r.ID, r.Status))
	}
	if returnStaffID == uuid.Nil {
		return shared.NewDomainError("INVALID_REFERENCE", "Return staff ID cannot be empty")
	}
	if refund.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Refund amount cannot be negative")
	}
	r.Status = LeaseStatusReturned
	r.ActualReturnDate = &at
	r.ReturnStaffID = &returnStaffID
	r.RefundAmount = &refund
	r.UpdatedAt = time.Now()
	return nil
}

// MarkOverdue flips an active lease past its expected return date to
// overdue. Returns false without error when nothing changed.
func (r *LeaseRecord) MarkOverdue(asOf time.Time) bool {
	if r.Status != LeaseStatusActive || !asOf.After(r.ExpectedReturnDate) {
		return false
	}
	r.Status = LeaseStatusOverdue
	r.UpdatedAt = time.Now()
	return true
}

// IsOverdue reports whether the lease is open past its expected return date
func (r *LeaseRecord) IsOverdue(asOf time.Time) bool {
	return r.Status.IsOpen() && asOf.After(r.ExpectedReturnDate)
}

// DaysLate returns the whole days elapsed past the expected return
// date, zero when not late.
func (r *LeaseRecord) DaysLate(asOf time.Time) int {
	if !asOf.After(r.ExpectedReturnDate) {
		return 0
	}
	return int(asOf.Sub(r.ExpectedReturnDate).Hours() / 24)
}
