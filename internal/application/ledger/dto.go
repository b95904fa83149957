package ledger

import (
	"time"

	"github.com/cylinderx/backend/internal/domain/cylinder"
	"github.com/cylinderx/backend/internal/domain/ledger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LeaseOutCommand opens a lease for a customer at an outlet
type LeaseOutCommand struct {
	CylinderID         uuid.UUID `json:"cylinder_id"`
	CustomerID         uuid.UUID `json:"customer_id"`
	OutletID           uuid.UUID `json:"outlet_id"`
	StaffID            uuid.UUID `json:"staff_id"`
	ExpectedReturnDate time.Time `json:"expected_return_date"`
	Notes              string    `json:"notes"`
}

// ReturnCommand closes the open lease on a cylinder
type ReturnCommand struct {
	CylinderID      uuid.UUID              `json:"cylinder_id"`
	ReturnStaffID   uuid.UUID              `json:"return_staff_id"`
	Condition       ledger.ReturnCondition `json:"condition"`
	RemainingVolume decimal.Decimal        `json:"remaining_volume"`
	Notes           string                 `json:"notes"`
}

// RefillCommand records a completed refill on a cylinder
type RefillCommand struct {
	CylinderID  uuid.UUID `json:"cylinder_id"`
	OperatorID  uuid.UUID `json:"operator_id"`
	BatchNumber string    `json:"batch_number"`
}

// RequestRefillCommand moves an available cylinder into the refilling state
type RequestRefillCommand struct {
	CylinderID uuid.UUID `json:"cylinder_id"`
	OperatorID uuid.UUID `json:"operator_id"`
}

// TransferCommand moves a cylinder between outlets
type TransferCommand struct {
	CylinderID uuid.UUID `json:"cylinder_id"`
	ToOutletID uuid.UUID `json:"to_outlet_id"`
	StaffID    uuid.UUID `json:"staff_id"`
	Reason     string    `json:"reason"`
}

// RetireCommand permanently retires a damaged cylinder
type RetireCommand struct {
	CylinderID uuid.UUID `json:"cylinder_id"`
	StaffID    uuid.UUID `json:"staff_id"`
	Reason     string    `json:"reason"`
}

// CylinderResponse is the read model for a cylinder
type CylinderResponse struct {
	ID                 uuid.UUID       `json:"id"`
	CylinderCode       string          `json:"cylinder_code"`
	QRCode             string          `json:"qr_code"`
	Type               string          `json:"type"`
	Status             string          `json:"status"`
	CurrentOutletID    uuid.UUID       `json:"current_outlet_id"`
	CurrentGasVolume   decimal.Decimal `json:"current_gas_volume"`
	MaxGasVolume       decimal.Decimal `json:"max_gas_volume"`
	FillRatio          decimal.Decimal `json:"fill_ratio"`
	ManufactureDate    time.Time       `json:"manufacture_date"`
	LastInspectionDate *time.Time      `json:"last_inspection_date,omitempty"`
	Version            int             `json:"version"`
	UpdatedAt          time.Time       `json:"updated_at"`
}

// ToCylinderResponse maps a cylinder aggregate to its read model
func ToCylinderResponse(c *cylinder.Cylinder) CylinderResponse {
	return CylinderResponse{
		ID:                 c.ID,
		CylinderCode:       c.CylinderCode,
		QRCode:             c.QRCode,
		Type:               c.Type.String(),
		Status:             c.Status.String(),
		CurrentOutletID:    c.CurrentOutletID,
		CurrentGasVolume:   c.CurrentGasVolume,
		MaxGasVolume:       c.MaxGasVolume,
		FillRatio:          c.FillRatio(),
		ManufactureDate:    c.ManufactureDate,
		LastInspectionDate: c.LastInspectionDate,
		Version:            c.Version,
		UpdatedAt:          c.UpdatedAt,
	}
}

// LeaseResponse is returned from LeaseOut
type LeaseResponse struct {
	LeaseID            uuid.UUID       `json:"lease_id"`
	CylinderID         uuid.UUID       `json:"cylinder_id"`
	CustomerID         uuid.UUID       `json:"customer_id"`
	OutletID           uuid.UUID       `json:"outlet_id"`
	LeaseDate          time.Time       `json:"lease_date"`
	ExpectedReturnDate time.Time       `json:"expected_return_date"`
	DepositAmount      decimal.Decimal `json:"deposit_amount"`
	LeaseAmount        decimal.Decimal `json:"lease_amount"`
	TotalDue           decimal.Decimal `json:"total_due"`
}

// ToLeaseResponse maps a lease record to its response
func ToLeaseResponse(r *ledger.LeaseRecord) LeaseResponse {
	return LeaseResponse{
		LeaseID:            r.ID,
		CylinderID:         r.CylinderID,
		CustomerID:         r.CustomerID,
		OutletID:           r.OutletID,
		LeaseDate:          r.LeaseDate,
		ExpectedReturnDate: r.ExpectedReturnDate,
		DepositAmount:      r.DepositAmount,
		LeaseAmount:        r.LeaseAmount,
		TotalDue:           r.DepositAmount.Add(r.LeaseAmount),
	}
}

// ReturnResponse is returned from Return with the refund breakdown
type ReturnResponse struct {
	LeaseID       uuid.UUID       `json:"lease_id"`
	CylinderID    uuid.UUID       `json:"cylinder_id"`
	Condition     string          `json:"condition"`
	DepositAmount decimal.Decimal `json:"deposit_amount"`
	PenaltyAmount decimal.Decimal `json:"penalty_amount"`
	LateFeeAmount decimal.Decimal `json:"late_fee_amount"`
	DaysLate      int             `json:"days_late"`
	RefundAmount  decimal.Decimal `json:"refund_amount"`
	ReturnedAt    time.Time       `json:"returned_at"`
}

// RefillResponse is returned from Refill
type RefillResponse struct {
	RefillID    uuid.UUID       `json:"refill_id"`
	CylinderID  uuid.UUID       `json:"cylinder_id"`
	BatchNumber string          `json:"batch_number"`
	VolumeAdded decimal.Decimal `json:"volume_added"`
	RefillCost  decimal.Decimal `json:"refill_cost"`
	RefillDate  time.Time       `json:"refill_date"`
}

// TransferResponse is returned from Transfer
type TransferResponse struct {
	TransferID   uuid.UUID `json:"transfer_id"`
	CylinderID   uuid.UUID `json:"cylinder_id"`
	FromOutletID uuid.UUID `json:"from_outlet_id"`
	ToOutletID   uuid.UUID `json:"to_outlet_id"`
	TransferDate time.Time `json:"transfer_date"`
}

// HistoryEntry is one row of a cylinder's combined transaction history
type HistoryEntry struct {
	RecordID   uuid.UUID        `json:"record_id"`
	Kind       string           `json:"kind"` // lease, refill, transfer
	OccurredAt time.Time        `json:"occurred_at"`
	OutletID   uuid.UUID        `json:"outlet_id"`
	ActorID    uuid.UUID        `json:"actor_id"`
	Amount     *decimal.Decimal `json:"amount,omitempty"`
	Detail     string           `json:"detail,omitempty"`
}
