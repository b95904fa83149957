package ledger

import (
	"time"

	"github.com/cylinderx/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// TransferRecord is the immutable ledger record of an inter-outlet
// cylinder relocation. The cylinder's current outlet always equals the
// destination of its most recent transfer record.
type TransferRecord struct {
	shared.BaseEntity
	CylinderID      uuid.UUID `gorm:"type:uuid;not null;index:idx_transfer_cylinder"`
	FromOutletID    uuid.UUID `gorm:"type:uuid;not null;index"`
	ToOutletID      uuid.UUID `gorm:"type:uuid;not null;index"`
	TransferredByID uuid.UUID `gorm:"type:uuid;not null"`
	TransferDate    time.Time `gorm:"type:timestamptz;not null"`
	Reason          string    `gorm:"type:varchar(100);not null"`
	Notes           string    `gorm:"type:varchar(255)"`
}

// TableName returns the table name for GORM
func (TransferRecord) TableName() string {
	return "transfer_records"
}

// NewTransferRecord creates a new transfer record
func NewTransferRecord(cylinderID, fromOutletID, toOutletID, staffID uuid.UUID, reason string) (*TransferRecord, error) {
	if cylinderID == uuid.Nil || fromOutletID == uuid.Nil || toOutletID == uuid.Nil || staffID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Transfer record requires cylinder, outlets and staff")
	}
	if fromOutletID == toOutletID {
		return nil, shared.NewDomainError(shared.CodeInvalidTransfer, "Source and destination outlets must differ")
	}
	if reason == "" {
		return nil, shared.NewDomainError("INVALID_REASON", "Transfer reason is required")
	}

	return &TransferRecord{
		BaseEntity:      shared.NewBaseEntity(),
		CylinderID:      cylinderID,
		FromOutletID:    fromOutletID,
		ToOutletID:      toOutletID,
		TransferredByID: staffID,
		TransferDate:    time.Now(),
		Reason:          reason,
	}, nil
}
