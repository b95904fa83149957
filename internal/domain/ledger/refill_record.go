package ledger

import (
	"fmt"
	"time"

	"github.com/cylinderx/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RefillRecord is the immutable ledger record of a refill. Once
// created it is never updated or deleted; corrections are new records.
type RefillRecord struct {
	shared.BaseEntity
	CylinderID       uuid.UUID       `gorm:"type:uuid;not null;index:idx_refill_cylinder"`
	OperatorID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	OutletID         uuid.UUID       `gorm:"type:uuid;not null;index"`
	RefillDate       time.Time       `gorm:"type:timestamptz;not null"`
	PreRefillVolume  decimal.Decimal `gorm:"type:decimal(10,3);not null"`
	PostRefillVolume decimal.Decimal `gorm:"type:decimal(10,3);not null"`
	RefillCost       decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	BatchNumber      string          `gorm:"type:varchar(50);not null;index"`
	Notes            string          `gorm:"type:varchar(255)"`
}

// TableName returns the table name for GORM
func (RefillRecord) TableName() string {
	return "refill_records"
}

// NewRefillRecord creates a new refill record. Post volume must be at
// least the pre volume; the caller guarantees post never exceeds the
// cylinder's rated maximum.
func NewRefillRecord(cylinderID, operatorID, outletID uuid.UUID, pre, post, cost decimal.Decimal, batchNumber string) (*RefillRecord, error) {
	if cylinderID == uuid.Nil || operatorID == uuid.Nil || outletID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "Refill record requires cylinder, operator and outlet")
	}
	if pre.IsNegative() {
		return nil, shared.NewDomainError("INVALID_VOLUME", "Pre-refill volume cannot be negative")
	}
	if post.LessThan(pre) {
		return nil, shared.NewDomainError("INVALID_VOLUME",
			fmt.Sprintf("Post-refill volume %s below pre-refill volume %s", post, pre))
	}
	if cost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Refill cost cannot be negative")
	}
	if batchNumber == "" {
		batchNumber = GenerateBatchNumber(time.Now())
	}

	return &RefillRecord{
		BaseEntity:       shared.NewBaseEntity(),
		CylinderID:       cylinderID,
		OperatorID:       operatorID,
		OutletID:         outletID,
		RefillDate:       time.Now(),
		PreRefillVolume:  pre,
		PostRefillVolume: post,
		RefillCost:       cost,
		BatchNumber:      batchNumber,
	}, nil
}

// VolumeAdded returns the refilled volume delta in kg
func (r *RefillRecord) VolumeAdded() decimal.Decimal {
	return r.PostRefillVolume.Sub(r.PreRefillVolume)
}

// GenerateBatchNumber builds a batch identifier of the form
// BATCH-YYYYMM-NNN where NNN derives from the time within the month.
func GenerateBatchNumber(at time.Time) string {
	return fmt.Sprintf("BATCH-%04d%02d-%03d", at.Year(), at.Month(), at.Day()*10+at.Hour()/3)
}
