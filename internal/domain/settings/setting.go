package settings

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/cylinderx/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DataType is the declared type of a setting value. Values are typed
// at write time and must be decoded per data type on read.
type DataType string

const (
	DataTypeNumber  DataType = "number"
	DataTypeString  DataType = "string"
	DataTypeBoolean DataType = "boolean"
	DataTypeJSON    DataType = "json"
)

// IsValid returns true if the data type is known
func (d DataType) IsValid() bool {
	switch d {
	case DataTypeNumber, DataTypeString, DataTypeBoolean, DataTypeJSON:
		return true
	}
	return false
}

// OperationType scopes a setting to one ledger operation
type OperationType string

const (
	OperationLease    OperationType = "LEASE"
	OperationRefill   OperationType = "REFILL"
	OperationTransfer OperationType = "TRANSFER"
	OperationSwap     OperationType = "SWAP"
)

// IsValid returns true if the operation type is known
func (o OperationType) IsValid() bool {
	switch o {
	case OperationLease, OperationRefill, OperationTransfer, OperationSwap:
		return true
	}
	return false
}

// Well-known setting keys
const (
	KeyLeaseFeePerKG     = "lease.fee_per_kg"
	KeyLeaseDepositPerKG = "lease.deposit_per_kg"
	KeyRefillPricePerKG  = "refill.price_per_kg"
	KeyRefillMinCharge   = "refill.minimum_charge"
	KeyTaxRate           = "tax.rate"
	KeyTaxType           = "tax.type"
	KeyLateFeeDaily      = "late.fee.daily"
	KeyMaxActiveLeases   = "business.max_active_leases_per_customer"
	KeyLowStockThreshold = "business.inventory_low_threshold"
)

// BusinessSetting is one pricing/policy value, optionally scoped by
// outlet, cylinder type and operation type. The admin surface owns all
// writes; the ledger engine only reads through the Resolver.
type BusinessSetting struct {
	shared.BaseEntity
	CategoryID    int        `gorm:"not null;index"`
	SettingKey    string     `gorm:"type:varchar(100);not null;index:idx_setting_key"`
	SettingValue  string     `gorm:"type:text;not null"`
	DataType      DataType   `gorm:"type:varchar(10);not null"`
	OutletID      *uuid.UUID `gorm:"type:uuid;index"`
	CylinderType  *string    `gorm:"type:varchar(10)"`
	OperationType *string    `gorm:"type:varchar(20)"`
	IsActive      bool       `gorm:"not null;default:true;index:idx_setting_key"`
	CreatedBy     uuid.UUID  `gorm:"type:uuid"`
	UpdatedBy     uuid.UUID  `gorm:"type:uuid"`
}

// TableName returns the table name for GORM
func (BusinessSetting) TableName() string {
	return "business_settings"
}

// NewBusinessSetting creates a new setting with a JSON-encoded value
func NewBusinessSetting(categoryID int, key string, value interface{}, dataType DataType, createdBy uuid.UUID) (*BusinessSetting, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, shared.NewDomainError("INVALID_KEY", "Setting key cannot be empty")
	}
	if !dataType.IsValid() {
		return nil, shared.NewDomainError("INVALID_DATA_TYPE", fmt.Sprintf("Unknown data type %q", dataType))
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_VALUE", "Setting value is not JSON-encodable")
	}

	return &BusinessSetting{
		BaseEntity:   shared.NewBaseEntity(),
		CategoryID:   categoryID,
		SettingKey:   key,
		SettingValue: string(raw),
		DataType:     dataType,
		IsActive:     true,
		CreatedBy:    createdBy,
		UpdatedBy:    createdBy,
	}, nil
}

// ScopeToOutlet scopes the setting to one outlet
func (s *BusinessSetting) ScopeToOutlet(outletID uuid.UUID) *BusinessSetting {
	s.OutletID = &outletID
	return s
}

// ScopeToCylinderType scopes the setting to one cylinder type
func (s *BusinessSetting) ScopeToCylinderType(cylinderType string) *BusinessSetting {
	s.CylinderType = &cylinderType
	return s
}

// ScopeToOperation scopes the setting to one operation type
func (s *BusinessSetting) ScopeToOperation(op OperationType) *BusinessSetting {
	v := string(op)
	s.OperationType = &v
	return s
}

// UpdateValue replaces the setting value, recording the actor.
// Concurrent edits resolve last-write-wins.
func (s *BusinessSetting) UpdateValue(value interface{}, updatedBy uuid.UUID) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return shared.NewDomainError("INVALID_VALUE", "Setting value is not JSON-encodable")
	}
	s.SettingValue = string(raw)
	s.UpdatedBy = updatedBy
	s.UpdatedAt = time.Now()
	return nil
}

// Deactivate removes the setting from resolution without deleting it
func (s *BusinessSetting) Deactivate(updatedBy uuid.UUID) {
	s.IsActive = false
	s.UpdatedBy = updatedBy
	s.UpdatedAt = time.Now()
}

// Specificity scores the setting's scope for resolution ordering:
// outlet+type (3) > outlet (2) > type (1) > global (0).
func (s *BusinessSetting) Specificity() int {
	score := 0
	if s.OutletID != nil {
		score += 2
	}
	if s.CylinderType != nil {
		score++
	}
	return score
}

// MatchesScope reports whether this setting applies to the query
// scope. A nil scope field on the setting matches anything.
func (s *BusinessSetting) MatchesScope(outletID *uuid.UUID, cylinderType *string, operationType *OperationType) bool {
	if s.OutletID != nil && (outletID == nil || *s.OutletID != *outletID) {
		return false
	}
	if s.CylinderType != nil && (cylinderType == nil || *s.CylinderType != *cylinderType) {
		return false
	}
	if s.OperationType != nil && (operationType == nil || *s.OperationType != string(*operationType)) {
		return false
	}
	return true
}

// DecimalValue decodes the value as a decimal number
func (s *BusinessSetting) DecimalValue() (decimal.Decimal, error) {
	if s.DataType != DataTypeNumber {
		return decimal.Zero, typeMismatch(s, DataTypeNumber)
	}
	var num json.Number
	dec := json.NewDecoder(strings.NewReader(s.SettingValue))
	dec.UseNumber()
	if err := dec.Decode(&num); err != nil {
		return decimal.Zero, typeMismatch(s, DataTypeNumber)
	}
	d, err := decimal.NewFromString(num.String())
	if err != nil {
		return decimal.Zero, typeMismatch(s, DataTypeNumber)
	}
	return d, nil
}

// StringValue decodes the value as a string
func (s *BusinessSetting) StringValue() (string, error) {
	if s.DataType != DataTypeString {
		return "", typeMismatch(s, DataTypeString)
	}
	var v string
	if err := json.Unmarshal([]byte(s.SettingValue), &v); err != nil {
		return "", typeMismatch(s, DataTypeString)
	}
	return v, nil
}

// BoolValue decodes the value as a boolean
func (s *BusinessSetting) BoolValue() (bool, error) {
	if s.DataType != DataTypeBoolean {
		return false, typeMismatch(s, DataTypeBoolean)
	}
	var v bool
	if err := json.Unmarshal([]byte(s.SettingValue), &v); err != nil {
		return false, typeMismatch(s, DataTypeBoolean)
	}
	return v, nil
}

// JSONValue decodes the value into target
func (s *BusinessSetting) JSONValue(target interface{}) error {
	if s.DataType != DataTypeJSON {
		return typeMismatch(s, DataTypeJSON)
	}
	if err := json.Unmarshal([]byte(s.SettingValue), target); err != nil {
		return typeMismatch(s, DataTypeJSON)
	}
	return nil
}

func typeMismatch(s *BusinessSetting, want DataType) error {
	return shared.NewDomainError(shared.CodeTypeMismatch,
		fmt.Sprintf("Setting %q holds %s, requested %s", s.SettingKey, s.DataType, want))
}
