package settings

import (
	"time"

	"github.com/cylinderx/backend/internal/domain/settings"
	"github.com/google/uuid"
)

// CreateSettingCommand creates a new business setting
type CreateSettingCommand struct {
	CategoryID    int                     `json:"category_id"`
	Key           string                  `json:"key"`
	Value         interface{}             `json:"value"`
	DataType      settings.DataType       `json:"data_type"`
	OutletID      *uuid.UUID              `json:"outlet_id,omitempty"`
	CylinderType  *string                 `json:"cylinder_type,omitempty"`
	OperationType *settings.OperationType `json:"operation_type,omitempty"`
	CreatedBy     uuid.UUID               `json:"created_by"`
}

// UpdateSettingCommand replaces a setting's value
type UpdateSettingCommand struct {
	SettingID uuid.UUID   `json:"setting_id"`
	Value     interface{} `json:"value"`
	UpdatedBy uuid.UUID   `json:"updated_by"`
}

// SettingResponse is the read model for a business setting
type SettingResponse struct {
	ID            uuid.UUID  `json:"id"`
	CategoryID    int        `json:"category_id"`
	Key           string     `json:"key"`
	Value         string     `json:"value"`
	DataType      string     `json:"data_type"`
	OutletID      *uuid.UUID `json:"outlet_id,omitempty"`
	CylinderType  *string    `json:"cylinder_type,omitempty"`
	OperationType *string    `json:"operation_type,omitempty"`
	IsActive      bool       `json:"is_active"`
	UpdatedBy     uuid.UUID  `json:"updated_by"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// ToSettingResponse maps a setting to its read model
func ToSettingResponse(s *settings.BusinessSetting) SettingResponse {
	return SettingResponse{
		ID:            s.ID,
		CategoryID:    s.CategoryID,
		Key:           s.SettingKey,
		Value:         s.SettingValue,
		DataType:      string(s.DataType),
		OutletID:      s.OutletID,
		CylinderType:  s.CylinderType,
		OperationType: s.OperationType,
		IsActive:      s.IsActive,
		UpdatedBy:     s.UpdatedBy,
		UpdatedAt:     s.UpdatedAt,
	}
}
