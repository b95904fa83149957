package persistence

import (
	"strings"

	"github.com/cylinderx/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// CommonSortFields contains fields common to most entities
var CommonSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// CylinderSortFields contains allowed sort fields for cylinders
var CylinderSortFields = map[string]bool{
	"id":                 true,
	"created_at":         true,
	"updated_at":         true,
	"cylinder_code":      true,
	"type":               true,
	"status":             true,
	"current_gas_volume": true,
	"manufacture_date":   true,
}

// LeaseRecordSortFields contains allowed sort fields for lease records
var LeaseRecordSortFields = map[string]bool{
	"id":                   true,
	"created_at":           true,
	"lease_date":           true,
	"expected_return_date": true,
	"actual_return_date":   true,
	"status":               true,
	"deposit_amount":       true,
	"lease_amount":         true,
}

// RefillRecordSortFields contains allowed sort fields for refill records
var RefillRecordSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"refill_date":  true,
	"batch_number": true,
	"refill_cost":  true,
}

// TransferRecordSortFields contains allowed sort fields for transfer records
var TransferRecordSortFields = map[string]bool{
	"id":            true,
	"created_at":    true,
	"transfer_date": true,
	"reason":        true,
}

// SettingSortFields contains allowed sort fields for business settings
var SettingSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"updated_at":  true,
	"setting_key": true,
	"category_id": true,
}

// OutletSortFields contains allowed sort fields for outlets
var OutletSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"name":       true,
	"status":     true,
}

// UserSortFields contains allowed sort fields for users
var UserSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"email":      true,
	"last_name":  true,
	"role":       true,
}

// applyRecordFilter applies pagination and validated ordering to a query.
// dateColumn is the natural ordering column for the record type; records
// come back newest first unless the filter asks otherwise.
func applyRecordFilter(query *gorm.DB, filter shared.Filter, allowedFields map[string]bool, dateColumn string) *gorm.DB {
	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		field := ValidateSortField(filter.OrderBy, allowedFields, dateColumn)
		query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
	} else {
		query = query.Order(dateColumn + " DESC")
	}

	return query
}
