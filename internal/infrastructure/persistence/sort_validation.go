package persistence

import (
	"strings"

	"github.com/haccp/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	if strings.ToUpper(strings.TrimSpace(orderDir)) == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed != "" && allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

func sortFields(fields ...string) map[string]bool {
	out := map[string]bool{"created_at": true, "updated_at": true}
	for _, f := range fields {
		out[f] = true
	}
	return out
}

// Allowed sort fields per table
var (
	SupplierSortFields = sortFields("code", "name", "status")
	MaterialSortFields = sortFields("code", "name", "category")
	ProductSortFields  = sortFields("code", "name")
	LotSortFields      = sortFields("lot_number", "received_date", "expiry_date", "quantity_current", "unit_price", "status")
	OrderSortFields    = sortFields("order_number", "planned_start_date", "planned_end_date", "status", "priority")
	CCPSortFields      = sortFields("code", "name", "ccp_type")
	CCPLogSortFields   = sortFields("measured_at", "status")
)

// paginate applies whitelisted ordering and page bounds from a domain filter
func paginate(query *gorm.DB, filter shared.Filter, allowed map[string]bool, defaultField string) *gorm.DB {
	field := ValidateSortField(filter.OrderBy, allowed, defaultField)
	query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
	if field != "id" {
		query = query.Order("id ASC")
	}
	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset((filter.Page - 1) * filter.PageSize).Limit(filter.PageSize)
	}
	return query
}

// likePattern builds a case-insensitive contains pattern
func likePattern(search string) string {
	return "%" + strings.ToLower(strings.TrimSpace(search)) + "%"
}
