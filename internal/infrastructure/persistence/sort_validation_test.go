package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty string returns DESC", "", "DESC"},
		{"asc lowercase returns ASC", "asc", "ASC"},
		{"whitespace around ASC returns ASC", "  asc  ", "ASC"},
		{"invalid value returns DESC", "INVALID", "DESC"},
		{"sql injection attempt returns DESC", "ASC; DROP TABLE material_lots;--", "DESC"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ValidateSortOrder(tt.input))
		})
	}
}

func TestValidateSortField(t *testing.T) {
	assert.Equal(t, "expiry_date", ValidateSortField("expiry_date", LotSortFields, "received_date"))
	assert.Equal(t, "received_date", ValidateSortField("", LotSortFields, "received_date"))
	assert.Equal(t, "received_date", ValidateSortField("unit_price; DELETE", LotSortFields, "received_date"))
	assert.Equal(t, "created_at", ValidateSortField(" created_at ", OrderSortFields, "planned_start_date"))
	assert.Equal(t, "code", ValidateSortField("quantity_current", CCPSortFields, "code"))
}
