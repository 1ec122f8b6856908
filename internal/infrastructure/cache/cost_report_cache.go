package cache

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/haccp/backend/internal/domain/costing"
	"github.com/shopspring/decimal"
)

// DefaultKeyPrefix namespaces cost report keys in a shared Redis
const DefaultKeyPrefix = "haccp:cost:"

// reportKey identifies one cached report. The quantity uses its canonical
// decimal form so 100 and 100.000 share an entry.
func reportKey(prefix string, productID uuid.UUID, quantity decimal.Decimal) string {
	return fmt.Sprintf("%s%s:%s", prefix, productID, quantity.String())
}

func encodeReport(report *costing.CostReport) ([]byte, error) {
	data, err := json.Marshal(report)
	if err != nil {
		return nil, fmt.Errorf("failed to encode cost report: %w", err)
	}
	return data, nil
}

func decodeReport(data []byte) (*costing.CostReport, error) {
	var report costing.CostReport
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to decode cost report: %w", err)
	}
	return &report, nil
}
