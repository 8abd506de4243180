// Package pricing adjusts catalog prices by per-category thresholds and
// aggregates cart totals. Amounts are decimals end to end; rounding happens
// only when an amount is formatted for display.
package pricing

import (
	"strings"

	"github.com/ikkim/tiffin-backend/internal/app/model"
	"github.com/shopspring/decimal"
)

// Thresholds maps a normalized category ("protein") to the amount taken off
// its catalog price.
type Thresholds map[string]decimal.Decimal

// BuildThresholds reads "<category>_price_threshold" rows. Rows with another
// key shape or a value that is not a number are skipped.
func BuildThresholds(rows []model.PriceThreshold) Thresholds {
	out := make(Thresholds, len(rows))
	for _, row := range rows {
		key := strings.ToLower(strings.TrimSpace(row.Key))
		prefix, ok := strings.CutSuffix(key, model.ThresholdKeySuffix)
		if !ok || prefix == "" {
			continue
		}
		value, err := ParseAmount(row.Value)
		if err != nil {
			continue
		}
		out[prefix] = value
	}
	return out
}

// Lookup returns the threshold for an already normalized category.
func (t Thresholds) Lookup(category string) (decimal.Decimal, bool) {
	value, ok := t[category]
	return value, ok
}

// ParseAmount reads a configured amount such as "2.50".
func ParseAmount(raw string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.TrimSpace(raw))
}
