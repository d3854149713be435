package audit

import (
	"strings"

	"github.com/shopspring/decimal"
)

// coerceQuantity parses a raw scanner value. Blank or unparsable values
// coerce to 0 — lossy but deterministic, and it matches how the reports have
// always treated dirty scanner exports.
func coerceQuantity(raw string) decimal.Decimal {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// HasDiscrepancy reports whether at least one of the given fields differs
// between the two records. Comparison is exact equality after coercion, no
// tolerance. Symmetric in a/b and independent of field order.
func HasDiscrepancy(a, b Record, fields []QuantityField) bool {
	for _, f := range fields {
		if !coerceQuantity(a.Quantity(f)).Equal(coerceQuantity(b.Quantity(f))) {
			return true
		}
	}
	return false
}
