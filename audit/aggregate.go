package audit

import "github.com/shopspring/decimal"

// EmployeeMetrics accumulates one employee's activity within a single
// reconciliation pass. Counters are mutated only by the aggregator and the
// merge step; everything downstream treats the struct as frozen.
type EmployeeMetrics struct {
	EmployeeID string `json:"EmployeeId"`
	Name       string `json:"Name"`

	KeraniCreated       int `json:"KeraniCreated"`
	KeraniVerified      int `json:"KeraniVerified"`
	KeraniDiscrepancies int `json:"KeraniDiscrepancies"`

	// Verifier activity volume, NOT deduplicated against verification
	// status: a mandor re-scanning the same load twice counts twice.
	MandorRecords  int `json:"MandorRecords"`
	AsistenRecords int `json:"AsistenRecords"`
}

var hundred = decimal.NewFromInt(100)

// VerificationRate is keraniVerified/keraniCreated as a percentage.
// Defined as 0 (never NaN) when the employee created nothing.
func (m *EmployeeMetrics) VerificationRate() decimal.Decimal {
	return ratePercent(m.KeraniVerified, m.KeraniCreated)
}

// Add folds another division's (or estate's) counters for the same employee
// into this one. Count sums are commutative and associative, so merge order
// never changes the result.
func (m *EmployeeMetrics) Add(other *EmployeeMetrics) {
	m.KeraniCreated += other.KeraniCreated
	m.KeraniVerified += other.KeraniVerified
	m.KeraniDiscrepancies += other.KeraniDiscrepancies
	m.MandorRecords += other.MandorRecords
	m.AsistenRecords += other.AsistenRecords
	if m.Name == "" {
		m.Name = other.Name
	}
}

func ratePercent(part, whole int) decimal.Decimal {
	if whole == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(part)).
		Div(decimal.NewFromInt(int64(whole))).
		Mul(hundred)
}

// NameResolver turns an employee id into a display name. A nil resolver (or
// a miss) falls back to a synthetic "EMP-<id>" label: metrics must always be
// attributable to some label even when the employee master is incomplete.
type NameResolver func(userID string) (string, bool)

func resolveName(resolve NameResolver, userID string) string {
	if resolve != nil {
		if name, ok := resolve(userID); ok && name != "" {
			return name
		}
	}
	return "EMP-" + userID
}

// AggregateEmployees folds one division's records and per-transaction
// outcomes into per-employee counters.
func AggregateEmployees(outcomes []Outcome, records []Record, table RoleTable, resolve NameResolver) map[string]*EmployeeMetrics {
	metrics := make(map[string]*EmployeeMetrics)
	get := func(userID string) *EmployeeMetrics {
		m, ok := metrics[userID]
		if !ok {
			m = &EmployeeMetrics{
				EmployeeID: userID,
				Name:       resolveName(resolve, userID),
			}
			metrics[userID] = m
		}
		return m
	}

	for _, o := range outcomes {
		m := get(o.Record.CreatorUserID)
		m.KeraniCreated++
		if o.Verified {
			m.KeraniVerified++
		}
		if o.Discrepancy == DiscrepancyFound {
			m.KeraniDiscrepancies++
		}
	}

	for _, r := range records {
		switch table.Classify(r.RoleTag) {
		case RoleMandor:
			get(r.CreatorUserID).MandorRecords++
		case RoleAsisten:
			get(r.CreatorUserID).AsistenRecords++
		}
	}

	return metrics
}
