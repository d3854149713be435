package audit

import "github.com/shopspring/decimal"

// Summary is the shared rollup shape at division, estate and grand-total
// level. Totals are always derived from the employee map, never tracked as
// separate counters, so a summary can never disagree with its own detail.
type Summary struct {
	TotalKerani   int `json:"TotalKerani"`
	TotalVerified int `json:"TotalVerified"`
	TotalMandor   int `json:"TotalMandor"`
	TotalAsisten  int `json:"TotalAsisten"`

	Employees map[string]*EmployeeMetrics `json:"Employees"`
}

// VerificationRate is totalVerified/totalKerani as a percentage, 0 when the
// level has no kerani records at all.
func (s *Summary) VerificationRate() decimal.Decimal {
	return ratePercent(s.TotalVerified, s.TotalKerani)
}

// MandorContribution is an employee's mandor record count relative to this
// level's total kerani-created count. Workload share, not accuracy.
func (s *Summary) MandorContribution(employeeID string) decimal.Decimal {
	m, ok := s.Employees[employeeID]
	if !ok {
		return decimal.Zero
	}
	return ratePercent(m.MandorRecords, s.TotalKerani)
}

// AsistenContribution mirrors MandorContribution for the asisten role.
func (s *Summary) AsistenContribution(employeeID string) decimal.Decimal {
	m, ok := s.Employees[employeeID]
	if !ok {
		return decimal.Zero
	}
	return ratePercent(m.AsistenRecords, s.TotalKerani)
}

// recomputeTotals re-derives the level totals from the employee map.
func (s *Summary) recomputeTotals() {
	s.TotalKerani, s.TotalVerified, s.TotalMandor, s.TotalAsisten = 0, 0, 0, 0
	for _, m := range s.Employees {
		s.TotalKerani += m.KeraniCreated
		s.TotalVerified += m.KeraniVerified
		s.TotalMandor += m.MandorRecords
		s.TotalAsisten += m.AsistenRecords
	}
}

// mergeEmployees folds the given employee map into the summary, summing
// counters for employees already present (e.g. one mandor covering two
// divisions of the same estate).
func (s *Summary) mergeEmployees(employees map[string]*EmployeeMetrics) {
	if s.Employees == nil {
		s.Employees = make(map[string]*EmployeeMetrics, len(employees))
	}
	for id, m := range employees {
		existing, ok := s.Employees[id]
		if !ok {
			clone := *m
			s.Employees[id] = &clone
			continue
		}
		existing.Add(m)
	}
	s.recomputeTotals()
}

// DivisionSummary is the result of one division pass.
type DivisionSummary struct {
	DivisionID   string `json:"DivisionId"`
	DivisionName string `json:"DivisionName"`
	RecordCount  int    `json:"RecordCount"`
	Summary
}

// DivisionFailure marks a division whose fetch failed; the division carries
// no summary but the estate run continues.
type DivisionFailure struct {
	DivisionID string `json:"DivisionId"`
	Error      string `json:"Error"`
}

// EstateSummary merges all of one estate's division passes.
type EstateSummary struct {
	Estate string `json:"Estate"`
	Summary
	Divisions       []*DivisionSummary `json:"Divisions"`
	FailedDivisions []DivisionFailure  `json:"FailedDivisions,omitempty"`
}

// EstateFailure marks an estate that produced no summary at all.
type EstateFailure struct {
	Estate string `json:"Estate"`
	Error  string `json:"Error"`
}
