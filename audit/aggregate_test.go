package audit

import (
	"testing"

	"github.com/shopspring/decimal"
)

func divisionBatch() []Record {
	return []Record{
		// emp-a: three loads, two re-scanned, one with a count mismatch.
		scanRecord("1", "TX1", "PM", "704", "10"),
		scanRecord("2", "TX2", "PM", "704", "8"),
		scanRecord("3", "TX3", "PM", "704", "5"),
		{ID: "4", TransactionNumber: "TX1", RoleTag: "P1", Status: "704", CreatorUserID: "emp-m", Quantities: map[QuantityField]string{FieldRipe: "12"}},
		{ID: "5", TransactionNumber: "TX2", RoleTag: "P1", Status: "704", CreatorUserID: "emp-m", Quantities: map[QuantityField]string{FieldRipe: "8"}},
		{ID: "6", TransactionNumber: "TX9", RoleTag: "P5", Status: "704", CreatorUserID: "emp-s", Quantities: map[QuantityField]string{FieldRipe: "1"}},
	}
}

func aggregateBatch(t *testing.T, records []Record, resolve NameResolver) map[string]*EmployeeMetrics {
	t.Helper()
	for i := range records[:3] {
		records[i].CreatorUserID = "emp-a"
	}
	matches := Resolve(records, DefaultRoleTable(), ResolveOptions{})
	outcomes := EvaluateOutcomes(matches, DefaultCompareFields())
	return AggregateEmployees(outcomes, records, DefaultRoleTable(), resolve)
}

func TestAggregateEmployees_Counters(t *testing.T) {
	metrics := aggregateBatch(t, divisionBatch(), nil)

	a := metrics["emp-a"]
	if a == nil {
		t.Fatal("missing kerani employee")
	}
	if a.KeraniCreated != 3 || a.KeraniVerified != 2 || a.KeraniDiscrepancies != 1 {
		t.Fatalf("kerani counters = %d/%d/%d, want 3/2/1",
			a.KeraniCreated, a.KeraniVerified, a.KeraniDiscrepancies)
	}
	if a.KeraniVerified > a.KeraniCreated {
		t.Fatal("verified must never exceed created")
	}

	m := metrics["emp-m"]
	if m == nil || m.MandorRecords != 2 {
		t.Fatalf("mandor record count = %+v, want 2", m)
	}
	s := metrics["emp-s"]
	if s == nil || s.AsistenRecords != 1 {
		t.Fatalf("asisten record count = %+v, want 1", s)
	}
}

func TestAggregateEmployees_FallbackName(t *testing.T) {
	known := func(userID string) (string, bool) {
		if userID == "emp-a" {
			return "KO AUNG", true
		}
		return "", false
	}
	metrics := aggregateBatch(t, divisionBatch(), known)

	if metrics["emp-a"].Name != "KO AUNG" {
		t.Fatalf("resolved name = %q", metrics["emp-a"].Name)
	}
	if metrics["emp-m"].Name != "EMP-emp-m" {
		t.Fatalf("fallback name = %q, want EMP-emp-m", metrics["emp-m"].Name)
	}
}

func TestVerificationRate_ZeroWhenNothingCreated(t *testing.T) {
	m := &EmployeeMetrics{EmployeeID: "emp-m", MandorRecords: 7}
	if !m.VerificationRate().Equal(decimal.Zero) {
		t.Fatalf("rate = %s, want 0", m.VerificationRate())
	}
}

func TestVerificationRate_Percent(t *testing.T) {
	m := &EmployeeMetrics{KeraniCreated: 4, KeraniVerified: 3}
	if !m.VerificationRate().Equal(decimal.NewFromInt(75)) {
		t.Fatalf("rate = %s, want 75", m.VerificationRate())
	}
}

func TestContribution_WorkloadShare(t *testing.T) {
	metrics := aggregateBatch(t, divisionBatch(), nil)
	s := &Summary{Employees: metrics}
	s.recomputeTotals()

	// emp-m made 2 mandor re-scans against 3 kerani loads in the division.
	want := decimal.NewFromInt(2).Div(decimal.NewFromInt(3)).Mul(decimal.NewFromInt(100))
	if !s.MandorContribution("emp-m").Equal(want) {
		t.Fatalf("mandor contribution = %s, want %s", s.MandorContribution("emp-m"), want)
	}
	if !s.AsistenContribution("missing").Equal(decimal.Zero) {
		t.Fatal("unknown employee contribution must be 0")
	}
}
