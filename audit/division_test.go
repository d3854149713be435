package audit

import "testing"

func TestDivisionReconcile_TotalsDerivedFromEmployees(t *testing.T) {
	records := divisionBatch()
	for i := range records[:3] {
		records[i].CreatorUserID = "emp-a"
	}

	d := DivisionReconciler{Table: DefaultRoleTable()}
	summary := d.Reconcile("DIV01", "Division 1", records)

	var created, verified, mandor, asisten int
	for _, m := range summary.Employees {
		created += m.KeraniCreated
		verified += m.KeraniVerified
		mandor += m.MandorRecords
		asisten += m.AsistenRecords
	}
	if summary.TotalKerani != created {
		t.Fatalf("TotalKerani %d != sum of employee KeraniCreated %d", summary.TotalKerani, created)
	}
	if summary.TotalVerified != verified || summary.TotalMandor != mandor || summary.TotalAsisten != asisten {
		t.Fatalf("summary totals diverge from employee sums: %+v", summary.Summary)
	}
	if summary.TotalVerified > summary.TotalKerani {
		t.Fatal("verified must never exceed created at division level")
	}
	if summary.RecordCount != len(records) {
		t.Fatalf("RecordCount = %d, want %d", summary.RecordCount, len(records))
	}
}

func TestDivisionReconcile_EmptyBatch(t *testing.T) {
	d := DivisionReconciler{Table: DefaultRoleTable()}
	summary := d.Reconcile("DIV01", "Division 1", nil)

	if summary.TotalKerani != 0 || summary.TotalVerified != 0 {
		t.Fatalf("empty batch must report zero totals, got %+v", summary.Summary)
	}
	if len(summary.Employees) != 0 {
		t.Fatalf("empty batch produced employees: %v", summary.Employees)
	}
}
