package audit

import "testing"

func scanRecord(id, transNo, tag, status, ripe string) Record {
	return Record{
		ID:                id,
		TransactionNumber: transNo,
		RoleTag:           tag,
		Status:            status,
		CreatorUserID:     "emp-" + id,
		Quantities:        map[QuantityField]string{FieldRipe: ripe},
	}
}

func resolveOne(t *testing.T, records []Record, opts ResolveOptions) Outcome {
	t.Helper()
	matches := Resolve(records, DefaultRoleTable(), opts)
	outcomes := EvaluateOutcomes(matches, DefaultCompareFields())
	if len(outcomes) != 1 {
		t.Fatalf("expected 1 kerani outcome, got %d", len(outcomes))
	}
	return outcomes[0]
}

func TestResolve_VerifiedWithDiscrepancy(t *testing.T) {
	// Scenario: clerk scans 10 ripe bunches, mandor re-scan reads 12.
	o := resolveOne(t, []Record{
		scanRecord("1", "TX100", "PM", "704", "10"),
		scanRecord("2", "TX100", "P1", "704", "12"),
	}, ResolveOptions{})

	if !o.Verified {
		t.Fatal("duplicated transaction must be verified")
	}
	if o.Verifier == nil || o.Verifier.ID != "2" {
		t.Fatalf("expected mandor record 2 as verifier, got %+v", o.Verifier)
	}
	if o.Discrepancy != DiscrepancyFound {
		t.Fatalf("discrepancy = %s, want Found", o.Discrepancy)
	}
}

func TestResolve_VerifiedWithoutDiscrepancy(t *testing.T) {
	o := resolveOne(t, []Record{
		scanRecord("1", "TX100", "PM", "704", "10"),
		scanRecord("2", "TX100", "P1", "704", "10"),
	}, ResolveOptions{})

	if !o.Verified {
		t.Fatal("duplicated transaction must be verified")
	}
	if o.Discrepancy != DiscrepancyNone {
		t.Fatalf("discrepancy = %s, want None", o.Discrepancy)
	}
}

func TestResolve_UniqueTransactionNeverVerified(t *testing.T) {
	o := resolveOne(t, []Record{
		scanRecord("1", "TX100", "PM", "704", "10"),
	}, ResolveOptions{})

	if o.Verified {
		t.Fatal("singleton group can never be verified")
	}
	if o.Discrepancy != DiscrepancyNotEvaluated {
		t.Fatalf("unverified record must stay NotEvaluated, got %s", o.Discrepancy)
	}
}

func TestResolve_StatusFilterSuppressesComparisonOnly(t *testing.T) {
	// Asisten re-scan exists but carries the wrong status for the period.
	o := resolveOne(t, []Record{
		scanRecord("1", "TX100", "PM", "704", "10"),
		scanRecord("2", "TX100", "P5", "700", "12"),
	}, ResolveOptions{ApplyVerifierStatusFilter: true, VerifierStatus: "704"})

	if !o.Verified {
		t.Fatal("status filter must not affect the verified decision")
	}
	if o.Verifier != nil {
		t.Fatalf("filtered-out candidate must not be picked, got %+v", o.Verifier)
	}
	if !o.FilterSuppressed {
		t.Fatal("FilterSuppressed flag not set")
	}
	if o.Discrepancy != DiscrepancyNotEvaluated {
		t.Fatalf("discrepancy = %s, want NotEvaluated", o.Discrepancy)
	}
}

func TestResolve_StatusFilterKeepsEligibleVerifier(t *testing.T) {
	o := resolveOne(t, []Record{
		scanRecord("1", "TX100", "PM", "704", "10"),
		scanRecord("2", "TX100", "P5", "700", "12"),
		scanRecord("3", "TX100", "P5", "704", "10"),
	}, ResolveOptions{ApplyVerifierStatusFilter: true, VerifierStatus: "704"})

	if o.Verifier == nil || o.Verifier.ID != "3" {
		t.Fatalf("expected eligible record 3 as verifier, got %+v", o.Verifier)
	}
	if o.Discrepancy != DiscrepancyNone {
		t.Fatalf("discrepancy = %s, want None", o.Discrepancy)
	}
}

func TestResolve_MandorPreferredOverAsisten(t *testing.T) {
	o := resolveOne(t, []Record{
		scanRecord("1", "TX100", "PM", "704", "10"),
		scanRecord("2", "TX100", "P5", "704", "11"),
		scanRecord("3", "TX100", "P1", "704", "10"),
	}, ResolveOptions{})

	if o.Verifier == nil || o.Verifier.ID != "3" {
		t.Fatalf("mandor must win over asisten, got %+v", o.Verifier)
	}
	if o.AmbiguousVerifier {
		t.Fatal("single candidate per role is not ambiguous")
	}
}

func TestResolve_SameRoleTieIsDeterministicAndFlagged(t *testing.T) {
	records := []Record{
		scanRecord("1", "TX100", "PM", "704", "10"),
		scanRecord("2", "TX100", "P1", "704", "11"),
		scanRecord("3", "TX100", "P1", "704", "12"),
	}
	o := resolveOne(t, records, ResolveOptions{})

	if o.Verifier == nil || o.Verifier.ID != "2" {
		t.Fatalf("tie-break must keep input order, got %+v", o.Verifier)
	}
	if !o.AmbiguousVerifier {
		t.Fatal("duplicate same-role candidates must be flagged ambiguous")
	}
}

func TestResolve_KeraniOnlyDuplicateGroup(t *testing.T) {
	// Two clerk rows sharing a transaction number: verified per the group
	// size rule, but there is nothing to compare against.
	matches := Resolve([]Record{
		scanRecord("1", "TX100", "PM", "704", "10"),
		scanRecord("2", "TX100", "pm", "704", "12"),
	}, DefaultRoleTable(), ResolveOptions{})
	outcomes := EvaluateOutcomes(matches, DefaultCompareFields())

	if len(outcomes) != 2 {
		t.Fatalf("expected one outcome per kerani row, got %d", len(outcomes))
	}
	for _, o := range outcomes {
		if !o.Verified {
			t.Fatalf("record %s: group size > 1 means verified", o.Record.ID)
		}
		if o.Verifier != nil {
			t.Fatalf("record %s: kerani rows are never verifier candidates", o.Record.ID)
		}
		if o.Discrepancy != DiscrepancyNotEvaluated {
			t.Fatalf("record %s: discrepancy = %s, want NotEvaluated", o.Record.ID, o.Discrepancy)
		}
	}
}

func TestResolve_ArrivalOrderDoesNotChangeDecisions(t *testing.T) {
	records := []Record{
		scanRecord("1", "TX100", "PM", "704", "10"),
		scanRecord("2", "TX100", "P1", "704", "12"),
		scanRecord("3", "TX200", "PM", "704", "5"),
	}
	reversed := []Record{records[2], records[1], records[0]}

	collect := func(rs []Record) map[string]Outcome {
		out := map[string]Outcome{}
		for _, o := range EvaluateOutcomes(Resolve(rs, DefaultRoleTable(), ResolveOptions{}), DefaultCompareFields()) {
			out[o.Record.ID] = o
		}
		return out
	}

	a, b := collect(records), collect(reversed)
	for id, oa := range a {
		ob := b[id]
		if oa.Verified != ob.Verified || oa.Discrepancy != ob.Discrepancy {
			t.Fatalf("record %s: decisions changed with arrival order (%v/%s vs %v/%s)",
				id, oa.Verified, oa.Discrepancy, ob.Verified, ob.Discrepancy)
		}
	}
}
