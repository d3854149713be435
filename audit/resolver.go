package audit

// DiscrepancyStatus is tri-state on purpose: a verified transaction whose
// verifier candidates were all removed by the status filter is "NotEvaluated",
// which reports must keep distinct from "no discrepancy found".
type DiscrepancyStatus string

const (
	DiscrepancyNotEvaluated DiscrepancyStatus = "NotEvaluated"
	DiscrepancyNone         DiscrepancyStatus = "None"
	DiscrepancyFound        DiscrepancyStatus = "Found"
)

// ResolveOptions carries the period-specific verifier eligibility rule.
// Some reporting months require the verifier's TRANSSTATUS to match a given
// code before its quantities may be compared against the clerk's.
type ResolveOptions struct {
	ApplyVerifierStatusFilter bool
	VerifierStatus            string
}

// Match is the resolver's decision for one KERANI record, before the
// comparator has run.
type Match struct {
	Record   Record
	Verified bool
	// Verifier is the re-scan chosen for quantity comparison, nil when no
	// eligible candidate exists.
	Verifier *Record
	// FilterSuppressed is set when the status filter emptied an otherwise
	// non-empty candidate set. The record stays verified, but its
	// discrepancy must be reported as NotEvaluated.
	FilterSuppressed bool
	// AmbiguousVerifier is set when more than one same-role candidate
	// survived filtering. The pick is deterministic (first in input order)
	// but callers must not rely on which duplicate was chosen.
	AmbiguousVerifier bool
}

// Outcome is a Match after discrepancy evaluation.
type Outcome struct {
	Match
	Discrepancy DiscrepancyStatus
}

// Resolve groups records by transaction number and decides, for every KERANI
// record, whether it was independently re-confirmed and which verifier record
// (if any) should be compared against it.
//
// A KERANI record is verified iff its group has more than one member. The
// status filter never affects the verified decision, only verifier
// eligibility for comparison. Returned matches preserve input order.
func Resolve(records []Record, table RoleTable, opts ResolveOptions) []Match {
	groups := make(map[string][]Record, len(records))
	for _, r := range records {
		groups[r.TransactionNumber] = append(groups[r.TransactionNumber], r)
	}

	var matches []Match
	for _, r := range records {
		if table.Classify(r.RoleTag) != RoleKerani {
			continue
		}
		group := groups[r.TransactionNumber]
		m := Match{Record: r, Verified: len(group) > 1}

		var candidates []Record
		for _, member := range group {
			if member.ID == r.ID {
				continue
			}
			if table.Classify(member.RoleTag) == RoleKerani {
				continue
			}
			candidates = append(candidates, member)
		}

		if opts.ApplyVerifierStatusFilter && len(candidates) > 0 {
			var eligible []Record
			for _, c := range candidates {
				if c.Status == opts.VerifierStatus {
					eligible = append(eligible, c)
				}
			}
			if len(eligible) == 0 {
				m.FilterSuppressed = true
			}
			candidates = eligible
		}

		m.Verifier, m.AmbiguousVerifier = pickVerifier(candidates, table)
		matches = append(matches, m)
	}
	return matches
}

// pickVerifier prefers a MANDOR re-scan over an ASISTEN one; any other
// non-KERANI tag is a last resort. Within one role the first candidate in
// input order wins.
func pickVerifier(candidates []Record, table RoleTable) (*Record, bool) {
	byRole := func(role Role) []Record {
		var out []Record
		for _, c := range candidates {
			if table.Classify(c.RoleTag) == role {
				out = append(out, c)
			}
		}
		return out
	}

	for _, role := range []Role{RoleMandor, RoleAsisten, RoleOther} {
		if picks := byRole(role); len(picks) > 0 {
			chosen := picks[0]
			return &chosen, len(picks) > 1
		}
	}
	return nil, false
}

// EvaluateOutcomes runs the comparator over resolved matches. Unverified
// records and verified records without an eligible verifier stay
// NotEvaluated.
func EvaluateOutcomes(matches []Match, fields []QuantityField) []Outcome {
	outcomes := make([]Outcome, 0, len(matches))
	for _, m := range matches {
		o := Outcome{Match: m, Discrepancy: DiscrepancyNotEvaluated}
		if m.Verified && m.Verifier != nil {
			if HasDiscrepancy(m.Record, *m.Verifier, fields) {
				o.Discrepancy = DiscrepancyFound
			} else {
				o.Discrepancy = DiscrepancyNone
			}
		}
		outcomes = append(outcomes, o)
	}
	return outcomes
}
