package audit

// DivisionReconciler wires resolver -> comparator -> aggregator over exactly
// one division's record batch.
type DivisionReconciler struct {
	Table       RoleTable
	Fields      []QuantityField
	Opts        ResolveOptions
	ResolveName NameResolver
}

// Reconcile runs the full division pass. An empty batch is not an error; it
// yields a summary with zero totals.
func (d DivisionReconciler) Reconcile(divisionID, divisionName string, records []Record) *DivisionSummary {
	fields := d.Fields
	if len(fields) == 0 {
		fields = DefaultCompareFields()
	}

	matches := Resolve(records, d.Table, d.Opts)
	outcomes := EvaluateOutcomes(matches, fields)
	employees := AggregateEmployees(outcomes, records, d.Table, d.ResolveName)

	summary := &DivisionSummary{
		DivisionID:   divisionID,
		DivisionName: divisionName,
		RecordCount:  len(records),
	}
	summary.Employees = employees
	summary.recomputeTotals()
	return summary
}
