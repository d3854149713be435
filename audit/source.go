package audit

import "context"

// Division is one entry of an estate's division directory.
type Division struct {
	ID   string
	Name string
}

// RecordSource is the engine's contract with whatever fetches scanner rows.
// The source owns all physical storage details (per-month tables, protocol
// parsing); the engine only ever sees a flat, row-deduplicated snapshot
// fetched before the pipeline starts.
type RecordSource interface {
	ListDivisions(ctx context.Context, estate string) ([]Division, error)
	FetchRecords(ctx context.Context, estate, divisionID, fromDate, toDate string) ([]Record, error)
}

// EmployeeDirectory resolves employee display names. A miss is not an
// error; the engine substitutes a synthetic EMP-<id> label.
type EmployeeDirectory interface {
	ResolveEmployeeName(ctx context.Context, estate, userID string) (string, bool)
}
