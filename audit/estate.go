package audit

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// EstateReconciler runs the division pass for every division of one estate
// and merges employee metrics across divisions by employee id.
type EstateReconciler struct {
	Source    RecordSource
	Directory EmployeeDirectory
	Logger    *logrus.Logger
}

// Reconcile processes one estate. Listing the divisions is load-bearing: if
// the directory itself is unreachable the estate fails as a whole. A single
// division's fetch failure is isolated, logged and recorded on the summary;
// the remaining divisions still run.
func (e *EstateReconciler) Reconcile(ctx context.Context, estate string, cfg RunConfig) (*EstateSummary, error) {
	divisions, err := e.Source.ListDivisions(ctx, estate)
	if err != nil {
		return nil, fmt.Errorf("list divisions for estate %s: %w", estate, err)
	}

	reconciler := DivisionReconciler{
		Table:  cfg.RoleTable,
		Fields: cfg.CompareFields,
		Opts: ResolveOptions{
			ApplyVerifierStatusFilter: cfg.ApplyVerifierStatusFilter,
			VerifierStatus:            cfg.VerifierStatus,
		},
	}
	if e.Directory != nil {
		reconciler.ResolveName = func(userID string) (string, bool) {
			return e.Directory.ResolveEmployeeName(ctx, estate, userID)
		}
	}

	summary := &EstateSummary{Estate: estate}
	for _, div := range divisions {
		// Abort rather than record bogus division failures once the run is
		// cancelled; a half-processed estate must never reach the merge.
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		records, err := e.Source.FetchRecords(ctx, estate, div.ID, cfg.FromDate, cfg.ToDate)
		if err != nil {
			if e.Logger != nil {
				e.Logger.WithFields(logrus.Fields{
					"estate":   estate,
					"division": div.ID,
				}).Error(err.Error())
			}
			summary.FailedDivisions = append(summary.FailedDivisions, DivisionFailure{
				DivisionID: div.ID,
				Error:      err.Error(),
			})
			continue
		}

		divSummary := reconciler.Reconcile(div.ID, div.Name, records)
		summary.Divisions = append(summary.Divisions, divSummary)
		summary.mergeEmployees(divSummary.Employees)
	}
	return summary, nil
}
