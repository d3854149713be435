package reports

import (
	"sort"

	"github.com/mmdatafocus/ffbaudit_backend/audit"
)

// VarianceEntry compares the engine's computed discrepancy count for one
// employee against an externally audited figure (typically a spreadsheet
// maintained by the estate office).
//
// Earlier tooling silently rewrote computed counts to match the external
// sheet. This report replaces that: deltas are surfaced, computed metrics
// are never touched.
type VarianceEntry struct {
	EmployeeID            string `json:"EmployeeId"`
	EmployeeName          string `json:"EmployeeName"`
	ComputedDiscrepancies int    `json:"ComputedDiscrepancies"`
	AuditedDiscrepancies  int    `json:"AuditedDiscrepancies"`
	Delta                 int    `json:"Delta"`
}

// BuildVarianceReport lists every employee where the computed and audited
// discrepancy counts differ, plus audited employees the engine never saw.
// Matching entries are omitted; an empty report means full agreement.
func BuildVarianceReport(result *audit.AnalysisResult, audited map[string]int) []*VarianceEntry {
	var entries []*VarianceEntry

	seen := map[string]bool{}
	for id, m := range result.Employees {
		seen[id] = true
		auditedCount, ok := audited[id]
		if !ok {
			auditedCount = 0
		}
		if m.KeraniDiscrepancies == auditedCount {
			continue
		}
		entries = append(entries, &VarianceEntry{
			EmployeeID:            id,
			EmployeeName:          m.Name,
			ComputedDiscrepancies: m.KeraniDiscrepancies,
			AuditedDiscrepancies:  auditedCount,
			Delta:                 m.KeraniDiscrepancies - auditedCount,
		})
	}

	for id, auditedCount := range audited {
		if seen[id] || auditedCount == 0 {
			continue
		}
		entries = append(entries, &VarianceEntry{
			EmployeeID:           id,
			EmployeeName:         "EMP-" + id,
			AuditedDiscrepancies: auditedCount,
			Delta:                -auditedCount,
		})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].EmployeeID < entries[j].EmployeeID })
	return entries
}
