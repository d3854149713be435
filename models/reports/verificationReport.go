package reports

import (
	"sort"

	"github.com/mmdatafocus/ffbaudit_backend/audit"
	"github.com/shopspring/decimal"
)

// EmployeeVerificationRow is one flattened line of the verification report:
// one employee within one division of one estate.
type EmployeeVerificationRow struct {
	Estate       string `json:"Estate"`
	DivisionID   string `json:"DivisionId"`
	DivisionName string `json:"DivisionName"`
	EmployeeID   string `json:"EmployeeId"`
	EmployeeName string `json:"EmployeeName"`

	KeraniCreated       int `json:"KeraniCreated"`
	KeraniVerified      int `json:"KeraniVerified"`
	KeraniDiscrepancies int `json:"KeraniDiscrepancies"`
	MandorRecords       int `json:"MandorRecords"`
	AsistenRecords      int `json:"AsistenRecords"`

	VerificationRatePercent   decimal.Decimal `json:"VerificationRatePercent"`
	MandorContributionPercent decimal.Decimal `json:"MandorContributionPercent"`
	AsistenContribPercent     decimal.Decimal `json:"AsistenContributionPercent"`
}

// EstateTotalsRow is the per-estate summary line.
type EstateTotalsRow struct {
	Estate                  string          `json:"Estate"`
	TotalKerani             int             `json:"TotalKerani"`
	TotalVerified           int             `json:"TotalVerified"`
	TotalMandor             int             `json:"TotalMandor"`
	TotalAsisten            int             `json:"TotalAsisten"`
	VerificationRatePercent decimal.Decimal `json:"VerificationRatePercent"`
	FailedDivisions         int             `json:"FailedDivisions"`
}

// BuildVerificationReport flattens an AnalysisResult into sorted
// division-level employee rows.
func BuildVerificationReport(result *audit.AnalysisResult) []*EmployeeVerificationRow {
	var rows []*EmployeeVerificationRow
	for _, estate := range result.Estates {
		for _, div := range estate.Divisions {
			for _, m := range div.Employees {
				rows = append(rows, &EmployeeVerificationRow{
					Estate:                    estate.Estate,
					DivisionID:                div.DivisionID,
					DivisionName:              div.DivisionName,
					EmployeeID:                m.EmployeeID,
					EmployeeName:              m.Name,
					KeraniCreated:             m.KeraniCreated,
					KeraniVerified:            m.KeraniVerified,
					KeraniDiscrepancies:       m.KeraniDiscrepancies,
					MandorRecords:             m.MandorRecords,
					AsistenRecords:            m.AsistenRecords,
					VerificationRatePercent:   m.VerificationRate(),
					MandorContributionPercent: div.MandorContribution(m.EmployeeID),
					AsistenContribPercent:     div.AsistenContribution(m.EmployeeID),
				})
			}
		}
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Estate != rows[j].Estate {
			return rows[i].Estate < rows[j].Estate
		}
		if rows[i].DivisionID != rows[j].DivisionID {
			return rows[i].DivisionID < rows[j].DivisionID
		}
		return rows[i].EmployeeID < rows[j].EmployeeID
	})
	return rows
}

// BuildEstateTotals produces the per-estate summary lines in estate order.
func BuildEstateTotals(result *audit.AnalysisResult) []*EstateTotalsRow {
	rows := make([]*EstateTotalsRow, 0, len(result.Estates))
	for _, estate := range result.Estates {
		rows = append(rows, &EstateTotalsRow{
			Estate:                  estate.Estate,
			TotalKerani:             estate.TotalKerani,
			TotalVerified:           estate.TotalVerified,
			TotalMandor:             estate.TotalMandor,
			TotalAsisten:            estate.TotalAsisten,
			VerificationRatePercent: estate.VerificationRate(),
			FailedDivisions:         len(estate.FailedDivisions),
		})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Estate < rows[j].Estate })
	return rows
}
