package reports

import (
	"fmt"
	"io"

	"github.com/mmdatafocus/ffbaudit_backend/audit"
	"github.com/xuri/excelize/v2"
)

const summarySheet = "Summary"

// BuildAnalysisWorkbook renders an AnalysisResult as an xlsx workbook: one
// summary sheet with estate totals plus one sheet of employee rows per
// estate.
func BuildAnalysisWorkbook(result *audit.AnalysisResult) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}

	// Summary sheet
	f.SetCellValue(summarySheet, "A1", "RunId")
	f.SetCellValue(summarySheet, "B1", result.RunID)
	f.SetCellValue(summarySheet, "A2", "Status")
	f.SetCellValue(summarySheet, "B2", string(result.Status))
	f.SetCellValue(summarySheet, "A3", "Period")
	f.SetCellValue(summarySheet, "B3", result.FromDate+" - "+result.ToDate)
	f.SetCellValue(summarySheet, "A4", "RoleTableVersion")
	f.SetCellValue(summarySheet, "B4", result.RoleTableVersion)

	headers := []string{"Estate", "TotalKerani", "TotalVerified", "TotalMandor", "TotalAsisten", "VerificationRate%", "FailedDivisions"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 6)
		f.SetCellValue(summarySheet, cell, h)
	}
	for i, row := range BuildEstateTotals(result) {
		values := []interface{}{
			row.Estate, row.TotalKerani, row.TotalVerified, row.TotalMandor,
			row.TotalAsisten, row.VerificationRatePercent.StringFixed(2), row.FailedDivisions,
		}
		for c, v := range values {
			cell, _ := excelize.CoordinatesToCellName(c+1, 7+i)
			f.SetCellValue(summarySheet, cell, v)
		}
	}
	for i, failure := range result.Failures {
		f.SetCellValue(summarySheet, fmt.Sprintf("A%d", 8+len(result.Estates)+i), "FAILED "+failure.Estate)
		f.SetCellValue(summarySheet, fmt.Sprintf("B%d", 8+len(result.Estates)+i), failure.Error)
	}

	// One employee detail sheet per estate
	rows := BuildVerificationReport(result)
	for _, estate := range result.Estates {
		if _, err := f.NewSheet(estate.Estate); err != nil {
			return nil, err
		}
		writeEstateSheet(f, estate.Estate, rows)
	}

	return f, nil
}

func writeEstateSheet(f *excelize.File, estate string, rows []*EmployeeVerificationRow) {
	headers := []string{
		"Division", "DivisionName", "EmployeeId", "EmployeeName",
		"KeraniCreated", "KeraniVerified", "KeraniDiscrepancies",
		"MandorRecords", "AsistenRecords",
		"VerificationRate%", "MandorContribution%", "AsistenContribution%",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(estate, cell, h)
	}

	rowNo := 2
	for _, row := range rows {
		if row.Estate != estate {
			continue
		}
		values := []interface{}{
			row.DivisionID, row.DivisionName, row.EmployeeID, row.EmployeeName,
			row.KeraniCreated, row.KeraniVerified, row.KeraniDiscrepancies,
			row.MandorRecords, row.AsistenRecords,
			row.VerificationRatePercent.StringFixed(2),
			row.MandorContributionPercent.StringFixed(2),
			row.AsistenContribPercent.StringFixed(2),
		}
		for c, v := range values {
			cell, _ := excelize.CoordinatesToCellName(c+1, rowNo)
			f.SetCellValue(estate, cell, v)
		}
		rowNo++
	}
}

// WriteAnalysisExcel streams the workbook, e.g. into an HTTP response.
func WriteAnalysisExcel(w io.Writer, result *audit.AnalysisResult) error {
	f, err := BuildAnalysisWorkbook(result)
	if err != nil {
		return err
	}
	return f.Write(w)
}

// SaveAnalysisExcel writes the workbook to disk (CLI usage).
func SaveAnalysisExcel(result *audit.AnalysisResult, filename string) error {
	f, err := BuildAnalysisWorkbook(result)
	if err != nil {
		return err
	}
	return f.SaveAs(filename)
}
