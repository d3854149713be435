package models

import (
	"fmt"
	"time"
)

const scannerTablePrefix = "ffb_scanner_"

// MonthlyScannerTables resolves the monthly table names covering a date
// range (inclusive on both ends). This is the ONLY place in the codebase
// that knows scanner rows are partitioned per month; everything above the
// repository receives a flat record list.
func MonthlyScannerTables(fromDate, toDate string) ([]string, error) {
	from, err := time.Parse("2006-01-02", fromDate)
	if err != nil {
		return nil, fmt.Errorf("invalid from date %q: %w", fromDate, err)
	}
	to, err := time.Parse("2006-01-02", toDate)
	if err != nil {
		return nil, fmt.Errorf("invalid to date %q: %w", toDate, err)
	}
	if to.Before(from) {
		return nil, fmt.Errorf("date range inverted: %s after %s", fromDate, toDate)
	}

	var tables []string
	cursor := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(to.Year(), to.Month(), 1, 0, 0, 0, 0, time.UTC)
	for !cursor.After(end) {
		tables = append(tables, ScannerTableForMonth(cursor))
		cursor = cursor.AddDate(0, 1, 0)
	}
	return tables, nil
}

// ScannerTableForMonth names the monthly table holding a given month's rows.
func ScannerTableForMonth(month time.Time) string {
	return fmt.Sprintf("%s%04d%02d", scannerTablePrefix, month.Year(), int(month.Month()))
}
