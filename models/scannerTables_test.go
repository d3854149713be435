package models

import (
	"reflect"
	"testing"
)

func TestMonthlyScannerTables_SingleMonth(t *testing.T) {
	tables, err := MonthlyScannerTables("2026-05-03", "2026-05-28")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if !reflect.DeepEqual(tables, []string{"ffb_scanner_202605"}) {
		t.Fatalf("tables = %v", tables)
	}
}

func TestMonthlyScannerTables_SpansYearBoundary(t *testing.T) {
	tables, err := MonthlyScannerTables("2025-11-15", "2026-02-01")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	want := []string{
		"ffb_scanner_202511",
		"ffb_scanner_202512",
		"ffb_scanner_202601",
		"ffb_scanner_202602",
	}
	if !reflect.DeepEqual(tables, want) {
		t.Fatalf("tables = %v, want %v", tables, want)
	}
}

func TestMonthlyScannerTables_Invalid(t *testing.T) {
	if _, err := MonthlyScannerTables("2026-05-01", "2026-04-30"); err == nil {
		t.Fatal("inverted range must error")
	}
	if _, err := MonthlyScannerTables("05/01/2026", "2026-05-31"); err == nil {
		t.Fatal("malformed date must error")
	}
}
