package models

import (
	"context"
	"errors"
	"fmt"

	"github.com/mmdatafocus/ffbaudit_backend/audit"
	"github.com/mmdatafocus/ffbaudit_backend/config"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var ErrEstateNotConnected = errors.New("estate database not connected")

// ScannerRepository implements audit.RecordSource and audit.EmployeeDirectory
// over the per-estate MySQL scanner databases.
type ScannerRepository struct {
	logger *logrus.Logger
}

func NewScannerRepository(logger *logrus.Logger) *ScannerRepository {
	return &ScannerRepository{logger: logger}
}

func estateDB(estate string) (*gorm.DB, error) {
	db := config.GetEstateDB(estate)
	if db == nil {
		return nil, fmt.Errorf("%w: %s", ErrEstateNotConnected, estate)
	}
	return db, nil
}

// ListDivisions reads the estate's division directory.
func (r *ScannerRepository) ListDivisions(ctx context.Context, estate string) ([]audit.Division, error) {
	db, err := estateDB(estate)
	if err != nil {
		return nil, err
	}

	var rows []DivisionMaster
	if err := db.WithContext(ctx).Order("fieldid").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("list divisions for %s: %w", estate, err)
	}

	divisions := make([]audit.Division, 0, len(rows))
	for _, row := range rows {
		divisions = append(divisions, audit.Division{ID: row.FieldID, Name: row.FieldName})
	}
	return divisions, nil
}

// FetchRecords returns one division's scanner rows for a date range as a
// flat list, resolving the monthly partition tables internally. A monthly
// table missing from the estate database (months with no scanner upload)
// is skipped, not an error.
func (r *ScannerRepository) FetchRecords(ctx context.Context, estate, divisionID, fromDate, toDate string) ([]audit.Record, error) {
	db, err := estateDB(estate)
	if err != nil {
		return nil, err
	}

	tables, err := MonthlyScannerTables(fromDate, toDate)
	if err != nil {
		return nil, err
	}

	var records []audit.Record
	for _, table := range tables {
		if !db.Migrator().HasTable(table) {
			if r.logger != nil {
				r.logger.WithFields(logrus.Fields{
					"estate": estate,
					"table":  table,
				}).Debug("monthly scanner table absent, skipping")
			}
			continue
		}

		var rows []ScannerTransaction
		err := db.WithContext(ctx).
			Table(table).
			Where("fieldid = ? AND transdate BETWEEN ? AND ?", divisionID, fromDate, toDate).
			Order("transdate, transtime, id").
			Find(&rows).Error
		if err != nil {
			return nil, fmt.Errorf("fetch %s.%s division %s: %w", estate, table, divisionID, err)
		}

		for i := range rows {
			records = append(records, rows[i].ToAuditRecord(table))
		}
	}
	return records, nil
}

// ResolveEmployeeName looks an operator id up in the estate's employee
// master. A miss returns ok=false; the engine substitutes its EMP-<id>
// label so metrics stay attributable.
func (r *ScannerRepository) ResolveEmployeeName(ctx context.Context, estate, userID string) (string, bool) {
	db, err := estateDB(estate)
	if err != nil {
		return "", false
	}

	var row EmployeeMaster
	if err := db.WithContext(ctx).Where("empid = ?", userID).Take(&row).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) && r.logger != nil {
			config.LogError(r.logger, "scannerRepository.go", "ResolveEmployeeName", "querying employeemst", userID, err)
		}
		return "", false
	}
	return row.EmpName, row.EmpName != ""
}
