package models

import (
	"fmt"

	"github.com/mmdatafocus/ffbaudit_backend/audit"
)

// ScannerTransaction maps one row of a monthly FFB scanner table
// (ffb_scanner_YYYYMM). The scanner exports everything as text, including
// the bunch counts, so the quantity columns stay strings until the
// comparator coerces them.
type ScannerTransaction struct {
	ID          uint   `gorm:"column:id;primaryKey"`
	TransNo     string `gorm:"column:transno"`
	TransDate   string `gorm:"column:transdate"`
	TransTime   string `gorm:"column:transtime"`
	OperatorID  string `gorm:"column:operatorid"`
	RecordTag   string `gorm:"column:recordtag"`
	TransStatus string `gorm:"column:transstatus"`
	FieldID     string `gorm:"column:fieldid"`

	RipeBch       string `gorm:"column:ripebch"`
	UnripeBch     string `gorm:"column:unripebch"`
	BlackBch      string `gorm:"column:blackbch"`
	RottenBch     string `gorm:"column:rottenbch"`
	LongStalkBch  string `gorm:"column:longstalkbch"`
	RatDmgBch     string `gorm:"column:ratdmgbch"`
	LooseFruitBch string `gorm:"column:loosefruitbch"`
}

// ToAuditRecord converts a scanner row into the engine's value type. The
// source table name is folded into the record id so rows from different
// monthly tables can never collide.
func (t *ScannerTransaction) ToAuditRecord(sourceTable string) audit.Record {
	return audit.Record{
		ID:                fmt.Sprintf("%s/%d", sourceTable, t.ID),
		TransactionNumber: t.TransNo,
		TransactionDate:   t.TransDate,
		TransactionTime:   t.TransTime,
		CreatorUserID:     t.OperatorID,
		RoleTag:           t.RecordTag,
		Status:            t.TransStatus,
		DivisionID:        t.FieldID,
		Quantities: map[audit.QuantityField]string{
			audit.FieldRipe:       t.RipeBch,
			audit.FieldUnripe:     t.UnripeBch,
			audit.FieldBlack:      t.BlackBch,
			audit.FieldRotten:     t.RottenBch,
			audit.FieldLongStalk:  t.LongStalkBch,
			audit.FieldRatDamaged: t.RatDmgBch,
			audit.FieldLooseFruit: t.LooseFruitBch,
		},
	}
}

// DivisionMaster is one row of an estate's division directory table.
type DivisionMaster struct {
	FieldID   string `gorm:"column:fieldid;primaryKey"`
	FieldName string `gorm:"column:fieldname"`
}

func (DivisionMaster) TableName() string { return "divisionmst" }

// EmployeeMaster is one row of an estate's employee directory table.
type EmployeeMaster struct {
	EmpID   string `gorm:"column:empid;primaryKey"`
	EmpName string `gorm:"column:empname"`
}

func (EmployeeMaster) TableName() string { return "employeemst" }
