package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/mmdatafocus/ffbaudit_backend/audit"
)

// AuditConfig is the env-driven run configuration: everything the engine
// treats as a parameter (role-tag table, compared fields, verifier status
// filter) lives here, never in the matching code.
//
// Env:
// - AUDIT_ESTATES="BSKE,SGHE,TKRE"
// - AUDIT_ROLE_TABLE="PM=KERANI,P1=MANDOR,P5=ASISTEN" (default, corrected convention)
// - AUDIT_ROLE_TABLE_VERSION="v2-corrected"
// - AUDIT_COMPARE_FIELDS="RIPEBCH,UNRIPEBCH,..." (default: all scanner fields)
// - AUDIT_VERIFIER_STATUS_FILTER=1 + AUDIT_VERIFIER_STATUS=704
// - AUDIT_WORKERS=1
type AuditConfig struct {
	Estates []string

	RoleTable     audit.RoleTable
	CompareFields []audit.QuantityField

	ApplyVerifierStatusFilter bool
	VerifierStatus            string

	Workers int
}

func LoadAuditConfig() (AuditConfig, error) {
	cfg := AuditConfig{
		Estates:        splitList(os.Getenv("AUDIT_ESTATES")),
		VerifierStatus: strings.TrimSpace(os.Getenv("AUDIT_VERIFIER_STATUS")),
		Workers:        1,
	}

	cfg.ApplyVerifierStatusFilter = boolFromEnv("AUDIT_VERIFIER_STATUS_FILTER")
	if cfg.ApplyVerifierStatusFilter && cfg.VerifierStatus == "" {
		return cfg, fmt.Errorf("AUDIT_VERIFIER_STATUS_FILTER is on but AUDIT_VERIFIER_STATUS is empty")
	}

	if raw := strings.TrimSpace(os.Getenv("AUDIT_ROLE_TABLE")); raw != "" {
		version := strings.TrimSpace(os.Getenv("AUDIT_ROLE_TABLE_VERSION"))
		if version == "" {
			return cfg, fmt.Errorf("AUDIT_ROLE_TABLE set without AUDIT_ROLE_TABLE_VERSION; the tag convention must be versioned")
		}
		table, err := parseRoleTable(raw, version)
		if err != nil {
			return cfg, err
		}
		cfg.RoleTable = table
	} else {
		cfg.RoleTable = audit.DefaultRoleTable()
	}

	if raw := strings.TrimSpace(os.Getenv("AUDIT_COMPARE_FIELDS")); raw != "" {
		for _, f := range splitList(raw) {
			cfg.CompareFields = append(cfg.CompareFields, audit.QuantityField(strings.ToUpper(f)))
		}
	} else {
		cfg.CompareFields = audit.DefaultCompareFields()
	}

	if v := strings.TrimSpace(os.Getenv("AUDIT_WORKERS")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return cfg, fmt.Errorf("invalid AUDIT_WORKERS %q", v)
		}
		cfg.Workers = n
	}

	return cfg, nil
}

// RunConfig converts the loaded config into an engine run for the given
// date range.
func (c AuditConfig) RunConfig(fromDate, toDate string) audit.RunConfig {
	return audit.RunConfig{
		Estates:                   c.Estates,
		FromDate:                  fromDate,
		ToDate:                    toDate,
		RoleTable:                 c.RoleTable,
		CompareFields:             c.CompareFields,
		ApplyVerifierStatusFilter: c.ApplyVerifierStatusFilter,
		VerifierStatus:            c.VerifierStatus,
		Workers:                   c.Workers,
	}
}

func parseRoleTable(raw, version string) (audit.RoleTable, error) {
	tags := map[string]audit.Role{}
	for _, pair := range splitList(raw) {
		parts := strings.SplitN(pair, "=", 2)
		if len(parts) != 2 {
			return audit.RoleTable{}, fmt.Errorf("invalid role table entry %q", pair)
		}
		tag := strings.TrimSpace(parts[0])
		role := audit.Role(strings.ToUpper(strings.TrimSpace(parts[1])))
		switch role {
		case audit.RoleKerani, audit.RoleMandor, audit.RoleAsisten, audit.RoleOther:
		default:
			return audit.RoleTable{}, fmt.Errorf("unknown role %q in role table", parts[1])
		}
		tags[tag] = role
	}
	if len(tags) == 0 {
		return audit.RoleTable{}, fmt.Errorf("empty role table %q", raw)
	}
	return audit.NewRoleTable(version, tags), nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func boolFromEnv(key string) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	return v == "1" || v == "true" || v == "yes" || v == "y" || v == "on"
}
