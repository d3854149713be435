package audit

import "strings"

type Role string

const (
	RoleKerani  Role = "KERANI"
	RoleMandor  Role = "MANDOR"
	RoleAsisten Role = "ASISTEN"
	RoleOther   Role = "OTHER"
)

// RoleTable maps raw scanner record tags to semantic roles.
//
// The tag convention has flipped between tooling generations (P1/P5 assigned
// to MANDOR/ASISTEN in opposite ways), so the table is configuration with an
// explicit version label, never a literal buried in the matching code. The
// version label is carried into every AnalysisResult so historical runs state
// which convention produced them.
type RoleTable struct {
	Version string
	tags    map[string]Role
}

// NewRoleTable builds a table from raw tag -> role pairs. Tags are matched
// case-insensitively after trimming.
func NewRoleTable(version string, tags map[string]Role) RoleTable {
	normalized := make(map[string]Role, len(tags))
	for tag, role := range tags {
		normalized[strings.ToUpper(strings.TrimSpace(tag))] = role
	}
	return RoleTable{Version: version, tags: normalized}
}

// DefaultRoleTable is the corrected convention: PM=KERANI, P1=MANDOR, P5=ASISTEN.
func DefaultRoleTable() RoleTable {
	return NewRoleTable("v2-corrected", map[string]Role{
		"PM": RoleKerani,
		"P1": RoleMandor,
		"P5": RoleAsisten,
	})
}

// Classify maps a raw record tag to its role. Pure and total: unknown or
// blank tags classify as OTHER, never an error.
func (t RoleTable) Classify(rawTag string) Role {
	role, ok := t.tags[strings.ToUpper(strings.TrimSpace(rawTag))]
	if !ok {
		return RoleOther
	}
	return role
}
