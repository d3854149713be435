package audit

import "testing"

func TestClassify_DefaultTable(t *testing.T) {
	table := DefaultRoleTable()

	cases := []struct {
		tag  string
		want Role
	}{
		{"PM", RoleKerani},
		{"pm", RoleKerani},
		{" P1 ", RoleMandor},
		{"p5", RoleAsisten},
		{"XX", RoleOther},
		{"", RoleOther},
		{"  ", RoleOther},
	}
	for _, c := range cases {
		if got := table.Classify(c.tag); got != c.want {
			t.Fatalf("Classify(%q) = %s, want %s", c.tag, got, c.want)
		}
	}
}

func TestClassify_SwappedLegacyConvention(t *testing.T) {
	// The older script generation assigned P1/P5 the other way around. The
	// table is configuration, so both conventions must be expressible.
	legacy := NewRoleTable("v1-legacy", map[string]Role{
		"PM": RoleKerani,
		"P1": RoleAsisten,
		"P5": RoleMandor,
	})

	if got := legacy.Classify("P1"); got != RoleAsisten {
		t.Fatalf("legacy Classify(P1) = %s, want ASISTEN", got)
	}
	if got := legacy.Classify("P5"); got != RoleMandor {
		t.Fatalf("legacy Classify(P5) = %s, want MANDOR", got)
	}
	if legacy.Version != "v1-legacy" {
		t.Fatalf("version = %q, want v1-legacy", legacy.Version)
	}
}

func TestClassify_IsPure(t *testing.T) {
	table := DefaultRoleTable()
	for i := 0; i < 3; i++ {
		if got := table.Classify("pm"); got != RoleKerani {
			t.Fatalf("call %d: Classify(pm) = %s, want KERANI", i, got)
		}
	}
}
