package access

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseRole(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		want   Role
		wantOK bool
	}{
		{name: "known role", input: "ATTORNEY", want: Attorney, wantOK: true},
		{name: "surrounding whitespace", input: " CLERK ", want: Clerk, wantOK: true},
		{name: "hyphenated legal advisor", input: "LEGAL-ADVISOR", want: LegalAdvisor, wantOK: true},
		{name: "lower case is not a role", input: "attorney", want: Role("attorney")},
		{name: "empty", input: ""},
		{name: "unknown", input: "JANITOR", want: Role("JANITOR")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := ParseRole(tt.input)
			if ok != tt.wantOK {
				t.Errorf("ParseRole() ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("ParseRole() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseModule(t *testing.T) {
	t.Parallel()

	for _, m := range Modules() {
		got, ok := ParseModule(string(m))
		if !ok || got != m {
			t.Errorf("ParseModule(%q) = %q, %v", m, got, ok)
		}
	}

	if _, ok := ParseModule("payroll"); ok {
		t.Errorf("ParseModule(payroll) ok = true, want false")
	}
	if got, ok := ParseModule(" Dossiers "); !ok || got != Dossiers {
		t.Errorf("ParseModule(\" Dossiers \") = %q, %v", got, ok)
	}
}

func TestEnumerationSizes(t *testing.T) {
	t.Parallel()

	if got := len(Roles()); got != 7 {
		t.Errorf("len(Roles()) = %d, want 7", got)
	}
	if got := len(Modules()); got != 14 {
		t.Errorf("len(Modules()) = %d, want 14", got)
	}
}

func TestMatrix_Capability(t *testing.T) {
	t.Parallel()

	m := Matrix{Dossiers: {Read: true, Write: true}}

	if diff := cmp.Diff(Capability{Read: true, Write: true}, m.Capability(Dossiers)); diff != "" {
		t.Errorf("Capability(Dossiers) mismatch (-want +got):\n%s", diff)
	}
	for _, mod := range Modules() {
		if mod == Dossiers {
			continue
		}
		if c := m.Capability(mod); c.Any() {
			t.Errorf("Capability(%s) = %+v, want no access", mod, c)
		}
	}

	var nilMatrix Matrix
	if nilMatrix.Capability(Dashboard).Any() {
		t.Errorf("nil Matrix granted access")
	}
}

func TestCapability_Or(t *testing.T) {
	t.Parallel()

	got := Capability{Read: true}.Or(Capability{Delete: true})
	want := Capability{Read: true, Delete: true}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Or() mismatch (-want +got):\n%s", diff)
	}
}

func TestDefaultPermissions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		role   Role
		module Module
		want   Capability
	}{
		{name: "attorney writes but does not delete dossiers", role: Attorney, module: Dossiers, want: Capability{Read: true, Write: true}},
		{name: "attorney has no user management", role: Attorney, module: Users},
		{name: "admin deletes audit", role: Admin, module: Audit, want: Capability{Read: true, Write: true, Delete: true}},
		{name: "director reads permissions", role: Director, module: Permissions, want: Capability{Read: true}},
		{name: "intern reads dossiers", role: Intern, module: Dossiers, want: Capability{Read: true}},
		{name: "clerk writes billing", role: Clerk, module: Billing, want: Capability{Read: true, Write: true}},
		{name: "unknown role gets minimal table", role: Role("JANITOR"), module: Settings, want: Capability{Read: true, Write: true}},
		{name: "unknown role denied dossiers", role: Role("JANITOR"), module: Dossiers},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := DefaultPermissions(tt.role).Capability(tt.module)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("DefaultPermissions(%s)[%s] mismatch (-want +got):\n%s", tt.role, tt.module, diff)
			}
		})
	}
}

func TestDefaultPermissions_ReturnsCopy(t *testing.T) {
	t.Parallel()

	m := DefaultPermissions(Attorney)
	m[Users] = Capability{Read: true, Write: true, Delete: true}

	if DefaultPermissions(Attorney).Capability(Users).Any() {
		t.Errorf("mutating a returned matrix changed the static table")
	}
}

func TestMinimalPermissions(t *testing.T) {
	t.Parallel()

	want := Matrix{
		Dashboard: {Read: true},
		Tasks:     {Read: true},
		Calendar:  {Read: true},
		Messages:  {Read: true},
		Settings:  {Read: true, Write: true},
	}
	if diff := cmp.Diff(want, MinimalPermissions()); diff != "" {
		t.Errorf("MinimalPermissions() mismatch (-want +got):\n%s", diff)
	}
}
