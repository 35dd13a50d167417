// Package access defines the closed role and module enumerations and the
// capability matrix used to gate modules of the office application.
package access

import "strings"

// Role is the single role assigned to a user.
type Role string

// Roles known to the application. The enumeration is closed.
const (
	Admin        Role = "ADMIN"
	Director     Role = "DIRECTOR"
	Attorney     Role = "ATTORNEY"
	Paralegal    Role = "PARALEGAL"
	Clerk        Role = "CLERK"
	LegalAdvisor Role = "LEGAL_ADVISOR"
	Intern       Role = "INTERN"
)

// Roles returns every known role.
func Roles() []Role {
	return []Role{Admin, Director, Attorney, Paralegal, Clerk, LegalAdvisor, Intern}
}

// Valid reports if r is a member of the role enumeration.
func (r Role) Valid() bool {
	switch r {
	case Admin, Director, Attorney, Paralegal, Clerk, LegalAdvisor, Intern:
		return true
	}

	return false
}

// ParseRole converts a wire value into a Role. Surrounding whitespace is ignored
// and the hyphenated spelling LEGAL-ADVISOR is accepted.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ReplaceAll(strings.TrimSpace(s), "-", "_"))

	return r, r.Valid()
}

// Module is a named application area.
type Module string

// Modules of the application. The enumeration is closed.
const (
	Dashboard   Module = "dashboard"
	Dossiers    Module = "dossiers"
	Clients     Module = "clients"
	Documents   Module = "documents"
	Tasks       Module = "tasks"
	Calendar    Module = "calendar"
	Messages    Module = "messages"
	Billing     Module = "billing"
	Reports     Module = "reports"
	Settings    Module = "settings"
	Users       Module = "users"
	Permissions Module = "permissions"
	Audit       Module = "audit"
	Archives    Module = "archives"
)

// Modules returns every known module.
func Modules() []Module {
	return []Module{
		Dashboard, Dossiers, Clients, Documents, Tasks, Calendar, Messages,
		Billing, Reports, Settings, Users, Permissions, Audit, Archives,
	}
}

// Valid reports if m is a member of the module enumeration.
func (m Module) Valid() bool {
	switch m {
	case Dashboard, Dossiers, Clients, Documents, Tasks, Calendar, Messages,
		Billing, Reports, Settings, Users, Permissions, Audit, Archives:
		return true
	}

	return false
}

// ParseModule converts a wire value into a Module.
func ParseModule(s string) (Module, bool) {
	m := Module(strings.ToLower(strings.TrimSpace(s)))

	return m, m.Valid()
}

// Capability holds the operations allowed on a module. The three flags are
// independent: Delete does not imply Write and Write does not imply Delete.
type Capability struct {
	Read   bool `json:"read"`
	Write  bool `json:"write"`
	Delete bool `json:"delete"`
}

// Any reports if at least one operation is allowed.
func (c Capability) Any() bool {
	return c.Read || c.Write || c.Delete
}

// Or merges two capabilities.
func (c Capability) Or(o Capability) Capability {
	return Capability{
		Read:   c.Read || o.Read,
		Write:  c.Write || o.Write,
		Delete: c.Delete || o.Delete,
	}
}

// Matrix maps modules to capabilities. A module absent from the matrix has no access.
// A Matrix must not be modified once it has been handed to a reader.
type Matrix map[Module]Capability

// Capability returns the capability for m, or the zero Capability when m is absent.
func (x Matrix) Capability(m Module) Capability {
	return x[m]
}

// Clone returns a copy of x.
func (x Matrix) Clone() Matrix {
	c := make(Matrix, len(x))
	for k, v := range x {
		c[k] = v
	}

	return c
}
