package access

var (
	readOnly   = Capability{Read: true}
	readWrite  = Capability{Read: true, Write: true}
	fullAccess = Capability{Read: true, Write: true, Delete: true}
)

// minimalPermissions is granted when the role is unknown or the permissions
// endpoint cannot be reached.
var minimalPermissions = Matrix{
	Dashboard: readOnly,
	Tasks:     readOnly,
	Calendar:  readOnly,
	Messages:  readOnly,
	Settings:  readWrite,
}

// defaultPermissions is the static role table. Entries are kept exactly as the
// office defines them; several grant write without delete.
var defaultPermissions = map[Role]Matrix{
	Admin: {
		Dashboard:   fullAccess,
		Dossiers:    fullAccess,
		Clients:     fullAccess,
		Documents:   fullAccess,
		Tasks:       fullAccess,
		Calendar:    fullAccess,
		Messages:    fullAccess,
		Billing:     fullAccess,
		Reports:     fullAccess,
		Settings:    fullAccess,
		Users:       fullAccess,
		Permissions: fullAccess,
		Audit:       fullAccess,
		Archives:    fullAccess,
	},
	Director: {
		Dashboard:   readOnly,
		Dossiers:    fullAccess,
		Clients:     fullAccess,
		Documents:   fullAccess,
		Tasks:       fullAccess,
		Calendar:    fullAccess,
		Messages:    fullAccess,
		Billing:     fullAccess,
		Reports:     readWrite,
		Settings:    readWrite,
		Users:       readWrite,
		Permissions: readOnly,
		Audit:       readOnly,
		Archives:    readWrite,
	},
	Attorney: {
		Dashboard: readOnly,
		Dossiers:  readWrite,
		Clients:   readWrite,
		Documents: readWrite,
		Tasks:     fullAccess,
		Calendar:  fullAccess,
		Messages:  readWrite,
		Billing:   readOnly,
		Reports:   readOnly,
		Settings:  readWrite,
		Archives:  readOnly,
	},
	Paralegal: {
		Dashboard: readOnly,
		Dossiers:  readWrite,
		Clients:   readOnly,
		Documents: readWrite,
		Tasks:     readWrite,
		Calendar:  readWrite,
		Messages:  readWrite,
		Settings:  readWrite,
		Archives:  readOnly,
	},
	Clerk: {
		Dashboard: readOnly,
		Dossiers:  readOnly,
		Clients:   readWrite,
		Documents: readOnly,
		Tasks:     readWrite,
		Calendar:  readWrite,
		Messages:  readWrite,
		Billing:   readWrite,
		Settings:  readWrite,
	},
	LegalAdvisor: {
		Dashboard: readOnly,
		Dossiers:  readOnly,
		Clients:   readOnly,
		Documents: readWrite,
		Tasks:     readWrite,
		Calendar:  readOnly,
		Messages:  readWrite,
		Reports:   readOnly,
		Settings:  readWrite,
	},
	Intern: {
		Dashboard: readOnly,
		Dossiers:  readOnly,
		Documents: readOnly,
		Tasks:     readOnly,
		Calendar:  readOnly,
		Messages:  readOnly,
		Settings:  readWrite,
	},
}

// MinimalPermissions returns a fresh copy of the minimal matrix.
func MinimalPermissions() Matrix {
	return minimalPermissions.Clone()
}

// DefaultPermissions returns a fresh copy of the static table entry for role.
// Unknown roles receive the minimal matrix.
func DefaultPermissions(role Role) Matrix {
	m, ok := defaultPermissions[role]
	if !ok {
		return MinimalPermissions()
	}

	return m.Clone()
}
