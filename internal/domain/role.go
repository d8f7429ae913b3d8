package domain

// Role is the closed set of roles known to the gateway. USER, ADMIN and
// AUDITOR are account roles; ADMINISTRATOR and PROFESSOR are the roles the
// Files API understands.
type Role string

const (
	RoleUser    Role = "USER"
	RoleAdmin   Role = "ADMIN"
	RoleAuditor Role = "AUDITOR"

	RoleAdministrator Role = "ADMINISTRATOR"
	RoleProfessor     Role = "PROFESSOR"
)

func (r Role) String() string { return string(r) }

func (r Role) IsAccountRole() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleAuditor:
		return true
	default:
		return false
	}
}

func (r Role) IsFilesRole() bool {
	switch r {
	case RoleAdministrator, RoleProfessor:
		return true
	default:
		return false
	}
}

// ParseFilesRole accepts only the roles the Files API lists files for.
func ParseFilesRole(s string) (Role, bool) {
	r := Role(s)
	if !r.IsFilesRole() {
		return "", false
	}
	return r, true
}

// UpstreamRole is the role forwarded to the Files API on behalf of an
// account role.
func UpstreamRole(r Role) Role {
	if r == RoleAdmin {
		return RoleAdministrator
	}
	return r
}

// Identity is what a verified access token says about the caller.
type Identity struct {
	UserID string
	Role   Role
	Email  string
}
