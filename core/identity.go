package core

// Roles
const (
	RoleStudent    = "student"
	RoleInstructor = "instructor"
)

// Identity is the authenticated identity the API boundary verified for us.
// Credential checks and token issuance live outside this codebase; services
// trust this input but still enforce role requirements on their operations.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (i Identity) IsStudent() bool {
	return i.Role == RoleStudent
}

func (i Identity) IsInstructor() bool {
	return i.Role == RoleInstructor
}
