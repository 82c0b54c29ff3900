package models

type Role string

const (
	RoleDonor Role = "donor"
	RoleNGO   Role = "ngo"
	RoleAdmin Role = "admin"
)

var Roles = []Role{RoleDonor, RoleNGO, RoleAdmin}

func (r Role) Valid() bool {
	switch r {
	case RoleDonor, RoleNGO, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Email            string `json:"email"`
	Role             Role   `json:"role"`
	OrganizationName string `json:"organizationName,omitempty"`
}

// SignUpForm is what a signup endpoint expects.
type SignUpForm struct {
	Name             string
	Email            string
	Password         string
	OrganizationName string
	Description      string
}
