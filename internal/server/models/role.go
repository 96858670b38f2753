package models

// Role is an ordered privilege level; a higher value always outranks a lower
// one.
type Role int

const (
	RoleUser       Role = 1
	RoleModerator  Role = 2
	RoleAdmin      Role = 3
	RoleSuperAdmin Role = 4
	RoleOwner      Role = 5
)

var roleNames = map[Role]string{
	RoleUser:       "User",
	RoleModerator:  "Moderator",
	RoleAdmin:      "Admin",
	RoleSuperAdmin: "SuperAdmin",
	RoleOwner:      "Owner",
}

// Valid reports whether r is one of the five defined roles.
func (r Role) Valid() bool {
	_, ok := roleNames[r]
	return ok
}

// Name returns the display name for the role, or "Unknown" for values
// outside the defined range.
func (r Role) Name() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "Unknown"
}
