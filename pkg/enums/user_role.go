package enums

import "fmt"

// UserRole describes the two access levels of the platform.
type UserRole string

const (
	UserRoleAdmin UserRole = "admin"
	UserRoleAgent UserRole = "agent"
)

var validUserRoles = []UserRole{
	UserRoleAdmin,
	UserRoleAgent,
}

// IsValid reports whether the value matches the canonical role enum.
func (r UserRole) IsValid() bool {
	for _, candidate := range validUserRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseUserRole converts the raw string to UserRole.
func ParseUserRole(value string) (UserRole, error) {
	for _, candidate := range validUserRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid user role %q", value)
}
