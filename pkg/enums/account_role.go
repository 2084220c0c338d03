package enums

import "fmt"

// AccountRole represents a marketplace account role.
type AccountRole string

const (
	AccountRoleFan    AccountRole = "fan"
	AccountRoleArtist AccountRole = "artist"
	AccountRoleLabel  AccountRole = "label"
	AccountRoleAdmin  AccountRole = "admin"
)

var validAccountRoles = []AccountRole{
	AccountRoleFan,
	AccountRoleArtist,
	AccountRoleLabel,
	AccountRoleAdmin,
}

// String implements fmt.Stringer.
func (r AccountRole) String() string {
	return string(r)
}

// IsValid reports whether the value is a known AccountRole.
func (r AccountRole) IsValid() bool {
	for _, candidate := range validAccountRoles {
		if candidate == r {
			return true
		}
	}
	return false
}

// IsPartner reports whether the role belongs to the partner login surface.
func (r AccountRole) IsPartner() bool {
	switch r {
	case AccountRoleArtist, AccountRoleLabel, AccountRoleAdmin:
		return true
	}
	return false
}

// ParseAccountRole converts raw input into an AccountRole.
func ParseAccountRole(value string) (AccountRole, error) {
	for _, candidate := range validAccountRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid account role %q", value)
}
