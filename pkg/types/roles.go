package types

import "strings"

// Role is the closed set of staff roles understood by go-fieldlog.
// Anything outside the set is treated as unknown and resolves to an
// empty visibility scope, never to a widened one.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleServer  Role = "server"
)

// ParseRole normalizes raw role input into the closed enum. The second
// return value reports whether the input named a known role.
func ParseRole(raw string) (Role, bool) {
	switch Role(strings.ToLower(strings.TrimSpace(raw))) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleManager:
		return RoleManager, true
	case RoleServer:
		return RoleServer, true
	default:
		return "", false
	}
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleServer:
		return true
	default:
		return false
	}
}

func (r Role) String() string { return string(r) }
