package domain

import "strings"

type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

// DefaultRole is granted to every newly created account.
const DefaultRole = RoleUser

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// ParseRoles normalizes role names, dropping unknown ones and duplicates.
func ParseRoles(names []string) []Role {
	out := make([]Role, 0, len(names))
	seen := make(map[Role]struct{}, len(names))
	for _, n := range names {
		r := Role(strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(n), "ROLE_")))
		if !r.Valid() {
			continue
		}
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}

func RoleNames(roles []Role) []string {
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = string(r)
	}
	return out
}

// HasAnyRole reports whether granted contains at least one of required.
// An empty required set allows everyone.
func HasAnyRole(granted []Role, required ...Role) bool {
	if len(required) == 0 {
		return true
	}
	for _, g := range granted {
		for _, r := range required {
			if g == r {
				return true
			}
		}
	}
	return false
}
