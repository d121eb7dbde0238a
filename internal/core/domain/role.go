package domain

import (
	"encoding/json"
	"strings"
)

// Role is a capability tag granted to a user.
type Role uint8

const (
	RoleUser Role = 1 << iota
	RoleAdmin
)

var roleNames = map[Role]string{
	RoleUser:  "ROLE_USER",
	RoleAdmin: "ROLE_ADMIN",
}

// allRoles lists roles in their canonical output order.
var allRoles = []Role{RoleUser, RoleAdmin}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "ROLE_UNKNOWN"
}

// ParseRole maps a requested role name to a Role. Anything that is not an
// admin spelling falls back to RoleUser.
func ParseRole(s string) Role {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "admin", "role_admin":
		return RoleAdmin
	default:
		return RoleUser
	}
}

// RoleSet is a set of roles stored as a bitmask.
type RoleSet uint8

// NewRoleSet builds a set from the given roles.
func NewRoleSet(roles ...Role) RoleSet {
	var s RoleSet
	for _, r := range roles {
		s = s.Add(r)
	}
	return s
}

// ParseRoleSet converts requested role names into a set. An empty request
// yields {USER}.
func ParseRoleSet(names []string) RoleSet {
	if len(names) == 0 {
		return NewRoleSet(RoleUser)
	}
	var s RoleSet
	for _, n := range names {
		s = s.Add(ParseRole(n))
	}
	return s
}

func (s RoleSet) Add(r Role) RoleSet { return s | RoleSet(r) }

func (s RoleSet) Has(r Role) bool { return s&RoleSet(r) != 0 }

func (s RoleSet) Intersects(o RoleSet) bool { return s&o != 0 }

func (s RoleSet) IsEmpty() bool { return s == 0 }

// Roles returns the members of the set in canonical order.
func (s RoleSet) Roles() []Role {
	out := make([]Role, 0, len(allRoles))
	for _, r := range allRoles {
		if s.Has(r) {
			out = append(out, r)
		}
	}
	return out
}

// Strings returns the wire names of the members, e.g. ["ROLE_USER"].
func (s RoleSet) Strings() []string {
	roles := s.Roles()
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = r.String()
	}
	return out
}

// RoleSetFromStrings rebuilds a set from stored wire names. Unknown names are
// ignored.
func RoleSetFromStrings(names []string) RoleSet {
	var s RoleSet
	for _, n := range names {
		for r, name := range roleNames {
			if strings.EqualFold(n, name) {
				s = s.Add(r)
			}
		}
	}
	return s
}

func (s RoleSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Strings())
}

func (s *RoleSet) UnmarshalJSON(b []byte) error {
	var names []string
	if err := json.Unmarshal(b, &names); err != nil {
		return err
	}
	*s = RoleSetFromStrings(names)
	return nil
}
