package domain

// RoleSet is a flat set of role names. Membership is exact and
// case-sensitive; there is no inheritance between roles.
type RoleSet map[string]struct{}

func NewRoleSet(roles ...string) RoleSet {
	s := make(RoleSet, len(roles))
	for _, r := range roles {
		s[r] = struct{}{}
	}
	return s
}

// Contains reports whether role is a member of the set.
func (s RoleSet) Contains(role string) bool {
	_, ok := s[role]
	return ok
}

// Intersects reports whether at least one of roles is a member of the set.
func (s RoleSet) Intersects(roles []string) bool {
	for _, r := range roles {
		if s.Contains(r) {
			return true
		}
	}
	return false
}
