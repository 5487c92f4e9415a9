package domain

import "time"

// Claims is the decoded payload of a verified access token.
type Claims struct {
	Subject   string
	Roles     []string
	IssuedAt  time.Time
	ExpiresAt time.Time
	TokenID   string
}

// HasAnyRole reports whether the token holder has at least one role in allowed.
// An empty allowed set admits any authenticated identity.
func (c *Claims) HasAnyRole(allowed RoleSet) bool {
	if len(allowed) == 0 {
		return true
	}
	return allowed.Intersects(c.Roles)
}
