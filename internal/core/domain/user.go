package domain

import "time"

const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleClient  = "client"
)

// User models an account that can log in and receive an access token.
type User struct {
	ID           string    `json:"id,omitempty"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Roles        []string  `json:"roles"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
