package ports

import (
	"context"

	"github.com/greenhouse/plants-api/internal/core/domain"
)

// CreateUserInput carries the data for a new account.
type CreateUserInput struct {
	Username string
	Password string
	Roles    []string
}

type AuthService interface {
	Login(ctx context.Context, username, password string) (string, error)
	CreateUser(ctx context.Context, input CreateUserInput) (*domain.User, error)
	ListUsers(ctx context.Context) ([]*domain.User, error)
	SeedDefaultUsers(ctx context.Context) (int, error)
}

// TokenVerifier decodes and validates access tokens. It must not touch storage.
type TokenVerifier interface {
	Verify(token string) (*domain.Claims, error)
}

// TokenService issues and verifies signed access tokens.
type TokenService interface {
	TokenVerifier
	Issue(subject string, roles []string) (string, error)
}

// PasswordHasher is a one-way salted hash with constant-time verification.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}
