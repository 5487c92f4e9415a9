package ports

import (
	"context"

	"github.com/greenhouse/plants-api/internal/core/domain"
)

// UserRepository is the credential store.
//
// Implementations return domain.ErrUserNotFound for unknown usernames,
// domain.ErrUserExists on a unique-username violation and wrap any other
// persistence failure with domain.ErrStorage.
type UserRepository interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// CreateMany inserts users in a single call. Used by startup seeding.
	CreateMany(ctx context.Context, users []*domain.User) error
	Count(ctx context.Context) (int64, error)
	List(ctx context.Context) ([]*domain.User, error)
}
