package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/greenhouse/plants-api/internal/core/domain"
	"github.com/greenhouse/plants-api/internal/core/ports"
	"github.com/greenhouse/plants-api/pkg/metrics"
)

// defaultUsers are inserted by SeedDefaultUsers into an empty credential store.
var defaultUsers = []ports.CreateUserInput{
	{Username: "admin", Password: "adminpass", Roles: []string{domain.RoleAdmin}},
	{Username: "client", Password: "clientpass", Roles: []string{domain.RoleClient}},
}

// AuthService implements login, user management and startup seeding.
type AuthService struct {
	users  ports.UserRepository
	hasher ports.PasswordHasher
	tokens ports.TokenService
	log    zerolog.Logger

	// dummyHash is compared against when the username is unknown so that the
	// response time does not reveal whether the account exists.
	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(users ports.UserRepository, hasher ports.PasswordHasher, tokens ports.TokenService, log zerolog.Logger) *AuthService {
	return &AuthService{users: users, hasher: hasher, tokens: tokens, log: log}
}

// Login verifies the credentials and returns a signed access token carrying
// the user's stored roles. Unknown users and wrong passwords are reported
// identically as domain.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	if username == "" || password == "" {
		metrics.LoginAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
		return "", domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			s.hasher.Verify(password, s.fallbackHash())
			metrics.LoginAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
			return "", domain.ErrInvalidCredentials
		}
		metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("login: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		metrics.LoginAttemptsTotal.WithLabelValues("invalid_credentials").Inc()
		return "", domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.Username, user.Roles)
	if err != nil {
		metrics.LoginAttemptsTotal.WithLabelValues("error").Inc()
		return "", fmt.Errorf("login: %w", err)
	}

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	s.log.Info().Str("username", user.Username).Strs("roles", user.Roles).Msg("user logged in")
	return token, nil
}

// CreateUser hashes the password and stores a new account.
func (s *AuthService) CreateUser(ctx context.Context, input ports.CreateUserInput) (*domain.User, error) {
	if strings.TrimSpace(input.Username) == "" || input.Password == "" {
		return nil, domain.ErrInvalidUser
	}

	if _, err := s.users.FindByUsername(ctx, input.Username); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("create user: %w", err)
	}

	user, err := s.newUser(input, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("username", created.Username).Strs("roles", created.Roles).Msg("user created")
	return created, nil
}

func (s *AuthService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// SeedDefaultUsers inserts the default accounts when the credential store is
// empty and reports how many were written. On a non-empty store it performs
// no writes.
func (s *AuthService) SeedDefaultUsers(ctx context.Context) (int, error) {
	count, err := s.users.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("seed users: %w", err)
	}
	if count > 0 {
		s.log.Info().Int64("count", count).Msg("users already present, skipping seed")
		return 0, nil
	}

	now := time.Now().UTC()
	users := make([]*domain.User, 0, len(defaultUsers))
	for _, in := range defaultUsers {
		u, err := s.newUser(in, now)
		if err != nil {
			return 0, fmt.Errorf("seed users: %w", err)
		}
		users = append(users, u)
	}

	if err := s.users.CreateMany(ctx, users); err != nil {
		// Another instance seeded between our count and insert.
		if errors.Is(err, domain.ErrUserExists) {
			s.log.Info().Msg("users seeded concurrently, skipping seed")
			return 0, nil
		}
		return 0, fmt.Errorf("seed users: %w", err)
	}

	metrics.UsersSeededTotal.Add(float64(len(users)))
	s.log.Info().Int("count", len(users)).Msg("default users seeded")
	return len(users), nil
}

func (s *AuthService) newUser(in ports.CreateUserInput, now time.Time) (*domain.User, error) {
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		if errors.Is(err, domain.ErrPasswordTooLong) {
			return nil, err
		}
		return nil, fmt.Errorf("hash password: %w", err)
	}

	roles := in.Roles
	if roles == nil {
		roles = []string{}
	}

	return &domain.User{
		Username:     in.Username,
		PasswordHash: hash,
		Roles:        roles,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func (s *AuthService) fallbackHash() string {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash("plants-api-unknown-user")
		if err != nil {
			s.log.Warn().Err(err).Msg("failed to build fallback password hash")
			return
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}
