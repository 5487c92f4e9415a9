package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/greenhouse/plants-api/internal/core/domain"
	"github.com/greenhouse/plants-api/internal/core/ports"
)

type stubUserRepo struct {
	users      map[string]*domain.User
	findErr    error // if set, FindByUsername returns this error
	countErr   error
	createMany error // if set, CreateMany returns this error
	writes     int
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.Roles = slices.Clone(u.Roles)
	return &clone
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	u, ok := r.users[username]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubUserRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, exists := r.users[user.Username]; exists {
		return nil, domain.ErrUserExists
	}
	copy := cloneUser(user)
	if copy.ID == "" {
		copy.ID = user.Username
	}
	r.users[copy.Username] = cloneUser(copy)
	r.writes++
	return cloneUser(copy), nil
}

func (r *stubUserRepo) CreateMany(ctx context.Context, users []*domain.User) error {
	if r.createMany != nil {
		return r.createMany
	}
	for _, u := range users {
		if _, err := r.Create(ctx, u); err != nil {
			return err
		}
	}
	return nil
}

func (r *stubUserRepo) Count(_ context.Context) (int64, error) {
	if r.countErr != nil {
		return 0, r.countErr
	}
	return int64(len(r.users)), nil
}

func (r *stubUserRepo) List(_ context.Context) ([]*domain.User, error) {
	out := make([]*domain.User, 0, len(r.users))
	for _, u := range r.users {
		out = append(out, cloneUser(u))
	}
	return out, nil
}

func newTestAuthService(repo ports.UserRepository) (*AuthService, *TokenService) {
	tokens := NewTokenService("secret", AccessTokenTTL)
	return NewAuthService(repo, NewBcryptHasher(bcrypt.MinCost), tokens, zerolog.Nop()), tokens
}

func TestAuthService_CreateUser_Success(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestAuthService(repo)

	user, err := svc.CreateUser(context.Background(), ports.CreateUserInput{
		Username: "alice",
		Password: "pass123",
		Roles:    []string{domain.RoleManager},
	})
	if err != nil {
		t.Fatalf("CreateUser returned error: %v", err)
	}
	if user.PasswordHash == "pass123" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if !slices.Equal(user.Roles, []string{domain.RoleManager}) {
		t.Fatalf("unexpected roles: %v", user.Roles)
	}
}

func TestAuthService_CreateUser_NilRolesStoredEmpty(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestAuthService(repo)

	user, err := svc.CreateUser(context.Background(), ports.CreateUserInput{Username: "nobody", Password: "pw"})
	if err != nil {
		t.Fatalf("CreateUser returned error: %v", err)
	}
	if user.Roles == nil || len(user.Roles) != 0 {
		t.Fatalf("expected empty non-nil roles, got %#v", user.Roles)
	}
}

func TestAuthService_CreateUser_Validation(t *testing.T) {
	svc, _ := newTestAuthService(newStubUserRepo())

	for _, in := range []ports.CreateUserInput{
		{Password: "pw"},
		{Username: "   ", Password: "pw"},
		{Username: "bob"},
	} {
		if _, err := svc.CreateUser(context.Background(), in); err != domain.ErrInvalidUser {
			t.Fatalf("%+v: expected ErrInvalidUser, got %v", in, err)
		}
	}
}

func TestAuthService_CreateUser_PasswordTooLong(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestAuthService(repo)

	_, err := svc.CreateUser(context.Background(), ports.CreateUserInput{
		Username: "bob",
		Password: strings.Repeat("é", MaxPasswordBytes),
	})
	if !errors.Is(err, domain.ErrPasswordTooLong) {
		t.Fatalf("expected ErrPasswordTooLong, got %v", err)
	}
	if repo.writes != 0 {
		t.Fatalf("expected no write, got %d", repo.writes)
	}
}

func TestAuthService_CreateUser_Duplicate(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestAuthService(repo)

	_, _ = svc.CreateUser(context.Background(), ports.CreateUserInput{Username: "bob", Password: "pass"})
	if _, err := svc.CreateUser(context.Background(), ports.CreateUserInput{Username: "bob", Password: "pass2"}); err != domain.ErrUserExists {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
	if repo.writes != 1 {
		t.Fatalf("expected a single write, got %d", repo.writes)
	}
}

func TestAuthService_CreateUser_StorageError(t *testing.T) {
	repo := newStubUserRepo()
	repo.findErr = fmt.Errorf("%w: connection refused", domain.ErrStorage)
	svc, _ := newTestAuthService(repo)

	_, err := svc.CreateUser(context.Background(), ports.CreateUserInput{Username: "bob", Password: "pass"})
	if !errors.Is(err, domain.ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", err)
	}
}

func TestAuthService_Login_RoundTrip(t *testing.T) {
	repo := newStubUserRepo()
	svc, tokens := newTestAuthService(repo)

	accounts := []ports.CreateUserInput{
		{Username: "carol", Password: "s3cret", Roles: []string{domain.RoleAdmin}},
		{Username: "dave", Password: "hunter2", Roles: []string{domain.RoleManager, domain.RoleClient}},
		{Username: "erin", Password: "pw", Roles: []string{}},
	}
	for _, a := range accounts {
		if _, err := svc.CreateUser(context.Background(), a); err != nil {
			t.Fatalf("create %s: %v", a.Username, err)
		}
	}

	for _, a := range accounts {
		token, err := svc.Login(context.Background(), a.Username, a.Password)
		if err != nil {
			t.Fatalf("login %s: %v", a.Username, err)
		}
		claims, err := tokens.Verify(token)
		if err != nil {
			t.Fatalf("verify %s: %v", a.Username, err)
		}
		if claims.Subject != a.Username {
			t.Fatalf("expected subject %s, got %s", a.Username, claims.Subject)
		}
		if !slices.Equal(claims.Roles, a.Roles) {
			t.Fatalf("expected roles %v, got %v", a.Roles, claims.Roles)
		}
	}
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestAuthService(repo)

	_, _ = svc.CreateUser(context.Background(), ports.CreateUserInput{Username: "dave", Password: "goodpass"})
	if _, err := svc.Login(context.Background(), "dave", "badpass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UnknownUserIndistinguishable(t *testing.T) {
	svc, _ := newTestAuthService(newStubUserRepo())

	if _, err := svc.Login(context.Background(), "ghost", "pass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if svc.dummyHash == "" {
		t.Fatalf("expected fallback hash comparison for unknown user")
	}
}

func TestAuthService_Login_EmptyFields(t *testing.T) {
	svc, _ := newTestAuthService(newStubUserRepo())

	if _, err := svc.Login(context.Background(), "", "pass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login(context.Background(), "alice", ""); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_StorageError(t *testing.T) {
	repo := newStubUserRepo()
	repo.findErr = fmt.Errorf("%w: timeout", domain.ErrStorage)
	svc, _ := newTestAuthService(repo)

	_, err := svc.Login(context.Background(), "alice", "pass")
	if !errors.Is(err, domain.ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", err)
	}
	if errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("storage failure must not be reported as invalid credentials")
	}
}

func TestAuthService_SeedDefaultUsers_Idempotent(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestAuthService(repo)

	n, err := svc.SeedDefaultUsers(context.Background())
	if err != nil {
		t.Fatalf("first seed: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 users seeded, got %d", n)
	}

	n, err = svc.SeedDefaultUsers(context.Background())
	if err != nil {
		t.Fatalf("second seed: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected no users seeded on second run, got %d", n)
	}
	if len(repo.users) != 2 || repo.writes != 2 {
		t.Fatalf("expected exactly 2 users after two seeds, got %d (writes %d)", len(repo.users), repo.writes)
	}

	if _, err := svc.Login(context.Background(), "admin", "adminpass"); err != nil {
		t.Fatalf("seeded admin cannot log in: %v", err)
	}
	if _, err := svc.Login(context.Background(), "client", "clientpass"); err != nil {
		t.Fatalf("seeded client cannot log in: %v", err)
	}
}

func TestAuthService_SeedDefaultUsers_NonEmptyStore(t *testing.T) {
	repo := newStubUserRepo()
	svc, _ := newTestAuthService(repo)
	_, _ = svc.CreateUser(context.Background(), ports.CreateUserInput{Username: "existing", Password: "pw"})

	n, err := svc.SeedDefaultUsers(context.Background())
	if err != nil || n != 0 {
		t.Fatalf("expected no-op seed, got n=%d err=%v", n, err)
	}
	if _, ok := repo.users["admin"]; ok {
		t.Fatalf("seed must not write into a non-empty store")
	}
}

func TestAuthService_SeedDefaultUsers_ConcurrentSeed(t *testing.T) {
	repo := newStubUserRepo()
	repo.createMany = domain.ErrUserExists
	svc, _ := newTestAuthService(repo)

	n, err := svc.SeedDefaultUsers(context.Background())
	if err != nil || n != 0 {
		t.Fatalf("expected lost race to be a no-op, got n=%d err=%v", n, err)
	}
}

func TestAuthService_SeedDefaultUsers_CountError(t *testing.T) {
	repo := newStubUserRepo()
	repo.countErr = fmt.Errorf("%w: unreachable", domain.ErrStorage)
	svc, _ := newTestAuthService(repo)

	if _, err := svc.SeedDefaultUsers(context.Background()); !errors.Is(err, domain.ErrStorage) {
		t.Fatalf("expected ErrStorage, got %v", err)
	}
}
