package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/greenhouse/plants-api/internal/core/domain"
)

// AccessTokenTTL is the fixed lifetime of an access token.
const AccessTokenTTL = time.Hour

// accessClaims is the JWT payload. Roles travel inside the token so that
// verification never needs the credential store.
type accessClaims struct {
	Roles []string `json:"roles"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies HS256-signed access tokens.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// TokenOption customises a TokenService.
type TokenOption func(*TokenService)

// WithClock overrides the time source used for issuing and verifying.
func WithClock(now func() time.Time) TokenOption {
	return func(s *TokenService) { s.now = now }
}

func NewTokenService(secret string, ttl time.Duration, opts ...TokenOption) *TokenService {
	if ttl <= 0 {
		ttl = AccessTokenTTL
	}
	s := &TokenService{secret: []byte(secret), ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Issue signs a token for subject carrying roles. The expiry is exactly ttl
// after the issued-at instant, both at second precision.
func (s *TokenService) Issue(subject string, roles []string) (string, error) {
	if roles == nil {
		roles = []string{}
	}
	issuedAt := s.now().UTC().Truncate(time.Second)
	claims := accessClaims{
		Roles: roles,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.ttl)),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature first and the expiry second, so a tampered
// token is always reported as malformed. A token stays valid through the
// exact expiry instant.
func (s *TokenService) Verify(token string) (*domain.Claims, error) {
	if token == "" {
		return nil, domain.ErrMissingToken
	}

	var claims accessClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithStrictDecoding(),
		jwt.WithoutClaimsValidation(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedToken, err)
	}
	if claims.Subject == "" || claims.ExpiresAt == nil || claims.IssuedAt == nil {
		return nil, fmt.Errorf("%w: missing required claims", domain.ErrMalformedToken)
	}

	if s.now().After(claims.ExpiresAt.Time) {
		return nil, domain.ErrExpiredToken
	}

	return &domain.Claims{
		Subject:   claims.Subject,
		Roles:     claims.Roles,
		IssuedAt:  claims.IssuedAt.Time.UTC(),
		ExpiresAt: claims.ExpiresAt.Time.UTC(),
		TokenID:   claims.ID,
	}, nil
}
