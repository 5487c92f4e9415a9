package service

import (
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/greenhouse/plants-api/internal/core/domain"
)

var tokenEpoch = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestTokenService_IssueVerify(t *testing.T) {
	svc := NewTokenService("secret", AccessTokenTTL, WithClock(fixedClock(tokenEpoch)))

	token, err := svc.Issue("alice", []string{"admin", "manager"})
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	claims, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if claims.Subject != "alice" {
		t.Fatalf("unexpected subject: %s", claims.Subject)
	}
	if !slices.Equal(claims.Roles, []string{"admin", "manager"}) {
		t.Fatalf("unexpected roles: %v", claims.Roles)
	}
	if !claims.IssuedAt.Equal(tokenEpoch) {
		t.Fatalf("unexpected iat: %v", claims.IssuedAt)
	}
	if got := claims.ExpiresAt.Sub(claims.IssuedAt); got != time.Hour {
		t.Fatalf("expected exp = iat + 1h, got %v", got)
	}
	if claims.TokenID == "" {
		t.Fatalf("expected jti to be set")
	}
}

func TestTokenService_Issue_NilRoles(t *testing.T) {
	svc := NewTokenService("secret", AccessTokenTTL)

	token, err := svc.Issue("bob", nil)
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}
	claims, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if len(claims.Roles) != 0 {
		t.Fatalf("expected no roles, got %v", claims.Roles)
	}
}

func TestTokenService_Verify_Missing(t *testing.T) {
	svc := NewTokenService("secret", AccessTokenTTL)
	if _, err := svc.Verify(""); !errors.Is(err, domain.ErrMissingToken) {
		t.Fatalf("expected ErrMissingToken, got %v", err)
	}
}

func TestTokenService_Verify_Garbled(t *testing.T) {
	svc := NewTokenService("secret", AccessTokenTTL)
	for _, tok := range []string{"not-a-token", "a.b.c", "Bearer", "...."} {
		if _, err := svc.Verify(tok); !errors.Is(err, domain.ErrMalformedToken) {
			t.Fatalf("%q: expected ErrMalformedToken, got %v", tok, err)
		}
	}
}

func TestTokenService_Verify_AnyByteMutation(t *testing.T) {
	svc := NewTokenService("secret", AccessTokenTTL)
	token, err := svc.Issue("alice", []string{"client"})
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	for i := range len(token) {
		b := []byte(token)
		if b[i] == 'A' {
			b[i] = 'B'
		} else {
			b[i] = 'A'
		}
		if _, err := svc.Verify(string(b)); !errors.Is(err, domain.ErrMalformedToken) {
			t.Fatalf("mutation at byte %d: expected ErrMalformedToken, got %v", i, err)
		}
	}
}

func TestTokenService_Verify_WrongSecret(t *testing.T) {
	issuer := NewTokenService("secret-a", AccessTokenTTL)
	verifier := NewTokenService("secret-b", AccessTokenTTL)

	token, _ := issuer.Issue("alice", []string{"admin"})
	if _, err := verifier.Verify(token); !errors.Is(err, domain.ErrMalformedToken) {
		t.Fatalf("expected ErrMalformedToken, got %v", err)
	}
}

func TestTokenService_Verify_RejectsOtherAlgorithms(t *testing.T) {
	svc := NewTokenService("secret", AccessTokenTTL)

	claims := jwt.MapClaims{
		"sub":   "mallory",
		"roles": []string{"admin"},
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(time.Hour).Unix(),
	}
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none token: %v", err)
	}
	if _, err := svc.Verify(none); !errors.Is(err, domain.ErrMalformedToken) {
		t.Fatalf("alg=none: expected ErrMalformedToken, got %v", err)
	}

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign HS512 token: %v", err)
	}
	if _, err := svc.Verify(hs512); !errors.Is(err, domain.ErrMalformedToken) {
		t.Fatalf("alg=HS512: expected ErrMalformedToken, got %v", err)
	}
}

func TestTokenService_Verify_MissingClaims(t *testing.T) {
	svc := NewTokenService("secret", AccessTokenTTL)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"roles": []string{"admin"},
	}).SignedString([]byte("secret"))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	if _, err := svc.Verify(token); !errors.Is(err, domain.ErrMalformedToken) {
		t.Fatalf("expected ErrMalformedToken, got %v", err)
	}
}

func TestTokenService_Verify_ExpiryBoundary(t *testing.T) {
	issuer := NewTokenService("secret", AccessTokenTTL, WithClock(fixedClock(tokenEpoch)))
	token, err := issuer.Issue("alice", []string{"client"})
	if err != nil {
		t.Fatalf("Issue returned error: %v", err)
	}

	cases := []struct {
		name    string
		at      time.Time
		wantErr error
	}{
		{"just issued", tokenEpoch, nil},
		{"one second before expiry", tokenEpoch.Add(time.Hour - time.Second), nil},
		{"exact expiry instant", tokenEpoch.Add(time.Hour), nil},
		{"one nanosecond after expiry", tokenEpoch.Add(time.Hour + time.Nanosecond), domain.ErrExpiredToken},
		{"one second after expiry", tokenEpoch.Add(time.Hour + time.Second), domain.ErrExpiredToken},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			verifier := NewTokenService("secret", AccessTokenTTL, WithClock(fixedClock(tc.at)))
			_, err := verifier.Verify(token)
			if tc.wantErr == nil && err != nil {
				t.Fatalf("expected token to verify, got %v", err)
			}
			if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestTokenService_Verify_TamperedExpiredIsMalformed(t *testing.T) {
	issuer := NewTokenService("secret", AccessTokenTTL, WithClock(fixedClock(tokenEpoch)))
	token, _ := issuer.Issue("alice", []string{"client"})

	verifier := NewTokenService("secret", AccessTokenTTL, WithClock(fixedClock(tokenEpoch.Add(2*time.Hour))))
	if _, err := verifier.Verify(token + "x"); !errors.Is(err, domain.ErrMalformedToken) {
		t.Fatalf("expected ErrMalformedToken, got %v", err)
	}
}

func TestTokenService_IssuedAtTruncatedToSecond(t *testing.T) {
	svc := NewTokenService("secret", AccessTokenTTL, WithClock(fixedClock(tokenEpoch.Add(750*time.Millisecond))))
	token, _ := svc.Issue("alice", nil)

	claims, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if !claims.IssuedAt.Equal(tokenEpoch) {
		t.Fatalf("expected iat %v, got %v", tokenEpoch, claims.IssuedAt)
	}
	if !claims.ExpiresAt.Equal(tokenEpoch.Add(time.Hour)) {
		t.Fatalf("expected exp %v, got %v", tokenEpoch.Add(time.Hour), claims.ExpiresAt)
	}
}
