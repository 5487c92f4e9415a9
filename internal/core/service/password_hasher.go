package service

import (
	"golang.org/x/crypto/bcrypt"

	"github.com/greenhouse/plants-api/internal/core/domain"
)

// MaxPasswordBytes is bcrypt's key limit. Longer input would be truncated.
const MaxPasswordBytes = 72

// BcryptHasher hashes passwords with bcrypt. Each hash carries its own random
// salt and cost, and verification compares in constant time.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a hasher using cost, falling back to
// bcrypt.DefaultCost when cost is outside bcrypt's accepted range.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash rejects passwords longer than MaxPasswordBytes with
// domain.ErrPasswordTooLong.
func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	if len(plaintext) > MaxPasswordBytes {
		return "", domain.ErrPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify fails for input over MaxPasswordBytes, since bcrypt ignores every
// byte past the limit.
func (h *BcryptHasher) Verify(plaintext, hash string) bool {
	if len(plaintext) > MaxPasswordBytes {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
