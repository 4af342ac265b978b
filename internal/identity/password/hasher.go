// Package password provides one-way password hashing with a tunable work factor.
package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Hasher hashes and verifies passwords using bcrypt. Each hash carries its
// own random salt, so hashing the same password twice yields different
// digests.
type Hasher struct {
	cost int
}

// NewHasher creates a hasher with the given bcrypt cost. Costs outside the
// valid bcrypt range fall back to bcrypt.DefaultCost.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash returns the bcrypt digest of plaintext.
func (h *Hasher) Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(digest), nil
}

// Verify reports whether plaintext matches digest. A malformed digest or a
// mismatch both return false; only unexpected bcrypt failures return an error.
func (h *Hasher) Verify(plaintext, digest string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext))
	return err == nil
}

// IsHashTooWeak reports whether digest was produced with a lower cost than
// the hasher is configured with. Callers may re-hash on next successful login.
func (h *Hasher) IsHashTooWeak(digest string) bool {
	cost, err := bcrypt.Cost([]byte(digest))
	if err != nil {
		return false
	}
	return cost < h.cost
}

// Validation errors.
var (
	ErrEmptyPassword   = errors.New("password must not be empty")
	ErrPasswordTooLong = errors.New("password longer than 72 bytes")
)

// Validate rejects passwords that must never reach the hash function.
func Validate(plaintext string) error {
	if plaintext == "" {
		return ErrEmptyPassword
	}
	// bcrypt silently truncates beyond 72 bytes; refuse instead.
	if len(plaintext) > 72 {
		return ErrPasswordTooLong
	}
	return nil
}
