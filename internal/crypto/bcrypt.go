package crypto

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// maxBcryptPassword is the number of input bytes bcrypt uses.
const maxBcryptPassword = 72

// BcryptHasher hashes passwords with bcrypt. The salt is generated and embedded by bcrypt itself.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a BcryptHasher, clamping cost into bcrypt's accepted range.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost {
		cost = bcrypt.MinCost
	}
	if cost > bcrypt.MaxCost {
		cost = bcrypt.MaxCost
	}
	return &BcryptHasher{cost: cost}
}

var _ Hasher = (*BcryptHasher)(nil)

// Cost returns the work factor used for new hashes.
func (h *BcryptHasher) Cost() int {
	return h.cost
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Verify reports whether password matches encodedHash. Passwords longer than
// bcrypt's 72-byte input never match, since bcrypt would compare only their prefix.
func (h *BcryptHasher) Verify(password, encodedHash string) (bool, error) {
	if len(password) > maxBcryptPassword {
		return false, nil
	}
	err := bcrypt.CompareHashAndPassword([]byte(encodedHash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, ErrInvalidHashFormat
	}
}
