package auth

import (
	"errors"

	"user-api/internal/models"

	"golang.org/x/crypto/bcrypt"
)

// CredentialHasher turns a raw password into its stored form and checks a
// raw password against a stored value.
type CredentialHasher interface {
	Hash(password string) (string, error)
	Matches(stored, password string) bool
}

type BcryptHasher struct {
	cost int
}

func NewBcryptHasher(cost int) *BcryptHasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", models.NewValidationError("password", "must be at most 72 bytes")
		}
		return "", err
	}
	return string(bytes), nil
}

func (h *BcryptHasher) Matches(stored, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(stored), []byte(password))
	return err == nil
}
