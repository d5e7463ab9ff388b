package utils

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/fathima-sithara/poseidon-service/internal/errs"
)

// ErrPasswordTooLong is returned for passwords over bcrypt's 72 byte input limit.
var ErrPasswordTooLong = fmt.Errorf("%w: password must not exceed 72 bytes", errs.ErrValidation)

// PasswordHasher hashes with bcrypt, which salts every hash.
type PasswordHasher struct {
	cost int
}

func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{cost: cost}
}

func (h *PasswordHasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", ErrPasswordTooLong
	}
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (h *PasswordHasher) Verify(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
