package services

import (
	"fmt"

	"github.com/fathima-sithara/poseidon-service/internal/errs"
)

var (
	ErrEmailTaken         = fmt.Errorf("%w: email is already registered", errs.ErrValidation)
	ErrUsernameTaken      = fmt.Errorf("%w: username is already taken", errs.ErrValidation)
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", errs.ErrUnauthorized)
	ErrForbidden          = fmt.Errorf("%w: insufficient role", errs.ErrForbidden)
	ErrInvalidRange       = fmt.Errorf("%w: minimum must not exceed maximum", errs.ErrValidation)
)

// PasswordHasher must produce salted, slow hashes.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) bool
}
