// Package errs holds the error taxonomy shared by every layer. Specific
// errors wrap one of these so handlers can classify them with errors.Is.
package errs

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation error")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrRateLimited  = errors.New("rate limited")
	ErrInternal     = errors.New("internal error")
)
