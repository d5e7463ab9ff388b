package utils

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"github.com/fathima-sithara/poseidon-service/internal/errs"
	"github.com/fathima-sithara/poseidon-service/internal/models"
)

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Value   string `json:"value,omitempty"`
	Message string `json:"message,omitempty"`
}

// RequestError carries field details and classifies as errs.ErrValidation.
type RequestError struct {
	Fields []ValidationError
}

func (e *RequestError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	return "validation failed: " + e.Fields[0].Message
}

func (e *RequestError) Unwrap() error { return errs.ErrValidation }

type Validator struct {
	v *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("role", func(fl validator.FieldLevel) bool {
		_, err := models.ParseRole(fl.Field().String())
		return err == nil
	})
	return &Validator{v: v}
}

// Struct validates s and returns a *RequestError on failure.
func (val *Validator) Struct(s any) error {
	err := val.v.Struct(s)
	if err == nil {
		return nil
	}
	if fields := FormatValidationErrors(err); fields != nil {
		return &RequestError{Fields: fields}
	}
	return fmt.Errorf("%w: %v", errs.ErrValidation, err)
}

// FormatValidationErrors converts validator.ValidationErrors into a slice of ValidationError
func FormatValidationErrors(err error) []ValidationError {
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return nil
	}

	out := make([]ValidationError, len(ve))
	for i, fe := range ve {
		out[i] = ValidationError{
			Field: fe.Field(),
			Tag:   fe.Tag(),
			Value: fmt.Sprintf("%v", fe.Value()),
		}
		switch fe.Tag() {
		case "required":
			out[i].Message = fmt.Sprintf("%s is required", fe.Field())
		case "email":
			out[i].Message = fmt.Sprintf("%s must be a valid email address", fe.Field())
		case "min":
			out[i].Message = fmt.Sprintf("%s must be at least %s", fe.Field(), fe.Param())
		case "max":
			out[i].Message = fmt.Sprintf("%s must be at most %s", fe.Field(), fe.Param())
		case "gt":
			out[i].Message = fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
		case "oneof":
			out[i].Message = fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param())
		case "role":
			out[i].Message = "Role must be either 'Admin' or 'User'"
		default:
			out[i].Message = fmt.Sprintf("Validation failed on field '%s' for tag '%s'", fe.Field(), fe.Tag())
		}
	}
	return out
}
