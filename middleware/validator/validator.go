package validator

import (
	"fmt"

	errorskg "github.com/sweetpotato0/socratiq/errors"
	"github.com/sweetpotato0/socratiq/middleware"
)

// ValidatorFunc validates the raw payload
type ValidatorFunc func([]byte) error

// PayloadValidator rejects payloads before they are decoded
type PayloadValidator struct {
	validator ValidatorFunc
}

// NewPayloadValidator creates an input validation middleware
func NewPayloadValidator(validator ValidatorFunc) *PayloadValidator {
	return &PayloadValidator{validator: validator}
}

// Name returns the middleware name
func (m *PayloadValidator) Name() string {
	return "PayloadValidator"
}

// Execute validates the payload
func (m *PayloadValidator) Execute(ctx *middleware.Context, next middleware.Handler) error {
	if m.validator != nil {
		if err := m.validator(ctx.Payload); err != nil {
			return err
		}
	}
	return next(ctx)
}

// MaxBytes rejects payloads longer than n bytes with a validation error.
// A non-positive n accepts everything.
func MaxBytes(n int) ValidatorFunc {
	return func(payload []byte) error {
		if n > 0 && len(payload) > n {
			return &errorskg.Error{
				Kind:    errorskg.KindValidation,
				Message: fmt.Sprintf("Request body too large: %d bytes exceeds %d", len(payload), n),
				Err:     middleware.ErrPayloadTooLarge,
			}
		}
		return nil
	}
}
