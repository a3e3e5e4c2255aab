package validator

import (
	"context"
	"errors"
	"testing"

	errorskg "github.com/sweetpotato0/socratiq/errors"
	"github.com/sweetpotato0/socratiq/middleware"
)

func TestPayloadValidator(t *testing.T) {
	t.Run("valid payload passes through", func(t *testing.T) {
		v := NewPayloadValidator(MaxBytes(16))
		executed := false
		err := v.Execute(middleware.NewContext(context.Background(), "sophie", []byte(`{"query":"x"}`)), func(*middleware.Context) error {
			executed = true
			return nil
		})
		if err != nil || !executed {
			t.Errorf("expected pass-through, got %v %v", err, executed)
		}
	})

	t.Run("oversized payload is a validation error", func(t *testing.T) {
		v := NewPayloadValidator(MaxBytes(4))
		executed := false
		err := v.Execute(middleware.NewContext(context.Background(), "sophie", []byte(`{"query":"x"}`)), func(*middleware.Context) error {
			executed = true
			return nil
		})
		if executed {
			t.Error("handler should not be executed for invalid payload")
		}
		if errorskg.StatusOf(err) != 400 || !errors.Is(err, middleware.ErrPayloadTooLarge) {
			t.Errorf("unexpected error %v", err)
		}
	})

	t.Run("non-positive limit accepts anything", func(t *testing.T) {
		if err := MaxBytes(0)(make([]byte, 1<<20)); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}
