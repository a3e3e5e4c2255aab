package middleware

import (
	"context"
	"errors"
	"testing"
)

type recordingMiddleware struct {
	name  string
	err   error
	order *[]string
}

func (m *recordingMiddleware) Name() string { return m.name }

func (m *recordingMiddleware) Execute(ctx *Context, next Handler) error {
	*m.order = append(*m.order, m.name)
	if m.err != nil {
		return m.err
	}
	return next(ctx)
}

func TestChain(t *testing.T) {
	t.Run("empty chain executes final handler", func(t *testing.T) {
		executed := false
		err := NewChain().Execute(NewContext(context.Background(), "sophie", nil), func(*Context) error {
			executed = true
			return nil
		})
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if !executed {
			t.Error("final handler was not executed")
		}
	})

	t.Run("middleware chain executes in order", func(t *testing.T) {
		var order []string
		chain := NewChain(&recordingMiddleware{name: "m1", order: &order}).
			Add(&recordingMiddleware{name: "m2", order: &order})

		_ = chain.Execute(NewContext(context.Background(), "sophie", nil), func(*Context) error {
			order = append(order, "final")
			return nil
		})

		expected := []string{"m1", "m2", "final"}
		if len(order) != len(expected) {
			t.Fatalf("expected %v, got %v", expected, order)
		}
		for i, e := range expected {
			if order[i] != e {
				t.Errorf("expected step %d to be %s, got %s", i, e, order[i])
			}
		}
		if names := chain.Names(); len(names) != 2 || names[1] != "m2" {
			t.Errorf("unexpected names %v", names)
		}
	})

	t.Run("error stops chain execution", func(t *testing.T) {
		var order []string
		chain := NewChain(
			&recordingMiddleware{name: "m1", err: errors.New("test error"), order: &order},
			&recordingMiddleware{name: "m2", order: &order},
		)
		finalCalled := false
		err := chain.Execute(NewContext(context.Background(), "sophie", nil), func(*Context) error {
			finalCalled = true
			return nil
		})
		if err == nil {
			t.Error("expected error from middleware")
		}
		if finalCalled || len(order) != 1 {
			t.Errorf("chain continued after error: %v", order)
		}
	})
}

func TestNewContextDefaults(t *testing.T) {
	//nolint:staticcheck // nil context is accepted
	c := NewContext(nil, "agent:VERA", []byte(`{}`))
	if c.Context() == nil || c.Metadata == nil {
		t.Fatal("expected usable defaults")
	}
	type key struct{}
	c.SetContext(context.WithValue(context.Background(), key{}, "v"))
	if c.Context().Value(key{}) != "v" {
		t.Fatal("context not replaced")
	}
}
