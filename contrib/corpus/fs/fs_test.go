package fs

import (
	"context"
	"errors"
	"testing"

	errorskg "github.com/sweetpotato0/socratiq/errors"
)

func TestStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := New(t.TempDir())

	if err := s.Put(ctx, "vera", "documents/cmc/scale.md", []byte("# Scale")); err != nil {
		t.Fatalf("Put error: %v", err)
	}
	if err := s.Put(ctx, "vera", "other/skip.md", []byte("x")); err != nil {
		t.Fatalf("Put error: %v", err)
	}

	objs, err := s.List(ctx, "vera", "documents/")
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(objs) != 1 || objs[0].Key != "documents/cmc/scale.md" || objs[0].Size != 7 {
		t.Fatalf("unexpected listing %+v", objs)
	}

	data, err := s.Get(ctx, "vera", "documents/cmc/scale.md")
	if err != nil || string(data) != "# Scale" {
		t.Fatalf("Get = %q, %v", data, err)
	}
	if _, err := s.Get(ctx, "vera", "documents/missing.md"); !errors.Is(err, errorskg.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListMissingCollectionIsEmpty(t *testing.T) {
	objs, err := New(t.TempDir()).List(context.Background(), "nora", "documents/")
	if err != nil || len(objs) != 0 {
		t.Fatalf("List = %v, %v", objs, err)
	}
}

func TestKeysCannotEscapeCollection(t *testing.T) {
	s := New(t.TempDir())
	if err := s.Put(context.Background(), "vera", "../../etc/passwd", []byte("x")); err != nil {
		t.Fatalf("Put error: %v", err)
	}
	// the cleaned key stays inside the collection
	if _, err := s.Get(context.Background(), "vera", "etc/passwd"); err != nil {
		t.Fatalf("expected cleaned key inside collection: %v", err)
	}
}
