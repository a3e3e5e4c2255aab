package mongo

import (
	"context"
	"errors"
	"os"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	errorskg "github.com/sweetpotato0/socratiq/errors"
)

func TestPrefixFilter(t *testing.T) {
	if len(prefixFilter("")) != 0 {
		t.Fatalf("empty prefix should match everything")
	}
	re, ok := prefixFilter("documents/a.b")["_id"].(primitive.Regex)
	if !ok || re.Pattern != `^documents/a\.b` {
		t.Fatalf("unexpected filter %#v", prefixFilter("documents/a.b"))
	}
}

// TestStore requires a running MongoDB server; set MONGODB_URI to run it.
func TestStore(t *testing.T) {
	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		t.Skip("MONGODB_URI not set, skipping MongoDB corpus tests")
	}
	ctx := context.Background()
	s, err := New(ctx, &Config{URI: uri, Database: "socratiq_test"})
	if err != nil {
		t.Skipf("Failed to connect to MongoDB: %v", err)
	}
	defer s.Close(ctx)
	defer s.db.Drop(ctx)

	if err := s.Put(ctx, "nora", "documents/ip/fto.md", []byte("# FTO")); err != nil {
		t.Fatalf("Put error: %v", err)
	}
	objs, err := s.List(ctx, "nora", "documents/")
	if err != nil || len(objs) != 1 || objs[0].Size != 5 {
		t.Fatalf("List = %+v, %v", objs, err)
	}
	body, err := s.Get(ctx, "nora", "documents/ip/fto.md")
	if err != nil || string(body) != "# FTO" {
		t.Fatalf("Get = %q, %v", body, err)
	}
	if _, err := s.Get(ctx, "nora", "missing"); !errors.Is(err, errorskg.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
