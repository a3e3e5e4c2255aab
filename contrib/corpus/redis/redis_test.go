package redis

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/redis/go-redis/v9"

	errorskg "github.com/sweetpotato0/socratiq/errors"
)

// TestStore requires a running Redis server; set REDIS_ADDR to run it.
func TestStore(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set, skipping Redis corpus tests")
	}
	ctx := context.Background()
	client := redis.NewClient(&redis.Options{Addr: addr, DB: 15})
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Failed to connect to Redis: %v", err)
	}
	s := NewWithClient(client, "socratiq:test:")
	defer s.Close()
	defer client.FlushDB(ctx)

	if err := s.Put(ctx, "clia", "documents/market/size.md", []byte("# Market")); err != nil {
		t.Fatalf("Put error: %v", err)
	}
	if err := s.Put(ctx, "clia", "drafts/x.md", []byte("x")); err != nil {
		t.Fatalf("Put error: %v", err)
	}

	objs, err := s.List(ctx, "clia", "documents/")
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(objs) != 1 || objs[0].Key != "documents/market/size.md" || objs[0].Size != 8 {
		t.Fatalf("unexpected listing %+v", objs)
	}
	if objs[0].LastModified.IsZero() {
		t.Fatalf("expected last modified time")
	}

	body, err := s.Get(ctx, "clia", "documents/market/size.md")
	if err != nil || string(body) != "# Market" {
		t.Fatalf("Get = %q, %v", body, err)
	}
	if _, err := s.Get(ctx, "clia", "missing"); !errors.Is(err, errorskg.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestKeys(t *testing.T) {
	s := NewWithClient(redis.NewClient(&redis.Options{Addr: "localhost:0"}), "")
	if got := s.objectKey("vera", "documents/a.md"); got != "socratiq:corpus:vera:documents/a.md" {
		t.Fatalf("objectKey = %q", got)
	}
	if got := s.URL("vera", "documents/a.md"); got != "redis://vera/documents/a.md" {
		t.Fatalf("URL = %q", got)
	}
}
