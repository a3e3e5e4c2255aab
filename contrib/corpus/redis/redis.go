package redis

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	errorskg "github.com/sweetpotato0/socratiq/errors"
	"github.com/sweetpotato0/socratiq/rag/corpus"
)

// Store keeps each object in a hash (body, updated) and indexes a collection's
// keys in a set.
type Store struct {
	client *redis.Client
	prefix string
}

var _ corpus.ReadWriter = (*Store)(nil)

// Config holds Redis configuration for the corpus.
type Config struct {
	Addr     string
	Password string
	DB       int
	Prefix   string
}

// New creates a Redis-backed corpus store.
func New(cfg *Config) *Store {
	if cfg == nil {
		cfg = &Config{Addr: "localhost:6379"}
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return NewWithClient(client, cfg.Prefix)
}

// NewWithClient wraps an existing client.
func NewWithClient(client *redis.Client, prefix string) *Store {
	if prefix == "" {
		prefix = "socratiq:corpus:"
	}
	return &Store{client: client, prefix: prefix}
}

func (s *Store) objectKey(collection, key string) string {
	return s.prefix + collection + ":" + key
}

func (s *Store) indexKey(collection string) string {
	return s.prefix + collection + ":__index"
}

// List implements corpus.Store.
func (s *Store) List(ctx context.Context, collection, prefix string) ([]corpus.ObjectInfo, error) {
	keys, err := s.client.SMembers(ctx, s.indexKey(collection)).Result()
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	sort.Strings(keys)

	var out []corpus.ObjectInfo
	for _, key := range keys {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		fields, err := s.client.HMGet(ctx, s.objectKey(collection, key), "size", "updated").Result()
		if err != nil {
			return nil, fmt.Errorf("stat %s/%s: %w", collection, key, err)
		}
		info := corpus.ObjectInfo{Key: key}
		if v, ok := fields[0].(string); ok {
			info.Size, _ = strconv.ParseInt(v, 10, 64)
		}
		if v, ok := fields[1].(string); ok {
			info.LastModified, _ = time.Parse(time.RFC3339Nano, v)
		}
		out = append(out, info)
	}
	return out, nil
}

// Get implements corpus.Store.
func (s *Store) Get(ctx context.Context, collection, key string) ([]byte, error) {
	body, err := s.client.HGet(ctx, s.objectKey(collection, key), "body").Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%s/%s: %w", collection, key, errorskg.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", collection, key, err)
	}
	return body, nil
}

// Put stores an object and adds it to the collection index.
func (s *Store) Put(ctx context.Context, collection, key string, data []byte) error {
	pipe := s.client.TxPipeline()
	pipe.HSet(ctx, s.objectKey(collection, key),
		"body", data,
		"size", len(data),
		"updated", time.Now().UTC().Format(time.RFC3339Nano),
	)
	pipe.SAdd(ctx, s.indexKey(collection), key)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("put %s/%s: %w", collection, key, err)
	}
	return nil
}

// URL implements corpus.Store.
func (s *Store) URL(collection, key string) string {
	return "redis://" + collection + "/" + key
}

// Close closes the client.
func (s *Store) Close() error {
	return s.client.Close()
}
