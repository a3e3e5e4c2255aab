package inmemory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	errorskg "github.com/sweetpotato0/socratiq/errors"
	"github.com/sweetpotato0/socratiq/rag/corpus"
)

type object struct {
	data     []byte
	modified time.Time
}

// Store is a thread-safe in-memory corpus, used by tests and local runs.
type Store struct {
	mu          sync.RWMutex
	collections map[string]map[string]object
	// ListErr and GetErr inject failures for tests.
	ListErr error
	GetErr  map[string]error
}

var _ corpus.ReadWriter = (*Store)(nil)

// New creates an empty store.
func New() *Store {
	return &Store{collections: make(map[string]map[string]object)}
}

// Put stores data under collection/key.
func (s *Store) Put(_ context.Context, collection, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.collections[collection]
	if !ok {
		c = make(map[string]object)
		s.collections[collection] = c
	}
	c[key] = object{data: append([]byte(nil), data...), modified: time.Now().UTC()}
	return nil
}

// List returns objects under prefix in key order.
func (s *Store) List(_ context.Context, collection, prefix string) ([]corpus.ObjectInfo, error) {
	if s.ListErr != nil {
		return nil, s.ListErr
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []corpus.ObjectInfo
	for key, obj := range s.collections[collection] {
		if strings.HasPrefix(key, prefix) {
			out = append(out, corpus.ObjectInfo{Key: key, Size: int64(len(obj.data)), LastModified: obj.modified})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

// Get returns a copy of the stored bytes.
func (s *Store) Get(_ context.Context, collection, key string) ([]byte, error) {
	if err := s.GetErr[key]; err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.collections[collection][key]
	if !ok {
		return nil, fmt.Errorf("%s/%s: %w", collection, key, errorskg.ErrNotFound)
	}
	return append([]byte(nil), obj.data...), nil
}

// URL implements corpus.Store.
func (s *Store) URL(collection, key string) string {
	return "mem://" + collection + "/" + key
}
