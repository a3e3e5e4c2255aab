// Package fs serves corpus collections from directories on local disk.
package fs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	errorskg "github.com/sweetpotato0/socratiq/errors"
	"github.com/sweetpotato0/socratiq/rag/corpus"
)

// Store maps collection c and key k to <root>/<c>/<k>.
type Store struct {
	root string
}

var _ corpus.ReadWriter = (*Store)(nil)

// New creates a store rooted at root.
func New(root string) *Store {
	return &Store{root: root}
}

func (s *Store) path(collection, key string) (string, error) {
	base := filepath.Join(s.root, filepath.Clean("/"+collection))
	p := filepath.Join(base, filepath.FromSlash(filepath.Clean("/"+key)))
	if !strings.HasPrefix(p, base) {
		return "", fmt.Errorf("key %q escapes collection", key)
	}
	return p, nil
}

// List walks the collection directory and returns keys under prefix.
func (s *Store) List(ctx context.Context, collection, prefix string) ([]corpus.ObjectInfo, error) {
	base, err := s.path(collection, "")
	if err != nil {
		return nil, err
	}
	var out []corpus.ObjectInfo
	err = filepath.WalkDir(base, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(base, p)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if !strings.HasPrefix(key, prefix) {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return err
		}
		out = append(out, corpus.ObjectInfo{Key: key, Size: info.Size(), LastModified: info.ModTime().UTC()})
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", base, err)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

// Get reads one object.
func (s *Store) Get(_ context.Context, collection, key string) ([]byte, error) {
	p, err := s.path(collection, key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s/%s: %w", collection, key, errorskg.ErrNotFound)
	}
	return data, err
}

// Put writes one object, creating parent directories.
func (s *Store) Put(_ context.Context, collection, key string, data []byte) error {
	p, err := s.path(collection, key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	return os.WriteFile(p, data, 0o644)
}

// URL implements corpus.Store.
func (s *Store) URL(collection, key string) string {
	return "file://" + collection + "/" + key
}
