// Package gcs serves corpus collections from Cloud Storage buckets, one bucket
// per collection.
package gcs

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	storage "google.golang.org/api/storage/v1"

	errorskg "github.com/sweetpotato0/socratiq/errors"
	"github.com/sweetpotato0/socratiq/rag/corpus"
)

// Store implements corpus.ReadWriter over the Cloud Storage JSON API.
type Store struct {
	svc *storage.Service
}

var _ corpus.ReadWriter = (*Store)(nil)

// New creates a store. opts are passed to the storage client, e.g.
// option.WithCredentialsFile.
func New(ctx context.Context, opts ...option.ClientOption) (*Store, error) {
	svc, err := storage.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	return &Store{svc: svc}, nil
}

// List implements corpus.Store.
func (s *Store) List(ctx context.Context, bucket, prefix string) ([]corpus.ObjectInfo, error) {
	var out []corpus.ObjectInfo
	err := s.svc.Objects.List(bucket).Prefix(prefix).Fields("items(name,size,updated)", "nextPageToken").
		Pages(ctx, func(page *storage.Objects) error {
			for _, obj := range page.Items {
				info := corpus.ObjectInfo{Key: obj.Name, Size: int64(obj.Size)}
				if t, err := time.Parse(time.RFC3339, obj.Updated); err == nil {
					info.LastModified = t.UTC()
				}
				out = append(out, info)
			}
			return nil
		})
	if err != nil {
		return nil, fmt.Errorf("list gs://%s/%s: %w", bucket, prefix, err)
	}
	return out, nil
}

// Get implements corpus.Store.
func (s *Store) Get(ctx context.Context, bucket, key string) ([]byte, error) {
	resp, err := s.svc.Objects.Get(bucket, key).Context(ctx).Download()
	if err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) && gerr.Code == http.StatusNotFound {
			return nil, fmt.Errorf("gs://%s/%s: %w", bucket, key, errorskg.ErrNotFound)
		}
		return nil, fmt.Errorf("download gs://%s/%s: %w", bucket, key, err)
	}
	defer resp.Body.Close()
	return io.ReadAll(resp.Body)
}

// Put uploads one object.
func (s *Store) Put(ctx context.Context, bucket, key string, data []byte) error {
	_, err := s.svc.Objects.Insert(bucket, &storage.Object{Name: key}).
		Media(bytes.NewReader(data)).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("upload gs://%s/%s: %w", bucket, key, err)
	}
	return nil
}

// URL implements corpus.Store.
func (s *Store) URL(bucket, key string) string {
	return "gs://" + bucket + "/" + key
}
