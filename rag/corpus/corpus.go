// Package corpus defines the document-collection service the retriever reads from.
package corpus

import (
	"context"
	"time"
)

// AttributionKey is the object holding per-collection attribution metadata.
const AttributionKey = "CORPUS_ATTRIBUTION_METADATA.json"

// ObjectInfo describes one stored object.
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// Store lists and fetches objects from named collections. Get returns an
// error wrapping errors.ErrNotFound for absent keys.
type Store interface {
	List(ctx context.Context, collection, prefix string) ([]ObjectInfo, error)
	Get(ctx context.Context, collection, key string) ([]byte, error)
	// URL is the storage URI reported when a document carries no source URL.
	URL(collection, key string) string
}

// Writer stores objects; used by ingestion.
type Writer interface {
	Put(ctx context.Context, collection, key string, data []byte) error
}

// ReadWriter is a Store that also accepts writes.
type ReadWriter interface {
	Store
	Writer
}
