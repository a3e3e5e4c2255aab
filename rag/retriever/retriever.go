package retriever

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	errorskg "github.com/sweetpotato0/socratiq/errors"
	"github.com/sweetpotato0/socratiq/pkg/logging"
	"github.com/sweetpotato0/socratiq/rag/corpus"
	"github.com/sweetpotato0/socratiq/rag/document"
	"github.com/sweetpotato0/socratiq/rag/preprocess"
	"github.com/sweetpotato0/socratiq/rag/scorer"
)

// Config controls retrieval behaviour.
type Config struct {
	MaxResults int
	MinScore   float64
	Prefix     string
	SubRole    string
}

// Option customizes retriever config.
type Option func(*Config)

// WithMaxResults caps how many documents are returned.
func WithMaxResults(n int) Option {
	return func(cfg *Config) {
		if n > 0 {
			cfg.MaxResults = n
		}
	}
}

// WithMinScore drops documents scoring below score.
func WithMinScore(score float64) Option {
	return func(cfg *Config) {
		if score >= 0 {
			cfg.MinScore = score
		}
	}
}

// WithPrefix sets the key prefix listed in each collection.
func WithPrefix(prefix string) Option {
	return func(cfg *Config) {
		cfg.Prefix = prefix
	}
}

// WithSubRole boosts documents containing the sub-role's keywords.
func WithSubRole(subRole string) Option {
	return func(cfg *Config) {
		cfg.SubRole = subRole
	}
}

// Retriever scores every document of a collection against a query.
type Retriever struct {
	store  corpus.Store
	cfg    Config
	logger *slog.Logger
	now    func() time.Time
}

// New creates a retriever. opts set the defaults for every call.
func New(store corpus.Store, opts ...Option) *Retriever {
	cfg := Config{
		MaxResults: 5,
		MinScore:   0.1,
		Prefix:     "documents/",
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Retriever{
		store:  store,
		cfg:    cfg,
		logger: logging.WithComponent("retriever"),
		now:    time.Now,
	}
}

// Retrieve returns the highest scoring documents of collection for query,
// best first. opts override the retriever defaults for this call only.
func (r *Retriever) Retrieve(ctx context.Context, collection, query string, opts ...Option) ([]document.CorpusDocument, error) {
	cfg := r.cfg
	for _, opt := range opts {
		opt(&cfg)
	}
	logger := logging.FromContext(ctx, r.logger)

	objects, err := r.store.List(ctx, collection, cfg.Prefix)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errorskg.ErrRetrieval, err)
	}

	docs := make([]document.CorpusDocument, 0, len(objects))
	for _, obj := range objects {
		if strings.HasSuffix(obj.Key, "/") {
			continue
		}
		raw, err := r.store.Get(ctx, collection, obj.Key)
		if err != nil {
			logger.Warn("skipping corpus document", "collection", collection, "key", obj.Key, "error", err)
			continue
		}
		doc := r.build(collection, obj, preprocess.Decode(obj.Key, raw), query, cfg.SubRole)
		if doc.RelevanceScore >= cfg.MinScore {
			docs = append(docs, doc)
		}
	}

	sort.SliceStable(docs, func(i, j int) bool {
		return docs[i].RelevanceScore > docs[j].RelevanceScore
	})
	if len(docs) > cfg.MaxResults {
		docs = docs[:cfg.MaxResults]
	}

	logger.Debug("corpus retrieval complete",
		"collection", collection,
		"listed", len(objects),
		"returned", len(docs),
		"sub_role", cfg.SubRole,
	)
	return docs, nil
}

func (r *Retriever) build(collection string, obj corpus.ObjectInfo, content, query, subRole string) document.CorpusDocument {
	h := document.ParseHeaders(content, obj.Key, r.store.URL(collection, obj.Key))
	meta := map[string]any{
		"key":    obj.Key,
		"bucket": collection,
		"size":   obj.Size,
	}
	if !obj.LastModified.IsZero() {
		meta["lastModified"] = obj.LastModified.Format(time.RFC3339)
	}
	return document.CorpusDocument{
		Title:          h.Title,
		URL:            h.URL,
		Excerpt:        document.Excerpt(content, query),
		RelevanceScore: scorer.Score(query, content, subRole),
		Source:         h.Source,
		LegalStatus:    h.LegalStatus,
		AccessedAt:     r.now().UTC(),
		Category:       h.Category,
		Metadata:       meta,
	}
}

// Attribution returns the collection's attribution metadata, or nil when the
// collection carries none.
func (r *Retriever) Attribution(ctx context.Context, collection string) (map[string]any, error) {
	raw, err := r.store.Get(ctx, collection, corpus.AttributionKey)
	if errors.Is(err, errorskg.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errorskg.ErrRetrieval, err)
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode attribution metadata: %w", err)
	}
	return out, nil
}
