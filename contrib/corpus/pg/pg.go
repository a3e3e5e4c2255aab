package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	_ "github.com/lib/pq"

	errorskg "github.com/sweetpotato0/socratiq/errors"
	"github.com/sweetpotato0/socratiq/rag/corpus"
)

// Store keeps corpus objects in one PostgreSQL table keyed by (collection, key).
type Store struct {
	db    *sql.DB
	table string
}

var _ corpus.ReadWriter = (*Store)(nil)

// Config holds PostgreSQL connection configuration
type Config struct {
	DSN   string
	Table string
}

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// New connects, pings and ensures the table exists.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Table == "" {
		cfg.Table = "corpus_documents"
	}
	if !tableName.MatchString(cfg.Table) {
		return nil, fmt.Errorf("invalid table name %q", cfg.Table)
	}

	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}

	s := &Store{db: db, table: cfg.Table}
	if err := s.createTable(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create table: %w", err)
	}
	return s, nil
}

func (s *Store) createTable(ctx context.Context) error {
	query := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS %[1]s (
		collection VARCHAR(255) NOT NULL,
		key TEXT NOT NULL,
		body BYTEA NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		PRIMARY KEY (collection, key)
	)`, s.table)
	_, err := s.db.ExecContext(ctx, query)
	return err
}

// likePrefix escapes LIKE metacharacters in prefix.
func likePrefix(prefix string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(prefix) + "%"
}

// List implements corpus.Store.
func (s *Store) List(ctx context.Context, collection, prefix string) ([]corpus.ObjectInfo, error) {
	query := fmt.Sprintf(`SELECT key, octet_length(body), updated_at FROM %s
		WHERE collection = $1 AND key LIKE $2 ORDER BY key`, s.table)
	rows, err := s.db.QueryContext(ctx, query, collection, likePrefix(prefix))
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	defer rows.Close()

	var out []corpus.ObjectInfo
	for rows.Next() {
		var (
			info    corpus.ObjectInfo
			updated time.Time
		)
		if err := rows.Scan(&info.Key, &info.Size, &updated); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		info.LastModified = updated.UTC()
		out = append(out, info)
	}
	return out, rows.Err()
}

// Get implements corpus.Store.
func (s *Store) Get(ctx context.Context, collection, key string) ([]byte, error) {
	query := fmt.Sprintf(`SELECT body FROM %s WHERE collection = $1 AND key = $2`, s.table)
	var body []byte
	err := s.db.QueryRowContext(ctx, query, collection, key).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s/%s: %w", collection, key, errorskg.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", collection, key, err)
	}
	return body, nil
}

// Put upserts one object.
func (s *Store) Put(ctx context.Context, collection, key string, data []byte) error {
	query := fmt.Sprintf(`INSERT INTO %s (collection, key, body, updated_at) VALUES ($1, $2, $3, NOW())
		ON CONFLICT (collection, key) DO UPDATE SET body = EXCLUDED.body, updated_at = NOW()`, s.table)
	if _, err := s.db.ExecContext(ctx, query, collection, key, data); err != nil {
		return fmt.Errorf("put %s/%s: %w", collection, key, err)
	}
	return nil
}

// URL implements corpus.Store.
func (s *Store) URL(collection, key string) string {
	return "postgres://" + collection + "/" + key
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}
