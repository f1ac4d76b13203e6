// Package sqlite provides a SQLite-backed dao.Service. Records of every
// location and collection share one table, partitioned by namespace and stored
// as JSON.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/viant/courtside/service/dao"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schema string

// DB is an open SQLite database holding record tables.
type DB struct {
	sqlDB *sql.DB
}

// Open opens (or creates) the database at path and applies the schema.
func Open(path string) (*DB, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	dsn := filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &DB{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (d *DB) Close() error {
	if d == nil || d.sqlDB == nil {
		return nil
	}
	return d.sqlDB.Close()
}

// Store persists records of one namespace.
type Store[K comparable, T any] struct {
	db          *DB
	namespace   string
	keySelector func(*T) K
}

var _ dao.Service[string, struct{}] = (*Store[string, struct{}])(nil)

// NewStore returns a store writing to namespace (e.g. "pier/sessions").
func NewStore[K comparable, T any](db *DB, namespace string, keySelector func(*T) K) *Store[K, T] {
	return &Store[K, T]{db: db, namespace: namespace, keySelector: keySelector}
}

func recordKey[K comparable](key K) string {
	return fmt.Sprintf("%v", key)
}

// Save inserts or replaces a record.
func (s *Store[K, T]) Save(ctx context.Context, v *T) error {
	if v == nil {
		return dao.ErrNilEntity
	}
	key := recordKey(s.keySelector(v))
	var zero K
	if key == recordKey(zero) {
		return dao.ErrInvalidID
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	_, err = s.db.sqlDB.ExecContext(ctx,
		`INSERT INTO records (namespace, record_key, data, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT (namespace, record_key) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		s.namespace, key, data, time.Now().UTC().UnixMilli())
	if err != nil {
		return fmt.Errorf("save record %s/%s: %w", s.namespace, key, err)
	}
	return nil
}

// Load returns a record or dao.ErrNotFound.
func (s *Store[K, T]) Load(ctx context.Context, id K) (*T, error) {
	var data []byte
	err := s.db.sqlDB.QueryRowContext(ctx,
		`SELECT data FROM records WHERE namespace = ? AND record_key = ?`,
		s.namespace, recordKey(id)).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, dao.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load record %s/%v: %w", s.namespace, id, err)
	}
	var ret T
	if err := json.Unmarshal(data, &ret); err != nil {
		return nil, fmt.Errorf("unmarshal record %s/%v: %w", s.namespace, id, err)
	}
	return &ret, nil
}

// Delete removes a record or returns dao.ErrNotFound.
func (s *Store[K, T]) Delete(ctx context.Context, id K) error {
	res, err := s.db.sqlDB.ExecContext(ctx,
		`DELETE FROM records WHERE namespace = ? AND record_key = ?`,
		s.namespace, recordKey(id))
	if err != nil {
		return fmt.Errorf("delete record %s/%v: %w", s.namespace, id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete record %s/%v: %w", s.namespace, id, err)
	}
	if n == 0 {
		return dao.ErrNotFound
	}
	return nil
}

// List returns every record of the namespace.
func (s *Store[K, T]) List(ctx context.Context) ([]*T, error) {
	rows, err := s.db.sqlDB.QueryContext(ctx,
		`SELECT data FROM records WHERE namespace = ? ORDER BY record_key`, s.namespace)
	if err != nil {
		return nil, fmt.Errorf("list records %s: %w", s.namespace, err)
	}
	defer rows.Close()

	var ret []*T
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		var item T
		if err := json.Unmarshal(data, &item); err != nil {
			return nil, fmt.Errorf("unmarshal record: %w", err)
		}
		ret = append(ret, &item)
	}
	return ret, rows.Err()
}
