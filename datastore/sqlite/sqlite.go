/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package sqlite provides an embedded, durable datastore.Store on a single SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/suparena/appdata/datastore"
	"github.com/suparena/appdata/storagemodels"
)

// FileName is the database file created inside the data directory.
const FileName = "appdata.db"

// Compile-time interface check.
var _ datastore.Store = (*Store)(nil)

// Store persists records in one SQLite table keyed by (bucket, key).
// It is suitable for single-process production use.
type Store struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
}

// Open creates the data directory if needed and opens FileName inside it.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return OpenPath(filepath.Join(dir, FileName))
}

// OpenPath opens the database at path, or ":memory:" for testing.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - FULL synchronous mode so a committed write survives a crash
//   - 5-second busy timeout for lock contention
func OpenPath(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// SQLite only supports one writer at a time; a single connection also
	// keeps ":memory:" databases from splitting across connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = FULL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS records (
			bucket TEXT NOT NULL,
			key BLOB NOT NULL,
			value BLOB NOT NULL,
			PRIMARY KEY (bucket, key)
		) WITHOUT ROWID
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("create table: %w", err)
	}

	return &Store{db: db}, nil
}

// Get implements datastore.Store.
func (s *Store) Get(ctx context.Context, bucket string, key []byte) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.check(bucket); err != nil {
		return nil, err
	}

	var value []byte
	err := s.db.QueryRowContext(ctx, `
		SELECT value FROM records
		WHERE bucket = ? AND key = ?
	`, bucket, key).Scan(&value)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, datastore.ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get record: %w", err)
	}
	return value, nil
}

// Put implements datastore.Store.
func (s *Store) Put(ctx context.Context, bucket string, key, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.check(bucket); err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, upsertSQL, bucket, key, value); err != nil {
		return fmt.Errorf("put record: %w", err)
	}
	return nil
}

const upsertSQL = `
	INSERT INTO records (bucket, key, value)
	VALUES (?, ?, ?)
	ON CONFLICT(bucket, key) DO UPDATE SET value = excluded.value
`

// Delete implements datastore.Store.
func (s *Store) Delete(ctx context.Context, bucket string, key []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.check(bucket); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		DELETE FROM records
		WHERE bucket = ? AND key = ?
	`, bucket, key)
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	return nil
}

// Has implements datastore.Store.
func (s *Store) Has(ctx context.Context, bucket string, key []byte) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.check(bucket); err != nil {
		return false, err
	}

	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(1) FROM records
		WHERE bucket = ? AND key = ?
	`, bucket, key).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check record: %w", err)
	}
	return n > 0, nil
}

// Scan implements datastore.Store.
// Rows are read fully before fn is called so fn may use the store again.
func (s *Store) Scan(ctx context.Context, bucket string, fn func(storagemodels.Item) error) error {
	items, err := s.scan(ctx, bucket)
	if err != nil {
		return err
	}
	for _, item := range items {
		if err := fn(item); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) scan(ctx context.Context, bucket string) ([]storagemodels.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if err := s.check(bucket); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT key, value FROM records
		WHERE bucket = ?
		ORDER BY key
	`, bucket)
	if err != nil {
		return nil, fmt.Errorf("scan records: %w", err)
	}
	defer rows.Close()

	var items []storagemodels.Item
	for rows.Next() {
		var item storagemodels.Item
		if err := rows.Scan(&item.Key, &item.Value); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return items, nil
}

// PutAll implements datastore.Store. All items are written in one transaction.
func (s *Store) PutAll(ctx context.Context, bucket string, items []storagemodels.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.check(bucket); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin batch: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, upsertSQL)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare batch: %w", err)
	}
	defer stmt.Close()

	for _, item := range items {
		if _, err := stmt.ExecContext(ctx, bucket, item.Key, item.Value); err != nil {
			tx.Rollback()
			return fmt.Errorf("put batch record: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	return nil
}

// Flush implements datastore.Store. Commits are already durable under
// synchronous=FULL; Flush additionally checkpoints the WAL into the main file.
func (s *Store) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return datastore.ErrStoreClosed
	}
	if _, err := s.db.ExecContext(ctx, "PRAGMA wal_checkpoint(FULL)"); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	return nil
}

// Close implements datastore.Store.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true
	return s.db.Close()
}

func (s *Store) check(bucket string) error {
	if s.closed {
		return datastore.ErrStoreClosed
	}
	if bucket == "" {
		return datastore.ErrNilBucket
	}
	return nil
}
