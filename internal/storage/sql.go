package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// kvSchema creates the single table the SQL backend needs.  MySQL's
// utf8mb4 index limit caps the key at 191 characters.
const kvSchema = `CREATE TABLE IF NOT EXISTS kv_entries (
    k          VARCHAR(191) NOT NULL PRIMARY KEY,
    v          LONGTEXT     NOT NULL,
    updated_at DATETIME     NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`

// SQL persists values in MySQL.  Every Set is an upsert of the whole value.
type SQL struct {
	db *sql.DB
}

// NewSQL wraps an open database handle.
func NewSQL(db *sql.DB) *SQL { return &SQL{db: db} }

// EnsureSchema creates kv_entries when it is missing.
func (s *SQL) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, kvSchema); err != nil {
		return fmt.Errorf("create kv_entries: %w", err)
	}
	return nil
}

// Get implements Store.
func (s *SQL) Get(ctx context.Context, key string) (string, error) {
	var v string
	err := s.db.QueryRowContext(ctx, `SELECT v FROM kv_entries WHERE k = ?`, key).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	return v, err
}

// Set implements Store.
func (s *SQL) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv_entries (k, v) VALUES (?, ?) ON DUPLICATE KEY UPDATE v = VALUES(v)`,
		key, value)
	return err
}

// Incr implements Incrementer.  The upsert and read-back run in one
// transaction so concurrent callers never observe the same value.  A
// non-numeric value casts to 0 and restarts the counter at 1.
func (s *SQL) Incr(ctx context.Context, key string) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO kv_entries (k, v) VALUES (?, '1')
		 ON DUPLICATE KEY UPDATE v = CAST(CAST(v AS UNSIGNED) + 1 AS CHAR)`,
		key); err != nil {
		return 0, err
	}
	var n int64
	if err := tx.QueryRowContext(ctx, `SELECT CAST(v AS UNSIGNED) FROM kv_entries WHERE k = ?`, key).Scan(&n); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	committed = true
	return n, nil
}
