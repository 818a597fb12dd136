package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/Zachkp/portfolio/internal/theme"
)

const createPreferencesTable = `
CREATE TABLE IF NOT EXISTS preferences (
	visitor_id TEXT NOT NULL,
	key TEXT NOT NULL,
	value TEXT NOT NULL,
	updated_at INTEGER NOT NULL,
	PRIMARY KEY (visitor_id, key)
)`

// SQLite stores preferences in a single table keyed by visitor and key.
type SQLite struct {
	db  *sql.DB
	now func() time.Time
}

func OpenSQLite(ctx context.Context, dsn string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", dsn, err)
	}
	// modernc's driver serialises writers; one connection avoids SQLITE_BUSY
	// and keeps ":memory:" databases alive across calls.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, createPreferencesTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("create preferences table: %w", err)
	}
	return &SQLite{db: db, now: time.Now}, nil
}

func (s *SQLite) Scope(visitorID string) theme.Store {
	return sqliteScope{s: s, visitor: visitorID}
}

// Cleanup removes preferences nobody has touched within maxAge.
func (s *SQLite) Cleanup(ctx context.Context, maxAge time.Duration) (int64, error) {
	cutoff := s.now().Add(-maxAge).Unix()
	result, err := s.db.ExecContext(ctx, `DELETE FROM preferences WHERE updated_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("cleanup preferences: %w", err)
	}
	rows, _ := result.RowsAffected()
	return rows, nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

type sqliteScope struct {
	s       *SQLite
	visitor string
}

func (sc sqliteScope) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := sc.s.db.QueryRowContext(ctx,
		`SELECT value FROM preferences WHERE visitor_id = ? AND key = ?`,
		sc.visitor, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: %v", theme.ErrStorageUnavailable, err)
	}
	return value, true, nil
}

func (sc sqliteScope) Set(ctx context.Context, key, value string) error {
	_, err := sc.s.db.ExecContext(ctx, `
		INSERT INTO preferences (visitor_id, key, value, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(visitor_id, key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`, sc.visitor, key, value, sc.s.now().Unix())
	if err != nil {
		return fmt.Errorf("%w: %v", theme.ErrStorageUnavailable, err)
	}
	return nil
}
