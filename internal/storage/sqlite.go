package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"nuclight.org/buttonpoll/internal/poll"
)

type DB struct {
	db *sql.DB
}

func NewDB(path string) (*DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	// Pragmas in the DSN apply to every pooled connection. Without a busy
	// timeout concurrent votes on different polls fail with SQLITE_BUSY.
	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &DB{db: db}, nil
}

func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) Migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS poll_data (
		id TEXT PRIMARY KEY,
		data TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	);
	`

	migrations := []string{
		`ALTER TABLE poll_data ADD COLUMN updated_at TIMESTAMP`,
	}

	if _, err := d.db.Exec(schema); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}

	// Re-running an applied migration fails with "duplicate column".
	for _, migration := range migrations {
		_, err := d.db.Exec(migration)
		if err != nil && !strings.Contains(err.Error(), "duplicate column") {
			return fmt.Errorf("execute migration: %w", err)
		}
	}

	return nil
}

// PollDataRepository keeps serialized poll state keyed by poll ID.
type PollDataRepository struct {
	db *DB
}

func NewPollDataRepository(db *DB) *PollDataRepository {
	return &PollDataRepository{db: db}
}

func (r *PollDataRepository) Put(ctx context.Context, key string, value []byte) error {
	now := time.Now()
	_, err := r.db.db.ExecContext(ctx, `
		INSERT INTO poll_data (id, data, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at
	`, key, string(value), now, now)
	if err != nil {
		return fmt.Errorf("upsert poll data: %w", err)
	}
	return nil
}

func (r *PollDataRepository) Get(ctx context.Context, key string) ([]byte, error) {
	var data string
	err := r.db.db.QueryRowContext(ctx, `SELECT data FROM poll_data WHERE id = ?`, key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, poll.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select poll data: %w", err)
	}
	return []byte(data), nil
}

func (r *PollDataRepository) Close() error {
	return r.db.Close()
}
