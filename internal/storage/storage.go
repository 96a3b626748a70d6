// /internal/storage/storage.go
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	_ "modernc.org/sqlite"
)

const (
	DefaultReplyProbability    = 0.05
	DefaultReactionProbability = 0.10
	DefaultBackupCount         = 5
)

// Storage persists user prefixes and per-channel probabilities.
type Storage struct {
	db   *sql.DB
	path string

	defaults    Probabilities
	backupCount int

	// writes counts mutations; backups are skipped when it has not moved.
	writes     atomic.Uint64
	backupMu   sync.Mutex
	lastBackup uint64
}

type Options struct {
	Defaults    Probabilities
	BackupCount int
}

func DefaultOptions() Options {
	return Options{
		Defaults: Probabilities{
			Reply:    DefaultReplyProbability,
			Reaction: DefaultReactionProbability,
		},
		BackupCount: DefaultBackupCount,
	}
}

func New(filePath string) (*Storage, error) {
	return NewWithOptions(filePath, DefaultOptions())
}

func NewWithOptions(filePath string, opts Options) (*Storage, error) {
	if filePath == "" {
		return nil, fmt.Errorf("file path cannot be empty")
	}
	if err := opts.Defaults.Validate(); err != nil {
		return nil, fmt.Errorf("default probabilities: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", filePath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply %q: %w", pragma, err)
		}
	}

	s := &Storage{
		db:          db,
		path:        filePath,
		defaults:    opts.Defaults,
		backupCount: opts.BackupCount,
	}
	if err := s.migrate(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

// Path returns the database file location.
func (s *Storage) Path() string {
	return s.path
}

func (s *Storage) migrate(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS user_preferences (
			user_id TEXT PRIMARY KEY,
			prefix TEXT NOT NULL,
			updated_at TEXT NOT NULL DEFAULT (datetime('now'))
		);`,
		`CREATE TABLE IF NOT EXISTS channel_probabilities (
			guild_id TEXT NOT NULL,
			channel_id TEXT NOT NULL,
			reply_probability REAL NOT NULL,
			reaction_probability REAL NOT NULL,
			updated_at TEXT NOT NULL DEFAULT (datetime('now')),
			PRIMARY KEY (guild_id, channel_id)
		);`,
	}
	for _, query := range queries {
		if _, err := s.db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("run migration: %w", err)
		}
	}
	return nil
}

func (s *Storage) markWritten() {
	s.writes.Add(1)
}
