// ABOUTME: SQLite implementation of the Store interface using modernc.org/sqlite.
// ABOUTME: Serializes all access behind one mutex for a single consistent view.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	_ "modernc.org/sqlite"
)

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SQLiteStore implements the Store interface using SQLite.
//
// Every operation takes the same mutex. This serializes all guild-setting
// reads and writes across every module; the simplicity is deliberate and the
// lock is the mechanism that makes the store a single consistent view.
type SQLiteStore struct {
	mu     sync.Mutex
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore creates a new SQLite store at the given path.
// The schema is automatically created if it doesn't exist.
// Parent directories are created if needed.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	logger := slog.Default().With("component", "store")

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable WAL mode for better concurrent performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &SQLiteStore{
		db:     db,
		logger: logger,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	logger.Info("SQLite store initialized", "path", path)
	return s, nil
}

// createSchema creates the database tables if they don't exist.
func (s *SQLiteStore) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS guild (
			id TEXT PRIMARY KEY
		);

		CREATE TABLE IF NOT EXISTS command_overrides (
			command  TEXT NOT NULL,
			guild_id TEXT NOT NULL,
			enabled  INTEGER NOT NULL,
			PRIMARY KEY (command, guild_id)
		);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return err
	}
	return nil
}

// AddGuildField adds a column to the guild table if it is not already there.
// Column names cannot be bound as SQL parameters, so the name is validated
// against a strict identifier pattern before interpolation.
func (s *SQLiteStore) AddGuildField(ctx context.Context, name, definition string) error {
	if !identRe.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidField, name)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM pragma_table_info('guild') WHERE name = ?", name,
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("checking guild field %s: %w", name, err)
	}
	if count != 0 {
		return nil
	}

	query := fmt.Sprintf("ALTER TABLE guild ADD COLUMN %s %s", name, definition)
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("adding guild field %s: %w", name, err)
	}

	s.logger.Debug("guild field added", "field", name, "definition", definition)
	return nil
}

// GuildField returns the field's value for a guild, defaulting to "".
func (s *SQLiteStore) GuildField(ctx context.Context, guildID, field string) (string, error) {
	if !identRe.MatchString(field) {
		return "", fmt.Errorf("%w: %q", ErrInvalidField, field)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	query := fmt.Sprintf("SELECT COALESCE(%s, '') FROM guild WHERE id = ?", field)
	var value string
	err := s.db.QueryRowContext(ctx, query, guildID).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading guild field %s: %w", field, err)
	}
	return value, nil
}

// SetGuildField writes a guild field, creating the guild row if needed.
func (s *SQLiteStore) SetGuildField(ctx context.Context, guildID, field, value string) error {
	if !identRe.MatchString(field) {
		return fmt.Errorf("%w: %q", ErrInvalidField, field)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx,
		"INSERT INTO guild (id) VALUES (?) ON CONFLICT (id) DO NOTHING", guildID,
	); err != nil {
		return fmt.Errorf("ensuring guild row: %w", err)
	}

	query := fmt.Sprintf("UPDATE guild SET %s = ? WHERE id = ?", field)
	if _, err := s.db.ExecContext(ctx, query, value, guildID); err != nil {
		return fmt.Errorf("writing guild field %s: %w", field, err)
	}
	return nil
}

// CommandOverride returns the recorded override for (command, guild), or nil
// when none exists.
func (s *SQLiteStore) CommandOverride(ctx context.Context, cmd, guildID string) (*bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var enabled int
	err := s.db.QueryRowContext(ctx,
		"SELECT enabled FROM command_overrides WHERE command = ? AND guild_id = ?",
		cmd, guildID,
	).Scan(&enabled)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading command override: %w", err)
	}

	v := enabled != 0
	return &v, nil
}

// SetCommandOverride records a per-guild enable/disable decision.
func (s *SQLiteStore) SetCommandOverride(ctx context.Context, cmd, guildID string, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	val := 0
	if enabled {
		val = 1
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO command_overrides (command, guild_id, enabled) VALUES (?, ?, ?)
		ON CONFLICT (command, guild_id) DO UPDATE SET enabled = excluded.enabled`,
		cmd, guildID, val,
	)
	if err != nil {
		return fmt.Errorf("writing command override: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}
