// Package sqlite provides SQLite-backed guild settings persistence.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/chalwk/versus/internal/platform/storage/sqlitemigrate"
	"github.com/chalwk/versus/internal/services/arena/storage"
	"github.com/chalwk/versus/internal/services/arena/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// Store provides SQLite-backed guild settings persistence.
type Store struct {
	sqlDB *sql.DB
	clock func() time.Time
}

// Open opens a settings SQLite store and applies migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &Store{sqlDB: sqlDB, clock: time.Now}
	if err := sqlitemigrate.ApplyMigrations(sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return store, nil
}

// Close releases the SQLite connection.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// GetRequiredChannel returns the configured channel for a guild.
func (s *Store) GetRequiredChannel(ctx context.Context, guildID string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	guildID = strings.TrimSpace(guildID)
	if guildID == "" {
		return "", fmt.Errorf("guild id is required")
	}

	var channelID string
	err := s.sqlDB.QueryRowContext(ctx, `
SELECT required_channel_id FROM guild_settings WHERE guild_id = ?`, guildID).Scan(&channelID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", storage.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("query guild settings: %w", err)
	}
	return channelID, nil
}

// SetRequiredChannel configures the channel commands must be used in.
func (s *Store) SetRequiredChannel(ctx context.Context, guildID, channelID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	guildID = strings.TrimSpace(guildID)
	channelID = strings.TrimSpace(channelID)
	if guildID == "" {
		return fmt.Errorf("guild id is required")
	}
	if channelID == "" {
		return fmt.Errorf("channel id is required")
	}

	_, err := s.sqlDB.ExecContext(ctx, `
INSERT INTO guild_settings (guild_id, required_channel_id, updated_at)
VALUES (?, ?, ?)
ON CONFLICT(guild_id) DO UPDATE SET
	required_channel_id = excluded.required_channel_id,
	updated_at = excluded.updated_at`,
		guildID, channelID, s.clock().UTC().Unix())
	if err != nil {
		return fmt.Errorf("upsert guild settings: %w", err)
	}
	return nil
}

// ClearRequiredChannel removes a guild's channel configuration.
func (s *Store) ClearRequiredChannel(ctx context.Context, guildID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	guildID = strings.TrimSpace(guildID)
	if guildID == "" {
		return fmt.Errorf("guild id is required")
	}

	if _, err := s.sqlDB.ExecContext(ctx, `
DELETE FROM guild_settings WHERE guild_id = ?`, guildID); err != nil {
		return fmt.Errorf("delete guild settings: %w", err)
	}
	return nil
}
