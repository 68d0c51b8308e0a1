// Package history keeps a sqlite record of every track the sequencer
// started. Queue state itself is never persisted; this is display metadata
// for the history command only.
package history

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/nvrie/quaver/pkg/player"
)

// Entry is one played track as stored.
type Entry struct {
	ID          int64
	GuildID     string
	Title       string
	OriginalURL string
	RequestedBy string
	Duration    time.Duration
	PlayedAt    time.Time
}

// Store is the sqlite-backed play history. It implements player.Recorder.
type Store struct {
	db *sql.DB
}

// NewStore opens (and initializes) the history database at dbPath.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := initSchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	return &Store{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS play_history (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		guild_id TEXT NOT NULL,
		title TEXT NOT NULL,
		original_url TEXT,
		requested_by TEXT,
		duration_seconds INTEGER NOT NULL DEFAULT 0,
		played_at TIMESTAMP NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_play_history_guild_time
		ON play_history(guild_id, played_at);
	`
	_, err := db.Exec(schema)
	return err
}

// Record appends one played track for the guild.
func (s *Store) Record(guildID string, t player.Track) error {
	_, err := s.db.Exec(`
		INSERT INTO play_history (guild_id, title, original_url, requested_by, duration_seconds, played_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		guildID, t.Title, t.OriginalURL, t.RequestedBy, int64(t.Duration.Seconds()), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to record play: %w", err)
	}
	return nil
}

// Recent returns the guild's most recently played tracks, newest first.
func (s *Store) Recent(guildID string, limit int) ([]Entry, error) {
	rows, err := s.db.Query(`
		SELECT id, guild_id, title, original_url, requested_by, duration_seconds, played_at
		FROM play_history
		WHERE guild_id = ?
		ORDER BY played_at DESC, id DESC
		LIMIT ?`,
		guildID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var seconds int64
		if err := rows.Scan(&e.ID, &e.GuildID, &e.Title, &e.OriginalURL, &e.RequestedBy, &seconds, &e.PlayedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history row: %w", err)
		}
		e.Duration = time.Duration(seconds) * time.Second
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Prune deletes entries older than the retention window and returns how
// many were removed.
func (s *Store) Prune(olderThan time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-olderThan)
	result, err := s.db.Exec(`DELETE FROM play_history WHERE played_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune history: %w", err)
	}
	return result.RowsAffected()
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
