package history

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvrie/quaver/pkg/player"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreRecordAndRecent(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Record("g1", player.Track{
		Title:       "First",
		OriginalURL: "https://youtu.be/aaaaaaaaaaa",
		RequestedBy: "alice",
		Duration:    3*time.Minute + 33*time.Second,
	}))
	require.NoError(t, store.Record("g1", player.Track{
		Title:       "Second",
		RequestedBy: "bob",
	}))

	entries, err := store.Recent("g1", 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	// Newest first.
	assert.Equal(t, "Second", entries[0].Title)
	assert.Equal(t, "First", entries[1].Title)
	assert.Equal(t, "alice", entries[1].RequestedBy)
	assert.Equal(t, "https://youtu.be/aaaaaaaaaaa", entries[1].OriginalURL)
	assert.Equal(t, 3*time.Minute+33*time.Second, entries[1].Duration)
	assert.WithinDuration(t, time.Now(), entries[0].PlayedAt, time.Minute)
}

func TestStoreRecentLimit(t *testing.T) {
	store := newTestStore(t)

	for i := 0; i < 15; i++ {
		require.NoError(t, store.Record("g1", player.Track{Title: "t"}))
	}

	entries, err := store.Recent("g1", 10)
	require.NoError(t, err)
	assert.Len(t, entries, 10)
}

func TestStoreGuildIsolation(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Record("g1", player.Track{Title: "for-g1"}))
	require.NoError(t, store.Record("g2", player.Track{Title: "for-g2"}))

	entries, err := store.Recent("g1", 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "for-g1", entries[0].Title)
}

func TestStoreRecentEmpty(t *testing.T) {
	store := newTestStore(t)

	entries, err := store.Recent("missing", 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestStorePrune(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Record("g1", player.Track{Title: "recent"}))

	// Backdate one row past the retention window.
	_, err := store.db.Exec(
		`INSERT INTO play_history (guild_id, title, duration_seconds, played_at) VALUES (?, ?, 0, ?)`,
		"g1", "ancient", time.Now().UTC().Add(-48*time.Hour))
	require.NoError(t, err)

	removed, err := store.Prune(24 * time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	entries, err := store.Recent("g1", 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "recent", entries[0].Title)
}
