package player

import (
	"log"
	"sync"
)

// Manager tracks at most one active Session per guild. Sessions remove
// themselves when their queue drains; Stop removes them immediately.
type Manager struct {
	store    *QueueStore
	recorder Recorder

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewManager creates a session manager backed by the given queue store.
// recorder may be nil to disable play-history recording.
func NewManager(store *QueueStore, recorder Recorder) *Manager {
	return &Manager{
		store:    store,
		recorder: recorder,
		sessions: make(map[string]*Session),
	}
}

// Store returns the queue store the manager's sessions dequeue from.
func (m *Manager) Store() *QueueStore {
	return m.store
}

// Get returns the guild's active session, or nil.
func (m *Manager) Get(guildID string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sessions[guildID]
}

// EnsureStarted returns the guild's active session, creating one and
// launching its sequencer loop when none exists. The second return value
// reports whether a new session was started by this call.
func (m *Manager) EnsureStarted(guildID string, tr Transport, n Notifier) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if sess := m.sessions[guildID]; sess != nil {
		return sess, false
	}

	sess := newSession(guildID, m.store, tr, n, m.recorder)
	sess.release = func() bool { return m.releaseIfDrained(guildID, sess) }
	sess.onExit = func() { m.removeIf(guildID, sess) }
	m.sessions[guildID] = sess
	log.Printf("Starting playback session for guild %s", guildID)
	go sess.run()
	return sess, true
}

// Stop tears down the guild's session if one exists and reports whether it did.
func (m *Manager) Stop(guildID string) bool {
	m.mu.Lock()
	sess := m.sessions[guildID]
	delete(m.sessions, guildID)
	m.mu.Unlock()

	if sess == nil {
		return false
	}
	sess.Stop()
	return true
}

// ActiveCount returns the number of guilds with a live session.
func (m *Manager) ActiveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// StopAll tears down every active session; used during shutdown.
func (m *Manager) StopAll() {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, sess := range m.sessions {
		sessions = append(sessions, sess)
	}
	m.sessions = make(map[string]*Session)
	m.mu.Unlock()

	for _, sess := range sessions {
		sess.Stop()
	}
}

// releaseIfDrained unregisters the session, but only while the guild's queue
// is still empty. Holding the manager lock for both the re-check and the
// delete closes the window where a play command could enqueue against a
// session that has already decided to exit: either the enqueue lands first
// and the session keeps playing, or the slot is already free and
// EnsureStarted builds a replacement.
func (m *Manager) releaseIfDrained(guildID string, sess *Session) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.store.Len(guildID) > 0 {
		return false
	}
	if m.sessions[guildID] == sess {
		delete(m.sessions, guildID)
	}
	return true
}

// removeIf drops the session from the registry unless it was already
// replaced by a newer one for the same guild.
func (m *Manager) removeIf(guildID string, sess *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sessions[guildID] == sess {
		delete(m.sessions, guildID)
	}
}
