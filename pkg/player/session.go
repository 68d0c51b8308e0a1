package player

import (
	"errors"
	"log"
	"sync"
)

// Playback is a handle to one in-progress track owned by the transport.
// Done yields exactly one terminal result per started track: nil for a clean
// finish or an early stop/skip, non-nil for a playback error.
type Playback interface {
	Done() <-chan error
	Stop()
	Pause() bool
	Resume() bool
	Paused() bool
}

// Transport owns a guild's voice connection and the decode/stream pipeline
// for one track at a time.
type Transport interface {
	Play(streamURL string) (Playback, error)
	Disconnect() error
}

// Notifier renders session events as user-visible messages.
type Notifier interface {
	NowPlaying(t Track)
	PlaybackFailed(t Track)
	QueueFinished()
}

// Recorder receives every track the sequencer starts. Recording is
// best-effort; failures are logged and never affect playback.
type Recorder interface {
	Record(guildID string, t Track) error
}

// State is the sequencer's per-guild playback state.
type State int32

const (
	StateIdle State = iota
	StatePlaying
	StateAdvancing
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePlaying:
		return "playing"
	case StateAdvancing:
		return "advancing"
	default:
		return "unknown"
	}
}

var (
	// ErrNotPlaying is returned by Skip, Pause and Resume when no track is active.
	ErrNotPlaying = errors.New("nothing is playing")
	// ErrAlreadyPaused is returned by Pause when playback is already suspended.
	ErrAlreadyPaused = errors.New("playback is already paused")
	// ErrNotPaused is returned by Resume when playback is not suspended.
	ErrNotPaused = errors.New("playback is not paused")
)

// Session drives playback for one guild: dequeue the head track, hand it to
// the transport, wait for its terminal event, advance. The loop is iterative
// so a queue of failing tracks drains without growing the stack, and the
// stop signal wins over any terminal event that races with it.
type Session struct {
	guildID   string
	store     *QueueStore
	transport Transport
	notifier  Notifier
	recorder  Recorder

	// release atomically re-checks the queue and unregisters the session;
	// it reports false when a track arrived after the empty-queue check.
	release func() bool
	onExit  func()

	mu       sync.Mutex
	state    State
	current  *Track
	playback Playback
	stopped  bool
	stopc    chan struct{}
	donec    chan struct{}
}

func newSession(guildID string, store *QueueStore, tr Transport, n Notifier, rec Recorder) *Session {
	return &Session{
		guildID:   guildID,
		store:     store,
		transport: tr,
		notifier:  n,
		recorder:  rec,
		stopc:     make(chan struct{}),
		donec:     make(chan struct{}),
	}
}

// GuildID returns the guild this session plays for.
func (s *Session) GuildID() string {
	return s.guildID
}

// State reports the sequencer state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Current returns the track being played, or nil.
func (s *Session) Current() *Track {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	t := *s.current
	return &t
}

// run is the sequencer loop. It exits when the queue drains or the session
// is stopped; either way the voice connection is torn down exactly once.
func (s *Session) run() {
	defer close(s.donec)
	defer s.clearExit()

	for {
		select {
		case <-s.stopc:
			return
		default:
		}

		t, ok := s.store.Dequeue(s.guildID)
		if !ok {
			// The release must happen before any teardown side effect: a
			// track enqueued after the empty check either keeps this loop
			// alive (release fails) or lands after the manager slot is
			// free, so a fresh session picks it up. Nothing gets stranded
			// behind a session that has committed to exit.
			if !s.tryRelease() {
				continue
			}
			s.setState(StateIdle)
			s.notifier.QueueFinished()
			if err := s.transport.Disconnect(); err != nil {
				log.Printf("Error disconnecting voice for guild %s: %v", s.guildID, err)
			}
			return
		}

		pb, err := s.transport.Play(t.StreamURL)
		if err != nil {
			// An unplayable track must never stall the queue; report it
			// and move straight on to the next one.
			log.Printf("Playback start failed for '%s' in guild %s: %v", t.Title, s.guildID, err)
			s.notifier.PlaybackFailed(t)
			s.setState(StateAdvancing)
			continue
		}

		if !s.setCurrent(t, pb) {
			// Stop won the race while the transport was starting up.
			pb.Stop()
			return
		}
		s.notifier.NowPlaying(t)
		s.record(t)

		select {
		case err := <-pb.Done():
			if err != nil {
				log.Printf("Playback of '%s' ended with error in guild %s: %v", t.Title, s.guildID, err)
				s.notifier.PlaybackFailed(t)
			}
			s.setState(StateAdvancing)
		case <-s.stopc:
			// Stop already cleared the queue and killed the playback; the
			// stale terminal event for this track is dropped here.
			return
		}
	}
}

// Stop forces the session to idle: clears the queue, stops the active
// playback and disconnects. Terminal events for the discarded track that
// arrive after this point are ignored. Safe to call more than once.
func (s *Session) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	s.state = StateIdle
	pb := s.playback
	s.current = nil
	s.playback = nil
	close(s.stopc)
	s.mu.Unlock()

	s.store.Clear(s.guildID)
	if pb != nil {
		pb.Stop()
	}
	if err := s.transport.Disconnect(); err != nil {
		log.Printf("Error disconnecting voice for guild %s: %v", s.guildID, err)
	}
}

// Skip ends the current track early; the transport's terminal event then
// drives the normal advance.
func (s *Session) Skip() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped || s.playback == nil || s.state != StatePlaying {
		return ErrNotPlaying
	}
	s.playback.Stop()
	return nil
}

// Pause suspends the current track's audio output.
func (s *Session) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped || s.playback == nil || s.state != StatePlaying {
		return ErrNotPlaying
	}
	if !s.playback.Pause() {
		return ErrAlreadyPaused
	}
	return nil
}

// Resume continues a paused track.
func (s *Session) Resume() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped || s.playback == nil {
		return ErrNotPlaying
	}
	if !s.playback.Resume() {
		return ErrNotPaused
	}
	return nil
}

// Paused reports whether the current track is paused.
func (s *Session) Paused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playback != nil && s.playback.Paused()
}

// Wait blocks until the sequencer loop has exited.
func (s *Session) Wait() {
	<-s.donec
}

func (s *Session) setState(st State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.state = st
	if st != StatePlaying {
		s.current = nil
		s.playback = nil
	}
}

func (s *Session) setCurrent(t Track, pb Playback) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return false
	}
	s.state = StatePlaying
	s.current = &t
	s.playback = pb
	return true
}

func (s *Session) record(t Track) {
	if s.recorder == nil {
		return
	}
	if err := s.recorder.Record(s.guildID, t); err != nil {
		log.Printf("Failed to record play history for guild %s: %v", s.guildID, err)
	}
}

func (s *Session) tryRelease() bool {
	if s.release == nil {
		return true
	}
	return s.release()
}

func (s *Session) clearExit() {
	if s.onExit != nil {
		s.onExit()
	}
}
