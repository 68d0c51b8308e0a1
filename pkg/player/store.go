package player

import "sync"

// guildQueue is the FIFO track list for a single guild. Each queue carries
// its own mutex so one guild's traffic never contends with another's.
type guildQueue struct {
	mu    sync.Mutex
	items []Track
}

// QueueStore maps guild IDs to their pending-track queues. A guild with no
// entry is equivalent to a guild with an empty queue.
type QueueStore struct {
	mu     sync.RWMutex
	queues map[string]*guildQueue
}

// NewQueueStore creates an empty queue store.
func NewQueueStore() *QueueStore {
	return &QueueStore{
		queues: make(map[string]*guildQueue),
	}
}

// get returns the guild's queue, creating it when create is set.
func (s *QueueStore) get(guildID string, create bool) *guildQueue {
	s.mu.RLock()
	q := s.queues[guildID]
	s.mu.RUnlock()
	if q != nil || !create {
		return q
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if q = s.queues[guildID]; q == nil {
		q = &guildQueue{}
		s.queues[guildID] = q
	}
	return q
}

// Enqueue appends a track to the tail of the guild's queue, creating the
// queue if it does not exist yet.
func (s *QueueStore) Enqueue(guildID string, t Track) {
	q := s.get(guildID, true)
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, t)
}

// Dequeue removes and returns the head of the guild's queue. The second
// return value is false when the queue is empty.
func (s *QueueStore) Dequeue(guildID string) (Track, bool) {
	q := s.get(guildID, false)
	if q == nil {
		return Track{}, false
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return Track{}, false
	}
	t := q.items[0]
	q.items = q.items[1:]
	return t, true
}

// Clear removes every pending track for the guild.
func (s *QueueStore) Clear(guildID string) {
	q := s.get(guildID, false)
	if q == nil {
		return
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = nil
}

// Len returns the number of pending tracks for the guild.
func (s *QueueStore) Len(guildID string) int {
	q := s.get(guildID, false)
	if q == nil {
		return 0
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Tracks returns a snapshot of the guild's pending tracks in play order.
func (s *QueueStore) Tracks(guildID string) []Track {
	q := s.get(guildID, false)
	if q == nil {
		return nil
	}
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]Track, len(q.items))
	copy(out, q.items)
	return out
}
