// Package player holds the per-guild playback queue and the sequencing
// state machine that chains track completions into the next dequeue.
//
// The QueueStore maps guild IDs to independent FIFO queues. A Session is
// the control loop for one guild: it dequeues the head track, hands it to
// the Transport, waits for that track's single terminal event and advances
// until the queue drains, at which point it disconnects and releases
// itself. The Manager guarantees at most one live Session per guild.
//
// The package owns the Transport, Notifier and Recorder interfaces so the
// sequencer can be exercised without a Discord connection.
package player
