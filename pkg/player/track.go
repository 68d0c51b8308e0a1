package player

import "time"

// Track is a resolved, playable reference to one piece of audio.
// StreamURL is a time-limited direct media URL and is not stable across
// re-resolutions; Title is display metadata only and never used for identity.
type Track struct {
	StreamURL   string
	OriginalURL string
	Title       string
	RequestedBy string
	Duration    time.Duration
	AddedAt     time.Time
}
