package voice

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/nvrie/quaver/pkg/player"
)

const (
	joinRetries  = 3
	readyTimeout = 10 * time.Second
)

// Transport owns one guild's voice connection and implements
// player.Transport on top of it.
type Transport struct {
	session *discordgo.Session
	guildID string

	mu sync.Mutex
	vc *discordgo.VoiceConnection
}

// NewTransport creates a transport for the given guild.
func NewTransport(s *discordgo.Session, guildID string) *Transport {
	return &Transport{session: s, guildID: guildID}
}

// UserChannelID returns the voice channel the user currently sits in, or ""
// when they are not in any voice channel of the guild.
func UserChannelID(s *discordgo.Session, guildID, userID string) string {
	guild, err := s.State.Guild(guildID)
	if err != nil {
		return ""
	}
	for _, vs := range guild.VoiceStates {
		if vs.UserID == userID {
			return vs.ChannelID
		}
	}
	return ""
}

// Join connects to the channel, moving there when already connected
// elsewhere in the guild. It retries transient gateway failures and waits
// for the connection to become ready before returning.
func (t *Transport) Join(channelID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.vc != nil && t.vc.ChannelID == channelID && t.vc.Ready {
		return nil
	}

	log.Printf("Joining voice channel %s in guild %s", channelID, t.guildID)

	var vc *discordgo.VoiceConnection
	var err error
	for i := 0; i < joinRetries; i++ {
		vc, err = t.session.ChannelVoiceJoin(t.guildID, channelID, false, true)
		if err == nil {
			break
		}
		log.Printf("Voice join attempt %d/%d failed: %v", i+1, joinRetries, err)
		if i < joinRetries-1 {
			time.Sleep(time.Duration(i+1) * time.Second)
		}
	}
	if err != nil {
		return fmt.Errorf("failed to join voice channel after %d attempts: %w", joinRetries, err)
	}

	timeout := time.After(readyTimeout)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-timeout:
			vc.Disconnect()
			return fmt.Errorf("voice connection timed out")
		case <-ticker.C:
			if vc.Ready {
				t.vc = vc
				return nil
			}
		}
	}
}

// Play starts streaming the given source URL into the guild's voice channel
// and returns the playback handle for it.
func (t *Transport) Play(streamURL string) (player.Playback, error) {
	t.mu.Lock()
	vc := t.vc
	t.mu.Unlock()

	if vc == nil {
		return nil, fmt.Errorf("no voice connection for guild %s", t.guildID)
	}
	return startPlayback(vc, streamURL)
}

// Connected reports whether the transport holds a live voice connection.
func (t *Transport) Connected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.vc != nil
}

// Disconnect leaves the voice channel. Calling it without a live connection
// is a no-op.
func (t *Transport) Disconnect() error {
	t.mu.Lock()
	vc := t.vc
	t.vc = nil
	t.mu.Unlock()

	if vc == nil {
		return nil
	}
	log.Printf("Disconnecting from voice channel in guild %s", t.guildID)
	return vc.Disconnect()
}
