package commands

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nvrie/quaver/pkg/player"
	"github.com/nvrie/quaver/pkg/resolver"
	"github.com/nvrie/quaver/pkg/spotify"
)

type stubPlayback struct{ done chan error }

func newStubPlayback() *stubPlayback { return &stubPlayback{done: make(chan error, 1)} }

func (p *stubPlayback) Done() <-chan error { return p.done }
func (p *stubPlayback) Stop()              {}
func (p *stubPlayback) Pause() bool        { return true }
func (p *stubPlayback) Resume() bool       { return true }
func (p *stubPlayback) Paused() bool       { return false }

type stubTransport struct {
	mu          sync.Mutex
	connected   bool
	joined      []string
	played      []string
	disconnects int
}

func (t *stubTransport) Join(channelID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.connected = true
	t.joined = append(t.joined, channelID)
	return nil
}

func (t *stubTransport) Connected() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.connected
}

func (t *stubTransport) Play(streamURL string) (player.Playback, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.played = append(t.played, streamURL)
	return newStubPlayback(), nil
}

func (t *stubTransport) Disconnect() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.connected = false
	t.disconnects++
	return nil
}

func (t *stubTransport) playCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.played)
}

func (t *stubTransport) disconnectCount() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.disconnects
}

type stubResolver struct {
	track player.Track
	err   error
}

func (r *stubResolver) Resolve(ctx context.Context, query string) (player.Track, error) {
	return r.track, r.err
}

func (r *stubResolver) ResolveAll(ctx context.Context, queries []string) []player.Track {
	if r.err != nil {
		return nil
	}
	out := make([]player.Track, len(queries))
	for i := range out {
		out[i] = r.track
	}
	return out
}

func newTestCommands(t *testing.T) *Commands {
	t.Helper()
	store := player.NewQueueStore()
	c := New(nil, player.NewManager(store, nil), nil, spotify.NewExpander("", ""), nil)
	t.Cleanup(func() { c.Manager.StopAll() })
	return c
}

func testSession(t *testing.T) *discordgo.Session {
	t.Helper()
	dg, err := discordgo.New("Bot test")
	require.NoError(t, err)
	require.NoError(t, dg.State.GuildAdd(&discordgo.Guild{
		ID: "g1",
		VoiceStates: []*discordgo.VoiceState{
			{UserID: "u1", ChannelID: "vc1", GuildID: "g1"},
		},
	}))
	return dg
}

func interaction(guildID, userID string) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		GuildID:   guildID,
		ChannelID: "text1",
		Member:    &discordgo.Member{User: &discordgo.User{ID: userID, Username: "alice"}},
	}}
}

func TestPlayReplyConfirmsEnqueueOnly(t *testing.T) {
	c := newTestCommands(t)
	tr := &stubTransport{}
	c.transports["g1"] = tr
	c.Resolver = &stubResolver{track: player.Track{Title: "T", StreamURL: "stream://T"}}

	reply := c.Play(testSession(t), interaction("g1", "u1"), "some song")

	// The reply must not claim the track is playing; whether the transport
	// accepts it is only known later and announced by the notifier.
	assert.Equal(t, "➕ Added to queue: **T**", reply)
	assert.Equal(t, []string{"vc1"}, tr.joined)
	require.Eventually(t, func() bool { return tr.playCount() == 1 },
		2*time.Second, 5*time.Millisecond)
}

func TestPlayRequiresVoiceChannel(t *testing.T) {
	c := newTestCommands(t)

	reply := c.Play(testSession(t), interaction("g1", "u2"), "some song")
	assert.Equal(t, "❌ You must be in a voice channel.", reply)
}

func TestPlaySpotifyLinkWithoutCredentials(t *testing.T) {
	c := newTestCommands(t)
	c.transports["g1"] = &stubTransport{}

	reply := c.Play(testSession(t), interaction("g1", "u1"),
		"https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M")
	assert.Equal(t, "❌ No results found.", reply)
}

func TestStopDisconnectsLingeringVoice(t *testing.T) {
	c := newTestCommands(t)
	tr := &stubTransport{}
	c.transports["g1"] = tr
	c.Resolver = &stubResolver{err: resolver.ErrNoResults}

	// A failed resolution leaves no session behind, but the bot already
	// joined the caller's channel.
	reply := c.Play(testSession(t), interaction("g1", "u1"), "no such song")
	assert.Equal(t, "❌ No results found.", reply)
	assert.True(t, tr.Connected())
	assert.Nil(t, c.Manager.Get("g1"))

	reply = c.Stop(nil, interaction("g1", "u1"))
	assert.Equal(t, "⏹️ Stopped playback and disconnected.", reply)
	assert.False(t, tr.Connected())
	assert.Equal(t, 1, tr.disconnectCount())
}

func TestStopWithoutVoiceConnection(t *testing.T) {
	c := newTestCommands(t)

	reply := c.Stop(nil, interaction("g1", "u1"))
	assert.Equal(t, "❌ I'm not connected to any voice channel.", reply)
}
