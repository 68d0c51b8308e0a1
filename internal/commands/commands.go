package commands

import (
	"context"
	"log"
	"sync"

	"github.com/bwmarrin/discordgo"

	"github.com/nvrie/quaver/internal/config"
	"github.com/nvrie/quaver/pkg/history"
	"github.com/nvrie/quaver/pkg/player"
	"github.com/nvrie/quaver/pkg/resolver"
	"github.com/nvrie/quaver/pkg/spotify"
	"github.com/nvrie/quaver/pkg/voice"
)

// guildTransport is the slice of the voice transport the commands drive.
type guildTransport interface {
	player.Transport
	Join(channelID string) error
	Connected() bool
}

// trackResolver turns queries into playable tracks.
type trackResolver interface {
	Resolve(ctx context.Context, query string) (player.Track, error)
	ResolveAll(ctx context.Context, queries []string) []player.Track
}

// Commands holds the shared dependencies of every command handler.
type Commands struct {
	Config   *config.Config
	Manager  *player.Manager
	Resolver trackResolver
	Expander *spotify.Expander
	History  *history.Store

	mu         sync.Mutex
	transports map[string]guildTransport
	resolves   map[string]map[uint64]context.CancelFunc
	resolveSeq uint64
}

// New wires up the command surface.
func New(cfg *config.Config, manager *player.Manager, res *resolver.Resolver, exp *spotify.Expander, hist *history.Store) *Commands {
	return &Commands{
		Config:     cfg,
		Manager:    manager,
		Resolver:   res,
		Expander:   exp,
		History:    hist,
		transports: make(map[string]guildTransport),
		resolves:   make(map[string]map[uint64]context.CancelFunc),
	}
}

// transportFor returns the guild's voice transport, creating it on first
// use. Sessions and later play commands share the same transport so a move
// between channels reuses one connection.
func (c *Commands) transportFor(s *discordgo.Session, guildID string) guildTransport {
	c.mu.Lock()
	defer c.mu.Unlock()
	tr := c.transports[guildID]
	if tr == nil {
		tr = voice.NewTransport(s, guildID)
		c.transports[guildID] = tr
	}
	return tr
}

// transport returns the guild's cached transport without creating one.
func (c *Commands) transport(guildID string) guildTransport {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transports[guildID]
}

// beginResolve registers a cancellable context for an in-flight resolution
// batch, so an explicit stop can abandon it mid-way. The returned done func
// must be called when the batch finishes.
func (c *Commands) beginResolve(guildID string) (context.Context, func()) {
	ctx, cancel := context.WithCancel(context.Background())

	c.mu.Lock()
	c.resolveSeq++
	id := c.resolveSeq
	if c.resolves[guildID] == nil {
		c.resolves[guildID] = make(map[uint64]context.CancelFunc)
	}
	c.resolves[guildID][id] = cancel
	c.mu.Unlock()

	return ctx, func() {
		cancel()
		c.mu.Lock()
		delete(c.resolves[guildID], id)
		c.mu.Unlock()
	}
}

// cancelResolves abandons every pending resolution batch for the guild.
func (c *Commands) cancelResolves(guildID string) {
	c.mu.Lock()
	pending := c.resolves[guildID]
	delete(c.resolves, guildID)
	c.mu.Unlock()
	for _, cancel := range pending {
		cancel()
	}
}

// channelNotifier posts session events to the text channel the session was
// started from. It owns the now-playing announcements: the play command
// only acknowledges the enqueue, so a track that fails to start never gets
// announced as playing.
type channelNotifier struct {
	session   *discordgo.Session
	channelID string
}

func newChannelNotifier(s *discordgo.Session, channelID string) *channelNotifier {
	return &channelNotifier{session: s, channelID: channelID}
}

// NowPlaying announces a track start.
func (n *channelNotifier) NowPlaying(t player.Track) {
	n.send("🎶 Now playing: **" + t.Title + "**")
}

func (n *channelNotifier) PlaybackFailed(t player.Track) {
	n.send("❌ Could not play **" + t.Title + "**.")
}

func (n *channelNotifier) QueueFinished() {
	n.send("✅ Queue finished — disconnecting.")
}

func (n *channelNotifier) send(msg string) {
	if _, err := n.session.ChannelMessageSend(n.channelID, msg); err != nil {
		log.Printf("Error sending message to channel %s: %v", n.channelID, err)
	}
}
