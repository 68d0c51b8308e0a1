package commands

import (
	"errors"
	"fmt"
	"log"

	"github.com/bwmarrin/discordgo"

	"github.com/nvrie/quaver/pkg/player"
	"github.com/nvrie/quaver/pkg/resolver"
	"github.com/nvrie/quaver/pkg/spotify"
	"github.com/nvrie/quaver/pkg/voice"
)

// Play resolves the query (expanding Spotify links into their tracks),
// enqueues the result and starts playback when the guild is idle.
func (c *Commands) Play(s *discordgo.Session, i *discordgo.InteractionCreate, query string) string {
	guildID := i.GuildID

	channelID := voice.UserChannelID(s, guildID, i.Member.User.ID)
	if channelID == "" {
		return "❌ You must be in a voice channel."
	}

	tr := c.transportFor(s, guildID)
	if err := tr.Join(channelID); err != nil {
		log.Printf("Failed to join voice channel in guild %s: %v", guildID, err)
		return "❌ Could not join your voice channel."
	}

	ctx, done := c.beginResolve(guildID)
	defer done()

	var tracks []player.Track
	if spotify.IsSpotifyLink(query) {
		queries, err := c.Expander.Expand(ctx, query)
		if err != nil {
			if errors.Is(err, spotify.ErrUnavailable) {
				return "❌ No results found."
			}
			log.Printf("Spotify expansion failed for guild %s: %v", guildID, err)
			return "❌ Could not fetch results. Try again later."
		}
		tracks = c.Resolver.ResolveAll(ctx, queries)
		if len(tracks) == 0 {
			if ctx.Err() != nil {
				return "⏹️ Cancelled."
			}
			return "❌ No results found."
		}
	} else {
		t, err := c.Resolver.Resolve(ctx, query)
		if err != nil {
			if errors.Is(err, resolver.ErrNoResults) {
				return "❌ No results found."
			}
			log.Printf("Resolution failed for %q in guild %s: %v", query, guildID, err)
			return "❌ Could not fetch results. Try again later."
		}
		tracks = []player.Track{t}
	}

	if ctx.Err() != nil {
		// Stop arrived while resolving; enqueue nothing.
		return "⏹️ Cancelled."
	}

	requester := i.Member.User.Username
	store := c.Manager.Store()
	for idx := range tracks {
		tracks[idx].RequestedBy = requester
		store.Enqueue(guildID, tracks[idx])
	}

	// The reply only confirms the enqueue; the notifier announces the track
	// once the transport actually starts it.
	notifier := newChannelNotifier(s, i.ChannelID)
	c.Manager.EnsureStarted(guildID, tr, notifier)

	if len(tracks) > 1 {
		return fmt.Sprintf("➕ Added **%d** tracks to the queue.", len(tracks))
	}
	return "➕ Added to queue: **" + tracks[0].Title + "**"
}
