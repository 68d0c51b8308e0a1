package commands

import (
	"errors"

	"github.com/bwmarrin/discordgo"

	"github.com/nvrie/quaver/pkg/player"
)

// Resume continues paused playback.
func (c *Commands) Resume(s *discordgo.Session, i *discordgo.InteractionCreate) string {
	sess := c.Manager.Get(i.GuildID)
	if sess == nil {
		return "❌ I'm not in a voice channel."
	}
	switch err := sess.Resume(); {
	case err == nil:
		return "▶️ Resumed."
	case errors.Is(err, player.ErrNotPaused):
		return "❌ I'm not paused."
	default:
		return "❌ Nothing is playing."
	}
}
