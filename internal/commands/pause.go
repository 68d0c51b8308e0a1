package commands

import (
	"errors"

	"github.com/bwmarrin/discordgo"

	"github.com/nvrie/quaver/pkg/player"
)

// Pause suspends the current track's audio output.
func (c *Commands) Pause(s *discordgo.Session, i *discordgo.InteractionCreate) string {
	sess := c.Manager.Get(i.GuildID)
	if sess == nil {
		return "❌ I'm not in a voice channel."
	}
	switch err := sess.Pause(); {
	case err == nil:
		return "⏸️ Paused."
	case errors.Is(err, player.ErrAlreadyPaused):
		return "❌ Playback is already paused."
	default:
		return "❌ Nothing is playing."
	}
}
