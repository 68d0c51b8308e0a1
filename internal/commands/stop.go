package commands

import (
	"log"

	"github.com/bwmarrin/discordgo"
)

// Stop clears the queue, abandons any in-flight resolution batch and
// disconnects from voice.
func (c *Commands) Stop(s *discordgo.Session, i *discordgo.InteractionCreate) string {
	guildID := i.GuildID
	c.cancelResolves(guildID)
	if c.Manager.Stop(guildID) {
		return "⏹️ Stopped playback and disconnected."
	}

	// No session, but a play whose resolution failed may have joined voice
	// and left the connection up. Tear that down too.
	if tr := c.transport(guildID); tr != nil && tr.Connected() {
		if err := tr.Disconnect(); err != nil {
			log.Printf("Error disconnecting voice for guild %s: %v", guildID, err)
		}
		return "⏹️ Stopped playback and disconnected."
	}
	return "❌ I'm not connected to any voice channel."
}
