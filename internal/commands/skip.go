package commands

import "github.com/bwmarrin/discordgo"

// Skip ends the current track early; the terminal event advances the queue.
func (c *Commands) Skip(s *discordgo.Session, i *discordgo.InteractionCreate) string {
	sess := c.Manager.Get(i.GuildID)
	if sess == nil {
		return "❌ Nothing is playing."
	}
	if err := sess.Skip(); err != nil {
		return "❌ Nothing is playing."
	}
	return "⏭️ Skipped the current song."
}
