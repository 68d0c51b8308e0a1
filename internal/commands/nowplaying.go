package commands

import "github.com/bwmarrin/discordgo"

// NowPlaying shows the track currently streaming, if any.
func (c *Commands) NowPlaying(s *discordgo.Session, i *discordgo.InteractionCreate) string {
	sess := c.Manager.Get(i.GuildID)
	if sess == nil {
		return "❌ Nothing is playing."
	}
	t := sess.Current()
	if t == nil {
		return "❌ Nothing is playing."
	}
	if sess.Paused() {
		return "⏸️ Paused: **" + t.Title + "**"
	}
	return "🎶 Now playing: **" + t.Title + "**"
}
