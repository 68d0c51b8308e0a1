package commands

import "github.com/bwmarrin/discordgo"

// Help lists the available commands.
func (c *Commands) Help(s *discordgo.Session, i *discordgo.InteractionCreate) string {
	return `**Quaver commands**
· /play <query or URL> — play a song, or add it to the queue (Spotify links are expanded)
· /skip — skip the current song
· /pause — pause playback
· /resume — resume playback
· /stop — stop playback, clear the queue and disconnect
· /queue — show the pending queue
· /nowplaying — show the current song
· /history — show recently played songs`
}
