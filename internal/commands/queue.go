package commands

import (
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
)

const queueDisplayLimit = 10

// Queue lists the current track and the pending queue.
func (c *Commands) Queue(s *discordgo.Session, i *discordgo.InteractionCreate) string {
	guildID := i.GuildID

	var b strings.Builder
	if sess := c.Manager.Get(guildID); sess != nil {
		if t := sess.Current(); t != nil {
			fmt.Fprintf(&b, "🎶 Now playing: **%s**\n", t.Title)
		}
	}

	pending := c.Manager.Store().Tracks(guildID)
	if len(pending) == 0 {
		if b.Len() == 0 {
			return "The queue is empty."
		}
		b.WriteString("The queue is empty.")
		return b.String()
	}

	b.WriteString("**Up next:**\n")
	for idx, t := range pending {
		if idx >= queueDisplayLimit {
			fmt.Fprintf(&b, "…and %d more.", len(pending)-queueDisplayLimit)
			break
		}
		fmt.Fprintf(&b, "%d. **%s** (requested by %s)\n", idx+1, t.Title, t.RequestedBy)
	}
	return strings.TrimRight(b.String(), "\n")
}
