package commands

import (
	"fmt"
	"log"
	"strings"

	"github.com/bwmarrin/discordgo"
)

const historyDisplayLimit = 10

// History lists the guild's most recently played tracks.
func (c *Commands) HistoryList(s *discordgo.Session, i *discordgo.InteractionCreate) string {
	if c.History == nil {
		return "❌ Play history is not available."
	}

	entries, err := c.History.Recent(i.GuildID, historyDisplayLimit)
	if err != nil {
		log.Printf("Failed to load history for guild %s: %v", i.GuildID, err)
		return "❌ Could not load play history."
	}
	if len(entries) == 0 {
		return "Nothing has been played yet."
	}

	var b strings.Builder
	b.WriteString("**Recently played:**\n")
	for idx, e := range entries {
		fmt.Fprintf(&b, "%d. **%s** (requested by %s)\n", idx+1, e.Title, e.RequestedBy)
	}
	return strings.TrimRight(b.String(), "\n")
}
