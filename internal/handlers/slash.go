// Package handlers routes Discord gateway events to the command surface.
package handlers

import (
	"log"

	"github.com/bwmarrin/discordgo"

	"github.com/nvrie/quaver/internal/commands"
)

// SlashHandler dispatches slash command interactions.
type SlashHandler struct {
	commands *commands.Commands
}

// NewSlashHandler creates the interaction dispatcher.
func NewSlashHandler(c *commands.Commands) *SlashHandler {
	return &SlashHandler{commands: c}
}

// Handle is registered as a discordgo InteractionCreate handler.
func (h *SlashHandler) Handle(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}
	// Guild-only bot: interactions from DMs carry no member or guild.
	if i.Member == nil || i.Member.User == nil || i.Member.User.Bot || i.GuildID == "" {
		return
	}

	// Acknowledge immediately; resolution can take a while.
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
	if err != nil {
		log.Printf("Error acknowledging interaction: %v", err)
		return
	}

	data := i.ApplicationCommandData()
	var response string
	switch data.Name {
	case "play":
		response = h.commands.Play(s, i, stringOption(data, "query"))
	case "skip":
		response = h.commands.Skip(s, i)
	case "pause":
		response = h.commands.Pause(s, i)
	case "resume":
		response = h.commands.Resume(s, i)
	case "stop":
		response = h.commands.Stop(s, i)
	case "queue":
		response = h.commands.Queue(s, i)
	case "nowplaying":
		response = h.commands.NowPlaying(s, i)
	case "history":
		response = h.commands.HistoryList(s, i)
	case "help":
		response = h.commands.Help(s, i)
	default:
		response = "❌ Unknown command."
	}

	if _, err := s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Content: &response,
	}); err != nil {
		log.Printf("Error sending interaction response: %v", err)
	}
}

func stringOption(data discordgo.ApplicationCommandInteractionData, name string) string {
	for _, option := range data.Options {
		if option.Name == name {
			return option.StringValue()
		}
	}
	return ""
}
