package commands

import (
	"log"

	"github.com/bwmarrin/discordgo"
)

// RegisterSlashCommands registers all slash commands globally.
func RegisterSlashCommands(s *discordgo.Session) error {
	commands := []*discordgo.ApplicationCommand{
		{
			Name:        "play",
			Description: "Play a song or add it to the queue",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "query",
					Description: "Search query, YouTube URL or Spotify link",
					Required:    true,
				},
			},
		},
		{
			Name:        "skip",
			Description: "Skip the current song",
		},
		{
			Name:        "pause",
			Description: "Pause the current song",
		},
		{
			Name:        "resume",
			Description: "Resume playback",
		},
		{
			Name:        "stop",
			Description: "Stop playback and clear the queue",
		},
		{
			Name:        "queue",
			Description: "Show the current queue",
		},
		{
			Name:        "nowplaying",
			Description: "Show what's currently playing",
		},
		{
			Name:        "history",
			Description: "Show recently played songs",
		},
		{
			Name:        "help",
			Description: "Show help information",
		},
	}

	log.Println("Registering global slash commands...")
	for _, cmd := range commands {
		if _, err := s.ApplicationCommandCreate(s.State.User.ID, "", cmd); err != nil {
			log.Printf("Error creating command %s: %v", cmd.Name, err)
			return err
		}
	}
	log.Println("All slash commands registered")
	return nil
}
