package presence

import (
	"log"
	"strconv"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/nvrie/quaver/pkg/player"
)

// Manager keeps the bot's status line in sync with playback activity.
type Manager struct {
	session *discordgo.Session
	manager *player.Manager
}

// NewManager creates a presence manager.
func NewManager(session *discordgo.Session, manager *player.Manager) *Manager {
	return &Manager{session: session, manager: manager}
}

// Update sets the status to the current activity: the number of guilds being
// played for, or a default listening prompt when idle.
func (m *Manager) Update() {
	active := m.manager.ActiveCount()

	activity := &discordgo.Activity{
		Name: "/play",
		Type: discordgo.ActivityTypeListening,
	}
	if active > 0 {
		activity.Name = "music in " + strconv.Itoa(active) + " servers"
		if active == 1 {
			activity.Name = "music in 1 server"
		}
	}

	err := m.session.UpdateStatusComplex(discordgo.UpdateStatusData{
		Status:     "online",
		Activities: []*discordgo.Activity{activity},
	})
	if err != nil {
		log.Printf("Failed to update bot presence: %v", err)
	}
}

// StartPeriodicUpdates refreshes the status on an interval until the bot
// shuts down.
func (m *Manager) StartPeriodicUpdates() {
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			m.Update()
		}
	}()
}
