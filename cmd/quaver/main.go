package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/bwmarrin/discordgo"
	"github.com/joho/godotenv"

	"github.com/nvrie/quaver/internal/commands"
	"github.com/nvrie/quaver/internal/config"
	"github.com/nvrie/quaver/internal/handlers"
	"github.com/nvrie/quaver/internal/keepalive"
	"github.com/nvrie/quaver/internal/presence"
	"github.com/nvrie/quaver/pkg/history"
	"github.com/nvrie/quaver/pkg/player"
	"github.com/nvrie/quaver/pkg/resolver"
	"github.com/nvrie/quaver/pkg/spotify"
)

func main() {
	// A missing .env file is fine; the environment may be set directly.
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	hist, err := history.NewStore(cfg.HistoryDB)
	if err != nil {
		log.Printf("Play history disabled: %v", err)
		hist = nil
	}

	store := player.NewQueueStore()
	var recorder player.Recorder
	if hist != nil {
		recorder = hist
	}
	manager := player.NewManager(store, recorder)

	res := resolver.New(cfg.CookiesFile, cfg.ResolveTimeout)
	exp := spotify.NewExpander(cfg.SpotifyClientID, cfg.SpotifyClientSecret)
	if !exp.Enabled() {
		log.Println("Spotify credentials not configured; playlist expansion disabled")
	}

	cmds := commands.New(cfg, manager, res, exp, hist)

	dg, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		log.Fatalf("Failed to create Discord session: %v", err)
	}
	dg.Identify.Intents = discordgo.IntentsGuilds | discordgo.IntentsGuildVoiceStates

	slash := handlers.NewSlashHandler(cmds)
	dg.AddHandler(slash.Handle)

	if err := dg.Open(); err != nil {
		log.Fatalf("Failed to open Discord session: %v", err)
	}

	if err := commands.RegisterSlashCommands(dg); err != nil {
		log.Printf("Slash command registration failed: %v", err)
	}

	presenceManager := presence.NewManager(dg, manager)
	presenceManager.Update()
	presenceManager.StartPeriodicUpdates()

	var pruner *history.Pruner
	if hist != nil {
		pruner = history.NewPruner(hist, cfg.HistoryRetention)
	}

	keepalive.Start(cfg.KeepAliveAddr)

	log.Println("Bot is running. Press CTRL-C to exit.")
	sc := make(chan os.Signal, 1)
	signal.Notify(sc, syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	<-sc

	manager.StopAll()
	if pruner != nil {
		pruner.Stop()
	}
	if hist != nil {
		hist.Close()
	}
	dg.Close()
}
