package config

import (
	"errors"
	"log"
	"os"
	"time"
)

// ErrDiscordTokenNotSet is the only fatal configuration error; every other
// setting has a default or degrades a feature.
var ErrDiscordTokenNotSet = errors.New("DISCORD_TOKEN is not set")

const (
	defaultResolveTimeout   = 15 * time.Second
	defaultKeepAliveAddr    = ":8080"
	defaultHistoryDB        = "quaver.db"
	defaultHistoryRetention = 720 * time.Hour
)

type Config struct {
	DiscordToken string

	// Spotify credentials; both empty disables playlist expansion.
	SpotifyClientID     string
	SpotifyClientSecret string

	// CookiesFile is passed to yt-dlp to improve extraction reliability.
	CookiesFile string

	ResolveTimeout time.Duration

	// KeepAliveAddr is the uptime-ping listen address; empty disables it.
	KeepAliveAddr string

	HistoryDB        string
	HistoryRetention time.Duration
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	discordToken := os.Getenv("DISCORD_TOKEN")
	if discordToken == "" {
		return nil, ErrDiscordTokenNotSet
	}

	cfg := &Config{
		DiscordToken:        discordToken,
		SpotifyClientID:     os.Getenv("SPOTIFY_CLIENT_ID"),
		SpotifyClientSecret: os.Getenv("SPOTIFY_CLIENT_SECRET"),
		CookiesFile:         os.Getenv("YTDLP_COOKIES"),
		ResolveTimeout:      durationEnv("RESOLVE_TIMEOUT", defaultResolveTimeout),
		KeepAliveAddr:       defaultKeepAliveAddr,
		HistoryDB:           defaultHistoryDB,
		HistoryRetention:    durationEnv("HISTORY_RETENTION", defaultHistoryRetention),
	}

	if addr, ok := os.LookupEnv("KEEPALIVE_ADDR"); ok {
		cfg.KeepAliveAddr = addr
	}
	if path := os.Getenv("HISTORY_DB"); path != "" {
		cfg.HistoryDB = path
	}

	return cfg, nil
}

// durationEnv parses a duration variable, falling back to the default on
// absence or a bad value.
func durationEnv(name string, fallback time.Duration) time.Duration {
	val := os.Getenv(name)
	if val == "" {
		return fallback
	}
	d, err := time.ParseDuration(val)
	if err != nil || d <= 0 {
		log.Printf("Invalid %s value %q, using default %v", name, val, fallback)
		return fallback
	}
	return d
}
