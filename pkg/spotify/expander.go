// Package spotify expands Spotify links into plain "title - artist" search
// queries that the resolver can feed to YouTube one by one.
package spotify

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"sync"

	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2/clientcredentials"
)

// ErrUnavailable is returned when no Spotify credentials are configured.
// Callers degrade gracefully: an unavailable expander means zero tracks.
var ErrUnavailable = errors.New("spotify expansion is not configured")

// LinkKind classifies a recognized Spotify link.
type LinkKind int

const (
	LinkNone LinkKind = iota
	LinkTrack
	LinkAlbum
	LinkPlaylist
)

var (
	trackRegex    = regexp.MustCompile(`(?:https?://)?open\.spotify\.com(?:/intl-[a-z]+)?/track/([a-zA-Z0-9]+)`)
	albumRegex    = regexp.MustCompile(`(?:https?://)?open\.spotify\.com(?:/intl-[a-z]+)?/album/([a-zA-Z0-9]+)`)
	playlistRegex = regexp.MustCompile(`(?:https?://)?open\.spotify\.com(?:/intl-[a-z]+)?/playlist/([a-zA-Z0-9]+)`)
)

const playlistPageSize = 100

// IsSpotifyLink reports whether the input is a Spotify track, album or
// playlist link.
func IsSpotifyLink(s string) bool {
	kind, _ := ParseLink(s)
	return kind != LinkNone
}

// ParseLink extracts the kind and ID from a Spotify link.
func ParseLink(s string) (LinkKind, string) {
	if m := trackRegex.FindStringSubmatch(s); m != nil {
		return LinkTrack, m[1]
	}
	if m := albumRegex.FindStringSubmatch(s); m != nil {
		return LinkAlbum, m[1]
	}
	if m := playlistRegex.FindStringSubmatch(s); m != nil {
		return LinkPlaylist, m[1]
	}
	return LinkNone, ""
}

// Expander turns Spotify links into search query strings using the Web API
// with client-credentials auth. An Expander built without credentials is
// valid but always returns ErrUnavailable.
type Expander struct {
	clientID     string
	clientSecret string

	mu     sync.Mutex
	client *spotify.Client
}

// NewExpander creates an expander. Empty credentials produce a disabled
// expander rather than an error.
func NewExpander(clientID, clientSecret string) *Expander {
	return &Expander{
		clientID:     clientID,
		clientSecret: clientSecret,
	}
}

// Enabled reports whether credentials are configured.
func (e *Expander) Enabled() bool {
	return e.clientID != "" && e.clientSecret != ""
}

// Expand returns one "title - artist" query per track behind the link, in
// the link's own order.
func (e *Expander) Expand(ctx context.Context, link string) ([]string, error) {
	kind, id := ParseLink(link)
	if kind == LinkNone {
		return nil, fmt.Errorf("not a spotify link: %s", link)
	}
	if !e.Enabled() {
		return nil, ErrUnavailable
	}

	client, err := e.ensureClient(ctx)
	if err != nil {
		return nil, err
	}

	switch kind {
	case LinkTrack:
		return e.expandTrack(ctx, client, id)
	case LinkAlbum:
		return e.expandAlbum(ctx, client, id)
	case LinkPlaylist:
		return e.expandPlaylist(ctx, client, id)
	default:
		return nil, fmt.Errorf("unsupported spotify link: %s", link)
	}
}

func (e *Expander) ensureClient(ctx context.Context) (*spotify.Client, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.client != nil {
		return e.client, nil
	}

	config := &clientcredentials.Config{
		ClientID:     e.clientID,
		ClientSecret: e.clientSecret,
		TokenURL:     spotifyauth.TokenURL,
	}
	token, err := config.Token(ctx)
	if err != nil {
		return nil, fmt.Errorf("spotify auth failed: %w", err)
	}

	httpClient := spotifyauth.New().Client(ctx, token)
	e.client = spotify.New(httpClient)
	log.Println("Authenticated with Spotify")
	return e.client, nil
}

func (e *Expander) expandTrack(ctx context.Context, client *spotify.Client, id string) ([]string, error) {
	track, err := client.GetTrack(ctx, spotify.ID(id))
	if err != nil {
		return nil, fmt.Errorf("failed to get track: %w", err)
	}
	return []string{trackQuery(track.Name, track.Artists)}, nil
}

func (e *Expander) expandAlbum(ctx context.Context, client *spotify.Client, id string) ([]string, error) {
	album, err := client.GetAlbum(ctx, spotify.ID(id))
	if err != nil {
		return nil, fmt.Errorf("failed to get album: %w", err)
	}

	queries := make([]string, 0, len(album.Tracks.Tracks))
	for _, t := range album.Tracks.Tracks {
		queries = append(queries, trackQuery(t.Name, t.Artists))
	}
	return queries, nil
}

func (e *Expander) expandPlaylist(ctx context.Context, client *spotify.Client, id string) ([]string, error) {
	var queries []string
	for offset := 0; ; offset += playlistPageSize {
		page, err := client.GetPlaylistItems(ctx, spotify.ID(id),
			spotify.Limit(playlistPageSize), spotify.Offset(offset))
		if err != nil {
			return nil, fmt.Errorf("failed to get playlist items: %w", err)
		}
		for _, item := range page.Items {
			// Episodes and removed tracks come back with a nil track.
			if item.Track.Track == nil {
				continue
			}
			queries = append(queries, trackQuery(item.Track.Track.Name, item.Track.Track.Artists))
		}
		if len(page.Items) < playlistPageSize {
			break
		}
	}
	return queries, nil
}

func trackQuery(name string, artists []spotify.SimpleArtist) string {
	names := make([]string, 0, len(artists))
	for _, a := range artists {
		names = append(names, a.Name)
	}
	if len(names) == 0 {
		return name
	}
	return name + " - " + strings.Join(names, ", ")
}
