package spotify

import (
	"context"
	"testing"

	spotifyapi "github.com/zmb3/spotify/v2"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLink(t *testing.T) {
	tests := []struct {
		name string
		link string
		kind LinkKind
		id   string
	}{
		{
			name: "track",
			link: "https://open.spotify.com/track/4cOdK2wGLETKBW3PvgPWqT",
			kind: LinkTrack,
			id:   "4cOdK2wGLETKBW3PvgPWqT",
		},
		{
			name: "track with query params",
			link: "https://open.spotify.com/track/4cOdK2wGLETKBW3PvgPWqT?si=abc123",
			kind: LinkTrack,
			id:   "4cOdK2wGLETKBW3PvgPWqT",
		},
		{
			name: "intl track",
			link: "https://open.spotify.com/intl-de/track/4cOdK2wGLETKBW3PvgPWqT",
			kind: LinkTrack,
			id:   "4cOdK2wGLETKBW3PvgPWqT",
		},
		{
			name: "album",
			link: "https://open.spotify.com/album/6QaVfG1pHYl1z15ZxkvVDW",
			kind: LinkAlbum,
			id:   "6QaVfG1pHYl1z15ZxkvVDW",
		},
		{
			name: "playlist",
			link: "https://open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M",
			kind: LinkPlaylist,
			id:   "37i9dQZF1DXcBWIGoYBM5M",
		},
		{
			name: "no scheme",
			link: "open.spotify.com/playlist/37i9dQZF1DXcBWIGoYBM5M",
			kind: LinkPlaylist,
			id:   "37i9dQZF1DXcBWIGoYBM5M",
		},
		{
			name: "youtube link",
			link: "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
			kind: LinkNone,
		},
		{
			name: "plain text",
			link: "never gonna give you up",
			kind: LinkNone,
		},
		{
			name: "artist link is not playable",
			link: "https://open.spotify.com/artist/0gxyHStUsqpMadRV0Di1Qt",
			kind: LinkNone,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kind, id := ParseLink(tt.link)
			assert.Equal(t, tt.kind, kind)
			assert.Equal(t, tt.id, id)
		})
	}
}

func TestIsSpotifyLink(t *testing.T) {
	assert.True(t, IsSpotifyLink("https://open.spotify.com/track/4cOdK2wGLETKBW3PvgPWqT"))
	assert.True(t, IsSpotifyLink("https://open.spotify.com/album/6QaVfG1pHYl1z15ZxkvVDW"))
	assert.False(t, IsSpotifyLink("https://youtu.be/dQw4w9WgXcQ"))
	assert.False(t, IsSpotifyLink("some search text"))
}

func TestExpanderDisabled(t *testing.T) {
	e := NewExpander("", "")
	assert.False(t, e.Enabled())

	_, err := e.Expand(context.Background(), "https://open.spotify.com/track/4cOdK2wGLETKBW3PvgPWqT")
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestExpandRejectsNonSpotifyLink(t *testing.T) {
	e := NewExpander("id", "secret")

	_, err := e.Expand(context.Background(), "https://youtu.be/dQw4w9WgXcQ")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnavailable)
}

func TestTrackQuery(t *testing.T) {
	one := []spotifyapi.SimpleArtist{{Name: "Rick Astley"}}
	assert.Equal(t, "Never Gonna Give You Up - Rick Astley",
		trackQuery("Never Gonna Give You Up", one))

	two := []spotifyapi.SimpleArtist{{Name: "Daft Punk"}, {Name: "Pharrell Williams"}}
	assert.Equal(t, "Get Lucky - Daft Punk, Pharrell Williams",
		trackQuery("Get Lucky", two))

	assert.Equal(t, "Untitled", trackQuery("Untitled", nil))
}
