package resolver

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubBinary writes a yt-dlp stand-in that answers the search, metadata and
// stream-extraction calls. Searches for queries containing "bad" fail.
func stubBinary(t *testing.T) string {
	t.Helper()
	script := `#!/bin/sh
for last; do :; done
case "$last" in
  ytsearch1:*bad*) exit 1 ;;
  ytsearch1:*) echo "https://example.com/watch"; exit 0 ;;
esac
case "$*" in
  *title*) printf 'Stub Title\n180\n' ;;
  *-g*) echo "https://cdn.example.com/audio" ;;
esac
`
	path := filepath.Join(t.TempDir(), "yt-dlp-stub")
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func stubResolver(t *testing.T) *Resolver {
	t.Helper()
	r := New("", time.Minute)
	r.binary = stubBinary(t)
	return r
}

func TestResolveSearchQuery(t *testing.T) {
	r := stubResolver(t)

	track, err := r.Resolve(context.Background(), "some song")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/audio", track.StreamURL)
	assert.Equal(t, "https://example.com/watch", track.OriginalURL)
	assert.Equal(t, "Stub Title", track.Title)
	assert.Equal(t, 3*time.Minute, track.Duration)
}

func TestResolveAllSkipsFailures(t *testing.T) {
	r := stubResolver(t)

	queries := []string{"song one", "bad one", "song two", "bad two", "song three"}
	tracks := r.ResolveAll(context.Background(), queries)

	// The failing entries are dropped; the rest of the playlist survives.
	require.Len(t, tracks, 3)
	for _, track := range tracks {
		assert.Equal(t, "Stub Title", track.Title)
		assert.Equal(t, "https://cdn.example.com/audio", track.StreamURL)
	}
}

func TestResolveAllStopsWhenCancelled(t *testing.T) {
	r := stubResolver(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	tracks := r.ResolveAll(ctx, []string{"song one", "song two"})
	assert.Empty(t, tracks)
}

func TestParseMetadata(t *testing.T) {
	tests := []struct {
		name     string
		out      string
		title    string
		duration time.Duration
	}{
		{
			name:     "title and duration",
			out:      "Never Gonna Give You Up\n213\n",
			title:    "Never Gonna Give You Up",
			duration: 213 * time.Second,
		},
		{
			name:     "fractional duration",
			out:      "Some Track\n184.5\n",
			title:    "Some Track",
			duration: 184500 * time.Millisecond,
		},
		{
			name:     "live stream reports None",
			out:      "lofi hip hop radio\nNone\n",
			title:    "lofi hip hop radio",
			duration: 0,
		},
		{
			name:     "duration NA",
			out:      "Some Premiere\nNA\n",
			title:    "Some Premiere",
			duration: 0,
		},
		{
			name:     "missing duration line",
			out:      "Just A Title\n",
			title:    "Just A Title",
			duration: 0,
		},
		{
			name:  "empty output",
			out:   "",
			title: "Unknown Title",
		},
		{
			name:  "garbage duration",
			out:   "Weird\nabc\n",
			title: "Weird",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := parseMetadata(tt.out)
			assert.Equal(t, tt.title, meta.title)
			assert.Equal(t, tt.duration, meta.duration)
		})
	}
}

func TestFirstLine(t *testing.T) {
	assert.Equal(t, "https://example.com/a", firstLine("https://example.com/a\nhttps://example.com/b\n"))
	assert.Equal(t, "single", firstLine("single"))
	assert.Equal(t, "trimmed", firstLine("  trimmed  \n"))
	assert.Equal(t, "", firstLine(""))
	assert.Equal(t, "", firstLine("\n\n"))
}

func TestArgsCookies(t *testing.T) {
	plain := New("", 0)
	assert.Equal(t, []string{"-g", "url"}, plain.args("-g", "url"))

	withCookies := New("/tmp/cookies.txt", 0)
	assert.Equal(t,
		[]string{"--cookies", "/tmp/cookies.txt", "-g", "url"},
		withCookies.args("-g", "url"))
}

func TestNewTimeoutDefault(t *testing.T) {
	assert.Equal(t, defaultTimeout, New("", 0).timeout)
	assert.Equal(t, defaultTimeout, New("", -time.Second).timeout)
	assert.Equal(t, 30*time.Second, New("", 30*time.Second).timeout)
}

func TestIsURL(t *testing.T) {
	assert.True(t, IsURL("https://www.youtube.com/watch?v=dQw4w9WgXcQ"))
	assert.True(t, IsURL("http://youtu.be/dQw4w9WgXcQ"))
	assert.True(t, IsURL("www.youtube.com/watch?v=dQw4w9WgXcQ"))
	assert.False(t, IsURL("never gonna give you up"))
	assert.False(t, IsURL("rick astley http remix"))
}

func TestIsYouTubeURL(t *testing.T) {
	assert.True(t, IsYouTubeURL("https://www.youtube.com/watch?v=dQw4w9WgXcQ"))
	assert.True(t, IsYouTubeURL("https://youtu.be/dQw4w9WgXcQ"))
	assert.False(t, IsYouTubeURL("https://soundcloud.com/some/track"))
	assert.False(t, IsYouTubeURL("https://open.spotify.com/track/abc"))
}

func TestExtractYouTubeVideoID(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want string
	}{
		{"watch URL", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"watch URL with extras", "https://www.youtube.com/watch?v=dQw4w9WgXcQ&t=42s", "dQw4w9WgXcQ"},
		{"short URL", "https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"short URL with query", "https://youtu.be/dQw4w9WgXcQ?si=xyz", "dQw4w9WgXcQ"},
		{"embed URL", "https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"embed URL with query", "https://www.youtube.com/embed/dQw4w9WgXcQ?autoplay=1", "dQw4w9WgXcQ"},
		{"bare ID", "dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"no ID", "https://www.youtube.com/", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractYouTubeVideoID(tt.url))
		})
	}
}
