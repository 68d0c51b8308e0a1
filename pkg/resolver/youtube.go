package resolver

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	youtube "github.com/kkdai/youtube/v2"

	"github.com/nvrie/quaver/pkg/player"
)

var videoIDPattern = regexp.MustCompile(`[a-zA-Z0-9_-]{11}`)

// IsURL reports whether the input looks like a link rather than search text.
func IsURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://") ||
		strings.HasPrefix(s, "www.")
}

// IsYouTubeURL reports whether a URL points at YouTube.
func IsYouTubeURL(s string) bool {
	return strings.Contains(s, "youtube.com") || strings.Contains(s, "youtu.be")
}

// ExtractYouTubeVideoID pulls the 11-character video ID out of the common
// YouTube URL shapes; it returns "" when none is found.
func ExtractYouTubeVideoID(youtubeURL string) string {
	if strings.Contains(youtubeURL, "youtube.com") {
		parsed, err := url.Parse(youtubeURL)
		if err != nil {
			return ""
		}
		if videoID := parsed.Query().Get("v"); videoID != "" {
			return videoID
		}
		if strings.Contains(parsed.Path, "/embed/") {
			parts := strings.Split(parsed.Path, "/embed/")
			if len(parts) > 1 {
				return strings.Split(parts[1], "?")[0]
			}
		}
	}

	if strings.Contains(youtubeURL, "youtu.be") {
		parsed, err := url.Parse(youtubeURL)
		if err != nil {
			return ""
		}
		videoID := strings.TrimPrefix(parsed.Path, "/")
		return strings.Split(videoID, "?")[0]
	}

	if m := videoIDPattern.FindString(youtubeURL); m != "" {
		return m
	}
	return ""
}

// resolveWithYouTubeClient extracts a stream URL through the youtube client
// library instead of yt-dlp. Used as a fallback for direct YouTube links.
func resolveWithYouTubeClient(ctx context.Context, pageURL string) (player.Track, error) {
	videoID := ExtractYouTubeVideoID(pageURL)
	if videoID == "" {
		return player.Track{}, errors.New("could not extract video ID")
	}

	client := &youtube.Client{}
	video, err := client.GetVideoContext(ctx, videoID)
	if err != nil {
		return player.Track{}, fmt.Errorf("youtube client error: %w", err)
	}

	formats := video.Formats.WithAudioChannels()
	if len(formats) == 0 {
		return player.Track{}, errors.New("no audio formats found for video")
	}

	streamURL, err := client.GetStreamURLContext(ctx, video, &formats[0])
	if err != nil {
		return player.Track{}, fmt.Errorf("get stream URL error: %w", err)
	}

	return player.Track{
		StreamURL:   streamURL,
		OriginalURL: pageURL,
		Title:       video.Title,
		Duration:    video.Duration,
		AddedAt:     time.Now(),
	}, nil
}
