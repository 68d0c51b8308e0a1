// Package resolver turns a search query or URL into a playable track
// descriptor by driving yt-dlp as a subprocess, with a library-based
// fallback for direct YouTube links.
package resolver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/nvrie/quaver/pkg/player"
)

// ErrNoResults is returned when the query resolves to nothing playable.
// Callers treat it the same as a timeout: report and do not enqueue.
var ErrNoResults = errors.New("no results found")

const defaultTimeout = 15 * time.Second

// extraction strategies tried in order; the android client often gets
// around web-client throttling.
var streamStrategies = [][]string{
	{"-f", "bestaudio[ext=m4a]/bestaudio[ext=webm]/bestaudio"},
	{"-f", "bestaudio", "--extractor-args", "youtube:player_client=android"},
}

// Resolver resolves queries with yt-dlp. The zero value is not usable; use
// New.
type Resolver struct {
	binary      string
	cookiesFile string
	timeout     time.Duration
}

// New creates a resolver. cookiesFile may be empty; timeout <= 0 uses the
// default.
func New(cookiesFile string, timeout time.Duration) *Resolver {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Resolver{
		binary:      "yt-dlp",
		cookiesFile: cookiesFile,
		timeout:     timeout,
	}
}

// Resolve turns a plain query or URL into a playable track. Plain text is
// searched as the top YouTube result. The call is bounded by the resolver's
// timeout and aborts early when ctx is cancelled.
func (r *Resolver) Resolve(ctx context.Context, query string) (player.Track, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	pageURL := query
	if !IsURL(query) {
		log.Printf("Searching for: %s", query)
		found, err := r.search(ctx, query)
		if err != nil {
			return player.Track{}, err
		}
		pageURL = found
	}

	meta, err := r.metadata(ctx, pageURL)
	if err != nil {
		log.Printf("Failed to get metadata for %s: %v", pageURL, err)
		meta = trackMeta{title: "Unknown Title"}
	}

	streamURL, err := r.streamURL(ctx, pageURL)
	if err != nil {
		// yt-dlp struck out; for YouTube links the library client can
		// still pull a stream.
		if IsYouTubeURL(pageURL) {
			if t, fbErr := resolveWithYouTubeClient(ctx, pageURL); fbErr == nil {
				return t, nil
			}
		}
		return player.Track{}, err
	}

	return player.Track{
		StreamURL:   streamURL,
		OriginalURL: pageURL,
		Title:       meta.title,
		Duration:    meta.duration,
		AddedAt:     time.Now(),
	}, nil
}

// ResolveAll resolves a batch of queries sequentially, skipping entries that
// fail so a partial playlist still plays. It stops early when ctx is
// cancelled and returns the tracks resolved so far.
func (r *Resolver) ResolveAll(ctx context.Context, queries []string) []player.Track {
	tracks := make([]player.Track, 0, len(queries))
	for _, q := range queries {
		if ctx.Err() != nil {
			break
		}
		t, err := r.Resolve(ctx, q)
		if err != nil {
			log.Printf("Skipping unresolved entry '%s': %v", q, err)
			continue
		}
		tracks = append(tracks, t)
	}
	return tracks
}

type trackMeta struct {
	title    string
	duration time.Duration
}

// search finds the top result for a text query and returns its page URL.
func (r *Resolver) search(ctx context.Context, query string) (string, error) {
	args := r.args("--no-playlist", "--no-warnings",
		"--print", "webpage_url",
		"ytsearch1:"+query)

	out, err := r.run(ctx, args)
	if err != nil {
		return "", fmt.Errorf("search failed: %w", err)
	}
	pageURL := firstLine(out)
	if pageURL == "" {
		return "", ErrNoResults
	}
	return pageURL, nil
}

// metadata fetches the display title and duration for a page URL.
func (r *Resolver) metadata(ctx context.Context, pageURL string) (trackMeta, error) {
	args := r.args("--no-playlist", "--no-warnings",
		"--print", "title",
		"--print", "duration",
		pageURL)

	out, err := r.run(ctx, args)
	if err != nil {
		return trackMeta{}, err
	}
	return parseMetadata(out), nil
}

// streamURL extracts the direct audio stream URL, trying each strategy in
// turn.
func (r *Resolver) streamURL(ctx context.Context, pageURL string) (string, error) {
	var lastErr error
	for i, strategy := range streamStrategies {
		args := r.args("--no-playlist", "--no-warnings", "-g")
		args = append(args, strategy...)
		args = append(args, pageURL)

		out, err := r.run(ctx, args)
		if err != nil {
			log.Printf("Stream extraction strategy %d/%d failed: %v", i+1, len(streamStrategies), err)
			lastErr = err
			continue
		}
		if u := firstLine(out); u != "" {
			return u, nil
		}
	}
	if lastErr == nil {
		lastErr = ErrNoResults
	}
	return "", fmt.Errorf("failed to extract audio stream: %w", lastErr)
}

// args prepends the cookie flag when a cookie file is configured.
func (r *Resolver) args(rest ...string) []string {
	if r.cookiesFile == "" {
		return rest
	}
	return append([]string{"--cookies", r.cookiesFile}, rest...)
}

func (r *Resolver) run(ctx context.Context, args []string) (string, error) {
	cmd := exec.CommandContext(ctx, r.binary, args...)
	var out, stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("yt-dlp aborted: %w", ctx.Err())
		}
		return "", fmt.Errorf("yt-dlp failed: %v: %s", err, strings.TrimSpace(stderr.String()))
	}
	return out.String(), nil
}

// parseMetadata reads the two-line title/duration output of yt-dlp.
// Duration is in seconds and may be "NA" or "None" for live streams.
func parseMetadata(out string) trackMeta {
	meta := trackMeta{title: "Unknown Title"}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) >= 1 && strings.TrimSpace(lines[0]) != "" {
		meta.title = strings.TrimSpace(lines[0])
	}
	if len(lines) >= 2 {
		durationStr := strings.TrimSpace(lines[1])
		if durationStr != "" && durationStr != "None" && durationStr != "NA" {
			if seconds, err := strconv.ParseFloat(durationStr, 64); err == nil {
				meta.duration = time.Duration(seconds * float64(time.Second))
			}
		}
	}
	return meta
}

func firstLine(out string) string {
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) == 0 {
		return ""
	}
	return strings.TrimSpace(lines[0])
}
