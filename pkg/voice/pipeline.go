package voice

import (
	"context"
	"fmt"
	"io"
	"log"
	"os/exec"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"layeh.com/gopus"
)

const (
	sampleRate  = 48000
	channels    = 2
	frameSize   = 960 // 20ms at 48kHz
	frameBytes  = frameSize * channels * 2
	opusBitrate = 128000
	readTimeout = 5 * time.Second
	sendTimeout = 100 * time.Millisecond
	pausePoll   = 100 * time.Millisecond
)

// Playback streams one track: ffmpeg decodes the source URL to raw PCM,
// gopus encodes 20ms frames, and the frames go out on the voice
// connection's OpusSend channel. Exactly one terminal result is delivered
// on Done regardless of how the stream ends.
type Playback struct {
	ctx    context.Context
	cancel context.CancelFunc
	vc     *discordgo.VoiceConnection
	cmd    *exec.Cmd

	done chan error
	once sync.Once

	mu     sync.Mutex
	paused bool
}

func startPlayback(vc *discordgo.VoiceConnection, streamURL string) (*Playback, error) {
	ctx, cancel := context.WithCancel(context.Background())

	cmd := exec.CommandContext(ctx, "ffmpeg",
		"-reconnect", "1",
		"-reconnect_streamed", "1",
		"-reconnect_delay_max", "5",
		"-i", streamURL,
		"-f", "s16le",
		"-acodec", "pcm_s16le",
		"-ar", fmt.Sprintf("%d", sampleRate),
		"-ac", fmt.Sprintf("%d", channels),
		"-vn",
		"-loglevel", "warning",
		"pipe:1")

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to create stderr pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		cancel()
		return nil, fmt.Errorf("failed to start ffmpeg: %w", err)
	}

	p := &Playback{
		ctx:    ctx,
		cancel: cancel,
		vc:     vc,
		cmd:    cmd,
		done:   make(chan error, 1),
	}

	go p.consumeStderr(stderr)
	go p.stream(stdout)
	return p, nil
}

// Done yields the playback's single terminal result.
func (p *Playback) Done() <-chan error {
	return p.done
}

// Stop ends the playback early. The terminal event still fires (once).
func (p *Playback) Stop() {
	p.cancel()
	if p.cmd.Process != nil {
		p.cmd.Process.Kill()
	}
	p.finish(nil)
}

// Pause suspends frame output; reports false when already paused.
func (p *Playback) Pause() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.paused {
		return false
	}
	p.paused = true
	return true
}

// Resume continues frame output; reports false when not paused.
func (p *Playback) Resume() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.paused {
		return false
	}
	p.paused = false
	return true
}

// Paused reports whether frame output is suspended.
func (p *Playback) Paused() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.paused
}

// finish delivers the terminal result exactly once.
func (p *Playback) finish(err error) {
	p.once.Do(func() {
		p.done <- err
		close(p.done)
	})
}

func (p *Playback) stream(pcm io.Reader) {
	defer func() {
		p.cancel()
		if p.cmd.Process != nil {
			p.cmd.Process.Kill()
		}
		p.cmd.Wait()
	}()

	encoder, err := gopus.NewEncoder(sampleRate, channels, gopus.Audio)
	if err != nil {
		p.finish(fmt.Errorf("failed to create opus encoder: %w", err))
		return
	}
	encoder.SetBitrate(opusBitrate)

	p.vc.Speaking(true)
	defer p.vc.Speaking(false)

	buffer := make([]byte, frameBytes)
	for {
		select {
		case <-p.ctx.Done():
			p.finish(nil)
			return
		default:
		}

		if p.Paused() {
			select {
			case <-p.ctx.Done():
				p.finish(nil)
				return
			case <-time.After(pausePoll):
			}
			continue
		}

		n, err := p.readFrame(pcm, buffer)
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			p.finish(nil)
			return
		}
		if err != nil {
			p.finish(fmt.Errorf("error reading PCM data: %w", err))
			return
		}

		samples := bytesToInt16(buffer[:n])
		if len(samples) < frameSize*channels {
			padded := make([]int16, frameSize*channels)
			copy(padded, samples)
			samples = padded
		}

		opusData, err := encoder.Encode(samples, frameSize, frameBytes)
		if err != nil {
			log.Printf("Opus encoding error: %v", err)
			continue
		}

		select {
		case p.vc.OpusSend <- opusData:
		case <-time.After(sendTimeout):
			// Voice send buffer is stuck; drop the frame rather than block.
		case <-p.ctx.Done():
			p.finish(nil)
			return
		}
	}
}

// readFrame reads one PCM frame, giving up when the decoder stalls so a dead
// upstream cannot hang the playback forever.
func (p *Playback) readFrame(pcm io.Reader, buffer []byte) (int, error) {
	type result struct {
		n   int
		err error
	}
	ch := make(chan result, 1)
	go func() {
		n, err := io.ReadFull(pcm, buffer)
		ch <- result{n, err}
	}()

	select {
	case r := <-ch:
		return r.n, r.err
	case <-p.ctx.Done():
		return 0, io.EOF
	case <-time.After(readTimeout):
		return 0, fmt.Errorf("timeout reading PCM data")
	}
}

func (p *Playback) consumeStderr(stderr io.ReadCloser) {
	defer stderr.Close()
	buffer := make([]byte, 1024)
	for {
		if _, err := stderr.Read(buffer); err != nil {
			return
		}
	}
}

func bytesToInt16(data []byte) []int16 {
	samples := make([]int16, len(data)/2)
	for i := 0; i < len(samples); i++ {
		samples[i] = int16(data[i*2]) | int16(data[i*2+1])<<8
	}
	return samples
}
