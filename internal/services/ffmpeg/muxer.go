// Package ffmpeg merges a downloaded video with its subtitle sidecars
// into the final container. Streams are copied, never re-encoded, and
// every subtitle track is tagged with an ISO 639-2 language code.
package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Postmodum37/beacon-dl/internal/language"
	"github.com/Postmodum37/beacon-dl/internal/services"
)

// SubtitleTrack pairs a sidecar file with its resolved language code.
type SubtitleTrack struct {
	Path     string
	Language string
}

// Muxer defines the merge operation used by the pipeline.
type Muxer interface {
	Mux(ctx context.Context, videoPath string, subtitles []SubtitleTrack, outputPath string) error
}

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string) (stderr string, err error)
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// Client wraps ffmpeg CLI interactions.
type Client struct {
	binary     string
	muxTimeout time.Duration
	exec       Executor
}

var _ Muxer = (*Client)(nil)

// New constructs an ffmpeg client.
func New(binary string, muxTimeoutSeconds int, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("ffmpeg binary required")
	}
	client := &Client{
		binary:     binary,
		muxTimeout: time.Duration(muxTimeoutSeconds) * time.Second,
		exec:       commandExecutor{},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// TrackFromSidecar builds a SubtitleTrack from a yt-dlp sidecar path,
// resolving the language from the filename. Sidecars are named
// prefix.<lang>.vtt or prefix.<lang>.<Name>.vtt.
func TrackFromSidecar(path string) SubtitleTrack {
	parts := strings.Split(filepath.Base(path), ".")
	tag := ""
	if len(parts) >= 3 {
		tag = parts[len(parts)-2]
	}
	return SubtitleTrack{Path: path, Language: language.ToISO3(tag)}
}

// Mux merges the video with its subtitle tracks into outputPath. The
// merge writes to a temporary sibling first and renames on success, so a
// killed mux never leaves a plausible output file.
func (c *Client) Mux(ctx context.Context, videoPath string, subtitles []SubtitleTrack, outputPath string) error {
	if videoPath == "" {
		return errors.New("video path required")
	}
	if outputPath == "" {
		return errors.New("output path required")
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	muxCtx := ctx
	if c.muxTimeout > 0 {
		var cancel context.CancelFunc
		muxCtx, cancel = context.WithTimeout(ctx, c.muxTimeout)
		defer cancel()
	}

	ext := filepath.Ext(outputPath)
	tempPath := strings.TrimSuffix(outputPath, ext) + ".muxing" + ext

	args := []string{"-hide_banner", "-loglevel", "warning", "-y", "-i", videoPath}
	for _, sub := range subtitles {
		args = append(args, "-i", sub.Path)
	}
	args = append(args, "-map", "0:v", "-map", "0:a")
	for i := range subtitles {
		args = append(args, "-map", fmt.Sprintf("%d", i+1))
	}
	args = append(args, "-c:v", "copy", "-c:a", "copy")
	if len(subtitles) > 0 {
		args = append(args, "-c:s", "srt")
	}
	for i, sub := range subtitles {
		lang := sub.Language
		if lang == "" {
			lang = language.Undetermined
		}
		args = append(args, fmt.Sprintf("-metadata:s:s:%d", i), "language="+lang)
	}
	args = append(args, tempPath)

	stderr, err := c.exec.Run(muxCtx, c.binary, args)
	if err != nil {
		_ = os.Remove(tempPath)
		detail := "run ffmpeg"
		if trimmed := strings.TrimSpace(stderr); trimmed != "" {
			detail = "run ffmpeg: " + trimmed
		}
		return services.Wrap(services.ErrMuxFailed, "ffmpeg", "mux", detail, err)
	}

	if _, err := os.Stat(tempPath); errors.Is(err, os.ErrNotExist) {
		return services.Wrap(services.ErrMuxFailed, "ffmpeg", "mux", "ffmpeg produced no output file", nil)
	}
	if err := os.Rename(tempPath, outputPath); err != nil {
		_ = os.Remove(tempPath)
		return services.Wrap(services.ErrMuxFailed, "ffmpeg", "mux", "finalize output", err)
	}
	return nil
}
