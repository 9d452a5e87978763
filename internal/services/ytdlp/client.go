// Package ytdlp wraps the yt-dlp command line tool for metadata probes,
// video downloads, and subtitle downloads.
package ytdlp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Postmodum37/beacon-dl/internal/logging"
	"github.com/Postmodum37/beacon-dl/internal/services"
)

// Metadata is the subset of the yt-dlp info JSON the pipeline needs.
type Metadata struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Series        string `json:"series"`
	Uploader      string `json:"uploader"`
	Height        int    `json:"height"`
	VCodec        string `json:"vcodec"`
	ACodec        string `json:"acodec"`
	AudioChannels int    `json:"audio_channels"`
}

// ShowName picks the best available show identity from the probe.
func (m *Metadata) ShowName(fallback string) string {
	if m.Series != "" {
		return m.Series
	}
	if m.Uploader != "" {
		return m.Uploader
	}
	return fallback
}

// ProgressUpdate captures yt-dlp download progress output.
type ProgressUpdate struct {
	Percent float64
	Detail  string
}

// Fetcher defines the download operations used by the pipeline.
type Fetcher interface {
	Probe(ctx context.Context, url string) (*Metadata, error)
	DownloadVideo(ctx context.Context, url, destPath, resolution string, progress func(ProgressUpdate)) error
	DownloadSubtitles(ctx context.Context, url, destPrefix string) ([]string, error)
}

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, binary string, args []string, onStdout func(string)) error
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

// WithLogger routes unhandled tool output through the given logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Client wraps yt-dlp CLI interactions.
type Client struct {
	binary       string
	cookieFile   string
	userAgent    string
	fetchTimeout time.Duration
	logger       *slog.Logger
	exec         Executor
}

var _ Fetcher = (*Client)(nil)

// New constructs a yt-dlp client. The cookie file is passed straight
// through to the tool so the authenticated session covers media URLs the
// catalog API never sees.
func New(binary, cookieFile, userAgent string, fetchTimeoutSeconds int, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("yt-dlp binary required")
	}
	client := &Client{
		binary:       binary,
		cookieFile:   cookieFile,
		userAgent:    userAgent,
		fetchTimeout: time.Duration(fetchTimeoutSeconds) * time.Second,
		logger:       logging.NewNop(),
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.exec == nil {
		client.exec = commandExecutor{logger: logging.NewComponentLogger(client.logger, "ytdlp")}
	}
	return client, nil
}

func (c *Client) baseArgs() []string {
	args := []string{"--no-warnings"}
	if c.cookieFile != "" {
		args = append(args, "--cookies", c.cookieFile)
	}
	if c.userAgent != "" {
		args = append(args, "--user-agent", c.userAgent)
	}
	return args
}

func (c *Client) runCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.fetchTimeout > 0 {
		return context.WithTimeout(ctx, c.fetchTimeout)
	}
	return ctx, func() {}
}

// Probe fetches the info JSON for a URL without downloading anything.
func (c *Client) Probe(ctx context.Context, url string) (*Metadata, error) {
	runCtx, cancel := c.runCtx(ctx)
	defer cancel()

	args := append(c.baseArgs(), "--dump-json", "--no-download", url)

	var output strings.Builder
	if err := c.exec.Run(runCtx, c.binary, args, func(line string) {
		output.WriteString(line)
		output.WriteString("\n")
	}); err != nil {
		return nil, services.Wrap(services.ErrFetchFailed, "ytdlp", "probe", "fetch metadata", err)
	}

	var meta Metadata
	if err := json.Unmarshal([]byte(output.String()), &meta); err != nil {
		return nil, services.Wrap(services.ErrFetchFailed, "ytdlp", "probe", "decode info json", err)
	}
	return &meta, nil
}

var progressPattern = regexp.MustCompile(`\[download\]\s+([\d.]+)%`)

// DownloadVideo fetches the best stream at or below the target resolution
// into destPath. Progress lines are parsed and forwarded when a callback
// is supplied.
func (c *Client) DownloadVideo(ctx context.Context, url, destPath, resolution string, progress func(ProgressUpdate)) error {
	if destPath == "" {
		return errors.New("destination path required")
	}
	if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return fmt.Errorf("create destination: %w", err)
	}

	runCtx, cancel := c.runCtx(ctx)
	defer cancel()

	height := strings.TrimSuffix(resolution, "p")
	format := fmt.Sprintf("bestvideo[height<=%s]+bestaudio/best[height<=%s]", height, height)

	args := append(c.baseArgs(),
		"--newline",
		"--format", format,
		"--merge-output-format", "mp4",
		"--output", destPath,
		url,
	)

	if err := c.exec.Run(runCtx, c.binary, args, func(line string) {
		if progress == nil {
			return
		}
		if update, ok := parseProgress(line); ok {
			progress(update)
		}
	}); err != nil {
		return services.Wrap(services.ErrFetchFailed, "ytdlp", "download-video", "run yt-dlp", err)
	}

	if _, err := os.Stat(destPath); errors.Is(err, os.ErrNotExist) {
		return services.Wrap(services.ErrFetchFailed, "ytdlp", "download-video", "yt-dlp produced no output file", nil)
	}
	return nil
}

// DownloadSubtitles fetches all subtitle tracks for a URL as sidecar
// files named destPrefix.<lang>.vtt and returns their paths sorted for
// deterministic track ordering.
func (c *Client) DownloadSubtitles(ctx context.Context, url, destPrefix string) ([]string, error) {
	if destPrefix == "" {
		return nil, errors.New("destination prefix required")
	}
	runCtx, cancel := c.runCtx(ctx)
	defer cancel()

	args := append(c.baseArgs(),
		"--skip-download",
		"--write-subs",
		"--all-subs",
		"--output", destPrefix,
		url,
	)

	if err := c.exec.Run(runCtx, c.binary, args, nil); err != nil {
		return nil, services.Wrap(services.ErrFetchFailed, "ytdlp", "download-subtitles", "run yt-dlp", err)
	}

	matches, err := filepath.Glob(destPrefix + ".*.vtt")
	if err != nil {
		return nil, fmt.Errorf("glob subtitles: %w", err)
	}
	sort.Strings(matches)
	return matches, nil
}

func parseProgress(line string) (ProgressUpdate, bool) {
	match := progressPattern.FindStringSubmatch(line)
	if match == nil {
		return ProgressUpdate{}, false
	}
	percent, err := strconv.ParseFloat(match[1], 64)
	if err != nil {
		return ProgressUpdate{}, false
	}
	return ProgressUpdate{Percent: percent, Detail: strings.TrimSpace(line)}, true
}
