package download

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/Postmodum37/beacon-dl/internal/config"
	"github.com/Postmodum37/beacon-dl/internal/fileutil"
	"github.com/Postmodum37/beacon-dl/internal/history"
	"github.com/Postmodum37/beacon-dl/internal/integrity"
	"github.com/Postmodum37/beacon-dl/internal/logging"
	"github.com/Postmodum37/beacon-dl/internal/metadata"
	"github.com/Postmodum37/beacon-dl/internal/naming"
	"github.com/Postmodum37/beacon-dl/internal/services"
	"github.com/Postmodum37/beacon-dl/internal/services/ffmpeg"
	"github.com/Postmodum37/beacon-dl/internal/services/ytdlp"
)

// Outcome reports how an item finished.
type Outcome struct {
	Status   Status
	Filename string
	Path     string
	Record   *history.Record
}

// Orchestrator runs the per-item state machine.
type Orchestrator struct {
	cfg         *config.Config
	store       *history.Store
	fetcher     ytdlp.Fetcher
	muxer       ffmpeg.Muxer
	reporter    Reporter
	logger      *slog.Logger
	computeHash bool
	now         func() time.Time
}

// Option configures the orchestrator.
type Option func(*Orchestrator)

// WithReporter installs a progress event listener.
func WithReporter(r Reporter) Option {
	return func(o *Orchestrator) {
		if r != nil {
			o.reporter = r
		}
	}
}

// WithLogger installs a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithHashing enables SHA-256 hashing of finished downloads so later
// verification passes can do full comparisons.
func WithHashing(enabled bool) Option {
	return func(o *Orchestrator) {
		o.computeHash = enabled
	}
}

// WithClock overrides the time source (tests).
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		if now != nil {
			o.now = now
		}
	}
}

// New constructs an orchestrator.
func New(cfg *config.Config, store *history.Store, fetcher ytdlp.Fetcher, muxer ffmpeg.Muxer, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		cfg:      cfg,
		store:    store,
		fetcher:  fetcher,
		muxer:    muxer,
		reporter: NopReporter{},
		logger:   logging.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// ProcessItem runs one item through the state machine. Per-item failures
// come back as errors; the caller decides whether they abort anything.
func (o *Orchestrator) ProcessItem(ctx context.Context, item Item) (*Outcome, error) {
	log := logging.NewComponentLogger(o.logger, "download").With(
		logging.String(logging.FieldContentID, item.ContentID),
		logging.String(logging.FieldSlug, item.Slug),
	)

	// Pending: consult the ledger. A hit only counts as done when the
	// file is still on disk; the ledger alone is not truth.
	staleRecord, err := o.store.Lookup(ctx, item.ContentID)
	if err != nil {
		return nil, services.Wrap(services.ErrStorageUnavailable, "download", "dedup", "ledger lookup", err)
	}
	if staleRecord != nil {
		existing := filepath.Join(o.cfg.Paths.DownloadDir, staleRecord.Filename)
		if fileutil.Exists(existing) {
			log.Info("already downloaded", logging.String("filename", staleRecord.Filename))
			return &Outcome{Status: StatusDeduped, Filename: staleRecord.Filename, Path: existing, Record: staleRecord}, nil
		}
		log.Warn("ledger record present but file missing, refetching",
			logging.String("filename", staleRecord.Filename))
	}

	staging := filepath.Join(o.cfg.Paths.StagingDir, uuid.NewString())
	if err := os.MkdirAll(staging, 0o755); err != nil {
		return nil, services.Wrap(services.ErrStorageUnavailable, "download", "staging", "create staging directory", err)
	}
	defer func() {
		_ = os.RemoveAll(staging)
	}()

	// Fetching: probe first so the release name reflects what the
	// stream actually carries rather than configured defaults.
	meta, err := o.fetcher.Probe(ctx, item.URL)
	if err != nil {
		return nil, err
	}

	normalized := metadata.Normalize(item.RawTitle, item.Season, item.Episode, o.collectionName(item, meta))
	opts := o.namingOptions(meta)
	filename := naming.BuildName(normalized, opts)
	finalPath := filepath.Join(o.cfg.Paths.DownloadDir, filename)

	// A file already at the final path means an earlier run moved its
	// output into place but never recorded it. Fail here rather than
	// after a full fetch and mux.
	if fileutil.Exists(finalPath) {
		return nil, services.Wrap(services.ErrRenameCollision, "download", "fetch", "destination already exists", nil)
	}

	log.Info("fetching", logging.String("filename", filename))
	videoPath := filepath.Join(staging, "video.mp4")
	err = o.fetcher.DownloadVideo(ctx, item.URL, videoPath, opts.Resolution, func(update ytdlp.ProgressUpdate) {
		o.reporter.ItemProgress(item, update.Percent)
	})
	if err != nil {
		return nil, err
	}

	sidecars, err := o.fetcher.DownloadSubtitles(ctx, item.URL, filepath.Join(staging, "subs"))
	if err != nil {
		return nil, err
	}
	tracks := make([]ffmpeg.SubtitleTrack, 0, len(sidecars))
	for _, sidecar := range sidecars {
		tracks = append(tracks, ffmpeg.TrackFromSidecar(sidecar))
	}

	// Muxing: merge in staging, never directly at the final path.
	log.Info("muxing", logging.Int("subtitle_tracks", len(tracks)))
	muxedPath := filepath.Join(staging, filename)
	if err := o.muxer.Mux(ctx, videoPath, tracks, muxedPath); err != nil {
		return nil, err
	}

	// Verifying: a tool can report success and still leave a stub.
	size, err := integrity.QuickCheck(muxedPath)
	if err != nil {
		return nil, services.Wrap(services.ErrTruncatedOutput, "download", "verify",
			fmt.Sprintf("output is %d bytes", size), err)
	}

	contentHash := ""
	if o.computeHash {
		contentHash, err = integrity.HashFile(muxedPath)
		if err != nil {
			return nil, services.Wrap(services.ErrMuxFailed, "download", "verify", "hash output", err)
		}
	}

	if err := fileutil.MoveFileNoClobber(muxedPath, finalPath); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil, services.Wrap(services.ErrRenameCollision, "download", "finalize", "destination already exists", err)
		}
		return nil, services.Wrap(services.ErrMuxFailed, "download", "finalize", "move output into place", err)
	}

	// Recorded: a stale record from a refetch is replaced, never
	// silently overwritten by the insert itself.
	if staleRecord != nil {
		if _, err := o.store.Delete(ctx, item.ContentID); err != nil {
			return nil, services.Wrap(services.ErrStorageUnavailable, "download", "record", "drop stale record", err)
		}
	}
	// The raw title is kept so display code can re-derive the episode
	// marker from it later.
	record := &history.Record{
		ContentID:   item.ContentID,
		Slug:        item.Slug,
		Title:       item.RawTitle,
		Filename:    filename,
		ContentHash: contentHash,
		SizeBytes:   size,
		Resolution:  opts.Resolution,
		Container:   opts.Container,
		SourceTag:   opts.SourceTag,
		CompletedAt: o.now().UTC(),
	}
	if err := o.store.Insert(ctx, record); err != nil {
		return nil, services.Wrap(services.ErrStorageUnavailable, "download", "record", "insert ledger record", err)
	}

	log.Info("recorded", logging.String("filename", filename), logging.Int64("size_bytes", size))
	return &Outcome{Status: StatusRecorded, Filename: filename, Path: finalPath, Record: record}, nil
}

func (o *Orchestrator) collectionName(item Item, meta *ytdlp.Metadata) string {
	if item.Collection != "" {
		return item.Collection
	}
	return meta.ShowName("Critical Role")
}

func (o *Orchestrator) namingOptions(meta *ytdlp.Metadata) naming.Options {
	opts := naming.OptionsFromConfig(o.cfg)
	opts.Resolution = meta.Resolution(opts.Resolution)
	opts.VideoCodec = meta.VideoCodecLabel(opts.VideoCodec)
	opts.AudioCodec = meta.AudioCodecLabel(opts.AudioCodec)
	opts.AudioChannels = meta.ChannelLayout(opts.AudioChannels)
	return opts
}
