// Package rename migrates existing downloads to the current naming
// scheme. Scanning is a dry run producing proposals; applying them moves
// files and keeps the ledger's filenames in step.
package rename

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"

	"github.com/Postmodum37/beacon-dl/internal/fileutil"
	"github.com/Postmodum37/beacon-dl/internal/history"
	"github.com/Postmodum37/beacon-dl/internal/logging"
	"github.com/Postmodum37/beacon-dl/internal/metadata"
	"github.com/Postmodum37/beacon-dl/internal/naming"
)

// Reason classifies why a proposal exists.
const (
	// ReasonSchemaDrift marks a ledger-backed file whose name no longer
	// matches the current scheme.
	ReasonSchemaDrift = "schema-drift"
	// ReasonMetadataCorrection marks a best-effort re-parse of a file the
	// ledger does not know about.
	ReasonMetadataCorrection = "metadata-correction"
)

// Proposal is one candidate rename. FromRecord distinguishes
// ledger-backed proposals from lower-confidence re-parses.
type Proposal struct {
	OldPath    string
	NewPath    string
	ContentID  string
	FromRecord bool
	Reason     string
}

// Result counts what Apply did.
type Result struct {
	Applied int
	Skipped int
}

// Engine scans directories and applies rename proposals.
type Engine struct {
	store  *history.Store
	opts   naming.Options
	logger *slog.Logger
}

// NewEngine constructs a rename engine using the current naming options.
func NewEngine(store *history.Store, opts naming.Options, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Engine{store: store, opts: opts, logger: logging.NewComponentLogger(logger, "rename")}
}

// Scan inspects files matching pattern under dir and proposes renames.
// Files already carrying their expected name produce no proposal.
func (e *Engine) Scan(ctx context.Context, dir, pattern string) ([]Proposal, error) {
	if pattern == "" {
		pattern = "*.mkv"
	}
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", dir, err)
	}
	sort.Strings(matches)

	var proposals []Proposal
	for _, path := range matches {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		proposal, ok, err := e.propose(ctx, path)
		if err != nil {
			return nil, err
		}
		if ok {
			proposals = append(proposals, proposal)
		}
	}
	return proposals, nil
}

func (e *Engine) propose(ctx context.Context, path string) (Proposal, bool, error) {
	base := filepath.Base(path)
	dir := filepath.Dir(path)

	record, err := e.store.LookupFilename(ctx, base)
	if err != nil {
		return Proposal{}, false, err
	}

	var expected string
	proposal := Proposal{OldPath: path}
	if record != nil {
		expected = e.expectedName(record)
		proposal.ContentID = record.ContentID
		proposal.FromRecord = true
		proposal.Reason = ReasonSchemaDrift
	} else {
		item := metadata.ParseFilename(base)
		if item.CleanTitle == "" || item.CleanTitle == metadata.PlaceholderTitle {
			return Proposal{}, false, nil
		}
		expected = naming.BuildName(item, e.opts)
		proposal.Reason = ReasonMetadataCorrection
	}

	if expected == "" || expected == base {
		return Proposal{}, false, nil
	}
	proposal.NewPath = filepath.Join(dir, expected)
	return proposal, true, nil
}

// expectedName re-derives the release name from the record's stored
// metadata. Facts about the file itself (resolution, container, source)
// come from the record; everything else follows the current options.
func (e *Engine) expectedName(record *history.Record) string {
	item := metadata.ParseFilename(record.Filename)
	if item.CleanTitle == "" || item.CleanTitle == metadata.PlaceholderTitle {
		return ""
	}

	opts := e.opts
	if record.Resolution != "" {
		opts.Resolution = record.Resolution
	}
	if record.Container != "" {
		opts.Container = record.Container
	}
	if record.SourceTag != "" {
		opts.SourceTag = record.SourceTag
	}
	return naming.BuildName(item, opts)
}

// Apply executes proposals. A collision at the destination skips that
// single proposal; ledger-backed renames also update the stored
// filename so future dedup checks find the file.
func (e *Engine) Apply(ctx context.Context, proposals []Proposal) (Result, error) {
	var result Result
	for _, proposal := range proposals {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		if err := fileutil.MoveFileNoClobber(proposal.OldPath, proposal.NewPath); err != nil {
			if errors.Is(err, fs.ErrExist) {
				result.Skipped++
				e.logger.Warn("rename collision, skipping",
					logging.String("old", proposal.OldPath),
					logging.String("new", proposal.NewPath))
				continue
			}
			return result, fmt.Errorf("rename %s: %w", proposal.OldPath, err)
		}

		if proposal.FromRecord {
			if err := e.store.UpdateFilename(ctx, proposal.ContentID, filepath.Base(proposal.NewPath)); err != nil {
				return result, err
			}
		}
		result.Applied++
		e.logger.Info("renamed",
			logging.String("old", filepath.Base(proposal.OldPath)),
			logging.String("new", filepath.Base(proposal.NewPath)))
	}
	return result, nil
}
