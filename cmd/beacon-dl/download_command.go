package main

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Postmodum37/beacon-dl/internal/download"
	"github.com/Postmodum37/beacon-dl/internal/services/beacon"
)

func newDownloadCommand(ctx *commandContext) *cobra.Command {
	var withHash bool

	cmd := &cobra.Command{
		Use:   "download [slug or url]",
		Short: "Download an episode by slug or URL, or the latest if omitted",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runCtx, stop := signalContext(cmd)
			defer stop()

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			session, err := ctx.loadSession()
			if err != nil {
				return err
			}
			catalog, err := ctx.newCatalog(session)
			if err != nil {
				return err
			}

			var content *beacon.Content
			if len(args) == 1 {
				slug, err := slugFromArg(args[0])
				if err != nil {
					return err
				}
				content, err = catalog.ContentBySlug(runCtx, slug)
				if err != nil {
					return err
				}
			} else {
				content, err = catalog.LatestEpisode(runCtx, cfg.Beacon.Series)
				if err != nil {
					return err
				}
				if content == nil {
					return fmt.Errorf("no episodes found for %s", cfg.Beacon.Series)
				}
			}
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			lock, err := download.AcquireLock(ctx.lockPath())
			if err != nil {
				return err
			}
			defer func() {
				_ = lock.Release()
			}()

			reporter := newConsoleReporter(cmd.OutOrStdout())
			orch, err := ctx.newOrchestrator(store, reporter, withHash)
			if err != nil {
				return err
			}

			item := download.ItemFromContent(content, cfg.Beacon.BaseURL, "")
			reporter.ItemStarted(item, 1, 1)
			outcome, err := orch.ProcessItem(runCtx, item)
			if err != nil {
				return err
			}
			switch outcome.Status {
			case download.StatusDeduped:
				reporter.ItemSkipped(item, outcome.Filename)
			default:
				reporter.ItemSucceeded(item, outcome.Filename, outcome.Record.SizeBytes)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&withHash, "hash", false, "Store a SHA-256 hash for later full verification")
	return cmd
}

// slugFromArg accepts either a bare content slug or a full page URL and
// returns the slug.
func slugFromArg(arg string) (string, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return "", fmt.Errorf("a content slug or URL is required")
	}
	if !strings.Contains(arg, "://") {
		return arg, nil
	}
	parsed, err := url.Parse(arg)
	if err != nil {
		return "", fmt.Errorf("parse url %q: %w", arg, err)
	}
	segments := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	slug := segments[len(segments)-1]
	if slug == "" {
		return "", fmt.Errorf("url %q carries no content slug", arg)
	}
	return slug, nil
}
