package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Postmodum37/beacon-dl/internal/history"
	"github.com/Postmodum37/beacon-dl/internal/integrity"
	"github.com/Postmodum37/beacon-dl/internal/metadata"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded downloads, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runCtx, stop := signalContext(cmd)
			defer stop()

			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			records, err := store.List(runCtx, limit, 0)
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "History is empty.")
				return nil
			}

			rows := make([][]string, 0, len(records))
			for _, record := range records {
				episode := ""
				if item := metadata.Normalize(record.Title, nil, nil, ""); item.IsSeries {
					episode = fmt.Sprintf("S%02dE%02d", item.Season, item.Episode)
				}
				verified := ""
				if record.VerifiedAt != nil {
					verified = record.VerifiedAt.Format("2006-01-02")
				}
				rows = append(rows, []string{
					strconv.FormatInt(record.ID, 10),
					episode,
					record.Title,
					record.Filename,
					humanize.IBytes(uint64(record.SizeBytes)),
					record.CompletedAt.Format("2006-01-02 15:04"),
					verified,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]column{
					{name: "ID", right: true},
					{name: "Episode"},
					{name: "Title"},
					{name: "Filename"},
					{name: "Size", right: true},
					{name: "Completed"},
					{name: "Verified"},
				},
				rows,
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 25, "Maximum entries to show (0 for all)")
	return cmd
}

func newVerifyCommand(ctx *commandContext) *cobra.Command {
	var full bool

	cmd := &cobra.Command{
		Use:   "verify [filename]",
		Short: "Verify downloaded files against the ledger",
		Long: `Verify checks ledger records against the files on disk, all of them or a
single one named by its recorded filename. The default check compares sizes
only. With --full each file is hashed with SHA-256 and compared against the
recorded digest. Mismatched files are reported, never deleted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runCtx, stop := signalContext(cmd)
			defer stop()

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			var records []*history.Record
			if len(args) == 1 {
				record, err := store.LookupFilename(runCtx, filepath.Base(args[0]))
				if err != nil {
					return err
				}
				if record == nil {
					return fmt.Errorf("no ledger record for %q", args[0])
				}
				records = []*history.Record{record}
			} else {
				records, err = store.List(runCtx, 0, 0)
				if err != nil {
					return err
				}
			}
			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "History is empty, nothing to verify.")
				return nil
			}

			out := cmd.OutOrStdout()
			var verified, mismatched, missing int
			for _, record := range records {
				if err := runCtx.Err(); err != nil {
					return err
				}
				path := filepath.Join(cfg.Paths.DownloadDir, record.Filename)
				result, err := integrity.Verify(record, path, full)
				if err != nil {
					return err
				}
				switch result.Status {
				case integrity.StatusVerified:
					verified++
					if err := store.MarkVerified(runCtx, record.ContentID, time.Now()); err != nil {
						return err
					}
				case integrity.StatusMissing:
					missing++
					fmt.Fprintf(out, "MISSING  %s\n", record.Filename)
				case integrity.StatusMismatch:
					mismatched++
					fmt.Fprintf(out, "MISMATCH %s: %s\n", record.Filename, result.Detail)
				}
			}

			fmt.Fprintf(out, "Checked %d record(s): %d verified, %d mismatched, %d missing.\n",
				len(records), verified, mismatched, missing)
			if mismatched > 0 || missing > 0 {
				return fmt.Errorf("%d file(s) failed verification", mismatched+missing)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&full, "full", false, "Hash files with SHA-256 instead of comparing sizes")
	return cmd
}

func newClearHistoryCommand(ctx *commandContext) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "clear-history",
		Short: "Delete every record from the download ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runCtx, stop := signalContext(cmd)
			defer stop()

			if !force {
				return fmt.Errorf("refusing to clear the ledger without --force")
			}
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			removed, err := store.DeleteAll(runCtx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d record(s). Files on disk were not touched.\n", removed)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Confirm the deletion")
	return cmd
}
