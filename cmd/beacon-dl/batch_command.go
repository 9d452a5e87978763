package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Postmodum37/beacon-dl/internal/download"
)

func newBatchCommand(ctx *commandContext) *cobra.Command {
	var (
		start    int
		end      int
		withHash bool
	)

	cmd := &cobra.Command{
		Use:   "batch [collection]",
		Short: "Download a range of episodes from a series",
		Long: "Downloads every episodic entry in a collection, oldest first. " +
			"--start and --end select an inclusive 1-based range over that ordering. " +
			"Failed items are reported and skipped; the command exits non-zero if any item failed.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runCtx, stop := signalContext(cmd)
			defer stop()

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			collection := cfg.Beacon.Series
			if len(args) == 1 {
				collection = args[0]
			}

			session, err := ctx.loadSession()
			if err != nil {
				return err
			}
			catalog, err := ctx.newCatalog(session)
			if err != nil {
				return err
			}
			episodes, err := catalog.SeriesEpisodes(runCtx, collection, true, 0)
			if err != nil {
				return err
			}
			collectionName, err := catalog.CollectionDisplayName(runCtx, collection)
			if err != nil {
				return err
			}

			items := make([]download.Item, 0, len(episodes))
			for i := range episodes {
				items = append(items, download.ItemFromContent(&episodes[i], cfg.Beacon.BaseURL, collectionName))
			}
			items = download.SelectRange(items, start, end)
			if len(items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No episodes in the selected range.")
				return nil
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

			summary, err := orch.RunBatch(runCtx, items)
			if err != nil {
				return err
			}
			if summary.Failed > 0 {
				return fmt.Errorf("%d of %d item(s) failed", summary.Failed, summary.Total)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&start, "start", 0, "First episode position (1-based, inclusive)")
	cmd.Flags().IntVar(&end, "end", 0, "Last episode position (1-based, inclusive)")
	cmd.Flags().BoolVar(&withHash, "hash", false, "Store SHA-256 hashes for later full verification")
	return cmd
}
