package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Postmodum37/beacon-dl/internal/fileutil"
)

func newCheckNewCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check-new [collection]",
		Short: "Check whether the latest episode has been downloaded",
		Args:  cobra.MaximumNArgs(1),
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
			latest, err := catalog.LatestEpisode(runCtx, collection)
			if err != nil {
				return err
			}
			if latest == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "No episodes found for %s.\n", collection)
				return nil
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Latest: %s", latest.Title)
			if latest.Episodic() {
				fmt.Fprintf(out, " (S%02dE%02d)", *latest.SeasonNumber, *latest.EpisodeNumber)
			}
			fmt.Fprintln(out)

			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			record, err := store.Lookup(runCtx, latest.ID)
			if err != nil {
				return err
			}
			if record == nil {
				fmt.Fprintln(out, "Status: not downloaded")
				return nil
			}
			if fileutil.Exists(filepath.Join(cfg.Paths.DownloadDir, record.Filename)) {
				fmt.Fprintf(out, "Status: downloaded (%s)\n", record.Filename)
				return nil
			}
			fmt.Fprintf(out, "Status: recorded but missing on disk (%s)\n", record.Filename)
			return nil
		},
	}
	return cmd
}
