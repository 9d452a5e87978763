package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newListSeriesCommand(ctx *commandContext) *cobra.Command {
	var includeAll bool

	cmd := &cobra.Command{
		Use:   "list-series",
		Short: "List available series in the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runCtx, stop := signalContext(cmd)
			defer stop()

			session, err := ctx.loadSession()
			if err != nil {
				return err
			}
			catalog, err := ctx.newCatalog(session)
			if err != nil {
				return err
			}
			collections, err := catalog.ListCollections(runCtx, !includeAll)
			if err != nil {
				return err
			}
			if len(collections) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No series found.")
				return nil
			}

			rows := make([][]string, 0, len(collections))
			for _, col := range collections {
				kind := "series"
				if !col.IsSeries {
					kind = "one-shot"
				}
				rows = append(rows, []string{col.Name, col.Slug, kind, strconv.Itoa(col.ItemCount)})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]column{{name: "Name"}, {name: "Slug"}, {name: "Type"}, {name: "Items", right: true}},
				rows,
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&includeAll, "all", false, "Include one-shots and podcasts")
	return cmd
}

func newListEpisodesCommand(ctx *commandContext) *cobra.Command {
	var includeSpecials bool

	cmd := &cobra.Command{
		Use:   "list-episodes [collection]",
		Short: "List episodes in a series",
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
			episodes, err := catalog.SeriesEpisodes(runCtx, collection, !includeSpecials, 0)
			if err != nil {
				return err
			}
			if len(episodes) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No episodes found for %s.\n", collection)
				return nil
			}

			rows := make([][]string, 0, len(episodes))
			for _, ep := range episodes {
				marker := ""
				if ep.Episodic() {
					marker = fmt.Sprintf("S%02dE%02d", *ep.SeasonNumber, *ep.EpisodeNumber)
				}
				rows = append(rows, []string{marker, ep.Title, ep.Slug, ep.ReleaseDate})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]column{{name: "Episode"}, {name: "Title"}, {name: "Slug"}, {name: "Released"}},
				rows,
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&includeSpecials, "specials", false, "Include entries without season/episode numbers")
	return cmd
}
