package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Postmodum37/beacon-dl/internal/naming"
	"github.com/Postmodum37/beacon-dl/internal/rename"
)

func newRenameCommand(ctx *commandContext) *cobra.Command {
	var (
		apply   bool
		pattern string
	)

	cmd := &cobra.Command{
		Use:   "rename [dir]",
		Short: "Bring existing filenames up to the current naming scheme",
		Long: `Rename scans a directory for files whose names drifted from the current
naming scheme. Ledger-backed files are rebuilt from their recorded metadata;
unknown files are re-parsed from the name itself. Without --apply the
proposals are printed and nothing is moved.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runCtx, stop := signalContext(cmd)
			defer stop()

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			dir := cfg.Paths.DownloadDir
			if len(args) == 1 {
				dir = args[0]
			}

			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			store, err := ctx.openStore()
			if err != nil {
				return err
			}
			defer store.Close()

			engine := rename.NewEngine(store, naming.OptionsFromConfig(cfg), logger)
			proposals, err := engine.Scan(runCtx, dir, pattern)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(proposals) == 0 {
				fmt.Fprintln(out, "All filenames already match the current scheme.")
				return nil
			}

			rows := make([][]string, 0, len(proposals))
			for _, proposal := range proposals {
				rows = append(rows, []string{
					filepath.Base(proposal.OldPath),
					filepath.Base(proposal.NewPath),
					proposal.Reason,
				})
			}
			fmt.Fprintln(out, renderTable(
				[]column{{name: "Current"}, {name: "Proposed"}, {name: "Reason"}},
				rows,
			))

			if !apply {
				fmt.Fprintf(out, "%d proposal(s). Re-run with --apply to rename.\n", len(proposals))
				return nil
			}

			result, err := engine.Apply(runCtx, proposals)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Renamed %d file(s), skipped %d.\n", result.Applied, result.Skipped)
			return nil
		},
	}

	cmd.Flags().BoolVar(&apply, "apply", false, "Perform the renames instead of printing them")
	cmd.Flags().StringVar(&pattern, "pattern", "", "Glob pattern to match (default *.mkv)")
	return cmd
}
