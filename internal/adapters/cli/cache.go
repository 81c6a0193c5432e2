package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewCacheCommand creates the cache command with subcommands
func NewCacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect the persistent system cache",
	}

	cmd.AddCommand(newCacheStatsCommand())

	return cmd
}

// newCacheStatsCommand creates the cache stats subcommand
func newCacheStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show how many systems are cached",
		Long: `Show how many system coordinates and neighbor lists the database holds.
The cache only ever contains what earlier searches fetched.

Example:
  crow cache stats`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(appOptions{maxExpansions: -1})
			if err != nil {
				return err
			}
			defer a.Close()

			out := cmd.OutOrStdout()
			if a.db == nil {
				fmt.Fprintln(out, "Persistent cache disabled (database.type is none); caches last for one run.")
				return nil
			}

			ctx := a.context(cmd.Context())
			coords, err := a.coordRepo.Count(ctx)
			if err != nil {
				return fmt.Errorf("failed to count coordinates: %w", err)
			}
			neighbors, err := a.adjRepo.Count(ctx)
			if err != nil {
				return fmt.Errorf("failed to count neighbor lists: %w", err)
			}

			fmt.Fprintln(out, titleStyle.Render("System cache"))
			fmt.Fprintf(out, "  Database:        %s\n", a.cfg.Database.Type)
			fmt.Fprintf(out, "  Known systems:   %d\n", coords)
			fmt.Fprintf(out, "  Neighbor lists:  %d\n", neighbors)
			return nil
		},
	}
}
