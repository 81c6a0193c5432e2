package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/crow-router/crow/internal/domain/shared"
)

var (
	// Global flags
	configPath string
	verbose    bool
)

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "crow",
		Short: "CRoW - find routes between star systems in 15 ly jumps",
		Long: `CRoW searches for a chain of jumps, each at most 15 ly, from a start system
to the nearest of one or more target systems. System positions and neighbors are
fetched on demand from the Ardent Insight directory and cached.

Examples:
  crow route --start Sol --target "Alpha Centauri"
  crow route --start Sol --refuel --station-type Coriolis --improve
  crow targets --start "Shinrarta Dezhra" --station-type Orbis
  crow coords Sol "Wolf 359"
  crow history --limit 10
  crow config set-start Sol`,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config file (default: crow.yaml in ., ./configs, ~/.crow)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable debug logging")

	rootCmd.AddCommand(NewRouteCommand())
	rootCmd.AddCommand(NewTargetsCommand())
	rootCmd.AddCommand(NewCoordsCommand())
	rootCmd.AddCommand(NewCacheCommand())
	rootCmd.AddCommand(NewHistoryCommand())
	rootCmd.AddCommand(NewConfigCommand())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

// exitCode maps errors to process exit status; an exhausted search exits 2
func exitCode(err error) int {
	if errors.Is(err, shared.ErrNoRouteFound) {
		return 2
	}
	return 1
}
