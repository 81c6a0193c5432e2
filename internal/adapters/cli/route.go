package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/crow-router/crow/internal/adapters/export"
	"github.com/crow-router/crow/internal/adapters/graph"
	"github.com/crow-router/crow/internal/application/search/commands"
	"github.com/crow-router/crow/internal/domain/routing"
	"github.com/crow-router/crow/internal/domain/shared"
	"github.com/crow-router/crow/internal/domain/system"
)

// NewRouteCommand creates the route command
func NewRouteCommand() *cobra.Command {
	var (
		start         string
		targets       []string
		refuel        bool
		stationTypes  []string
		improve       bool
		csvPath       string
		noCSV         bool
		maxExpansions int
		quiet         bool
		exploredPath  string
	)

	cmd := &cobra.Command{
		Use:   "route",
		Short: "Find a route to the nearest target system",
		Long: `Search for a chain of jumps from the start system to any of the targets.

Targets are given with --target, discovered near the start with --refuel, or both.
Press Ctrl+C to stop; the closest partial route (or the best complete route when
re-optimizing) is kept and printed. Every improvement is written to the CSV file.

Examples:
  crow route --start Sol --target "Alpha Centauri" --target "Barnard's Star"
  crow route --start Sol --refuel --station-type Coriolis --station-type Orbis
  crow route --start Sol --target Colonia --improve --csv colonia.csv
  crow route --start Sol --target Sirius --explored explored.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(appOptions{maxExpansions: maxExpansions})
			if err != nil {
				return err
			}
			defer a.Close()

			startSystem, err := resolveStart(start, a.preferences)
			if err != nil {
				return err
			}

			token := routing.NewCancellationToken()
			var listeners []routing.ImprovementListener
			var exporter *export.CSVExporter
			if !noCSV {
				exporter = export.NewCSVExporter(csvPath, a.caches.Coordinates, a.logger)
				listeners = append(listeners, exporter)
			}

			route := &commands.FindRouteCommand{
				Start:         startSystem,
				Targets:       targets,
				RefuelTargets: refuel,
				StationTypes:  resolveStationTypes(stationTypes, a.preferences, a.cfg),
				Improve:       improve,
				Token:         token,
				Listeners:     listeners,
			}

			resp, err := runSearch(cmd.Context(), a, route, token, quiet)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), RenderSummary(resp.Outcome, resp.Plan))
			if exporter != nil && exporter.Written() > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Route saved: %s\n", exporter.Path())
			}
			if err := reportExplored(cmd.OutOrStdout(), a.caches.Snapshot(), exploredPath); err != nil {
				return err
			}
			if resp.Outcome.Status == routing.SearchStatusExhausted {
				return shared.ErrNoRouteFound
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&start, "start", "s", "", "Start system (default: saved preference)")
	cmd.Flags().StringArrayVarP(&targets, "target", "t", nil, "Target system; repeat for several")
	cmd.Flags().BoolVar(&refuel, "refuel", false, "Add refuel stations near the start as targets")
	cmd.Flags().StringSliceVar(&stationTypes, "station-type", nil, "Station types accepted with --refuel")
	cmd.Flags().BoolVar(&improve, "improve", false, "Keep searching for routes with fewer jumps")
	cmd.Flags().StringVar(&csvPath, "csv", export.DefaultFileName, "CSV file receiving every published route")
	cmd.Flags().BoolVar(&noCSV, "no-csv", false, "Do not write a CSV file")
	cmd.Flags().IntVar(&maxExpansions, "max-expansions", -1, "Systems expanded per search before giving up (default: config)")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Do not print live status")
	cmd.Flags().StringVar(&exploredPath, "explored", "", "CSV file receiving every system and jump discovered")

	return cmd
}

// reportExplored prints the size of the explored region and writes it to path when set
func reportExplored(out io.Writer, explored *system.ExploredGraph, path string) error {
	fmt.Fprintf(out, "Explored: %d systems, %d jumps\n", explored.SystemCount(), explored.EdgeCount())
	if path == "" {
		return nil
	}
	if err := export.ExportExploredGraph(path, explored); err != nil {
		return fmt.Errorf("failed to write explored region: %w", err)
	}
	fmt.Fprintf(out, "Explored region saved: %s\n", path)
	return nil
}

// runSearch runs the search next to the status printer, the signal watcher and
// the metrics server. The first interrupt cancels the search cooperatively.
func runSearch(parent context.Context, a *app, route *commands.FindRouteCommand, token *routing.CancellationToken, quiet bool) (*commands.FindRouteResponse, error) {
	if parent == nil {
		parent = context.Background()
	}
	ctx := a.context(parent)
	observeCtx, stopObservers := context.WithCancel(ctx)
	defer stopObservers()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	g, gctx := errgroup.WithContext(observeCtx)

	g.Go(func() error {
		select {
		case sig := <-sigCh:
			a.logger.Log("INFO", "interrupt received, stopping search", map[string]interface{}{
				"signal": sig.String(),
			})
			token.Cancel()
		case <-gctx.Done():
		}
		return nil
	})

	if !quiet {
		printer := NewStatusPrinter(a.monitor, func() graph.CacheStats { return a.caches.Stats() }, os.Stderr, a.cfg.Routing.StatusInterval)
		g.Go(func() error {
			return printer.Run(gctx)
		})
	}

	if server := a.metricsServer(); server != nil {
		g.Go(func() error {
			if err := server.Run(gctx); err != nil {
				a.logger.Log("ERROR", "metrics server stopped", map[string]interface{}{
					"error": err.Error(),
				})
			}
			return nil
		})
	}

	var resp *commands.FindRouteResponse
	g.Go(func() error {
		defer stopObservers()
		out, err := a.mediator.Send(ctx, route)
		if err != nil {
			return err
		}
		resp = out.(*commands.FindRouteResponse)
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return resp, nil
}
