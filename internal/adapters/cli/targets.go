package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/crow-router/crow/internal/application/search/queries"
	"github.com/crow-router/crow/internal/domain/system"
)

// NewTargetsCommand creates the targets command
func NewTargetsCommand() *cobra.Command {
	var (
		start        string
		stationTypes []string
		limit        int
		links        bool
	)

	cmd := &cobra.Command{
		Use:   "targets",
		Short: "List refuel stations near a system",
		Long: `List systems with refuel stations near the start system, nearest first.
These are the systems 'crow route --refuel' uses as targets.

Examples:
  crow targets --start Sol
  crow targets --start Sol --station-type Coriolis --limit 5 --links`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(appOptions{maxExpansions: -1})
			if err != nil {
				return err
			}
			defer a.Close()

			startSystem, err := resolveStart(start, a.preferences)
			if err != nil {
				return err
			}

			resp, err := a.mediator.Send(a.context(cmd.Context()), &queries.ListTargetsQuery{
				Start:        startSystem,
				StationTypes: resolveStationTypes(stationTypes, a.preferences, a.cfg),
				Limit:        limit,
			})
			if err != nil {
				return err
			}
			result := resp.(*queries.ListTargetsResponse)

			out := cmd.OutOrStdout()
			if len(result.Candidates) == 0 {
				fmt.Fprintf(out, "No refuel targets found near %s\n", result.Start)
				return nil
			}

			fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("Refuel targets near %s", result.Start)))
			fmt.Fprintf(out, "%-4s %-28s %10s  %-28s %s\n", "#", "SYSTEM", "DISTANCE", "STATION", "TYPE")
			for i, c := range result.Candidates {
				fmt.Fprintf(out, "%-4d %-28s %7.2f ly  %-28s %s\n", i+1, c.Name, c.Distance, c.StationName, c.StationType)
				if links {
					fmt.Fprintf(out, "     %s\n", labelStyle.Render(system.InaraURL(c.Name)))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&start, "start", "s", "", "System to search around (default: saved preference)")
	cmd.Flags().StringSliceVar(&stationTypes, "station-type", nil, "Station types to accept")
	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum systems to list; 0 lists all")
	cmd.Flags().BoolVar(&links, "links", false, "Print an Inara link for each system")

	return cmd
}
