package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/crow-router/crow/internal/application/search/queries"
	"github.com/crow-router/crow/internal/domain/shared"
)

// NewCoordsCommand creates the coords command
func NewCoordsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "coords <system> [system...]",
		Short: "Show galactic coordinates of systems",
		Long: `Resolve system coordinates through the cache and the directory.
With two or more systems the distance between consecutive systems is printed too.

Example:
  crow coords Sol "Alpha Centauri"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(appOptions{maxExpansions: -1})
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := a.context(cmd.Context())
			out := cmd.OutOrStdout()

			var prev *queries.GetCoordinateResponse
			for _, name := range args {
				resp, err := a.mediator.Send(ctx, &queries.GetCoordinateQuery{Name: name})
				if err != nil {
					if shared.IsUnresolvable(err) {
						fmt.Fprintf(out, "%-28s %s\n", name, errStyle.Render("unknown"))
						prev = nil
						continue
					}
					return err
				}
				c := resp.(*queries.GetCoordinateResponse)
				fmt.Fprintf(out, "%-28s %s", c.Name, c.Coordinate)
				if prev != nil {
					fmt.Fprintf(out, "  %s", labelStyle.Render(fmt.Sprintf("%.4f ly from %s", prev.Coordinate.DistanceTo(c.Coordinate), prev.Name)))
				}
				fmt.Fprintln(out)
				prev = c
			}
			return nil
		},
	}

	return cmd
}
