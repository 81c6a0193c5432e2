package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/crow-router/crow/internal/application/search/queries"
)

// NewHistoryCommand creates the history command
func NewHistoryCommand() *cobra.Command {
	var (
		searchID string
		limit    int
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List stored routes",
		Long: `List routes recorded by earlier searches, newest first, or every attempt of one search.
Requires a database (database.type sqlite or postgres).

Examples:
  crow history
  crow history --search sol-1a2b3c4d`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(appOptions{maxExpansions: -1})
			if err != nil {
				return err
			}
			defer a.Close()

			resp, err := a.mediator.Send(a.context(cmd.Context()), &queries.RouteHistoryQuery{
				SearchID: searchID,
				Limit:    limit,
			})
			if err != nil {
				return err
			}
			records := resp.(*queries.RouteHistoryResponse).Records

			out := cmd.OutOrStdout()
			if len(records) == 0 {
				fmt.Fprintln(out, "No routes recorded")
				return nil
			}

			fmt.Fprintf(out, "%-20s %-24s %-10s %7s %5s %11s  %s\n", "WHEN", "SEARCH", "STATUS", "ATTEMPT", "JUMPS", "DISTANCE", "ROUTE")
			for _, r := range records {
				fmt.Fprintf(out, "%-20s %-24s %-10s %7d %5d %8.2f ly  %s\n",
					r.CreatedAt.Local().Format("2006-01-02 15:04:05"),
					r.SearchID,
					r.Status,
					r.Attempt,
					r.Hops,
					r.TotalDistance,
					strings.Join(r.Route.Path, " → "),
				)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&searchID, "search", "", "Show every attempt of one search")
	cmd.Flags().IntVar(&limit, "limit", 20, "Number of recent routes to show")

	return cmd
}
