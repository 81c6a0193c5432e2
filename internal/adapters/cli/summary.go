package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/crow-router/crow/internal/application/search"
	"github.com/crow-router/crow/internal/domain/routing"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	okStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42"))
	warnStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	errStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

// RenderSummary renders the final outcome with per-jump distances
func RenderSummary(outcome *search.Outcome, plan *routing.RoutePlan) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Route "+outcome.SearchID) + "\n")
	b.WriteString(renderStatus(outcome) + "\n")

	if plan != nil && len(plan.Legs) > 0 {
		b.WriteString("\n")
		for _, leg := range plan.Legs {
			if leg.Step == 1 {
				fmt.Fprintf(&b, "%3d. %s %s\n", leg.Step, leg.System, labelStyle.Render("(start)"))
				continue
			}
			fmt.Fprintf(&b, "%3d. %s %s\n", leg.Step, leg.System,
				labelStyle.Render(fmt.Sprintf("%.4f ly from previous", leg.DistanceFromPrev)))
		}
		fmt.Fprintf(&b, "\nJumps: %d\nTotal distance: %.4f ly\n", plan.Route.Hops(), plan.TotalDistance)
	}

	if len(outcome.SkippedTargets) > 0 {
		b.WriteString(warnStyle.Render("Skipped targets without coordinates: ") +
			strings.Join(outcome.SkippedTargets, ", ") + "\n")
	}
	fmt.Fprintf(&b, "%s %d attempt(s), %d improvement(s), %d systems expanded",
		labelStyle.Render("Search:"), outcome.Attempts, outcome.Improvements, outcome.Expanded)

	return boxStyle.Render(b.String())
}

func renderStatus(outcome *search.Outcome) string {
	switch outcome.Status {
	case routing.SearchStatusFound:
		msg := "Route found"
		if outcome.StoppedBy == routing.SearchStatusCancelled {
			msg += " (re-optimization interrupted)"
		}
		return okStyle.Render(msg)
	case routing.SearchStatusCancelled:
		return warnStyle.Render("Search cancelled, closest partial route kept")
	default:
		return errStyle.Render("No route found within jump range")
	}
}
