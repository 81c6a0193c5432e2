package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/crow-router/crow/internal/adapters/graph"
	"github.com/crow-router/crow/internal/application/search"
	"github.com/crow-router/crow/internal/domain/routing"
)

// StatusPrinter polls the search monitor at a fixed interval and prints live progress.
// On a terminal the line is redrawn in place; otherwise a line is printed whenever progress changes.
type StatusPrinter struct {
	monitor  *search.Monitor
	stats    func() graph.CacheStats
	out      io.Writer
	interval time.Duration
	inPlace  bool

	lastExpanded int
	lastAttempt  int
	printed      bool
}

// NewStatusPrinter creates a printer. stats may be nil.
func NewStatusPrinter(monitor *search.Monitor, stats func() graph.CacheStats, out io.Writer, interval time.Duration) *StatusPrinter {
	if interval <= 0 {
		interval = 200 * time.Millisecond
	}
	return &StatusPrinter{
		monitor:  monitor,
		stats:    stats,
		out:      out,
		interval: interval,
		inPlace:  isTerminal(out),
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Run prints until ctx is done, then prints the final snapshot once more
func (p *StatusPrinter) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.Tick()
			if p.inPlace && p.printed {
				fmt.Fprintln(p.out)
			}
			return nil
		case <-ticker.C:
			p.Tick()
		}
	}
}

// Tick prints the current snapshot if it changed since the last one
func (p *StatusPrinter) Tick() {
	status, ok := p.monitor.Status()
	if !ok {
		return
	}
	if p.printed && status.Expanded == p.lastExpanded && status.Attempt == p.lastAttempt {
		return
	}
	p.lastExpanded = status.Expanded
	p.lastAttempt = status.Attempt
	p.printed = true

	line := p.Line(status)
	if p.inPlace {
		fmt.Fprintf(p.out, "\r\033[K%s", line)
		return
	}
	fmt.Fprintln(p.out, line)
}

// Line formats one status snapshot
func (p *StatusPrinter) Line(status routing.LiveStatus) string {
	parts := []string{
		fmt.Sprintf("attempt %d", status.Attempt),
		"current: " + status.Current,
	}
	if status.NearestTarget != "" {
		parts = append(parts,
			"target: "+status.NearestTarget,
			fmt.Sprintf("remaining: %.2f ly", status.Remaining))
	}
	parts = append(parts,
		fmt.Sprintf("path: %d", status.PathLength),
		fmt.Sprintf("expanded: %d", status.Expanded))
	if p.stats != nil {
		parts = append(parts, fmt.Sprintf("known: %d", p.stats().KnownSystems))
	}
	if status.HasBest {
		parts = append(parts, fmt.Sprintf("best: %d jumps", status.BestHops))
	}
	return strings.Join(parts, " | ")
}
