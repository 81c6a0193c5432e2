package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/crow-router/crow/internal/application/logging"
	"github.com/crow-router/crow/internal/domain/routing"
)

// DefaultFileName is where the CLI writes routes unless told otherwise
const DefaultFileName = "route_output.csv"

var header = []string{"Step", "System", "X", "Y", "Z", "Distance from Previous"}

// CSVExporter writes the latest published route to a CSV file.
// Each improvement replaces the file, so it always holds the best route so far.
type CSVExporter struct {
	path   string
	lookup routing.CoordinateLookup
	logger logging.Logger

	mu      sync.Mutex
	written int
	lastErr error
}

// NewCSVExporter creates an exporter writing to path
func NewCSVExporter(path string, lookup routing.CoordinateLookup, logger logging.Logger) *CSVExporter {
	if path == "" {
		path = DefaultFileName
	}
	if logger == nil {
		logger = logging.LoggerFromContext(context.Background())
	}
	return &CSVExporter{path: path, lookup: lookup, logger: logger}
}

// Path returns the output file
func (e *CSVExporter) Path() string {
	return e.path
}

// OnImprovement implements routing.ImprovementListener
func (e *CSVExporter) OnImprovement(improvement routing.Improvement) {
	if err := e.Export(context.Background(), improvement.Route); err != nil {
		e.logger.Log("ERROR", "failed to export route", map[string]interface{}{
			"search_id": improvement.SearchID,
			"attempt":   improvement.Attempt,
			"path":      e.path,
			"error":     err.Error(),
		})
	}
}

// Export writes route to the output file, replacing it atomically
func (e *CSVExporter) Export(ctx context.Context, route routing.Route) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	err := e.export(ctx, route)
	e.lastErr = err
	if err == nil {
		e.written++
	}
	return err
}

// Written returns how many routes were exported successfully
func (e *CSVExporter) Written() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.written
}

// LastError returns the error from the most recent export, if any
func (e *CSVExporter) LastError() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastErr
}

func (e *CSVExporter) export(ctx context.Context, route routing.Route) error {
	plan, err := routing.BuildRoutePlan(ctx, route, e.lookup)
	if err != nil {
		return fmt.Errorf("failed to build route plan: %w", err)
	}

	return replaceFile(e.path, ".route-*.csv", func(w io.Writer) error {
		return WritePlan(w, plan)
	})
}

// replaceFile writes path through a temp file in the same directory and renames
// it into place, so readers never see a partial file
func replaceFile(path, pattern string, write func(w io.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), pattern)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := write(tmp); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close CSV file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

// WritePlan writes one row per system, starting at step 1 with distance 0
func WritePlan(w io.Writer, plan *routing.RoutePlan) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, leg := range plan.Legs {
		row := []string{
			strconv.Itoa(leg.Step),
			leg.System,
			formatFloat(leg.Position.X),
			formatFloat(leg.Position.Y),
			formatFloat(leg.Position.Z),
			formatFloat(leg.DistanceFromPrev),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
