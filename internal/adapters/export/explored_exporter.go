package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/crow-router/crow/internal/domain/system"
)

var exploredHeader = []string{"System", "X", "Y", "Z", "Neighbors", "Neighbor Names"}

// WriteExploredGraph writes one row per known system, sorted by name. Systems
// that were never expanded have an empty neighbor list.
func WriteExploredGraph(w io.Writer, g *system.ExploredGraph) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(exploredHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, name := range g.SystemNames() {
		pos, err := g.GetSystem(name)
		if err != nil {
			return err
		}
		edges := g.GetEdges(name)
		names := make([]string, 0, len(edges))
		for _, edge := range edges {
			names = append(names, edge.To)
		}
		row := []string{
			name,
			formatFloat(pos.X),
			formatFloat(pos.Y),
			formatFloat(pos.Z),
			strconv.Itoa(len(edges)),
			strings.Join(names, ";"),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// ExportExploredGraph replaces path with the explored region
func ExportExploredGraph(path string, g *system.ExploredGraph) error {
	return replaceFile(path, ".explored-*.csv", func(w io.Writer) error {
		return WriteExploredGraph(w, g)
	})
}
