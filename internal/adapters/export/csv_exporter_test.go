package export_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crow-router/crow/internal/adapters/export"
	"github.com/crow-router/crow/internal/adapters/graph"
	"github.com/crow-router/crow/internal/domain/routing"
	"github.com/crow-router/crow/test/helpers"
)

func newLookup() *graph.CacheContext {
	directory := helpers.NewMockDirectoryClient().
		AddSystem("Sol", 0, 0, 0).
		AddSystem("Alpha Centauri", 3, 0, 4).
		AddSystem("Barnard's Star", 3, 12, 4)
	return graph.NewCacheContext(directory, graph.CacheOptions{})
}

func readRows(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestCSVExporter_WritesOneRowPerSystem(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "route.csv")
	exporter := export.NewCSVExporter(path, newLookup().Coordinates, nil)

	// Act
	exporter.OnImprovement(routing.Improvement{
		SearchID: "sol-1",
		Attempt:  1,
		Route:    routing.NewRoute([]string{"Sol", "Alpha Centauri", "Barnard's Star"}),
		Hops:     2,
	})

	// Assert
	require.NoError(t, exporter.LastError())
	assert.Equal(t, 1, exporter.Written())
	assert.Equal(t, [][]string{
		{"Step", "System", "X", "Y", "Z", "Distance from Previous"},
		{"1", "Sol", "0", "0", "0", "0"},
		{"2", "Alpha Centauri", "3", "0", "4", "5"},
		{"3", "Barnard's Star", "3", "12", "4", "12"},
	}, readRows(t, path))
}

func TestCSVExporter_LaterImprovementReplacesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "route.csv")
	exporter := export.NewCSVExporter(path, newLookup().Coordinates, nil)
	ctx := context.Background()

	require.NoError(t, exporter.Export(ctx, routing.NewRoute([]string{"Sol", "Alpha Centauri", "Barnard's Star"})))
	require.NoError(t, exporter.Export(ctx, routing.NewRoute([]string{"Sol", "Alpha Centauri"})))

	rows := readRows(t, path)
	assert.Len(t, rows, 3)
	assert.Equal(t, 2, exporter.Written())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestCSVExporter_UnknownSystemLeavesPreviousFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "route.csv")
	exporter := export.NewCSVExporter(path, newLookup().Coordinates, nil)
	ctx := context.Background()
	require.NoError(t, exporter.Export(ctx, routing.NewRoute([]string{"Sol"})))

	exporter.OnImprovement(routing.Improvement{Route: routing.NewRoute([]string{"Sol", "Atlantis"})})

	assert.Error(t, exporter.LastError())
	assert.Equal(t, 1, exporter.Written())
	assert.Len(t, readRows(t, path), 2)
}

func TestWritePlan_ToBuffer(t *testing.T) {
	plan := &routing.RoutePlan{Legs: []routing.RouteLeg{{Step: 1, System: "Sol"}}}
	var buf bytes.Buffer

	require.NoError(t, export.WritePlan(&buf, plan))

	assert.Equal(t, "Step,System,X,Y,Z,Distance from Previous\n1,Sol,0,0,0,0\n", buf.String())
}

func TestNewCSVExporter_DefaultPath(t *testing.T) {
	assert.Equal(t, export.DefaultFileName, export.NewCSVExporter("", nil, nil).Path())
}
