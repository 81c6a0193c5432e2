package system

import (
	"fmt"
	"sort"

	"github.com/crow-router/crow/internal/domain/shared"
)

// ExploredGraph is a point-in-time copy of everything the caches have discovered.
// Observers use it to draw or summarize the explored region without touching live cache state.
type ExploredGraph struct {
	Systems map[string]shared.Coordinate
	Edges   []GraphEdge
}

// GraphEdge is a verified per-origin edge
type GraphEdge struct {
	From     string
	To       string
	Distance float64
}

// NewExploredGraph creates an empty graph
func NewExploredGraph() *ExploredGraph {
	return &ExploredGraph{
		Systems: make(map[string]shared.Coordinate),
		Edges:   []GraphEdge{},
	}
}

// AddSystem records a system position
func (g *ExploredGraph) AddSystem(name string, coordinate shared.Coordinate) {
	g.Systems[name] = coordinate
}

// AddNeighbors records the adjacency list of one origin
func (g *ExploredGraph) AddNeighbors(from string, neighbors []Neighbor) {
	for _, n := range neighbors {
		g.Edges = append(g.Edges, GraphEdge{From: from, To: n.Name, Distance: n.Distance})
	}
}

// GetSystem retrieves a known system position
func (g *ExploredGraph) GetSystem(name string) (shared.Coordinate, error) {
	c, ok := g.Systems[name]
	if !ok {
		return shared.Coordinate{}, fmt.Errorf("system %s not found in explored graph", name)
	}
	return c, nil
}

// GetEdges returns all edges leaving a system
func (g *ExploredGraph) GetEdges(from string) []GraphEdge {
	var edges []GraphEdge
	for _, edge := range g.Edges {
		if edge.From == from {
			edges = append(edges, edge)
		}
	}
	return edges
}

// SystemNames returns the known system names in sorted order
func (g *ExploredGraph) SystemNames() []string {
	names := make([]string, 0, len(g.Systems))
	for name := range g.Systems {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SystemCount returns the number of systems with a known position
func (g *ExploredGraph) SystemCount() int {
	return len(g.Systems)
}

// EdgeCount returns the number of stored per-origin edges
func (g *ExploredGraph) EdgeCount() int {
	return len(g.Edges)
}
