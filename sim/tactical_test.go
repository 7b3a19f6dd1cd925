package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedSingleItemTactical(t *testing.T, g *Graph, r *Responder) *TacticalCoordinator {
	t.Helper()
	rooms := g.RoomIndices()
	exits := findExits(g)
	cfg := OptimizerConfig{KCapacity: 3}
	items := GenerateRescueItems(g, rooms, exits, cfg)
	require.NotEmpty(t, items)

	remaining := make(map[int]int)
	for _, rm := range rooms {
		remaining[rm] = g.Vertices[rm].OccupantsIncapable
	}

	tc := NewTacticalCoordinator(g, GreedyAssigner{}, cfg)
	tc.Seed(items, []string{r.ID}, remaining)
	return tc
}

func TestTacticalCoordinatorDispatchDrivesToCompletion(t *testing.T) {
	g := buildLineGraph(3)
	for _, room := range g.RoomIndices() {
		g.Vertices[room].OccupantsIncapable = 1
	}
	exitIdx := g.VertexIndex("exit-1")
	r := NewResponder("responder-1", 3, 2, exitIdx)
	tc := seedSingleItemTactical(t, g, r)

	for i := 0; i < 40 && !tc.AllComplete([]*Responder{r}); i++ {
		actions := tc.Dispatch([]*Responder{r})[r.ID]
		for _, a := range actions {
			applySweepAction(g, r, a)
		}
	}
	assert.True(t, tc.AllComplete([]*Responder{r}))
}

func TestTacticalReplanHookTrapsUnreachableResponder(t *testing.T) {
	g := buildLineGraph(3)
	for _, room := range g.RoomIndices() {
		g.Vertices[room].OccupantsIncapable = 1
	}
	exitIdx := g.VertexIndex("exit-1")
	r := NewResponder("responder-1", 3, 2, exitIdx)
	tc := seedSingleItemTactical(t, g, r)

	for _, e := range g.Edges {
		e.Exists = false
	}
	r.Position = g.VertexIndex("room-c")

	tc.ReplanHook([]*Responder{r})
	assert.True(t, tc.Trapped(r.ID))
}

func TestTacticalReplanHookTruncatesOnPartialBurn(t *testing.T) {
	g := buildLineGraph(4) // exit-1 - room-b - room-c - room-d
	for _, room := range g.RoomIndices() {
		g.Vertices[room].OccupantsIncapable = 1
	}
	exitIdx := g.VertexIndex("exit-1")
	r := NewResponder("responder-1", 3, 2, exitIdx)
	tc := seedSingleItemTactical(t, g, r)

	// Burn out the edge between room-c and room-d, stranding room-d.
	eidx, ok := g.EdgeBetween(g.VertexIndex("room-c"), g.VertexIndex("room-d"))
	require.True(t, ok)
	g.Edges[eidx].Exists = false
	r.Position = g.VertexIndex("room-b")

	tc.ReplanHook([]*Responder{r})
	assert.False(t, tc.Trapped(r.ID))
}
