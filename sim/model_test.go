package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newModelOverLine(n int, incapablePerRoom int) (*Graph, *Responder, *Metrics, *Model) {
	g := buildLineGraph(n)
	for _, room := range g.RoomIndices() {
		g.Vertices[room].OccupantsIncapable = incapablePerRoom
		g.Vertices[room].OccupantsCapable = 0
	}
	exitIdx := g.VertexIndex("exit-1")
	r := NewResponder("responder-1", 3, 2, exitIdx)
	metrics := &Metrics{TotalInitial: incapablePerRoom * len(g.RoomIndices())}
	cfg := DefaultModelConfig()
	model := NewModel(g, []*Responder{r}, metrics, cfg)
	return g, r, metrics, model
}

func fakeState(g *Graph, tick int64) *State {
	return &State{Tick: tick}
}

func TestModelStartsInSweepPhase(t *testing.T) {
	_, _, _, model := newModelOverLine(3, 1)
	assert.Equal(t, PhaseSweep, model.Phase())
}

func TestModelTransitionsToRescueAfterSweep(t *testing.T) {
	g, r, _, model := newModelOverLine(3, 1)

	for tick := int64(0); tick < 60 && model.Phase() == PhaseSweep; tick++ {
		actions := model.Decide(fakeState(g, tick))[r.ID]
		for _, a := range actions {
			applySweepAction(g, r, a)
		}
	}
	assert.Equal(t, PhaseRescue, model.Phase())
}

func TestModelPhaseIsMonotonic(t *testing.T) {
	g, r, _, model := newModelOverLine(3, 1)

	sawRescue := false
	for tick := int64(0); tick < 80; tick++ {
		actions := model.Decide(fakeState(g, tick))[r.ID]
		for _, a := range actions {
			applySweepAction(g, r, a)
		}
		if model.Phase() == PhaseRescue {
			sawRescue = true
		}
		if sawRescue {
			require.Equal(t, PhaseRescue, model.Phase())
		}
	}
}

func TestModelRecordsReplanOnEdgeBurnout(t *testing.T) {
	g, r, metrics, model := newModelOverLine(4, 1)

	for tick := int64(0); tick < 80 && model.Phase() == PhaseSweep; tick++ {
		actions := model.Decide(fakeState(g, tick))[r.ID]
		for _, a := range actions {
			applySweepAction(g, r, a)
		}
	}
	require.Equal(t, PhaseRescue, model.Phase())

	before := metrics.ReplanCount
	eidx, ok := g.EdgeBetween(g.VertexIndex("room-c"), g.VertexIndex("room-d"))
	require.True(t, ok)
	g.Edges[eidx].Exists = false

	_ = model.Decide(fakeState(g, 81))[r.ID]
	assert.Greater(t, metrics.ReplanCount, before)
}
