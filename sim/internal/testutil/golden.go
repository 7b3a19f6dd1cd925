// Package testutil provides shared fixture builders and assertion helpers
// for sim package tests.
package testutil

import (
	"math"
	"testing"

	"github.com/evacsim/evacsim/sim"
)

// SingleRoomConfig builds the S1 "trivial success" fixture: one room
// adjacent to an exit, no edge burn risk, and an occupancy distribution of
// one capable and one incapable occupant in the room (callers may replace
// the entry in OccupancyProbabilities before building).
func SingleRoomConfig() *sim.BuildingConfig {
	return &sim.BuildingConfig{
		Vertices: []sim.VertexConfig{
			{ID: "room-1", Kind: "room", Capacity: 10, Priority: 1, AreaM2: 20, CeilingHeightM: 3},
			{ID: "exit-1", Kind: "exit", Capacity: 999, AreaM2: 10, CeilingHeightM: 3},
		},
		Edges: []sim.EdgeConfig{
			{ID: "e1", VertexA: "room-1", VertexB: "exit-1", MaxFlow: 10, WidthM: 2, BaseBurnRate: 0},
		},
		OccupancyProbabilities: map[string]sim.OccupancyDist{
			"room-1": {CapableMean: 1, IncapableMean: 1},
		},
		FireParamsCfg: sim.FireParams{OriginVertexID: "exit-1"},
	}
}

// CorridorConfig builds the S2 fixture: a corridor of n rooms, each with
// one incapable occupant, with an exit at one end.
func CorridorConfig(n int) *sim.BuildingConfig {
	cfg := &sim.BuildingConfig{
		Vertices:               []sim.VertexConfig{{ID: "exit-1", Kind: "exit", Capacity: 999, AreaM2: 10, CeilingHeightM: 3}},
		OccupancyProbabilities: make(map[string]sim.OccupancyDist),
		FireParamsCfg:          sim.FireParams{OriginVertexID: "exit-1"},
	}
	prev := "exit-1"
	for i := 0; i < n; i++ {
		id := roomID(i)
		cfg.Vertices = append(cfg.Vertices, sim.VertexConfig{ID: id, Kind: "room", Capacity: 10, Priority: 1, AreaM2: 20, CeilingHeightM: 3})
		cfg.Edges = append(cfg.Edges, sim.EdgeConfig{ID: "e" + id, VertexA: prev, VertexB: id, MaxFlow: 10, WidthM: 2, BaseBurnRate: 0})
		cfg.OccupancyProbabilities[id] = sim.OccupancyDist{IncapableMean: 1}
		prev = id
	}
	return cfg
}

// IsolatedRoomConfig builds the S3/S5 fixture: a corridor as in
// CorridorConfig, plus one additional room connected to the last corridor
// room by a single edge whose base burn rate is isolatedBurnRate. The S3
// and S5 tests pass 0 and sever that edge themselves.
func IsolatedRoomConfig(n int, isolatedBurnRate float64) *sim.BuildingConfig {
	cfg := CorridorConfig(n)
	lastRoom := roomID(n - 1)
	cfg.Vertices = append(cfg.Vertices, sim.VertexConfig{ID: "isolated", Kind: "room", Capacity: 10, Priority: 1, AreaM2: 20, CeilingHeightM: 3})
	cfg.Edges = append(cfg.Edges, sim.EdgeConfig{ID: "e-isolated", VertexA: lastRoom, VertexB: "isolated", MaxFlow: 10, WidthM: 2, BaseBurnRate: isolatedBurnRate})
	cfg.OccupancyProbabilities["isolated"] = sim.OccupancyDist{IncapableMean: 1}
	return cfg
}

func roomID(i int) string {
	const letters = "abcdefghijklmnopqrstuvwxyz"
	return "room-" + string(letters[i%len(letters)])
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
