// occupants.go implements instructed-occupant autonomous movement: step 2
// of the tick contract (§4.1). Capable occupants who have been Instructed
// advance one hop per tick toward the nearest exit along the current
// shortest existing path, subject to edge max_flow and destination
// capacity.

package sim

import "sort"

// nextHopTowardExit runs a multi-source BFS from every exit-kind vertex
// over currently-existing edges and returns, for each vertex index, the
// neighbor index to step toward on the shortest path to the nearest exit
// (or -1 if no exit is reachable). This is recomputed every tick since
// edges may have burned since the last call (§4.2: "must be re-run after
// graph changes").
func nextHopTowardExit(g *Graph) []int {
	n := len(g.Vertices)
	nextHop := make([]int, n)
	dist := make([]int, n)
	for i := range nextHop {
		nextHop[i] = -1
		dist[i] = -1
	}

	queue := make([]int, 0, n)
	for i, v := range g.Vertices {
		if v.Kind.IsExit() {
			dist[i] = 0
			queue = append(queue, i)
		}
	}
	sort.Ints(queue) // deterministic multi-source seed order

	for head := 0; head < len(queue); head++ {
		u := queue[head]
		for _, eidx := range g.EdgesAt(u) {
			e := g.Edges[eidx]
			if !e.Exists {
				continue
			}
			w := e.Other(u)
			if dist[w] != -1 {
				continue
			}
			dist[w] = dist[u] + 1
			nextHop[w] = u // step from w toward u gets you closer to an exit
			queue = append(queue, w)
		}
	}
	return nextHop
}

// applyInstructedMovement advances every instructed capable occupant one
// hop toward the nearest exit, in a fixed (ascending vertex index)
// traversal order (§5 ordering guarantee #2). Movement that would land on
// an exit-kind vertex is treated as a self-evacuation: the occupant is
// immediately counted as rescued rather than parked at the exit vertex,
// so that an all-capable population still converges to rescued ==
// total_initial (S4). Movement is gated by the edge's remaining per-tick
// flow budget and the destination vertex's capacity.
func applyInstructedMovement(g *Graph, flow *edgeFlowBudget) (rescued int) {
	nextHop := nextHopTowardExit(g)

	// Only occupants already instructed at a vertex when the tick starts
	// move from it, so nobody arriving this tick takes a second hop.
	movable := make([]int, len(g.Vertices))
	for i, v := range g.Vertices {
		if v.OccupantsInstructed {
			movable[i] = v.OccupantsCapable
		}
	}

	for idx := 0; idx < len(g.Vertices); idx++ {
		v := g.Vertices[idx]
		if movable[idx] <= 0 || v.Burned {
			continue
		}
		target := nextHop[idx]
		if target == -1 {
			continue // no reachable exit; occupant waits in place
		}
		eidx, ok := g.EdgeBetween(idx, target)
		if !ok {
			continue
		}
		e := g.Edges[eidx]
		if !e.Exists {
			continue
		}
		moving := movable[idx]
		moving = flow.clamp(eidx, moving)
		if moving <= 0 {
			continue
		}

		dst := g.Vertices[target]
		if dst.Kind.IsExit() {
			v.OccupantsCapable -= moving
			rescued += moving
			continue
		}
		spare := dst.Capacity - dst.OccupantTotal()
		if spare < moving {
			moving = spare
		}
		if moving <= 0 {
			continue
		}
		flow.consume(eidx, moving)
		v.OccupantsCapable -= moving
		dst.OccupantsCapable += moving
		// Instructed status follows the occupant to keep advancing next tick.
		if moving > 0 {
			dst.OccupantsInstructed = true
		}
		if v.OccupantsCapable == 0 {
			v.OccupantsInstructed = false
		}
	}
	return rescued
}

// edgeFlowBudget tracks each existing edge's remaining per-tick flow
// capacity, reset at the start of every tick and shared between responder
// Move actions and instructed-occupant autonomous movement, in that
// processing order (§5: "consumed in the order of responder-then-occupant
// processing").
type edgeFlowBudget struct {
	remaining map[int]float64
}

func newEdgeFlowBudget(g *Graph) *edgeFlowBudget {
	b := &edgeFlowBudget{remaining: make(map[int]float64, len(g.Edges))}
	for i, e := range g.Edges {
		b.remaining[i] = e.MaxFlow
	}
	return b
}

// clamp returns the largest count <= want that the edge's remaining
// budget can still admit.
func (b *edgeFlowBudget) clamp(eidx int, want int) int {
	rem := b.remaining[eidx]
	if rem <= 0 {
		return 0
	}
	if float64(want) > rem {
		return int(rem)
	}
	return want
}

// consume deducts count from the edge's remaining budget.
func (b *edgeFlowBudget) consume(eidx int, count int) {
	b.remaining[eidx] -= float64(count)
}

// hasBudget reports whether the edge has any remaining flow capacity,
// used by single-unit Move actions (a responder moving counts as 1 unit).
func (b *edgeFlowBudget) hasBudget(eidx int) bool {
	return b.remaining[eidx] >= 1
}
