// sweep.go implements the sweep coordinator (§4.3): k-medoids partitioning,
// per-cluster MST/DFS tours expanded into concrete walkable paths, and the
// tick-by-tick dispatch policy that drives responders through their
// assigned rooms before the rescue optimizer takes over.

package sim

import "math/rand"

// clusterTour tracks one responder's progress through its concrete tour.
type clusterTour struct {
	path          []int // concrete, walkable vertex sequence
	index         int   // path[index] is the responder's last confirmed tour position
	lastProgress  int64
	deferredRooms map[int]bool
	done          bool
}

// SweepCoordinator drives phase-SWEEP dispatch for every responder (§4.3).
type SweepCoordinator struct {
	g           *Graph
	tours       map[string]*clusterTour
	stallWindow int64
}

// NewSweepCoordinator partitions rooms-of-interest across responders via
// k-medoids, builds each responder's MST/DFS tour, and expands it into a
// concrete walkable path.
func NewSweepCoordinator(g *Graph, responders []*Responder, stallWindow int64, seed int64) *SweepCoordinator {
	seeds := make([]int, len(responders))
	for i, r := range responders {
		seeds[i] = r.Position
	}
	rng := rand.New(rand.NewSource(seed ^ fnv1a64(SubsystemKMedoids)))
	clusters := Partition(g, seeds, rng)

	tours := make(map[string]*clusterTour, len(responders))
	for i, r := range responders {
		abstract := BuildTour(g, seeds[i], clusters[i])
		path := expandTourPath(g, abstract)
		tours[r.ID] = &clusterTour{path: path, deferredRooms: make(map[int]bool)}
	}

	return &SweepCoordinator{g: g, tours: tours, stallWindow: stallWindow}
}

// expandTourPath turns an abstract MST/DFS tour (consecutive entries
// connected by corridor distance, not necessarily a single edge) into a
// concrete, directly walkable vertex sequence by splicing in the shortest
// existing-edge path between each consecutive pair.
func expandTourPath(g *Graph, tour Tour) []int {
	if len(tour) == 0 {
		return nil
	}
	path := []int{tour[0]}
	for i := 0; i+1 < len(tour); i++ {
		seg := bfsExists(g, tour[i], tour[i+1])
		if seg == nil {
			continue // unreachable leg; skip, leaving a gap resolved by deferral during dispatch
		}
		path = append(path, seg[1:]...)
	}
	return path
}

// Dispatch produces up to responder.ActionsPerTick actions for every
// responder still in phase SWEEP, following the §4.3 priority policy:
// instruct uninstructed capable occupants, then opportunistically pick up
// incapable occupants, then drop off if standing at an exit while
// carrying, then move toward the next tour vertex.
func (sc *SweepCoordinator) Dispatch(responders []*Responder, tick int64) map[string][]Action {
	visited := unionVisited(responders)
	out := make(map[string][]Action, len(responders))
	for _, r := range responders {
		ct := sc.tours[r.ID]
		if ct == nil {
			continue
		}
		out[r.ID] = sc.dispatchOne(r, ct, tick, visited)
	}
	return out
}

func (sc *SweepCoordinator) dispatchOne(r *Responder, ct *clusterTour, tick int64, visited map[int]bool) []Action {
	var actions []Action
	predPos := r.Position
	predCarrying := r.CarryingIncapable
	instructedThisTick := make(map[int]bool)
	pickedUpThisTick := make(map[int]bool)

	for len(actions) < r.ActionsPerTick {
		v := sc.g.Vertices[predPos]

		if v.OccupantsCapable > 0 && !v.OccupantsInstructed && !instructedThisTick[predPos] {
			actions = append(actions, InstructAction())
			instructedThisTick[predPos] = true
			continue
		}

		if v.Kind == KindRoom && v.OccupantsIncapable > 0 && predCarrying < r.Capacity && !pickedUpThisTick[predPos] {
			pick := v.OccupantsIncapable
			if spare := r.Capacity - predCarrying; pick > spare {
				pick = spare
			}
			actions = append(actions, PickUpAction(pick))
			predCarrying += pick
			pickedUpThisTick[predPos] = true
			continue
		}

		if predCarrying > 0 && v.Kind.IsExit() {
			actions = append(actions, DropOffAction())
			predCarrying = 0
			continue
		}

		next, ok := sc.advanceTour(ct, predPos, visited)
		if !ok {
			break
		}
		actions = append(actions, MoveAction(sc.g.Vertices[next].ID))
		predPos = next
		ct.lastProgress = tick
	}

	return actions
}

// advanceTour returns the next concrete vertex to move to and advances
// ct.index, or false if the tour is exhausted or the next leg is
// currently blocked and no detour exists (§4.3: "rebuild only the
// affected segment"; "if a target room is wholly unreachable, defer it").
func (sc *SweepCoordinator) advanceTour(ct *clusterTour, from int, visited map[int]bool) (int, bool) {
	if ct.index+1 >= len(ct.path) {
		if target, ok := sc.retarget(from, visited); ok {
			if seg := bfsExists(sc.g, from, target); len(seg) > 1 {
				ct.path = append(ct.path, seg[1:]...)
				ct.index++
				return ct.path[ct.index], true
			}
		}
		ct.done = true
		return 0, false
	}
	next := ct.path[ct.index+1]
	if eidx, ok := sc.g.EdgeBetween(from, next); ok && sc.g.Edges[eidx].Exists {
		ct.index++
		return next, true
	}

	// Direct hop is blocked; try to repath the remainder of the tour from
	// here, dropping unreachable waypoints into deferredRooms.
	for i := ct.index + 1; i < len(ct.path); i++ {
		target := ct.path[i]
		seg := bfsExists(sc.g, from, target)
		if seg != nil {
			newPath := append([]int{}, ct.path[:ct.index+1]...)
			newPath = append(newPath, seg[1:]...)
			newPath = append(newPath, ct.path[i+1:]...)
			ct.path = newPath
			ct.index++
			return ct.path[ct.index], true
		}
		if v := sc.g.Vertices[target]; v.Kind == KindRoom {
			ct.deferredRooms[target] = true
		}
	}
	ct.done = true
	return 0, false
}

// retarget finds the nearest still-uninstructed capable occupant in an
// already-discovered room reachable from the given vertex, for the
// post-tour continuation policy: once a responder's DFS tour is exhausted,
// it keeps visiting any discovered room with uninstructed capable
// occupants, nearest first, until none remain. Restricted to the
// union-of-responders visited set (§3: unvisited vertices are unknown to
// the planner) so a capable occupant in a genuinely unreachable room can
// never keep extending the tour forever.
func (sc *SweepCoordinator) retarget(from int, visited map[int]bool) (int, bool) {
	hop := bfsHopDistances(sc.g, from)
	best, bestDist := -1, -1
	for idx := range visited {
		v := sc.g.Vertices[idx]
		if v.Burned || v.OccupantsCapable <= 0 || v.OccupantsInstructed {
			continue
		}
		d := hop[idx]
		if d <= 0 {
			continue
		}
		if best == -1 || d < bestDist {
			best, bestDist = idx, d
		}
	}
	return best, best != -1
}

// Complete reports whether the sweep coordinator considers its work done
// for this responder: tour exhausted, or no tour progress within the stall
// window. It does not look at occupants; the uninstructed-capable check is
// made by the model facade.
func (sc *SweepCoordinator) Complete(r *Responder, tick int64) bool {
	ct := sc.tours[r.ID]
	if ct == nil {
		return true
	}
	if ct.done {
		return true
	}
	if tick-ct.lastProgress >= sc.stallWindow {
		ct.done = true
		return true
	}
	return false
}

// AllComplete reports sweep completion across the whole responder roster,
// per §4.3's completion predicate (structural half; the "no uninstructed
// capable in discovered rooms" half is checked against live graph state
// by the model facade, which has the fuller view).
func (sc *SweepCoordinator) AllComplete(responders []*Responder, tick int64) bool {
	for _, r := range responders {
		if !sc.Complete(r, tick) {
			return false
		}
	}
	return true
}

// DeferredRooms returns the union of rooms any responder's tour deferred
// as unreachable, used by the optimizer to exclude them from item
// generation (§4.3).
func (sc *SweepCoordinator) DeferredRooms() map[int]bool {
	out := make(map[int]bool)
	for _, ct := range sc.tours {
		for room := range ct.deferredRooms {
			out[room] = true
		}
	}
	return out
}
