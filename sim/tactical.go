// tactical.go implements the tactical coordinator (§4.5): per-responder
// ordered ItemExecutionPlan queues, tick-by-tick dispatch, and the replan
// hook invoked by the model facade whenever a graph change is detected.

package sim

// TacticalCoordinator owns every responder's RescueItem execution queue
// once phase RESCUE begins (§4.5).
type TacticalCoordinator struct {
	g                 *Graph
	assigner          ItemAssigner
	cfg               OptimizerConfig
	queues            map[string][]*ItemExecutionPlan
	trappedResponders map[string]bool
}

// NewTacticalCoordinator constructs an empty coordinator; queues are
// populated by Seed (phase transition) and grown by ReplanHook.
func NewTacticalCoordinator(g *Graph, assigner ItemAssigner, cfg OptimizerConfig) *TacticalCoordinator {
	return &TacticalCoordinator{
		g:                 g,
		assigner:          assigner,
		cfg:               cfg,
		queues:            make(map[string][]*ItemExecutionPlan),
		trappedResponders: make(map[string]bool),
	}
}

// Seed assigns a freshly generated item set across responders, run once
// at the SWEEP→RESCUE phase transition (§3: "RescueItems are created
// twice").
func (tc *TacticalCoordinator) Seed(items []RescueItem, responderIDs []string, remaining map[int]int) {
	assignment := tc.assigner.Assign(items, responderIDs, remaining)
	for id, assigned := range assignment {
		for _, item := range assigned {
			tc.queues[id] = append(tc.queues[id], NewItemExecutionPlan(item))
		}
	}
}

// Dispatch produces up to responder.ActionsPerTick actions per responder
// by walking the §4.5 five-step policy against the head of its queue.
func (tc *TacticalCoordinator) Dispatch(responders []*Responder) map[string][]Action {
	out := make(map[string][]Action, len(responders))
	for _, r := range responders {
		if tc.trappedResponders[r.ID] {
			continue
		}
		out[r.ID] = tc.dispatchOne(r)
	}
	return out
}

func (tc *TacticalCoordinator) dispatchOne(r *Responder) []Action {
	var actions []Action
	predPos := r.Position
	predCarrying := r.CarryingIncapable

	for len(actions) < r.ActionsPerTick {
		queue := tc.queues[r.ID]
		for len(queue) > 0 && queue[0].Completed {
			queue = queue[1:]
		}
		tc.queues[r.ID] = queue
		if len(queue) == 0 {
			break
		}
		plan := queue[0]

		if plan.CurrentIndex >= len(plan.Item.FullPath) {
			plan.Completed = true
			continue
		}
		if predPos != plan.Item.FullPath[plan.CurrentIndex] {
			// Drifted from the expected path (e.g. a prior action this
			// tick failed); stop rather than emit an inconsistent move.
			break
		}

		if pending := pendingPickupHere(plan, predPos); pending > 0 && predCarrying < r.Capacity {
			pick := pending
			if spare := r.Capacity - predCarrying; pick > spare {
				pick = spare
			}
			actions = append(actions, PickUpAction(pick))
			plan.PickedUp[predPos] += pick
			predCarrying += pick
			continue
		}

		if predPos == plan.Item.DropExit && predCarrying > 0 {
			actions = append(actions, DropOffAction())
			predCarrying = 0
			plan.Completed = true
			continue
		}

		if plan.CurrentIndex+1 < len(plan.Item.FullPath) {
			next := plan.Item.FullPath[plan.CurrentIndex+1]
			actions = append(actions, MoveAction(tc.g.Vertices[next].ID))
			predPos = next
			plan.CurrentIndex++
			continue
		}

		// At end of path with nothing left to pick up or drop: done.
		plan.Completed = true
	}

	return actions
}

func pendingPickupHere(plan *ItemExecutionPlan, vertex int) int {
	if _, inVector := plan.Item.Vector[vertex]; !inVector {
		return 0
	}
	return plan.PendingAt(vertex)
}

// ReplanHook is invoked by the model facade when it detects a graph
// change since the last tick. For every responder with an active plan it
// partitions remaining pickups into unaltered/affected, truncates the
// plan, extracts trapped responders, and regenerates+reassigns items for
// the union of affected pickups (§4.5).
func (tc *TacticalCoordinator) ReplanHook(responders []*Responder) {
	affectedUnion := make(map[int]int)

	for _, r := range responders {
		if tc.trappedResponders[r.ID] {
			continue
		}
		queue := tc.queues[r.ID]
		if len(queue) == 0 {
			continue
		}
		plan := queue[0]

		unaltered := make(map[int]bool)
		affected := make(map[int]bool)
		for room := range plan.Item.Vector {
			if plan.PendingAt(room) <= 0 {
				continue
			}
			if reachable(tc.g, r.Position, room) {
				unaltered[room] = true
			} else {
				affected[room] = true
			}
		}

		fallback := nearestReachableExit(tc.g, r.Position)
		if fallback == -1 {
			tc.trappedResponders[r.ID] = true
			for room := range plan.Item.Vector {
				if pending := plan.PendingAt(room); pending > 0 {
					affectedUnion[room] += pending
				}
			}
			for _, p := range queue[1:] {
				for room, count := range p.Item.Vector {
					affectedUnion[room] += count - p.PickedUp[room]
				}
			}
			tc.queues[r.ID] = nil
			continue
		}

		if len(affected) == 0 {
			continue
		}
		affectedVector := plan.TruncateToUnaltered(unaltered, affected, fallback, tc.g)
		for room, count := range affectedVector {
			affectedUnion[room] += count
		}
	}

	if len(affectedUnion) == 0 {
		return
	}

	var affectedRooms []int
	for room := range affectedUnion {
		affectedRooms = append(affectedRooms, room)
	}
	exits := findExits(tc.g)

	items := GenerateRescueItems(tc.g, affectedRooms, exits, tc.cfg)

	var activeResponders []string
	for _, r := range responders {
		if !tc.trappedResponders[r.ID] {
			activeResponders = append(activeResponders, r.ID)
		}
	}

	assignment := tc.assigner.Assign(items, activeResponders, affectedUnion)
	for id, assigned := range assignment {
		for _, item := range assigned {
			tc.queues[id] = append(tc.queues[id], NewItemExecutionPlan(item))
		}
	}
}

// Trapped reports whether the given responder has been declared trapped.
func (tc *TacticalCoordinator) Trapped(id string) bool {
	return tc.trappedResponders[id]
}

// AllComplete reports whether every non-trapped responder's queue is
// drained, i.e. the rescue phase has nothing left to execute.
func (tc *TacticalCoordinator) AllComplete(responders []*Responder) bool {
	for _, r := range responders {
		if tc.trappedResponders[r.ID] {
			continue
		}
		queue := tc.queues[r.ID]
		for _, p := range queue {
			if !p.Completed {
				return false
			}
		}
	}
	return true
}
