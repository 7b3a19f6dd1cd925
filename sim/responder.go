package sim

// Responder is a firefighter agent: a flat record, no inheritance (§9).
// Capacity and ActionsPerTick are explicit constructor parameters per the
// open question in §9 ("the source assumes actions_per_tick=2 at one call
// site; the spec makes it a parameter").
type Responder struct {
	ID              string
	Capacity        int // K
	ActionsPerTick  int // A
	Position        int // vertex index
	CarryingIncapable int
	Visited         map[int]bool
	Trapped         bool
}

// NewResponder creates a Responder starting at the given vertex index.
func NewResponder(id string, capacity, actionsPerTick, startIdx int) *Responder {
	r := &Responder{
		ID:             id,
		Capacity:       capacity,
		ActionsPerTick: actionsPerTick,
		Position:       startIdx,
		Visited:        map[int]bool{startIdx: true},
	}
	return r
}

// MarkVisited records that the responder has observed the given vertex.
func (r *Responder) MarkVisited(idx int) {
	r.Visited[idx] = true
}

// SpareCapacity returns how many more incapable occupants this responder
// can carry before hitting K.
func (r *Responder) SpareCapacity() int {
	return r.Capacity - r.CarryingIncapable
}

// unionVisited returns the set of vertex indices any responder has visited,
// i.e. the planner's discovered-rooms set (§3: "unvisited vertices are
// unknown to the planner"). Matches the discovered-occupants set
// Simulation.Read() computes for the external snapshot.
func unionVisited(responders []*Responder) map[int]bool {
	visited := make(map[int]bool)
	for _, r := range responders {
		for idx := range r.Visited {
			visited[idx] = true
		}
	}
	return visited
}
