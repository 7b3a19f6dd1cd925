// rescueitem.go defines the RescueItem value and its mutable
// ItemExecutionPlan wrapper (§3, §9: "a RescueItem is a value; an
// ItemExecutionPlan is a mutable wrapper"), generalizing the teacher's
// immutable-request / mutable-execution-state split (sim/batch.go's
// Batch vs. in-flight request bookkeeping) to rescue planning.

package sim

// RescueItem is an immutable candidate pickup plan for one responder: a
// room-to-count vector summing to at most K, a visit order, entry/exit
// endpoints, the concrete path, its traversal time, and its value density
// (§3, §4.4).
type RescueItem struct {
	Vector       map[int]int // room vertex index -> incapable count to pick up
	VisitSequence []int       // rooms with nonzero count, in visiting order
	EntryExit    int
	DropExit     int
	FullPath     []int // concrete vertex index sequence, entry to drop
	Time         float64
	Value        float64 // value density: priority-weighted value / time
}

// TotalCount returns ∑ v(r) over the item's vector.
func (it RescueItem) TotalCount() int {
	total := 0
	for _, c := range it.Vector {
		total += c
	}
	return total
}

// ItemExecutionPlan tracks one responder's progress through a RescueItem.
type ItemExecutionPlan struct {
	Item         RescueItem
	PickedUp     map[int]int // room vertex index -> count already picked up
	CurrentIndex int         // index into Item.FullPath
	Completed    bool
}

// NewItemExecutionPlan wraps a freshly assigned RescueItem for execution.
func NewItemExecutionPlan(item RescueItem) *ItemExecutionPlan {
	return &ItemExecutionPlan{Item: item, PickedUp: make(map[int]int)}
}

// PendingAt returns how many incapable occupants remain to be picked up at
// the given room vertex index under this plan.
func (p *ItemExecutionPlan) PendingAt(room int) int {
	return p.Item.Vector[room] - p.PickedUp[room]
}

// TotalPending sums PendingAt over every room still in the plan's vector.
func (p *ItemExecutionPlan) TotalPending() int {
	total := 0
	for room, v := range p.Item.Vector {
		total += v - p.PickedUp[room]
	}
	return total
}

// TruncateToUnaltered rewrites the plan to stop after the last pickup in
// an unaltered (still reachable) room and head to fallbackExit instead of
// the item's original drop_exit, returning the affected_vector of pending
// pickups in rooms the plan can no longer reach (§4.5).
func (p *ItemExecutionPlan) TruncateToUnaltered(unaltered, affected map[int]bool, fallbackExit int, g *Graph) map[int]int {
	affectedVector := make(map[int]int)
	for room := range affected {
		if pending := p.PendingAt(room); pending > 0 {
			affectedVector[room] = pending
		}
	}

	var newPath []int
	cutoff := len(p.Item.FullPath)
	for i, vidx := range p.Item.FullPath {
		if affected[vidx] {
			cutoff = i
			break
		}
	}
	newPath = append(newPath, p.Item.FullPath[:cutoff]...)

	if cutoff > 0 {
		last := newPath[len(newPath)-1]
		tail := bfsExists(g, last, fallbackExit)
		if len(tail) > 0 {
			newPath = append(newPath, tail[1:]...)
		}
	} else {
		tail := bfsExists(g, p.Item.EntryExit, fallbackExit)
		newPath = append(newPath, tail...)
	}

	p.Item.FullPath = newPath
	p.Item.DropExit = fallbackExit
	for room := range affected {
		delete(p.Item.Vector, room)
	}
	return affectedVector
}
