// action.go defines the Action tagged union (§9: "Responders as flat
// records, actions as tagged variants. No inheritance") and the
// structures used to report per-action and per-tick results (§6, §7).

package sim

// ActionType tags the variant of an Action.
type ActionType string

const (
	ActionMove     ActionType = "move"
	ActionPickUp   ActionType = "pick_up"
	ActionDropOff  ActionType = "drop_off"
	ActionInstruct ActionType = "instruct"
)

// Action is a single instruction for one responder in one tick. Target is
// meaningful only for Move (a vertex id); Count is meaningful only for
// PickUp. Unknown/irrelevant fields are ignored rather than rejected (§6).
type Action struct {
	Type   ActionType
	Target string
	Count  int
}

// MoveAction builds a Move action.
func MoveAction(target string) Action { return Action{Type: ActionMove, Target: target} }

// PickUpAction builds a PickUp action for the given count.
func PickUpAction(count int) Action { return Action{Type: ActionPickUp, Count: count} }

// DropOffAction builds a DropOff action.
func DropOffAction() Action { return Action{Type: ActionDropOff} }

// InstructAction builds an Instruct action.
func InstructAction() Action { return Action{Type: ActionInstruct} }

// ActionResult records the outcome of executing one action, consumed by
// the driver and by replan detection. A failed action still consumed its
// action point (§4.1); Success=false with a human-readable Reason records
// why, without surfacing a Go error (§7: ActionRejected is recorded, not
// propagated).
type ActionResult struct {
	ResponderID string
	Action      Action
	Success     bool
	Reason      string
}

// TickResult bundles everything produced by one call to Simulation.Update
// (§6).
type TickResult struct {
	Tick            int64
	ActionResults   []ActionResult
	Events          []string
	RescuedThisTick int
	DeadThisTick    int
}
