// model.go implements the model facade (§2, §6): two-phase orchestration
// between the sweep coordinator and the rescue optimizer/tactical
// coordinator, replan-event detection, and the phase-transition trigger
// that runs the optimizer once on the snapshot at SWEEP→RESCUE (§3).
//
// The facade and the simulation kernel run in the same process under the
// driver's control (§5: single-threaded, cooperative); rather than
// duplicate the graph into a second restricted view, the facade borrows
// the kernel's own *Graph and *Metrics, by convention never mutating
// either. The fog-of-war restriction named in §4.1 binds the externally
// visible Simulation.Read() snapshot handed to the driver, not this
// in-process boundary.

package sim

// Phase is SWEEP or RESCUE, monotonic once RESCUE (§3).
type Phase string

const (
	PhaseSweep  Phase = "sweep"
	PhaseRescue Phase = "rescue"
)

// Model is the two-phase responder controller (§2).
type Model struct {
	g          *Graph
	responders []*Responder
	metrics    *Metrics
	cfg        ModelConfig
	optCfg     OptimizerConfig
	assigner   ItemAssigner

	phase    Phase
	sweep    *SweepCoordinator
	tactical *TacticalCoordinator

	lastEdgeExists []bool
	haveBaseline   bool
}

// NewModel constructs the facade. responders and metrics are the same
// objects the Simulation mutates; the facade only reads them except via
// the explicit Metrics.RecordReplan call below.
func NewModel(g *Graph, responders []*Responder, metrics *Metrics, cfg ModelConfig) *Model {
	assigner := ItemAssigner(GreedyAssigner{})
	if cfg.UseLP {
		assigner = LPAssigner{}
	}
	optCfg := OptimizerConfig{
		KCapacity:            cfg.KCapacity,
		FirePriorityWeight:   cfg.FirePriorityWeight,
		UnderCapacityPenalty: cfg.UnderCapacityPenalty,
	}
	return &Model{
		g:          g,
		responders: responders,
		metrics:    metrics,
		cfg:        cfg,
		optCfg:     optCfg,
		assigner:   assigner,
		phase:      PhaseSweep,
		sweep:      NewSweepCoordinator(g, responders, int64(cfg.StallWindowTicks), cfg.SweepSeed),
	}
}

// Phase returns the facade's current phase.
func (m *Model) Phase() Phase { return m.phase }

// Decide produces the next tick's action set (§6: model.decide(state)).
func (m *Model) Decide(state *State) map[string][]Action {
	replanEvent := m.detectGraphChange()

	if m.phase == PhaseSweep {
		actions := m.sweep.Dispatch(m.responders, state.Tick)
		if m.sweep.AllComplete(m.responders, state.Tick) && !m.anyUninstructedCapableRemaining() {
			m.transitionToRescue()
			// Keep the sweep's last actions (e.g. a final DropOff); only
			// responders the sweep left idle this tick start on their queues.
			var idle []*Responder
			for _, r := range m.responders {
				if len(actions[r.ID]) == 0 {
					idle = append(idle, r)
				}
			}
			for id, acts := range m.tactical.Dispatch(idle) {
				actions[id] = acts
			}
		}
		return actions
	}

	if replanEvent {
		m.tactical.ReplanHook(m.responders)
		m.metrics.RecordReplan()
	}
	return m.tactical.Dispatch(m.responders)
}

// transitionToRescue runs the optimizer once over the current snapshot
// and seeds the tactical coordinator (§3, §9 redesign: transition is
// defined purely on sweep completion, independent of incapable count, so
// a zero-incapable population produces zero items rather than stalling).
func (m *Model) transitionToRescue() {
	m.phase = PhaseRescue

	deferred := m.sweep.DeferredRooms()
	var roomSet []int
	remaining := make(map[int]int)
	for _, idx := range m.g.RoomIndices() {
		if deferred[idx] {
			continue
		}
		roomSet = append(roomSet, idx)
		remaining[idx] = m.g.Vertices[idx].OccupantsIncapable
	}
	exits := findExits(m.g)

	items := GenerateRescueItems(m.g, roomSet, exits, m.optCfg)

	m.tactical = NewTacticalCoordinator(m.g, m.assigner, m.optCfg)
	m.tactical.Seed(items, responderIDs(m.responders), remaining)
}

func responderIDs(responders []*Responder) []string {
	ids := make([]string, len(responders))
	for i, r := range responders {
		ids[i] = r.ID
	}
	return ids
}

// anyUninstructedCapableRemaining implements the second half of §4.3's
// sweep_complete predicate: no_uninstructed_capable_in_discovered_rooms.
// Restricted to vertices some responder has actually visited, so a capable
// occupant stranded in a room no responder can reach never blocks the
// SWEEP→RESCUE transition forever.
func (m *Model) anyUninstructedCapableRemaining() bool {
	for idx := range unionVisited(m.responders) {
		v := m.g.Vertices[idx]
		if v.Burned {
			continue
		}
		if v.OccupantsCapable > 0 && !v.OccupantsInstructed {
			return true
		}
	}
	return false
}

// detectGraphChange reports whether any edge has cleared since the last
// call, triggering the RESCUE-phase replan hook (§4.5).
func (m *Model) detectGraphChange() bool {
	if !m.haveBaseline {
		m.lastEdgeExists = make([]bool, len(m.g.Edges))
		for i, e := range m.g.Edges {
			m.lastEdgeExists[i] = e.Exists
		}
		m.haveBaseline = true
		return false
	}
	changed := false
	for i, e := range m.g.Edges {
		if m.lastEdgeExists[i] && !e.Exists {
			changed = true
		}
		m.lastEdgeExists[i] = e.Exists
	}
	return changed
}
