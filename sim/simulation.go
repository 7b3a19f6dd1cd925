// simulation.go implements the simulation kernel (§4.1): construction from
// a validated BuildingConfig, the fog-of-war-respecting Read() snapshot,
// and the atomic six-step Update(actions) tick contract. The per-subsystem
// seeded RNG streams (occupancy sampling, edge burn, smoke death) are
// partitioned per §5's reproducibility guarantee.

package sim

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
)

// SimulationOptions carries the responder-roster parameters that are not
// part of BuildingConfig or ModelConfig (§9: "the source assumes
// actions_per_tick=2 at one call site; the spec makes it a parameter").
type SimulationOptions struct {
	ResponderCapacity int
	ActionsPerTick    int
}

// DefaultSimulationOptions mirrors the model facade's default k_capacity
// and a two-actions-per-tick roster, matching the historical call site
// named in §9 without hardcoding it.
func DefaultSimulationOptions() SimulationOptions {
	return SimulationOptions{ResponderCapacity: 3, ActionsPerTick: 2}
}

// Simulation is the kernel: owns the Graph, the responder roster, the
// partitioned RNG, and running metrics (§4.1).
type Simulation struct {
	g          *Graph
	responders []*Responder
	metrics    *Metrics
	rng        *PartitionedRNG
	tick       int64
	fireOrigin int
}

// NewSimulation builds a Simulation from a validated BuildingConfig. If
// fireOriginID is non-empty it overrides the config's declared fire
// origin, letting a benchmark harness sweep fire-origin placement across
// trials without re-authoring the building (§6: "Simulation.new(config,
// num_responders, fire_origin, seed)").
func NewSimulation(cfg *BuildingConfig, numResponders int, fireOriginID string, seed int64, opts SimulationOptions) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	g := cfg.BuildGraph()
	if fireOriginID != "" {
		idx := g.VertexIndex(fireOriginID)
		if idx == -1 {
			return nil, configErrorf("fire_origin %q is not a known vertex", fireOriginID)
		}
		g.FireOriginIdx = idx
	}

	rng := NewPartitionedRNG(NewSimulationKey(seed))

	metrics := &Metrics{}
	sampleOccupants(g, cfg.OccupancyProbabilities, rng.ForSubsystem(SubsystemOccupancy))
	for _, v := range g.Vertices {
		metrics.TotalInitial += v.OccupantTotal()
	}

	origin := g.Vertices[g.FireOriginIdx]
	origin.FireIntensity = 1.0
	if cfg.FireParamsCfg.InitialSmokeLevel > 0 {
		origin.SmokeVolumeM3 = math.Min(cfg.FireParamsCfg.InitialSmokeLevel, origin.VolumeM3())
	}

	exits := g.ExitIndices()
	if numResponders < 1 {
		numResponders = 1
	}
	responders := make([]*Responder, numResponders)
	for i := 0; i < numResponders; i++ {
		start := exits[i%len(exits)]
		responders[i] = NewResponder(responderID(i), opts.ResponderCapacity, opts.ActionsPerTick, start)
	}

	return &Simulation{
		g:          g,
		responders: responders,
		metrics:    metrics,
		rng:        rng,
		fireOrigin: g.FireOriginIdx,
	}, nil
}

func responderID(i int) string {
	return fmt.Sprintf("responder-%d", i+1)
}

// sampleOccupants draws each room's initial capable/incapable counts from
// its configured distribution, from the occupancy RNG subsystem, in
// ascending vertex-id order for determinism (§5).
func sampleOccupants(g *Graph, dists map[string]OccupancyDist, rng *rand.Rand) {
	order := make([]int, len(g.Vertices))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool { return g.Vertices[order[i]].ID < g.Vertices[order[j]].ID })

	for _, idx := range order {
		v := g.Vertices[idx]
		if v.Kind != KindRoom {
			continue
		}
		dist, ok := dists[v.ID]
		if !ok {
			continue
		}
		capable := sampleCount(dist.CapableMean, dist.CapableStdDev, rng)
		incapable := sampleCount(dist.IncapableMean, dist.IncapableStdDev, rng)
		if v.Capacity > 0 && capable+incapable > v.Capacity {
			scale := float64(v.Capacity) / float64(capable+incapable)
			capable = int(math.Round(float64(capable) * scale))
			incapable = int(math.Round(float64(incapable) * scale))
		}
		v.OccupantsCapable = capable
		v.OccupantsIncapable = incapable
	}
}

func sampleCount(mean, stddev float64, rng *rand.Rand) int {
	if mean <= 0 {
		return 0
	}
	v := mean
	if stddev > 0 {
		v = mean + rng.NormFloat64()*stddev
	}
	if v < 0 {
		v = 0
	}
	return int(math.Round(v))
}

// Responders exposes the kernel-owned responder roster to the model
// facade, which needs capacity/actions_per_tick alongside live state
// (§9: both run in-process under the driver).
func (s *Simulation) Responders() []*Responder { return s.responders }

// Graph exposes the kernel-owned graph to the model facade.
func (s *Simulation) Graph() *Graph { return s.g }

// Metrics exposes the kernel-owned metrics accumulator to the model
// facade, which records replan events as they are detected.
func (s *Simulation) Metrics() *Metrics { return s.metrics }

// Read returns a fog-of-war-respecting snapshot (§4.1): topology and edge
// existence in full, but occupant counts only for vertices at least one
// responder has visited.
func (s *Simulation) Read() *State {
	vertices := make([]VertexView, len(s.g.Vertices))
	for i, v := range s.g.Vertices {
		vertices[i] = VertexView{
			ID:            v.ID,
			Kind:          v.Kind,
			Floor:         v.Floor,
			Burned:        v.Burned,
			SmokeVolumeM3: v.SmokeVolumeM3,
			FireIntensity: v.FireIntensity,
		}
	}
	edges := make([]EdgeView, len(s.g.Edges))
	for i, e := range s.g.Edges {
		edges[i] = EdgeView{ID: e.ID, A: s.g.Vertices[e.A].ID, B: s.g.Vertices[e.B].ID, Exists: e.Exists}
	}

	visited := make(map[int]bool)
	responders := make([]ResponderView, len(s.responders))
	for i, r := range s.responders {
		responders[i] = ResponderView{ID: r.ID, Position: s.g.Vertices[r.Position].ID, CarryingIncapable: r.CarryingIncapable}
		for idx := range r.Visited {
			visited[idx] = true
		}
	}

	discovered := make(map[string]OccupantObservation, len(visited))
	for idx := range visited {
		v := s.g.Vertices[idx]
		discovered[v.ID] = OccupantObservation{Capable: v.OccupantsCapable, Incapable: v.OccupantsIncapable, Instructed: v.OccupantsInstructed}
	}

	return &State{
		Tick:                s.tick,
		Vertices:            vertices,
		Edges:               edges,
		Responders:          responders,
		DiscoveredOccupants: discovered,
		FireOriginID:        s.g.Vertices[s.fireOrigin].ID,
	}
}

// Update atomically executes one tick (§4.1, steps 1-6).
func (s *Simulation) Update(actions map[string][]Action) *TickResult {
	flow := newEdgeFlowBudget(s.g)
	result := &TickResult{Tick: s.tick}

	ids := make([]string, 0, len(s.responders))
	byID := make(map[string]*Responder, len(s.responders))
	for _, r := range s.responders {
		ids = append(ids, r.ID)
		byID[r.ID] = r
	}
	sort.Strings(ids)

	rescuedBefore := s.metrics.Rescued
	for _, id := range ids {
		r := byID[id]
		acts := actions[id]
		limit := r.ActionsPerTick
		if len(acts) < limit {
			limit = len(acts)
		}
		for i := 0; i < limit; i++ {
			res := s.executeAction(r, acts[i], flow)
			result.ActionResults = append(result.ActionResults, res)
			if !res.Success {
				break
			}
		}
	}
	result.RescuedThisTick += s.metrics.Rescued - rescuedBefore

	rescuedFromEgress := applyInstructedMovement(s.g, flow)
	if rescuedFromEgress > 0 {
		s.metrics.RecordRescue(rescuedFromEgress, s.tick)
		result.RescuedThisTick += rescuedFromEgress
	}

	clearedEdges := applyEdgeBurnout(s.g, s.tick, s.rng.ForSubsystem(SubsystemEdgeBurn))
	for _, id := range clearedEdges {
		result.Events = append(result.Events, "edge_cleared:"+id)
	}

	newlyDeadFire := applyFirePropagation(s.g)
	if newlyDeadFire > 0 {
		s.metrics.RecordDeath(newlyDeadFire)
		result.DeadThisTick += newlyDeadFire
		result.Events = append(result.Events, "fire_ignition")
	}

	applySmokeGeneration(s.g)
	applySmokeDiffusion(s.g)
	newlyDeadSmoke := applySmokeCasualtyRolls(s.g, s.rng.ForSubsystem(SubsystemSmoke))
	if newlyDeadSmoke > 0 {
		s.metrics.RecordDeath(newlyDeadSmoke)
		result.DeadThisTick += newlyDeadSmoke
	}

	s.tick++
	return result
}

// executeAction applies a single action against the current graph state
// (§4.1 action semantics).
func (s *Simulation) executeAction(r *Responder, a Action, flow *edgeFlowBudget) ActionResult {
	res := ActionResult{ResponderID: r.ID, Action: a}
	switch a.Type {
	case ActionMove:
		idx := s.g.VertexIndex(a.Target)
		if idx == -1 {
			res.Reason = "unknown target vertex"
			return res
		}
		eidx, ok := s.g.EdgeBetween(r.Position, idx)
		if !ok {
			res.Reason = "no edge to target"
			return res
		}
		if !s.g.Edges[eidx].Exists {
			res.Reason = "edge does not exist"
			return res
		}
		if !flow.hasBudget(eidx) {
			res.Reason = "edge flow budget exhausted"
			return res
		}
		flow.consume(eidx, 1)
		r.Position = idx
		r.MarkVisited(idx)
		res.Success = true
		return res

	case ActionPickUp:
		if a.Count <= 0 {
			res.Reason = "count must be positive"
			return res
		}
		v := s.g.Vertices[r.Position]
		if v.OccupantsIncapable < a.Count {
			res.Reason = "insufficient incapable occupants"
			return res
		}
		if r.CarryingIncapable+a.Count > r.Capacity {
			res.Reason = "exceeds carry capacity"
			return res
		}
		v.OccupantsIncapable -= a.Count
		r.CarryingIncapable += a.Count
		res.Success = true
		return res

	case ActionDropOff:
		v := s.g.Vertices[r.Position]
		if !v.Kind.IsExit() {
			res.Reason = "current vertex is not an exit"
			return res
		}
		count := r.CarryingIncapable
		r.CarryingIncapable = 0
		if count > 0 {
			s.metrics.RecordRescue(count, s.tick)
		}
		res.Success = true
		return res

	case ActionInstruct:
		v := s.g.Vertices[r.Position]
		v.OccupantsInstructed = true
		res.Success = true
		return res

	default:
		res.Reason = "unknown action type"
		return res
	}
}

// Stats returns the §6 Simulation.stats() snapshot.
func (s *Simulation) Stats() Stats {
	return s.metrics.Snapshot(s.tick)
}
