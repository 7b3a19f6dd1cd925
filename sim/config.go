// config.go defines BuildingConfig and ModelConfig, the two YAML-loadable
// inputs named in §6. Loading follows the teacher's PolicyBundle pattern:
// Load* reads and unmarshals the file, and Validate performs structural and
// range checks. NewSimulation calls BuildingConfig.Validate before doing
// anything else; LoadModelConfig validates the ModelConfig it loads, and
// NewModel does not validate the ModelConfig it is given.

package sim

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// VertexConfig is the YAML-equivalent document shape for one vertex (§6).
type VertexConfig struct {
	ID             string  `yaml:"id"`
	Kind           string  `yaml:"kind"`
	Floor          int     `yaml:"floor"`
	Capacity       int     `yaml:"capacity"`
	Priority       float64 `yaml:"priority"`
	SweepTimeS     float64 `yaml:"sweep_time"`
	AreaM2         float64 `yaml:"area_m2"`
	CeilingHeightM float64 `yaml:"ceiling_height_m"`
	VisualPosition Point   `yaml:"visual_position"`
	RoomType       string  `yaml:"room_type,omitempty"`
	StaircaseGroup string  `yaml:"staircase_group,omitempty"`
}

// EdgeConfig is the YAML-equivalent document shape for one edge (§6).
type EdgeConfig struct {
	ID           string  `yaml:"id"`
	VertexA      string  `yaml:"vertex_a"`
	VertexB      string  `yaml:"vertex_b"`
	MaxFlow      float64 `yaml:"max_flow"`
	WidthM       float64 `yaml:"width_m"`
	BaseBurnRate float64 `yaml:"base_burn_rate"`
	UnitLengthM  float64 `yaml:"unit_length,omitempty"`
	Kind         string  `yaml:"kind,omitempty"`
}

// OccupancyDist describes a per-room distribution over capable/incapable
// occupant counts, sampled once at Simulation construction.
type OccupancyDist struct {
	CapableMean     float64 `yaml:"capable_mean"`
	CapableStdDev   float64 `yaml:"capable_stddev"`
	IncapableMean   float64 `yaml:"incapable_mean"`
	IncapableStdDev float64 `yaml:"incapable_stddev"`
}

// FireParams locates the fire's origin and its initial severity.
type FireParams struct {
	OriginVertexID    string  `yaml:"origin_vertex_id"`
	InitialSmokeLevel float64 `yaml:"initial_smoke_level"`
}

// BuildingParams carries multi-floor geometry, optional for single-floor
// buildings.
type BuildingParams struct {
	NumFloors     int     `yaml:"num_floors"`
	FloorHeightM  float64 `yaml:"floor_height_m"`
}

// BuildingConfig is the complete, immutable input to Simulation.New (§6).
type BuildingConfig struct {
	Vertices               []VertexConfig           `yaml:"vertices"`
	Edges                  []EdgeConfig             `yaml:"edges"`
	OccupancyProbabilities map[string]OccupancyDist `yaml:"occupancy_probabilities"`
	FireParamsCfg          FireParams               `yaml:"fire_params"`
	BuildingParamsCfg      *BuildingParams          `yaml:"building_params,omitempty"`
}

// LoadBuildingConfig reads and parses a YAML BuildingConfig document.
func LoadBuildingConfig(path string) (*BuildingConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading building config: %w", err)
	}
	var cfg BuildingConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing building config: %w", err)
	}
	return &cfg, nil
}

// Validate checks structural invariants of the config: every edge
// endpoint resolves to a known vertex, no negative capacities or burn
// rates, at least one exit-kind vertex exists, and the fire origin
// resolves to a known vertex. Returns an error wrapping ErrConfigInvalid.
func (c *BuildingConfig) Validate() error {
	if len(c.Vertices) == 0 {
		return configErrorf("building config has no vertices")
	}
	seen := make(map[string]bool, len(c.Vertices))
	hasExit := false
	for _, v := range c.Vertices {
		if v.ID == "" {
			return configErrorf("vertex with empty id")
		}
		if seen[v.ID] {
			return configErrorf("duplicate vertex id %q", v.ID)
		}
		seen[v.ID] = true
		if v.Capacity < 0 {
			return configErrorf("vertex %q has negative capacity %d", v.ID, v.Capacity)
		}
		if v.AreaM2 < 0 || v.CeilingHeightM < 0 {
			return configErrorf("vertex %q has negative area or ceiling height", v.ID)
		}
		if VertexKind(v.Kind).IsExit() {
			hasExit = true
		}
	}
	if !hasExit {
		return configErrorf("building config has no exit-kind vertex")
	}

	edgeSeen := make(map[string]bool, len(c.Edges))
	for _, e := range c.Edges {
		if e.ID == "" {
			return configErrorf("edge with empty id")
		}
		if edgeSeen[e.ID] {
			return configErrorf("duplicate edge id %q", e.ID)
		}
		edgeSeen[e.ID] = true
		if !seen[e.VertexA] {
			return configErrorf("edge %q references unknown vertex_a %q", e.ID, e.VertexA)
		}
		if !seen[e.VertexB] {
			return configErrorf("edge %q references unknown vertex_b %q", e.ID, e.VertexB)
		}
		if e.VertexA == e.VertexB {
			return configErrorf("edge %q is a self-loop on %q", e.ID, e.VertexA)
		}
		if e.MaxFlow < 0 {
			return configErrorf("edge %q has negative max_flow", e.ID)
		}
		if e.WidthM <= 0 {
			return configErrorf("edge %q has non-positive width_m", e.ID)
		}
		if e.BaseBurnRate < 0 {
			return configErrorf("edge %q has negative base_burn_rate", e.ID)
		}
	}

	if c.FireParamsCfg.OriginVertexID == "" {
		return configErrorf("fire_params.origin_vertex_id is required")
	}
	if !seen[c.FireParamsCfg.OriginVertexID] {
		return configErrorf("fire_params.origin_vertex_id %q is not a known vertex", c.FireParamsCfg.OriginVertexID)
	}
	return nil
}

// ModelConfig holds the Model facade's recognized construction parameters
// (§6). Zero values are NOT automatically defaulted by YAML unmarshaling;
// callers should start from DefaultModelConfig() and override fields.
type ModelConfig struct {
	UseLP                 bool    `yaml:"use_lp"`
	FirePriorityWeight    float64 `yaml:"fire_priority_weight"`
	UnderCapacityPenalty  float64 `yaml:"under_capacity_penalty"`
	KCapacity             int     `yaml:"k_capacity"`
	SweepSeed             int64   `yaml:"sweep_seed"`
	StallWindowTicks      int     `yaml:"stall_window_ticks"`
}

// DefaultModelConfig returns the §6-documented defaults.
func DefaultModelConfig() ModelConfig {
	return ModelConfig{
		UseLP:                false,
		FirePriorityWeight:   0,
		UnderCapacityPenalty: 0,
		KCapacity:            3,
		SweepSeed:            0,
		StallWindowTicks:     20,
	}
}

// LoadModelConfig reads and parses a YAML ModelConfig document on top of
// DefaultModelConfig: fields the document does not mention keep their
// default values, and fields it sets (zero values included) override them.
// The result is validated before it is returned.
func LoadModelConfig(path string) (*ModelConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading model config: %w", err)
	}
	cfg := DefaultModelConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing model config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate range-checks the ModelConfig fields.
func (c *ModelConfig) Validate() error {
	if c.FirePriorityWeight < 0 {
		return configErrorf("fire_priority_weight must be >= 0, got %f", c.FirePriorityWeight)
	}
	if c.UnderCapacityPenalty < 0 || c.UnderCapacityPenalty > 1 {
		return configErrorf("under_capacity_penalty must be in [0,1], got %f", c.UnderCapacityPenalty)
	}
	if c.KCapacity < 1 {
		return configErrorf("k_capacity must be >= 1, got %d", c.KCapacity)
	}
	if c.StallWindowTicks < 1 {
		return configErrorf("stall_window_ticks must be >= 1, got %d", c.StallWindowTicks)
	}
	return nil
}

// BuildGraph compiles the BuildingConfig into a kernel-owned *Graph. The
// config MUST already have passed Validate.
func (c *BuildingConfig) BuildGraph() *Graph {
	g := &Graph{
		idxByVertexID: make(map[string]int, len(c.Vertices)),
		idxByEdgeID:   make(map[string]int, len(c.Edges)),
	}
	if c.BuildingParamsCfg != nil {
		g.FloorHeightM = c.BuildingParamsCfg.FloorHeightM
	}
	if g.FloorHeightM == 0 {
		g.FloorHeightM = 3.0 // reasonable default storey height
	}

	for _, vc := range c.Vertices {
		v := &Vertex{
			ID:             vc.ID,
			Kind:           VertexKind(vc.Kind),
			Floor:          vc.Floor,
			Position:       vc.VisualPosition,
			AreaM2:         vc.AreaM2,
			CeilingHeightM: vc.CeilingHeightM,
			Capacity:       vc.Capacity,
			Priority:       vc.Priority,
			SweepTimeS:     vc.SweepTimeS,
			RoomType:       vc.RoomType,
			StaircaseGroup: vc.StaircaseGroup,
		}
		idx := len(g.Vertices)
		g.Vertices = append(g.Vertices, v)
		g.idxByVertexID[vc.ID] = idx
	}
	g.adjacency = make([][]int, len(g.Vertices))

	for _, ec := range c.Edges {
		a := g.idxByVertexID[ec.VertexA]
		b := g.idxByVertexID[ec.VertexB]
		unitLen := ec.UnitLengthM
		if unitLen == 0 {
			unitLen = 1
		}
		e := &Edge{
			ID:           ec.ID,
			A:            a,
			B:            b,
			MaxFlow:      ec.MaxFlow,
			WidthM:       ec.WidthM,
			BaseBurnRate: ec.BaseBurnRate,
			UnitLengthM:  unitLen,
			Kind:         ec.Kind,
			Exists:       true,
		}
		idx := len(g.Edges)
		g.Edges = append(g.Edges, e)
		g.idxByEdgeID[ec.ID] = idx
		g.adjacency[a] = append(g.adjacency[a], idx)
		g.adjacency[b] = append(g.adjacency[b], idx)
	}

	g.FireOriginIdx = g.idxByVertexID[c.FireParamsCfg.OriginVertexID]
	return g
}
