package sim

// buildLineGraph constructs a simple n-vertex chain (0-1-2-...-n-1), vertex
// 0 as an exit and the rest as rooms, for exercising the internal
// partitioning/tour/optimizer helpers without round-tripping through YAML.
func buildLineGraph(n int) *Graph {
	cfg := &BuildingConfig{
		Vertices: []VertexConfig{{ID: "exit-1", Kind: "exit", Capacity: 999, AreaM2: 10, CeilingHeightM: 3}},
		FireParamsCfg: FireParams{OriginVertexID: "exit-1"},
	}
	prev := "exit-1"
	for i := 1; i < n; i++ {
		id := roomLabel(i)
		cfg.Vertices = append(cfg.Vertices, VertexConfig{ID: id, Kind: "room", Capacity: 10, Priority: 1, AreaM2: 20, CeilingHeightM: 3})
		cfg.Edges = append(cfg.Edges, EdgeConfig{ID: "e" + id, VertexA: prev, VertexB: id, MaxFlow: 10, WidthM: 2})
		prev = id
	}
	return cfg.BuildGraph()
}

// buildStarGraph builds a hub vertex (exit) with n independent spoke rooms,
// so every room is equidistant from the hub but distant from each other.
func buildStarGraph(n int) *Graph {
	cfg := &BuildingConfig{
		Vertices: []VertexConfig{{ID: "exit-1", Kind: "exit", Capacity: 999, AreaM2: 10, CeilingHeightM: 3}},
		FireParamsCfg: FireParams{OriginVertexID: "exit-1"},
	}
	for i := 0; i < n; i++ {
		id := roomLabel(i)
		cfg.Vertices = append(cfg.Vertices, VertexConfig{ID: id, Kind: "room", Capacity: 10, Priority: 1, AreaM2: 20, CeilingHeightM: 3})
		cfg.Edges = append(cfg.Edges, EdgeConfig{ID: "e" + id, VertexA: "exit-1", VertexB: id, MaxFlow: 10, WidthM: 2})
	}
	return cfg.BuildGraph()
}

func roomLabel(i int) string {
	const letters = "abcdefghijklmnopqrstuvwxyz"
	return "room-" + string(letters[i%len(letters)])
}
