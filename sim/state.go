// state.go defines Simulation.Read()'s snapshot shape (§4.1): a
// fog-of-war-respecting view exposing full topology and edge existence
// but occupant counts only for visited vertices.

package sim

// VertexView is the externally observable projection of a Vertex.
type VertexView struct {
	ID            string
	Kind          VertexKind
	Floor         int
	Burned        bool
	SmokeVolumeM3 float64
	FireIntensity float64
}

// EdgeView is the externally observable projection of an Edge.
type EdgeView struct {
	ID     string
	A, B   string
	Exists bool
}

// ResponderView is the externally observable projection of a Responder.
type ResponderView struct {
	ID                string
	Position          string
	CarryingIncapable int
}

// OccupantObservation is what a responder last observed at a visited
// vertex (§3: "Discovered occupants").
type OccupantObservation struct {
	Capable    int
	Incapable  int
	Instructed bool
}

// State is the snapshot returned by Simulation.Read() (§4.1, §6).
type State struct {
	Tick                int64
	Vertices            []VertexView
	Edges               []EdgeView
	Responders          []ResponderView
	DiscoveredOccupants map[string]OccupantObservation
	FireOriginID        string
}
