// Package sim provides the core rescue-planning and execution engine for
// a building-evacuation simulator.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - graph.go: the arena-with-indices building topology
//   - simulation.go: construction, the fog-of-war Read() snapshot, and the
//     atomic Update(actions) tick contract
//   - physics.go: fire spread, smoke diffusion, and casualty rolls
//
// # Architecture
//
// Three coordinators sit above the kernel, wired together by the model
// facade:
//   - sweep.go: partition-and-cover exploration via k-medoids (kmedoids.go)
//     and per-cluster MST/DFS tours (mst.go)
//   - optimizer.go / optimizer_lp.go: candidate rescue-item generation and
//     greedy or LP assignment against incapable-occupant supply
//   - tactical.go: per-responder execution queues and replanning when
//     burned edges invalidate an in-flight plan
//
// model.go ties these together as a two-phase (SWEEP then RESCUE)
// controller; pathfinding.go supplies the BFS/Dijkstra services all three
// coordinators depend on.
package sim
