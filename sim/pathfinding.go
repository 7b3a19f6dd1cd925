// pathfinding.go implements the distance services of §4.2. All services
// observe only currently-existing edges and must be re-run after graph
// changes — none of them cache across calls. The priority queue shape
// (a slice wrapped in container/heap, ordered by a numeric key) mirrors
// the teacher's own EventQueue (sim/simulator.go).

package sim

import "container/heap"

// bfsExists returns the shortest path (by hop count) from src to dst over
// currently-existing edges, as a sequence of vertex indices including both
// endpoints, or nil if no such path exists.
func bfsExists(g *Graph, src, dst int) []int {
	if src == dst {
		return []int{src}
	}
	n := len(g.Vertices)
	visited := make([]bool, n)
	prev := make([]int, n)
	for i := range prev {
		prev[i] = -1
	}
	visited[src] = true
	queue := []int{src}
	for head := 0; head < len(queue); head++ {
		u := queue[head]
		if u == dst {
			break
		}
		for _, eidx := range g.EdgesAt(u) {
			e := g.Edges[eidx]
			if !e.Exists {
				continue
			}
			w := e.Other(u)
			if visited[w] {
				continue
			}
			visited[w] = true
			prev[w] = u
			queue = append(queue, w)
		}
	}
	if !visited[dst] {
		return nil
	}
	var path []int
	for at := dst; at != -1; at = prev[at] {
		path = append([]int{at}, path...)
		if at == src {
			break
		}
	}
	return path
}

// pqItem is one entry in the Dijkstra priority queue.
type pqItem struct {
	vertex int
	dist   float64
}

// distQueue implements heap.Interface ordered by ascending distance,
// mirroring the teacher's EventQueue (sim/simulator.go) shape.
type distQueue []pqItem

func (q distQueue) Len() int            { return len(q) }
func (q distQueue) Less(i, j int) bool  { return q[i].dist < q[j].dist }
func (q distQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *distQueue) Push(x any)         { *q = append(*q, x.(pqItem)) }
func (q *distQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

// dijkstraFrom computes the single-source shortest-path tree from src
// over currently-existing edges, weighted by each edge's UnitLengthM
// (default 1m; vertical staircase edges carry their own configured
// length). dist[src] = 0 per §4.2.
func dijkstraFrom(g *Graph, src int) []float64 {
	n := len(g.Vertices)
	dist := make([]float64, n)
	visited := make([]bool, n)
	for i := range dist {
		dist[i] = posInf
	}
	dist[src] = 0

	pq := &distQueue{{vertex: src, dist: 0}}
	for pq.Len() > 0 {
		item := heap.Pop(pq).(pqItem)
		u := item.vertex
		if visited[u] {
			continue
		}
		visited[u] = true
		for _, eidx := range g.EdgesAt(u) {
			e := g.Edges[eidx]
			if !e.Exists {
				continue
			}
			w := e.Other(u)
			if visited[w] {
				continue
			}
			nd := dist[u] + e.UnitLengthM
			if nd < dist[w] {
				dist[w] = nd
				heap.Push(pq, pqItem{vertex: w, dist: nd})
			}
		}
	}
	return dist
}

const posInf = 1e18

// dijkstraPathFrom is dijkstraFrom plus parent pointers, letting callers
// reconstruct concrete shortest paths (not just distances) for RescueItem
// full_path construction (§4.4).
func dijkstraPathFrom(g *Graph, src int) (dist []float64, prev []int) {
	n := len(g.Vertices)
	dist = make([]float64, n)
	prev = make([]int, n)
	visited := make([]bool, n)
	for i := range dist {
		dist[i] = posInf
		prev[i] = -1
	}
	dist[src] = 0

	pq := &distQueue{{vertex: src, dist: 0}}
	for pq.Len() > 0 {
		item := heap.Pop(pq).(pqItem)
		u := item.vertex
		if visited[u] {
			continue
		}
		visited[u] = true
		for _, eidx := range g.EdgesAt(u) {
			e := g.Edges[eidx]
			if !e.Exists {
				continue
			}
			w := e.Other(u)
			if visited[w] {
				continue
			}
			nd := dist[u] + e.UnitLengthM
			if nd < dist[w] {
				dist[w] = nd
				prev[w] = u
				heap.Push(pq, pqItem{vertex: w, dist: nd})
			}
		}
	}
	return dist, prev
}

// reconstructPath walks prev pointers from dst back to src, returning the
// vertex sequence src..dst, or nil if dst is unreached.
func reconstructPath(prev []int, src, dst int) []int {
	if src == dst {
		return []int{src}
	}
	if prev[dst] == -1 {
		return nil
	}
	var path []int
	for at := dst; at != -1; at = prev[at] {
		path = append([]int{at}, path...)
		if at == src {
			return path
		}
	}
	return nil
}

// allPairsOver runs dijkstraFrom from every vertex in sources and returns
// a memoized map from source index to its distance array, per §4.2.
func allPairsOver(g *Graph, sources []int) map[int][]float64 {
	out := make(map[int][]float64, len(sources))
	for _, s := range sources {
		if _, ok := out[s]; ok {
			continue
		}
		out[s] = dijkstraFrom(g, s)
	}
	return out
}

// findExits returns the indices of all exit-kind vertices.
func findExits(g *Graph) []int {
	return g.ExitIndices()
}

// bfsHopDistances returns, from a single source, the hop-count distance
// to every vertex over currently-existing edges (-1 if unreachable). Used
// by k-medoids partitioning, which explicitly rejects Euclidean distance
// in favor of corridor hop counts (§4.3).
func bfsHopDistances(g *Graph, src int) []int {
	n := len(g.Vertices)
	dist := make([]int, n)
	for i := range dist {
		dist[i] = -1
	}
	dist[src] = 0
	queue := []int{src}
	for head := 0; head < len(queue); head++ {
		u := queue[head]
		for _, eidx := range g.EdgesAt(u) {
			e := g.Edges[eidx]
			if !e.Exists {
				continue
			}
			w := e.Other(u)
			if dist[w] != -1 {
				continue
			}
			dist[w] = dist[u] + 1
			queue = append(queue, w)
		}
	}
	return dist
}

// reachable reports whether dst is reachable from src over existing edges.
func reachable(g *Graph, src, dst int) bool {
	return bfsExists(g, src, dst) != nil
}

// nearestReachableExit returns the index of the exit-kind vertex closest
// to src by BFS hop count, or -1 if none is reachable.
func nearestReachableExit(g *Graph, src int) int {
	dist := bfsHopDistances(g, src)
	best := -1
	bestDist := -1
	for _, eidx := range findExits(g) {
		d := dist[eidx]
		if d == -1 {
			continue
		}
		if best == -1 || d < bestDist {
			best = eidx
			bestDist = d
		}
	}
	return best
}
