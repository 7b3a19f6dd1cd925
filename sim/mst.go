// mst.go builds a per-cluster visiting tour (§4.3): a Prim minimum
// spanning tree over the complete graph of {cluster rooms} ∪ {responder
// start}, weighted by hop distance, walked as a DFS preorder tour that
// visits the start twice (departure and return) in the manner of a
// double-tree TSP approximation.

package sim

// Tour is an ordered visiting sequence of vertex indices, starting and
// ending at the responder's start vertex.
type Tour []int

// BuildTour computes the MST-and-DFS tour for one responder's assigned
// room cluster (§4.3).
func BuildTour(g *Graph, start int, cluster []int) Tour {
	if len(cluster) == 0 {
		return Tour{start}
	}

	nodes := append([]int{start}, cluster...)
	n := len(nodes)
	dist := make([][]int, n)
	for i, a := range nodes {
		dist[i] = bfsHopDistances(g, a)
	}
	weight := func(i, j int) int {
		d := dist[i][nodes[j]]
		if d == -1 {
			return len(g.Vertices) * len(g.Vertices) // unreachable: large but finite
		}
		return d
	}

	_, children := primMST(n, weight)

	order := make(Tour, 0, 2*n)
	visited := make([]bool, n)
	var dfs func(u int)
	dfs = func(u int) {
		visited[u] = true
		order = append(order, nodes[u])
		for _, v := range children[u] {
			if visited[v] {
				continue
			}
			dfs(v)
			order = append(order, nodes[u])
		}
	}
	dfs(0)

	return order
}

// primMST returns, for each node, its parent in the MST (root's parent is
// -1) and the MST adjacency list (each node's children in ascending node
// index order, for a deterministic DFS).
func primMST(n int, weight func(i, j int) int) (parent []int, children [][]int) {
	const inf = 1 << 30
	inTree := make([]bool, n)
	key := make([]int, n)
	parent = make([]int, n)
	for i := range key {
		key[i] = inf
		parent[i] = -1
	}
	key[0] = 0

	for count := 0; count < n; count++ {
		u := -1
		for v := 0; v < n; v++ {
			if !inTree[v] && (u == -1 || key[v] < key[u]) {
				u = v
			}
		}
		if u == -1 {
			break
		}
		inTree[u] = true
		for v := 0; v < n; v++ {
			if inTree[v] || v == u {
				continue
			}
			w := weight(u, v)
			if w < key[v] {
				key[v] = w
				parent[v] = u
			}
		}
	}

	children = make([][]int, n)
	for v, p := range parent {
		if p == -1 {
			continue
		}
		children[p] = append(children[p], v)
	}
	return parent, children
}
