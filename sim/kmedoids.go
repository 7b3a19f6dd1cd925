// kmedoids.go partitions rooms across responder clusters by PAM-style
// k-medoids over BFS hop-count "corridor distance" (§4.3: "not Euclidean —
// corridor distance, since a wall may separate rooms that are close in
// floor-plan coordinates but far by any walkable path"). Medoids are seeded
// at the responders' initial positions rather than chosen at random, so a
// fixed responder roster always yields the same initial partition.

package sim

import "math/rand"

// maxKMedoidsSwaps bounds the PAM swap phase so partitioning terminates in
// bounded time on pathological inputs (§4.3).
const maxKMedoidsSwaps = 20

// Partition assigns every room vertex to the medoid (responder start
// vertex) it is closest to by hop count, then runs bounded PAM swaps to
// improve total within-cluster distance, rebalancing clusters that drift
// too far from an even split. It returns, for each medoid index (aligned
// with seeds), the room vertex indices assigned to it.
func Partition(g *Graph, seeds []int, rng *rand.Rand) [][]int {
	rooms := g.RoomIndices()
	k := len(seeds)
	if k == 0 || len(rooms) == 0 {
		return make([][]int, k)
	}

	hopFrom := make([][]int, k)
	for i, s := range seeds {
		hopFrom[i] = bfsHopDistances(g, s)
	}

	assign := assignToNearest(rooms, hopFrom)
	clusters := buildClusters(k, rooms, assign)
	rebalance(clusters, rooms, hopFrom, k)

	medoids := append([]int(nil), seeds...)
	for swap := 0; swap < maxKMedoidsSwaps; swap++ {
		improved, newMedoids := trySwap(g, clusters, medoids, rooms, rng)
		if !improved {
			break
		}
		medoids = newMedoids
		for i, m := range medoids {
			hopFrom[i] = bfsHopDistances(g, m)
		}
		assign = assignToNearest(rooms, hopFrom)
		clusters = buildClusters(k, rooms, assign)
		rebalance(clusters, rooms, hopFrom, k)
	}

	return clusters
}

// assignToNearest maps each room to the index of its nearest medoid by hop
// count, breaking ties toward the lowest medoid index for determinism.
// Unreachable rooms are assigned to medoid 0.
func assignToNearest(rooms []int, hopFrom [][]int) map[int]int {
	assign := make(map[int]int, len(rooms))
	for _, room := range rooms {
		best := -1
		bestDist := -1
		for mi, hop := range hopFrom {
			d := hop[room]
			if d == -1 {
				continue
			}
			if best == -1 || d < bestDist {
				best = mi
				bestDist = d
			}
		}
		if best == -1 {
			best = 0
		}
		assign[room] = best
	}
	return assign
}

func buildClusters(k int, rooms []int, assign map[int]int) [][]int {
	clusters := make([][]int, k)
	for _, room := range rooms {
		mi := assign[room]
		clusters[mi] = append(clusters[mi], room)
	}
	return clusters
}

// rebalance moves rooms from clusters above the ⌈N/R⌉+1 ceiling to the
// nearest cluster still under it, and tops up clusters below the
// ⌊N/R⌋−1 floor from the nearest cluster with spare rooms, per the §4.3
// balance constraint.
func rebalance(clusters [][]int, rooms []int, hopFrom [][]int, k int) {
	if k == 0 {
		return
	}
	floor := len(rooms) / k
	ceil := floor
	if len(rooms)%k != 0 {
		ceil++
	}
	upper := ceil + 1
	lower := floor - 1
	if lower < 0 {
		lower = 0
	}

	for {
		donor := -1
		for i, c := range clusters {
			if len(c) > upper && (donor == -1 || len(c) > len(clusters[donor])) {
				donor = i
			}
		}
		if donor == -1 {
			break
		}
		room, ri := worstFitRoom(clusters[donor], donor, hopFrom)
		recv := bestReceiver(clusters, upper, room, hopFrom, donor)
		if recv == -1 {
			break
		}
		clusters[donor] = append(clusters[donor][:ri], clusters[donor][ri+1:]...)
		clusters[recv] = append(clusters[recv], room)
	}

	for {
		taker := -1
		for i, c := range clusters {
			if len(c) < lower && (taker == -1 || len(c) < len(clusters[taker])) {
				taker = i
			}
		}
		if taker == -1 {
			return
		}
		donor, room := nearestDonor(clusters, lower, taker, hopFrom)
		if donor == -1 {
			return
		}
		ri := indexOf(clusters[donor], room)
		clusters[donor] = append(clusters[donor][:ri], clusters[donor][ri+1:]...)
		clusters[taker] = append(clusters[taker], room)
	}
}

// nearestDonor finds the closest room (by hop distance to taker's medoid)
// owned by a cluster that can spare one without dropping below lower.
func nearestDonor(clusters [][]int, lower, taker int, hopFrom [][]int) (donorIdx, room int) {
	donorIdx, room = -1, -1
	bestDist := -1
	for ci, c := range clusters {
		if ci == taker || len(c) <= lower {
			continue
		}
		for _, r := range c {
			d := hopFrom[taker][r]
			if d == -1 {
				continue
			}
			if donorIdx == -1 || d < bestDist {
				donorIdx, room, bestDist = ci, r, d
			}
		}
	}
	return donorIdx, room
}

func indexOf(s []int, v int) int {
	for i, x := range s {
		if x == v {
			return i
		}
	}
	return -1
}

// worstFitRoom finds the room in a cluster farthest from its own medoid,
// the best candidate to hand off to a neighboring cluster.
func worstFitRoom(cluster []int, medoidIdx int, hopFrom [][]int) (room, index int) {
	bestDist := -1
	index = 0
	for i, r := range cluster {
		d := hopFrom[medoidIdx][r]
		if d > bestDist {
			bestDist = d
			room = r
			index = i
		}
	}
	return room, index
}

func bestReceiver(clusters [][]int, target, room int, hopFrom [][]int, exclude int) int {
	best := -1
	bestDist := -1
	for mi := range clusters {
		if mi == exclude || len(clusters[mi]) >= target {
			continue
		}
		d := hopFrom[mi][room]
		if d == -1 {
			continue
		}
		if best == -1 || d < bestDist {
			best = mi
			bestDist = d
		}
	}
	return best
}

// trySwap attempts one PAM medoid-swap improvement: for a randomly chosen
// cluster, try replacing its medoid with the room that minimizes total
// within-cluster hop distance. Returns whether a strictly better medoid was
// found and the resulting medoid set.
func trySwap(g *Graph, clusters [][]int, medoids []int, rooms []int, rng *rand.Rand) (bool, []int) {
	order := rng.Perm(len(medoids))
	for _, mi := range order {
		cluster := clusters[mi]
		if len(cluster) == 0 {
			continue
		}
		currentCost := totalHopCost(g, medoids[mi], cluster)
		bestCandidate := medoids[mi]
		bestCost := currentCost
		for _, candidate := range cluster {
			if candidate == medoids[mi] {
				continue
			}
			cost := totalHopCost(g, candidate, cluster)
			if cost < bestCost {
				bestCost = cost
				bestCandidate = candidate
			}
		}
		if bestCandidate != medoids[mi] {
			out := append([]int(nil), medoids...)
			out[mi] = bestCandidate
			return true, out
		}
	}
	return false, medoids
}

func totalHopCost(g *Graph, medoid int, cluster []int) int {
	hop := bfsHopDistances(g, medoid)
	total := 0
	for _, room := range cluster {
		d := hop[room]
		if d == -1 {
			d = len(g.Vertices) // unreachable penalty, keeps cost finite and comparable
		}
		total += d
	}
	return total
}
