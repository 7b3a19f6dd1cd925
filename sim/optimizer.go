// optimizer.go implements the rescue optimizer of §4.4: combinatorial
// RescueItem generation over room subsets and pickup allocations, greedy
// value-density assignment, and the item-generation budget cap of §5/§7.
// Both room-subset enumeration and visit-order enumeration are grounded on
// gonum's stat/combin combinatorics package (Combinations and
// Permutations) rather than hand-rolled n-choose-k or swap recursion.

package sim

import (
	"sort"

	"gonum.org/v1/gonum/stat/combin"
)

// itemGenerationCap is the soft cap on total RescueItems considered before
// falling back to a smaller effective K (§5, §7: OptimizationBudgetExceeded).
const itemGenerationCap = 200000

// OptimizerConfig carries the tunables recognized by the rescue optimizer
// (§6 model-facade config surface, restricted to the optimizer's share).
type OptimizerConfig struct {
	KCapacity           int
	FirePriorityWeight  float64
	UnderCapacityPenalty float64
}

// distanceIndex memoizes weighted shortest-path distances and predecessor
// trees from a set of sources, for building RescueItem.Time and
// RescueItem.FullPath (§4.2, §4.4).
type distanceIndex struct {
	dist map[int][]float64
	prev map[int][]int
}

func buildDistanceIndex(g *Graph, sources []int) *distanceIndex {
	idx := &distanceIndex{dist: make(map[int][]float64, len(sources)), prev: make(map[int][]int, len(sources))}
	for _, s := range sources {
		if _, ok := idx.dist[s]; ok {
			continue
		}
		d, p := dijkstraPathFrom(g, s)
		idx.dist[s] = d
		idx.prev[s] = p
	}
	return idx
}

func (idx *distanceIndex) at(a, b int) float64 {
	d, ok := idx.dist[a]
	if !ok {
		return posInf
	}
	return d[b]
}

func (idx *distanceIndex) path(a, b int) []int {
	p, ok := idx.prev[a]
	if !ok {
		return nil
	}
	return reconstructPath(p, a, b)
}

// GenerateRescueItems enumerates candidate RescueItems over rooms with
// pending incapable occupants, pruning dominated items streamingly, per
// §4.4. roomSet and exits are vertex indices.
func GenerateRescueItems(g *Graph, roomSet, exits []int, cfg OptimizerConfig) []RescueItem {
	incapable := make(map[int]int, len(roomSet))
	priority := make(map[int]float64, len(roomSet))
	var rooms []int
	for _, r := range roomSet {
		v := g.Vertices[r]
		if v.OccupantsIncapable <= 0 {
			continue
		}
		incapable[r] = v.OccupantsIncapable
		priority[r] = v.Priority
		rooms = append(rooms, r)
	}
	sort.Ints(rooms)
	if len(rooms) == 0 || len(exits) == 0 {
		return nil
	}

	sources := append(append([]int(nil), rooms...), exits...)
	idx := buildDistanceIndex(g, sources)

	var fireDistance map[int]float64
	if cfg.FirePriorityWeight > 0 && g.FireOriginIdx >= 0 {
		d, _ := dijkstraPathFrom(g, g.FireOriginIdx)
		fireDistance = make(map[int]float64, len(rooms))
		for _, r := range rooms {
			fireDistance[r] = d[r]
		}
	}

	k := cfg.KCapacity
	if k < 1 {
		k = 1
	}
	if k > len(rooms) {
		k = len(rooms)
	}

	bestSingle := make(map[int]RescueItem, len(rooms))
	var survivors []RescueItem
	generated := 0

	for size := 1; size <= k; size++ {
		if generated >= itemGenerationCap {
			break // OptimizationBudgetExceeded: effective K shrinks to size-1 (§7)
		}
		combos := combin.Combinations(len(rooms), size)
		for _, combo := range combos {
			if generated >= itemGenerationCap {
				break
			}
			subset := make([]int, size)
			for i, ci := range combo {
				subset[i] = rooms[ci]
			}

			allocations := enumerateAllocations(subset, incapable, k)
			for _, v := range allocations {
				if generated >= itemGenerationCap {
					break
				}
				item, ok := bestItemForVector(g, idx, subset, v, exits, priority, fireDistance, cfg)
				generated++
				if !ok {
					continue
				}
				if size == 1 {
					room := subset[0]
					if existing, has := bestSingle[room]; !has || item.Time < existing.Time {
						bestSingle[room] = item
					}
					survivors = append(survivors, item)
					continue
				}
				if dominated(item, subset, bestSingle) {
					continue
				}
				survivors = append(survivors, item)
			}
		}
	}

	return survivors
}

// dominated reports whether item is dominated by the sum of the best
// single-room items over its room set (§4.4 pruning rule).
func dominated(item RescueItem, subset []int, bestSingle map[int]RescueItem) bool {
	var sumSingle float64
	for _, r := range subset {
		best, ok := bestSingle[r]
		if !ok {
			return false // no single-room baseline yet; keep conservatively
		}
		sumSingle += best.Time
	}
	return item.Time >= sumSingle
}

// enumerateAllocations yields every count vector v: subset -> ℕ⁺ with
// v(r) ≤ incapable[r] and ∑ v(r) ≤ K (§4.4).
func enumerateAllocations(subset []int, incapable map[int]int, k int) []map[int]int {
	var out []map[int]int
	v := make(map[int]int, len(subset))
	var rec func(i, remaining int)
	rec = func(i, remaining int) {
		if i == len(subset) {
			if len(v) == len(subset) { // every room in subset got ≥1
				out = append(out, cloneIntMap(v))
			}
			return
		}
		room := subset[i]
		maxHere := incapable[room]
		if maxHere > remaining {
			maxHere = remaining
		}
		for count := 1; count <= maxHere; count++ {
			v[room] = count
			rec(i+1, remaining-count)
		}
		delete(v, room)
	}
	rec(0, k)
	return out
}

func cloneIntMap(m map[int]int) map[int]int {
	out := make(map[int]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// bestItemForVector finds the argmin (π, e_in, e_out) for a fixed (S, v)
// and emits the resulting RescueItem (§4.4).
func bestItemForVector(g *Graph, idx *distanceIndex, subset []int, v map[int]int, exits []int, priority map[int]float64, fireDistance map[int]float64, cfg OptimizerConfig) (RescueItem, bool) {
	var bestTime float64 = -1
	var bestSeq []int
	var bestIn, bestOut int

	for _, p := range combin.Permutations(len(subset), len(subset)) {
		seq := make([]int, len(p))
		for i, si := range p {
			seq[i] = subset[si]
		}
		for _, ein := range exits {
			for _, eout := range exits {
				t := idx.at(ein, seq[0])
				for i := 0; i+1 < len(seq); i++ {
					t += 2 * idx.at(seq[i], seq[i+1])
				}
				t += 2 * idx.at(seq[len(seq)-1], eout)
				if t >= posInf {
					continue
				}
				if bestTime < 0 || t < bestTime {
					bestTime = t
					bestSeq = append([]int(nil), seq...)
					bestIn, bestOut = ein, eout
				}
			}
		}
	}

	if bestTime < 0 {
		return RescueItem{}, false
	}

	fullPath := concretePath(idx, bestIn, bestSeq, bestOut)
	if fullPath == nil {
		return RescueItem{}, false
	}

	value := itemValue(v, priority, fireDistance, cfg, bestTime)

	return RescueItem{
		Vector:        v,
		VisitSequence: bestSeq,
		EntryExit:     bestIn,
		DropExit:      bestOut,
		FullPath:      fullPath,
		Time:          bestTime,
		Value:         value,
	}, true
}

// itemValue computes the §4.4 value-density score.
func itemValue(v map[int]int, priority map[int]float64, fireDistance map[int]float64, cfg OptimizerConfig, time float64) float64 {
	var p int
	var v0 float64
	for room, count := range v {
		p += count
		term := float64(count) * priority[room]
		if fireDistance != nil {
			term *= 1 + cfg.FirePriorityWeight/(1+fireDistance[room])
		}
		v0 += term
	}
	if p < cfg.KCapacity && cfg.UnderCapacityPenalty > 0 {
		factor := 1 - cfg.UnderCapacityPenalty*float64(cfg.KCapacity-p)
		if factor < 0 {
			factor = 0
		}
		v0 *= factor
	}
	if time <= 0 {
		return 0
	}
	return v0 / time
}

// concretePath concatenates the concrete shortest-path segments
// entry -> seq[0] -> ... -> seq[n-1] -> exit into one vertex sequence.
func concretePath(idx *distanceIndex, entry int, seq []int, exit int) []int {
	waypoints := append(append([]int{entry}, seq...), exit)
	var full []int
	for i := 0; i+1 < len(waypoints); i++ {
		seg := idx.path(waypoints[i], waypoints[i+1])
		if seg == nil {
			return nil
		}
		if i > 0 {
			seg = seg[1:] // avoid duplicating the shared joint vertex
		}
		full = append(full, seg...)
	}
	return full
}

// AssignGreedy implements the §4.4 greedy assignment: items are considered
// in descending value order and handed to the responder whose queue grows
// the least, subject to the room vector still fitting within remaining
// supply. remaining is mutated in place. Responders are identified by id,
// iterated in a fixed (caller-supplied) order for determinism.
func AssignGreedy(items []RescueItem, responderIDs []string, remaining map[int]int) map[string][]RescueItem {
	sorted := append([]RescueItem(nil), items...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Value > sorted[j].Value })
	return assignInOrder(sorted, responderIDs, remaining)
}

// assignInOrder is the shared greedy-packing core used by AssignGreedy
// (ordered by value) and AssignLP (ordered by LP solution weight): walk
// the given item order once, handing each fitting item to the responder
// whose queue grows least.
func assignInOrder(sorted []RescueItem, responderIDs []string, remaining map[int]int) map[string][]RescueItem {
	assignment := make(map[string][]RescueItem, len(responderIDs))
	runningTime := make(map[string]float64, len(responderIDs))
	for _, id := range responderIDs {
		assignment[id] = nil
		runningTime[id] = 0
	}

	for _, item := range sorted {
		fits := true
		for room, count := range item.Vector {
			if count > remaining[room] {
				fits = false
				break
			}
		}
		if !fits || len(responderIDs) == 0 {
			continue
		}

		best := responderIDs[0]
		for _, id := range responderIDs[1:] {
			if runningTime[id] < runningTime[best] {
				best = id
			}
		}

		assignment[best] = append(assignment[best], item)
		runningTime[best] += item.Time
		for room, count := range item.Vector {
			remaining[room] -= count
		}
	}

	return assignment
}

