// optimizer_lp.go implements the optional LP relaxation variant of the
// rescue optimizer (§4.4, §9: "expose a trait/interface with two
// implementations (greedy, LP) selected at construction time"). It is used
// for analysis only; greedy is the default.

package sim

import (
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

// ItemAssigner selects how RescueItems are packed against per-room
// incapable-occupant supply. Greedy is the default; LP is optional (§9).
type ItemAssigner interface {
	Assign(items []RescueItem, responderIDs []string, remaining map[int]int) map[string][]RescueItem
}

// GreedyAssigner implements ItemAssigner via AssignGreedy.
type GreedyAssigner struct{}

func (GreedyAssigner) Assign(items []RescueItem, responderIDs []string, remaining map[int]int) map[string][]RescueItem {
	return AssignGreedy(items, responderIDs, remaining)
}

// LPAssigner implements ItemAssigner by solving the LP relaxation
// (maximize Σ x_i·value_i subject to per-room supply and x_i∈[0,1]) and
// rounding greedily in descending solution-weight order (§4.4).
type LPAssigner struct{}

func (LPAssigner) Assign(items []RescueItem, responderIDs []string, remaining map[int]int) map[string][]RescueItem {
	if len(items) == 0 {
		return assignInOrder(nil, responderIDs, remaining)
	}

	weights, ok := solveLPWeights(items, remaining)
	sorted := append([]RescueItem(nil), items...)
	if ok {
		order := make([]int, len(items))
		for i := range order {
			order[i] = i
		}
		sort.SliceStable(order, func(a, b int) bool {
			wi, wj := weights[&items[order[a]]], weights[&items[order[b]]]
			if wi != wj {
				return wi > wj
			}
			return items[order[a]].Value > items[order[b]].Value
		})
		for i, oi := range order {
			sorted[i] = items[oi]
		}
	} else {
		// LP failed to converge (degenerate or infeasible basis); fall
		// back to value ordering rather than failing the tick.
		sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Value > sorted[j].Value })
	}
	return assignInOrder(sorted, responderIDs, remaining)
}

// solveLPWeights builds the standard-form LP described in §4.4 and solves
// it with gonum's simplex solver, returning each item's fractional
// solution weight keyed by its address in the caller's slice.
func solveLPWeights(items []RescueItem, remaining map[int]int) (map[*RescueItem]float64, bool) {
	var rooms []int
	seen := make(map[int]bool)
	for _, it := range items {
		for r := range it.Vector {
			if !seen[r] {
				seen[r] = true
				rooms = append(rooms, r)
			}
		}
	}
	sort.Ints(rooms)
	roomRow := make(map[int]int, len(rooms))
	for i, r := range rooms {
		roomRow[r] = i
	}

	n := len(items)
	m := len(rooms)
	numVars := 2*n + m
	numRows := m + n

	A := mat.NewDense(numRows, numVars, nil)
	b := make([]float64, numRows)
	c := make([]float64, numVars)

	for ri, room := range rooms {
		b[ri] = float64(remaining[room])
		A.Set(ri, n+ri, 1) // room slack
	}
	for i, it := range items {
		c[i] = -it.Value // minimize -value == maximize value
		for room, count := range it.Vector {
			A.Set(roomRow[room], i, A.At(roomRow[room], i)+float64(count))
		}
		boxRow := m + i
		b[boxRow] = 1
		A.Set(boxRow, i, 1)
		A.Set(boxRow, n+m+i, 1) // box slack
	}

	initialBasic := make([]int, numRows)
	for i := 0; i < m; i++ {
		initialBasic[i] = n + i
	}
	for i := 0; i < n; i++ {
		initialBasic[m+i] = n + m + i
	}

	_, x, err := lp.Simplex(c, A, b, 1e-10, initialBasic)
	if err != nil {
		return nil, false
	}

	out := make(map[*RescueItem]float64, n)
	for i := range items {
		out[&items[i]] = x[i]
	}
	return out, true
}
