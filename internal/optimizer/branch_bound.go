package optimizer

import (
	"context"
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"

	"github.com/fieldside/squadforge/internal/squad"
)

const (
	// integralTol decides when an LP variable counts as 0 or 1.
	integralTol = 1e-6
	// boundTol guards incumbent comparisons against simplex noise.
	boundTol = 1e-9
)

// bbState carries the shared search state for one branch-and-bound run.
type bbState struct {
	pool      []squad.Candidate
	quotas    squad.Quotas
	budget    float64
	squadSize int

	// fixed[i]: -1 free, 0 excluded, 1 selected.
	fixed []int8

	bestSet     []int
	bestQuality float64
	bestCost    float64
	nodes       int
}

// solveExact solves the 0/1 program exactly: one binary variable per
// candidate, maximize total quality, subject to exact per-group quotas
// and the budget. Branch-and-bound over LP relaxations solved with
// lp.Simplex; the search is deterministic (fixed branching order, ties
// resolved toward lower cost then lexicographically smaller ID sets), so
// equal-quality optima resolve reproducibly.
func solveExact(ctx context.Context, pool []squad.Candidate, quotas squad.Quotas, budget float64, squadSize int) ([]squad.Candidate, int, error) {
	s := &bbState{
		pool:      pool,
		quotas:    quotas,
		budget:    budget,
		squadSize: squadSize,
		fixed:     make([]int8, len(pool)),
	}
	for i := range s.fixed {
		s.fixed[i] = -1
	}

	if err := s.branch(ctx); err != nil {
		return nil, s.nodes, err
	}
	if s.bestSet == nil {
		return nil, s.nodes, squad.ErrSolverInfeasible
	}

	selected := make([]squad.Candidate, 0, len(s.bestSet))
	for _, idx := range s.bestSet {
		selected = append(selected, s.pool[idx])
	}
	return selected, s.nodes, nil
}

// branch explores the node defined by the current fixings.
func (s *bbState) branch(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return squad.ErrSolverTimeout
	default:
	}
	s.nodes++

	relax, feasible, err := s.solveRelaxation()
	if err != nil {
		return err
	}
	if !feasible {
		return nil
	}

	// A relaxation bound strictly below the incumbent cannot improve it.
	// Equal bounds stay open so equal-quality, lower-cost sets are found.
	if s.bestSet != nil && relax.bound < s.bestQuality-boundTol {
		return nil
	}

	branchVar := -1
	bestFrac := math.Inf(1)
	for i, v := range relax.values {
		if s.fixed[i] != -1 {
			continue
		}
		if v > integralTol && v < 1-integralTol {
			frac := math.Abs(v - 0.5)
			if frac < bestFrac {
				bestFrac = frac
				branchVar = i
			}
		}
	}

	if branchVar == -1 {
		s.recordIncumbent(relax.values)
		return nil
	}

	// Include-first ordering finds good incumbents early.
	s.fixed[branchVar] = 1
	if err := s.branch(ctx); err != nil {
		s.fixed[branchVar] = -1
		return err
	}
	s.fixed[branchVar] = 0
	if err := s.branch(ctx); err != nil {
		s.fixed[branchVar] = -1
		return err
	}
	s.fixed[branchVar] = -1
	return nil
}

// relaxation is the LP solution at one node.
type relaxation struct {
	bound  float64   // max achievable total quality under the fixings
	values []float64 // per-candidate value, fixed vars included
}

// solveRelaxation builds and solves the node's LP relaxation in standard
// form: per-group quota equalities over the free variables, the budget
// row with one slack, and an upper-bound row x_i + t_i = 1 per free
// variable.
func (s *bbState) solveRelaxation() (relaxation, bool, error) {
	var (
		freeIdx    []int
		fixedCost  float64
		fixedQual  float64
		fixedByGrp = make(map[squad.PositionGroup]int)
	)
	for i, c := range s.pool {
		switch s.fixed[i] {
		case -1:
			freeIdx = append(freeIdx, i)
		case 1:
			fixedCost += c.Cost
			fixedQual += c.Quality
			fixedByGrp[c.Position]++
		}
	}

	if fixedCost > s.budget+boundTol {
		return relaxation{}, false, nil
	}

	m := len(freeIdx)
	if m == 0 {
		// Fully fixed leaf: feasible only if every quota is met exactly.
		for _, group := range squad.PositionGroups {
			if fixedByGrp[group] != s.quotas[group] {
				return relaxation{}, false, nil
			}
		}
		values := make([]float64, len(s.pool))
		for i, f := range s.fixed {
			values[i] = float64(f)
		}
		return relaxation{bound: fixedQual, values: values}, true, nil
	}

	freeByGrp := make(map[squad.PositionGroup][]int) // group -> positions in freeIdx
	for col, idx := range freeIdx {
		g := s.pool[idx].Position
		freeByGrp[g] = append(freeByGrp[g], col)
	}

	// Quick count pruning before building the LP.
	var groupRows int
	for _, group := range squad.PositionGroups {
		rem := s.quotas[group] - fixedByGrp[group]
		members := freeByGrp[group]
		if rem < 0 || rem > len(members) {
			return relaxation{}, false, nil
		}
		if len(members) > 0 {
			groupRows++
		}
	}

	// Columns: x_0..x_{m-1}, budget slack, t_0..t_{m-1}.
	nCols := 2*m + 1
	nRows := groupRows + 1 + m

	a := mat.NewDense(nRows, nCols, nil)
	b := make([]float64, nRows)
	c := make([]float64, nCols)

	for col, idx := range freeIdx {
		c[col] = -s.pool[idx].Quality // Simplex minimizes
	}

	row := 0
	for _, group := range squad.PositionGroups {
		members := freeByGrp[group]
		if len(members) == 0 {
			continue
		}
		for _, col := range members {
			a.Set(row, col, 1)
		}
		b[row] = float64(s.quotas[group] - fixedByGrp[group])
		row++
	}

	for col, idx := range freeIdx {
		a.Set(row, col, s.pool[idx].Cost)
	}
	a.Set(row, m, 1)
	b[row] = s.budget - fixedCost
	row++

	for col := 0; col < m; col++ {
		a.Set(row, col, 1)
		a.Set(row, m+1+col, 1)
		b[row] = 1
		row++
	}

	optF, optX, err := lp.Simplex(c, a, b, 0, nil)
	if err != nil {
		if errors.Is(err, lp.ErrInfeasible) {
			return relaxation{}, false, nil
		}
		return relaxation{}, false, err
	}

	values := make([]float64, len(s.pool))
	for i, f := range s.fixed {
		if f != -1 {
			values[i] = float64(f)
		}
	}
	for col, idx := range freeIdx {
		values[idx] = optX[col]
	}

	return relaxation{bound: fixedQual - optF, values: values}, true, nil
}

// recordIncumbent installs an integral solution if it beats the current
// best: higher quality, or equal quality at lower cost, or equal on both
// with a lexicographically smaller ID set.
func (s *bbState) recordIncumbent(values []float64) {
	var (
		set     []int
		quality float64
		cost    float64
	)
	for i, v := range values {
		if v > 1-integralTol {
			set = append(set, i)
			quality += s.pool[i].Quality
			cost += s.pool[i].Cost
		}
	}

	if len(set) != s.squadSize || cost > s.budget+boundTol {
		return
	}

	switch {
	case s.bestSet == nil:
	case quality > s.bestQuality+boundTol:
	case quality < s.bestQuality-boundTol:
		return
	case cost < s.bestCost-boundTol:
	case cost > s.bestCost+boundTol:
		return
	default:
		if !idsLess(s.idsOf(set), s.idsOf(s.bestSet)) {
			return
		}
	}

	s.bestSet = set
	s.bestQuality = quality
	s.bestCost = cost
}

func (s *bbState) idsOf(set []int) []string {
	ids := make([]string, 0, len(set))
	for _, idx := range set {
		ids = append(ids, s.pool[idx].ID)
	}
	sort.Strings(ids)
	return ids
}

func idsLess(a, b []string) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}
