// Package descent implements the block coordinate-descent core shared by
// the continuous and discrete structure-learning solvers: cycle-guarded
// single-edge orientation weighted by original-scale variances, MCP/L1
// thresholding via the penalty package, and warm starts across successive
// lambda values.
package descent

import (
	"math"
	"sort"

	"godag/adapters/solver/penalty"
	"godag/domain/graph"
)

// WeightFunc returns the penalty multiplier for the edge j -> k given its
// current weight. A nil WeightFunc means every edge is penalized equally.
type WeightFunc func(j, k int, beta float64) float64

// Config parameterizes one path estimation
type Config struct {
	// Columns holds the encoded data, one slice per variable, all of
	// equal length.
	Columns [][]float64

	// Masks flags, per equation, which rows contribute. Nil means all
	// rows for every equation.
	Masks [][]bool

	Gamma    float64 // concavity; negative selects L1
	Tol      float64 // sweep convergence tolerance
	MaxIters int     // sweep budget per lambda

	// MinCurvature floors the Hessian approximation of each coordinate
	// problem. Zero disables the floor.
	MinCurvature float64

	// Variances holds the original-scale variance of each column when the
	// columns were rescaled before descent. Orientation contests weight
	// each direction by the child's variance, which is what identifies the
	// direction of an equal-noise chain: noise accumulates downstream, so
	// the higher-variance variable is the child. Nil weights both
	// directions equally.
	Variances []float64

	Constraints graph.Constraints
	Weights     WeightFunc
}

// State is the warm-started working set of a path estimation
type State struct {
	cfg  Config
	n, p int
	nEff []float64
	beta [][]float64 // beta[j][k]: weight of edge j -> k
	res  [][]float64 // res[k]: residual of the equation for k
}

// New prepares a descent state with all weights at zero
func New(cfg Config) *State {
	p := len(cfg.Columns)
	n := 0
	if p > 0 {
		n = len(cfg.Columns[0])
	}

	st := &State{
		cfg:  cfg,
		n:    n,
		p:    p,
		nEff: make([]float64, p),
		beta: make([][]float64, p),
		res:  make([][]float64, p),
	}

	for j := 0; j < p; j++ {
		st.beta[j] = make([]float64, p)
		st.res[j] = make([]float64, n)
		copy(st.res[j], cfg.Columns[j])

		if cfg.Masks == nil {
			st.nEff[j] = float64(n)
			continue
		}
		count := 0
		for _, ok := range cfg.Masks[j] {
			if ok {
				count++
			}
		}
		st.nEff[j] = float64(count)
	}

	return st
}

type scoredPair struct {
	j, k  int
	score float64
}

// Fit runs coordinate-descent sweeps at one lambda until the largest
// coefficient change falls below the tolerance or the sweep budget runs
// out. Each sweep processes pairs in decreasing order of candidate
// magnitude so the strongest conditional signals claim their edges first
// and weaker marginal ones are left to the cycle guard.
func (st *State) Fit(lambda float64) {
	pairs := make([]scoredPair, 0, st.p*(st.p-1)/2)

	for iter := 0; iter < st.cfg.MaxIters; iter++ {
		pairs = pairs[:0]
		for j := 0; j < st.p; j++ {
			for k := j + 1; k < st.p; k++ {
				score := math.Max(
					math.Abs(st.candidate(j, k, lambda)),
					math.Abs(st.candidate(k, j, lambda)),
				)
				pairs = append(pairs, scoredPair{j: j, k: k, score: score})
			}
		}
		sort.SliceStable(pairs, func(a, b int) bool {
			return pairs[a].score > pairs[b].score
		})

		maxDelta := 0.0
		for _, pair := range pairs {
			if delta := st.updatePair(pair.j, pair.k, lambda); delta > maxDelta {
				maxDelta = delta
			}
		}
		if maxDelta < st.cfg.Tol {
			break
		}
	}
}

// Beta returns the current weight of the edge j -> k
func (st *State) Beta(j, k int) float64 {
	return st.beta[j][k]
}

// Graph materializes the current weights as a graph estimate. Whitelisted
// edges are always present, whatever their fitted weight.
func (st *State) Graph(columns []string) *graph.Graph {
	g := graph.New(columns)
	for j := 0; j < st.p; j++ {
		for k := 0; k < st.p; k++ {
			if st.beta[j][k] != 0 {
				g.AddEdge(j, k, st.beta[j][k])
			} else if st.cfg.Constraints.Whitelisted(j, k) {
				g.AddEdge(j, k, 0)
			}
		}
	}
	return g
}

// updatePair recomputes the weights between an unordered variable pair. At
// most one orientation stays nonzero; the better-scoring direction wins
// unless it would close a cycle through the rest of the graph.
func (st *State) updatePair(j, k int, lambda float64) float64 {
	candJK := st.candidate(j, k, lambda)
	candKJ := st.candidate(k, j, lambda)

	cons := st.cfg.Constraints
	from, to, cand := j, k, candJK
	altFrom, altTo, altCand := k, j, candKJ
	switch {
	case cons.Whitelisted(j, k):
		// keep the forced orientation
	case cons.Whitelisted(k, j):
		from, to, cand = k, j, candKJ
		altFrom, altTo, altCand = j, k, candJK
	case st.orientScore(candKJ, j) > st.orientScore(candJK, k):
		from, to, cand = k, j, candKJ
		altFrom, altTo, altCand = j, k, candJK
	}

	if cand != 0 && st.createsCycle(from, to, j, k) {
		cand = 0
		if altCand != 0 && !st.createsCycle(altFrom, altTo, j, k) {
			from, to, cand = altFrom, altTo, altCand
		}
	}

	d1 := st.setBeta(from, to, cand)
	d2 := st.setBeta(to, from, 0)
	return math.Max(d1, d2)
}

// orientScore values one orientation of a pair: the drop in the
// original-scale least-squares objective from taking the thresholded
// update, which is the candidate's squared magnitude weighted by the
// child's variance. On rescaled columns the raw magnitudes are symmetric
// within a pair; the child-variance weight restores the asymmetry the
// rescaling removed.
func (st *State) orientScore(cand float64, to int) float64 {
	score := cand * cand
	if st.cfg.Variances != nil {
		score *= st.cfg.Variances[to]
	}
	return score
}

// candidate computes the thresholded single-coordinate solution for the
// edge j -> k, holding every other weight fixed.
func (st *State) candidate(j, k int, lambda float64) float64 {
	if st.cfg.Constraints.Blacklisted(j, k) || st.nEff[k] == 0 {
		return 0
	}

	var z, d float64
	xj, rk := st.cfg.Columns[j], st.res[k]
	bjk := st.beta[j][k]
	if st.cfg.Masks == nil {
		for i := 0; i < st.n; i++ {
			z += xj[i] * (rk[i] + bjk*xj[i])
			d += xj[i] * xj[i]
		}
	} else {
		mask := st.cfg.Masks[k]
		for i := 0; i < st.n; i++ {
			if !mask[i] {
				continue
			}
			z += xj[i] * (rk[i] + bjk*xj[i])
			d += xj[i] * xj[i]
		}
	}
	z /= st.nEff[k]
	d /= st.nEff[k]
	if d < st.cfg.MinCurvature {
		d = st.cfg.MinCurvature
	}

	if st.cfg.Constraints.Whitelisted(j, k) {
		// Forced edges are unpenalized.
		lambda = 0
	} else if st.cfg.Weights != nil {
		lambda *= st.cfg.Weights(j, k, bjk)
	}
	return penalty.Update(z, lambda, st.cfg.Gamma, d)
}

// setBeta applies a coefficient change and keeps the residual in sync,
// returning the absolute change.
func (st *State) setBeta(j, k int, value float64) float64 {
	delta := value - st.beta[j][k]
	if delta == 0 {
		return 0
	}
	st.beta[j][k] = value
	xj, rk := st.cfg.Columns[j], st.res[k]
	for i := 0; i < st.n; i++ {
		rk[i] -= delta * xj[i]
	}
	return math.Abs(delta)
}

// createsCycle reports whether adding from -> to closes a directed cycle in
// the current nonzero edge set, ignoring both edges between the pair
// (exclJ, exclK) that this update is about to replace.
func (st *State) createsCycle(from, to, exclJ, exclK int) bool {
	visited := make([]bool, st.p)
	stack := []int{to}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if node == from {
			return true
		}
		if visited[node] {
			continue
		}
		visited[node] = true
		for next := 0; next < st.p; next++ {
			if st.beta[node][next] == 0 {
				continue
			}
			if (node == exclJ && next == exclK) || (node == exclK && next == exclJ) {
				continue
			}
			if !visited[next] {
				stack = append(stack, next)
			}
		}
	}
	return false
}

// Variance computes the biased sample variance of a column
func Variance(values []float64) float64 {
	n := float64(len(values))
	if n == 0 {
		return 0
	}

	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= n

	variance := 0.0
	for _, v := range values {
		variance += (v - mean) * (v - mean)
	}
	return variance / n
}

// Standardize centers and scales a column to unit variance; constant
// columns become all zeros.
func Standardize(values []float64) []float64 {
	n := float64(len(values))
	if n == 0 {
		return values
	}

	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= n

	variance := Variance(values)
	out := make([]float64, len(values))
	if variance == 0 {
		return out
	}
	sd := math.Sqrt(variance)
	for i, v := range values {
		out[i] = (v - mean) / sd
	}
	return out
}

// InterventionMasks builds per-equation row masks from per-row intervened
// column sets: a row where variable k was fixed carries no information
// about k's parents and is masked out of k's equation only.
func InterventionMasks(interventions [][]int, n, p int) [][]bool {
	if len(interventions) == 0 {
		return nil
	}
	masks := make([][]bool, p)
	for k := 0; k < p; k++ {
		mask := make([]bool, n)
		for i := 0; i < n; i++ {
			mask[i] = true
		}
		masks[k] = mask
	}
	for i, ivn := range interventions {
		for _, k := range ivn {
			masks[k][i] = false
		}
	}
	return masks
}
