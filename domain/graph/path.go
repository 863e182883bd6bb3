package graph

import (
	"fmt"

	"godag/domain/core"
)

// PathEntry is one graph estimate on the regularization path
type PathEntry struct {
	Lambda float64 `json:"lambda"`
	Graph  *Graph  `json:"graph"`
	NEdges int     `json:"n_edges"`
}

// SolutionPath is an ordered sequence of graph estimates indexed by
// strictly decreasing lambda (increasing density). It is produced wholesale
// by a solver call and immutable afterward.
type SolutionPath []PathEntry

// Validate enforces the decreasing-lambda ordering invariant
func (p SolutionPath) Validate() error {
	if len(p) == 0 {
		return core.ErrEmptyLambdaGrid
	}
	for i := 1; i < len(p); i++ {
		if p[i].Lambda >= p[i-1].Lambda {
			return fmt.Errorf("%w: entry %d (%g) >= entry %d (%g)",
				core.ErrUnorderedLambdaGrid, i, p[i].Lambda, i-1, p[i-1].Lambda)
		}
	}
	return nil
}

// Lambdas returns the lambda value of each entry
func (p SolutionPath) Lambdas() []float64 {
	lambdas := make([]float64, len(p))
	for i, entry := range p {
		lambdas[i] = entry.Lambda
	}
	return lambdas
}

// EdgeCounts returns the edge count of each entry
func (p SolutionPath) EdgeCounts() []int {
	counts := make([]int, len(p))
	for i, entry := range p {
		counts[i] = entry.NEdges
	}
	return counts
}
