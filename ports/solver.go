package ports

import (
	"context"

	"godag/domain/dataset"
	"godag/domain/graph"
	"godag/domain/hyper"
)

// SolveRequest carries validated data and fully resolved parameters to a
// solver. Lambdas is strictly decreasing; Data has passed the missing-value
// gate and its interventions are resolved to column indices.
type SolveRequest struct {
	Data        *dataset.Dataset
	Lambdas     []float64
	Constraints graph.Constraints
	Hyper       hyper.Bundle
	Verbose     bool
}

// ContinuousSolver estimates a DAG solution path from Gaussian data
type ContinuousSolver interface {
	EstimatePath(ctx context.Context, req SolveRequest) (graph.SolutionPath, error)
}

// DiscreteSolver estimates a DAG solution path from binomial or multinomial
// data, with interventions embedded in the dataset.
type DiscreteSolver interface {
	EstimatePath(ctx context.Context, req SolveRequest) (graph.SolutionPath, error)
}
