package ports

import (
	"context"

	"godag/domain/dataset"
	"godag/domain/graph"

	"gonum.org/v1/gonum/mat"
)

// MatrixExtractor turns a fitted solution path back into second-moment
// estimates, one matrix per path entry, keyed to the original data.
type MatrixExtractor interface {
	ExtractCovariance(ctx context.Context, path graph.SolutionPath, data *dataset.Dataset) ([]*mat.Dense, error)
	ExtractPrecision(ctx context.Context, path graph.SolutionPath, data *dataset.Dataset) ([]*mat.Dense, error)
}
