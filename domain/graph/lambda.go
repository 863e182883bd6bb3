package graph

import (
	"fmt"
	"math"

	"godag/domain/core"
	"godag/domain/dataset"

	"gonum.org/v1/gonum/stat"
)

// DefaultLambdaRatio is the ratio between the smallest and largest grid
// value when the caller does not supply one.
const DefaultLambdaRatio = 0.001

// DefaultLambdaLength is the grid length used when unset
const DefaultLambdaLength = 20

// LambdaGrid generates a log-spaced, strictly decreasing regularization
// grid from maxLambda down to maxLambda*ratio.
func LambdaGrid(maxLambda, ratio float64, length int) ([]float64, error) {
	if length <= 0 {
		return nil, core.ErrEmptyLambdaGrid
	}
	if maxLambda <= 0 {
		return nil, fmt.Errorf("%w: max lambda must be positive, got %g", core.ErrEmptyLambdaGrid, maxLambda)
	}
	if ratio <= 0 || ratio >= 1 {
		return nil, fmt.Errorf("lambda ratio must be in (0, 1), got %g", ratio)
	}

	if length == 1 {
		return []float64{maxLambda}, nil
	}

	grid := make([]float64, length)
	step := math.Log(ratio) / float64(length-1)
	for i := range grid {
		grid[i] = maxLambda * math.Exp(float64(i)*step)
	}
	return grid, nil
}

// MaxLambda computes the largest useful regularization value for a dataset:
// the maximum absolute pairwise correlation. At any lambda above it every
// coordinate update thresholds to zero and the estimate is the empty graph.
func MaxLambda(d *dataset.Dataset) float64 {
	p := d.NumVars()
	columns := make([][]float64, p)
	for j := 0; j < p; j++ {
		columns[j] = d.ColumnData(j)
	}

	max := 0.0
	for j := 0; j < p; j++ {
		for k := j + 1; k < p; k++ {
			r := stat.Correlation(columns[j], columns[k], nil)
			if math.IsNaN(r) {
				continue
			}
			if abs := math.Abs(r); abs > max {
				max = abs
			}
		}
	}

	if max == 0 {
		// Degenerate data still gets a usable grid.
		return 1.0
	}
	return max
}
