package extract

import (
	"context"
	"testing"

	"godag/domain/core"
	"godag/domain/dataset"
	"godag/domain/graph"
	"godag/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// sampleMoment computes the biased sample covariance of two columns
func sampleMoment(ds *dataset.Dataset, a, b int) float64 {
	xa, xb := ds.ColumnData(a), ds.ColumnData(b)
	n := float64(len(xa))
	var meanA, meanB float64
	for i := range xa {
		meanA += xa[i]
		meanB += xb[i]
	}
	meanA /= n
	meanB /= n

	sum := 0.0
	for i := range xa {
		sum += (xa[i] - meanA) * (xb[i] - meanB)
	}
	return sum / n
}

func chainPath(data *dataset.Dataset, truth *graph.Graph) graph.SolutionPath {
	empty := graph.New(data.Columns)
	return graph.SolutionPath{
		{Lambda: 1.0, Graph: empty, NEdges: 0},
		{Lambda: 0.5, Graph: truth, NEdges: truth.NumEdges()},
	}
}

func TestExtractCovariance(t *testing.T) {
	data, truth := testkit.LinearChainDataset(200, 5)
	path := chainPath(data, truth)

	matrices, err := NewExtractor().ExtractCovariance(context.Background(), path, data)
	require.NoError(t, err)
	require.Len(t, matrices, 2)

	p := data.NumVars()

	// The empty graph implies a diagonal covariance holding the sample
	// variances.
	diag := matrices[0]
	for i := 0; i < p; i++ {
		for j := 0; j < p; j++ {
			if i == j {
				assert.InDelta(t, sampleMoment(data, i, i), diag.At(i, i), 1e-9)
			} else {
				assert.InDelta(t, 0.0, diag.At(i, j), 1e-12)
			}
		}
	}

	// With the true chain refit by least squares, the implied moment of
	// each child-parent pair reproduces the sample moment exactly.
	chain := matrices[1]
	assert.InDelta(t, sampleMoment(data, 0, 1), chain.At(0, 1), 1e-9)
	assert.InDelta(t, sampleMoment(data, 1, 2), chain.At(1, 2), 1e-9)
	for i := 0; i < p; i++ {
		assert.Greater(t, chain.At(i, i), 0.0)
		for j := 0; j < p; j++ {
			assert.InDelta(t, chain.At(i, j), chain.At(j, i), 1e-9, "covariance must be symmetric")
		}
	}
}

func TestPrecisionInvertsCovariance(t *testing.T) {
	data, truth := testkit.LinearChainDataset(200, 5)
	path := chainPath(data, truth)

	ext := NewExtractor()
	covs, err := ext.ExtractCovariance(context.Background(), path, data)
	require.NoError(t, err)
	precs, err := ext.ExtractPrecision(context.Background(), path, data)
	require.NoError(t, err)

	p := data.NumVars()
	for entry := range path {
		var product mat.Dense
		product.Mul(precs[entry], covs[entry])
		for i := 0; i < p; i++ {
			for j := 0; j < p; j++ {
				want := 0.0
				if i == j {
					want = 1.0
				}
				assert.InDelta(t, want, product.At(i, j), 1e-8,
					"entry %d: K*Sigma differs from identity at (%d, %d)", entry, i, j)
			}
		}
	}
}

func TestExtractPrecisionZeroVariance(t *testing.T) {
	data := &dataset.Dataset{
		Rows: [][]float64{
			{1.0, 3.0},
			{2.0, 3.0},
			{3.0, 3.0},
		},
		Columns: []string{"X1", "X2"},
		Type:    dataset.TypeContinuous,
	}
	path := graph.SolutionPath{{Lambda: 1.0, Graph: graph.New(data.Columns)}}

	_, err := NewExtractor().ExtractPrecision(context.Background(), path, data)
	assert.ErrorIs(t, err, core.ErrSingularMatrix)
}

func TestExtractHonorsContext(t *testing.T) {
	data, truth := testkit.LinearChainDataset(50, 1)
	path := chainPath(data, truth)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewExtractor().ExtractCovariance(ctx, path, data)
	assert.Error(t, err)
}
