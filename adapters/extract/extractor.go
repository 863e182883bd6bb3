// Package extract converts fitted solution paths into covariance and
// precision matrix estimates implied by each DAG on the path.
package extract

import (
	"context"
	"fmt"

	"godag/domain/core"
	"godag/domain/dataset"
	"godag/domain/graph"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/mat"
)

// Extractor implements the matrix extraction contract on gonum
type Extractor struct{}

// NewExtractor creates a matrix extractor
func NewExtractor() *Extractor {
	return &Extractor{}
}

// ExtractCovariance returns the covariance matrix implied by each path
// entry: for the SEM x = B'x + e with noise covariance Omega, the model
// covariance is (I-B')^-1 Omega (I-B')^-T.
func (e *Extractor) ExtractCovariance(ctx context.Context, path graph.SolutionPath, data *dataset.Dataset) ([]*mat.Dense, error) {
	return e.extract(ctx, path, data, false)
}

// ExtractPrecision returns the precision matrix implied by each path entry:
// (I-B) Omega^-1 (I-B)'.
func (e *Extractor) ExtractPrecision(ctx context.Context, path graph.SolutionPath, data *dataset.Dataset) ([]*mat.Dense, error) {
	return e.extract(ctx, path, data, true)
}

func (e *Extractor) extract(ctx context.Context, path graph.SolutionPath, data *dataset.Dataset, precision bool) ([]*mat.Dense, error) {
	centered := centerColumns(data)
	matrices := make([]*mat.Dense, len(path))

	eg, ctx := errgroup.WithContext(ctx)
	for i := range path {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			m, err := entryMatrix(path[i].Graph, centered, precision)
			if err != nil {
				return fmt.Errorf("path entry %d (lambda=%g): %w", i, path[i].Lambda, err)
			}
			matrices[i] = m
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return matrices, nil
}

// entryMatrix refits each node on its parent set by least squares to get
// edge coefficients and residual variances on the original data scale, then
// assembles the implied second-moment matrix.
func entryMatrix(g *graph.Graph, columns [][]float64, precision bool) (*mat.Dense, error) {
	p := len(columns)
	n := len(columns[0])

	b := mat.NewDense(p, p, nil)
	omega := make([]float64, p)

	for k := 0; k < p; k++ {
		parents := g.Parents(k)
		if len(parents) == 0 {
			omega[k] = variance(columns[k])
			continue
		}

		design := mat.NewDense(n, len(parents), nil)
		for c, edge := range parents {
			design.SetCol(c, columns[edge.From])
		}
		y := mat.NewVecDense(n, columns[k])

		var qr mat.QR
		qr.Factorize(design)
		var coef mat.VecDense
		if err := qr.SolveVecTo(&coef, false, y); err != nil {
			return nil, fmt.Errorf("%w: refitting node %s", core.ErrSingularMatrix, g.Nodes[k])
		}

		resid := mat.NewVecDense(n, nil)
		resid.MulVec(design, &coef)
		resid.SubVec(y, resid)
		omega[k] = mat.Dot(resid, resid) / float64(n)

		for c, edge := range parents {
			b.Set(edge.From, k, coef.AtVec(c))
		}
	}

	// A = I - B'
	a := mat.NewDense(p, p, nil)
	for i := 0; i < p; i++ {
		for j := 0; j < p; j++ {
			v := -b.At(j, i)
			if i == j {
				v = 1 + v
			}
			a.Set(i, j, v)
		}
	}

	out := mat.NewDense(p, p, nil)
	if precision {
		// K = A' diag(1/omega) A
		scaled := mat.NewDense(p, p, nil)
		for i := 0; i < p; i++ {
			if omega[i] == 0 {
				return nil, fmt.Errorf("%w: zero residual variance for node %s", core.ErrSingularMatrix, g.Nodes[i])
			}
			for j := 0; j < p; j++ {
				scaled.Set(i, j, a.At(i, j)/omega[i])
			}
		}
		out.Mul(a.T(), scaled)
		return out, nil
	}

	// Sigma = A^-1 diag(omega) A^-T
	var inv mat.Dense
	if err := inv.Inverse(a); err != nil {
		return nil, fmt.Errorf("%w: inverting I-B", core.ErrSingularMatrix)
	}
	scaled := mat.NewDense(p, p, nil)
	for i := 0; i < p; i++ {
		for j := 0; j < p; j++ {
			scaled.Set(i, j, inv.At(i, j)*omega[j])
		}
	}
	out.Mul(scaled, inv.T())
	return out, nil
}

func centerColumns(data *dataset.Dataset) [][]float64 {
	p := data.NumVars()
	columns := make([][]float64, p)
	for j := 0; j < p; j++ {
		col := data.ColumnData(j)
		mean := 0.0
		for _, v := range col {
			mean += v
		}
		mean /= float64(len(col))
		for i := range col {
			col[i] -= mean
		}
		columns[j] = col
	}
	return columns
}

func variance(values []float64) float64 {
	// values are centered
	sum := 0.0
	for _, v := range values {
		sum += v * v
	}
	return sum / float64(len(values))
}
