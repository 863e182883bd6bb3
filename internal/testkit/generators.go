// Package testkit provides deterministic synthetic datasets for tests and
// examples: known DAGs sampled through their structural equations.
package testkit

import (
	"fmt"
	"math"
	"math/rand/v2"

	"godag/domain/dataset"
	"godag/domain/graph"

	"gonum.org/v1/gonum/stat/distuv"
)

// LinearChainDataset samples n rows from the linear chain X1 -> X2 -> X3
// with edge coefficients 1.5 and noise sd 0.5. The true graph has exactly
// the two chain edges.
func LinearChainDataset(n int, seed uint64) (*dataset.Dataset, *graph.Graph) {
	src := rand.NewPCG(seed, seed)
	noise := distuv.Normal{Mu: 0, Sigma: 0.5, Src: src}
	root := distuv.Normal{Mu: 0, Sigma: 1, Src: src}

	rows := make([][]float64, n)
	for i := range rows {
		x1 := root.Rand()
		x2 := 1.5*x1 + noise.Rand()
		x3 := 1.5*x2 + noise.Rand()
		rows[i] = []float64{x1, x2, x3}
	}

	truth := graph.New([]string{"X1", "X2", "X3"})
	truth.AddEdge(0, 1, 1.5)
	truth.AddEdge(1, 2, 1.5)

	ds := &dataset.Dataset{
		Rows:    rows,
		Columns: []string{"X1", "X2", "X3"},
		Type:    dataset.TypeContinuous,
	}
	return ds, truth
}

// RandomGaussianDataset samples a random sparse Gaussian DAG over p
// variables: each forward edge j -> k (j < k) appears with the given
// probability and coefficient magnitude in [0.8, 1.6].
func RandomGaussianDataset(p, n int, edgeProb float64, seed uint64) (*dataset.Dataset, *graph.Graph) {
	src := rand.NewPCG(seed, seed+1)
	rng := rand.New(src)
	noise := distuv.Normal{Mu: 0, Sigma: 0.5, Src: src}

	columns := make([]string, p)
	truth := graph.New(columns)
	coef := make([][]float64, p)
	for j := 0; j < p; j++ {
		columns[j] = varName(j)
		coef[j] = make([]float64, p)
	}
	truth.Nodes = columns

	for j := 0; j < p; j++ {
		for k := j + 1; k < p; k++ {
			if rng.Float64() < edgeProb {
				w := 0.8 + 0.8*rng.Float64()
				if rng.Float64() < 0.5 {
					w = -w
				}
				coef[j][k] = w
				truth.AddEdge(j, k, w)
			}
		}
	}

	rows := make([][]float64, n)
	for i := range rows {
		row := make([]float64, p)
		for k := 0; k < p; k++ {
			v := noise.Rand()
			for j := 0; j < k; j++ {
				v += coef[j][k] * row[j]
			}
			row[k] = v
		}
		rows[i] = row
	}

	ds := &dataset.Dataset{
		Rows:    rows,
		Columns: columns,
		Type:    dataset.TypeContinuous,
	}
	return ds, truth
}

// BinaryChainDataset samples n rows of three binary variables forming the
// chain X1 -> X2 -> X3, where each child copies its parent with the given
// fidelity.
func BinaryChainDataset(n int, fidelity float64, seed uint64) (*dataset.Dataset, *graph.Graph) {
	rng := rand.New(rand.NewPCG(seed, seed+2))

	flip := func(parent float64) float64 {
		if rng.Float64() < fidelity {
			return parent
		}
		return 1 - parent
	}

	rows := make([][]float64, n)
	for i := range rows {
		x1 := float64(rng.IntN(2))
		x2 := flip(x1)
		x3 := flip(x2)
		rows[i] = []float64{x1, x2, x3}
	}

	truth := graph.New([]string{"X1", "X2", "X3"})
	truth.AddEdge(0, 1, 0)
	truth.AddEdge(1, 2, 0)

	ds := &dataset.Dataset{
		Rows:    rows,
		Columns: []string{"X1", "X2", "X3"},
		Type:    dataset.TypeDiscrete,
		Levels:  []int{2, 2, 2},
	}
	return ds, truth
}

// WithMissing returns a copy of the dataset with the first count entries
// blanked to NaN, for integrity-gate tests.
func WithMissing(ds *dataset.Dataset, count int) *dataset.Dataset {
	out := &dataset.Dataset{
		Columns:       ds.Columns,
		Type:          ds.Type,
		Levels:        ds.Levels,
		Interventions: ds.Interventions,
	}
	out.Rows = make([][]float64, len(ds.Rows))
	for i, row := range ds.Rows {
		out.Rows[i] = append([]float64(nil), row...)
	}

	blanked := 0
	for i := 0; i < len(out.Rows) && blanked < count; i++ {
		for j := 0; j < len(out.Columns) && blanked < count; j++ {
			out.Rows[i][j] = math.NaN()
			blanked++
		}
	}
	return out
}

func varName(j int) string {
	return fmt.Sprintf("X%d", j+1)
}
