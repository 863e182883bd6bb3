package run

import (
	"godag/domain/core"
	"godag/domain/graph"
	"godag/domain/hyper"
)

// Record is the audit manifest of one estimation run: what was estimated,
// with which resolved hyperparameters, and the shape of the result.
type Record struct {
	ID         core.RunID     `json:"id" db:"id"`
	Operation  string         `json:"operation" db:"operation"`
	Family     string         `json:"family" db:"family"`
	Rows       int            `json:"rows" db:"rows"`
	Vars       int            `json:"vars" db:"vars"`
	Hyper      hyper.Bundle   `json:"hyper" db:"-"`
	Lambdas    []float64      `json:"lambdas" db:"-"`
	EdgeCounts []int          `json:"edge_counts" db:"-"`
	RuntimeMs  int64          `json:"runtime_ms" db:"runtime_ms"`
	CreatedAt  core.Timestamp `json:"created_at" db:"created_at"`
}

// NewRecord builds a manifest from a finished estimation
func NewRecord(operation, family string, rows, vars int, bundle hyper.Bundle, path graph.SolutionPath, runtimeMs int64) *Record {
	return &Record{
		ID:         core.RunID(core.NewID()),
		Operation:  operation,
		Family:     family,
		Rows:       rows,
		Vars:       vars,
		Hyper:      bundle,
		Lambdas:    path.Lambdas(),
		EdgeCounts: path.EdgeCounts(),
		RuntimeMs:  runtimeMs,
		CreatedAt:  core.Now(),
	}
}
