package dataset

import (
	"fmt"
	"math"

	"godag/domain/core"
)

// DataType is the caller-declared type tag of a dataset
type DataType string

const (
	TypeContinuous DataType = "continuous"
	TypeDiscrete   DataType = "discrete"
)

// Family classifies a dataset for solver dispatch. It is a closed enum so
// the dispatcher can switch exhaustively.
type Family int

const (
	FamilyUnknown Family = iota
	FamilyGaussian
	FamilyBinomial
	FamilyMultinomial
)

func (f Family) String() string {
	switch f {
	case FamilyGaussian:
		return "gaussian"
	case FamilyBinomial:
		return "binomial"
	case FamilyMultinomial:
		return "multinomial"
	default:
		return "unknown"
	}
}

// Intervention records which columns were experimentally fixed for one
// sample. A nil or empty intervention means the row is observational.
type Intervention []int

// Dataset is the canonical input to all estimation entry points.
// Rows are samples, columns are variables. Missing entries are NaN.
type Dataset struct {
	Rows    [][]float64 `json:"rows"`
	Columns []string    `json:"columns"`
	Type    DataType    `json:"type"`

	// Levels holds the per-column category count for discrete data.
	// Empty for continuous data; inferred from values when unset.
	Levels []int `json:"levels,omitempty"`

	// Interventions is either empty (fully observational) or has one
	// entry per row.
	Interventions []Intervention `json:"interventions,omitempty"`
}

// NumRows returns the sample count
func (d *Dataset) NumRows() int {
	return len(d.Rows)
}

// NumVars returns the variable (column) count
func (d *Dataset) NumVars() int {
	return len(d.Columns)
}

// ColumnIndex returns the index of a named column
func (d *Dataset) ColumnIndex(name string) (int, bool) {
	for i, col := range d.Columns {
		if col == name {
			return i, true
		}
	}
	return -1, false
}

// ColumnData copies out the values of column j
func (d *Dataset) ColumnData(j int) []float64 {
	values := make([]float64, len(d.Rows))
	for i, row := range d.Rows {
		values[i] = row[j]
	}
	return values
}

// CountMissing counts NaN entries across the whole data matrix
func (d *Dataset) CountMissing() int {
	count := 0
	for _, row := range d.Rows {
		for _, v := range row {
			if math.IsNaN(v) {
				count++
			}
		}
	}
	return count
}

// Validate ensures the dataset is internally consistent
func (d *Dataset) Validate() error {
	if len(d.Rows) == 0 || len(d.Columns) == 0 {
		return core.ErrEmptyDataset
	}

	p := len(d.Columns)
	for i, row := range d.Rows {
		if len(row) != p {
			return fmt.Errorf("%w: row %d has %d columns, expected %d", core.ErrRaggedMatrix, i, len(row), p)
		}
	}

	if len(d.Levels) > 0 && len(d.Levels) != p {
		return core.NewValidationError("levels", "length mismatch with columns")
	}

	if len(d.Interventions) > 0 {
		if len(d.Interventions) != len(d.Rows) {
			return core.NewValidationError("interventions", "length mismatch with rows")
		}
		for i, ivn := range d.Interventions {
			for _, idx := range ivn {
				if idx < 0 || idx >= p {
					return core.NewInterventionBoundsError(i, idx, p)
				}
			}
		}
	}

	return nil
}

// Family classifies the dataset for solver dispatch. Discrete data where
// every variable takes at most two values is binomial; anything with more
// levels is multinomial. Unknown type tags are an explicit error rather
// than a silent fallthrough.
func (d *Dataset) Family() (Family, error) {
	switch d.Type {
	case TypeContinuous:
		return FamilyGaussian, nil
	case TypeDiscrete:
		if d.MaxLevels() <= 2 {
			return FamilyBinomial, nil
		}
		return FamilyMultinomial, nil
	default:
		return FamilyUnknown, core.NewUnsupportedFamilyError(string(d.Type))
	}
}

// MaxLevels returns the largest per-column category count, using declared
// levels when present and counting distinct values otherwise.
func (d *Dataset) MaxLevels() int {
	if len(d.Levels) > 0 {
		max := 0
		for _, l := range d.Levels {
			if l > max {
				max = l
			}
		}
		return max
	}

	max := 0
	for j := range d.Columns {
		seen := make(map[float64]struct{})
		for _, row := range d.Rows {
			if !math.IsNaN(row[j]) {
				seen[row[j]] = struct{}{}
			}
		}
		if len(seen) > max {
			max = len(seen)
		}
	}
	return max
}

// IsObservational reports whether no row carries an intervention
func (d *Dataset) IsObservational() bool {
	for _, ivn := range d.Interventions {
		if len(ivn) > 0 {
			return false
		}
	}
	return true
}
