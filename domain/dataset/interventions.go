package dataset

import "godag/domain/core"

// InterventionSpec is the raw caller-facing form of one row's intervention
// annotation: variables may be given by name or by column index.
type InterventionSpec struct {
	Names   []string `json:"names,omitempty"`
	Indices []int    `json:"indices,omitempty"`
}

// IsEmpty reports whether the spec names no intervened variables
func (s InterventionSpec) IsEmpty() bool {
	return len(s.Names) == 0 && len(s.Indices) == 0
}

// ResolveInterventions maps raw per-row intervention specs onto column
// indices. An entry containing any name that matches no column resolves to
// observational instead of failing; the indices of such degraded rows are
// returned so callers can surface a warning. Explicit numeric indices are
// bounds-checked and fail hard when out of range.
func (d *Dataset) ResolveInterventions(specs []InterventionSpec) ([]Intervention, []int, error) {
	if len(specs) == 0 {
		return nil, nil, nil
	}
	if len(specs) != len(d.Rows) {
		return nil, nil, core.NewValidationError("interventions", "length mismatch with rows")
	}

	resolved := make([]Intervention, len(specs))
	var degraded []int

	for i, spec := range specs {
		if spec.IsEmpty() {
			continue
		}

		indices := make([]int, 0, len(spec.Names)+len(spec.Indices))
		matched := true
		for _, name := range spec.Names {
			idx, ok := d.ColumnIndex(name)
			if !ok {
				matched = false
				break
			}
			indices = append(indices, idx)
		}
		if !matched {
			// Unmatched name: the whole entry degrades to observational.
			degraded = append(degraded, i)
			continue
		}

		for _, idx := range spec.Indices {
			if idx < 0 || idx >= d.NumVars() {
				return nil, nil, core.NewInterventionBoundsError(i, idx, d.NumVars())
			}
			indices = append(indices, idx)
		}

		resolved[i] = indices
	}

	return resolved, degraded, nil
}
