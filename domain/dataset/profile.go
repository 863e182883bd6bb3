package dataset

import (
	"math"

	"github.com/montanaflynn/stats"
)

// ColumnProfile summarizes one variable for reports and readiness checks
type ColumnProfile struct {
	Name     string  `json:"name"`
	Mean     float64 `json:"mean"`
	Variance float64 `json:"variance"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Distinct int     `json:"distinct"`
	Missing  int     `json:"missing"`
}

// Profile computes per-column summary statistics, ignoring missing entries
func (d *Dataset) Profile() []ColumnProfile {
	profiles := make([]ColumnProfile, d.NumVars())
	for j, name := range d.Columns {
		values := make([]float64, 0, d.NumRows())
		seen := make(map[float64]struct{})
		missing := 0
		for _, row := range d.Rows {
			v := row[j]
			if math.IsNaN(v) {
				missing++
				continue
			}
			values = append(values, v)
			seen[v] = struct{}{}
		}

		profile := ColumnProfile{
			Name:     name,
			Distinct: len(seen),
			Missing:  missing,
		}
		if len(values) > 0 {
			profile.Mean, _ = stats.Mean(values)
			profile.Variance, _ = stats.Variance(values)
			profile.Min, _ = stats.Min(values)
			profile.Max, _ = stats.Max(values)
		}
		profiles[j] = profile
	}
	return profiles
}
