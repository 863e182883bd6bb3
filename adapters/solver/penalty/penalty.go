// Package penalty implements the univariate thresholding rules shared by
// the coordinate-descent solvers.
package penalty

import "math"

// SoftThreshold is the L1 proximal operator
func SoftThreshold(z, lambda float64) float64 {
	switch {
	case z > lambda:
		return z - lambda
	case z < -lambda:
		return z + lambda
	default:
		return 0
	}
}

// Update solves the single-coordinate penalized least-squares problem
//
//	min_b d/2*b^2 - z*b + pen(|b|; lambda, gamma)
//
// where pen is MCP with concavity gamma when gamma > 1, and the L1 penalty
// when gamma < 0. d is the (positive) curvature of the quadratic part.
func Update(z, lambda, gamma, d float64) float64 {
	if d <= 0 {
		return 0
	}
	if gamma < 0 {
		// L1
		return SoftThreshold(z, lambda) / d
	}

	// MCP: no shrinkage beyond the folding point gamma*lambda*d.
	if math.Abs(z) <= gamma*lambda*d {
		denom := d - 1.0/gamma
		if denom <= 0 {
			// Curvature too small for this concavity; fall back to the
			// unshrunk solution past the threshold.
			if math.Abs(z) > lambda {
				return z / d
			}
			return 0
		}
		return SoftThreshold(z, lambda) / denom
	}
	return z / d
}
