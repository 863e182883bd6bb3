package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// Data integrity errors
	ErrMissingValues = errors.New("dataset contains missing values")
	ErrEmptyDataset  = errors.New("dataset has no rows or columns")
	ErrRaggedMatrix  = errors.New("data matrix rows have inconsistent lengths")

	// Capability errors
	ErrFeatureNotSupported = errors.New("feature not supported")
	ErrUnsupportedFamily   = errors.New("unsupported data family")

	// Constraint errors
	ErrInvalidConstraint   = errors.New("invalid edge constraint")
	ErrCyclicWhitelist     = errors.New("whitelist edges form a cycle")
	ErrInterventionBounds  = errors.New("intervention index out of range")
	ErrDimensionMismatch   = errors.New("matrix dimension mismatch")
	ErrVariableNotFound    = errors.New("variable not found")
	ErrEmptyLambdaGrid     = errors.New("lambda grid is empty")
	ErrUnorderedLambdaGrid = errors.New("lambda grid is not strictly decreasing")

	// Numerical errors
	ErrSingularMatrix = errors.New("matrix is singular")
	ErrNoConvergence  = errors.New("solver did not converge")

	// Persistence errors
	ErrRunNotFound = errors.New("estimation run not found")
)

// Error constructors with context

// NewMissingValuesError reports the exact count of missing entries found
// during the pre-estimation integrity check.
func NewMissingValuesError(count int) error {
	return fmt.Errorf("%w: %d missing entries", ErrMissingValues, count)
}

func NewFeatureNotSupportedError(operation, dataType string) error {
	return fmt.Errorf("%w: %s requires continuous data, got %s", ErrFeatureNotSupported, operation, dataType)
}

func NewUnsupportedFamilyError(family string) error {
	return fmt.Errorf("%w: %q", ErrUnsupportedFamily, family)
}

func NewConstraintError(from, to string, reason string) error {
	return fmt.Errorf("%w: %s -> %s: %s", ErrInvalidConstraint, from, to, reason)
}

func NewInterventionBoundsError(row, index, columns int) error {
	return fmt.Errorf("%w: row %d references column %d of %d", ErrInterventionBounds, row, index, columns)
}

func NewValidationError(field string, reason string) error {
	return fmt.Errorf("validation failed for %s: %s", field, reason)
}

// Error checking helpers

func IsDataIntegrityError(err error) bool {
	return errors.Is(err, ErrMissingValues) ||
		errors.Is(err, ErrEmptyDataset) ||
		errors.Is(err, ErrRaggedMatrix)
}

func IsValidationError(err error) bool {
	return IsDataIntegrityError(err) ||
		errors.Is(err, ErrInvalidConstraint) ||
		errors.Is(err, ErrCyclicWhitelist) ||
		errors.Is(err, ErrInterventionBounds) ||
		errors.Is(err, ErrVariableNotFound)
}

func IsUnsupportedError(err error) bool {
	return errors.Is(err, ErrFeatureNotSupported) ||
		errors.Is(err, ErrUnsupportedFamily)
}
