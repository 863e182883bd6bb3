package hyper

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func TestResolveAlpha(t *testing.T) {
	assert.Equal(t, DefaultAlpha, ResolveAlpha(nil, 50))

	// threshold/p, exactly, including fractions below 1
	assert.Equal(t, 2.0, ResolveAlpha(intPtr(100), 50))
	assert.Equal(t, 0.5, ResolveAlpha(intPtr(25), 50))
	assert.Equal(t, 7.0/3.0, ResolveAlpha(intPtr(7), 3))
}

func TestDefaultMaxIterations(t *testing.T) {
	assert.Equal(t, 100, DefaultMaxIterations(3))
	assert.Equal(t, 100, DefaultMaxIterations(20))
	assert.Equal(t, 105, DefaultMaxIterations(21))
	assert.Equal(t, 500, DefaultMaxIterations(100))
}

func TestResolveDefaults(t *testing.T) {
	b := Resolve(Request{}, 10)

	assert.Equal(t, DefaultAlpha, b.Alpha)
	assert.Equal(t, 100, b.MaxIters)
	assert.Equal(t, DefaultGamma, b.Gamma)
	assert.Equal(t, DefaultErrorTol, b.ErrorTol)
	assert.Equal(t, DefaultWeightScale, b.WeightScale)
	assert.Equal(t, DefaultConvergenceLB, b.ConvergenceLB)
	assert.Equal(t, DefaultUpperBound, b.UpperBound)
	assert.False(t, b.Adaptive)
}

func TestResolveOverrides(t *testing.T) {
	req := Request{
		EdgeThreshold: intPtr(30),
		MaxIters:      intPtr(17),
		Gamma:         floatPtr(-1.0),
		ErrorTol:      floatPtr(1e-6),
		WeightScale:   floatPtr(2.5),
		ConvergenceLB: floatPtr(0.05),
		UpperBound:    floatPtr(50.0),
		Adaptive:      true,
	}
	b := Resolve(req, 10)

	assert.Equal(t, 3.0, b.Alpha)
	assert.Equal(t, 17, b.MaxIters)
	assert.Equal(t, -1.0, b.Gamma)
	assert.Equal(t, 1e-6, b.ErrorTol)
	assert.Equal(t, 2.5, b.WeightScale)
	assert.Equal(t, 0.05, b.ConvergenceLB)
	assert.Equal(t, 50.0, b.UpperBound)
	assert.True(t, b.Adaptive)
}
