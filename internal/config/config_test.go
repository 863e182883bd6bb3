package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("LAMBDA_LENGTH", "")
	t.Setenv("LAMBDA_RATIO", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Empty(t, cfg.Database.URL)
	assert.Equal(t, 20, cfg.Estimator.LambdaLength)
	assert.Equal(t, 0.001, cfg.Estimator.LambdaRatio)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_URL", "postgres://localhost/runs")
	t.Setenv("LAMBDA_LENGTH", "30")
	t.Setenv("LAMBDA_RATIO", "0.01")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "postgres://localhost/runs", cfg.Database.URL)
	assert.Equal(t, 30, cfg.Estimator.LambdaLength)
	assert.Equal(t, 0.01, cfg.Estimator.LambdaRatio)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("LAMBDA_LENGTH", "zero")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("LAMBDA_LENGTH", "20")
	t.Setenv("LAMBDA_RATIO", "1.5")
	_, err = Load()
	assert.Error(t, err)
}
