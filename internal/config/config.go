package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Estimator EstimatorConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port string
}

// DatabaseConfig holds run-store connection settings. URL may be empty, in
// which case run persistence is disabled.
type DatabaseConfig struct {
	URL string
}

// EstimatorConfig holds default estimation settings
type EstimatorConfig struct {
	LambdaLength int
	LambdaRatio  float64
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Database: DatabaseConfig{
			URL: os.Getenv("DATABASE_URL"),
		},
		Estimator: EstimatorConfig{
			LambdaLength: 20,
			LambdaRatio:  0.001,
		},
	}

	if v := os.Getenv("LAMBDA_LENGTH"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid LAMBDA_LENGTH %q", v)
		}
		cfg.Estimator.LambdaLength = n
	}

	if v := os.Getenv("LAMBDA_RATIO"); v != "" {
		r, err := strconv.ParseFloat(v, 64)
		if err != nil || r <= 0 || r >= 1 {
			return nil, fmt.Errorf("invalid LAMBDA_RATIO %q", v)
		}
		cfg.Estimator.LambdaRatio = r
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
