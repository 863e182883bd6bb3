package main

import (
	"fmt"
	"os"

	"godag/adapters/extract"
	"godag/adapters/postgres"
	"godag/adapters/solver/ccd"
	"godag/adapters/solver/discretecd"
	"godag/app"
	"godag/internal/api"
	"godag/internal/config"
	"godag/ports"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	var runs ports.RunRepository
	if cfg.Database.URL != "" {
		db, err := sqlx.Connect("postgres", cfg.Database.URL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer db.Close()
		runs = postgres.NewRunRepository(db)
	}

	service := app.NewEstimationService(ccd.NewSolver(), discretecd.NewSolver(), extract.NewExtractor(), runs)
	server := api.NewServer(service, runs)
	return server.ListenAndServe(":" + cfg.Server.Port)
}
