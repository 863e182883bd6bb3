// Package postgres persists estimation run manifests.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"godag/domain/core"
	"godag/domain/hyper"
	"godag/domain/run"
	"godag/ports"

	"github.com/jmoiron/sqlx"
)

// runRepository implements the RunRepository interface
type runRepository struct {
	db *sqlx.DB
}

// NewRunRepository creates a new run repository
func NewRunRepository(db *sqlx.DB) ports.RunRepository {
	return &runRepository{db: db}
}

// pathDetail is the JSONB payload holding the variable-length parts of a
// run record.
type pathDetail struct {
	Hyper      hyper.Bundle `json:"hyper"`
	Lambdas    []float64    `json:"lambdas"`
	EdgeCounts []int        `json:"edge_counts"`
}

// SaveRun inserts a run manifest
func (r *runRepository) SaveRun(ctx context.Context, record *run.Record) error {
	detail, err := json.Marshal(pathDetail{
		Hyper:      record.Hyper,
		Lambdas:    record.Lambdas,
		EdgeCounts: record.EdgeCounts,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal run detail: %w", err)
	}

	query := `INSERT INTO runs (
		id, operation, family, rows_n, vars_p, runtime_ms, detail, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err = r.db.ExecContext(ctx, query,
		record.ID.String(), record.Operation, record.Family,
		record.Rows, record.Vars, record.RuntimeMs, detail, record.CreatedAt.Time(),
	)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	return nil
}

// GetRun retrieves a run manifest by ID
func (r *runRepository) GetRun(ctx context.Context, id core.RunID) (*run.Record, error) {
	query := `SELECT id, operation, family, rows_n, vars_p, runtime_ms, detail, created_at
		FROM runs WHERE id = $1`

	record, err := scanRun(r.db.QueryRowxContext(ctx, query, id.String()))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", core.ErrRunNotFound, id)
		}
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return record, nil
}

// ListRuns retrieves run manifests newest-first with pagination
func (r *runRepository) ListRuns(ctx context.Context, limit, offset int) ([]*run.Record, error) {
	query := `SELECT id, operation, family, rows_n, vars_p, runtime_ms, detail, created_at
		FROM runs ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.db.QueryxContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var records []*run.Record
	for rows.Next() {
		record, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row rowScanner) (*run.Record, error) {
	var record run.Record
	var id string
	var detail []byte
	var createdAt sql.NullTime

	if err := row.Scan(&id, &record.Operation, &record.Family, &record.Rows, &record.Vars, &record.RuntimeMs, &detail, &createdAt); err != nil {
		return nil, err
	}
	record.ID = core.RunID(id)
	if createdAt.Valid {
		record.CreatedAt = core.NewTimestamp(createdAt.Time)
	}

	var pd pathDetail
	if len(detail) > 0 {
		if err := json.Unmarshal(detail, &pd); err != nil {
			return nil, fmt.Errorf("failed to unmarshal run detail: %w", err)
		}
	}
	record.Hyper = pd.Hyper
	record.Lambdas = pd.Lambdas
	record.EdgeCounts = pd.EdgeCounts
	return &record, nil
}
