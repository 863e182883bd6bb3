package ports

import (
	"context"

	"godag/domain/core"
	"godag/domain/run"
)

// RunRepository persists estimation run manifests
type RunRepository interface {
	SaveRun(ctx context.Context, record *run.Record) error
	GetRun(ctx context.Context, id core.RunID) (*run.Record, error)
	ListRuns(ctx context.Context, limit, offset int) ([]*run.Record, error)
}
