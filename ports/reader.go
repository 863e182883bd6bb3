package ports

import (
	"context"

	"godag/domain/dataset"
)

// DatasetReader loads a tabular dataset from a file path
type DatasetReader interface {
	Read(ctx context.Context, path string) (*dataset.Dataset, error)
}
