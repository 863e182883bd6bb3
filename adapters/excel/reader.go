// Package excel loads tabular datasets from .xlsx and .csv files into the
// canonical dataset container.
package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"godag/domain/dataset"

	"github.com/xuri/excelize/v2"
)

// discreteLevelCap is the distinct-value cutoff below which an
// integer-valued file is inferred to be discrete.
const discreteLevelCap = 20

// DataReader handles reading Excel and CSV files
type DataReader struct {
	// TypeOverride forces the dataset type instead of inferring it
	TypeOverride dataset.DataType
}

// NewDataReader creates a reader that infers the dataset type from values
func NewDataReader() *DataReader {
	return &DataReader{}
}

// Read loads the file at path into a dataset. Blank and "NA" cells become
// NaN so the estimation-time integrity gate can count them.
func (r *DataReader) Read(ctx context.Context, path string) (*dataset.Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("data file not found: %s", path)
	}

	var records [][]string
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		records, err = readCSV(path)
	case ".xlsx":
		records, err = readExcel(path)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", filepath.Ext(path))
	}
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("file %s has no data rows", path)
	}

	columns := records[0]
	rows := make([][]float64, 0, len(records)-1)
	for lineNo, record := range records[1:] {
		if len(record) != len(columns) {
			return nil, fmt.Errorf("row %d has %d fields, expected %d", lineNo+2, len(record), len(columns))
		}
		row := make([]float64, len(record))
		for j, cell := range record {
			row[j] = parseCell(cell)
		}
		rows = append(rows, row)
	}

	ds := &dataset.Dataset{
		Rows:    rows,
		Columns: columns,
		Type:    r.TypeOverride,
	}
	if ds.Type == "" {
		ds.Type = inferType(rows, len(columns))
	}
	if ds.Type == dataset.TypeDiscrete {
		ds.Levels = countLevels(rows, len(columns))
	}
	return ds, nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return records, nil
}

func readExcel(path string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("file %s has no sheets", path)
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheets[0], err)
	}
	return records, nil
}

func parseCell(cell string) float64 {
	cell = strings.TrimSpace(cell)
	if cell == "" || strings.EqualFold(cell, "na") || strings.EqualFold(cell, "nan") {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// inferType treats data as discrete when every column is integer-valued
// with a small number of distinct levels.
func inferType(rows [][]float64, p int) dataset.DataType {
	for j := 0; j < p; j++ {
		distinct := make(map[float64]struct{})
		for _, row := range rows {
			v := row[j]
			if math.IsNaN(v) {
				continue
			}
			if v != math.Trunc(v) {
				return dataset.TypeContinuous
			}
			distinct[v] = struct{}{}
		}
		if len(distinct) > discreteLevelCap {
			return dataset.TypeContinuous
		}
	}
	return dataset.TypeDiscrete
}

func countLevels(rows [][]float64, p int) []int {
	levels := make([]int, p)
	for j := 0; j < p; j++ {
		distinct := make(map[float64]struct{})
		for _, row := range rows {
			if !math.IsNaN(row[j]) {
				distinct[row[j]] = struct{}{}
			}
		}
		levels[j] = len(distinct)
	}
	return levels
}
