package core

import (
	"errors"
	"fmt"
)

// ErrDuplicateColumn is returned when a dataset is built with a repeated column name.
var ErrDuplicateColumn = errors.New("duplicate column name")

// ErrRaggedRow is returned when a row does not have one cell per column.
var ErrRaggedRow = errors.New("row length does not match column count")

// Dataset is an ordered set of named text columns with equal length.
// Rows are stored row-major; every row has exactly len(Columns()) cells.
type Dataset struct {
	columns []string
	rows    [][]string
}

// NewDataset validates columns and rows and returns a Dataset.
// Column names must be unique. Rows are not copied.
func NewDataset(columns []string, rows [][]string) (*Dataset, error) {
	seen := make(map[string]struct{}, len(columns))
	for _, name := range columns {
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, name)
		}
		seen[name] = struct{}{}
	}

	for i, row := range rows {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrRaggedRow, i+1, len(row), len(columns))
		}
	}

	return &Dataset{columns: columns, rows: rows}, nil
}

// Columns returns the column names in source order.
func (d *Dataset) Columns() []string { return d.columns }

// Rows returns all data rows, excluding the header.
func (d *Dataset) Rows() [][]string { return d.rows }

// NumRows returns the number of data rows.
func (d *Dataset) NumRows() int { return len(d.rows) }

// NumColumns returns the number of columns.
func (d *Dataset) NumColumns() int { return len(d.columns) }

// Records returns at most n rows keyed by column name, for JSON previews.
// n < 0 returns every row.
func (d *Dataset) Records(n int) []map[string]string {
	rows := d.Head(n)
	out := make([]map[string]string, len(rows))
	for i, row := range rows {
		rec := make(map[string]string, len(d.columns))
		for j, name := range d.columns {
			rec[name] = row[j]
		}
		out[i] = rec
	}
	return out
}

// Head returns at most n rows.
func (d *Dataset) Head(n int) [][]string {
	if n < 0 || n >= len(d.rows) {
		return d.rows
	}
	return d.rows[:n]
}
