package core

import (
	"errors"
	"testing"
)

func TestNewDataset(t *testing.T) {
	tests := []struct {
		name    string
		columns []string
		rows    [][]string
		wantErr error
	}{
		{
			name:    "valid",
			columns: []string{"id", "name"},
			rows:    [][]string{{"1", "a"}, {"2", "b"}},
		},
		{
			name:    "no rows",
			columns: []string{"id"},
		},
		{
			name:    "duplicate column",
			columns: []string{"id", "id"},
			wantErr: ErrDuplicateColumn,
		},
		{
			name:    "ragged row",
			columns: []string{"id", "name"},
			rows:    [][]string{{"1", "a"}, {"2"}},
			wantErr: ErrRaggedRow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ds, err := NewDataset(tt.columns, tt.rows)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("NewDataset() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("NewDataset() unexpected error: %v", err)
			}
			if ds.NumColumns() != len(tt.columns) || ds.NumRows() != len(tt.rows) {
				t.Errorf("shape = %dx%d, want %dx%d", ds.NumRows(), ds.NumColumns(), len(tt.rows), len(tt.columns))
			}
		})
	}
}

func TestDataset_Records(t *testing.T) {
	ds, err := NewDataset([]string{"id", "name"}, [][]string{{"1", "ann"}, {"2", "bob"}, {"3", "cy"}})
	if err != nil {
		t.Fatal(err)
	}

	recs := ds.Records(-1)
	if len(recs) != 3 || recs[1]["id"] != "2" || recs[1]["name"] != "bob" {
		t.Errorf("Records(-1) = %v", recs)
	}
	if recs := ds.Records(2); len(recs) != 2 || recs[0]["name"] != "ann" {
		t.Errorf("Records(2) = %v", recs)
	}
	if recs := ds.Records(0); len(recs) != 0 {
		t.Errorf("Records(0) = %v, want none", recs)
	}
}

func TestDataset_Head(t *testing.T) {
	ds, _ := NewDataset([]string{"n"}, [][]string{{"1"}, {"2"}, {"3"}})

	if got := len(ds.Head(2)); got != 2 {
		t.Errorf("Head(2) len = %d, want 2", got)
	}
	if got := len(ds.Head(10)); got != 3 {
		t.Errorf("Head(10) len = %d, want 3", got)
	}
	if got := len(ds.Head(-1)); got != 3 {
		t.Errorf("Head(-1) len = %d, want 3", got)
	}
}
