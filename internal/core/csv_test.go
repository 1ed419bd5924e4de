package core

import (
	"errors"
	"strings"
	"testing"
)

func mustDataset(t *testing.T, columns []string, rows ...[]string) *Dataset {
	t.Helper()
	ds, err := NewDataset(columns, rows)
	if err != nil {
		t.Fatalf("NewDataset() error = %v", err)
	}
	return ds
}

func TestReadCSV_AllText(t *testing.T) {
	input := "id,amount,when,flag\n001,1.50,2024-01-02,true\n2,,x,\n"

	ds, err := ReadCSV(strings.NewReader(input), SeparatorComma)
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}

	wantCols := []string{"id", "amount", "when", "flag"}
	for i, c := range wantCols {
		if ds.Columns()[i] != c {
			t.Errorf("column %d = %q, want %q", i, ds.Columns()[i], c)
		}
	}
	if ds.NumRows() != 2 {
		t.Fatalf("NumRows() = %d, want 2", ds.NumRows())
	}
	// leading zeros and decimals survive untouched
	if got := ds.Rows()[0][0]; got != "001" {
		t.Errorf("id = %q, want %q", got, "001")
	}
	if got := ds.Rows()[0][1]; got != "1.50" {
		t.Errorf("amount = %q, want %q", got, "1.50")
	}
}

func TestReadCSV_Pipe(t *testing.T) {
	ds, err := ReadCSV(strings.NewReader("a|b\n1|2\n"), SeparatorPipe)
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	if ds.NumColumns() != 2 || ds.Rows()[0][1] != "2" {
		t.Errorf("unexpected dataset: %v %v", ds.Columns(), ds.Rows())
	}
}

func TestReadCSV_BOMAndDuplicateHeaders(t *testing.T) {
	input := "\xef\xbb\xbfa,a,b,a\n1,2,3,4\n"

	ds, err := ReadCSV(strings.NewReader(input), SeparatorComma)
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}

	want := []string{"a", "a_duplicated_0", "b", "a_duplicated_1"}
	for i, c := range want {
		if ds.Columns()[i] != c {
			t.Errorf("column %d = %q, want %q", i, ds.Columns()[i], c)
		}
	}
}

func TestReadCSV_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"ragged", "a,b\n1,2,3\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ReadCSV(strings.NewReader(tt.input), SeparatorComma); err == nil {
				t.Error("ReadCSV() expected error")
			}
		})
	}

	if _, err := ReadCSV(strings.NewReader(""), SeparatorComma); !errors.Is(err, ErrEmptyCSV) {
		t.Errorf("empty input error = %v, want ErrEmptyCSV", err)
	}
}

func TestReadCSV_BareQuotes(t *testing.T) {
	ds, err := ReadCSV(strings.NewReader("name,size\ntv,5\" screen\nlamp,12\n"), SeparatorComma)
	if err != nil {
		t.Fatalf("ReadCSV() error = %v", err)
	}
	if got := ds.Rows()[0][1]; got != `5" screen` {
		t.Errorf("row 0 size = %q", got)
	}

	got, err := FormatCSV(ds, CSVOptions{Separator: SeparatorComma, Quoting: QuoteNecessary})
	if err != nil {
		t.Fatalf("FormatCSV() error = %v", err)
	}
	if !strings.Contains(got, "tv,\"5\"\" screen\"\n") {
		t.Errorf("FormatCSV() = %q", got)
	}
}

func TestFormatCSV_QuoteNecessary(t *testing.T) {
	ds := mustDataset(t, []string{"name", "note"},
		[]string{"plain", " leading space"},
		[]string{"a,b", `say "hi"`},
		[]string{"line\nbreak", ""},
	)

	got, err := FormatCSV(ds, CSVOptions{Separator: SeparatorComma, Quoting: QuoteNecessary})
	if err != nil {
		t.Fatalf("FormatCSV() error = %v", err)
	}

	want := "name,note\n" +
		"plain, leading space\n" +
		`"a,b","say ""hi"""` + "\n" +
		"\"line\nbreak\",\n"
	if got != want {
		t.Errorf("FormatCSV() =\n%q\nwant\n%q", got, want)
	}
}

func TestFormatCSV_QuoteAlways(t *testing.T) {
	ds := mustDataset(t, []string{"a", "b"}, []string{"1", "x|y"})

	got, err := FormatCSV(ds, CSVOptions{Separator: SeparatorComma, Quoting: QuoteAlways})
	if err != nil {
		t.Fatalf("FormatCSV() error = %v", err)
	}

	want := "\"a\",\"b\"\n\"1\",\"x|y\"\n"
	if got != want {
		t.Errorf("FormatCSV() = %q, want %q", got, want)
	}
}

func TestFormatCSV_PipeOnlyQuotesPipe(t *testing.T) {
	ds := mustDataset(t, []string{"a", "b"}, []string{"1,5", "x|y"})

	got, err := FormatCSV(ds, CSVOptions{Separator: SeparatorPipe})
	if err != nil {
		t.Fatalf("FormatCSV() error = %v", err)
	}

	want := "a|b\n1,5|\"x|y\"\n"
	if got != want {
		t.Errorf("FormatCSV() = %q, want %q", got, want)
	}
}

func TestCSV_RoundTrip(t *testing.T) {
	input := "a|b\n1|2\n"

	ds, err := ReadCSV(strings.NewReader(input), SeparatorPipe)
	if err != nil {
		t.Fatal(err)
	}
	got, err := FormatCSV(ds, CSVOptions{Separator: SeparatorPipe, Quoting: QuoteNecessary})
	if err != nil {
		t.Fatal(err)
	}
	if got != input {
		t.Errorf("round trip = %q, want %q", got, input)
	}
}
