package core

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrEmptyCSV is returned when a CSV source has no header row.
var ErrEmptyCSV = errors.New("empty csv: no header row")

// CSVOptions controls CSV serialization.
type CSVOptions struct {
	// Separator defaults to a comma when zero.
	Separator Separator
	Quoting   Quoting
}

// ReadCSV parses delimited text into a Dataset. Every field stays text, the
// first record is the header and no records are skipped. Repeated header names
// get a "_duplicated_<n>" suffix so column names stay unique. Quotes are read
// leniently: a bare '"' inside an unquoted field is kept as text.
func ReadCSV(r io.Reader, sep Separator) (*Dataset, error) {
	if sep == 0 {
		sep = SeparatorComma
	}

	cr := csv.NewReader(NewBOMSkippingReader(r))
	cr.Comma = rune(sep)
	cr.FieldsPerRecord = 0
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyCSV
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	columns := dedupeHeader(header)

	var rows [][]string
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		rows = append(rows, record)
	}

	return NewDataset(columns, rows)
}

func dedupeHeader(header []string) []string {
	columns := make([]string, len(header))
	seen := make(map[string]bool, len(header))
	dupes := 0
	for i, name := range header {
		if seen[name] {
			candidate := name + "_duplicated_" + strconv.Itoa(dupes)
			for seen[candidate] {
				dupes++
				candidate = name + "_duplicated_" + strconv.Itoa(dupes)
			}
			dupes++
			name = candidate
		}
		seen[name] = true
		columns[i] = name
	}
	return columns
}

// WriteCSV writes the header and all rows of ds. Records end with "\n" and
// embedded quotes are doubled. With QuoteNecessary a field is quoted only when
// it contains the separator, a quote, '\r' or '\n'; with QuoteAlways every
// field is quoted.
//
// encoding/csv is not used for writing because it cannot force quoting and it
// quotes fields with leading spaces.
func WriteCSV(w io.Writer, ds *Dataset, opts CSVOptions) error {
	sep := opts.Separator
	if sep == 0 {
		sep = SeparatorComma
	}

	bw := bufio.NewWriter(w)
	cw := csvWriter{w: bw, sep: rune(sep), always: opts.Quoting == QuoteAlways}

	cw.record(ds.Columns())
	for _, row := range ds.Rows() {
		cw.record(row)
	}
	if cw.err != nil {
		return fmt.Errorf("write csv: %w", cw.err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// FormatCSV is WriteCSV into a string.
func FormatCSV(ds *Dataset, opts CSVOptions) (string, error) {
	var b strings.Builder
	if err := WriteCSV(&b, ds, opts); err != nil {
		return "", err
	}
	return b.String(), nil
}

type csvWriter struct {
	w      *bufio.Writer
	sep    rune
	always bool
	err    error
}

func (c *csvWriter) record(fields []string) {
	if c.err != nil {
		return
	}
	for i, field := range fields {
		if i > 0 {
			c.write(string(c.sep))
		}
		if c.always || c.needsQuotes(field) {
			c.write(`"` + strings.ReplaceAll(field, `"`, `""`) + `"`)
		} else {
			c.write(field)
		}
	}
	c.write("\n")
}

func (c *csvWriter) needsQuotes(field string) bool {
	return strings.ContainsRune(field, c.sep) || strings.ContainsAny(field, "\"\r\n")
}

func (c *csvWriter) write(s string) {
	if c.err != nil {
		return
	}
	_, c.err = c.w.WriteString(s)
}
