package core

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/segmentio/parquet-go"
	"github.com/segmentio/parquet-go/format"
)

// ErrUnsupportedSchema is returned for Parquet files with nested or repeated columns.
var ErrUnsupportedSchema = errors.New("unsupported parquet schema")

// parquetReadBatch is how many rows are pulled from a row group at a time.
const parquetReadBatch = 256

type valueFormatter func(parquet.Value) string

// ReadParquet parses an in-memory Parquet file into a Dataset, rendering every
// value as text. Only flat schemas are supported: each top-level field must be
// a non-repeated leaf. Nulls become empty strings.
func ReadParquet(data []byte) (ds *Dataset, err error) {
	// The parquet library can panic on corrupt metadata.
	defer func() {
		if r := recover(); r != nil {
			ds, err = nil, fmt.Errorf("read parquet: corrupt file: %v", r)
		}
	}()

	f, err := parquet.OpenFile(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open parquet: %w", err)
	}

	fields := f.Schema().Fields()
	columns := make([]string, len(fields))
	formatters := make([]valueFormatter, len(fields))
	for i, field := range fields {
		if !field.Leaf() || field.Repeated() {
			return nil, fmt.Errorf("%w: column %q is nested or repeated", ErrUnsupportedSchema, field.Name())
		}
		columns[i] = field.Name()
		formatters[i] = formatterFor(field.Type())
	}

	rows := make([][]string, 0, f.NumRows())
	buf := make([]parquet.Row, parquetReadBatch)
	for i, rg := range f.RowGroups() {
		rows, err = readRowGroup(rg, formatters, buf, rows)
		if err != nil {
			return nil, fmt.Errorf("read row group %d: %w", i, err)
		}
	}

	return NewDataset(columns, rows)
}

func readRowGroup(rg parquet.RowGroup, formatters []valueFormatter, buf []parquet.Row, out [][]string) ([][]string, error) {
	rs := rg.Rows()
	defer rs.Close()

	width := len(formatters)
	for {
		n, err := rs.ReadRows(buf)
		for _, row := range buf[:n] {
			cells := make([]string, width)
			for _, v := range row {
				c := v.Column()
				if c < 0 || c >= width {
					return out, fmt.Errorf("value for unknown column index %d", c)
				}
				cells[c] = formatters[c](v)
			}
			out = append(out, cells)
		}

		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		if n == 0 {
			return out, nil
		}
	}
}

// formatterFor picks a text renderer from the column's logical type.
func formatterFor(t parquet.Type) valueFormatter {
	lt := t.LogicalType()
	switch {
	case lt != nil && lt.Date != nil:
		return formatDate
	case lt != nil && lt.Timestamp != nil:
		return timestampFormatter(lt.Timestamp.Unit)
	case lt != nil && lt.Time != nil:
		return timeFormatter(lt.Time.Unit)
	case lt != nil && lt.Decimal != nil:
		return decimalFormatter(lt.Decimal.Scale)
	case lt != nil && lt.Integer != nil && !lt.Integer.IsSigned:
		return formatUnsigned
	case t.Kind() == parquet.Int96:
		return formatInt96
	default:
		return formatValue
	}
}

func formatValue(v parquet.Value) string {
	if v.IsNull() {
		return ""
	}

	switch v.Kind() {
	case parquet.Boolean:
		return strconv.FormatBool(v.Boolean())
	case parquet.Int32:
		return strconv.FormatInt(int64(v.Int32()), 10)
	case parquet.Int64:
		return strconv.FormatInt(v.Int64(), 10)
	case parquet.Int96:
		return formatInt96(v)
	case parquet.Float:
		return formatFloat(float64(v.Float()), 32)
	case parquet.Double:
		return formatFloat(v.Double(), 64)
	default:
		return string(v.ByteArray())
	}
}

func formatUnsigned(v parquet.Value) string {
	if v.IsNull() {
		return ""
	}
	if v.Kind() == parquet.Int32 {
		return strconv.FormatUint(uint64(v.Uint32()), 10)
	}
	return strconv.FormatUint(v.Uint64(), 10)
}

// Float magnitudes outside [1e-6, 1e16) are written in exponent form.
const (
	floatExpBelow = 1e-6
	floatExpAbove = 1e16
)

// formatFloat writes the shortest representation. Whole numbers get a trailing
// ".0" so they stay distinguishable from integer columns; very large or small
// magnitudes use exponent form such as "1e21" or "2.5e-10".
func formatFloat(f float64, bits int) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}

	if abs := math.Abs(f); abs != 0 && (abs < floatExpBelow || abs >= floatExpAbove) {
		mantissa, exp, _ := strings.Cut(strconv.FormatFloat(f, 'e', -1, bits), "e")
		neg := strings.HasPrefix(exp, "-")
		exp = strings.TrimLeft(exp, "+-0")
		if neg {
			exp = "-" + exp
		}
		return mantissa + "e" + exp
	}

	s := strconv.FormatFloat(f, 'f', -1, bits)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}

// decimalFormatter renders the unscaled integer with scale fractional digits.
// INT32 and INT64 hold the unscaled value directly; byte arrays hold it as
// big-endian two's complement.
func decimalFormatter(scale int32) valueFormatter {
	return func(v parquet.Value) string {
		if v.IsNull() {
			return ""
		}

		var unscaled *big.Int
		switch v.Kind() {
		case parquet.Int32:
			unscaled = big.NewInt(int64(v.Int32()))
		case parquet.Int64:
			unscaled = big.NewInt(v.Int64())
		default:
			unscaled = twosComplement(v.ByteArray())
		}
		return formatDecimal(unscaled, int(scale))
	}
}

func twosComplement(b []byte) *big.Int {
	n := new(big.Int).SetBytes(b)
	if len(b) > 0 && b[0]&0x80 != 0 {
		n.Sub(n, new(big.Int).Lsh(big.NewInt(1), uint(len(b)*8)))
	}
	return n
}

func formatDecimal(unscaled *big.Int, scale int) string {
	digits := new(big.Int).Abs(unscaled).String()
	sign := ""
	if unscaled.Sign() < 0 {
		sign = "-"
	}
	if scale <= 0 {
		return sign + digits + strings.Repeat("0", -scale)
	}
	if len(digits) <= scale {
		digits = strings.Repeat("0", scale-len(digits)+1) + digits
	}
	point := len(digits) - scale
	return sign + digits[:point] + "." + digits[point:]
}

// julianUnixEpoch is the Julian day number of 1970-01-01.
const julianUnixEpoch = 2440588

// formatInt96 renders a legacy INT96 timestamp: nanoseconds of the day in
// the low 64 bits, Julian day in the high 32.
func formatInt96(v parquet.Value) string {
	if v.IsNull() {
		return ""
	}
	i96 := v.Int96()
	nanos := int64(uint64(i96[1])<<32 | uint64(i96[0]))
	days := int64(i96[2]) - julianUnixEpoch
	return time.Unix(days*86400, 0).Add(time.Duration(nanos)).UTC().Format("2006-01-02T15:04:05.000000000")
}

func formatDate(v parquet.Value) string {
	if v.IsNull() {
		return ""
	}
	days := int64(v.Int32())
	return time.Unix(days*86400, 0).UTC().Format("2006-01-02")
}

func timestampFormatter(unit format.TimeUnit) valueFormatter {
	layout := "2006-01-02T15:04:05.000000"
	scale := time.Microsecond
	switch {
	case unit.Millis != nil:
		layout = "2006-01-02T15:04:05.000"
		scale = time.Millisecond
	case unit.Nanos != nil:
		layout = "2006-01-02T15:04:05.000000000"
		scale = time.Nanosecond
	}

	return func(v parquet.Value) string {
		if v.IsNull() {
			return ""
		}
		ts := v.Int64()
		perSec := int64(time.Second / scale)
		return time.Unix(ts/perSec, (ts%perSec)*int64(scale)).UTC().Format(layout)
	}
}

// timeFormatter renders a TIME value as a time of day with a fraction sized to its unit.
func timeFormatter(unit format.TimeUnit) valueFormatter {
	layout := "15:04:05.000000"
	scale := time.Microsecond
	switch {
	case unit.Millis != nil:
		layout = "15:04:05.000"
		scale = time.Millisecond
	case unit.Nanos != nil:
		layout = "15:04:05.000000000"
		scale = time.Nanosecond
	}

	return func(v parquet.Value) string {
		if v.IsNull() {
			return ""
		}
		var n int64
		if v.Kind() == parquet.Int32 {
			n = int64(v.Int32())
		} else {
			n = v.Int64()
		}
		return time.Unix(0, 0).UTC().Add(time.Duration(n) * scale).Format(layout)
	}
}
