package core

// text.go provides reader wrappers applied to fetched text before CSV parsing:
//
//   - BOMSkippingReader: Removes a UTF-8 BOM (0xEF 0xBB 0xBF) from Windows exports
//   - LimitedReader: Fails with ErrBodyTooLarge instead of silently truncating

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ErrBodyTooLarge is returned when a fetched body exceeds the configured limit.
var ErrBodyTooLarge = errors.New("response body too large")

// BOMSkippingReader wraps an io.Reader and skips the UTF-8 BOM if present.
type BOMSkippingReader struct {
	br      *bufio.Reader
	checked bool
}

// NewBOMSkippingReader creates a new BOM-skipping reader.
func NewBOMSkippingReader(r io.Reader) *BOMSkippingReader {
	return &BOMSkippingReader{br: bufio.NewReader(r)}
}

// Read implements io.Reader. On the first read, it checks for and skips the BOM.
func (r *BOMSkippingReader) Read(p []byte) (int, error) {
	if !r.checked {
		r.checked = true
		head, err := r.br.Peek(len(utf8BOM))
		if err != nil && !errors.Is(err, io.EOF) {
			return 0, err
		}
		if bytes.Equal(head, utf8BOM) {
			if _, err := r.br.Discard(len(utf8BOM)); err != nil {
				return 0, err
			}
		}
	}
	return r.br.Read(p)
}

// LimitedReader reads at most Max bytes from R. Unlike io.LimitReader it
// reports ErrBodyTooLarge when R holds more than Max bytes.
type LimitedReader struct {
	R    io.Reader
	Max  int64
	read int64
}

// Read implements io.Reader.
func (l *LimitedReader) Read(p []byte) (int, error) {
	if l.read > l.Max {
		return 0, fmt.Errorf("%w: limit is %d bytes", ErrBodyTooLarge, l.Max)
	}
	// Allow one byte past the limit so overflow is detectable.
	if remaining := l.Max - l.read + 1; int64(len(p)) > remaining {
		p = p[:remaining]
	}
	n, err := l.R.Read(p)
	l.read += int64(n)
	if l.read > l.Max {
		return n, fmt.Errorf("%w: limit is %d bytes", ErrBodyTooLarge, l.Max)
	}
	return n, err
}
