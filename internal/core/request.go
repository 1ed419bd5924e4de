package core

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidSeparator is returned for separators other than "," and "|".
var ErrInvalidSeparator = errors.New("invalid separator")

// ErrInvalidQuoting is returned for quoting options other than "No" and "Yes".
var ErrInvalidQuoting = errors.New("invalid quoting")

// Separator is the field delimiter used when reading and writing fetched CSV.
type Separator rune

const (
	SeparatorComma Separator = ','
	SeparatorPipe  Separator = '|'
)

// String returns the separator as it appears in the UI dropdown.
func (s Separator) String() string {
	if s == 0 {
		return ","
	}
	return string(rune(s))
}

// Separators lists the valid separators in dropdown order.
func Separators() []Separator { return []Separator{SeparatorComma, SeparatorPipe} }

// ParseSeparator converts a dropdown value to a Separator. Empty means comma.
func ParseSeparator(s string) (Separator, error) {
	switch s {
	case "", ",":
		return SeparatorComma, nil
	case "|":
		return SeparatorPipe, nil
	default:
		return 0, fmt.Errorf("%w: %q (use \",\" or \"|\")", ErrInvalidSeparator, s)
	}
}

// Quoting selects how fields are quoted when writing CSV.
type Quoting int

const (
	// QuoteNecessary quotes only fields containing the separator, a quote or a line break.
	QuoteNecessary Quoting = iota
	// QuoteAlways quotes every field, header included.
	QuoteAlways
)

// String returns the quoting option as it appears in the UI dropdown.
func (q Quoting) String() string {
	if q == QuoteAlways {
		return "Yes"
	}
	return "No"
}

// QuotingOptions lists the valid quoting options in dropdown order.
func QuotingOptions() []Quoting { return []Quoting{QuoteNecessary, QuoteAlways} }

// ParseQuoting converts a dropdown value to a Quoting. Empty means "No".
func ParseQuoting(s string) (Quoting, error) {
	switch s {
	case "", "No":
		return QuoteNecessary, nil
	case "Yes":
		return QuoteAlways, nil
	default:
		return 0, fmt.Errorf("%w: %q (use \"No\" or \"Yes\")", ErrInvalidQuoting, s)
	}
}

// UploadRequest is a single dropped file.
type UploadRequest struct {
	// Contents is the data URL produced by the browser: "<mediatype>;base64,<body>".
	Contents string
	// Filename is the original file name, used for type detection and the download name.
	Filename string
	// LastModified is the file's modification time as reported by the browser.
	LastModified time.Time
}

// FetchRequest is a single click of the Convert button.
type FetchRequest struct {
	// Clicks is the button's click count; zero means the button was never pressed.
	Clicks    int
	URL       string
	Separator Separator
	Quoting   Quoting
}
