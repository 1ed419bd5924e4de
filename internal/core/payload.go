package core

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrMalformedPayload is returned when an upload is not "<mediatype>;base64,<body>".
var ErrMalformedPayload = errors.New("malformed upload payload")

// rawExcerptLen is how many characters of the encoded upload the preview shows.
const rawExcerptLen = 200

// DecodePayload splits a browser data URL into its declared content type and
// decoded body. The body may omit padding and may contain whitespace.
func DecodePayload(contents string) (contentType string, body []byte, err error) {
	contentType, encoded, ok := strings.Cut(contents, ",")
	if !ok {
		return "", nil, fmt.Errorf("%w: missing ',' separator", ErrMalformedPayload)
	}
	if strings.Contains(encoded, ",") {
		return "", nil, fmt.Errorf("%w: more than one ',' separator", ErrMalformedPayload)
	}

	encoded = strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\r', '\n':
			return -1
		}
		return r
	}, encoded)

	enc := base64.StdEncoding
	if !strings.HasSuffix(encoded, "=") && len(encoded)%4 != 0 {
		enc = base64.RawStdEncoding
	}
	body, err = enc.DecodeString(encoded)
	if err != nil {
		return contentType, nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	return strings.TrimPrefix(contentType, "data:"), body, nil
}

// rawExcerpt returns the first 200 characters of contents followed by "...".
func rawExcerpt(contents string) string {
	if utf8.RuneCountInString(contents) <= rawExcerptLen {
		return contents + "..."
	}
	n := 0
	for i := range contents {
		if n == rawExcerptLen {
			return contents[:i] + "..."
		}
		n++
	}
	return contents + "..."
}
