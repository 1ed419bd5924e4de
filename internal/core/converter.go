package core

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/JonMunkholm/csvconvert/internal/logging"
)

// ErrFileTooLarge is returned when a decoded upload exceeds the size limit.
var ErrFileTooLarge = errors.New("file too large")

// Converter runs the upload and fetch pipelines.
// It holds no per-conversion state and is safe for concurrent use.
type Converter struct {
	fetcher     Fetcher
	maxFileSize int64
}

// NewConverter creates a Converter. maxFileSize <= 0 disables the upload size check.
func NewConverter(fetcher Fetcher, maxFileSize int64) *Converter {
	return &Converter{fetcher: fetcher, maxFileSize: maxFileSize}
}

// ConvertUpload turns an uploaded Parquet file into CSV.
//
// Empty contents produce a NoOp. A filename without "parquet" in it is
// rejected before the payload is looked at. Every other problem is logged and
// reported with a generic message.
func (c *Converter) ConvertUpload(ctx context.Context, req UploadRequest) Result {
	if req.Contents == "" {
		return NoOp()
	}

	logger := logging.WithFields(ctx, "pipeline", "upload", "filename", req.Filename)

	if !strings.Contains(req.Filename, "parquet") {
		logger.Info("upload rejected: not a parquet file")
		return Failure(FailureUnsupportedInput, MsgUnsupportedUpload)
	}

	start := time.Now()
	ds, csvText, err := c.convertParquet(req.Contents)
	if err != nil {
		logger.Error("upload conversion failed", "error", err)
		return Failure(FailureProcessing, MsgUploadFailed)
	}

	logger.Info("upload converted",
		"columns", ds.NumColumns(),
		"rows", ds.NumRows(),
		"last_modified", req.LastModified,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return Success(
		&Preview{Heading: req.Filename, Dataset: ds, RawExcerpt: rawExcerpt(req.Contents)},
		&Download{Content: csvText, Filename: req.Filename + ".csv"},
	)
}

func (c *Converter) convertParquet(contents string) (*Dataset, string, error) {
	_, data, err := DecodePayload(contents)
	if err != nil {
		return nil, "", err
	}
	if c.maxFileSize > 0 && int64(len(data)) > c.maxFileSize {
		return nil, "", fmt.Errorf("%w: %d bytes exceeds %d", ErrFileTooLarge, len(data), c.maxFileSize)
	}

	ds, err := ReadParquet(data)
	if err != nil {
		return nil, "", err
	}

	csvText, err := FormatCSV(ds, CSVOptions{Separator: SeparatorComma, Quoting: QuoteNecessary})
	if err != nil {
		return nil, "", err
	}
	return ds, csvText, nil
}

// ConvertFetch downloads a delimited text resource and re-serializes it.
//
// A request that was never clicked or has no URL produces a NoOp. Fetch and
// parse problems are logged and reported with a generic message.
func (c *Converter) ConvertFetch(ctx context.Context, req FetchRequest) Result {
	rawURL := strings.TrimSpace(req.URL)
	if req.Clicks <= 0 || rawURL == "" {
		return NoOp()
	}

	logger := logging.WithFields(ctx,
		"pipeline", "fetch",
		"url", redactURL(rawURL),
		"separator", req.Separator.String(),
		"quoting", req.Quoting.String(),
	)

	start := time.Now()
	ds, csvText, err := c.convertRemote(ctx, rawURL, req.Separator, req.Quoting)
	if err != nil {
		logger.Error("fetch conversion failed", "error", err)
		return Failure(FailureProcessing, MsgFetchFailed)
	}

	logger.Info("fetch converted",
		"columns", ds.NumColumns(),
		"rows", ds.NumRows(),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	return Success(
		&Preview{Dataset: ds},
		&Download{Content: csvText, Filename: FetchDownloadName},
	)
}

func (c *Converter) convertRemote(ctx context.Context, rawURL string, sep Separator, quoting Quoting) (*Dataset, string, error) {
	if c.fetcher == nil {
		return nil, "", errors.New("no fetcher configured")
	}

	data, err := c.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return nil, "", err
	}

	ds, err := ReadCSV(bytes.NewReader(data), sep)
	if err != nil {
		return nil, "", fmt.Errorf("parse %s: %w", redactURL(rawURL), err)
	}

	csvText, err := FormatCSV(ds, CSVOptions{Separator: sep, Quoting: quoting})
	if err != nil {
		return nil, "", err
	}
	return ds, csvText, nil
}

func redactURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return u.Redacted()
}
