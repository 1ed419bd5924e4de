package web

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/JonMunkholm/csvconvert/internal/core"
	"github.com/JonMunkholm/csvconvert/internal/logging"
	"github.com/JonMunkholm/csvconvert/internal/web/templates"
	"github.com/a-h/templ"
)

// maxFetchFormSize bounds the body of fetch requests, which only carry a URL and two options.
const maxFetchFormSize = 64 << 10

// handlePage renders the converter page.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	params := templates.PageParams{
		DefaultSeparator: core.SeparatorComma.String(),
		DefaultQuoting:   core.QuoteNecessary.String(),
	}
	for _, sep := range core.Separators() {
		params.Separators = append(params.Separators, sep.String())
	}
	for _, q := range core.QuotingOptions() {
		params.QuotingOptions = append(params.QuotingOptions, q.String())
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := templates.Page(params).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render page", "error", err)
	}
}

// handleConvertUpload converts a dropped Parquet file and returns the result fragment.
func (s *Server) handleConvertUpload(w http.ResponseWriter, r *http.Request) {
	limit := s.uploadBodyLimit()
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := parseForm(r, limit); err != nil {
		respondFormError(w, r, err)
		return
	}

	req, err := newUploadRequest(r.FormValue("contents"), r.FormValue("filename"), r.FormValue("last_modified"))
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	res, ok := s.runConversion(w, r, func(ctx context.Context) core.Result {
		return s.converter.ConvertUpload(ctx, req)
	})
	if !ok {
		return
	}
	s.renderFragment(w, r, res, templates.UploadResult(res, s.cfg.Preview.MaxRows))
}

// handleConvertAPI fetches a remote CSV and returns the result fragment.
func (s *Server) handleConvertAPI(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFetchFormSize)
	if err := parseForm(r, maxFetchFormSize); err != nil {
		respondFormError(w, r, err)
		return
	}

	req, err := newFetchRequest(r.FormValue("n_clicks"), r.FormValue("url"), r.FormValue("separator"), r.FormValue("quoting"))
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	res, ok := s.runConversion(w, r, func(ctx context.Context) core.Result {
		return s.converter.ConvertFetch(ctx, req)
	})
	if !ok {
		return
	}
	s.renderFragment(w, r, res, templates.FetchResult(res, s.cfg.Preview.MaxRows))
}

// UploadPayload is the JSON body of POST /api/convert/upload.
type UploadPayload struct {
	Contents string `json:"contents"`
	Filename string `json:"filename"`
	// LastModified is seconds since the Unix epoch; fractions are allowed.
	LastModified float64 `json:"last_modified,omitempty"`
}

// FetchPayload is the JSON body of POST /api/convert/fetch.
type FetchPayload struct {
	Clicks    int    `json:"n_clicks"`
	URL       string `json:"url"`
	Separator string `json:"separator,omitempty"`
	Quoting   string `json:"quoting,omitempty"`
}

// ConvertResponse is the JSON result of a conversion.
type ConvertResponse struct {
	Status       string   `json:"status"`
	ConversionID string   `json:"conversion_id"`
	Kind         string   `json:"kind,omitempty"`
	Message      string   `json:"message,omitempty"`
	Filename     string   `json:"filename,omitempty"`
	Columns      []string `json:"columns,omitempty"`
	Rows         int      `json:"rows,omitempty"`
	// Preview holds the first PREVIEW_MAX_ROWS rows keyed by column name.
	Preview []map[string]string `json:"preview,omitempty"`
	CSV     string              `json:"csv,omitempty"`
}

func (s *Server) handleAPIUpload(w http.ResponseWriter, r *http.Request) {
	var p UploadPayload
	if err := decodeJSON(w, r, s.uploadBodyLimit(), &p); err != nil {
		respondFormError(w, r, err)
		return
	}

	req := core.UploadRequest{Contents: p.Contents, Filename: p.Filename, LastModified: unixSeconds(p.LastModified)}
	res, ok := s.runConversion(w, r, func(ctx context.Context) core.Result {
		return s.converter.ConvertUpload(ctx, req)
	})
	if !ok {
		return
	}
	s.writeResult(w, res)
}

func (s *Server) handleAPIFetch(w http.ResponseWriter, r *http.Request) {
	var p FetchPayload
	if err := decodeJSON(w, r, maxFetchFormSize, &p); err != nil {
		respondFormError(w, r, err)
		return
	}

	req, err := newFetchRequest(strconv.Itoa(p.Clicks), p.URL, p.Separator, p.Quoting)
	if err != nil {
		respondError(w, r, err, http.StatusBadRequest)
		return
	}

	res, ok := s.runConversion(w, r, func(ctx context.Context) core.Result {
		return s.converter.ConvertFetch(ctx, req)
	})
	if !ok {
		return
	}
	s.writeResult(w, res)
}

// StatusResponse is the body of GET /api/status.
type StatusResponse struct {
	Status      string             `json:"status"`
	Conversions core.LimiterStatus `json:"conversions"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, StatusResponse{Status: "ok", Conversions: s.limiter.Status()})
}

// runConversion assigns a conversion ID, waits for a limiter slot and runs fn.
// It responds with 503 and returns false when no slot frees up in time.
func (s *Server) runConversion(w http.ResponseWriter, r *http.Request, fn func(context.Context) core.Result) (core.Result, bool) {
	ctx := withConversion(w, r)
	r = r.WithContext(ctx)

	if err := s.limiter.Acquire(ctx); err != nil {
		respondError(w, r, err, http.StatusServiceUnavailable)
		return core.Result{}, false
	}
	defer s.limiter.Release()

	return fn(ctx), true
}

// renderFragment writes c for a finished conversion, or 204 for a NoOp so the
// page script leaves the output untouched.
func (s *Server) renderFragment(w http.ResponseWriter, r *http.Request, res core.Result, c templ.Component) {
	if res.Outcome == core.OutcomeNoOp {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := c.Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render result", "error", err)
	}
}

func (s *Server) writeResult(w http.ResponseWriter, res core.Result) {
	resp := ConvertResponse{
		Status:       res.Outcome.String(),
		ConversionID: w.Header().Get(conversionIDHeader),
		Kind:         res.Kind.String(),
		Message:      res.Message,
	}

	status := http.StatusOK
	switch res.Outcome {
	case core.OutcomeFailure:
		status = http.StatusUnprocessableEntity
	case core.OutcomeSuccess:
		resp.Filename = res.Download.Filename
		resp.CSV = res.Download.Content
		resp.Columns = res.Preview.Dataset.Columns()
		resp.Rows = res.Preview.Dataset.NumRows()
		resp.Preview = res.Preview.Dataset.Records(previewLimit(s.cfg.Preview.MaxRows))
	}
	writeJSONStatus(w, status, resp)
}

// previewLimit maps PREVIEW_MAX_ROWS to a row count, where <= 0 means all rows.
func previewLimit(maxRows int) int {
	if maxRows <= 0 {
		return -1
	}
	return maxRows
}

// uploadBodyLimit allows for base64 growth of the largest accepted file, an
// eighth more for percent-encoded '+' and '/' in url-encoded bodies, and
// room for the other form fields. The decoded size is checked separately.
func (s *Server) uploadBodyLimit() int64 {
	encoded := (s.cfg.Upload.MaxFileSize + 2) / 3 * 4
	return encoded + encoded/8 + 64<<10
}

func newUploadRequest(contents, filename, lastModified string) (core.UploadRequest, error) {
	req := core.UploadRequest{Contents: contents, Filename: filename}
	if lastModified = strings.TrimSpace(lastModified); lastModified != "" {
		secs, err := strconv.ParseFloat(lastModified, 64)
		if err != nil {
			return req, fmt.Errorf("invalid form: last_modified %q", lastModified)
		}
		req.LastModified = unixSeconds(secs)
	}
	return req, nil
}

func newFetchRequest(clicks, rawURL, separator, quoting string) (core.FetchRequest, error) {
	req := core.FetchRequest{URL: rawURL}

	if clicks = strings.TrimSpace(clicks); clicks != "" {
		n, err := strconv.Atoi(clicks)
		if err != nil {
			return req, fmt.Errorf("invalid form: n_clicks %q", clicks)
		}
		req.Clicks = n
	}

	var err error
	if req.Separator, err = core.ParseSeparator(separator); err != nil {
		return req, err
	}
	if req.Quoting, err = core.ParseQuoting(quoting); err != nil {
		return req, err
	}
	return req, nil
}

func unixSeconds(secs float64) time.Time {
	if secs == 0 {
		return time.Time{}
	}
	return time.UnixMilli(int64(secs * 1000)).UTC()
}

// parseForm parses multipart bodies with ParseMultipartForm and everything
// else with ParseForm, returning read errors such as an exceeded body limit.
func parseForm(r *http.Request, maxMemory int64) error {
	if mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type")); err == nil && mediaType == "multipart/form-data" {
		return r.ParseMultipartForm(maxMemory)
	}
	return r.ParseForm()
}

func decodeJSON(w http.ResponseWriter, r *http.Request, limit int64, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, limit)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return err
		}
		return fmt.Errorf("invalid json: %w", err)
	}
	return nil
}

// respondFormError answers 413 for oversized bodies and 400 for everything else.
func respondFormError(w http.ResponseWriter, r *http.Request, err error) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		respondError(w, r, err, http.StatusRequestEntityTooLarge)
		return
	}
	if msg := err.Error(); !strings.HasPrefix(msg, "invalid form") && !strings.HasPrefix(msg, "invalid json") {
		err = fmt.Errorf("invalid form: %w", err)
	}
	respondError(w, r, err, http.StatusBadRequest)
}
