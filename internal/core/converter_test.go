package core

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"
)

type stubFetcher struct {
	body   string
	err    error
	calls  int
	gotURL string
}

func (s *stubFetcher) Fetch(_ context.Context, rawURL string) ([]byte, error) {
	s.calls++
	s.gotURL = rawURL
	if s.err != nil {
		return nil, s.err
	}
	return []byte(s.body), nil
}

func dataURL(b []byte) string {
	return "data:application/octet-stream;base64," + base64.StdEncoding.EncodeToString(b)
}

func TestConvertUpload_Sample(t *testing.T) {
	c := NewConverter(nil, 0)
	contents := dataURL(sampleParquet(t))

	res := c.ConvertUpload(context.Background(), UploadRequest{
		Contents:     contents,
		Filename:     "sample.parquet",
		LastModified: time.Unix(1700000000, 0),
	})

	if res.Outcome != OutcomeSuccess {
		t.Fatalf("Outcome = %v (%s), want success", res.Outcome, res.Message)
	}
	if res.Download.Filename != "sample.parquet.csv" {
		t.Errorf("Download.Filename = %q, want %q", res.Download.Filename, "sample.parquet.csv")
	}
	if !strings.HasPrefix(res.Download.Content, "id,name\n") {
		t.Errorf("Download.Content starts with %q", res.Download.Content[:min(len(res.Download.Content), 20)])
	}
	if got := strings.Join(res.Preview.Dataset.Columns(), ","); got != "id,name" {
		t.Errorf("preview header = %q", got)
	}
	if res.Preview.Dataset.NumRows() != 3 {
		t.Errorf("preview rows = %d, want 3", res.Preview.Dataset.NumRows())
	}
	if res.Preview.Heading != "sample.parquet" {
		t.Errorf("Preview.Heading = %q", res.Preview.Heading)
	}
	if want := contents[:200] + "..."; res.Preview.RawExcerpt != want {
		t.Errorf("RawExcerpt = %q, want %q", res.Preview.RawExcerpt, want)
	}
	if res.Download.Content != "id,name\n1,ann\n2,bob\n3,\"cy, jr\"\n" {
		t.Errorf("Download.Content = %q", res.Download.Content)
	}
}

func TestConvertUpload_NotParquet(t *testing.T) {
	c := NewConverter(nil, 0)
	valid := dataURL(sampleParquet(t))

	for _, name := range []string{"notes.txt", "data.csv", "report.txt", "sample.PARQUET"} {
		for _, contents := range []string{valid, "data:x;base64,not-base64!!", "garbage-without-comma"} {
			res := c.ConvertUpload(context.Background(), UploadRequest{Contents: contents, Filename: name})
			if res.Outcome != OutcomeFailure || res.Kind != FailureUnsupportedInput {
				t.Fatalf("%s: Outcome = %v/%v, want failure/unsupported_input", name, res.Outcome, res.Kind)
			}
			if res.Message != MsgUnsupportedUpload {
				t.Errorf("%s: Message = %q", name, res.Message)
			}
			if res.Download != nil {
				t.Errorf("%s: Download should be nil", name)
			}
		}
	}
}

func TestConvertUpload_Malformed(t *testing.T) {
	c := NewConverter(nil, 0)

	payloads := []string{
		dataURL([]byte("not parquet at all")),
		dataURL(nil),
		dataURL(sampleParquet(t)[:40]),
		"data:application/octet-stream;base64,@@@@",
		"no comma here",
	}

	for i, contents := range payloads {
		res := c.ConvertUpload(context.Background(), UploadRequest{Contents: contents, Filename: "broken.parquet"})
		if res.Outcome != OutcomeFailure || res.Kind != FailureProcessing {
			t.Errorf("payload %d: Outcome = %v/%v, want failure/processing_failure", i, res.Outcome, res.Kind)
		}
		if res.Message != MsgUploadFailed {
			t.Errorf("payload %d: Message = %q", i, res.Message)
		}
		if res.Download != nil || res.Preview != nil {
			t.Errorf("payload %d: failure must not carry preview or download", i)
		}
	}
}

func TestConvertUpload_FileTooLarge(t *testing.T) {
	c := NewConverter(nil, 10)

	res := c.ConvertUpload(context.Background(), UploadRequest{
		Contents: dataURL(sampleParquet(t)),
		Filename: "sample.parquet",
	})
	if res.Outcome != OutcomeFailure || res.Kind != FailureProcessing {
		t.Fatalf("Outcome = %v/%v, want failure/processing_failure", res.Outcome, res.Kind)
	}
}

func TestConvertUpload_EmptyIsNoOp(t *testing.T) {
	c := NewConverter(nil, 0)

	res := c.ConvertUpload(context.Background(), UploadRequest{Filename: "sample.parquet"})
	if res.Outcome != OutcomeNoOp {
		t.Errorf("Outcome = %v, want noop", res.Outcome)
	}
}

func TestConvertFetch_Pipe(t *testing.T) {
	f := &stubFetcher{body: "a|b\n1|2\n"}
	c := NewConverter(f, 0)

	res := c.ConvertFetch(context.Background(), FetchRequest{
		Clicks:    1,
		URL:       "https://example.com/data.csv",
		Separator: SeparatorPipe,
		Quoting:   QuoteNecessary,
	})

	if res.Outcome != OutcomeSuccess {
		t.Fatalf("Outcome = %v (%s), want success", res.Outcome, res.Message)
	}
	if res.Download.Filename != "api-data.csv" {
		t.Errorf("Download.Filename = %q", res.Download.Filename)
	}
	if res.Download.Content != "a|b\n1|2\n" {
		t.Errorf("Download.Content = %q, want %q", res.Download.Content, "a|b\n1|2\n")
	}
	if res.Preview.RawExcerpt != "" || res.Preview.Heading != "" {
		t.Errorf("fetch preview should not carry heading or excerpt: %+v", res.Preview)
	}
	if f.gotURL != "https://example.com/data.csv" {
		t.Errorf("fetched %q", f.gotURL)
	}
}

func TestConvertFetch_QuoteAlways(t *testing.T) {
	f := &stubFetcher{body: "id,name\n1,ann\n2,bob\n"}
	c := NewConverter(f, 0)

	res := c.ConvertFetch(context.Background(), FetchRequest{
		Clicks:    3,
		URL:       "https://example.com/people",
		Separator: SeparatorComma,
		Quoting:   QuoteAlways,
	})
	if res.Outcome != OutcomeSuccess {
		t.Fatalf("Outcome = %v, want success", res.Outcome)
	}

	for _, line := range strings.Split(strings.TrimSuffix(res.Download.Content, "\n"), "\n") {
		for _, field := range strings.Split(line, ",") {
			if !strings.HasPrefix(field, `"`) || !strings.HasSuffix(field, `"`) {
				t.Errorf("field %q is not quoted", field)
			}
		}
	}
}

func TestConvertFetch_NoOp(t *testing.T) {
	tests := []struct {
		name string
		req  FetchRequest
	}{
		{"empty url", FetchRequest{Clicks: 1}},
		{"blank url", FetchRequest{Clicks: 1, URL: "   "}},
		{"never clicked", FetchRequest{URL: "https://example.com/x.csv"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := &stubFetcher{body: "a\n1\n"}
			res := NewConverter(f, 0).ConvertFetch(context.Background(), tt.req)
			if res.Outcome != OutcomeNoOp {
				t.Errorf("Outcome = %v, want noop", res.Outcome)
			}
			if res.Download != nil || res.Preview != nil {
				t.Error("noop must not carry preview or download")
			}
			if f.calls != 0 {
				t.Errorf("fetcher called %d times, want 0", f.calls)
			}
		})
	}
}

func TestConvertFetch_Failures(t *testing.T) {
	tests := []struct {
		name    string
		fetcher Fetcher
	}{
		{"fetch error", &stubFetcher{err: errors.New("dial tcp: connection refused")}},
		{"empty body", &stubFetcher{body: ""}},
		{"ragged rows", &stubFetcher{body: "a,b\n1,2,3\n"}},
		{"no fetcher", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := NewConverter(tt.fetcher, 0).ConvertFetch(context.Background(), FetchRequest{
				Clicks: 1,
				URL:    "https://example.com/x.csv",
			})
			if res.Outcome != OutcomeFailure || res.Kind != FailureProcessing {
				t.Fatalf("Outcome = %v/%v, want failure/processing_failure", res.Outcome, res.Kind)
			}
			if res.Message != MsgFetchFailed {
				t.Errorf("Message = %q", res.Message)
			}
			if res.Download != nil {
				t.Error("failure must not carry a download")
			}
		})
	}
}
