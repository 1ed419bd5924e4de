package core

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/JonMunkholm/csvconvert/internal/config"
)

func newTestFetcher(maxBody int64) *HTTPFetcher {
	return NewHTTPFetcher(config.FetchConfig{
		Timeout:     2 * time.Second,
		MaxBodySize: maxBody,
		UserAgent:   "csvconvert-test",
	})
}

func TestHTTPFetcher_Fetch(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "text/csv")
		w.Write([]byte("a|b\n1|2\n"))
	}))
	defer srv.Close()

	body, err := newTestFetcher(0).Fetch(context.Background(), srv.URL+"/data.csv")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if string(body) != "a|b\n1|2\n" {
		t.Errorf("body = %q", body)
	}
	if gotUA != "csvconvert-test" {
		t.Errorf("User-Agent = %q, want %q", gotUA, "csvconvert-test")
	}
}

func TestHTTPFetcher_Status(t *testing.T) {
	for _, code := range []int{http.StatusNotFound, http.StatusForbidden, http.StatusInternalServerError} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", code)
		}))

		_, err := newTestFetcher(0).Fetch(context.Background(), srv.URL)
		srv.Close()
		if err == nil || !strings.Contains(err.Error(), "unexpected status") {
			t.Errorf("status %d: error = %v, want unexpected status", code, err)
		}
	}
}

func TestHTTPFetcher_BodyLimit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(strings.Repeat("x", 64)))
	}))
	defer srv.Close()

	if _, err := newTestFetcher(16).Fetch(context.Background(), srv.URL); !errors.Is(err, ErrBodyTooLarge) {
		t.Errorf("error = %v, want ErrBodyTooLarge", err)
	}
	if _, err := newTestFetcher(64).Fetch(context.Background(), srv.URL); err != nil {
		t.Errorf("body at limit: error = %v", err)
	}
}

func TestHTTPFetcher_UnsupportedURL(t *testing.T) {
	urls := []string{
		"ftp://example.com/data.csv",
		"file:///etc/passwd",
		"example.com/data.csv",
		"http://",
		"://bad",
	}

	f := newTestFetcher(0)
	for _, u := range urls {
		if _, err := f.Fetch(context.Background(), u); !errors.Is(err, ErrUnsupportedURL) {
			t.Errorf("Fetch(%q) error = %v, want ErrUnsupportedURL", u, err)
		}
	}
}

func TestHTTPFetcher_ContextCanceled(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, err := newTestFetcher(0).Fetch(ctx, srv.URL); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("error = %v, want deadline exceeded", err)
	}
}

func TestConvertFetch_HTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("\xEF\xBB\xBFid,id,note\n1,2,\"hello, world\"\n"))
	}))
	defer srv.Close()

	c := NewConverter(newTestFetcher(1<<20), 0)
	res := c.ConvertFetch(context.Background(), FetchRequest{Clicks: 1, URL: srv.URL})
	if res.Outcome != OutcomeSuccess {
		t.Fatalf("Outcome = %v (%s), want success", res.Outcome, res.Message)
	}

	want := "id,id_duplicated_0,note\n1,2,\"hello, world\"\n"
	if res.Download.Content != want {
		t.Errorf("Download.Content = %q, want %q", res.Download.Content, want)
	}
}
