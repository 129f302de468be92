package statusclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// TestNewWithTimeoutSetsTimeout ensures the HTTP client timeout is applied.
func TestNewWithTimeoutSetsTimeout(t *testing.T) {
	timeout := 1500 * time.Millisecond
	client := NewWithTimeout("http://example/MigrateContent", timeout)
	if client.client.Timeout != timeout {
		t.Fatalf("expected timeout %s, got %s", timeout, client.client.Timeout)
	}
}

// TestFetchSummarySendsPollingHints verifies the summary query and decoding.
func TestFetchSummarySendsPollingHints(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("reqfreq") != "high" || q.Get("output") != "json" || q.Get("status") != "status" {
			t.Errorf("unexpected query %q", r.URL.RawQuery)
		}
		if q.Get("au") != "x" {
			t.Errorf("expected operation query to be preserved, got %q", r.URL.RawQuery)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Errorf("expected request id header")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"running":true,"status_list":["copying"],"instrument_list":["i"],"active_list":["au1"],"finished_count":3,"errors":["e1"],"start_time":100}`)
	}))
	defer srv.Close()

	client := New(srv.URL + "/MigrateContent?au=x")
	summary, err := client.FetchSummary(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !summary.Running || summary.FinishedCount != 3 || summary.StartTime != 100 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
	if len(summary.StatusList) != 1 || summary.StatusList[0] != "copying" {
		t.Fatalf("unexpected status list: %v", summary.StatusList)
	}
	if len(summary.Errors) != 1 || summary.ActiveList[0] != "au1" {
		t.Fatalf("unexpected lists: %+v", summary)
	}
}

// TestFetchSummaryErrors covers transport, status and decoding failures.
func TestFetchSummaryErrors(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "http error with message",
			status: http.StatusServiceUnavailable,
			body:   `{"error":"not_ready"}`,
			check: func(t *testing.T, err error) {
				var httpErr *HTTPError
				if !errors.As(err, &httpErr) {
					t.Fatalf("expected HTTPError, got %v", err)
				}
				if httpErr.Status != http.StatusServiceUnavailable || httpErr.Message != "not_ready" {
					t.Fatalf("unexpected http error: %+v", httpErr)
				}
			},
		},
		{
			name:   "malformed json",
			status: http.StatusOK,
			body:   `{"running":`,
			check: func(t *testing.T, err error) {
				if err == nil {
					t.Fatalf("expected decode error")
				}
			},
		},
		{
			name:   "negative count",
			status: http.StatusOK,
			body:   `{"running":false,"finished_count":-1,"start_time":100}`,
			check:  expectInvalidSummary("finished_count -1"),
		},
		{
			name:   "null body",
			status: http.StatusOK,
			body:   `null`,
			check:  expectInvalidSummary("empty body"),
		},
		{
			name:   "empty object",
			status: http.StatusOK,
			body:   `{}`,
			check:  expectInvalidSummary("missing running"),
		},
		{
			name:   "missing finished count",
			status: http.StatusOK,
			body:   `{"running":true,"start_time":100}`,
			check:  expectInvalidSummary("missing finished_count"),
		},
		{
			name:   "missing start time",
			status: http.StatusOK,
			body:   `{"running":true,"finished_count":3}`,
			check:  expectInvalidSummary("missing start_time"),
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, tc.body)
			}))
			defer srv.Close()
			_, err := New(srv.URL).FetchSummary(context.Background())
			tc.check(t, err)
		})
	}
}

func expectInvalidSummary(detail string) func(t *testing.T, err error) {
	return func(t *testing.T, err error) {
		t.Helper()
		if !errors.Is(err, ErrInvalidSummary) {
			t.Fatalf("expected ErrInvalidSummary, got %v", err)
		}
		if !strings.Contains(err.Error(), detail) {
			t.Fatalf("expected %q in %v", detail, err)
		}
	}
}

// TestFetchFinishedRequestsDeltaBounds verifies index and size are forwarded.
func TestFetchFinishedRequestsDeltaBounds(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("status") != "finished" || q.Get("index") != "3" || q.Get("size") != "4" {
			t.Errorf("unexpected query %q", r.URL.RawQuery)
		}
		if q.Get("reqfreq") != "" {
			t.Errorf("finished page should not carry the polling hint")
		}
		_, _ = io.WriteString(w, `{"finished_page":["d","e","f","g"]}`)
	}))
	defer srv.Close()

	items, err := New(srv.URL).FetchFinished(context.Background(), 3, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 4 || items[0] != "d" || items[3] != "g" {
		t.Fatalf("unexpected items: %v", items)
	}
}

// TestFetchFinishedRejectsInvalidBounds verifies no request is sent for empty deltas.
func TestFetchFinishedRejectsInvalidBounds(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
	}))
	defer srv.Close()
	if _, err := New(srv.URL).FetchFinished(context.Background(), 2, 0); err == nil {
		t.Fatalf("expected error for zero size")
	}
	if calls != 0 {
		t.Fatalf("expected no request, got %d", calls)
	}
}

// TestSubmitPostsAction verifies the action form post.
func TestSubmitPostsAction(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		got = r.PostForm.Get("action")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	if err := New(srv.URL).Submit(context.Background(), "Abort"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Abort" {
		t.Fatalf("expected action Abort, got %q", got)
	}
	if err := New(srv.URL).Submit(context.Background(), " "); err == nil {
		t.Fatalf("expected error for empty action")
	}
}
