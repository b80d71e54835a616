package airtable

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(ClientConfig{
		BaseURL:      server.URL,
		Token:        "secret-token",
		BaseID:       "appTest",
		PlayersTable: "Players",
		MatchesTable: "Matches",
		GoalsTable:   "Goals",
		PageDelay:    0,
	})
}

func TestFetchTableFollowsOffsetCursor(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer secret-token" {
			t.Errorf("authorization header = %q", got)
		}
		if r.URL.Query().Get("offset") == "" {
			fmt.Fprint(w, `{"records":[{"id":"r1","fields":{"Name":"A"}}],"offset":"page2"}`)
			return
		}
		fmt.Fprint(w, `{"records":[{"id":"r2","fields":{"Name":"B"}}]}`)
	}))

	records, err := c.FetchPlayers(context.Background())
	if err != nil {
		t.Fatalf("FetchPlayers: %v", err)
	}
	if len(records) != 2 || records[0].ID != "r1" || records[1].ID != "r2" {
		t.Fatalf("unexpected records: %+v", records)
	}
	if records[1].String("Name") != "B" {
		t.Fatalf("fields not decoded: %+v", records[1])
	}
}

func TestFetchTableRetriesTransientStatus(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, `{"records":[{"id":"r1","fields":{}}]}`)
	}))
	t.Cleanup(server.Close)

	c := NewClient(ClientConfig{
		BaseURL:      server.URL,
		Token:        "tok",
		BaseID:       "appTest",
		GoalsTable:   "Goals",
		MaxRetries:   1,
		PageDelay:    0,
	})

	records, err := c.FetchGoals(context.Background())
	if err != nil {
		t.Fatalf("FetchGoals: %v", err)
	}
	if len(records) != 1 || calls.Load() != 2 {
		t.Fatalf("records=%d calls=%d", len(records), calls.Load())
	}
}

func TestFetchTableNonRetryableStatusFails(t *testing.T) {
	t.Parallel()

	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))

	if _, err := c.FetchMatches(context.Background()); err == nil {
		t.Fatalf("expected error on 403")
	}
}

func TestSanitizeSensitiveText(t *testing.T) {
	t.Parallel()

	got := sanitizeSensitiveText("dial failed Bearer abc123 via secret-token", "secret-token")
	if got != "dial failed Bearer REDACTED via REDACTED" {
		t.Fatalf("sanitized = %q", got)
	}
}
