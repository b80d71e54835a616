package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/borderville/season-stats/internal/domain/record"
	"github.com/borderville/season-stats/internal/platform/cache"
	"github.com/borderville/season-stats/internal/platform/logging"
	"github.com/borderville/season-stats/internal/usecase"
)

type stubSource struct {
	players []record.Record
	matches []record.Record
	goals   []record.Record
}

func (s *stubSource) FetchPlayers(context.Context) ([]record.Record, error) { return s.players, nil }
func (s *stubSource) FetchMatches(context.Context) ([]record.Record, error) { return s.matches, nil }
func (s *stubSource) FetchGoals(context.Context) ([]record.Record, error)   { return s.goals, nil }

func newTestRouter(t *testing.T, internalJobToken string) http.Handler {
	t.Helper()

	source := &stubSource{
		players: []record.Record{
			{ID: "recA", Fields: map[string]any{"Name": "Ana", "Position": "DEF"}},
			{ID: "recB", Fields: map[string]any{"Name": "Ben", "Position": "FWD"}},
		},
		matches: []record.Record{
			{ID: "m1", Fields: map[string]any{
				"Name": "Week 1",
				"Date Played": "2026-03-01",
				"Pink Team Players": []any{"recA"},
				"Blue Team Players": []any{"recB"},
				"Pink Goals": float64(1),
				"Blue Goals": float64(0),
				"Winning Team": "PINK",
			}},
		},
	}

	aggregator := usecase.NewAggregationService(source, usecase.AggregationConfig{
		Fields: usecase.DefaultFieldMap(),
		Year:   2026,
		Logger: logging.NewNop(),
	})
	stats := usecase.NewStatsService(aggregator, cache.NewStore(time.Minute), logging.NewNop())

	handler := NewHandler(stats, slog.New(slog.DiscardHandler))
	return NewRouter(handler, slog.New(slog.DiscardHandler), []string{"*"}, internalJobToken)
}

func TestRouter_Healthz(t *testing.T) {
	router := newTestRouter(t, "")

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}

func TestRouter_GetSnapshot(t *testing.T) {
	router := newTestRouter(t, "")

	req := httptest.NewRequest(http.MethodGet, "/v1/snapshot", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	data, ok := body["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data object, got %v", body)
	}
	players, ok := data["players"].(map[string]any)
	if !ok || len(players) != 2 {
		t.Fatalf("expected two players in snapshot, got %v", data["players"])
	}
}

func TestRouter_ListPlayers(t *testing.T) {
	router := newTestRouter(t, "")

	t.Run("position filter", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/players?position=def", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
		}

		var body map[string]any
		if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("unmarshal response: %v", err)
		}
		items, ok := body["data"].([]any)
		if !ok || len(items) != 1 {
			t.Fatalf("expected one DEF player, got %v", body["data"])
		}
		item := items[0].(map[string]any)
		if item["name"] != "Ana" {
			t.Fatalf("expected Ana, got %v", item["name"])
		}
	})

	t.Run("invalid position", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/players?position=STRIKER", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", rec.Code)
		}
	})

	t.Run("invalid minCaps", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/v1/players?minCaps=abc", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected status 400, got %d", rec.Code)
		}
	})
}

func TestRouter_Refresh(t *testing.T) {
	const token = "secret-token"

	t.Run("missing token", func(t *testing.T) {
		router := newTestRouter(t, token)
		req := httptest.NewRequest(http.MethodPost, "/internal/refresh", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("expected status 401, got %d", rec.Code)
		}
	})

	t.Run("token not configured", func(t *testing.T) {
		router := newTestRouter(t, "")
		req := httptest.NewRequest(http.MethodPost, "/internal/refresh", nil)
		req.Header.Set("X-Internal-Job-Token", "anything")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusServiceUnavailable {
			t.Fatalf("expected status 503, got %d", rec.Code)
		}
	})

	t.Run("valid token", func(t *testing.T) {
		router := newTestRouter(t, token)
		req := httptest.NewRequest(http.MethodPost, "/internal/refresh", strings.NewReader(`{"reason":"schedule update"}`))
		req.Header.Set("X-Internal-Job-Token", token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
		}

		var body map[string]any
		if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
			t.Fatalf("unmarshal response: %v", err)
		}
		data, ok := body["data"].(map[string]any)
		if !ok {
			t.Fatalf("expected data object, got %v", body)
		}
		if got, _ := data["year"].(float64); int(got) != 2026 {
			t.Fatalf("expected year 2026, got %v", data["year"])
		}
	})
}
