package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/restolink/api/internal/handler"
	mw "github.com/restolink/api/internal/middleware"
	"github.com/restolink/api/internal/model"
)

type mockStatsLedger struct {
	stats model.MenuStats
}

func (m *mockStatsLedger) ComputeMenuStats(ctx context.Context, ownerID string) model.MenuStats {
	return m.stats
}

type mockSummaryNotifier struct {
	sent      []model.MenuStats
	delivered bool
}

func (m *mockSummaryNotifier) SendDailySummary(stats model.MenuStats) bool {
	m.sent = append(m.sent, stats)
	return m.delivered
}

func statsRouter(l *mockStatsLedger, n *mockSummaryNotifier) chi.Router {
	r := chi.NewRouter()
	r.Use(mw.Authenticate(testSecret))
	handler.NewStatsHandler(l, n).RegisterRoutes(r)
	return r
}

func TestGetStats(t *testing.T) {
	l := &mockStatsLedger{stats: model.MenuStats{TotalOrders: 3, TotalRevenue: 90}}
	r := statsRouter(l, &mockSummaryNotifier{})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, authedRequest(t, http.MethodGet, "/stats", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	var stats model.MenuStats
	if err := json.NewDecoder(rec.Body).Decode(&stats); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if stats.TotalOrders != 3 || stats.TotalRevenue != 90 {
		t.Errorf("stats: got %+v", stats)
	}
}

func TestSendDailySummaryReportsDelivery(t *testing.T) {
	l := &mockStatsLedger{stats: model.MenuStats{TotalOrders: 5}}
	n := &mockSummaryNotifier{delivered: true}
	r := statsRouter(l, n)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, authedRequest(t, http.MethodPost, "/stats/daily-summary", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	if len(n.sent) != 1 || n.sent[0].TotalOrders != 5 {
		t.Errorf("summaries sent: got %+v", n.sent)
	}
	var resp map[string]bool
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp["delivered"] {
		t.Error("expected delivered true")
	}
}
