package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/restolink/api/internal/middleware"
	"github.com/restolink/api/internal/model"
)

// StatsLedger defines the ledger methods needed by stats handlers.
// Satisfied by *ledger.Ledger.
type StatsLedger interface {
	ComputeMenuStats(ctx context.Context, ownerID string) model.MenuStats
}

// SummaryNotifier posts the daily summary to the staff chat.
// Satisfied by *notify.Dispatcher.
type SummaryNotifier interface {
	SendDailySummary(stats model.MenuStats) bool
}

// StatsHandler handles stats endpoints.
type StatsHandler struct {
	ledger   StatsLedger
	notifier SummaryNotifier
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(ledger StatsLedger, notifier SummaryNotifier) *StatsHandler {
	return &StatsHandler{ledger: ledger, notifier: notifier}
}

// RegisterRoutes registers stats endpoints on the given Chi router.
func (h *StatsHandler) RegisterRoutes(r chi.Router) {
	r.Get("/stats", h.Get)
	r.Post("/stats/daily-summary", h.SendDailySummary)
}

// Get returns the caller's aggregate stats. ComputeMenuStats never fails;
// an owner with no history gets zeroes.
func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	writeJSON(w, http.StatusOK, h.ledger.ComputeMenuStats(r.Context(), claims.UserID))
}

// SendDailySummary computes the caller's stats and posts them to the chat.
func (h *StatsHandler) SendDailySummary(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	stats := h.ledger.ComputeMenuStats(r.Context(), claims.UserID)
	delivered := h.notifier.SendDailySummary(stats)
	writeJSON(w, http.StatusOK, map[string]bool{"delivered": delivered})
}
