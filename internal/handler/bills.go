package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/restolink/api/internal/middleware"
	"github.com/restolink/api/internal/model"
)

// BillLedger defines the ledger methods needed by bill handlers.
// Satisfied by *ledger.Ledger; narrow interface for testability.
type BillLedger interface {
	GetActiveTableBill(ctx context.Context, ownerID string, table int) (*model.TableBill, error)
	CloseTableBill(ctx context.Context, ownerID string, table int) error
}

// BillHandler handles table-bill endpoints.
type BillHandler struct {
	ledger BillLedger
}

// NewBillHandler creates a new BillHandler.
func NewBillHandler(ledger BillLedger) *BillHandler {
	return &BillHandler{ledger: ledger}
}

// RegisterRoutes registers bill endpoints on the given Chi router.
func (h *BillHandler) RegisterRoutes(r chi.Router) {
	r.Get("/tables/{table}/bill", h.GetActive)
	r.Post("/tables/{table}/bill/close", h.Close)
}

// GetActive returns the table's active bill. A table with no open bill
// answers 200 with a null bill, not an error.
func (h *BillHandler) GetActive(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	table, ok := parseTable(w, r)
	if !ok {
		return
	}

	bill, err := h.ledger.GetActiveTableBill(r.Context(), claims.UserID, table)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"bill": bill})
}

// Close marks the table's active bill closed.
func (h *BillHandler) Close(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	table, ok := parseTable(w, r)
	if !ok {
		return
	}

	if err := h.ledger.CloseTableBill(r.Context(), claims.UserID, table); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "closed"})
}

func parseTable(w http.ResponseWriter, r *http.Request) (int, bool) {
	table, err := strconv.Atoi(chi.URLParam(r, "table"))
	if err != nil || table <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid table number"})
		return 0, false
	}
	return table, true
}
