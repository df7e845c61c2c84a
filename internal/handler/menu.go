package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/restolink/api/internal/enum"
	"github.com/restolink/api/internal/middleware"
	"github.com/restolink/api/internal/model"
)

// MenuLedger defines the ledger methods needed by menu handlers.
// Satisfied by *ledger.Ledger; narrow interface for testability.
type MenuLedger interface {
	ListMenuItems(ctx context.Context, ownerID string) ([]model.MenuItem, error)
	CreateMenuItem(ctx context.Context, item model.MenuItem) (model.MenuItem, error)
	IncrementMenuItemViews(ctx context.Context, ownerID, id string) error
}

// MenuHandler handles menu endpoints.
type MenuHandler struct {
	ledger MenuLedger
}

// NewMenuHandler creates a new MenuHandler.
func NewMenuHandler(ledger MenuLedger) *MenuHandler {
	return &MenuHandler{ledger: ledger}
}

// RegisterRoutes registers menu endpoints on the given Chi router.
func (h *MenuHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Post("/{id}/view", h.View)
}

type createMenuItemRequest struct {
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	Department string  `json:"department"`
}

// List returns the caller's menu items.
func (h *MenuHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())

	items, err := h.ledger.ListMenuItems(r.Context(), claims.UserID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	if items == nil {
		items = []model.MenuItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

// Create persists a new menu item owned by the caller.
func (h *MenuHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())

	var req createMenuItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}
	if req.Price < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "price must be >= 0"})
		return
	}
	if req.Department != "" && req.Department != enum.DepartmentKitchen && req.Department != enum.DepartmentBar {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid department"})
		return
	}

	item, err := h.ledger.CreateMenuItem(r.Context(), model.MenuItem{
		OwnerID:    claims.UserID,
		Name:       req.Name,
		Price:      req.Price,
		Department: req.Department,
	})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

// View bumps an item's view counter, scoped to the caller's own menu.
func (h *MenuHandler) View(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	id := chi.URLParam(r, "id")
	if err := h.ledger.IncrementMenuItemViews(r.Context(), claims.UserID, id); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
