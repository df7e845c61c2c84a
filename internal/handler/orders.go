package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/restolink/api/internal/enum"
	"github.com/restolink/api/internal/ledger"
	"github.com/restolink/api/internal/middleware"
	"github.com/restolink/api/internal/model"
	"github.com/restolink/api/internal/ws"
)

// OrderLedger defines the ledger methods needed by order handlers.
// Satisfied by *ledger.Ledger; narrow interface for testability.
type OrderLedger interface {
	CreatePendingOrder(ctx context.Context, p model.PendingOrder) (model.PendingOrder, error)
	GetPendingOrder(ctx context.Context, id string) (model.PendingOrder, error)
	ApprovePendingOrder(ctx context.Context, pendingID string, pending model.PendingOrder) (*ledger.ApprovalResult, error)
	RejectPendingOrder(ctx context.Context, id string) error
	ListOrders(ctx context.Context, ownerID string) ([]model.Order, error)
	ListDepartmentOrders(ctx context.Context, ownerID, department string) ([]ledger.DepartmentOrderView, error)
	MarkDepartmentOrderComplete(ctx context.Context, orderID, department string) (bool, error)
}

// OrderNotifier defines the dispatcher methods order handlers fire.
// Satisfied by *notify.Dispatcher. Results are booleans by design:
// notification failures never fail the request.
type OrderNotifier interface {
	SendPendingOrderAlert(p model.PendingOrder) bool
	SendNewOrderAlert(o model.Order) bool
	SendDepartmentOrder(o model.Order, department string) bool
}

// Broadcaster pushes events to department display rooms.
// Satisfied by *ws.Hub.
type Broadcaster interface {
	BroadcastToDepartment(ownerID, department string, event ws.Event)
}

// OrderHandler handles pending-order, order, and department-queue endpoints.
type OrderHandler struct {
	ledger   OrderLedger
	notifier OrderNotifier
	hub      Broadcaster
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(ledger OrderLedger, notifier OrderNotifier, hub Broadcaster) *OrderHandler {
	return &OrderHandler{ledger: ledger, notifier: notifier, hub: hub}
}

// RegisterRoutes registers order endpoints on the given Chi router.
func (h *OrderHandler) RegisterRoutes(r chi.Router) {
	r.Post("/orders/pending", h.SubmitPending)
	r.Post("/orders/pending/{id}/approve", h.Approve)
	r.Post("/orders/pending/{id}/reject", h.Reject)
	r.Get("/orders", h.List)
	r.Get("/departments/{dept}/orders", h.ListDepartment)
	r.Post("/departments/{dept}/orders/{orderID}/complete", h.CompleteDepartment)
}

// --- Request types ---

type submitOrderItemRequest struct {
	MenuItemID string  `json:"menu_item_id"`
	Name       string  `json:"name"`
	Quantity   int     `json:"quantity"`
	LineTotal  float64 `json:"line_total"`
}

type submitOrderRequest struct {
	Table int                      `json:"table"`
	Items []submitOrderItemRequest `json:"items"`
}

// --- Handlers ---

// SubmitPending persists a pending order and announces it with
// approve/reject buttons.
func (h *OrderHandler) SubmitPending(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())

	var req submitOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if len(req.Items) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "items are required"})
		return
	}

	items := make([]model.OrderItem, len(req.Items))
	var total float64
	for i, item := range req.Items {
		if item.Quantity <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "quantity must be > 0"})
			return
		}
		items[i] = model.OrderItem{
			MenuItemID: item.MenuItemID,
			Name:       item.Name,
			Quantity:   item.Quantity,
			LineTotal:  item.LineTotal,
		}
		total += item.LineTotal
	}

	pending, err := h.ledger.CreatePendingOrder(r.Context(), model.PendingOrder{
		OwnerID: claims.UserID,
		Table:   req.Table,
		Items:   items,
		Total:   total,
	})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	h.notifier.SendPendingOrderAlert(pending)
	writeJSON(w, http.StatusCreated, pending)
}

// Approve runs the approval workflow and fans notifications out to the
// staff chat and department displays. A partially completed workflow
// reports the steps that ran alongside the error.
func (h *OrderHandler) Approve(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	pendingID := chi.URLParam(r, "id")

	pending, err := h.ledger.GetPendingOrder(r.Context(), pendingID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "pending order not found"})
		return
	}
	if pending.OwnerID != claims.UserID {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "access denied"})
		return
	}

	result, err := h.ledger.ApprovePendingOrder(r.Context(), pendingID, pending)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"error": "approval failed",
			"steps": stepNames(result),
		})
		return
	}

	h.notifier.SendNewOrderAlert(result.Order)
	for _, dept := range enum.Departments {
		h.notifier.SendDepartmentOrder(result.Order, dept)
	}
	broadcastPartitions(h.hub, result)

	writeJSON(w, http.StatusOK, result)
}

// Reject drops the pending order without creating anything.
func (h *OrderHandler) Reject(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	pendingID := chi.URLParam(r, "id")

	pending, err := h.ledger.GetPendingOrder(r.Context(), pendingID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "pending order not found"})
		return
	}
	if pending.OwnerID != claims.UserID {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "access denied"})
		return
	}

	if err := h.ledger.RejectPendingOrder(r.Context(), pendingID); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "rejected"})
}

// List returns the caller's orders, newest first.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())

	orders, err := h.ledger.ListOrders(r.Context(), claims.UserID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	if orders == nil {
		orders = []model.Order{}
	}
	writeJSON(w, http.StatusOK, orders)
}

// ListDepartment returns one department's queue, newest first.
func (h *OrderHandler) ListDepartment(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	dept, ok := parseDepartment(w, r)
	if !ok {
		return
	}

	records, err := h.ledger.ListDepartmentOrders(r.Context(), claims.UserID, dept)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}
	if records == nil {
		records = []ledger.DepartmentOrderView{}
	}
	writeJSON(w, http.StatusOK, records)
}

// CompleteDepartment marks a department's record done and updates the
// display. Completing an order the department never had is a quiet no-op,
// and the display hears nothing about it.
func (h *OrderHandler) CompleteDepartment(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	dept, ok := parseDepartment(w, r)
	if !ok {
		return
	}
	orderID := chi.URLParam(r, "orderID")

	completed, err := h.ledger.MarkDepartmentOrderComplete(r.Context(), orderID, dept)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	if completed {
		h.hub.BroadcastToDepartment(claims.UserID, dept, ws.Event{
			Type:    "department_order_completed",
			Payload: json.RawMessage(fmt.Sprintf(`{"order_id":%q}`, orderID)),
		})
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "completed"})
}

// --- Helpers ---

// broadcastPartitions pushes a department_order_created event to each
// department display that received items. Shared with the webhook handler.
func broadcastPartitions(hub Broadcaster, result *ledger.ApprovalResult) {
	partitions := map[string][]model.OrderItem{
		enum.DepartmentKitchen: result.Kitchen,
		enum.DepartmentBar:     result.Bar,
	}
	for dept, items := range partitions {
		if len(items) == 0 {
			continue
		}
		payload, err := json.Marshal(map[string]interface{}{
			"order_id": result.Order.ID.Hex(),
			"table":    result.Order.Table,
			"items":    items,
		})
		if err != nil {
			continue
		}
		hub.BroadcastToDepartment(result.Order.OwnerID, dept, ws.Event{
			Type:    "department_order_created",
			Payload: payload,
		})
	}
}

func parseDepartment(w http.ResponseWriter, r *http.Request) (string, bool) {
	dept := chi.URLParam(r, "dept")
	if dept != enum.DepartmentKitchen && dept != enum.DepartmentBar {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid department"})
		return "", false
	}
	return dept, true
}

func stepNames(result *ledger.ApprovalResult) []string {
	if result == nil {
		return nil
	}
	names := make([]string, len(result.Steps))
	for i, step := range result.Steps {
		names[i] = step.Name
	}
	return names
}
