package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"path"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/restolink/api/internal/middleware"
	"github.com/restolink/api/internal/model"
)

// maxScreenshotSize caps payment screenshot uploads at 10 MiB.
const maxScreenshotSize = 10 << 20

// AlertNotifier defines the dispatcher methods alert handlers fire.
// Satisfied by *notify.Dispatcher.
type AlertNotifier interface {
	SendWaiterCallAlert(table int) bool
	SendBillRequestAlert(table int) bool
	SendPaymentConfirmation(o model.Order, method string, screenshot []byte) bool
}

// PaymentLedger defines the ledger methods the payment flow needs.
// Satisfied by *ledger.Ledger.
type PaymentLedger interface {
	GetOrder(ctx context.Context, id string) (model.Order, error)
}

// AttachmentUploader stores a blob and returns its durable URL.
// Satisfied by *storage.Uploader.
type AttachmentUploader interface {
	Upload(ctx context.Context, data []byte, objectPath string) (string, error)
}

// NotifyHandler handles alert and payment-confirmation endpoints.
type NotifyHandler struct {
	ledger   PaymentLedger
	notifier AlertNotifier
	uploader AttachmentUploader
}

// NewNotifyHandler creates a new NotifyHandler.
func NewNotifyHandler(ledger PaymentLedger, notifier AlertNotifier, uploader AttachmentUploader) *NotifyHandler {
	return &NotifyHandler{ledger: ledger, notifier: notifier, uploader: uploader}
}

// RegisterRoutes registers alert endpoints on the given Chi router.
func (h *NotifyHandler) RegisterRoutes(r chi.Router) {
	r.Post("/notify/waiter-call", h.WaiterCall)
	r.Post("/notify/bill-request", h.BillRequest)
	r.Post("/orders/{id}/payment-confirmation", h.PaymentConfirmation)
}

type tableAlertRequest struct {
	Table int `json:"table"`
}

// WaiterCall posts a waiter-call alert for a table.
func (h *NotifyHandler) WaiterCall(w http.ResponseWriter, r *http.Request) {
	h.tableAlert(w, r, h.notifier.SendWaiterCallAlert)
}

// BillRequest posts a bill-request alert for a table.
func (h *NotifyHandler) BillRequest(w http.ResponseWriter, r *http.Request) {
	h.tableAlert(w, r, h.notifier.SendBillRequestAlert)
}

func (h *NotifyHandler) tableAlert(w http.ResponseWriter, r *http.Request, send func(int) bool) {
	var req tableAlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Table <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid table number"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"delivered": send(req.Table)})
}

// PaymentConfirmation takes a multipart payment screenshot, archives it in
// the object store, and posts the two-step confirmation to the chat.
// Archiving is best-effort like the notification itself: a failed upload is
// logged, not returned.
func (h *NotifyHandler) PaymentConfirmation(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	orderID := chi.URLParam(r, "id")

	order, err := h.ledger.GetOrder(r.Context(), orderID)
	if err != nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
		return
	}
	if order.OwnerID != claims.UserID {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "access denied"})
		return
	}

	if err := r.ParseMultipartForm(maxScreenshotSize); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid multipart form"})
		return
	}
	method := r.FormValue("method")
	if method == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "method is required"})
		return
	}

	file, header, err := r.FormFile("screenshot")
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "screenshot is required"})
		return
	}
	defer file.Close()

	screenshot, err := io.ReadAll(io.LimitReader(file, maxScreenshotSize))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "failed to read screenshot"})
		return
	}

	objectPath := fmt.Sprintf("payments/%s%s", uuid.NewString(), path.Ext(header.Filename))
	url, err := h.uploader.Upload(r.Context(), screenshot, objectPath)
	if err != nil {
		log.Printf("ERROR: archive payment screenshot: %v", err)
		url = ""
	}

	delivered := h.notifier.SendPaymentConfirmation(order, method, screenshot)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"delivered":      delivered,
		"screenshot_url": url,
	})
}
