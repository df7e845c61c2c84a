package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/restolink/api/internal/enum"
	"github.com/restolink/api/internal/ledger"
	"github.com/restolink/api/internal/model"
	"github.com/restolink/api/internal/notify"
	"github.com/restolink/api/internal/ws"
)

// CallbackLedger defines the ledger methods button clicks route into.
// Satisfied by *ledger.Ledger.
type CallbackLedger interface {
	GetPendingOrder(ctx context.Context, id string) (model.PendingOrder, error)
	ApprovePendingOrder(ctx context.Context, pendingID string, pending model.PendingOrder) (*ledger.ApprovalResult, error)
	RejectPendingOrder(ctx context.Context, id string) error
	GetOrder(ctx context.Context, id string) (model.Order, error)
	SetOrderPaymentStatus(ctx context.Context, orderID, status string) error
	CloseTableBill(ctx context.Context, ownerID string, table int) error
	MarkDepartmentOrderComplete(ctx context.Context, orderID, department string) (bool, error)
}

// CallbackNotifier defines the dispatcher methods callbacks fire back.
// Satisfied by *notify.Dispatcher.
type CallbackNotifier interface {
	SendMessage(text string) bool
	SendNewOrderAlert(o model.Order) bool
	SendDepartmentOrder(o model.Order, department string) bool
}

// CallbackHandler receives Telegram webhook updates and translates button
// clicks back into ledger actions. The button payload is an action token
// ("{verb}_{domain}_{id}"); anything unparseable is acknowledged and
// dropped so Telegram stops retrying it.
type CallbackHandler struct {
	ledger   CallbackLedger
	notifier CallbackNotifier
	hub      Broadcaster
}

// NewCallbackHandler creates a new CallbackHandler.
func NewCallbackHandler(ledger CallbackLedger, notifier CallbackNotifier, hub Broadcaster) *CallbackHandler {
	return &CallbackHandler{ledger: ledger, notifier: notifier, hub: hub}
}

// RegisterRoutes registers the webhook endpoint on the given Chi router.
func (h *CallbackHandler) RegisterRoutes(r chi.Router) {
	r.Post("/telegram/webhook", h.Webhook)
}

// Webhook handles one Telegram update. Always answers 200: a webhook error
// would only make Telegram redeliver the same click.
func (h *CallbackHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	var update tgbotapi.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		log.Printf("ERROR: decode telegram update: %v", err)
		w.WriteHeader(http.StatusOK)
		return
	}

	if update.CallbackQuery == nil || update.CallbackQuery.Data == "" {
		w.WriteHeader(http.StatusOK)
		return
	}

	verb, domain, id, err := notify.ParseToken(update.CallbackQuery.Data)
	if err != nil {
		log.Printf("ERROR: %v", err)
		w.WriteHeader(http.StatusOK)
		return
	}

	if err := h.route(r.Context(), verb, domain, id); err != nil {
		log.Printf("ERROR: handle %s_%s_%s: %v", verb, domain, id, err)
	}
	w.WriteHeader(http.StatusOK)
}

func (h *CallbackHandler) route(ctx context.Context, verb, domain, id string) error {
	switch domain {
	case enum.TokenDomainOrder:
		return h.handleOrderAction(ctx, verb, id)
	case enum.TokenDomainPayment:
		return h.handlePaymentAction(ctx, verb, id)
	case enum.TokenDomainKitchen, enum.TokenDomainBar:
		return h.handleDepartmentAction(ctx, verb, domain, id)
	}
	return fmt.Errorf("unroutable domain %q", domain)
}

func (h *CallbackHandler) handleOrderAction(ctx context.Context, verb, pendingID string) error {
	switch verb {
	case enum.TokenVerbApprove:
		pending, err := h.ledger.GetPendingOrder(ctx, pendingID)
		if err != nil {
			return err
		}
		result, err := h.ledger.ApprovePendingOrder(ctx, pendingID, pending)
		if err != nil {
			return err
		}
		h.notifier.SendNewOrderAlert(result.Order)
		for _, dept := range enum.Departments {
			h.notifier.SendDepartmentOrder(result.Order, dept)
		}
		broadcastPartitions(h.hub, result)
		return nil
	case enum.TokenVerbReject:
		return h.ledger.RejectPendingOrder(ctx, pendingID)
	}
	return fmt.Errorf("verb %q not valid for orders", verb)
}

func (h *CallbackHandler) handlePaymentAction(ctx context.Context, verb, orderID string) error {
	switch verb {
	case enum.TokenVerbApprove:
		if err := h.ledger.SetOrderPaymentStatus(ctx, orderID, enum.PaymentStatusPaid); err != nil {
			return err
		}
		// A settled payment closes the table's running bill.
		order, err := h.ledger.GetOrder(ctx, orderID)
		if err != nil {
			return err
		}
		return h.ledger.CloseTableBill(ctx, order.OwnerID, order.Table)
	case enum.TokenVerbReject:
		return h.ledger.SetOrderPaymentStatus(ctx, orderID, enum.PaymentStatusRejected)
	}
	return fmt.Errorf("verb %q not valid for payments", verb)
}

func (h *CallbackHandler) handleDepartmentAction(ctx context.Context, verb, department, orderID string) error {
	switch verb {
	case enum.TokenVerbReady:
		completed, err := h.ledger.MarkDepartmentOrderComplete(ctx, orderID, department)
		if err != nil {
			return err
		}
		if !completed {
			return nil
		}
		order, err := h.ledger.GetOrder(ctx, orderID)
		if err != nil {
			return err
		}
		h.hub.BroadcastToDepartment(order.OwnerID, department, ws.Event{
			Type:    "department_order_completed",
			Payload: json.RawMessage(fmt.Sprintf(`{"order_id":%q}`, orderID)),
		})
		return nil
	case enum.TokenVerbDelay:
		h.notifier.SendMessage(fmt.Sprintf("⏳ %s delayed order %s", department, orderID))
		return nil
	}
	return fmt.Errorf("verb %q not valid for departments", verb)
}
