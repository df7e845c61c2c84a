// Package notify formats domain events into Telegram messages with inline
// action buttons and delivers them to one configured chat.
package notify

import (
	"fmt"
	"log"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/restolink/api/internal/enum"
	"github.com/restolink/api/internal/model"
)

// Sender delivers one Telegram payload.
// Satisfied by *tgbotapi.BotAPI; narrow interface for testability.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Dispatcher renders domain events and posts them to a single chat.
// Delivery is best-effort: every method returns false on failure after
// logging, and never propagates an error. A failed notification must not
// fail the caller's workflow.
type Dispatcher struct {
	sender Sender
	chatID int64
}

// New creates a Dispatcher posting to chatID through sender.
func New(sender Sender, chatID int64) *Dispatcher {
	return &Dispatcher{sender: sender, chatID: chatID}
}

func (d *Dispatcher) send(c tgbotapi.Chattable, what string) bool {
	if _, err := d.sender.Send(c); err != nil {
		log.Printf("ERROR: send %s: %v", what, err)
		return false
	}
	return true
}

// SendMessage delivers a plain text message, no buttons.
func (d *Dispatcher) SendMessage(text string) bool {
	return d.send(tgbotapi.NewMessage(d.chatID, text), "message")
}

// SendPhoto delivers an image with a caption.
func (d *Dispatcher) SendPhoto(image []byte, caption string) bool {
	photo := tgbotapi.NewPhoto(d.chatID, tgbotapi.FileBytes{Name: "photo.jpg", Bytes: image})
	photo.Caption = caption
	return d.send(photo, "photo")
}

// SendPendingOrderAlert announces a newly submitted order with
// approve/reject buttons carrying the pending-order id.
func (d *Dispatcher) SendPendingOrderAlert(p model.PendingOrder) bool {
	var b strings.Builder
	fmt.Fprintf(&b, "🔔 New order — table %d\n\n", p.Table)
	writeItemLines(&b, p.Items)
	fmt.Fprintf(&b, "\nTotal: %.2f\n", p.Total)
	fmt.Fprintf(&b, "Submitted: %s", p.CreatedAt.Format("15:04 02.01.2006"))

	id := p.ID.Hex()
	msg := tgbotapi.NewMessage(d.chatID, b.String())
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Approve", BuildToken(enum.TokenVerbApprove, enum.TokenDomainOrder, id)),
			tgbotapi.NewInlineKeyboardButtonData("❌ Reject", BuildToken(enum.TokenVerbReject, enum.TokenDomainOrder, id)),
		),
	)
	return d.send(msg, "pending order alert")
}

// SendDepartmentOrder posts the department's slice of an approved order with
// ready/delay buttons. An order with no items for the department is a no-op
// success: nothing goes out.
func (d *Dispatcher) SendDepartmentOrder(o model.Order, department string) bool {
	var items []model.OrderItem
	for _, item := range o.Items {
		dept := item.Department
		if dept == "" {
			dept = enum.DepartmentKitchen
		}
		if dept == department {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return true
	}

	banner := "👨‍🍳 KITCHEN"
	if department == enum.DepartmentBar {
		banner = "🍸 BAR"
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s — order for table %d\n\n", banner, o.Table)
	writeItemLines(&b, items)

	id := o.ID.Hex()
	msg := tgbotapi.NewMessage(d.chatID, b.String())
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Ready", BuildToken(enum.TokenVerbReady, department, id)),
			tgbotapi.NewInlineKeyboardButtonData("⏳ Delay", BuildToken(enum.TokenVerbDelay, department, id)),
		),
	)
	return d.send(msg, department+" order")
}

// SendNewOrderAlert posts a plain informational line about an approved
// order. No buttons.
func (d *Dispatcher) SendNewOrderAlert(o model.Order) bool {
	text := fmt.Sprintf("📋 Order %s approved — table %d, total %.2f", o.ID.Hex(), o.Table, o.Total)
	return d.send(tgbotapi.NewMessage(d.chatID, text), "new order alert")
}

// SendPaymentConfirmation posts the payment screenshot with an order
// summary caption, then a follow-up message with accept/reject buttons.
// The button message goes out even when the screenshot fails, and only its
// outcome is reported.
func (d *Dispatcher) SendPaymentConfirmation(o model.Order, method string, screenshot []byte) bool {
	caption := fmt.Sprintf("💳 Payment received — table %d\nOrder %s, total %.2f\nMethod: %s",
		o.Table, o.ID.Hex(), o.Total, method)
	photo := tgbotapi.NewPhoto(d.chatID, tgbotapi.FileBytes{Name: "payment.jpg", Bytes: screenshot})
	photo.Caption = caption
	d.send(photo, "payment screenshot")

	return d.sendPaymentButtons(o.ID.Hex(), fmt.Sprintf("Confirm payment for order %s?", o.ID.Hex()))
}

// SendPaymentControls posts a standalone accept/reject payment message keyed
// by an arbitrary confirmation id, for flows without a loaded Order.
func (d *Dispatcher) SendPaymentControls(confirmationID string, table int, total float64, method string) bool {
	text := fmt.Sprintf("💳 Payment — table %d, total %.2f (%s). Confirm?", table, total, method)
	return d.sendPaymentButtons(confirmationID, text)
}

func (d *Dispatcher) sendPaymentButtons(id, text string) bool {
	msg := tgbotapi.NewMessage(d.chatID, text)
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Accept", BuildToken(enum.TokenVerbApprove, enum.TokenDomainPayment, id)),
			tgbotapi.NewInlineKeyboardButtonData("❌ Reject", BuildToken(enum.TokenVerbReject, enum.TokenDomainPayment, id)),
		),
	)
	return d.send(msg, "payment controls")
}

// SendWaiterCallAlert posts a one-line waiter call.
func (d *Dispatcher) SendWaiterCallAlert(table int) bool {
	text := fmt.Sprintf("🙋 Table %d calls a waiter (%s)", table, time.Now().Format("15:04"))
	return d.send(tgbotapi.NewMessage(d.chatID, text), "waiter call")
}

// SendBillRequestAlert posts a one-line bill request.
func (d *Dispatcher) SendBillRequestAlert(table int) bool {
	text := fmt.Sprintf("🧾 Table %d asks for the bill (%s)", table, time.Now().Format("15:04"))
	return d.send(tgbotapi.NewMessage(d.chatID, text), "bill request")
}

// SendDailySummary posts aggregate counters and the top-5 item ranking.
func (d *Dispatcher) SendDailySummary(stats model.MenuStats) bool {
	var b strings.Builder
	b.WriteString("📊 Daily summary\n\n")
	fmt.Fprintf(&b, "Orders: %d\n", stats.TotalOrders)
	fmt.Fprintf(&b, "Revenue: %.2f\n", stats.TotalRevenue)
	fmt.Fprintf(&b, "Menu views: %d\n", stats.TotalViews)
	if len(stats.PopularItems) > 0 {
		b.WriteString("\nTop items:\n")
		for i, item := range stats.PopularItems {
			fmt.Fprintf(&b, "%d. %s — %d\n", i+1, item.Name, item.Quantity)
		}
	}
	return d.send(tgbotapi.NewMessage(d.chatID, b.String()), "daily summary")
}

func writeItemLines(b *strings.Builder, items []model.OrderItem) {
	for _, item := range items {
		fmt.Fprintf(b, "• %s ×%d — %.2f\n", item.Name, item.Quantity, item.LineTotal)
	}
}
