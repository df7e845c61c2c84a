package notify_test

import (
	"errors"
	"strings"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/restolink/api/internal/model"
	"github.com/restolink/api/internal/notify"
)

const testChatID int64 = 42

// mockSender records every payload and can fail selectively by payload type.
type mockSender struct {
	sent      []tgbotapi.Chattable
	err       error
	photosErr error
}

func (m *mockSender) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if _, isPhoto := c.(tgbotapi.PhotoConfig); isPhoto && m.photosErr != nil {
		return tgbotapi.Message{}, m.photosErr
	}
	if m.err != nil {
		return tgbotapi.Message{}, m.err
	}
	m.sent = append(m.sent, c)
	return tgbotapi.Message{MessageID: len(m.sent)}, nil
}

func (m *mockSender) lastMessage(t *testing.T) tgbotapi.MessageConfig {
	t.Helper()
	if len(m.sent) == 0 {
		t.Fatal("nothing sent")
	}
	msg, ok := m.sent[len(m.sent)-1].(tgbotapi.MessageConfig)
	if !ok {
		t.Fatalf("last payload is %T, want MessageConfig", m.sent[len(m.sent)-1])
	}
	return msg
}

func buttonData(t *testing.T, msg tgbotapi.MessageConfig) []string {
	t.Helper()
	markup, ok := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	if !ok {
		t.Fatalf("reply markup is %T, want InlineKeyboardMarkup", msg.ReplyMarkup)
	}
	var data []string
	for _, row := range markup.InlineKeyboard {
		for _, btn := range row {
			if btn.CallbackData != nil {
				data = append(data, *btn.CallbackData)
			}
		}
	}
	return data
}

func TestSendMessage(t *testing.T) {
	sender := &mockSender{}
	d := notify.New(sender, testChatID)

	if !d.SendMessage("hello") {
		t.Fatal("expected success")
	}
	msg := sender.lastMessage(t)
	if msg.Text != "hello" {
		t.Errorf("text: got %q", msg.Text)
	}
	if msg.ChatID != testChatID {
		t.Errorf("chat id: got %d, want %d", msg.ChatID, testChatID)
	}
}

func TestSendMessageFailureReturnsFalse(t *testing.T) {
	d := notify.New(&mockSender{err: errors.New("telegram down")}, testChatID)
	if d.SendMessage("hello") {
		t.Fatal("expected failure")
	}
}

func TestSendPendingOrderAlertButtons(t *testing.T) {
	sender := &mockSender{}
	d := notify.New(sender, testChatID)

	pending := model.PendingOrder{
		ID:    primitive.NewObjectID(),
		Table: 5,
		Items: []model.OrderItem{{Name: "Margherita", Quantity: 2, LineTotal: 19.00}},
		Total: 19.00,
	}
	if !d.SendPendingOrderAlert(pending) {
		t.Fatal("expected success")
	}

	msg := sender.lastMessage(t)
	if !strings.Contains(msg.Text, "table 5") {
		t.Errorf("text missing table: %q", msg.Text)
	}
	if !strings.Contains(msg.Text, "Margherita ×2") {
		t.Errorf("text missing item line: %q", msg.Text)
	}

	id := pending.ID.Hex()
	data := buttonData(t, msg)
	want := []string{"approve_order_" + id, "reject_order_" + id}
	if len(data) != 2 || data[0] != want[0] || data[1] != want[1] {
		t.Errorf("callback data: got %v, want %v", data, want)
	}
}

func TestSendDepartmentOrderFiltersItems(t *testing.T) {
	sender := &mockSender{}
	d := notify.New(sender, testChatID)

	order := model.Order{
		ID:    primitive.NewObjectID(),
		Table: 3,
		Items: []model.OrderItem{
			{Name: "Margherita", Quantity: 1, LineTotal: 9.50, Department: "kitchen"},
			{Name: "Carbonara", Quantity: 1, LineTotal: 11.00}, // untagged: kitchen
			{Name: "Espresso", Quantity: 2, LineTotal: 5.00, Department: "bar"},
		},
	}

	if !d.SendDepartmentOrder(order, "bar") {
		t.Fatal("expected success")
	}
	msg := sender.lastMessage(t)
	if !strings.Contains(msg.Text, "BAR") {
		t.Errorf("missing bar banner: %q", msg.Text)
	}
	if !strings.Contains(msg.Text, "Espresso") || strings.Contains(msg.Text, "Margherita") {
		t.Errorf("bar message has wrong items: %q", msg.Text)
	}

	if !d.SendDepartmentOrder(order, "kitchen") {
		t.Fatal("expected success")
	}
	msg = sender.lastMessage(t)
	if !strings.Contains(msg.Text, "KITCHEN") {
		t.Errorf("missing kitchen banner: %q", msg.Text)
	}
	// Untagged items belong to the kitchen.
	if !strings.Contains(msg.Text, "Carbonara") || strings.Contains(msg.Text, "Espresso") {
		t.Errorf("kitchen message has wrong items: %q", msg.Text)
	}

	id := order.ID.Hex()
	data := buttonData(t, msg)
	want := []string{"ready_kitchen_" + id, "delay_kitchen_" + id}
	if len(data) != 2 || data[0] != want[0] || data[1] != want[1] {
		t.Errorf("callback data: got %v, want %v", data, want)
	}
}

func TestSendDepartmentOrderEmptyPartitionSkipsSend(t *testing.T) {
	sender := &mockSender{}
	d := notify.New(sender, testChatID)

	order := model.Order{
		ID:    primitive.NewObjectID(),
		Table: 3,
		Items: []model.OrderItem{{Name: "Margherita", Quantity: 1, LineTotal: 9.50, Department: "kitchen"}},
	}

	// No bar items: success without a message.
	if !d.SendDepartmentOrder(order, "bar") {
		t.Fatal("expected no-op success")
	}
	if len(sender.sent) != 0 {
		t.Errorf("sent %d payloads, want 0", len(sender.sent))
	}
}

func TestSendPaymentConfirmationSurvivesScreenshotFailure(t *testing.T) {
	sender := &mockSender{photosErr: errors.New("image rejected")}
	d := notify.New(sender, testChatID)

	order := model.Order{ID: primitive.NewObjectID(), Table: 2, Total: 34.00}
	// Screenshot fails, button message succeeds: the result reflects only
	// the button message.
	if !d.SendPaymentConfirmation(order, "card", []byte{0xFF, 0xD8}) {
		t.Fatal("expected success despite screenshot failure")
	}

	msg := sender.lastMessage(t)
	id := order.ID.Hex()
	data := buttonData(t, msg)
	want := []string{"approve_payment_" + id, "reject_payment_" + id}
	if len(data) != 2 || data[0] != want[0] || data[1] != want[1] {
		t.Errorf("callback data: got %v, want %v", data, want)
	}
}

func TestSendPaymentConfirmationButtonFailure(t *testing.T) {
	d := notify.New(&mockSender{err: errors.New("telegram down")}, testChatID)

	order := model.Order{ID: primitive.NewObjectID(), Table: 2, Total: 34.00}
	if d.SendPaymentConfirmation(order, "card", nil) {
		t.Fatal("expected failure when the button message fails")
	}
}

func TestSendPaymentControls(t *testing.T) {
	sender := &mockSender{}
	d := notify.New(sender, testChatID)

	if !d.SendPaymentControls("conf-1", 8, 52.00, "cash") {
		t.Fatal("expected success")
	}
	msg := sender.lastMessage(t)
	data := buttonData(t, msg)
	want := []string{"approve_payment_conf-1", "reject_payment_conf-1"}
	if len(data) != 2 || data[0] != want[0] || data[1] != want[1] {
		t.Errorf("callback data: got %v, want %v", data, want)
	}
}

func TestSendDailySummary(t *testing.T) {
	sender := &mockSender{}
	d := notify.New(sender, testChatID)

	stats := model.MenuStats{
		TotalOrders:  12,
		TotalRevenue: 480.50,
		TotalViews:   230,
		PopularItems: []model.PopularItem{
			{Name: "Margherita", Quantity: 9},
			{Name: "Espresso", Quantity: 7},
		},
	}
	if !d.SendDailySummary(stats) {
		t.Fatal("expected success")
	}

	msg := sender.lastMessage(t)
	for _, want := range []string{"Orders: 12", "Revenue: 480.50", "Menu views: 230", "1. Margherita — 9"} {
		if !strings.Contains(msg.Text, want) {
			t.Errorf("summary missing %q:\n%s", want, msg.Text)
		}
	}
}
