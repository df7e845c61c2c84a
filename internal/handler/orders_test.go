package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/restolink/api/internal/handler"
	"github.com/restolink/api/internal/ledger"
	mw "github.com/restolink/api/internal/middleware"
	"github.com/restolink/api/internal/model"
	"github.com/restolink/api/internal/ws"
)

type mockOrderLedger struct {
	pending        map[string]model.PendingOrder
	createdPending []model.PendingOrder
	createErr      error

	approveResult *ledger.ApprovalResult
	approveErr    error
	approvedIDs   []string
	rejectedIDs   []string

	orders          []model.Order
	deptViews       []ledger.DepartmentOrderView
	completions     [][2]string
	completeMatched bool
}

func (m *mockOrderLedger) CreatePendingOrder(ctx context.Context, p model.PendingOrder) (model.PendingOrder, error) {
	if m.createErr != nil {
		return model.PendingOrder{}, m.createErr
	}
	p.ID = primitive.NewObjectID()
	m.createdPending = append(m.createdPending, p)
	return p, nil
}

func (m *mockOrderLedger) GetPendingOrder(ctx context.Context, id string) (model.PendingOrder, error) {
	p, ok := m.pending[id]
	if !ok {
		return model.PendingOrder{}, errors.New("not found")
	}
	return p, nil
}

func (m *mockOrderLedger) ApprovePendingOrder(ctx context.Context, pendingID string, pending model.PendingOrder) (*ledger.ApprovalResult, error) {
	m.approvedIDs = append(m.approvedIDs, pendingID)
	return m.approveResult, m.approveErr
}

func (m *mockOrderLedger) RejectPendingOrder(ctx context.Context, id string) error {
	m.rejectedIDs = append(m.rejectedIDs, id)
	return nil
}

func (m *mockOrderLedger) ListOrders(ctx context.Context, ownerID string) ([]model.Order, error) {
	return m.orders, nil
}

func (m *mockOrderLedger) ListDepartmentOrders(ctx context.Context, ownerID, department string) ([]ledger.DepartmentOrderView, error) {
	return m.deptViews, nil
}

func (m *mockOrderLedger) MarkDepartmentOrderComplete(ctx context.Context, orderID, department string) (bool, error) {
	m.completions = append(m.completions, [2]string{orderID, department})
	return m.completeMatched, nil
}

type mockOrderNotifier struct {
	pendingAlerts []model.PendingOrder
	orderAlerts   []model.Order
	deptSends     []string
}

func (m *mockOrderNotifier) SendPendingOrderAlert(p model.PendingOrder) bool {
	m.pendingAlerts = append(m.pendingAlerts, p)
	return true
}

func (m *mockOrderNotifier) SendNewOrderAlert(o model.Order) bool {
	m.orderAlerts = append(m.orderAlerts, o)
	return true
}

func (m *mockOrderNotifier) SendDepartmentOrder(o model.Order, department string) bool {
	m.deptSends = append(m.deptSends, department)
	return true
}

type broadcastCall struct {
	ownerID    string
	department string
	event      ws.Event
}

type mockHub struct {
	calls []broadcastCall
}

func (m *mockHub) BroadcastToDepartment(ownerID, department string, event ws.Event) {
	m.calls = append(m.calls, broadcastCall{ownerID: ownerID, department: department, event: event})
}

func orderRouter(l *mockOrderLedger, n *mockOrderNotifier, hub *mockHub) chi.Router {
	r := chi.NewRouter()
	r.Use(mw.Authenticate(testSecret))
	handler.NewOrderHandler(l, n, hub).RegisterRoutes(r)
	return r
}

func TestSubmitPendingComputesTotalAndAlerts(t *testing.T) {
	l := &mockOrderLedger{}
	n := &mockOrderNotifier{}
	r := orderRouter(l, n, &mockHub{})

	body := []byte(`{"table":4,"items":[
		{"menu_item_id":"a1","name":"Margherita","quantity":2,"line_total":19.0},
		{"menu_item_id":"b2","name":"Espresso","quantity":1,"line_total":2.5}
	]}`)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, authedRequest(t, http.MethodPost, "/orders/pending", body))

	if rec.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want 201: %s", rec.Code, rec.Body.String())
	}
	if len(l.createdPending) != 1 {
		t.Fatalf("pending created: got %d, want 1", len(l.createdPending))
	}
	created := l.createdPending[0]
	if created.OwnerID != testOwnerID {
		t.Errorf("owner id: got %q, want caller's id", created.OwnerID)
	}
	if created.Total != 21.5 {
		t.Errorf("total: got %v, want 21.5", created.Total)
	}
	if len(n.pendingAlerts) != 1 {
		t.Errorf("pending alerts sent: got %d, want 1", len(n.pendingAlerts))
	}
}

func TestSubmitPendingRejectsEmptyAndInvalidItems(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"no items", `{"table":4,"items":[]}`},
		{"zero quantity", `{"table":4,"items":[{"name":"Margherita","quantity":0,"line_total":9.5}]}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			l := &mockOrderLedger{}
			r := orderRouter(l, &mockOrderNotifier{}, &mockHub{})

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, authedRequest(t, http.MethodPost, "/orders/pending", []byte(tc.body)))

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status: got %d, want 400", rec.Code)
			}
			if len(l.createdPending) != 0 {
				t.Error("nothing should be created")
			}
		})
	}
}

func TestApproveFansOutNotificationsAndBroadcasts(t *testing.T) {
	pendingID := primitive.NewObjectID().Hex()
	order := model.Order{ID: primitive.NewObjectID(), OwnerID: testOwnerID, Table: 4, Status: "approved"}

	l := &mockOrderLedger{
		pending: map[string]model.PendingOrder{
			pendingID: {OwnerID: testOwnerID, Table: 4},
		},
		approveResult: &ledger.ApprovalResult{
			Order:   order,
			Kitchen: []model.OrderItem{{Name: "Margherita", Quantity: 1, Department: "kitchen"}},
			Bar:     []model.OrderItem{{Name: "Espresso", Quantity: 1, Department: "bar"}},
		},
	}
	n := &mockOrderNotifier{}
	hub := &mockHub{}
	r := orderRouter(l, n, hub)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, authedRequest(t, http.MethodPost, "/orders/pending/"+pendingID+"/approve", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if len(l.approvedIDs) != 1 || l.approvedIDs[0] != pendingID {
		t.Errorf("approved ids: got %v", l.approvedIDs)
	}
	if len(n.orderAlerts) != 1 {
		t.Errorf("order alerts: got %d, want 1", len(n.orderAlerts))
	}
	if len(n.deptSends) != 2 {
		t.Errorf("department sends: got %v, want both departments", n.deptSends)
	}

	if len(hub.calls) != 2 {
		t.Fatalf("broadcasts: got %d, want 2", len(hub.calls))
	}
	depts := map[string]bool{}
	for _, call := range hub.calls {
		if call.ownerID != testOwnerID {
			t.Errorf("broadcast owner: got %q", call.ownerID)
		}
		if call.event.Type != "department_order_created" {
			t.Errorf("event type: got %q", call.event.Type)
		}
		depts[call.department] = true
	}
	if !depts["kitchen"] || !depts["bar"] {
		t.Errorf("broadcast departments: got %v", depts)
	}
}

func TestApproveForeignPendingOrderForbidden(t *testing.T) {
	pendingID := primitive.NewObjectID().Hex()
	l := &mockOrderLedger{
		pending: map[string]model.PendingOrder{
			pendingID: {OwnerID: primitive.NewObjectID().Hex(), Table: 4},
		},
	}
	r := orderRouter(l, &mockOrderNotifier{}, &mockHub{})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, authedRequest(t, http.MethodPost, "/orders/pending/"+pendingID+"/approve", nil))

	if rec.Code != http.StatusForbidden {
		t.Errorf("status: got %d, want 403", rec.Code)
	}
	if len(l.approvedIDs) != 0 {
		t.Error("foreign pending order must not be approved")
	}
}

func TestApproveReportsPartialSteps(t *testing.T) {
	pendingID := primitive.NewObjectID().Hex()
	l := &mockOrderLedger{
		pending: map[string]model.PendingOrder{
			pendingID: {OwnerID: testOwnerID, Table: 4},
		},
		approveResult: &ledger.ApprovalResult{
			Steps: []ledger.StepResult{
				{Name: ledger.StepCreateOrder},
				{Name: ledger.StepLoadMenu, Err: errors.New("store down")},
			},
		},
		approveErr: errors.New("approve pending order: step load_menu: store down"),
	}
	hub := &mockHub{}
	r := orderRouter(l, &mockOrderNotifier{}, hub)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, authedRequest(t, http.MethodPost, "/orders/pending/"+pendingID+"/approve", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status: got %d, want 500", rec.Code)
	}
	var resp struct {
		Error string   `json:"error"`
		Steps []string `json:"steps"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Steps) != 2 || resp.Steps[0] != "create_order" || resp.Steps[1] != "load_menu" {
		t.Errorf("steps: got %v", resp.Steps)
	}
	if len(hub.calls) != 0 {
		t.Error("no broadcasts on failed approval")
	}
}

func TestRejectDeletesPending(t *testing.T) {
	pendingID := primitive.NewObjectID().Hex()
	l := &mockOrderLedger{
		pending: map[string]model.PendingOrder{
			pendingID: {OwnerID: testOwnerID, Table: 4},
		},
	}
	r := orderRouter(l, &mockOrderNotifier{}, &mockHub{})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, authedRequest(t, http.MethodPost, "/orders/pending/"+pendingID+"/reject", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	if len(l.rejectedIDs) != 1 || l.rejectedIDs[0] != pendingID {
		t.Errorf("rejected ids: got %v", l.rejectedIDs)
	}
}

func TestListDepartmentRejectsUnknownDepartment(t *testing.T) {
	r := orderRouter(&mockOrderLedger{}, &mockOrderNotifier{}, &mockHub{})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, authedRequest(t, http.MethodGet, "/departments/patio/orders", nil))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rec.Code)
	}
}

func TestCompleteDepartmentBroadcasts(t *testing.T) {
	l := &mockOrderLedger{completeMatched: true}
	hub := &mockHub{}
	r := orderRouter(l, &mockOrderNotifier{}, hub)

	orderID := primitive.NewObjectID().Hex()
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, authedRequest(t, http.MethodPost, "/departments/bar/orders/"+orderID+"/complete", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	if len(l.completions) != 1 || l.completions[0] != [2]string{orderID, "bar"} {
		t.Errorf("completions: got %v", l.completions)
	}
	if len(hub.calls) != 1 || hub.calls[0].event.Type != "department_order_completed" {
		t.Errorf("broadcasts: got %+v", hub.calls)
	}
}

func TestCompleteDepartmentNoMatchSkipsBroadcast(t *testing.T) {
	l := &mockOrderLedger{completeMatched: false}
	hub := &mockHub{}
	r := orderRouter(l, &mockOrderNotifier{}, hub)

	orderID := primitive.NewObjectID().Hex()
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, authedRequest(t, http.MethodPost, "/departments/bar/orders/"+orderID+"/complete", nil))

	// Still a quiet no-op success, but the display hears nothing.
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	if len(hub.calls) != 0 {
		t.Errorf("broadcasts: got %+v, want none", hub.calls)
	}
}
