package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/restolink/api/internal/handler"
	mw "github.com/restolink/api/internal/middleware"
	"github.com/restolink/api/internal/model"
)

type mockBillLedger struct {
	bill   *model.TableBill
	closed []int
}

func (m *mockBillLedger) GetActiveTableBill(ctx context.Context, ownerID string, table int) (*model.TableBill, error) {
	return m.bill, nil
}

func (m *mockBillLedger) CloseTableBill(ctx context.Context, ownerID string, table int) error {
	m.closed = append(m.closed, table)
	return nil
}

func billRouter(l *mockBillLedger) chi.Router {
	r := chi.NewRouter()
	r.Use(mw.Authenticate(testSecret))
	handler.NewBillHandler(l).RegisterRoutes(r)
	return r
}

func TestGetActiveBill(t *testing.T) {
	l := &mockBillLedger{bill: &model.TableBill{
		ID:       primitive.NewObjectID(),
		OwnerID:  testOwnerID,
		Table:    3,
		Subtotal: 100,
		Tax:      15,
		Total:    115,
		Status:   "active",
	}}
	r := billRouter(l)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, authedRequest(t, http.MethodGet, "/tables/3/bill", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	var resp struct {
		Bill *model.TableBill `json:"bill"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Bill == nil || resp.Bill.Total != 115 {
		t.Errorf("bill: got %+v", resp.Bill)
	}
}

func TestGetActiveBillAbsentIsNull(t *testing.T) {
	r := billRouter(&mockBillLedger{})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, authedRequest(t, http.MethodGet, "/tables/9/bill", nil))

	// No open bill answers 200 with a null bill, never 404.
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	var resp struct {
		Bill *model.TableBill `json:"bill"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Bill != nil {
		t.Errorf("bill: got %+v, want null", resp.Bill)
	}
}

func TestGetActiveBillInvalidTable(t *testing.T) {
	r := billRouter(&mockBillLedger{})

	for _, table := range []string{"0", "-1", "abc"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, authedRequest(t, http.MethodGet, "/tables/"+table+"/bill", nil))
		if rec.Code != http.StatusBadRequest {
			t.Errorf("table %q: got %d, want 400", table, rec.Code)
		}
	}
}

func TestCloseBill(t *testing.T) {
	l := &mockBillLedger{}
	r := billRouter(l)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, authedRequest(t, http.MethodPost, "/tables/5/bill/close", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200", rec.Code)
	}
	if len(l.closed) != 1 || l.closed[0] != 5 {
		t.Errorf("closed tables: got %v", l.closed)
	}
}
