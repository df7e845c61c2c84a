// Package ledger owns persistence and aggregation for menu items, orders,
// department queues, and per-table running bills.
package ledger

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/restolink/api/internal/enum"
	"github.com/restolink/api/internal/model"
)

// taxRate applies to each increment of a bill's subtotal, never to the
// cumulative subtotal.
const taxRate = 0.15

// MenuStore defines the menu methods the ledger needs.
// Satisfied by *store.Store; narrow interface for testability.
type MenuStore interface {
	CreateMenuItem(ctx context.Context, item model.MenuItem) (model.MenuItem, error)
	ListMenuItems(ctx context.Context, ownerID string) ([]model.MenuItem, error)
	IncrementMenuItemViews(ctx context.Context, ownerID, id string) error
}

// OrderStore defines the order and pending-order methods the ledger needs.
type OrderStore interface {
	CreatePendingOrder(ctx context.Context, p model.PendingOrder) (model.PendingOrder, error)
	GetPendingOrder(ctx context.Context, id string) (model.PendingOrder, error)
	DeletePendingOrder(ctx context.Context, id string) error
	CreateOrder(ctx context.Context, o model.Order) (model.Order, error)
	GetOrder(ctx context.Context, id string) (model.Order, error)
	ListOrders(ctx context.Context, ownerID string) ([]model.Order, error)
	SetOrderPaymentStatus(ctx context.Context, id, status string) error
}

// DepartmentStore defines the department-queue methods the ledger needs.
type DepartmentStore interface {
	CreateDepartmentOrder(ctx context.Context, d model.DepartmentOrder) (model.DepartmentOrder, error)
	ListDepartmentOrders(ctx context.Context, ownerID, department string) ([]model.DepartmentOrder, error)
	CompleteDepartmentOrder(ctx context.Context, orderID, department string) (int64, error)
}

// BillStore defines the table-bill methods the ledger needs.
type BillStore interface {
	FindActiveBill(ctx context.Context, ownerID string, table int) (*model.TableBill, error)
	CreateBill(ctx context.Context, bill model.TableBill) (model.TableBill, error)
	UpdateBillTotals(ctx context.Context, id primitive.ObjectID, items []model.OrderItem, subtotal, tax, total float64) error
	CloseBill(ctx context.Context, ownerID string, table int) error
}

// Ledger is the data-access service. Stateless; every method is one or more
// round trips to the document store.
type Ledger struct {
	menu  MenuStore
	order OrderStore
	dept  DepartmentStore
	bill  BillStore
}

// New creates a Ledger. All four interfaces are satisfied by *store.Store.
func New(menu MenuStore, order OrderStore, dept DepartmentStore, bill BillStore) *Ledger {
	return &Ledger{menu: menu, order: order, dept: dept, bill: bill}
}

// ListMenuItems returns the owner's menu, departments defaulted to kitchen.
func (l *Ledger) ListMenuItems(ctx context.Context, ownerID string) ([]model.MenuItem, error) {
	items, err := l.menu.ListMenuItems(ctx, ownerID)
	if err != nil {
		log.Printf("ERROR: list menu items: %v", err)
		return nil, err
	}
	return items, nil
}

// CreateMenuItem persists a menu item, defaulting the department to kitchen.
func (l *Ledger) CreateMenuItem(ctx context.Context, item model.MenuItem) (model.MenuItem, error) {
	created, err := l.menu.CreateMenuItem(ctx, item)
	if err != nil {
		log.Printf("ERROR: create menu item: %v", err)
		return model.MenuItem{}, err
	}
	return created, nil
}

// IncrementMenuItemViews bumps the view counter on an item the owner holds.
func (l *Ledger) IncrementMenuItemViews(ctx context.Context, ownerID, id string) error {
	if err := l.menu.IncrementMenuItemViews(ctx, ownerID, id); err != nil {
		log.Printf("ERROR: increment menu item views: %v", err)
		return err
	}
	return nil
}

// CreatePendingOrder persists a submitted order awaiting approval.
func (l *Ledger) CreatePendingOrder(ctx context.Context, p model.PendingOrder) (model.PendingOrder, error) {
	created, err := l.order.CreatePendingOrder(ctx, p)
	if err != nil {
		log.Printf("ERROR: create pending order: %v", err)
		return model.PendingOrder{}, err
	}
	return created, nil
}

// GetPendingOrder fetches a pending order by id.
func (l *Ledger) GetPendingOrder(ctx context.Context, id string) (model.PendingOrder, error) {
	p, err := l.order.GetPendingOrder(ctx, id)
	if err != nil {
		log.Printf("ERROR: get pending order %s: %v", id, err)
		return model.PendingOrder{}, err
	}
	return p, nil
}

// RejectPendingOrder deletes the pending record without creating an order.
func (l *Ledger) RejectPendingOrder(ctx context.Context, id string) error {
	if err := l.order.DeletePendingOrder(ctx, id); err != nil {
		log.Printf("ERROR: reject pending order %s: %v", id, err)
		return err
	}
	return nil
}

// CreateOrder persists an order directly.
func (l *Ledger) CreateOrder(ctx context.Context, o model.Order) (model.Order, error) {
	created, err := l.order.CreateOrder(ctx, o)
	if err != nil {
		log.Printf("ERROR: create order: %v", err)
		return model.Order{}, err
	}
	return created, nil
}

// GetOrder fetches an order by id.
func (l *Ledger) GetOrder(ctx context.Context, id string) (model.Order, error) {
	o, err := l.order.GetOrder(ctx, id)
	if err != nil {
		log.Printf("ERROR: get order %s: %v", id, err)
		return model.Order{}, err
	}
	return o, nil
}

// ListOrders returns the owner's orders, newest first.
func (l *Ledger) ListOrders(ctx context.Context, ownerID string) ([]model.Order, error) {
	orders, err := l.order.ListOrders(ctx, ownerID)
	if err != nil {
		log.Printf("ERROR: list orders: %v", err)
		return nil, err
	}
	return orders, nil
}

// SetOrderPaymentStatus transitions an order's payment status.
func (l *Ledger) SetOrderPaymentStatus(ctx context.Context, orderID, status string) error {
	if err := l.order.SetOrderPaymentStatus(ctx, orderID, status); err != nil {
		log.Printf("ERROR: set payment status on order %s: %v", orderID, err)
		return err
	}
	return nil
}

// DepartmentOrderView is a department record with the unified timestamp
// callers read (completion time when present, else creation).
type DepartmentOrderView struct {
	model.DepartmentOrder
	Timestamp string `json:"timestamp"`
}

// ListDepartmentOrders returns the owner's queue for one department, newest
// first, each record carrying the unified timestamp.
func (l *Ledger) ListDepartmentOrders(ctx context.Context, ownerID, department string) ([]DepartmentOrderView, error) {
	records, err := l.dept.ListDepartmentOrders(ctx, ownerID, department)
	if err != nil {
		log.Printf("ERROR: list %s orders: %v", department, err)
		return nil, err
	}
	views := make([]DepartmentOrderView, len(records))
	for i, rec := range records {
		views[i] = DepartmentOrderView{
			DepartmentOrder: rec,
			Timestamp:       rec.Timestamp().Format(time.RFC3339),
		}
	}
	return views, nil
}

// MarkDepartmentOrderComplete sets the (orderID, department) record to
// completed. A missing record is a no-op, not an error; the boolean tells
// the caller whether anything actually completed.
func (l *Ledger) MarkDepartmentOrderComplete(ctx context.Context, orderID, department string) (bool, error) {
	matched, err := l.dept.CompleteDepartmentOrder(ctx, orderID, department)
	if err != nil {
		log.Printf("ERROR: complete %s order %s: %v", department, orderID, err)
		return false, err
	}
	if matched == 0 {
		log.Printf("no %s record found for order %s, nothing to complete", department, orderID)
		return false, nil
	}
	return true, nil
}

// UpsertTableBill merges items into the (owner, table) active bill, creating
// one when none exists. Tax accumulates as 15% of each merged increment.
//
// Read-then-write with no concurrency guard: two simultaneous merges for the
// same table can lose an update. Accepted limitation.
func (l *Ledger) UpsertTableBill(ctx context.Context, ownerID string, table int, items []model.OrderItem) (model.TableBill, error) {
	var incoming float64
	for _, item := range items {
		incoming += item.LineTotal
	}

	existing, err := l.bill.FindActiveBill(ctx, ownerID, table)
	if err != nil {
		log.Printf("ERROR: find active bill for table %d: %v", table, err)
		return model.TableBill{}, err
	}

	if existing == nil {
		bill := model.TableBill{
			OwnerID:  ownerID,
			Table:    table,
			Items:    items,
			Subtotal: incoming,
			Tax:      incoming * taxRate,
		}
		bill.Total = bill.Subtotal + bill.Tax
		created, err := l.bill.CreateBill(ctx, bill)
		if err != nil {
			log.Printf("ERROR: create bill for table %d: %v", table, err)
			return model.TableBill{}, err
		}
		return created, nil
	}

	existing.Items = append(existing.Items, items...)
	existing.Subtotal += incoming
	existing.Tax += incoming * taxRate
	existing.Total = existing.Subtotal + existing.Tax
	if err := l.bill.UpdateBillTotals(ctx, existing.ID, existing.Items, existing.Subtotal, existing.Tax, existing.Total); err != nil {
		log.Printf("ERROR: update bill %s: %v", existing.ID.Hex(), err)
		return model.TableBill{}, err
	}
	return *existing, nil
}

// GetActiveTableBill returns the active bill for (owner, table), or nil when
// the table has none.
func (l *Ledger) GetActiveTableBill(ctx context.Context, ownerID string, table int) (*model.TableBill, error) {
	bill, err := l.bill.FindActiveBill(ctx, ownerID, table)
	if err != nil {
		log.Printf("ERROR: get active bill for table %d: %v", table, err)
		return nil, err
	}
	return bill, nil
}

// CloseTableBill marks the table's active bill closed.
func (l *Ledger) CloseTableBill(ctx context.Context, ownerID string, table int) error {
	if err := l.bill.CloseBill(ctx, ownerID, table); err != nil {
		log.Printf("ERROR: close bill for table %d: %v", table, err)
		return err
	}
	return nil
}

// StepResult records the outcome of one approval step.
type StepResult struct {
	Name string `json:"name"`
	Err  error  `json:"-"`
}

// ApprovalResult is the outcome of the approval workflow: the created order,
// the department partitions, and every step that ran with its result. On
// failure the steps list shows exactly how far the workflow got — earlier
// steps stay committed, there is no rollback.
type ApprovalResult struct {
	Order   model.Order       `json:"order"`
	Kitchen []model.OrderItem `json:"kitchen_items"`
	Bar     []model.OrderItem `json:"bar_items"`
	Steps   []StepResult      `json:"steps"`
}

// Approval step names, in execution order.
const (
	StepLoadMenu         = "load_menu"
	StepCreateOrder      = "create_order"
	StepDepartmentOrders = "create_department_orders"
	StepMergeBill        = "merge_bill"
	StepDeletePending    = "delete_pending"
)

// ApprovePendingOrder turns a pending order into an approved order:
//
//  1. load the owner's menu and partition items by department
//  2. create the Order from the stamped items (status approved, payment
//     pending)
//  3. create a department record per non-empty partition
//  4. merge the stamped items into the table's active bill
//  5. delete the pending record
//
// Partitioning runs first so the persisted order carries the department tag
// on every item; the notification layer filters on it.
//
// Not atomic. A failing step aborts the sequence and is reported with the
// partial result; completed steps are not compensated.
func (l *Ledger) ApprovePendingOrder(ctx context.Context, pendingID string, pending model.PendingOrder) (*ApprovalResult, error) {
	result := &ApprovalResult{}

	steps := []struct {
		name string
		run  func() error
	}{
		{StepLoadMenu, func() error {
			menu, err := l.menu.ListMenuItems(ctx, pending.OwnerID)
			if err != nil {
				return err
			}
			result.Kitchen, result.Bar = PartitionByDepartment(pending.Items, BuildDepartmentIndex(menu))
			return nil
		}},
		{StepCreateOrder, func() error {
			items := make([]model.OrderItem, 0, len(pending.Items))
			items = append(items, result.Kitchen...)
			items = append(items, result.Bar...)
			order, err := l.order.CreateOrder(ctx, model.Order{
				OwnerID:       pending.OwnerID,
				Table:         pending.Table,
				Items:         items,
				Total:         pending.Total,
				Status:        enum.OrderStatusApproved,
				PaymentStatus: enum.PaymentStatusPending,
			})
			if err != nil {
				return err
			}
			result.Order = order
			return nil
		}},
		{StepDepartmentOrders, func() error {
			partitions := []struct {
				department string
				items      []model.OrderItem
			}{
				{enum.DepartmentKitchen, result.Kitchen},
				{enum.DepartmentBar, result.Bar},
			}
			for _, p := range partitions {
				if len(p.items) == 0 {
					continue
				}
				_, err := l.dept.CreateDepartmentOrder(ctx, model.DepartmentOrder{
					OrderID:    result.Order.ID.Hex(),
					OwnerID:    pending.OwnerID,
					Department: p.department,
					Items:      p.items,
				})
				if err != nil {
					return err
				}
			}
			return nil
		}},
		{StepMergeBill, func() error {
			_, err := l.UpsertTableBill(ctx, pending.OwnerID, pending.Table, result.Order.Items)
			return err
		}},
		{StepDeletePending, func() error {
			return l.order.DeletePendingOrder(ctx, pendingID)
		}},
	}

	for _, step := range steps {
		err := step.run()
		result.Steps = append(result.Steps, StepResult{Name: step.name, Err: err})
		if err != nil {
			log.Printf("ERROR: approve pending order %s: step %s: %v", pendingID, step.name, err)
			return result, fmt.Errorf("approve pending order: step %s: %w", step.name, err)
		}
	}
	return result, nil
}
