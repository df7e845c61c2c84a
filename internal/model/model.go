package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an owner or staff account. Passwords are stored as bcrypt hashes.
type User struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Email          string             `bson:"email" json:"email"`
	HashedPassword string             `bson:"hashed_password" json:"-"`
	FullName       string             `bson:"full_name" json:"full_name"`
	Role           string             `bson:"role" json:"role"`
	CreatedAt      time.Time          `bson:"created_at" json:"created_at"`
}

// MenuItem is a sellable item owned by a single account. Department routes
// its order lines to the kitchen or bar queue; absent means kitchen.
type MenuItem struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID    string             `bson:"owner_id" json:"owner_id"`
	Name       string             `bson:"name" json:"name"`
	Price      float64            `bson:"price" json:"price"`
	Department string             `bson:"department,omitempty" json:"department"`
	Views      int64              `bson:"views" json:"views"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
}

// OrderItem is a denormalized order line. Department is stamped during
// approval partitioning; empty means kitchen.
type OrderItem struct {
	MenuItemID string  `bson:"menu_item_id" json:"menu_item_id"`
	Name       string  `bson:"name" json:"name"`
	Quantity   int     `bson:"quantity" json:"quantity"`
	LineTotal  float64 `bson:"line_total" json:"line_total"`
	Department string  `bson:"department,omitempty" json:"department,omitempty"`
}

// PendingOrder is a submitted order awaiting approve/reject. Deleted on
// either outcome.
type PendingOrder struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID   string             `bson:"owner_id" json:"owner_id"`
	Table     int                `bson:"table" json:"table"`
	Items     []OrderItem        `bson:"items" json:"items"`
	Total     float64            `bson:"total" json:"total"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// Order is an approved order. Core fields are immutable; only status and
// payment_status transition afterwards.
type Order struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID       string             `bson:"owner_id" json:"owner_id"`
	Table         int                `bson:"table" json:"table"`
	Items         []OrderItem        `bson:"items" json:"items"`
	Total         float64            `bson:"total" json:"total"`
	Status        string             `bson:"status" json:"status"`
	PaymentStatus string             `bson:"payment_status" json:"payment_status"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
}

// DepartmentOrder is the department-filtered slice of an order, one per
// department per order, created only when that department has items.
type DepartmentOrder struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OrderID     string             `bson:"order_id" json:"order_id"`
	OwnerID     string             `bson:"owner_id" json:"owner_id"`
	Department  string             `bson:"department" json:"department"`
	Items       []OrderItem        `bson:"items" json:"items"`
	Status      string             `bson:"status" json:"status"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
	CompletedAt *time.Time         `bson:"completed_at,omitempty" json:"completed_at,omitempty"`
}

// Timestamp is the completion time when set, else the creation time.
// Department queue listings expose this single field for callers.
func (d DepartmentOrder) Timestamp() time.Time {
	if d.CompletedAt != nil {
		return *d.CompletedAt
	}
	return d.CreatedAt
}

// TableBill is the running open tally for a physical table across orders.
// At most one active bill exists per (owner, table); total = subtotal + tax
// at all times, and tax accumulates per merged order (15% of each increment).
type TableBill struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OwnerID   string             `bson:"owner_id" json:"owner_id"`
	Table     int                `bson:"table" json:"table"`
	Items     []OrderItem        `bson:"items" json:"items"`
	Subtotal  float64            `bson:"subtotal" json:"subtotal"`
	Tax       float64            `bson:"tax" json:"tax"`
	Total     float64            `bson:"total" json:"total"`
	Status    string             `bson:"status" json:"status"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}

// PopularItem is one row of the top-items ranking in MenuStats.
type PopularItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// MonthlyRevenue is one point of the revenue series, keyed "YYYY-MM".
type MonthlyRevenue struct {
	Month   string  `json:"month"`
	Revenue float64 `json:"revenue"`
}

// MenuStats is a derived aggregate over an owner's full history. Never
// persisted; a zero value is a valid "nothing yet" answer.
type MenuStats struct {
	TotalOrders    int              `json:"total_orders"`
	TotalRevenue   float64          `json:"total_revenue"`
	TotalViews     int64            `json:"total_views"`
	PopularItems   []PopularItem    `json:"popular_items"`
	RecentOrders   []Order          `json:"recent_orders"`
	MonthlyRevenue []MonthlyRevenue `json:"monthly_revenue"`
}
