package enum

// ── Departments (routing tag on menu items) ──

const (
	DepartmentKitchen = "kitchen"
	DepartmentBar     = "bar"
)

// Departments lists every valid department, in display order.
var Departments = []string{DepartmentKitchen, DepartmentBar}

const (
	OrderStatusApproved  = "approved"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"
)

const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusRejected = "rejected"
)

const (
	DepartmentOrderPending   = "pending"
	DepartmentOrderCompleted = "completed"
)

const (
	BillStatusActive = "active"
	BillStatusClosed = "closed"
)

const (
	UserRoleOwner = "OWNER"
	UserRoleStaff = "STAFF"
)

// ── Action-control tokens (callback_data contract) ──
//
// Tokens rendered into inline buttons follow "{verb}_{domain}_{id}".
// The webhook handler parses them back; both sides must agree exactly.

const (
	TokenVerbApprove = "approve"
	TokenVerbReject  = "reject"
	TokenVerbReady   = "ready"
	TokenVerbDelay   = "delay"
)

const (
	TokenDomainOrder   = "order"
	TokenDomainPayment = "payment"
	TokenDomainKitchen = DepartmentKitchen
	TokenDomainBar     = DepartmentBar
)
