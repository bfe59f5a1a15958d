package models

import "time"

// Product statuses
const (
	ProductStatusActive       = "ACTIVE"
	ProductStatusInactive     = "INACTIVE"
	ProductStatusDiscontinued = "DISCONTINUED"
)

// Order statuses
const (
	OrderStatusPending    = "PENDING"
	OrderStatusProcessing = "PROCESSING"
	OrderStatusShipped    = "SHIPPED"
	OrderStatusDelivered  = "DELIVERED"
	OrderStatusCancelled  = "CANCELLED"
)

// Payment statuses
const (
	PaymentStatusPending       = "PENDING"
	PaymentStatusPaid          = "PAID"
	PaymentStatusPartiallyPaid = "PARTIALLY_PAID"
	PaymentStatusRefunded      = "REFUNDED"
	PaymentStatusFailed        = "FAILED"
)

// Payment types
const (
	PaymentTypePrepaid       = "PREPAID"
	PaymentTypePayOnDelivery = "PAY_ON_DELIVERY"
	PaymentTypeCredit        = "CREDIT"
)

// Inventory movement types
const (
	MovementTypeSale       = "SALE"
	MovementTypeReturn     = "RETURN"
	MovementTypeAdjustment = "ADJUSTMENT"
)

var validNextStatus = map[string]map[string]bool{
	OrderStatusPending:    {OrderStatusProcessing: true, OrderStatusCancelled: true},
	OrderStatusProcessing: {OrderStatusShipped: true, OrderStatusCancelled: true},
	OrderStatusShipped:    {OrderStatusDelivered: true},
	OrderStatusDelivered:  {},
	OrderStatusCancelled:  {},
}

// CanTransition reports whether an order may move from one status to another.
// Staying on the current status is always allowed.
func CanTransition(from, to string) bool {
	if from == to {
		return true
	}
	return validNextStatus[from][to]
}

// IsTerminalStatus reports whether an order status admits no further changes.
func IsTerminalStatus(status string) bool {
	return status == OrderStatusDelivered || status == OrderStatusCancelled
}

func IsValidOrderStatus(s string) bool {
	_, ok := validNextStatus[s]
	return ok
}

func IsValidPaymentStatus(s string) bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusPartiallyPaid,
		PaymentStatusRefunded, PaymentStatusFailed:
		return true
	}
	return false
}

func IsValidPaymentType(s string) bool {
	switch s {
	case PaymentTypePrepaid, PaymentTypePayOnDelivery, PaymentTypeCredit:
		return true
	}
	return false
}

// Customer represents a buyer within an organization
type Customer struct {
	ID        string    `db:"id" json:"id"`
	OrgID     string    `db:"org_id" json:"org_id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	Phone     string    `db:"phone" json:"phone,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Product represents a catalog item with its on-hand stock.
// Quantity is the authoritative on-hand count; it changes only through the
// order coordinator or an explicit stock adjustment.
type Product struct {
	ID          string    `db:"id" json:"id"`
	OrgID       string    `db:"org_id" json:"org_id"`
	WarehouseID string    `db:"warehouse_id" json:"warehouse_id,omitempty"`
	SKU         string    `db:"sku" json:"sku"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description,omitempty"`
	Quantity    int       `db:"quantity" json:"quantity"`
	MinStock    int       `db:"min_stock" json:"min_stock"`
	Status      string    `db:"status" json:"status"`
	Location    string    `db:"location" json:"location,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// Order represents a customer order. TotalCents is derived from the current
// item set and is recomputed on every mutation, never patched incrementally.
// OrderNumber is a display label, not an identity; joins always use ID.
type Order struct {
	ID              string    `db:"id" json:"id"`
	OrgID           string    `db:"org_id" json:"org_id"`
	OrderNumber     string    `db:"order_number" json:"order_number"`
	CustomerID      string    `db:"customer_id" json:"customer_id"`
	Status          string    `db:"status" json:"status"`
	PaymentStatus   string    `db:"payment_status" json:"payment_status"`
	PaymentType     string    `db:"payment_type" json:"payment_type"`
	TotalCents      int64     `db:"total_cents" json:"total_cents"`
	ShippingAddress string    `db:"shipping_address" json:"shipping_address,omitempty"`
	Notes           string    `db:"notes" json:"notes,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time `db:"updated_at" json:"updated_at"`
}

// OrderItem represents one sale line of an order. PriceCents is the unit
// price snapshot taken at time of sale, independent of later catalog changes.
type OrderItem struct {
	ID         string `db:"id" json:"id"`
	OrderID    string `db:"order_id" json:"order_id"`
	ProductID  string `db:"product_id" json:"product_id"`
	Quantity   int    `db:"quantity" json:"quantity"`
	PriceCents int64  `db:"price_cents" json:"price_cents"`
}

// InventoryMovement is an append-only ledger row explaining one stock change.
// Quantity is signed: negative for stock leaving, positive for stock coming
// back. Rows are never edited; corrections are new offsetting rows.
type InventoryMovement struct {
	ID        string    `db:"id" json:"id"`
	OrgID     string    `db:"org_id" json:"org_id"`
	Type      string    `db:"type" json:"type"`
	Quantity  int       `db:"quantity" json:"quantity"`
	ProductID string    `db:"product_id" json:"product_id"`
	OrderID   *string   `db:"order_id" json:"order_id,omitempty"`
	UserID    string    `db:"user_id" json:"user_id"`
	Reference string    `db:"reference" json:"reference,omitempty"`
	Notes     string    `db:"notes" json:"notes,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
