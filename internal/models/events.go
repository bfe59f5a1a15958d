package models

import "time"

// Event types
const (
	EventTypeOrderCreated  = "ORDER_CREATED"
	EventTypeOrderUpdated  = "ORDER_UPDATED"
	EventTypeOrderDeleted  = "ORDER_DELETED"
	EventTypeStockAdjusted = "STOCK_ADJUSTED"
	EventTypeLowStock      = "LOW_STOCK"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	OrgID     string    `json:"org_id"`
	Timestamp time.Time `json:"timestamp"`
}

// EventItem represents one order line inside an event payload
type EventItem struct {
	ProductID  string `json:"product_id"`
	Quantity   int    `json:"quantity"`
	PriceCents int64  `json:"price_cents"`
}

// OrderCreatedEvent published after an order create commits
type OrderCreatedEvent struct {
	BaseEvent
	OrderID     string      `json:"order_id"`
	OrderNumber string      `json:"order_number"`
	CustomerID  string      `json:"customer_id"`
	TotalCents  int64       `json:"total_cents"`
	Items       []EventItem `json:"items"`
}

// OrderUpdatedEvent published after an order update commits. Items is the
// replacement item set, not a diff.
type OrderUpdatedEvent struct {
	BaseEvent
	OrderID     string      `json:"order_id"`
	OrderNumber string      `json:"order_number"`
	TotalCents  int64       `json:"total_cents"`
	Items       []EventItem `json:"items"`
}

// OrderDeletedEvent published after an order delete commits. Items lists the
// lines whose stock was restored.
type OrderDeletedEvent struct {
	BaseEvent
	OrderID     string      `json:"order_id"`
	OrderNumber string      `json:"order_number"`
	Items       []EventItem `json:"items"`
}

// StockAdjustedEvent published after a manual stock adjustment commits
type StockAdjustedEvent struct {
	BaseEvent
	ProductID   string `json:"product_id"`
	Delta       int    `json:"delta"`
	NewQuantity int    `json:"new_quantity"`
	Reference   string `json:"reference,omitempty"`
}

// LowStockEvent published by the stock watcher when a product falls to or
// below its reorder threshold
type LowStockEvent struct {
	BaseEvent
	ProductID string `json:"product_id"`
	SKU       string `json:"sku"`
	Quantity  int    `json:"quantity"`
	MinStock  int    `json:"min_stock"`
}
