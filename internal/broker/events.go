package broker

import (
	"context"
	"fmt"

	"inventory-service/internal/models"
)

// EventPublisher publishes domain events. Order and stock events go to the
// orders topic; low-stock notices go to the alerts topic. Callers publish
// only after their store transaction has committed.
type EventPublisher struct {
	orders *Producer
	alerts *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(orders, alerts *Producer) *EventPublisher {
	return &EventPublisher{orders: orders, alerts: alerts}
}

// PublishOrderCreated publishes an OrderCreated event
func (ep *EventPublisher) PublishOrderCreated(ctx context.Context, event *models.OrderCreatedEvent) error {
	return ep.orders.PublishEvent(ctx, orderKey(event.OrderID), event)
}

// PublishOrderUpdated publishes an OrderUpdated event
func (ep *EventPublisher) PublishOrderUpdated(ctx context.Context, event *models.OrderUpdatedEvent) error {
	return ep.orders.PublishEvent(ctx, orderKey(event.OrderID), event)
}

// PublishOrderDeleted publishes an OrderDeleted event
func (ep *EventPublisher) PublishOrderDeleted(ctx context.Context, event *models.OrderDeletedEvent) error {
	return ep.orders.PublishEvent(ctx, orderKey(event.OrderID), event)
}

// PublishStockAdjusted publishes a StockAdjusted event
func (ep *EventPublisher) PublishStockAdjusted(ctx context.Context, event *models.StockAdjustedEvent) error {
	return ep.orders.PublishEvent(ctx, productKey(event.ProductID), event)
}

// PublishLowStock publishes a LowStock event to the alerts topic
func (ep *EventPublisher) PublishLowStock(ctx context.Context, event *models.LowStockEvent) error {
	return ep.alerts.PublishEvent(ctx, productKey(event.ProductID), event)
}

func orderKey(orderID string) string {
	return fmt.Sprintf("order-%s", orderID)
}

func productKey(productID string) string {
	return fmt.Sprintf("product-%s", productID)
}
