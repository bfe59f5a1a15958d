package worker

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"inventory-service/internal/broker"
	"inventory-service/internal/inventory"
	"inventory-service/internal/models"
	"inventory-service/internal/util"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// StockWatcher consumes order and adjustment events and flags products whose
// on-hand count has fallen to or below their reorder threshold.
type StockWatcher struct {
	consumer *broker.Consumer
	ledger   inventory.Ledger
	events   *broker.EventPublisher
	logger   *zap.Logger
}

// NewStockWatcher creates a new stock watcher
func NewStockWatcher(consumer *broker.Consumer, ledger inventory.Ledger, events *broker.EventPublisher) *StockWatcher {
	return &StockWatcher{
		consumer: consumer,
		ledger:   ledger,
		events:   events,
		logger:   util.GetLogger(),
	}
}

// Start starts the watcher
func (w *StockWatcher) Start(ctx context.Context) error {
	w.logger.Info("Starting stock watcher")
	return w.consumer.StartConsuming(ctx, w.handleMessage)
}

// Stop stops the watcher
func (w *StockWatcher) Stop() error {
	w.logger.Info("Stopping stock watcher")
	return w.consumer.Close()
}

func (w *StockWatcher) handleMessage(ctx context.Context, msg kafka.Message) error {
	var base models.BaseEvent
	if err := json.Unmarshal(msg.Value, &base); err != nil {
		w.logger.Warn("Failed to unmarshal event", zap.Error(err))
		return nil // poison message, skip
	}

	var productIDs []string
	switch base.EventType {
	case models.EventTypeOrderCreated, models.EventTypeOrderUpdated:
		var event struct {
			Items []models.EventItem `json:"items"`
		}
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			return nil
		}
		for _, it := range event.Items {
			productIDs = append(productIDs, it.ProductID)
		}
	case models.EventTypeStockAdjusted:
		var event models.StockAdjustedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			return nil
		}
		productIDs = append(productIDs, event.ProductID)
	default:
		return nil
	}

	for _, id := range productIDs {
		if err := w.checkProduct(ctx, base.OrgID, id); err != nil {
			w.logger.Warn("Low-stock check failed",
				zap.String("product_id", id),
				zap.Error(err))
		}
	}
	return nil
}

func (w *StockWatcher) checkProduct(ctx context.Context, orgID, productID string) error {
	product, err := w.ledger.GetProduct(ctx, orgID, productID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil // deleted since the event was written
		}
		return err
	}

	if product.Quantity > product.MinStock {
		return nil
	}

	util.LowStockFlagsTotal.Inc()
	w.logger.Warn("Product at or below reorder threshold",
		zap.String("product_id", product.ID),
		zap.String("sku", product.SKU),
		zap.Int("quantity", product.Quantity),
		zap.Int("min_stock", product.MinStock))

	if w.events != nil {
		event := &models.LowStockEvent{
			BaseEvent: models.BaseEvent{
				EventID:   uuid.NewString(),
				EventType: models.EventTypeLowStock,
				OrgID:     orgID,
				Timestamp: time.Now(),
			},
			ProductID: product.ID,
			SKU:       product.SKU,
			Quantity:  product.Quantity,
			MinStock:  product.MinStock,
		}
		if err := w.events.PublishLowStock(ctx, event); err != nil {
			return err
		}
	}
	return nil
}
