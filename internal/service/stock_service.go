package service

import (
	"context"
	"time"

	"inventory-service/internal/broker"
	"inventory-service/internal/inventory"
	"inventory-service/internal/models"
	"inventory-service/internal/redisclient"
	"inventory-service/internal/util"

	"go.uber.org/zap"
)

// StockService handles manual stock adjustments and product reads. It is the
// only mutator of product quantities besides the order coordinator, and it
// goes through the same locked transaction and movement ledger.
type StockService struct {
	ledger    inventory.Ledger
	movements *inventory.MovementWriter
	cache     *redisclient.Client
	events    *broker.EventPublisher
	logger    *zap.Logger
	cacheTTL  time.Duration
}

// NewStockService creates a new stock service. Cache and events may be nil.
func NewStockService(
	ledger inventory.Ledger,
	movements *inventory.MovementWriter,
	cache *redisclient.Client,
	events *broker.EventPublisher,
	cacheTTL time.Duration,
) *StockService {
	return &StockService{
		ledger:    ledger,
		movements: movements,
		cache:     cache,
		events:    events,
		logger:    util.GetLogger(),
		cacheTTL:  cacheTTL,
	}
}

// AdjustStockRequest is a manual correction to a product's on-hand count.
type AdjustStockRequest struct {
	Delta     int    `json:"delta" binding:"required"`
	Reference string `json:"reference"`
	Notes     string `json:"notes"`
}

// AdjustStock applies a signed delta to a product and writes one ADJUSTMENT
// movement, in one transaction. A delta that would drive the quantity below
// zero is rejected with no side effects.
func (s *StockService) AdjustStock(ctx context.Context, orgID, userID, productID string, req *AdjustStockRequest) (*models.Product, error) {
	ctx, span := util.StartSpan(ctx, "StockService.AdjustStock")
	defer span.End()

	if orgID == "" || userID == "" {
		return nil, models.ErrUnauthorized
	}
	if req.Delta == 0 {
		return nil, &models.ValidationError{Field: "delta", Reason: "must not be zero"}
	}

	var updated *models.Product
	err := s.ledger.WithTx(ctx, func(tx inventory.Tx) error {
		products, err := tx.ProductsForUpdate(ctx, orgID, []string{productID})
		if err != nil {
			return err
		}
		p, ok := products[productID]
		if !ok {
			return &models.NotFoundError{Entity: "product", ID: productID}
		}
		if p.Quantity+req.Delta < 0 {
			return &models.InsufficientStockError{
				ProductID: p.ID,
				Available: p.Quantity,
				Requested: -req.Delta,
			}
		}

		if err := tx.AddProductQuantity(ctx, productID, req.Delta); err != nil {
			return err
		}
		if err := s.movements.Adjustment(ctx, tx, orgID, productID, userID,
			req.Delta, req.Reference, req.Notes); err != nil {
			return err
		}

		p.Quantity += req.Delta
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	util.StockAdjustmentsTotal.Inc()
	util.MovementsRecordedTotal.WithLabelValues(models.MovementTypeAdjustment).Inc()
	s.logger.Info("Stock adjusted",
		zap.String("product_id", productID),
		zap.Int("delta", req.Delta),
		zap.Int("quantity", updated.Quantity))

	if s.cache != nil {
		if err := s.cache.InvalidateProducts(ctx, productID); err != nil {
			s.logger.Warn("Failed to invalidate product cache", zap.Error(err))
		}
	}
	if s.events != nil {
		event := &models.StockAdjustedEvent{
			BaseEvent:   newBaseEvent(models.EventTypeStockAdjusted, orgID),
			ProductID:   productID,
			Delta:       req.Delta,
			NewQuantity: updated.Quantity,
			Reference:   req.Reference,
		}
		if err := s.events.PublishStockAdjusted(ctx, event); err != nil {
			s.logger.Error("Failed to publish StockAdjusted event", zap.Error(err))
		}
	}

	return updated, nil
}

// GetProduct retrieves a product, serving from the cache when possible.
func (s *StockService) GetProduct(ctx context.Context, orgID, productID string) (*models.Product, error) {
	if s.cache != nil {
		if p, err := s.cache.GetProduct(ctx, productID); err == nil && p != nil && p.OrgID == orgID {
			return p, nil
		}
	}

	p, err := s.ledger.GetProduct(ctx, orgID, productID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetProduct(ctx, p, s.cacheTTL); err != nil {
			s.logger.Warn("Failed to cache product", zap.Error(err))
		}
	}
	return p, nil
}

// ListMovements returns the movement ledger for a product.
func (s *StockService) ListMovements(ctx context.Context, orgID, productID string) ([]models.InventoryMovement, error) {
	if _, err := s.ledger.GetProduct(ctx, orgID, productID); err != nil {
		return nil, err
	}
	return s.ledger.ListMovementsByProduct(ctx, orgID, productID)
}
