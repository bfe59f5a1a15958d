package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"inventory-service/internal/broker"
	"inventory-service/internal/inventory"
	"inventory-service/internal/models"
	"inventory-service/internal/ordernum"
	"inventory-service/internal/redisclient"
	"inventory-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OrderService coordinates order create, update and delete as single atomic
// units of work. Each operation validates stock against locked product rows,
// applies the net quantity deltas and writes the movement ledger inside one
// store transaction; events and cache invalidation happen only after commit.
type OrderService struct {
	ledger    inventory.Ledger
	movements *inventory.MovementWriter
	cache     *redisclient.Client
	events    *broker.EventPublisher
	logger    *zap.Logger
}

// NewOrderService creates a new order service. Cache and events may be nil.
func NewOrderService(
	ledger inventory.Ledger,
	movements *inventory.MovementWriter,
	cache *redisclient.Client,
	events *broker.EventPublisher,
) *OrderService {
	return &OrderService{
		ledger:    ledger,
		movements: movements,
		cache:     cache,
		events:    events,
		logger:    util.GetLogger(),
	}
}

// OrderItemRequest represents one sale line in an order request. PriceCents
// is the caller-supplied unit price committed to the ledger, independent of
// the current catalog price.
type OrderItemRequest struct {
	ProductID  string `json:"product_id" binding:"required"`
	Quantity   int    `json:"quantity" binding:"required,min=1"`
	PriceCents int64  `json:"price_cents" binding:"min=0"`
}

// OrderRequest is the body shape shared by order create and update. Update
// treats Items as a full replacement, not a diff.
type OrderRequest struct {
	CustomerID      string             `json:"customer_id" binding:"required"`
	Items           []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
	Status          string             `json:"status"`
	PaymentStatus   string             `json:"payment_status"`
	PaymentType     string             `json:"payment_type" binding:"required"`
	ShippingAddress string             `json:"shipping_address"`
	Notes           string             `json:"notes"`
}

// OrderResponse is the fully materialized order returned on success.
type OrderResponse struct {
	Order    *models.Order      `json:"order"`
	Items    []models.OrderItem `json:"items"`
	Customer *models.Customer   `json:"customer"`
}

// CreateOrder creates an order, decrements stock and writes one SALE movement
// per line, all-or-nothing.
func (s *OrderService) CreateOrder(ctx context.Context, orgID, userID string, req *OrderRequest) (*OrderResponse, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.CreateOrder")
	defer span.End()

	if orgID == "" || userID == "" {
		return nil, models.ErrUnauthorized
	}
	if err := validateOrderRequest(req); err != nil {
		recordFailure("create", err)
		return nil, err
	}

	start := time.Now()
	defer func() {
		util.OrderTxLatency.WithLabelValues("create").Observe(time.Since(start).Seconds())
	}()

	var resp *OrderResponse
	err := s.ledger.WithTx(ctx, func(tx inventory.Tx) error {
		customer, err := tx.GetCustomer(ctx, orgID, req.CustomerID)
		if err != nil {
			return err
		}

		products, err := tx.ProductsForUpdate(ctx, orgID, productIDs(req.Items, nil))
		if err != nil {
			return err
		}
		if err := inventory.ValidateStock(requestedItems(req.Items), products); err != nil {
			return err
		}

		order := &models.Order{
			ID:              uuid.NewString(),
			OrgID:           orgID,
			OrderNumber:     ordernum.Generate(),
			CustomerID:      customer.ID,
			Status:          defaultString(req.Status, models.OrderStatusPending),
			PaymentStatus:   defaultString(req.PaymentStatus, models.PaymentStatusPending),
			PaymentType:     req.PaymentType,
			TotalCents:      orderTotal(req.Items),
			ShippingAddress: req.ShippingAddress,
			Notes:           req.Notes,
		}
		if err := tx.InsertOrder(ctx, order); err != nil {
			return err
		}

		items, err := s.writeSaleLines(ctx, tx, order, req.Items, userID, "order created")
		if err != nil {
			return err
		}

		resp = &OrderResponse{Order: order, Items: items, Customer: customer}
		return nil
	})
	if err != nil {
		recordFailure("create", err)
		return nil, err
	}

	util.OrdersCreatedTotal.Inc()
	util.MovementsRecordedTotal.WithLabelValues(models.MovementTypeSale).Add(float64(len(resp.Items)))
	s.logger.Info("Order created",
		zap.String("order_id", resp.Order.ID),
		zap.String("order_number", resp.Order.OrderNumber),
		zap.Int64("total_cents", resp.Order.TotalCents))

	s.invalidateProducts(ctx, resp.Items)
	if s.events != nil {
		event := &models.OrderCreatedEvent{
			BaseEvent:   newBaseEvent(models.EventTypeOrderCreated, orgID),
			OrderID:     resp.Order.ID,
			OrderNumber: resp.Order.OrderNumber,
			CustomerID:  resp.Order.CustomerID,
			TotalCents:  resp.Order.TotalCents,
			Items:       eventItems(resp.Items),
		}
		if err := s.events.PublishOrderCreated(ctx, event); err != nil {
			s.logger.Error("Failed to publish OrderCreated event", zap.Error(err))
		}
	}

	return resp, nil
}

// UpdateOrder replaces an order's item set and scalar fields. The prior stock
// effects are reversed first: each existing line's quantity is restored, the
// old movements and items are dropped, and the new lines are validated
// against the restored stock. A validation failure rolls back everything,
// including the restorative increments.
func (s *OrderService) UpdateOrder(ctx context.Context, orgID, userID, orderID string, req *OrderRequest) (*OrderResponse, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.UpdateOrder")
	defer span.End()

	if orgID == "" || userID == "" {
		return nil, models.ErrUnauthorized
	}
	if err := validateOrderRequest(req); err != nil {
		recordFailure("update", err)
		return nil, err
	}

	start := time.Now()
	defer func() {
		util.OrderTxLatency.WithLabelValues("update").Observe(time.Since(start).Seconds())
	}()

	var resp *OrderResponse
	var oldItems []models.OrderItem
	err := s.ledger.WithTx(ctx, func(tx inventory.Tx) error {
		order, err := tx.GetOrderForUpdate(ctx, orgID, orderID)
		if err != nil {
			return err
		}
		if models.IsTerminalStatus(order.Status) {
			return &models.ValidationError{Field: "status",
				Reason: fmt.Sprintf("order is %s and can no longer be modified", order.Status)}
		}
		newStatus := defaultString(req.Status, order.Status)
		if !models.CanTransition(order.Status, newStatus) {
			return &models.ValidationError{Field: "status",
				Reason: fmt.Sprintf("cannot transition from %s to %s", order.Status, newStatus)}
		}

		customer, err := tx.GetCustomer(ctx, orgID, req.CustomerID)
		if err != nil {
			return err
		}

		oldItems, err = tx.GetOrderItems(ctx, order.ID)
		if err != nil {
			return err
		}

		products, err := tx.ProductsForUpdate(ctx, orgID, productIDs(req.Items, oldItems))
		if err != nil {
			return err
		}

		// Reverse: restore the stock the existing lines consumed. No
		// movement rows are written for this; it only establishes the
		// baseline the new lines are validated against.
		for _, it := range oldItems {
			if err := tx.AddProductQuantity(ctx, it.ProductID, it.Quantity); err != nil {
				return err
			}
			if p := products[it.ProductID]; p != nil {
				p.Quantity += it.Quantity
			}
		}
		if err := tx.DeleteOrderMovements(ctx, order.ID); err != nil {
			return err
		}
		if err := tx.DeleteOrderItems(ctx, order.ID); err != nil {
			return err
		}

		// Reapply: validate and write the replacement lines.
		if err := inventory.ValidateStock(requestedItems(req.Items), products); err != nil {
			return err
		}

		order.CustomerID = customer.ID
		order.Status = newStatus
		order.PaymentStatus = defaultString(req.PaymentStatus, order.PaymentStatus)
		order.PaymentType = req.PaymentType
		order.TotalCents = orderTotal(req.Items)
		order.ShippingAddress = req.ShippingAddress
		order.Notes = req.Notes
		if err := tx.UpdateOrder(ctx, order); err != nil {
			return err
		}

		items, err := s.writeSaleLines(ctx, tx, order, req.Items, userID, "order updated")
		if err != nil {
			return err
		}

		resp = &OrderResponse{Order: order, Items: items, Customer: customer}
		return nil
	})
	if err != nil {
		recordFailure("update", err)
		return nil, err
	}

	util.OrdersUpdatedTotal.Inc()
	util.MovementsRecordedTotal.WithLabelValues(models.MovementTypeSale).Add(float64(len(resp.Items)))
	s.logger.Info("Order updated",
		zap.String("order_id", resp.Order.ID),
		zap.Int64("total_cents", resp.Order.TotalCents))

	s.invalidateProducts(ctx, append(oldItems, resp.Items...))
	if s.events != nil {
		event := &models.OrderUpdatedEvent{
			BaseEvent:   newBaseEvent(models.EventTypeOrderUpdated, orgID),
			OrderID:     resp.Order.ID,
			OrderNumber: resp.Order.OrderNumber,
			TotalCents:  resp.Order.TotalCents,
			Items:       eventItems(resp.Items),
		}
		if err := s.events.PublishOrderUpdated(ctx, event); err != nil {
			s.logger.Error("Failed to publish OrderUpdated event", zap.Error(err))
		}
	}

	return resp, nil
}

// DeleteOrder removes an order, restoring each line's stock and writing one
// RETURN movement per line. The RETURN rows reference the order number as
// free text, so they remain as the ledger trace after the order and its
// FK-linked movements are gone.
func (s *OrderService) DeleteOrder(ctx context.Context, orgID, userID, orderID string) error {
	ctx, span := util.StartSpan(ctx, "OrderService.DeleteOrder")
	defer span.End()

	if orgID == "" || userID == "" {
		return models.ErrUnauthorized
	}

	start := time.Now()
	defer func() {
		util.OrderTxLatency.WithLabelValues("delete").Observe(time.Since(start).Seconds())
	}()

	var deleted *models.Order
	var items []models.OrderItem
	err := s.ledger.WithTx(ctx, func(tx inventory.Tx) error {
		order, err := tx.GetOrderForUpdate(ctx, orgID, orderID)
		if err != nil {
			return err
		}

		items, err = tx.GetOrderItems(ctx, order.ID)
		if err != nil {
			return err
		}

		if _, err := tx.ProductsForUpdate(ctx, orgID, productIDs(nil, items)); err != nil {
			return err
		}

		for _, it := range items {
			if err := tx.AddProductQuantity(ctx, it.ProductID, it.Quantity); err != nil {
				return err
			}
			if err := s.movements.Return(ctx, tx, orgID, it.ProductID, userID,
				it.Quantity, order.OrderNumber, "order deleted"); err != nil {
				return err
			}
		}

		if err := tx.DeleteOrderMovements(ctx, order.ID); err != nil {
			return err
		}
		if err := tx.DeleteOrderItems(ctx, order.ID); err != nil {
			return err
		}
		if err := tx.DeleteOrder(ctx, order.ID); err != nil {
			return err
		}

		deleted = order
		return nil
	})
	if err != nil {
		recordFailure("delete", err)
		return err
	}

	util.OrdersDeletedTotal.Inc()
	util.MovementsRecordedTotal.WithLabelValues(models.MovementTypeReturn).Add(float64(len(items)))
	s.logger.Info("Order deleted",
		zap.String("order_id", deleted.ID),
		zap.String("order_number", deleted.OrderNumber))

	s.invalidateProducts(ctx, items)
	if s.events != nil {
		event := &models.OrderDeletedEvent{
			BaseEvent:   newBaseEvent(models.EventTypeOrderDeleted, orgID),
			OrderID:     deleted.ID,
			OrderNumber: deleted.OrderNumber,
			Items:       eventItems(items),
		}
		if err := s.events.PublishOrderDeleted(ctx, event); err != nil {
			s.logger.Error("Failed to publish OrderDeleted event", zap.Error(err))
		}
	}

	return nil
}

// GetOrder retrieves a fully materialized order.
func (s *OrderService) GetOrder(ctx context.Context, orgID, orderID string) (*OrderResponse, error) {
	order, err := s.ledger.GetOrder(ctx, orgID, orderID)
	if err != nil {
		return nil, err
	}
	items, err := s.ledger.GetOrderItems(ctx, orderID)
	if err != nil {
		return nil, err
	}
	customer, err := s.ledger.GetCustomer(ctx, orgID, order.CustomerID)
	if err != nil {
		return nil, err
	}
	return &OrderResponse{Order: order, Items: items, Customer: customer}, nil
}

// ListOrders retrieves the organization's orders.
func (s *OrderService) ListOrders(ctx context.Context, orgID string) ([]models.Order, error) {
	return s.ledger.ListOrders(ctx, orgID)
}

// writeSaleLines inserts the order items, decrements each product and writes
// the matching SALE movement, all through the given transaction.
func (s *OrderService) writeSaleLines(ctx context.Context, tx inventory.Tx, order *models.Order, reqItems []OrderItemRequest, userID, note string) ([]models.OrderItem, error) {
	items := make([]models.OrderItem, 0, len(reqItems))
	for _, it := range reqItems {
		item := models.OrderItem{
			ID:         uuid.NewString(),
			OrderID:    order.ID,
			ProductID:  it.ProductID,
			Quantity:   it.Quantity,
			PriceCents: it.PriceCents,
		}
		if err := tx.InsertOrderItem(ctx, &item); err != nil {
			return nil, err
		}
		if err := tx.AddProductQuantity(ctx, it.ProductID, -it.Quantity); err != nil {
			return nil, err
		}
		if err := s.movements.Sale(ctx, tx, order.OrgID, it.ProductID, order.ID,
			userID, it.Quantity, order.OrderNumber, note); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *OrderService) invalidateProducts(ctx context.Context, items []models.OrderItem) {
	if s.cache == nil || len(items) == 0 {
		return
	}
	ids := make([]string, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}
	if err := s.cache.InvalidateProducts(ctx, ids...); err != nil {
		s.logger.Warn("Failed to invalidate product cache", zap.Error(err))
	}
}

func validateOrderRequest(req *OrderRequest) error {
	if req.CustomerID == "" {
		return &models.ValidationError{Field: "customer_id", Reason: "is required"}
	}
	if len(req.Items) == 0 {
		return &models.ValidationError{Field: "items", Reason: "must not be empty"}
	}
	seen := make(map[string]bool, len(req.Items))
	for i, it := range req.Items {
		if it.ProductID == "" {
			return &models.ValidationError{Field: fmt.Sprintf("items[%d].product_id", i), Reason: "is required"}
		}
		if it.Quantity <= 0 {
			return &models.ValidationError{Field: fmt.Sprintf("items[%d].quantity", i), Reason: "must be positive"}
		}
		if it.PriceCents < 0 {
			return &models.ValidationError{Field: fmt.Sprintf("items[%d].price_cents", i), Reason: "must not be negative"}
		}
		if seen[it.ProductID] {
			return &models.ValidationError{Field: fmt.Sprintf("items[%d].product_id", i), Reason: "is duplicated"}
		}
		seen[it.ProductID] = true
	}
	if req.Status != "" && !models.IsValidOrderStatus(req.Status) {
		return &models.ValidationError{Field: "status", Reason: "unknown value"}
	}
	if req.PaymentStatus != "" && !models.IsValidPaymentStatus(req.PaymentStatus) {
		return &models.ValidationError{Field: "payment_status", Reason: "unknown value"}
	}
	if !models.IsValidPaymentType(req.PaymentType) {
		return &models.ValidationError{Field: "payment_type", Reason: "unknown value"}
	}
	return nil
}

// orderTotal computes the order total from the submitted lines. The total is
// always derived from the full item set, never patched incrementally.
func orderTotal(items []OrderItemRequest) int64 {
	var total int64
	for _, it := range items {
		total += it.PriceCents * int64(it.Quantity)
	}
	return total
}

// productIDs returns the sorted, de-duplicated union of product ids from a
// request item set and existing order items. Sorting fixes the lock
// acquisition order across concurrent transactions.
func productIDs(reqItems []OrderItemRequest, orderItems []models.OrderItem) []string {
	seen := make(map[string]bool, len(reqItems)+len(orderItems))
	ids := make([]string, 0, len(reqItems)+len(orderItems))
	for _, it := range reqItems {
		if !seen[it.ProductID] {
			seen[it.ProductID] = true
			ids = append(ids, it.ProductID)
		}
	}
	for _, it := range orderItems {
		if !seen[it.ProductID] {
			seen[it.ProductID] = true
			ids = append(ids, it.ProductID)
		}
	}
	sort.Strings(ids)
	return ids
}

func requestedItems(items []OrderItemRequest) []inventory.RequestedItem {
	out := make([]inventory.RequestedItem, len(items))
	for i, it := range items {
		out[i] = inventory.RequestedItem{ProductID: it.ProductID, Quantity: it.Quantity}
	}
	return out
}

func eventItems(items []models.OrderItem) []models.EventItem {
	out := make([]models.EventItem, len(items))
	for i, it := range items {
		out[i] = models.EventItem{ProductID: it.ProductID, Quantity: it.Quantity, PriceCents: it.PriceCents}
	}
	return out
}

func newBaseEvent(eventType, orgID string) models.BaseEvent {
	return models.BaseEvent{
		EventID:   uuid.NewString(),
		EventType: eventType,
		OrgID:     orgID,
		Timestamp: time.Now(),
	}
}

func defaultString(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func recordFailure(operation string, err error) {
	reason := failReason(err)
	util.OrdersFailedTotal.WithLabelValues(operation, reason).Inc()
	if reason == "insufficient_stock" || reason == "product_not_active" {
		util.StockRejectionsTotal.WithLabelValues(reason).Inc()
	}
}

func failReason(err error) string {
	var insufficient *models.InsufficientStockError
	var notActive *models.ProductNotActiveError
	var validation *models.ValidationError
	switch {
	case errors.As(err, &insufficient):
		return "insufficient_stock"
	case errors.As(err, &notActive):
		return "product_not_active"
	case errors.As(err, &validation):
		return "validation"
	case errors.Is(err, models.ErrNotFound):
		return "not_found"
	case errors.Is(err, models.ErrTransactionFailed):
		return "tx_failed"
	default:
		return "error"
	}
}
