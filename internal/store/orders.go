package store

import (
	"context"
	"database/sql"

	"inventory-service/internal/models"
)

// GetOrderForUpdate loads an order within the organization and locks its row
// for the remainder of the transaction.
func (t *Tx) GetOrderForUpdate(ctx context.Context, orgID, orderID string) (*models.Order, error) {
	var order models.Order
	err := t.tx.GetContext(ctx, &order,
		"SELECT * FROM orders WHERE id = $1 AND org_id = $2 FOR UPDATE", orderID, orgID)
	if err == sql.ErrNoRows {
		return nil, &models.NotFoundError{Entity: "order", ID: orderID}
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// InsertOrder inserts a new order row.
func (t *Tx) InsertOrder(ctx context.Context, order *models.Order) error {
	query := `
		INSERT INTO orders (id, org_id, order_number, customer_id, status, payment_status,
			payment_type, total_cents, shipping_address, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at`

	return t.tx.QueryRowxContext(ctx, query,
		order.ID, order.OrgID, order.OrderNumber, order.CustomerID, order.Status,
		order.PaymentStatus, order.PaymentType, order.TotalCents,
		order.ShippingAddress, order.Notes).
		Scan(&order.CreatedAt, &order.UpdatedAt)
}

// UpdateOrder rewrites an order's scalar fields.
func (t *Tx) UpdateOrder(ctx context.Context, order *models.Order) error {
	query := `
		UPDATE orders
		SET customer_id = $1, status = $2, payment_status = $3, payment_type = $4,
			total_cents = $5, shipping_address = $6, notes = $7, updated_at = NOW()
		WHERE id = $8
		RETURNING updated_at`

	return t.tx.QueryRowxContext(ctx, query,
		order.CustomerID, order.Status, order.PaymentStatus, order.PaymentType,
		order.TotalCents, order.ShippingAddress, order.Notes, order.ID).
		Scan(&order.UpdatedAt)
}

// DeleteOrder removes an order row.
func (t *Tx) DeleteOrder(ctx context.Context, orderID string) error {
	_, err := t.tx.ExecContext(ctx, "DELETE FROM orders WHERE id = $1", orderID)
	return err
}

// GetOrderItems returns the items of an order inside the transaction.
func (t *Tx) GetOrderItems(ctx context.Context, orderID string) ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := t.tx.SelectContext(ctx, &items,
		"SELECT * FROM order_items WHERE order_id = $1 ORDER BY id", orderID)
	return items, err
}

// InsertOrderItem inserts one order line.
func (t *Tx) InsertOrderItem(ctx context.Context, item *models.OrderItem) error {
	_, err := t.tx.ExecContext(ctx,
		"INSERT INTO order_items (id, order_id, product_id, quantity, price_cents) VALUES ($1, $2, $3, $4, $5)",
		item.ID, item.OrderID, item.ProductID, item.Quantity, item.PriceCents)
	return err
}

// DeleteOrderItems removes all items of an order.
func (t *Tx) DeleteOrderItems(ctx context.Context, orderID string) error {
	_, err := t.tx.ExecContext(ctx, "DELETE FROM order_items WHERE order_id = $1", orderID)
	return err
}

// InsertMovement appends one inventory movement row.
func (t *Tx) InsertMovement(ctx context.Context, movement *models.InventoryMovement) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO inventory_movements (id, org_id, type, quantity, product_id, order_id,
			user_id, reference, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		movement.ID, movement.OrgID, movement.Type, movement.Quantity, movement.ProductID,
		movement.OrderID, movement.UserID, movement.Reference, movement.Notes,
		movement.CreatedAt)
	return err
}

// DeleteOrderMovements removes the movements linked to an order via its
// foreign key. Movements that only carry the order number as a free-text
// reference are untouched.
func (t *Tx) DeleteOrderMovements(ctx context.Context, orderID string) error {
	_, err := t.tx.ExecContext(ctx,
		"DELETE FROM inventory_movements WHERE order_id = $1", orderID)
	return err
}

// GetOrder retrieves an order within the organization (plain read).
func (s *Store) GetOrder(ctx context.Context, orgID, orderID string) (*models.Order, error) {
	var order models.Order
	err := s.db.GetContext(ctx, &order,
		"SELECT * FROM orders WHERE id = $1 AND org_id = $2", orderID, orgID)
	if err == sql.ErrNoRows {
		return nil, &models.NotFoundError{Entity: "order", ID: orderID}
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrderItems retrieves all items for an order (plain read).
func (s *Store) GetOrderItems(ctx context.Context, orderID string) ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := s.db.SelectContext(ctx, &items,
		"SELECT * FROM order_items WHERE order_id = $1 ORDER BY id", orderID)
	return items, err
}

// ListOrders retrieves the organization's orders, newest first.
func (s *Store) ListOrders(ctx context.Context, orgID string) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.SelectContext(ctx, &orders,
		"SELECT * FROM orders WHERE org_id = $1 ORDER BY created_at DESC", orgID)
	return orders, err
}
