package inventory

import (
	"context"

	"inventory-service/internal/models"
)

// Ledger is the data-access contract for the transactional store holding
// products, orders, items and inventory movements. WithTx runs fn inside one
// store transaction: if fn returns an error the transaction is rolled back in
// full and the error is returned unchanged; otherwise the transaction commits.
type Ledger interface {
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	GetOrder(ctx context.Context, orgID, orderID string) (*models.Order, error)
	GetOrderItems(ctx context.Context, orderID string) ([]models.OrderItem, error)
	ListOrders(ctx context.Context, orgID string) ([]models.Order, error)
	GetProduct(ctx context.Context, orgID, productID string) (*models.Product, error)
	GetCustomer(ctx context.Context, orgID, customerID string) (*models.Customer, error)
	ListMovementsByProduct(ctx context.Context, orgID, productID string) ([]models.InventoryMovement, error)
}

// Tx exposes the statements available inside one ledger transaction.
//
// ProductsForUpdate must take exclusive row locks on the selected products so
// that a concurrent transaction cannot read the same stock until this one
// commits or rolls back. Callers pass ids in ascending order; locking in a
// stable order keeps concurrent multi-product transactions deadlock-free.
type Tx interface {
	GetCustomer(ctx context.Context, orgID, customerID string) (*models.Customer, error)

	ProductsForUpdate(ctx context.Context, orgID string, productIDs []string) (map[string]*models.Product, error)
	AddProductQuantity(ctx context.Context, productID string, delta int) error

	GetOrderForUpdate(ctx context.Context, orgID, orderID string) (*models.Order, error)
	InsertOrder(ctx context.Context, order *models.Order) error
	UpdateOrder(ctx context.Context, order *models.Order) error
	DeleteOrder(ctx context.Context, orderID string) error

	GetOrderItems(ctx context.Context, orderID string) ([]models.OrderItem, error)
	InsertOrderItem(ctx context.Context, item *models.OrderItem) error
	DeleteOrderItems(ctx context.Context, orderID string) error

	InsertMovement(ctx context.Context, movement *models.InventoryMovement) error
	DeleteOrderMovements(ctx context.Context, orderID string) error
}
