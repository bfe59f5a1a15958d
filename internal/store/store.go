package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"inventory-service/internal/inventory"
	"inventory-service/internal/models"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Store is the Postgres-backed implementation of inventory.Ledger.
type Store struct {
	db *sqlx.DB
}

// NewStore creates a new database store
func NewStore(databaseURL string) (*Store, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// GetDB returns the underlying database connection
func (s *Store) GetDB() *sqlx.DB {
	return s.db
}

// WithTx runs fn inside one transaction. Any error from fn rolls the whole
// transaction back and is returned unchanged; begin and commit failures are
// classified as models.ErrTransactionFailed.
func (s *Store) WithTx(ctx context.Context, fn func(tx inventory.Tx) error) error {
	txx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin: %v", models.ErrTransactionFailed, err)
	}
	defer txx.Rollback()

	if err := fn(&Tx{tx: txx}); err != nil {
		return err
	}

	if err := txx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %v", models.ErrTransactionFailed, err)
	}
	return nil
}

// Tx implements inventory.Tx over one sqlx transaction.
type Tx struct {
	tx *sqlx.Tx
}

// GetCustomer resolves a customer within the organization.
func (t *Tx) GetCustomer(ctx context.Context, orgID, customerID string) (*models.Customer, error) {
	var customer models.Customer
	err := t.tx.GetContext(ctx, &customer,
		"SELECT * FROM customers WHERE id = $1 AND org_id = $2", customerID, orgID)
	if err == sql.ErrNoRows {
		return nil, &models.NotFoundError{Entity: "customer", ID: customerID}
	}
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// ProductsForUpdate locks the selected product rows for the remainder of the
// transaction. Rows are locked in ascending id order regardless of input
// order. Ids that do not resolve within the organization are simply absent
// from the result map.
func (t *Tx) ProductsForUpdate(ctx context.Context, orgID string, productIDs []string) (map[string]*models.Product, error) {
	result := make(map[string]*models.Product, len(productIDs))
	if len(productIDs) == 0 {
		return result, nil
	}

	query, args, err := sqlx.In(
		"SELECT * FROM products WHERE id IN (?) AND org_id = ? ORDER BY id FOR UPDATE",
		productIDs, orgID)
	if err != nil {
		return nil, err
	}
	query = t.tx.Rebind(query)

	var products []models.Product
	if err := t.tx.SelectContext(ctx, &products, query, args...); err != nil {
		return nil, err
	}

	for i := range products {
		result[products[i].ID] = &products[i]
	}
	return result, nil
}

// AddProductQuantity applies a signed delta to a product's on-hand count. The
// row must already be locked via ProductsForUpdate in this transaction.
func (t *Tx) AddProductQuantity(ctx context.Context, productID string, delta int) error {
	res, err := t.tx.ExecContext(ctx,
		"UPDATE products SET quantity = quantity + $1, updated_at = NOW() WHERE id = $2",
		delta, productID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return &models.NotFoundError{Entity: "product", ID: productID}
	}
	return nil
}

// GetProduct retrieves a product within the organization (plain read).
func (s *Store) GetProduct(ctx context.Context, orgID, productID string) (*models.Product, error) {
	var product models.Product
	err := s.db.GetContext(ctx, &product,
		"SELECT * FROM products WHERE id = $1 AND org_id = $2", productID, orgID)
	if err == sql.ErrNoRows {
		return nil, &models.NotFoundError{Entity: "product", ID: productID}
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// GetCustomer retrieves a customer within the organization (plain read).
func (s *Store) GetCustomer(ctx context.Context, orgID, customerID string) (*models.Customer, error) {
	var customer models.Customer
	err := s.db.GetContext(ctx, &customer,
		"SELECT * FROM customers WHERE id = $1 AND org_id = $2", customerID, orgID)
	if err == sql.ErrNoRows {
		return nil, &models.NotFoundError{Entity: "customer", ID: customerID}
	}
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// ListMovementsByProduct returns the movement ledger for one product, newest
// first.
func (s *Store) ListMovementsByProduct(ctx context.Context, orgID, productID string) ([]models.InventoryMovement, error) {
	var movements []models.InventoryMovement
	err := s.db.SelectContext(ctx, &movements,
		"SELECT * FROM inventory_movements WHERE product_id = $1 AND org_id = $2 ORDER BY created_at DESC",
		productID, orgID)
	return movements, err
}
