package service

import (
	"context"
	"testing"
	"time"

	"inventory-service/internal/inventory"
	"inventory-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStockService() (*StockService, *memLedger) {
	ledger := newMemLedger()
	svc := NewStockService(ledger, inventory.NewMovementWriter(), nil, nil, time.Minute)
	return svc, ledger
}

func TestAdjustStockUp(t *testing.T) {
	svc, ledger := newTestStockService()
	seedCatalog(ledger)

	product, err := svc.AdjustStock(context.Background(), testOrg, testUser, product1, &AdjustStockRequest{
		Delta:     5,
		Reference: "PO-1234",
		Notes:     "restock delivery",
	})
	require.NoError(t, err)

	assert.Equal(t, 15, product.Quantity)
	assert.Equal(t, 15, ledger.product(product1).Quantity)

	movements := ledger.movementsFor(product1)
	require.Len(t, movements, 1)
	assert.Equal(t, models.MovementTypeAdjustment, movements[0].Type)
	assert.Equal(t, 5, movements[0].Quantity)
	assert.Equal(t, "PO-1234", movements[0].Reference)
	assert.Equal(t, testUser, movements[0].UserID)
	assert.Nil(t, movements[0].OrderID)
}

func TestAdjustStockDown(t *testing.T) {
	svc, ledger := newTestStockService()
	seedCatalog(ledger)

	product, err := svc.AdjustStock(context.Background(), testOrg, testUser, product1, &AdjustStockRequest{
		Delta: -4,
		Notes: "damaged in warehouse",
	})
	require.NoError(t, err)

	assert.Equal(t, 6, product.Quantity)
	movements := ledger.movementsFor(product1)
	require.Len(t, movements, 1)
	assert.Equal(t, -4, movements[0].Quantity)
}

func TestAdjustStockBelowZero(t *testing.T) {
	svc, ledger := newTestStockService()
	seedCatalog(ledger)

	_, err := svc.AdjustStock(context.Background(), testOrg, testUser, product1, &AdjustStockRequest{
		Delta: -11,
	})

	var insufficient *models.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 10, insufficient.Available)
	assert.Equal(t, 11, insufficient.Requested)

	assert.Equal(t, 10, ledger.product(product1).Quantity)
	assert.Empty(t, ledger.movementsFor(product1))
}

func TestAdjustStockZeroDelta(t *testing.T) {
	svc, ledger := newTestStockService()
	seedCatalog(ledger)

	_, err := svc.AdjustStock(context.Background(), testOrg, testUser, product1, &AdjustStockRequest{})
	var validation *models.ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestAdjustStockUnknownProduct(t *testing.T) {
	svc, ledger := newTestStockService()
	seedCatalog(ledger)

	_, err := svc.AdjustStock(context.Background(), testOrg, testUser, "missing", &AdjustStockRequest{Delta: 1})
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestAdjustStockCrossTenant(t *testing.T) {
	svc, ledger := newTestStockService()
	seedCatalog(ledger)

	_, err := svc.AdjustStock(context.Background(), otherOrg, testUser, product1, &AdjustStockRequest{Delta: 1})
	assert.ErrorIs(t, err, models.ErrNotFound)
	assert.Equal(t, 10, ledger.product(product1).Quantity)
}

func TestGetProductWithoutCache(t *testing.T) {
	svc, ledger := newTestStockService()
	seedCatalog(ledger)
	ctx := context.Background()

	product, err := svc.GetProduct(ctx, testOrg, product1)
	require.NoError(t, err)
	assert.Equal(t, "SKU-001", product.SKU)

	_, err = svc.GetProduct(ctx, otherOrg, product1)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestListMovements(t *testing.T) {
	stockSvc, ledger := newTestStockService()
	seedCatalog(ledger)
	ctx := context.Background()

	orderSvc := NewOrderService(ledger, inventory.NewMovementWriter(), nil, nil)
	_, err := orderSvc.CreateOrder(ctx, testOrg, testUser, orderRequest(
		OrderItemRequest{ProductID: product1, Quantity: 2, PriceCents: 100},
	))
	require.NoError(t, err)
	_, err = stockSvc.AdjustStock(ctx, testOrg, testUser, product1, &AdjustStockRequest{Delta: 3})
	require.NoError(t, err)

	movements, err := stockSvc.ListMovements(ctx, testOrg, product1)
	require.NoError(t, err)
	require.Len(t, movements, 2)

	_, err = stockSvc.ListMovements(ctx, testOrg, "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)
}
