package inventory

import (
	"context"
	"time"

	"inventory-service/internal/models"

	"github.com/google/uuid"
)

// MovementWriter appends immutable inventory movement rows. It never touches
// product quantities itself; callers apply the matching increment or
// decrement as a separate statement in the same transaction.
type MovementWriter struct {
	now func() time.Time
}

func NewMovementWriter() *MovementWriter {
	return &MovementWriter{now: time.Now}
}

// Sale records stock leaving for an order line. Quantity is the positive
// line quantity; the ledger row is written with the negated value.
func (w *MovementWriter) Sale(ctx context.Context, tx Tx, orgID, productID, orderID, userID string, quantity int, reference, notes string) error {
	return tx.InsertMovement(ctx, &models.InventoryMovement{
		ID:        uuid.NewString(),
		OrgID:     orgID,
		Type:      models.MovementTypeSale,
		Quantity:  -quantity,
		ProductID: productID,
		OrderID:   &orderID,
		UserID:    userID,
		Reference: reference,
		Notes:     notes,
		CreatedAt: w.now(),
	})
}

// Return records stock coming back when an order is deleted. The row carries
// the order number in Reference rather than a foreign key, so it survives the
// removal of the order it offsets.
func (w *MovementWriter) Return(ctx context.Context, tx Tx, orgID, productID, userID string, quantity int, reference, notes string) error {
	return tx.InsertMovement(ctx, &models.InventoryMovement{
		ID:        uuid.NewString(),
		OrgID:     orgID,
		Type:      models.MovementTypeReturn,
		Quantity:  quantity,
		ProductID: productID,
		UserID:    userID,
		Reference: reference,
		Notes:     notes,
		CreatedAt: w.now(),
	})
}

// Adjustment records a manual correction with the given signed delta.
func (w *MovementWriter) Adjustment(ctx context.Context, tx Tx, orgID, productID, userID string, delta int, reference, notes string) error {
	return tx.InsertMovement(ctx, &models.InventoryMovement{
		ID:        uuid.NewString(),
		OrgID:     orgID,
		Type:      models.MovementTypeAdjustment,
		Quantity:  delta,
		ProductID: productID,
		UserID:    userID,
		Reference: reference,
		Notes:     notes,
		CreatedAt: w.now(),
	})
}
