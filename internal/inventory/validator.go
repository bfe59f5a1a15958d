package inventory

import (
	"inventory-service/internal/models"
)

// RequestedItem is one sale line submitted for validation.
type RequestedItem struct {
	ProductID string
	Quantity  int
}

// ValidateStock decides whether a set of requested sale lines is admissible
// against the given product snapshots. The snapshots must come from locked
// reads inside the same transaction that will apply the decrements, so the
// quantities checked here are the ones being committed against.
//
// The check is all-or-nothing: the first inadmissible line rejects the whole
// set. A product missing from the snapshot map is treated as absent or
// belonging to another organization.
func ValidateStock(items []RequestedItem, products map[string]*models.Product) error {
	for _, it := range items {
		p, ok := products[it.ProductID]
		if !ok {
			return &models.NotFoundError{Entity: "product", ID: it.ProductID}
		}
		if p.Status != models.ProductStatusActive {
			return &models.ProductNotActiveError{ProductID: p.ID, Status: p.Status}
		}
		if it.Quantity > p.Quantity {
			return &models.InsufficientStockError{
				ProductID: p.ID,
				Available: p.Quantity,
				Requested: it.Quantity,
			}
		}
	}
	return nil
}
