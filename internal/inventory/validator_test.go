package inventory

import (
	"testing"

	"inventory-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapshot() map[string]*models.Product {
	return map[string]*models.Product{
		"p1": {ID: "p1", Quantity: 10, Status: models.ProductStatusActive},
		"p2": {ID: "p2", Quantity: 0, Status: models.ProductStatusActive},
		"p3": {ID: "p3", Quantity: 10, Status: models.ProductStatusInactive},
	}
}

func TestValidateStock(t *testing.T) {
	tests := []struct {
		name    string
		items   []RequestedItem
		wantErr error
	}{
		{
			name:  "exact available quantity",
			items: []RequestedItem{{ProductID: "p1", Quantity: 10}},
		},
		{
			name:  "multiple admissible lines",
			items: []RequestedItem{{ProductID: "p1", Quantity: 3}, {ProductID: "p2", Quantity: 0}},
		},
		{
			name:    "one over available",
			items:   []RequestedItem{{ProductID: "p1", Quantity: 11}},
			wantErr: &models.InsufficientStockError{},
		},
		{
			name:    "zero stock",
			items:   []RequestedItem{{ProductID: "p2", Quantity: 1}},
			wantErr: &models.InsufficientStockError{},
		},
		{
			name:    "inactive product",
			items:   []RequestedItem{{ProductID: "p3", Quantity: 1}},
			wantErr: &models.ProductNotActiveError{},
		},
		{
			name:    "unknown product",
			items:   []RequestedItem{{ProductID: "p9", Quantity: 1}},
			wantErr: &models.NotFoundError{},
		},
		{
			name: "good line does not excuse bad line",
			items: []RequestedItem{
				{ProductID: "p1", Quantity: 1},
				{ProductID: "p1", Quantity: 99},
			},
			wantErr: &models.InsufficientStockError{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStock(tt.items, snapshot())
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			switch tt.wantErr.(type) {
			case *models.InsufficientStockError:
				var e *models.InsufficientStockError
				assert.ErrorAs(t, err, &e)
			case *models.ProductNotActiveError:
				var e *models.ProductNotActiveError
				assert.ErrorAs(t, err, &e)
			case *models.NotFoundError:
				var e *models.NotFoundError
				assert.ErrorAs(t, err, &e)
			}
		})
	}
}

func TestValidateStockErrorDetails(t *testing.T) {
	err := ValidateStock([]RequestedItem{{ProductID: "p1", Quantity: 15}}, snapshot())

	var insufficient *models.InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, "p1", insufficient.ProductID)
	assert.Equal(t, 10, insufficient.Available)
	assert.Equal(t, 15, insufficient.Requested)
}
