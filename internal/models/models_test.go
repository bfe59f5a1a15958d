package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		{OrderStatusPending, OrderStatusProcessing, true},
		{OrderStatusPending, OrderStatusCancelled, true},
		{OrderStatusPending, OrderStatusShipped, false},
		{OrderStatusPending, OrderStatusDelivered, false},
		{OrderStatusProcessing, OrderStatusShipped, true},
		{OrderStatusProcessing, OrderStatusCancelled, true},
		{OrderStatusProcessing, OrderStatusPending, false},
		{OrderStatusShipped, OrderStatusDelivered, true},
		{OrderStatusShipped, OrderStatusCancelled, false},
		{OrderStatusDelivered, OrderStatusShipped, false},
		{OrderStatusCancelled, OrderStatusPending, false},
		// staying put is always allowed, terminal or not
		{OrderStatusPending, OrderStatusPending, true},
		{OrderStatusDelivered, OrderStatusDelivered, true},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s->%s", tt.from, tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestIsTerminalStatus(t *testing.T) {
	assert.True(t, IsTerminalStatus(OrderStatusDelivered))
	assert.True(t, IsTerminalStatus(OrderStatusCancelled))
	assert.False(t, IsTerminalStatus(OrderStatusPending))
	assert.False(t, IsTerminalStatus(OrderStatusProcessing))
	assert.False(t, IsTerminalStatus(OrderStatusShipped))
}

func TestStatusValidators(t *testing.T) {
	assert.True(t, IsValidOrderStatus(OrderStatusShipped))
	assert.False(t, IsValidOrderStatus("ARCHIVED"))

	assert.True(t, IsValidPaymentStatus(PaymentStatusPartiallyPaid))
	assert.False(t, IsValidPaymentStatus("VOID"))

	assert.True(t, IsValidPaymentType(PaymentTypeCredit))
	assert.False(t, IsValidPaymentType("BARTER"))
}

func TestNotFoundErrorIs(t *testing.T) {
	var err error = &NotFoundError{Entity: "order", ID: "o-1"}

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrUnauthorized))
	assert.Equal(t, "order not found: o-1", err.Error())

	wrapped := fmt.Errorf("loading: %w", err)
	assert.True(t, errors.Is(wrapped, ErrNotFound))

	var nf *NotFoundError
	require.True(t, errors.As(wrapped, &nf))
	assert.Equal(t, "order", nf.Entity)
}

func TestInsufficientStockErrorMessage(t *testing.T) {
	err := &InsufficientStockError{ProductID: "p-1", Available: 3, Requested: 5}
	assert.Equal(t, "insufficient stock for product p-1: available=3, requested=5", err.Error())
}

func TestValidationErrorMessage(t *testing.T) {
	assert.Equal(t, "items: must not be empty", (&ValidationError{Field: "items", Reason: "must not be empty"}).Error())
	assert.Equal(t, "bad input", (&ValidationError{Reason: "bad input"}).Error())
}
