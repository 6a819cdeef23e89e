package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatus_CanMoveTo(t *testing.T) {
	tests := []struct {
		from OrderStatus
		to   OrderStatus
		ok   bool
	}{
		{OrderPending, OrderProcessing, true},
		{OrderPending, OrderCancelled, true},
		{OrderPending, OrderCompleted, true},
		{OrderProcessing, OrderCompleted, true},
		{OrderProcessing, OrderPending, false},
		{OrderCompleted, OrderCancelled, false},
		{OrderCancelled, OrderProcessing, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.ok, tt.from.CanMoveTo(tt.to))
		})
	}
}

func TestOutOfStockError(t *testing.T) {
	err := fmt.Errorf("checkout: %w", &OutOfStockError{ProductID: 3, ProductName: "Beras 5kg"})

	assert.True(t, errors.Is(err, ErrOutOfStock))
	assert.Contains(t, err.Error(), "Beras 5kg")

	var oos *OutOfStockError
	assert.True(t, errors.As(err, &oos))
	assert.Equal(t, 3, oos.ProductID)
}

func TestValidationError(t *testing.T) {
	err := ValidationError("amount must be positive")
	assert.True(t, errors.Is(err, ErrValidation))
	assert.Contains(t, err.Error(), "amount must be positive")
}
