package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCompute(t *testing.T) {
	lines := []Line{
		{UnitPrice: decimal.NewFromInt(10), Quantity: 2},
		{UnitPrice: decimal.NewFromInt(5), Quantity: 1},
	}
	got := Compute(lines, decimal.NewFromInt(10), decimal.Zero)
	assert.True(t, got.Subtotal.Equal(decimal.NewFromInt(25)))
	assert.True(t, got.VAT.Equal(decimal.RequireFromString("2.5")))
	assert.True(t, got.Total.Equal(decimal.RequireFromString("27.5")))
}

func TestCompute_Delivery(t *testing.T) {
	lines := []Line{{UnitPrice: decimal.RequireFromString("3.335"), Quantity: 3}}
	got := Compute(lines, decimal.Zero, decimal.NewFromInt(4))
	assert.True(t, got.Subtotal.Equal(decimal.RequireFromString("10.01")))
	assert.True(t, got.DeliveryFee.Equal(decimal.NewFromInt(4)))
	assert.True(t, got.Total.Equal(decimal.RequireFromString("14.01")))
}

func TestCompute_Empty(t *testing.T) {
	got := Compute(nil, decimal.NewFromInt(16), decimal.NewFromInt(-1))
	assert.True(t, got.Total.IsZero())
	assert.True(t, got.DeliveryFee.IsZero())
}
