package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestAddItemDistinctProducts(t *testing.T) {
	cart := NewCart(primitive.NewObjectID())
	p1 := primitive.NewObjectID()
	p2 := primitive.NewObjectID()
	p3 := primitive.NewObjectID()

	cart.AddItem(p1, 2, 10)
	cart.AddItem(p2, 1, 5)
	cart.AddItem(p3, 3, 2.5)

	require.Len(t, cart.CartItems, 3)
	assert.Equal(t, 20.0, cart.CartItems[0].Subtotal)
	assert.Equal(t, 5.0, cart.CartItems[1].Subtotal)
	assert.Equal(t, 7.5, cart.CartItems[2].Subtotal)
	assert.Equal(t, 32.5, cart.TotalPrice)
}

func TestAddItemMergesRepeatedProduct(t *testing.T) {
	cart := NewCart(primitive.NewObjectID())
	p1 := primitive.NewObjectID()

	cart.AddItem(p1, 2, 10)
	require.Len(t, cart.CartItems, 1)
	assert.Equal(t, 20.0, cart.TotalPrice)

	cart.AddItem(p1, 1, 10)
	require.Len(t, cart.CartItems, 1, "repeated add must merge, not append")
	assert.Equal(t, 3, cart.CartItems[0].Quantity)
	assert.Equal(t, 30.0, cart.CartItems[0].Subtotal)
	assert.Equal(t, 30.0, cart.TotalPrice)
}

func TestUpdateQuantityRepricesAtCurrentPrice(t *testing.T) {
	cart := NewCart(primitive.NewObjectID())
	p1 := primitive.NewObjectID()

	cart.AddItem(p1, 2, 10)
	cart.AddItem(p1, 1, 10)
	require.Equal(t, 30.0, cart.TotalPrice)

	ok := cart.UpdateQuantity(p1, 5, 10)
	require.True(t, ok)
	assert.Equal(t, 5, cart.CartItems[0].Quantity)
	assert.Equal(t, 50.0, cart.CartItems[0].Subtotal)
	assert.Equal(t, 50.0, cart.TotalPrice)
}

func TestUpdateQuantityMissingItem(t *testing.T) {
	cart := NewCart(primitive.NewObjectID())
	cart.AddItem(primitive.NewObjectID(), 1, 10)

	ok := cart.UpdateQuantity(primitive.NewObjectID(), 5, 10)
	assert.False(t, ok)
	assert.Equal(t, 10.0, cart.TotalPrice, "failed update must leave the cart unchanged")
}

func TestRemoveItem(t *testing.T) {
	cart := NewCart(primitive.NewObjectID())
	p1 := primitive.NewObjectID()
	p2 := primitive.NewObjectID()

	cart.AddItem(p1, 2, 10)
	cart.AddItem(p2, 1, 5)

	require.True(t, cart.RemoveItem(p1))
	require.Len(t, cart.CartItems, 1)
	assert.Equal(t, p2, cart.CartItems[0].ProductID)
	assert.Equal(t, 5.0, cart.TotalPrice)

	assert.False(t, cart.RemoveItem(p1), "removing twice must report a missing item")
}

func TestRemoveLastItemMatchesClear(t *testing.T) {
	p1 := primitive.NewObjectID()

	removed := NewCart(primitive.NewObjectID())
	removed.AddItem(p1, 2, 10)
	require.True(t, removed.RemoveItem(p1))

	cleared := NewCart(primitive.NewObjectID())
	cleared.AddItem(p1, 2, 10)
	cleared.Clear()

	assert.Empty(t, removed.CartItems)
	assert.Empty(t, cleared.CartItems)
	assert.Equal(t, 0.0, removed.TotalPrice)
	assert.Equal(t, 0.0, cleared.TotalPrice)
}

func TestRecomputeTotalIsSumOfSubtotals(t *testing.T) {
	cart := NewCart(primitive.NewObjectID())
	for i := 1; i <= 5; i++ {
		cart.AddItem(primitive.NewObjectID(), i, float64(i))
	}

	var want float64
	for _, item := range cart.CartItems {
		want += item.Subtotal
	}
	assert.Equal(t, want, cart.TotalPrice)
}
