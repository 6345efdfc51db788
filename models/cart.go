package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type CartItem struct {
	ProductID primitive.ObjectID `bson:"productId" json:"productId"`
	Quantity  int                `bson:"quantity" json:"quantity"`
	Subtotal  float64            `bson:"subtotal" json:"subtotal"`
}

// Cart is the single mutable cart a user owns. TotalPrice always equals the
// sum of the item subtotals; every mutating method below re-establishes that.
// Version backs the compare-and-swap in the cart controller so that two
// interleaved read-modify-write cycles cannot silently drop a mutation.
type Cart struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID `bson:"userId" json:"userId"`
	CartItems  []CartItem         `bson:"cartItems" json:"cartItems"`
	TotalPrice float64            `bson:"totalPrice" json:"totalPrice"`
	OrderedOn  time.Time          `bson:"orderedOn" json:"orderedOn"`
	Version    int64              `bson:"version" json:"-"`
}

func NewCart(userID primitive.ObjectID) *Cart {
	return &Cart{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		CartItems: []CartItem{},
		OrderedOn: time.Now(),
	}
}

func (c *Cart) FindItem(productID primitive.ObjectID) *CartItem {
	for i := range c.CartItems {
		if c.CartItems[i].ProductID == productID {
			return &c.CartItems[i]
		}
	}
	return nil
}

// AddItem merges into an existing line for the product, or appends a new one.
// The subtotal is derived from the unit price here, never taken from a client.
func (c *Cart) AddItem(productID primitive.ObjectID, quantity int, unitPrice float64) {
	subtotal := float64(quantity) * unitPrice
	if item := c.FindItem(productID); item != nil {
		item.Quantity += quantity
		item.Subtotal += subtotal
	} else {
		c.CartItems = append(c.CartItems, CartItem{
			ProductID: productID,
			Quantity:  quantity,
			Subtotal:  subtotal,
		})
	}
	c.RecomputeTotal()
}

// UpdateQuantity replaces a line's quantity and reprices it at the current
// unit price. Returns false if the product has no line in the cart.
func (c *Cart) UpdateQuantity(productID primitive.ObjectID, newQuantity int, unitPrice float64) bool {
	item := c.FindItem(productID)
	if item == nil {
		return false
	}
	item.Quantity = newQuantity
	item.Subtotal = float64(newQuantity) * unitPrice
	c.RecomputeTotal()
	return true
}

func (c *Cart) RemoveItem(productID primitive.ObjectID) bool {
	for i := range c.CartItems {
		if c.CartItems[i].ProductID == productID {
			c.CartItems = append(c.CartItems[:i], c.CartItems[i+1:]...)
			c.RecomputeTotal()
			return true
		}
	}
	return false
}

func (c *Cart) Clear() {
	c.CartItems = []CartItem{}
	c.TotalPrice = 0
}

func (c *Cart) RecomputeTotal() {
	var total float64
	for _, item := range c.CartItems {
		total += item.Subtotal
	}
	c.TotalPrice = total
}
