package domain

import "time"

// CartLine is one product in a cart. Price and name are looked up on read.
type CartLine struct {
	ProductID string `bson:"product_id"`
	Quantity  int    `bson:"quantity"`
}

// Cart is a user's basket. Lines keep insertion order.
type Cart struct {
	UserID    string     `bson:"_id"`
	Lines     []CartLine `bson:"lines"`
	UpdatedAt time.Time  `bson:"updated_at"`
}

// Add merges quantity into an existing line or appends a new one.
func (c *Cart) Add(productID string, quantity int) {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			c.Lines[i].Quantity += quantity
			return
		}
	}
	c.Lines = append(c.Lines, CartLine{ProductID: productID, Quantity: quantity})
}

// Set replaces a line's quantity. Zero or less removes the line.
func (c *Cart) Set(productID string, quantity int) {
	if quantity <= 0 {
		c.Remove(productID)
		return
	}
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			c.Lines[i].Quantity = quantity
			return
		}
	}
}

func (c *Cart) Remove(productID string) {
	kept := c.Lines[:0]
	for _, l := range c.Lines {
		if l.ProductID != productID {
			kept = append(kept, l)
		}
	}
	c.Lines = kept
}

func (c *Cart) Clear() { c.Lines = nil }

// Quantity returns how many units of productID are in the cart.
func (c *Cart) Quantity(productID string) int {
	for _, l := range c.Lines {
		if l.ProductID == productID {
			return l.Quantity
		}
	}
	return 0
}

func (c *Cart) IsEmpty() bool { return len(c.Lines) == 0 }
