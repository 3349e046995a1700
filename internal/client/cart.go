package client

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/veissa/tiredOfLife/internal/app/model"
)

var (
	ErrInvalidQuantity    = errors.New("quantity must be at least 1")
	ErrInsufficientStock  = errors.New("not enough stock")
	ErrProductUnavailable = errors.New("product is not available")
	ErrNotInCart          = errors.New("product is not in the cart")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrNoPickupPoint      = errors.New("no pickup point selected")
)

type CartLine struct {
	Product  model.Product
	Quantity int
}

// Total is the line price.
func (l CartLine) Total() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart keeps lines in the order products were first added. It is not safe
// for concurrent use.
type Cart struct {
	lines []CartLine
}

func NewCart() *Cart {
	return &Cart{}
}

func (c *Cart) index(id uuid.UUID) int {
	for i, l := range c.lines {
		if l.Product.ID == id {
			return i
		}
	}
	return -1
}

// Add puts qty units of p in the cart, on top of any already there.
func (c *Cart) Add(p model.Product, qty int) error {
	if qty < 1 {
		return ErrInvalidQuantity
	}
	if !p.IsAvailable {
		return ErrProductUnavailable
	}

	i := c.index(p.ID)
	current := 0
	if i >= 0 {
		current = c.lines[i].Quantity
	}
	if current+qty > p.Stock {
		return ErrInsufficientStock
	}

	if i >= 0 {
		c.lines[i].Product = p
		c.lines[i].Quantity += qty
		return nil
	}
	c.lines = append(c.lines, CartLine{Product: p, Quantity: qty})
	return nil
}

func (c *Cart) SetQuantity(productID uuid.UUID, qty int) error {
	if qty < 1 {
		return ErrInvalidQuantity
	}
	i := c.index(productID)
	if i < 0 {
		return ErrNotInCart
	}
	if qty > c.lines[i].Product.Stock {
		return ErrInsufficientStock
	}
	c.lines[i].Quantity = qty
	return nil
}

func (c *Cart) Remove(productID uuid.UUID) {
	if i := c.index(productID); i >= 0 {
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
	}
}

func (c *Cart) Clear() {
	c.lines = nil
}

// Lines returns a copy of the cart lines.
func (c *Cart) Lines() []CartLine {
	out := make([]CartLine, len(c.lines))
	copy(out, c.lines)
	return out
}

// Count is the number of units in the cart.
func (c *Cart) Count() int {
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.Total())
	}
	return total
}

// Checkout pairs a cart with the pickup point the customer chose. Orders are
// not submitted to the API.
type Checkout struct {
	Cart   *Cart
	Pickup *PickupPoint
}

func (co Checkout) Validate() error {
	if co.Cart == nil || len(co.Cart.lines) == 0 {
		return ErrEmptyCart
	}
	if co.Pickup == nil {
		return ErrNoPickupPoint
	}
	return nil
}
