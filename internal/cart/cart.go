package cart

import (
	"errors"
	"math"

	"github.com/ariefcatur/go-bookshop-checkout.git/internal/books"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be > 0")
	ErrItemNotFound    = errors.New("book not present in cart")
)

// Line references a book; it does not own it. Subtotal is derived and
// recomputed on every quantity change from the price captured at add time.
type Line struct {
	Book     books.Book
	Quantity int
	Subtotal float64
}

// Cart is the in-memory, per-owner collection of lines, unique per book id.
// Persistence is a side effect handled by Store, never authoritative.
type Cart struct {
	OwnerID string
	Lines   []Line
}

func New(ownerID string) *Cart {
	return &Cart{OwnerID: ownerID}
}

// AddItem accumulates quantity onto an existing line for the same book
// instead of appending a duplicate.
func (c *Cart) AddItem(b books.Book, qty int) error {
	if qty <= 0 {
		return ErrInvalidQuantity
	}
	for i := range c.Lines {
		if c.Lines[i].Book.ID == b.ID {
			c.Lines[i].Quantity += qty
			c.Lines[i].Subtotal = c.Lines[i].Book.Price * float64(c.Lines[i].Quantity)
			return nil
		}
	}
	c.Lines = append(c.Lines, Line{Book: b, Quantity: qty, Subtotal: b.Price * float64(qty)})
	return nil
}

// RemoveItem is idempotent: removing an absent book id is a no-op.
func (c *Cart) RemoveItem(bookID string) {
	out := c.Lines[:0]
	for _, l := range c.Lines {
		if l.Book.ID != bookID {
			out = append(out, l)
		}
	}
	c.Lines = out
}

func (c *Cart) UpdateQuantity(bookID string, newQty int) error {
	if newQty <= 0 {
		return ErrInvalidQuantity
	}
	for i := range c.Lines {
		if c.Lines[i].Book.ID == bookID {
			c.Lines[i].Quantity = newQty
			c.Lines[i].Subtotal = c.Lines[i].Book.Price * float64(newQty)
			return nil
		}
	}
	return ErrItemNotFound
}

// Total is the sum of all subtotals rounded to 2 decimal places.
func (c *Cart) Total() float64 {
	var sum float64
	for _, l := range c.Lines {
		sum += l.Subtotal
	}
	return Round2(sum)
}

func (c *Cart) Clear() {
	c.Lines = nil
}

func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
