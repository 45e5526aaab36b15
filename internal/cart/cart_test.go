package cart

import (
	"testing"

	"github.com/ariefcatur/go-bookshop-checkout.git/internal/books"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bookA() books.Book { return books.Book{ID: "a", Title: "Book A", Price: 10, Stock: 5} }
func bookB() books.Book { return books.Book{ID: "b", Title: "Book B", Price: 5, Stock: 3} }

func TestTotalMatchesLineSubtotals(t *testing.T) {
	c := New("u1")
	require.NoError(t, c.AddItem(bookA(), 2))
	require.NoError(t, c.AddItem(bookB(), 1))

	assert.Equal(t, 25.00, c.Total())

	var sum float64
	for _, l := range c.Lines {
		sum += float64(l.Quantity) * l.Book.Price
	}
	assert.Equal(t, Round2(sum), c.Total())
}

func TestTotalRoundsToTwoDecimals(t *testing.T) {
	c := New("u1")
	require.NoError(t, c.AddItem(books.Book{ID: "x", Price: 0.1}, 3))
	assert.Equal(t, 0.30, c.Total())
}

func TestAddSameBookAccumulates(t *testing.T) {
	c := New("u1")
	require.NoError(t, c.AddItem(bookA(), 2))
	require.NoError(t, c.AddItem(bookA(), 3))

	require.Len(t, c.Lines, 1)
	assert.Equal(t, 5, c.Lines[0].Quantity)
	assert.Equal(t, 50.00, c.Lines[0].Subtotal)
}

func TestAddItemRejectsNonPositiveQty(t *testing.T) {
	c := New("u1")
	assert.ErrorIs(t, c.AddItem(bookA(), 0), ErrInvalidQuantity)
	assert.ErrorIs(t, c.AddItem(bookA(), -1), ErrInvalidQuantity)
	assert.True(t, c.IsEmpty())
}

func TestUpdateQuantity(t *testing.T) {
	c := New("u1")
	require.NoError(t, c.AddItem(bookA(), 2))

	require.NoError(t, c.UpdateQuantity("a", 4))
	assert.Equal(t, 4, c.Lines[0].Quantity)
	assert.Equal(t, 40.00, c.Lines[0].Subtotal)

	assert.ErrorIs(t, c.UpdateQuantity("a", 0), ErrInvalidQuantity)
}

func TestUpdateQuantityAbsentBookNeverInserts(t *testing.T) {
	c := New("u1")
	require.NoError(t, c.AddItem(bookA(), 1))

	assert.ErrorIs(t, c.UpdateQuantity("missing", 2), ErrItemNotFound)
	assert.Len(t, c.Lines, 1)
}

func TestRemoveItemIdempotent(t *testing.T) {
	c := New("u1")
	require.NoError(t, c.AddItem(bookA(), 1))

	c.RemoveItem("a")
	assert.True(t, c.IsEmpty())
	c.RemoveItem("a") // no-op
	assert.True(t, c.IsEmpty())
}

func TestClear(t *testing.T) {
	c := New("u1")
	require.NoError(t, c.AddItem(bookA(), 1))
	require.NoError(t, c.AddItem(bookB(), 2))

	c.Clear()
	assert.True(t, c.IsEmpty())
	assert.Equal(t, 0.00, c.Total())
	c.Clear() // idempotent
	assert.True(t, c.IsEmpty())
}
