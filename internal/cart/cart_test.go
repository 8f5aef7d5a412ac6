package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BIDMYLIFE/POS/internal/domain"
)

type stockMap map[int64]int

func (m stockMap) Stock(id int64) (int, bool) {
	s, ok := m[id]
	return s, ok
}

func product(id int64, price string, stock int) domain.Product {
	return domain.Product{
		ID:      id,
		Name:    "item",
		Price:   decimal.RequireFromString(price),
		Stock:   stock,
		Barcode: "BC" + decimal.NewFromInt(id).String(),
	}
}

func TestAddStopsAtStock(t *testing.T) {
	for _, stock := range []int{1, 2, 5, 12} {
		p := product(1, "10", stock)
		c := New(stockMap{1: stock})

		for i := 0; i < stock+1; i++ {
			c.Add(p)
		}
		assert.Equal(t, stock, c.Quantity(1), "stock %d", stock)
	}
}

func TestAddNewLineIgnoresExhaustedStock(t *testing.T) {
	c := New(stockMap{1: 0})
	c.Add(product(1, "10", 0))

	assert.Equal(t, 1, c.Quantity(1))

	// The increment path does check.
	c.Add(product(1, "10", 0))
	assert.Equal(t, 1, c.Quantity(1))
}

func TestChangeQuantity(t *testing.T) {
	stock := stockMap{1: 3, 2: 10}
	c := New(stock)
	c.Add(product(1, "10", 3))
	c.Add(product(2, "5", 10))

	t.Run("increment within stock", func(t *testing.T) {
		assert.True(t, c.ChangeQuantity(1, 1))
		assert.True(t, c.ChangeQuantity(1, 1))
		assert.Equal(t, 3, c.Quantity(1))
	})

	t.Run("over stock is rejected without partial change", func(t *testing.T) {
		assert.False(t, c.ChangeQuantity(1, 1))
		assert.Equal(t, 3, c.Quantity(1))
	})

	t.Run("uses live stock, not the snapshot", func(t *testing.T) {
		stock[1] = 2
		assert.False(t, c.ChangeQuantity(1, 1))
		stock[1] = 3
	})

	t.Run("reaching zero removes the line", func(t *testing.T) {
		assert.True(t, c.ChangeQuantity(2, -1))
		assert.Equal(t, 0, c.Quantity(2))
		assert.Equal(t, 1, c.Len())
	})

	t.Run("large negative delta removes", func(t *testing.T) {
		assert.True(t, c.ChangeQuantity(1, -10))
		assert.True(t, c.IsEmpty())
	})

	t.Run("unknown line is a no-op", func(t *testing.T) {
		assert.False(t, c.ChangeQuantity(99, 1))
	})
}

func TestRemoveAndClear(t *testing.T) {
	c := New(stockMap{1: 5, 2: 5})
	c.Add(product(1, "1", 5))
	c.Add(product(2, "1", 5))

	c.Remove(1)
	require.Equal(t, 1, c.Len())
	assert.Equal(t, int64(2), c.Items()[0].ID)

	c.Remove(1)
	assert.Equal(t, 1, c.Len())

	c.Clear()
	assert.True(t, c.IsEmpty())
	assert.True(t, c.Subtotal().IsZero())
}

func TestSubtotalAndTotal(t *testing.T) {
	c := New(stockMap{1: 5, 2: 5})
	c.Add(product(1, "10", 5))
	c.Add(product(1, "10", 5))
	c.Add(product(2, "5", 5))

	assert.True(t, c.Subtotal().Equal(decimal.NewFromInt(25)))
	assert.True(t, c.Total(decimal.NewFromInt(10)).Equal(decimal.RequireFromString("22.5")))
	assert.True(t, c.Total(decimal.Zero).Equal(c.Subtotal()))
}

func TestTotalIsMonotonicInDiscount(t *testing.T) {
	subtotal := decimal.RequireFromString("1234.56")
	prev := Total(subtotal, decimal.Zero)
	assert.True(t, prev.Equal(subtotal))

	for d := 1; d <= 100; d++ {
		cur := Total(subtotal, decimal.NewFromInt(int64(d)))
		assert.True(t, cur.LessThanOrEqual(prev), "discount %d", d)
		prev = cur
	}
	assert.True(t, prev.IsZero())
}

func TestClampDiscount(t *testing.T) {
	assert.True(t, ClampDiscount(decimal.NewFromInt(-5)).IsZero())
	assert.True(t, ClampDiscount(decimal.NewFromInt(150)).Equal(decimal.NewFromInt(100)))
	assert.True(t, ClampDiscount(decimal.RequireFromString("12.5")).Equal(decimal.RequireFromString("12.5")))
	assert.True(t, Total(decimal.NewFromInt(50), decimal.NewFromInt(200)).IsZero())
}

func TestItemsReturnsCopy(t *testing.T) {
	c := New(stockMap{1: 5})
	c.Add(product(1, "1", 5))

	items := c.Items()
	items[0].Quantity = 4
	assert.Equal(t, 1, c.Quantity(1))
}
