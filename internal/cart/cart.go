package cart

import (
	"github.com/shopspring/decimal"

	"github.com/BIDMYLIFE/POS/internal/domain"
)

var (
	hundred     = decimal.NewFromInt(100)
	maxDiscount = hundred
)

// StockLookup reports the live stock of a catalog product.
type StockLookup interface {
	Stock(productID int64) (int, bool)
}

// Cart holds the line items of the sale being assembled. It is not safe for
// concurrent use; the terminal serializes access.
type Cart struct {
	items []domain.CartItem
	stock StockLookup
}

func New(stock StockLookup) *Cart {
	return &Cart{stock: stock}
}

// Add puts one more unit of product in the cart. An existing line grows only
// while it stays within product.Stock. A new line always starts at 1.
func (c *Cart) Add(product domain.Product) {
	if i := c.indexOf(product.ID); i >= 0 {
		if c.items[i].Quantity < product.Stock {
			c.items[i].Quantity++
		}
		return
	}
	c.items = append(c.items, domain.CartItem{Product: product, Quantity: 1})
}

// ChangeQuantity applies delta to a line. A result of zero or less removes
// the line; a result above current stock is rejected. Reports whether the
// cart changed.
func (c *Cart) ChangeQuantity(productID int64, delta int) bool {
	i := c.indexOf(productID)
	if i < 0 {
		return false
	}

	next := c.items[i].Quantity + delta
	if next <= 0 {
		c.removeAt(i)
		return true
	}

	stock, ok := c.stock.Stock(productID)
	if !ok || next > stock {
		return false
	}
	c.items[i].Quantity = next
	return true
}

func (c *Cart) Remove(productID int64) {
	if i := c.indexOf(productID); i >= 0 {
		c.removeAt(i)
	}
}

func (c *Cart) Clear() {
	c.items = nil
}

// Items returns a copy of the lines in insertion order.
func (c *Cart) Items() []domain.CartItem {
	out := make([]domain.CartItem, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Cart) Quantity(productID int64) int {
	if i := c.indexOf(productID); i >= 0 {
		return c.items[i].Quantity
	}
	return 0
}

func (c *Cart) Len() int {
	return len(c.items)
}

func (c *Cart) IsEmpty() bool {
	return len(c.items) == 0
}

func (c *Cart) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, item := range c.items {
		sum = sum.Add(item.LineTotal())
	}
	return sum
}

func (c *Cart) Total(discountPercent decimal.Decimal) decimal.Decimal {
	return Total(c.Subtotal(), discountPercent)
}

// Total is subtotal × (1 − discount/100) with the discount clamped to [0, 100].
func Total(subtotal decimal.Decimal, discountPercent decimal.Decimal) decimal.Decimal {
	return subtotal.Sub(DiscountAmount(subtotal, discountPercent))
}

func DiscountAmount(subtotal decimal.Decimal, discountPercent decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(ClampDiscount(discountPercent)).Div(hundred)
}

func ClampDiscount(discountPercent decimal.Decimal) decimal.Decimal {
	if discountPercent.IsNegative() {
		return decimal.Zero
	}
	if discountPercent.GreaterThan(maxDiscount) {
		return maxDiscount
	}
	return discountPercent
}

func (c *Cart) indexOf(productID int64) int {
	for i, item := range c.items {
		if item.ID == productID {
			return i
		}
	}
	return -1
}

func (c *Cart) removeAt(i int) {
	c.items = append(c.items[:i], c.items[i+1:]...)
}
