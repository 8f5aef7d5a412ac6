package reports

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BIDMYLIFE/POS/internal/domain"
)

func tx(id int64, total string, discount int64, lines int) domain.Transaction {
	items := make([]domain.CartItem, lines)
	for i := range items {
		items[i] = domain.CartItem{Product: domain.Product{ID: int64(i + 1)}, Quantity: 2}
	}
	return domain.Transaction{
		ID:            id,
		Items:         items,
		Total:         decimal.RequireFromString(total),
		Discount:      decimal.NewFromInt(discount),
		PaymentMethod: domain.PaymentCash,
		Timestamp:     time.UnixMilli(id).UTC(),
	}
}

func TestSummarizeEmptyLedger(t *testing.T) {
	s := Summarize(nil, 20, 0)

	assert.True(t, s.TotalRevenue.IsZero())
	assert.Equal(t, 0, s.TransactionCount)
	assert.Equal(t, 20, s.ProductCount)
	assert.Empty(t, s.Recent)
	assert.Contains(t, s.HTML(), "No transactions yet")
}

func TestSummarize(t *testing.T) {
	ledger := []domain.Transaction{
		tx(3, "22.5", 10, 2),
		tx(2, "100.004", 0, 1),
		tx(1, "7.5", 0, 3),
	}

	s := Summarize(ledger, 4, 2)

	assert.True(t, s.TotalRevenue.Equal(decimal.RequireFromString("130.004")))
	assert.Equal(t, 3, s.TransactionCount)
	assert.Equal(t, 4, s.ProductCount)
	require.Len(t, s.Recent, 2)
	assert.Equal(t, int64(3), s.Recent[0].ID)
	assert.Equal(t, 2, s.Recent[0].ItemCount)
	require.NotNil(t, s.Recent[0].Discount)
	assert.True(t, s.Recent[0].Discount.Equal(decimal.NewFromInt(10)))
	assert.Nil(t, s.Recent[1].Discount)
}

func TestSummarizeDefaultsToTenRecent(t *testing.T) {
	ledger := make([]domain.Transaction, 0, 15)
	for i := 15; i > 0; i-- {
		ledger = append(ledger, tx(int64(i), "1", 0, 1))
	}

	s := Summarize(ledger, 0, 0)
	assert.Len(t, s.Recent, DefaultRecentLimit)
	assert.Equal(t, int64(15), s.Recent[0].ID)
	assert.Equal(t, 15, s.TransactionCount)
}

func TestRenderings(t *testing.T) {
	s := Summarize([]domain.Transaction{tx(9, "22.5", 10, 2)}, 1, 0)

	csv := s.CSV()
	assert.True(t, strings.HasPrefix(csv, "section,key,value\n"))
	assert.Contains(t, csv, "summary,total_sales,22.50")
	assert.Contains(t, csv, "transaction,9_discount_percent,10")

	html := s.HTML()
	assert.Contains(t, html, "Total Sales: $22.50")
	assert.Contains(t, html, "#9")
	assert.Contains(t, html, "10%")
}
