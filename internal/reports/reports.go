package reports

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/BIDMYLIFE/POS/internal/domain"
)

// DefaultRecentLimit is how many ledger entries the reports screen lists.
const DefaultRecentLimit = 10

type Summary struct {
	TotalRevenue     decimal.Decimal     `json:"totalRevenue"`
	TransactionCount int                 `json:"transactionCount"`
	ProductCount     int                 `json:"productCount"`
	Recent           []RecentTransaction `json:"recent"`
}

type RecentTransaction struct {
	ID            int64                `json:"id"`
	Timestamp     time.Time            `json:"timestamp"`
	Total         decimal.Decimal      `json:"total"`
	ItemCount     int                  `json:"itemCount"`
	PaymentMethod domain.PaymentMethod `json:"paymentMethod"`
	// Discount is only set when the sale had one.
	Discount *decimal.Decimal `json:"discount,omitempty"`
}

// Summarize aggregates a most-recent-first ledger. It only reads its inputs.
func Summarize(ledger []domain.Transaction, productCount int, recentLimit int) Summary {
	if recentLimit <= 0 {
		recentLimit = DefaultRecentLimit
	}

	revenue := decimal.Zero
	for _, tx := range ledger {
		revenue = revenue.Add(tx.Total)
	}

	n := min(recentLimit, len(ledger))
	recent := make([]RecentTransaction, 0, n)
	for _, tx := range ledger[:n] {
		row := RecentTransaction{
			ID:            tx.ID,
			Timestamp:     tx.Timestamp,
			Total:         tx.Total,
			ItemCount:     tx.ItemCount(),
			PaymentMethod: tx.PaymentMethod,
		}
		if tx.Discount.IsPositive() {
			d := tx.Discount
			row.Discount = &d
		}
		recent = append(recent, row)
	}

	return Summary{
		TotalRevenue:     revenue,
		TransactionCount: len(ledger),
		ProductCount:     productCount,
		Recent:           recent,
	}
}

func (s Summary) CSV() string {
	lines := []string{
		"section,key,value",
		fmt.Sprintf("summary,total_sales,%s", s.TotalRevenue.StringFixed(2)),
		fmt.Sprintf("summary,transactions,%d", s.TransactionCount),
		fmt.Sprintf("summary,products,%d", s.ProductCount),
	}
	for _, tx := range s.Recent {
		lines = append(lines, fmt.Sprintf("transaction,%d_total,%s", tx.ID, tx.Total.StringFixed(2)))
		lines = append(lines, fmt.Sprintf("transaction,%d_items,%d", tx.ID, tx.ItemCount))
		lines = append(lines, fmt.Sprintf("transaction,%d_payment,%s", tx.ID, tx.PaymentMethod))
		if tx.Discount != nil {
			lines = append(lines, fmt.Sprintf("transaction,%d_discount_percent,%s", tx.ID, tx.Discount.String()))
		}
	}
	return strings.Join(lines, "\n") + "\n"
}

var summaryHTMLTmpl = template.Must(template.New("sales-report").Funcs(template.FuncMap{
	"money": domain.FormatMoney,
	"when":  func(t time.Time) string { return t.Format("2006-01-02 15:04:05") },
}).Parse(`<!doctype html>
<html>
<head>
  <meta charset="utf-8" />
  <title>Sales Report</title>
  <style>
    body { font-family: sans-serif; margin: 24px; }
    table { width: 100%; border-collapse: collapse; margin-top: 8px; }
    th, td { border: 1px solid #ddd; padding: 6px; font-size: 13px; }
  </style>
</head>
<body>
  <h2>Sales Report</h2>
  <p>Total Sales: {{money .TotalRevenue}}</p>
  <p>Transactions: {{.TransactionCount}}</p>
  <p>Products: {{.ProductCount}}</p>

  <h3>Recent Transactions</h3>
  {{if .Recent}}
  <table>
    <thead><tr><th>Transaction</th><th>Date</th><th>Items</th><th>Payment</th><th>Discount</th><th>Total</th></tr></thead>
    <tbody>{{range .Recent}}<tr><td>#{{.ID}}</td><td>{{when .Timestamp}}</td><td style="text-align:right;">{{.ItemCount}}</td><td>{{.PaymentMethod}}</td><td>{{if .Discount}}{{.Discount}}%{{end}}</td><td style="text-align:right;">{{money .Total}}</td></tr>{{end}}</tbody>
  </table>
  {{else}}
  <p>No transactions yet</p>
  {{end}}
</body>
</html>
`))

func (s Summary) HTML() string {
	var buf bytes.Buffer
	if err := summaryHTMLTmpl.Execute(&buf, s); err != nil {
		return "<!doctype html><html><body><p>Report rendering error.</p></body></html>"
	}
	return buf.String()
}
