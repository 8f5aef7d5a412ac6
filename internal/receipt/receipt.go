package receipt

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/BIDMYLIFE/POS/internal/domain"
)

const (
	storeName = "RetailPOS"
	thankYou  = "Thank you for your purchase!"
)

// Lines renders the receipt as plain text, one entry per printed line.
// Amounts are rounded to cents here and nowhere earlier.
func Lines(tx domain.Transaction) []string {
	lines := []string{
		storeName,
		"========================",
		fmt.Sprintf("Transaction #%d", tx.ID),
		"Date: " + tx.Timestamp.Format("2006-01-02 15:04:05"),
		"------------------------",
	}
	for _, item := range tx.Items {
		lines = append(lines, fmt.Sprintf("%s x%d", item.Name, item.Quantity))
		lines = append(lines, "  "+domain.FormatMoney(item.LineTotal()))
	}
	lines = append(lines,
		"------------------------",
		"Subtotal: "+domain.FormatMoney(tx.Subtotal),
	)
	if tx.Discount.IsPositive() {
		lines = append(lines, fmt.Sprintf("Discount (%s%%): -%s", tx.Discount.String(), domain.FormatMoney(tx.DiscountAmount())))
	}
	lines = append(lines,
		"Total: "+domain.FormatMoney(tx.Total),
		"Payment Method: "+tx.PaymentMethod.Label(),
		"========================",
		thankYou,
	)
	return lines
}

func Text(tx domain.Transaction) string {
	return strings.Join(Lines(tx), "\n") + "\n"
}

type htmlView struct {
	StoreName string
	Tx        domain.Transaction
	ThankYou  string
}

var receiptHTMLTmpl = template.Must(template.New("receipt").Funcs(template.FuncMap{
	"money": domain.FormatMoney,
}).Parse(`<!doctype html>
<html>
<head>
  <meta charset="utf-8" />
  <title>Receipt #{{.Tx.ID}}</title>
  <style>
    body { font-family: monospace; margin: 24px; max-width: 360px; }
    .row { display: flex; justify-content: space-between; }
    .total { font-weight: bold; border-top: 1px dashed #000; margin-top: 8px; padding-top: 8px; }
  </style>
</head>
<body>
  <h2>{{.StoreName}}</h2>
  <p>Transaction #{{.Tx.ID}}<br/>{{.Tx.Timestamp.Format "2006-01-02 15:04:05"}}</p>
  {{range .Tx.Items}}<div class="row"><span>{{.Name}} x{{.Quantity}}</span><span>{{money .LineTotal}}</span></div>
  {{end}}
  <div class="row total"><span>Subtotal:</span><span>{{money .Tx.Subtotal}}</span></div>
  {{if .Tx.Discount.IsPositive}}<div class="row"><span>Discount ({{.Tx.Discount}}%):</span><span>-{{money .Tx.DiscountAmount}}</span></div>{{end}}
  <div class="row total"><span>Total:</span><span>{{money .Tx.Total}}</span></div>
  <div class="row"><span>Payment Method:</span><span>{{.Tx.PaymentMethod.Label}}</span></div>
  <p>{{.ThankYou}}</p>
</body>
</html>
`))

func HTML(tx domain.Transaction) string {
	var buf bytes.Buffer
	view := htmlView{StoreName: storeName, Tx: tx, ThankYou: thankYou}
	if err := receiptHTMLTmpl.Execute(&buf, view); err != nil {
		return "<!doctype html><html><body><p>Receipt rendering error.</p></body></html>"
	}
	return buf.String()
}
