package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var ErrInvalidPaymentMethod = errors.New("invalid payment method")

// Prices and totals travel as JSON numbers on both REST surfaces.
func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

type Product struct {
	ID       int64           `json:"id"`
	Category string          `json:"category"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Cost     decimal.Decimal `json:"cost"`
	Stock    int             `json:"stock"`
	Barcode  string          `json:"barcode"`
}

// LowStock mirrors the inventory table highlight.
func (p Product) LowStock() bool {
	return p.Stock < LowStockThreshold
}

const LowStockThreshold = 10

// CartItem is a snapshot of a product's fields plus the quantity being sold.
type CartItem struct {
	Product
	Quantity int `json:"quantity"`
}

func (i CartItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "cash"
	PaymentCard   PaymentMethod = "card"
	PaymentMobile PaymentMethod = "mobile"
)

func ParsePaymentMethod(raw string) (PaymentMethod, error) {
	switch method := PaymentMethod(strings.ToLower(strings.TrimSpace(raw))); method {
	case PaymentCash, PaymentCard, PaymentMobile:
		return method, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidPaymentMethod, raw)
	}
}

func (m PaymentMethod) Label() string {
	switch m {
	case PaymentCash:
		return "Cash"
	case PaymentCard:
		return "Card"
	case PaymentMobile:
		return "Mobile Payment"
	default:
		return string(m)
	}
}

// Transaction is the immutable record of a completed sale. Total is kept
// unrounded; rounding happens only when rendering.
type Transaction struct {
	ID            int64           `json:"id"`
	Items         []CartItem      `json:"items"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Discount      decimal.Decimal `json:"discount"`
	Total         decimal.Decimal `json:"total"`
	PaymentMethod PaymentMethod   `json:"paymentMethod"`
	Timestamp     time.Time       `json:"timestamp"`
}

func (t Transaction) DiscountAmount() decimal.Decimal {
	return t.Subtotal.Mul(t.Discount).Div(decimal.NewFromInt(100))
}

// ItemCount is the number of distinct lines on the receipt.
func (t Transaction) ItemCount() int {
	return len(t.Items)
}

func (t Transaction) Clone() Transaction {
	items := make([]CartItem, len(t.Items))
	copy(items, t.Items)
	t.Items = items
	return t
}

// Order is a persisted Transaction as stored by the backend.
type Order struct {
	ID            int64           `json:"id"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	Discount      decimal.Decimal `json:"discount"`
	Total         decimal.Decimal `json:"total"`
	PaymentMethod PaymentMethod   `json:"paymentMethod"`
	Timestamp     time.Time       `json:"timestamp"`
	CreateTime    time.Time       `json:"createTime"`
	Items         []OrderItem     `json:"items"`
}

type OrderItem struct {
	RowID     int64           `json:"rowId"`
	ProductID int64           `json:"productId"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Stock     int             `json:"stock"`
	Barcode   string          `json:"barcode"`
	Category  string          `json:"category"`
}

// NewOrder maps a completed sale to its stored form. The cart item "id"
// becomes the order item's product id.
func NewOrder(tx Transaction, createdAt time.Time) Order {
	items := make([]OrderItem, 0, len(tx.Items))
	for _, item := range tx.Items {
		items = append(items, OrderItem{
			ProductID: item.ID,
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
			Stock:     item.Stock,
			Barcode:   item.Barcode,
			Category:  item.Category,
		})
	}
	return Order{
		ID:            tx.ID,
		Subtotal:      tx.Subtotal,
		Discount:      tx.Discount,
		Total:         tx.Total,
		PaymentMethod: tx.PaymentMethod,
		Timestamp:     tx.Timestamp,
		CreateTime:    createdAt,
		Items:         items,
	}
}

// Tab is the active screen of the terminal.
type Tab string

const (
	TabPOS      Tab = "pos"
	TabProducts Tab = "products"
	TabReports  Tab = "reports"
)

func ParseTab(raw string) (Tab, error) {
	switch tab := Tab(strings.ToLower(strings.TrimSpace(raw))); tab {
	case TabPOS, TabProducts, TabReports:
		return tab, nil
	default:
		return "", fmt.Errorf("unknown tab %q", raw)
	}
}

// FormatMoney renders an amount at currency precision.
func FormatMoney(amount decimal.Decimal) string {
	return "$" + amount.StringFixed(2)
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	Role        string `json:"role"`
	ExpiresAt   string `json:"expires_at"`
}

type Actor struct {
	Username string
	Role     string
}
