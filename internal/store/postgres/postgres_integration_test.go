package postgres

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/BIDMYLIFE/POS/internal/domain"
)

func TestProductAndOrderRoundTrip(t *testing.T) {
	databaseURL := os.Getenv("RETAILPOS_TEST_DATABASE_URL")
	if databaseURL == "" {
		t.Skip("set RETAILPOS_TEST_DATABASE_URL to run postgres integration test")
	}

	ctx := context.Background()
	s, err := New(ctx, databaseURL)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	t.Cleanup(func() {
		_ = s.Close()
	})
	if err := s.EnsureSchema(ctx); err != nil {
		t.Fatalf("ensure schema: %v", err)
	}

	stamp := time.Now().UnixNano()
	barcode := fmt.Sprintf("IT-%d", stamp)
	orderID := time.Now().UnixMilli()

	product, err := s.CreateProduct(ctx, domain.Product{
		Category: "Storage",
		Name:     "Integration SSD",
		Price:    decimal.RequireFromString("59.99"),
		Cost:     decimal.RequireFromString("40.00"),
		Stock:    9,
		Barcode:  barcode,
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	t.Cleanup(func() {
		_, _ = s.db.ExecContext(ctx, `DELETE FROM pos_orders WHERE id = $1`, orderID)
		_, _ = s.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, product.ID)
	})

	got, err := s.GetProduct(ctx, product.ID)
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if !got.Price.Equal(decimal.RequireFromString("59.99")) || got.Stock != 9 {
		t.Fatalf("unexpected product %+v", got)
	}

	order := domain.Order{
		ID:            orderID,
		Subtotal:      decimal.RequireFromString("119.98"),
		Discount:      decimal.NewFromInt(10),
		Total:         decimal.RequireFromString("107.982"),
		PaymentMethod: domain.PaymentMobile,
		Timestamp:     time.Now().UTC().Truncate(time.Millisecond),
		CreateTime:    time.Now().UTC().Truncate(time.Millisecond),
		Items: []domain.OrderItem{{
			ProductID: product.ID,
			Name:      product.Name,
			Price:     product.Price,
			Quantity:  2,
			Stock:     product.Stock,
			Barcode:   product.Barcode,
			Category:  product.Category,
		}},
	}
	if _, err := s.SaveOrder(ctx, order); err != nil {
		t.Fatalf("save order: %v", err)
	}
	if _, err := s.SaveOrder(ctx, order); err != nil {
		t.Fatalf("save order again: %v", err)
	}

	stored, err := s.GetOrder(ctx, orderID)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if len(stored.Items) != 1 {
		t.Fatalf("expected 1 item after retry, got %d", len(stored.Items))
	}
	if !stored.Total.Equal(order.Total) {
		t.Fatalf("expected total %s, got %s", order.Total, stored.Total)
	}
	if stored.Items[0].ProductID != product.ID {
		t.Fatalf("expected product id %d, got %d", product.ID, stored.Items[0].ProductID)
	}
}
