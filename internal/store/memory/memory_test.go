package memory

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BIDMYLIFE/POS/internal/domain"
	"github.com/BIDMYLIFE/POS/internal/store"
)

var _ store.Repository = (*Store)(nil)

func TestSeededCatalog(t *testing.T) {
	s := NewSeeded()
	ctx := context.Background()

	products, err := s.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 20)
	assert.Equal(t, int64(1), products[0].ID)
	assert.Equal(t, "CPU001", products[0].Barcode)
	assert.Equal(t, "HDD001", products[19].Barcode)

	inserted, err := s.SeedProducts(ctx, store.DefaultProducts())
	require.NoError(t, err)
	assert.Equal(t, 0, inserted)
}

func TestProductCRUD(t *testing.T) {
	s := New()
	ctx := context.Background()

	created, err := s.CreateProduct(ctx, domain.Product{
		Category: "Cooling",
		Name:     "Noctua NH-D15",
		Price:    decimal.RequireFromString("109.95"),
		Cost:     decimal.RequireFromString("80"),
		Stock:    7,
		Barcode:  " CLR001 ",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, "CLR001", created.Barcode)

	_, err = s.CreateProduct(ctx, domain.Product{Name: "Dup", Barcode: "CLR001"})
	assert.ErrorIs(t, err, store.ErrDuplicateBarcode)

	_, err = s.CreateProduct(ctx, domain.Product{Name: "", Barcode: "X"})
	assert.ErrorIs(t, err, store.ErrInvalidProduct)

	created.Stock = 3
	updated, err := s.UpdateProduct(ctx, *created)
	require.NoError(t, err)
	assert.Equal(t, 3, updated.Stock)

	got, err := s.GetProduct(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Stock)

	_, err = s.UpdateProduct(ctx, domain.Product{ID: 42, Name: "Ghost", Barcode: "G"})
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.DeleteProduct(ctx, created.ID))
	_, err = s.GetProduct(ctx, created.ID)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, s.DeleteProduct(ctx, created.ID), store.ErrNotFound)
}

func TestSaveOrderReplacesOnRetry(t *testing.T) {
	s := New()
	ctx := context.Background()
	order := domain.Order{
		ID:            1700000000000,
		Subtotal:      decimal.NewFromInt(25),
		Discount:      decimal.NewFromInt(10),
		Total:         decimal.RequireFromString("22.5"),
		PaymentMethod: domain.PaymentCash,
		Timestamp:     time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC),
		CreateTime:    time.Date(2026, 10, 1, 9, 0, 1, 0, time.UTC),
		Items: []domain.OrderItem{
			{ProductID: 1, Name: "Intel Core i9-13900K", Price: decimal.NewFromInt(10), Quantity: 2},
			{ProductID: 2, Name: "Thermal Paste", Price: decimal.NewFromInt(5), Quantity: 1},
		},
	}

	saved, err := s.SaveOrder(ctx, order)
	require.NoError(t, err)
	assert.NotZero(t, saved.Items[0].RowID)

	_, err = s.SaveOrder(ctx, order)
	require.NoError(t, err)

	got, err := s.GetOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Len(t, got.Items, 2)
	assert.True(t, got.Total.Equal(decimal.RequireFromString("22.5")))

	_, err = s.SaveOrder(ctx, domain.Order{ID: 5, PaymentMethod: domain.PaymentCard})
	assert.ErrorIs(t, err, store.ErrInvalidOrder)

	_, err = s.GetOrder(ctx, 99)
	assert.ErrorIs(t, err, store.ErrNotFound)
}
