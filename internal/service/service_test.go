package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BIDMYLIFE/POS/internal/clock"
	"github.com/BIDMYLIFE/POS/internal/domain"
	"github.com/BIDMYLIFE/POS/internal/store"
	"github.com/BIDMYLIFE/POS/internal/store/memory"
)

type mapCache struct {
	mu          sync.Mutex
	products    []domain.Product
	hits        int
	invalidated int
	failReads   bool
}

func (c *mapCache) GetProducts(context.Context) ([]domain.Product, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failReads {
		return nil, false, errors.New("redis: connection refused")
	}
	if c.products == nil {
		return nil, false, nil
	}
	c.hits++
	return c.products, true, nil
}

func (c *mapCache) SetProducts(_ context.Context, products []domain.Product, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.products = products
	return nil
}

func (c *mapCache) Invalidate(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.products = nil
	c.invalidated++
	return nil
}

func newTestService(t *testing.T) (*Service, *mapCache, *clock.MockClock) {
	t.Helper()
	c := &mapCache{}
	clk := clock.NewMockClock(time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC))
	svc := New(memory.New(), Options{ProductCache: c, Clock: clk})
	_, err := svc.SeedCatalog(context.Background())
	require.NoError(t, err)
	return svc, c, clk
}

func TestSeedCatalogOnlyOnce(t *testing.T) {
	svc, _, _ := newTestService(t)

	inserted, err := svc.SeedCatalog(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, inserted)

	products, err := svc.ListProducts(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, 20)
}

func TestListProductsReadsThroughCache(t *testing.T) {
	svc, c, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.ListProducts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, c.hits)

	_, err = svc.ListProducts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, c.hits)

	_, err = svc.CreateProduct(ctx, domain.Product{
		Category: "Cooling",
		Name:     "  Arctic Liquid Freezer III ",
		Price:    decimal.RequireFromString("119.99"),
		Cost:     decimal.RequireFromString("90"),
		Stock:    6,
		Barcode:  "CLR001",
	})
	require.NoError(t, err)

	products, err := svc.ListProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 21)
	assert.Equal(t, "Arctic Liquid Freezer III", products[20].Name)
}

func TestListProductsSurvivesCacheOutage(t *testing.T) {
	svc, c, _ := newTestService(t)
	c.failReads = true

	products, err := svc.ListProducts(context.Background())
	require.NoError(t, err)
	assert.Len(t, products, 20)
}

func TestUpdateAndDeleteProduct(t *testing.T) {
	svc, c, _ := newTestService(t)
	ctx := context.Background()

	product, err := svc.GetProduct(ctx, 13)
	require.NoError(t, err)
	assert.Equal(t, "GPU001", product.Barcode)

	product.Stock = 2
	product.ID = 999
	updated, err := svc.UpdateProduct(ctx, 13, product)
	require.NoError(t, err)
	assert.Equal(t, int64(13), updated.ID)
	assert.Equal(t, 2, updated.Stock)

	require.NoError(t, svc.DeleteProduct(ctx, 13))
	_, err = svc.GetProduct(ctx, 13)
	assert.ErrorIs(t, err, store.ErrNotFound)
	assert.ErrorIs(t, svc.DeleteProduct(ctx, 13), store.ErrNotFound)
	assert.GreaterOrEqual(t, c.invalidated, 3)
}

func TestSaveTransaction(t *testing.T) {
	svc, _, clk := newTestService(t)
	ctx := context.Background()

	tx := domain.Transaction{
		ID: 1759309200000,
		Items: []domain.CartItem{
			{Product: domain.Product{ID: 1, Name: "Intel Core i9-13900K", Price: decimal.NewFromInt(10), Stock: 12, Barcode: "CPU001", Category: "CPUs"}, Quantity: 2},
			{Product: domain.Product{ID: 11, Name: "Kingston Fury Beast 16GB", Price: decimal.NewFromInt(5), Stock: 45, Barcode: "RAM003", Category: "RAM"}, Quantity: 1},
		},
		Subtotal:      decimal.NewFromInt(25),
		Discount:      decimal.NewFromInt(10),
		Total:         decimal.RequireFromString("22.5"),
		PaymentMethod: "Card",
		Timestamp:     clk.Now().Add(-time.Minute),
	}

	order, err := svc.SaveTransaction(ctx, tx)
	require.NoError(t, err)
	assert.Equal(t, tx.ID, order.ID)
	assert.Equal(t, domain.PaymentCard, order.PaymentMethod)
	assert.Equal(t, clk.Now(), order.CreateTime)
	require.Len(t, order.Items, 2)
	assert.Equal(t, int64(11), order.Items[1].ProductID)

	stored, err := svc.GetOrder(ctx, tx.ID)
	require.NoError(t, err)
	assert.True(t, stored.Total.Equal(decimal.RequireFromString("22.5")))

	product, err := svc.GetProduct(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 12, product.Stock)
}

func TestSaveTransactionRejectsBadInput(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.SaveTransaction(ctx, domain.Transaction{ID: 1, PaymentMethod: "bitcoin"})
	assert.ErrorIs(t, err, store.ErrInvalidOrder)

	_, err = svc.SaveTransaction(ctx, domain.Transaction{ID: 1, PaymentMethod: domain.PaymentCash})
	assert.ErrorIs(t, err, store.ErrInvalidOrder)
}
