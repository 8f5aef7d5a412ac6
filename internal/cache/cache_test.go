package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BIDMYLIFE/POS/internal/domain"
)

var (
	_ ProductCache = NoopProductCache{}
	_ ProductCache = (*RedisProductCache)(nil)
)

func TestGenerateKey(t *testing.T) {
	assert.Equal(t, "retailpos:products:all", GenerateKey("retailpos", "products", "all"))
}

func TestNoopCacheAlwaysMisses(t *testing.T) {
	ctx := context.Background()
	var c NoopProductCache

	require.NoError(t, c.SetProducts(ctx, []domain.Product{{ID: 1}}, time.Minute))
	products, ok, err := c.GetProducts(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, products)
	assert.NoError(t, c.Invalidate(ctx))
}

func TestRedisProductCache(t *testing.T) {
	addr := os.Getenv("RETAILPOS_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("set RETAILPOS_TEST_REDIS_ADDR to run redis integration test")
	}

	ctx := context.Background()
	c := NewRedisProductCache(addr, "", 0)
	t.Cleanup(func() {
		_ = c.Invalidate(ctx)
		_ = c.Close()
	})
	require.NoError(t, c.Ping(ctx))
	require.NoError(t, c.Invalidate(ctx))

	_, ok, err := c.GetProducts(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	want := []domain.Product{{ID: 13, Name: "NVIDIA RTX 4090", Price: decimal.RequireFromString("1599.99"), Stock: 5, Barcode: "GPU001"}}
	require.NoError(t, c.SetProducts(ctx, want, time.Minute))

	got, ok, err := c.GetProducts(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, got, 1)
	assert.Equal(t, "GPU001", got[0].Barcode)
	assert.True(t, got[0].Price.Equal(want[0].Price))

	require.NoError(t, c.Invalidate(ctx))
	_, ok, err = c.GetProducts(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}
