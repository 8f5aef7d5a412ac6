package posclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BIDMYLIFE/POS/internal/domain"
)

func TestListProducts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/products", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get(HeaderRequestID))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":1,"category":"CPU","name":"Intel Core i9-13900K","price":589.99,"cost":450,"stock":15,"barcode":"CPU001"}]`))
	}))
	defer srv.Close()

	client := New(srv.URL+"/", time.Second, nil)
	products, err := client.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "CPU001", products[0].Barcode)
	assert.True(t, products[0].Price.Equal(decimal.RequireFromString("589.99")))
	assert.Equal(t, 15, products[0].Stock)
}

func TestListProductsUnexpectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := New(srv.URL, time.Second, nil).ListProducts(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
}

func TestSaveReceipt(t *testing.T) {
	var got map[string]any
	var idempotencyKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/pos/posSave", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		idempotencyKey = r.Header.Get(HeaderIdempotencyKey)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	tx := domain.Transaction{
		ID: 1700000000123,
		Items: []domain.CartItem{{
			Product:  domain.Product{ID: 7, Name: "Samsung 990 Pro 2TB", Price: decimal.RequireFromString("179.99"), Barcode: "SSD001"},
			Quantity: 2,
		}},
		Subtotal:      decimal.RequireFromString("359.98"),
		Discount:      decimal.Zero,
		Total:         decimal.RequireFromString("359.98"),
		PaymentMethod: domain.PaymentCard,
		Timestamp:     time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC),
	}

	err := New(srv.URL, time.Second, nil).SaveReceipt(context.Background(), tx)
	require.NoError(t, err)
	assert.Equal(t, "1700000000123", idempotencyKey)
	assert.Equal(t, "card", got["paymentMethod"])
	items, ok := got["items"].([]any)
	require.True(t, ok)
	require.Len(t, items, 1)
	item := items[0].(map[string]any)
	assert.EqualValues(t, 7, item["id"])
	assert.EqualValues(t, 2, item["quantity"])
}

func TestSaveReceiptRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"invalid order"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	err := New(srv.URL, time.Second, nil).SaveReceipt(context.Background(), domain.Transaction{ID: 1})
	assert.ErrorIs(t, err, ErrUnexpectedStatus)
}
