package store

import (
	"context"
	"errors"
	"strings"

	"github.com/BIDMYLIFE/POS/internal/domain"
)

var (
	ErrNotFound         = errors.New("not found")
	ErrInvalidProduct   = errors.New("invalid product")
	ErrDuplicateBarcode = errors.New("barcode already exists")
	ErrInvalidOrder     = errors.New("invalid order")
)

type Repository interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	GetProduct(ctx context.Context, id int64) (*domain.Product, error)
	CreateProduct(ctx context.Context, product domain.Product) (*domain.Product, error)
	UpdateProduct(ctx context.Context, product domain.Product) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	// SeedProducts inserts products only when the catalog is empty and
	// reports how many were inserted.
	SeedProducts(ctx context.Context, products []domain.Product) (int, error)
	// SaveOrder stores an order under its client-assigned id. Saving the
	// same id again replaces the earlier copy.
	SaveOrder(ctx context.Context, order domain.Order) (*domain.Order, error)
	GetOrder(ctx context.Context, id int64) (*domain.Order, error)
}

func ValidateProduct(product domain.Product) error {
	switch {
	case strings.TrimSpace(product.Name) == "":
		return errors.Join(ErrInvalidProduct, errors.New("name is required"))
	case strings.TrimSpace(product.Barcode) == "":
		return errors.Join(ErrInvalidProduct, errors.New("barcode is required"))
	case product.Price.IsNegative():
		return errors.Join(ErrInvalidProduct, errors.New("price must not be negative"))
	case product.Cost.IsNegative():
		return errors.Join(ErrInvalidProduct, errors.New("cost must not be negative"))
	case product.Stock < 0:
		return errors.Join(ErrInvalidProduct, errors.New("stock must not be negative"))
	}
	return nil
}

func ValidateOrder(order domain.Order) error {
	switch {
	case order.ID <= 0:
		return errors.Join(ErrInvalidOrder, errors.New("id is required"))
	case len(order.Items) == 0:
		return errors.Join(ErrInvalidOrder, errors.New("order has no items"))
	case order.PaymentMethod == "":
		return errors.Join(ErrInvalidOrder, errors.New("payment method is required"))
	case order.Subtotal.IsNegative() || order.Total.IsNegative() || order.Discount.IsNegative():
		return errors.Join(ErrInvalidOrder, errors.New("amounts must not be negative"))
	}
	for _, item := range order.Items {
		if item.ProductID <= 0 || item.Quantity < 1 || item.Price.IsNegative() {
			return errors.Join(ErrInvalidOrder, errors.New("invalid order item"))
		}
	}
	return nil
}
