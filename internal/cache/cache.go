package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/BIDMYLIFE/POS/internal/domain"
)

// ProductCache holds the serialized product list between catalog writes.
type ProductCache interface {
	GetProducts(ctx context.Context) ([]domain.Product, bool, error)
	SetProducts(ctx context.Context, products []domain.Product, ttl time.Duration) error
	Invalidate(ctx context.Context) error
}

// GenerateKey namespaces a cache key as service:operation:key.
func GenerateKey(service, operation, key string) string {
	return fmt.Sprintf("%s:%s:%s", service, operation, key)
}

type NoopProductCache struct{}

func (NoopProductCache) GetProducts(_ context.Context) ([]domain.Product, bool, error) {
	return nil, false, nil
}

func (NoopProductCache) SetProducts(_ context.Context, _ []domain.Product, _ time.Duration) error {
	return nil
}

func (NoopProductCache) Invalidate(_ context.Context) error {
	return nil
}
