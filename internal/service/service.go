package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/BIDMYLIFE/POS/internal/cache"
	"github.com/BIDMYLIFE/POS/internal/clock"
	"github.com/BIDMYLIFE/POS/internal/domain"
	"github.com/BIDMYLIFE/POS/internal/logging"
	"github.com/BIDMYLIFE/POS/internal/store"
)

type Options struct {
	ProductCache cache.ProductCache
	CacheTTL     time.Duration
	Clock        clock.Clock
	Logger       *zap.Logger
}

// Service is the catalog backend: product maintenance and order intake.
type Service struct {
	repo     store.Repository
	cache    cache.ProductCache
	cacheTTL time.Duration
	clock    clock.Clock
	logger   *zap.Logger
}

func New(repo store.Repository, opts Options) *Service {
	productCache := opts.ProductCache
	if productCache == nil {
		productCache = cache.NoopProductCache{}
	}
	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	c := opts.Clock
	if c == nil {
		c = clock.NewRealClock()
	}

	return &Service{
		repo:     repo,
		cache:    productCache,
		cacheTTL: ttl,
		clock:    c,
		logger:   logging.OrNop(opts.Logger),
	}
}

// SeedCatalog loads the starter catalog into an empty store.
func (s *Service) SeedCatalog(ctx context.Context) (int, error) {
	inserted, err := s.repo.SeedProducts(ctx, store.DefaultProducts())
	if err != nil {
		return 0, err
	}
	if inserted > 0 {
		s.invalidate(ctx)
		s.logger.Info("catalog seeded", zap.Int("products", inserted))
	}
	return inserted, nil
}

func (s *Service) ListProducts(ctx context.Context) ([]domain.Product, error) {
	cached, ok, err := s.cache.GetProducts(ctx)
	if err != nil {
		s.logger.Warn("product cache read failed", zap.Error(err))
	}
	if ok {
		return cached, nil
	}

	products, err := s.repo.ListProducts(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.SetProducts(ctx, products, s.cacheTTL); err != nil {
		s.logger.Warn("product cache write failed", zap.Error(err))
	}
	return products, nil
}

func (s *Service) GetProduct(ctx context.Context, id int64) (domain.Product, error) {
	product, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}
	return *product, nil
}

func (s *Service) CreateProduct(ctx context.Context, product domain.Product) (domain.Product, error) {
	product = normalizeProduct(product)
	product.ID = 0

	created, err := s.repo.CreateProduct(ctx, product)
	if err != nil {
		return domain.Product{}, err
	}
	s.invalidate(ctx)
	s.logger.Info("product created", zap.Int64("product_id", created.ID), zap.String("barcode", created.Barcode))
	return *created, nil
}

// UpdateProduct replaces every field of product id; the id in the body is
// ignored.
func (s *Service) UpdateProduct(ctx context.Context, id int64, product domain.Product) (domain.Product, error) {
	product = normalizeProduct(product)
	product.ID = id

	updated, err := s.repo.UpdateProduct(ctx, product)
	if err != nil {
		return domain.Product{}, err
	}
	s.invalidate(ctx)
	s.logger.Info("product updated", zap.Int64("product_id", id))
	return *updated, nil
}

func (s *Service) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	s.logger.Info("product deleted", zap.Int64("product_id", id))
	return nil
}

// SaveTransaction stores a completed sale sent by a terminal. The backend
// does not touch stock; the terminal already decremented its own copy.
func (s *Service) SaveTransaction(ctx context.Context, tx domain.Transaction) (domain.Order, error) {
	method, err := domain.ParsePaymentMethod(string(tx.PaymentMethod))
	if err != nil {
		return domain.Order{}, errors.Join(store.ErrInvalidOrder, err)
	}
	tx.PaymentMethod = method
	if tx.Timestamp.IsZero() {
		tx.Timestamp = s.clock.Now()
	}

	saved, err := s.repo.SaveOrder(ctx, domain.NewOrder(tx, s.clock.Now()))
	if err != nil {
		return domain.Order{}, fmt.Errorf("save order %d: %w", tx.ID, err)
	}
	s.logger.Info("order saved",
		zap.Int64("order_id", saved.ID),
		zap.Int("items", len(saved.Items)),
		zap.String("total", saved.Total.String()),
	)
	return *saved, nil
}

func (s *Service) GetOrder(ctx context.Context, id int64) (domain.Order, error) {
	order, err := s.repo.GetOrder(ctx, id)
	if err != nil {
		return domain.Order{}, err
	}
	return *order, nil
}

func (s *Service) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("product cache invalidation failed", zap.Error(err))
	}
}

func normalizeProduct(product domain.Product) domain.Product {
	product.Name = strings.TrimSpace(product.Name)
	product.Category = strings.TrimSpace(product.Category)
	product.Barcode = strings.TrimSpace(product.Barcode)
	return product
}
