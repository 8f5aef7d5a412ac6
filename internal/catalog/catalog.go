package catalog

import (
	"context"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/BIDMYLIFE/POS/internal/domain"
	"github.com/BIDMYLIFE/POS/internal/logging"
)

// AllCategories is the sentinel category that disables category filtering.
const AllCategories = "All"

// Source supplies the product list, normally the backend client.
type Source interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
}

type filterKey struct {
	term     string
	category string
	version  uint64
}

// Store holds the products fetched at startup and their live stock.
type Store struct {
	mu       sync.RWMutex
	products []domain.Product
	index    map[int64]int
	version  uint64
	logger   *zap.Logger

	cachedKey    filterKey
	cachedResult []domain.Product
	cacheValid   bool
}

func New(logger *zap.Logger) *Store {
	return &Store{
		index:  make(map[int64]int),
		logger: logging.OrNop(logger),
	}
}

// Load fetches the catalog once. A failure is logged and leaves the store
// untouched; the error is returned for the caller's own reporting only.
func (s *Store) Load(ctx context.Context, src Source) error {
	products, err := src.ListProducts(ctx)
	if err != nil {
		s.logger.Error("failed to load products", zap.Error(err))
		return err
	}
	s.Replace(products)
	s.logger.Info("catalog loaded", zap.Int("products", len(products)))
	return nil
}

func (s *Store) Replace(products []domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.products = make([]domain.Product, len(products))
	copy(s.products, products)
	s.index = make(map[int64]int, len(products))
	for i, p := range s.products {
		s.index[p.ID] = i
	}
	s.version++
}

// Filter returns products whose name or barcode contains term
// (case-insensitive) and whose category matches, or any category for "All".
func (s *Store) Filter(term string, category string) []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := filterKey{term: term, category: category, version: s.version}
	if s.cacheValid && s.cachedKey == key {
		return cloneProducts(s.cachedResult)
	}

	needle := strings.ToLower(term)
	result := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		matchesSearch := strings.Contains(strings.ToLower(p.Name), needle) ||
			strings.Contains(strings.ToLower(p.Barcode), needle)
		matchesCategory := category == AllCategories || p.Category == category
		if matchesSearch && matchesCategory {
			result = append(result, p)
		}
	}

	s.cachedKey = key
	s.cachedResult = result
	s.cacheValid = true
	return cloneProducts(result)
}

// Categories lists "All" followed by each distinct category in first-seen order.
func (s *Store) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{}, len(s.products))
	categories := []string{AllCategories}
	for _, p := range s.products {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		categories = append(categories, p.Category)
	}
	return categories
}

func (s *Store) Products() []domain.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneProducts(s.products)
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.products)
}

func (s *Store) Get(id int64) (domain.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i, ok := s.index[id]
	if !ok {
		return domain.Product{}, false
	}
	return s.products[i], true
}

// Stock reports the live stock of a product.
func (s *Store) Stock(id int64) (int, bool) {
	p, ok := s.Get(id)
	if !ok {
		return 0, false
	}
	return p.Stock, true
}

// FindByBarcode is an exact barcode lookup.
func (s *Store) FindByBarcode(barcode string) (domain.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.products {
		if p.Barcode == barcode {
			return p, true
		}
	}
	return domain.Product{}, false
}

// DecrementStock reduces stock after a committed sale. Quantities are not
// re-validated here; stock is floored at zero.
func (s *Store) DecrementStock(id int64, amount int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		s.logger.Warn("stock decrement for unknown product", zap.Int64("product_id", id))
		return
	}

	next := s.products[i].Stock - amount
	if next < 0 {
		s.logger.Warn("stock floored at zero",
			zap.Int64("product_id", id),
			zap.Int("stock", s.products[i].Stock),
			zap.Int("amount", amount),
		)
		next = 0
	}
	s.products[i].Stock = next
	s.version++
}

func cloneProducts(src []domain.Product) []domain.Product {
	out := make([]domain.Product, len(src))
	copy(out, src)
	return out
}
