package memory

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/BIDMYLIFE/POS/internal/domain"
	"github.com/BIDMYLIFE/POS/internal/store"
)

// Store is the in-process repository used when DATABASE_URL is unset.
type Store struct {
	mu          sync.RWMutex
	products    map[int64]domain.Product
	byBarcode   map[string]int64
	orders      map[int64]domain.Order
	nextProduct int64
	nextRow     int64
}

func New() *Store {
	return &Store{
		products:  make(map[int64]domain.Product),
		byBarcode: make(map[string]int64),
		orders:    make(map[int64]domain.Order),
	}
}

func NewSeeded() *Store {
	s := New()
	_, _ = s.SeedProducts(context.Background(), store.DefaultProducts())
	return s
}

func (s *Store) ListProducts(_ context.Context) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	products := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		products = append(products, p)
	}
	slices.SortFunc(products, func(a, b domain.Product) int {
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		default:
			return 0
		}
	})
	return products, nil
}

func (s *Store) GetProduct(_ context.Context, id int64) (*domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	product, ok := s.products[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &product, nil
}

func (s *Store) CreateProduct(_ context.Context, product domain.Product) (*domain.Product, error) {
	if err := store.ValidateProduct(product); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertLocked(product)
}

func (s *Store) insertLocked(product domain.Product) (*domain.Product, error) {
	barcode := strings.TrimSpace(product.Barcode)
	if _, taken := s.byBarcode[barcode]; taken {
		return nil, store.ErrDuplicateBarcode
	}

	s.nextProduct++
	product.ID = s.nextProduct
	product.Barcode = barcode
	s.products[product.ID] = product
	s.byBarcode[barcode] = product.ID

	created := product
	return &created, nil
}

func (s *Store) UpdateProduct(_ context.Context, product domain.Product) (*domain.Product, error) {
	if err := store.ValidateProduct(product); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.products[product.ID]
	if !ok {
		return nil, store.ErrNotFound
	}
	barcode := strings.TrimSpace(product.Barcode)
	if owner, taken := s.byBarcode[barcode]; taken && owner != product.ID {
		return nil, store.ErrDuplicateBarcode
	}

	delete(s.byBarcode, current.Barcode)
	product.Barcode = barcode
	s.products[product.ID] = product
	s.byBarcode[barcode] = product.ID

	updated := product
	return &updated, nil
}

func (s *Store) DeleteProduct(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, ok := s.products[id]
	if !ok {
		return store.ErrNotFound
	}
	delete(s.products, id)
	delete(s.byBarcode, product.Barcode)
	return nil
}

func (s *Store) SeedProducts(_ context.Context, products []domain.Product) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.products) > 0 {
		return 0, nil
	}
	inserted := 0
	for _, p := range products {
		if err := store.ValidateProduct(p); err != nil {
			return inserted, err
		}
		if _, err := s.insertLocked(p); err != nil {
			return inserted, err
		}
		inserted++
	}
	return inserted, nil
}

func (s *Store) SaveOrder(_ context.Context, order domain.Order) (*domain.Order, error) {
	if err := store.ValidateOrder(order); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]domain.OrderItem, len(order.Items))
	copy(items, order.Items)
	for i := range items {
		s.nextRow++
		items[i].RowID = s.nextRow
	}
	order.Items = items
	s.orders[order.ID] = order

	saved := cloneOrder(order)
	return &saved, nil
}

func (s *Store) GetOrder(_ context.Context, id int64) (*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	order, ok := s.orders[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	found := cloneOrder(order)
	return &found, nil
}

func cloneOrder(order domain.Order) domain.Order {
	items := make([]domain.OrderItem, len(order.Items))
	copy(items, order.Items)
	order.Items = items
	return order
}
