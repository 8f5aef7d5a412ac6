package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/BIDMYLIFE/POS/internal/domain"
	"github.com/BIDMYLIFE/POS/internal/store"
)

//go:embed schema.sql
var schemaSQL string

type Store struct {
	db *sql.DB
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	db, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, err
	}

	db.SetMaxIdleConns(8)
	db.SetMaxOpenConns(30)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 6*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// EnsureSchema creates the tables if they are missing.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

const productColumns = `id, category, name, price, cost, stock, barcode`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProduct(row rowScanner) (domain.Product, error) {
	var p domain.Product
	err := row.Scan(&p.ID, &p.Category, &p.Name, &p.Price, &p.Cost, &p.Stock, &p.Barcode)
	return p, err
}

func (s *Store) ListProducts(ctx context.Context) ([]domain.Product, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+productColumns+` FROM products ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := make([]domain.Product, 0, 64)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return products, nil
}

func (s *Store) GetProduct(ctx context.Context, id int64) (*domain.Product, error) {
	product, err := scanProduct(s.db.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

func (s *Store) CreateProduct(ctx context.Context, product domain.Product) (*domain.Product, error) {
	if err := store.ValidateProduct(product); err != nil {
		return nil, err
	}
	return insertProduct(ctx, s.db, product)
}

type execQuerier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func insertProduct(ctx context.Context, q execQuerier, product domain.Product) (*domain.Product, error) {
	product.Barcode = strings.TrimSpace(product.Barcode)
	err := q.QueryRowContext(ctx, `
		INSERT INTO products (category, name, price, cost, stock, barcode, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,now(),now())
		RETURNING id
	`, product.Category, product.Name, product.Price, product.Cost, product.Stock, product.Barcode).Scan(&product.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrDuplicateBarcode
		}
		return nil, err
	}
	created := product
	return &created, nil
}

func (s *Store) UpdateProduct(ctx context.Context, product domain.Product) (*domain.Product, error) {
	if err := store.ValidateProduct(product); err != nil {
		return nil, err
	}

	product.Barcode = strings.TrimSpace(product.Barcode)
	res, err := s.db.ExecContext(ctx, `
		UPDATE products
		SET category = $2, name = $3, price = $4, cost = $5, stock = $6, barcode = $7, updated_at = now()
		WHERE id = $1
	`, product.ID, product.Category, product.Name, product.Price, product.Cost, product.Stock, product.Barcode)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, store.ErrDuplicateBarcode
		}
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, store.ErrNotFound
	}
	updated := product
	return &updated, nil
}

func (s *Store) DeleteProduct(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) SeedProducts(ctx context.Context, products []domain.Product) (int, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	var count int
	if err := tx.QueryRowContext(ctx, `SELECT count(*) FROM products`).Scan(&count); err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	for _, p := range products {
		if err := store.ValidateProduct(p); err != nil {
			return 0, err
		}
		if _, err := insertProduct(ctx, tx, p); err != nil {
			return 0, err
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(products), nil
}

func (s *Store) SaveOrder(ctx context.Context, order domain.Order) (*domain.Order, error) {
	if err := store.ValidateOrder(order); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO pos_orders (id, subtotal, discount, total, payment_method, sold_at, create_time)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (id) DO UPDATE SET
			subtotal = EXCLUDED.subtotal,
			discount = EXCLUDED.discount,
			total = EXCLUDED.total,
			payment_method = EXCLUDED.payment_method,
			sold_at = EXCLUDED.sold_at,
			create_time = EXCLUDED.create_time
	`, order.ID, order.Subtotal, order.Discount, order.Total, string(order.PaymentMethod), order.Timestamp, order.CreateTime); err != nil {
		return nil, fmt.Errorf("upsert order: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM pos_order_items WHERE order_id = $1`, order.ID); err != nil {
		return nil, fmt.Errorf("clear order items: %w", err)
	}

	items := make([]domain.OrderItem, len(order.Items))
	for i, item := range order.Items {
		err := tx.QueryRowContext(ctx, `
			INSERT INTO pos_order_items (order_id, product_id, name, price, quantity, stock, barcode, category)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
			RETURNING row_id
		`, order.ID, item.ProductID, item.Name, item.Price, item.Quantity, item.Stock, item.Barcode, item.Category).Scan(&item.RowID)
		if err != nil {
			return nil, fmt.Errorf("insert order item: %w", err)
		}
		items[i] = item
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	order.Items = items
	return &order, nil
}

func (s *Store) GetOrder(ctx context.Context, id int64) (*domain.Order, error) {
	var order domain.Order
	var method string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, subtotal, discount, total, payment_method, sold_at, create_time
		FROM pos_orders
		WHERE id = $1
	`, id).Scan(&order.ID, &order.Subtotal, &order.Discount, &order.Total, &method, &order.Timestamp, &order.CreateTime)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, err
	}
	order.PaymentMethod = domain.PaymentMethod(method)
	order.Timestamp = order.Timestamp.UTC()
	order.CreateTime = order.CreateTime.UTC()

	rows, err := s.db.QueryContext(ctx, `
		SELECT row_id, product_id, name, price, quantity, stock, barcode, category
		FROM pos_order_items
		WHERE order_id = $1
		ORDER BY row_id
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	order.Items = make([]domain.OrderItem, 0, 8)
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(&item.RowID, &item.ProductID, &item.Name, &item.Price, &item.Quantity, &item.Stock, &item.Barcode, &item.Category); err != nil {
			return nil, err
		}
		order.Items = append(order.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &order, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return false
}
