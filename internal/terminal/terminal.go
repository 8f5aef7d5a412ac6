package terminal

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/BIDMYLIFE/POS/internal/cart"
	"github.com/BIDMYLIFE/POS/internal/catalog"
	"github.com/BIDMYLIFE/POS/internal/clock"
	"github.com/BIDMYLIFE/POS/internal/domain"
	"github.com/BIDMYLIFE/POS/internal/logging"
	"github.com/BIDMYLIFE/POS/internal/reports"
	"github.com/BIDMYLIFE/POS/internal/sale"
	"github.com/BIDMYLIFE/POS/internal/scan"
)

var (
	ErrUnknownProduct = errors.New("unknown product")
	ErrOutOfStock     = errors.New("product out of stock")
	ErrNotInCart      = errors.New("product not in cart")
)

type Options struct {
	RecentLimit int
	Clock       clock.Clock
	Logger      *zap.Logger
}

// Terminal is the cashier station: one catalog, one sale in progress, the
// ledger of completed sales and the view state around them. Every mutation
// goes through its methods.
type Terminal struct {
	mu sync.Mutex

	sessionID string
	source    catalog.Source
	catalog   *catalog.Store
	checkout  *sale.Checkout
	finalizer *sale.Finalizer

	scanner *scan.Field
	search  *scan.Field

	tab         domain.Tab
	category    string
	recentLimit int

	logger *zap.Logger
}

func New(source catalog.Source, saver sale.ReceiptSaver, opts Options) *Terminal {
	logger := logging.OrNop(opts.Logger)
	sessionID := uuid.NewString()
	logger = logger.With(zap.String("session_id", sessionID))

	store := catalog.New(logger)
	recentLimit := opts.RecentLimit
	if recentLimit <= 0 {
		recentLimit = reports.DefaultRecentLimit
	}

	return &Terminal{
		sessionID:   sessionID,
		source:      source,
		catalog:     store,
		checkout:    sale.NewCheckout(cart.New(store)),
		finalizer:   sale.NewFinalizer(store, saver, opts.Clock, logger),
		scanner:     scan.NewField(scan.Standalone),
		search:      scan.NewField(scan.Combined),
		tab:         domain.TabPOS,
		category:    catalog.AllCategories,
		recentLimit: recentLimit,
		logger:      logger,
	}
}

func (t *Terminal) SessionID() string {
	return t.sessionID
}

// LoadCatalog fetches the product list from the backend. The network call
// runs without holding the terminal lock.
func (t *Terminal) LoadCatalog(ctx context.Context) error {
	return t.catalog.Load(ctx, t.source)
}

type Snapshot struct {
	SessionID      string               `json:"sessionId"`
	Tab            domain.Tab           `json:"tab"`
	Search         string               `json:"search"`
	Category       string               `json:"category"`
	Categories     []string             `json:"categories"`
	Products       []domain.Product     `json:"products"`
	Cart           []domain.CartItem    `json:"cart"`
	Subtotal       decimal.Decimal      `json:"subtotal"`
	Discount       decimal.Decimal      `json:"discount"`
	DiscountAmount decimal.Decimal      `json:"discountAmount"`
	Total          decimal.Decimal      `json:"total"`
	PaymentMethod  domain.PaymentMethod `json:"paymentMethod"`
	SaleState      string               `json:"saleState"`
	Receipt        *domain.Transaction  `json:"receipt,omitempty"`
}

// Snapshot copies everything the POS screen renders.
func (t *Terminal) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	subtotal := t.checkout.Subtotal()
	snap := Snapshot{
		SessionID:      t.sessionID,
		Tab:            t.tab,
		Search:         t.search.Text(),
		Category:       t.category,
		Categories:     t.catalog.Categories(),
		Products:       t.catalog.Filter(t.search.Text(), t.category),
		Cart:           t.checkout.Cart.Items(),
		Subtotal:       subtotal,
		Discount:       t.checkout.Discount,
		DiscountAmount: cart.DiscountAmount(subtotal, t.checkout.Discount),
		Total:          t.checkout.Total(),
		PaymentMethod:  t.checkout.PaymentMethod,
		SaleState:      t.finalizer.State().String(),
	}
	if tx, ok := t.finalizer.Receipt(); ok {
		snap.Receipt = &tx
	}
	return snap
}

func (t *Terminal) SetTab(raw string) error {
	tab, err := domain.ParseTab(raw)
	if err != nil {
		return err
	}
	t.mu.Lock()
	t.tab = tab
	t.mu.Unlock()
	return nil
}

// SetSearch updates the combined search field; its text is the filter term.
func (t *Terminal) SetSearch(text string) {
	t.mu.Lock()
	t.search.SetText(text)
	t.mu.Unlock()
}

func (t *Terminal) SetCategory(category string) {
	category = strings.TrimSpace(category)
	if category == "" {
		category = catalog.AllCategories
	}
	t.mu.Lock()
	t.category = category
	t.mu.Unlock()
}

// SelectProduct is a tap on a catalog tile. Tiles for products with no stock
// are disabled, so those are refused here.
func (t *Terminal) SelectProduct(productID int64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	product, ok := t.catalog.Get(productID)
	if !ok {
		return ErrUnknownProduct
	}
	if product.Stock <= 0 {
		return ErrOutOfStock
	}
	t.checkout.Cart.Add(product)
	return nil
}

// ChangeQuantity reports whether the line changed; a step past stock is
// ignored rather than treated as an error.
func (t *Terminal) ChangeQuantity(productID int64, delta int) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.checkout.Cart.Quantity(productID) == 0 {
		return false, ErrNotInCart
	}
	return t.checkout.Cart.ChangeQuantity(productID, delta), nil
}

func (t *Terminal) RemoveFromCart(productID int64) {
	t.mu.Lock()
	t.checkout.Cart.Remove(productID)
	t.mu.Unlock()
}

func (t *Terminal) ClearCart() {
	t.mu.Lock()
	t.checkout.Cart.Clear()
	t.mu.Unlock()
}

// SetDiscount stores the cart discount clamped to [0, 100] and returns the
// stored value.
func (t *Terminal) SetDiscount(percent decimal.Decimal) decimal.Decimal {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.checkout.SetDiscount(percent)
}

func (t *Terminal) SetPaymentMethod(raw string) error {
	method, err := domain.ParsePaymentMethod(raw)
	if err != nil {
		return err
	}
	t.mu.Lock()
	t.checkout.PaymentMethod = method
	t.mu.Unlock()
	return nil
}

// Scan feeds a code through the dedicated scanner field.
func (t *Terminal) Scan(code string) scan.Result {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.scanner.SetText(code)
	res, _ := t.scanner.HandleKey(scan.KeyEnter, t.catalog, t.checkout.Cart)
	t.logScan("scanner", res)
	return res
}

// SubmitSearch is Enter in the search box.
func (t *Terminal) SubmitSearch() scan.Result {
	t.mu.Lock()
	defer t.mu.Unlock()

	res, _ := t.search.HandleKey(scan.KeyEnter, t.catalog, t.checkout.Cart)
	t.logScan("search", res)
	return res
}

func (t *Terminal) logScan(field string, res scan.Result) {
	if res.Code == "" {
		return
	}
	if !res.Matched {
		t.logger.Info("barcode not found", zap.String("field", field), zap.String("barcode", res.Code))
		return
	}
	t.logger.Debug("barcode scanned", zap.String("field", field), zap.String("barcode", res.Code))
}

// CompleteSale commits the cart. An empty cart reports false and changes
// nothing.
func (t *Terminal) CompleteSale() (domain.Transaction, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.finalizer.CompleteSale(t.checkout)
}

func (t *Terminal) Receipt() (domain.Transaction, bool) {
	return t.finalizer.Receipt()
}

func (t *Terminal) DismissReceipt() {
	t.finalizer.DismissReceipt()
}

// SaveReceipt posts the last transaction to the backend. The call runs
// outside the terminal lock so the cashier can keep working.
func (t *Terminal) SaveReceipt(ctx context.Context) (domain.Transaction, error) {
	return t.finalizer.SaveReceipt(ctx)
}

// Products is the full inventory list, unfiltered.
func (t *Terminal) Products() []domain.Product {
	return t.catalog.Products()
}

func (t *Terminal) Report() reports.Summary {
	return t.ReportRecent(t.recentLimit)
}

// ReportRecent summarises the ledger listing at most limit recent sales.
func (t *Terminal) ReportRecent(limit int) reports.Summary {
	return reports.Summarize(t.finalizer.Ledger(), t.catalog.Len(), limit)
}

// RecentLimit is the configured length of the recent sales list.
func (t *Terminal) RecentLimit() int {
	return t.recentLimit
}
