package sale

import (
	"context"
	"errors"
	"sync"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/BIDMYLIFE/POS/internal/cart"
	"github.com/BIDMYLIFE/POS/internal/clock"
	"github.com/BIDMYLIFE/POS/internal/domain"
	"github.com/BIDMYLIFE/POS/internal/logging"
	"github.com/BIDMYLIFE/POS/internal/xid"
)

var ErrNoReceipt = errors.New("no receipt to save")

type State int

const (
	// Open means a sale is being assembled.
	Open State = iota
	// Committed means a transaction was produced and its receipt is showing.
	Committed
)

func (s State) String() string {
	if s == Committed {
		return "committed"
	}
	return "open"
}

// StockDecrementer is the catalog side of a commit.
type StockDecrementer interface {
	DecrementStock(productID int64, amount int)
}

// ReceiptSaver persists a transaction to the backend.
type ReceiptSaver interface {
	SaveReceipt(ctx context.Context, tx domain.Transaction) error
}

// Checkout is the in-progress sale: the cart plus the cart-level discount
// and payment method.
type Checkout struct {
	Cart          *cart.Cart
	Discount      decimal.Decimal
	PaymentMethod domain.PaymentMethod
}

func NewCheckout(c *cart.Cart) *Checkout {
	return &Checkout{Cart: c, Discount: decimal.Zero, PaymentMethod: domain.PaymentCash}
}

func (co *Checkout) SetDiscount(percent decimal.Decimal) decimal.Decimal {
	co.Discount = cart.ClampDiscount(percent)
	return co.Discount
}

func (co *Checkout) Subtotal() decimal.Decimal {
	return co.Cart.Subtotal()
}

func (co *Checkout) Total() decimal.Decimal {
	return co.Cart.Total(co.Discount)
}

type Finalizer struct {
	mu     sync.Mutex
	state  State
	ledger Ledger
	last   *domain.Transaction
	stock  StockDecrementer
	saver  ReceiptSaver
	ids    *xid.Sequence
	clock  clock.Clock
	logger *zap.Logger
}

func NewFinalizer(stock StockDecrementer, saver ReceiptSaver, c clock.Clock, logger *zap.Logger) *Finalizer {
	if c == nil {
		c = clock.NewRealClock()
	}
	return &Finalizer{
		stock:  stock,
		saver:  saver,
		ids:    xid.NewSequence(c),
		clock:  c,
		logger: logging.OrNop(logger),
	}
}

// CompleteSale commits the checkout. An empty cart is a no-op and reports
// false. Otherwise the cart is snapshotted into a Transaction, stock is
// decremented for every line, the Transaction is prepended to the ledger,
// the cart is cleared and the discount reset to zero.
func (f *Finalizer) CompleteSale(co *Checkout) (domain.Transaction, bool) {
	if co == nil || co.Cart.IsEmpty() {
		return domain.Transaction{}, false
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	subtotal := co.Cart.Subtotal()
	tx := domain.Transaction{
		ID:            f.ids.Next(),
		Items:         co.Cart.Items(),
		Subtotal:      subtotal,
		Discount:      co.Discount,
		Total:         cart.Total(subtotal, co.Discount),
		PaymentMethod: co.PaymentMethod,
		Timestamp:     f.clock.Now(),
	}

	for _, item := range tx.Items {
		f.stock.DecrementStock(item.ID, item.Quantity)
	}

	f.ledger.prepend(tx)
	co.Cart.Clear()
	co.Discount = decimal.Zero

	receipt := tx.Clone()
	f.last = &receipt
	f.state = Committed

	f.logger.Info("sale completed",
		zap.Int64("transaction_id", tx.ID),
		zap.Int("lines", tx.ItemCount()),
		zap.String("total", tx.Total.String()),
		zap.String("payment_method", string(tx.PaymentMethod)),
	)
	return tx.Clone(), true
}

func (f *Finalizer) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Receipt returns the receipt on display while Committed.
func (f *Finalizer) Receipt() (domain.Transaction, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != Committed || f.last == nil {
		return domain.Transaction{}, false
	}
	return f.last.Clone(), true
}

// LastTransaction returns the most recent commit even after dismissal.
func (f *Finalizer) LastTransaction() (domain.Transaction, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.last == nil {
		return domain.Transaction{}, false
	}
	return f.last.Clone(), true
}

func (f *Finalizer) DismissReceipt() {
	f.mu.Lock()
	f.state = Open
	f.mu.Unlock()
}

// SaveReceipt persists the last transaction. It runs outside the commit:
// a failure leaves the ledger as it is and may be retried. On success the
// receipt view closes.
func (f *Finalizer) SaveReceipt(ctx context.Context) (domain.Transaction, error) {
	tx, ok := f.LastTransaction()
	if !ok {
		return domain.Transaction{}, ErrNoReceipt
	}

	if err := f.saver.SaveReceipt(ctx, tx); err != nil {
		f.logger.Error("failed to save receipt", zap.Int64("transaction_id", tx.ID), zap.Error(err))
		return tx, err
	}

	f.mu.Lock()
	if f.last != nil && f.last.ID == tx.ID {
		f.state = Open
	}
	f.mu.Unlock()

	f.logger.Info("receipt saved", zap.Int64("transaction_id", tx.ID))
	return tx, nil
}

func (f *Finalizer) Ledger() []domain.Transaction {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ledger.All()
}

func (f *Finalizer) Recent(n int) []domain.Transaction {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.ledger.Recent(n)
}
