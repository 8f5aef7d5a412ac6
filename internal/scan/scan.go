package scan

import (
	"strings"

	"github.com/BIDMYLIFE/POS/internal/domain"
)

// KeyEnter is the key that submits a field.
const KeyEnter = "Enter"

type Mode int

const (
	// Standalone is the dedicated scanner input: Enter always clears it once
	// it holds a code, matched or not.
	Standalone Mode = iota
	// Combined is the search box that doubles as a scan field: Enter only
	// clears it when the code matched, so a miss keeps the search filter.
	Combined
)

// Catalog resolves an exact barcode.
type Catalog interface {
	FindByBarcode(barcode string) (domain.Product, bool)
}

// Cart receives scanned products.
type Cart interface {
	Add(product domain.Product)
}

type Result struct {
	Code    string          `json:"code"`
	Matched bool            `json:"matched"`
	Product *domain.Product `json:"product,omitempty"`
	Cleared bool            `json:"cleared"`
}

// Field is a text input bound to barcode lookups on Enter.
type Field struct {
	mode Mode
	text string
}

func NewField(mode Mode) *Field {
	return &Field{mode: mode}
}

func (f *Field) SetText(text string) {
	f.text = text
}

func (f *Field) Text() string {
	return f.text
}

func (f *Field) Mode() Mode {
	return f.mode
}

// HandleKey reacts to a key press; only Enter does anything.
func (f *Field) HandleKey(key string, catalog Catalog, cart Cart) (Result, bool) {
	if key != KeyEnter {
		return Result{}, false
	}
	return f.Enter(catalog, cart), true
}

// Enter looks up the trimmed field text and adds a matching product to the
// cart. Whether the field is cleared depends on the mode.
func (f *Field) Enter(catalog Catalog, cart Cart) Result {
	code := strings.TrimSpace(f.text)
	result := Result{Code: code}

	if f.mode == Standalone && code == "" {
		return result
	}

	product, ok := catalog.FindByBarcode(code)
	if ok {
		cart.Add(product)
		result.Matched = true
		result.Product = &product
	}

	if ok || f.mode == Standalone {
		f.text = ""
		result.Cleared = true
	}
	return result
}
