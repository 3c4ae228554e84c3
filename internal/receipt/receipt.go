package receipt

import (
	"errors"

	"github.com/shopspring/decimal"
)

// TaxClass is the tax category letter printed after an item price
type TaxClass string

const (
	TaxClassNone TaxClass = ""
	TaxClassA    TaxClass = "A"
	TaxClassB    TaxClass = "B"
)

// Product is one parsed receipt line item
type Product struct {
	Name     string
	Price    decimal.Decimal
	TaxClass TaxClass
}

// WithPrice returns a copy of the product carrying a corrected price. The
// parsed original is never mutated.
func (p Product) WithPrice(price decimal.Decimal) Product {
	p.Price = price
	return p
}

// Receipt is the parsed content of one uploaded document: the ordered line
// items and a single card discount. Built once by the parser, never mutated
// afterwards; sessions work on their own snapshot.
type Receipt struct {
	Products []Product
	Discount decimal.Decimal
}

var (
	// ErrNoText means both extraction tiers produced empty text
	ErrNoText = errors.New("no text extracted from document")

	// ErrEmptyReceipt means text was extracted but no product line matched
	ErrEmptyReceipt = errors.New("no products found in receipt")

	// ErrInvalidPrice means a correction input did not parse as an amount
	ErrInvalidPrice = errors.New("invalid price format")
)
