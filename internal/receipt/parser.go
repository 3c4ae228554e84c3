package receipt

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// defaultNameBlockSkip matches the header height of the receipts this was
// built against (store name, address, VAT number). Layout-specific, so it is
// a Parser field rather than a constant.
const defaultNameBlockSkip = 5

var (
	// stopWords mark receipt boilerplate lines that are never products
	stopWords = []string{"preis", "summe", "rabatt", "kartenzahlung"}

	// lineItemPattern matches "<name> <amount>[ taxclass]" with a European
	// decimal comma, e.g. "Milch 1,99 A"
	lineItemPattern = regexp.MustCompile(`^(.+?)\s+(\d{1,3},\d{2})\s?([AB])?\s*$`)

	// columnPricePattern validates a line from the prices block, tolerating
	// a leading sign and a trailing currency glyph
	columnPricePattern = regexp.MustCompile(`^[-+]?\s?(\d{1,3},\d{2})\s?([AB])?\s*€?\s*$`)

	// discountPattern finds the card discount anywhere in the text, with a
	// plain hyphen or an en-dash before the amount
	discountPattern = regexp.MustCompile(`K\s*Card\s*Rabatt\s*[-–](\d{1,3}[,.]\d{2})`)
)

// Parser turns extracted receipt text into an ordered product list and a
// discount. It supports two strategies: slicing the text into a names block
// and a prices block between section markers (used when the document exposes
// a price column header and a subtotal line), and plain line-oriented
// matching. The structural strategy wins whenever both markers are present
// and it yields products.
type Parser struct {
	// NameBlockSkip is the number of header lines preceding the names block
	// when slicing by section markers
	NameBlockSkip int
}

// NewParser creates a Parser with the default names-block offset
func NewParser() *Parser {
	return &Parser{NameBlockSkip: defaultNameBlockSkip}
}

// Parse extracts products and the card discount from receipt text.
// Unparseable lines are skipped, a missing discount yields zero; the only
// failure is ErrEmptyReceipt when no strategy finds any product.
func (p *Parser) Parse(text string) (*Receipt, error) {
	lines := splitLines(text)

	products := p.parseStructural(lines)
	if len(products) == 0 {
		products = p.parseLines(lines)
	}
	if len(products) == 0 {
		return nil, fmt.Errorf("parsing %d lines: %w", len(lines), ErrEmptyReceipt)
	}

	return &Receipt{
		Products: products,
		Discount: parseDiscount(text),
	}, nil
}

// splitLines trims every line and drops empty ones, preserving order
func splitLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// parseLines applies the line-oriented strategy: filter boilerplate, then
// match each remaining line as "<name> <amount>[ taxclass]"
func (p *Parser) parseLines(lines []string) []Product {
	var products []Product
	for _, line := range lines {
		if isStopLine(line) {
			continue
		}
		m := lineItemPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		price, err := ParsePrice(m[2])
		if err != nil {
			continue
		}
		products = append(products, Product{
			Name:     strings.TrimSpace(m[1]),
			Price:    price,
			TaxClass: TaxClass(m[3]),
		})
	}
	return products
}

// parseStructural applies the column strategy: names between the header skip
// and the price column marker, prices between that marker and the subtotal
// marker, paired positionally up to the shorter block.
func (p *Parser) parseStructural(lines []string) []Product {
	headerIdx, subtotalIdx := -1, -1
	for i, line := range lines {
		lower := strings.ToLower(line)
		if headerIdx == -1 && strings.Contains(lower, "preis") {
			headerIdx = i
			continue
		}
		if headerIdx != -1 && strings.Contains(lower, "summe") {
			subtotalIdx = i
			break
		}
	}
	if headerIdx == -1 || subtotalIdx == -1 {
		return nil
	}

	skip := p.NameBlockSkip
	if skip < 0 {
		skip = 0
	}
	if skip > headerIdx {
		skip = headerIdx
	}
	names := lines[skip:headerIdx]

	var prices []Product
	for _, line := range lines[headerIdx+1 : subtotalIdx] {
		m := columnPricePattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		price, err := ParsePrice(m[1])
		if err != nil {
			continue
		}
		prices = append(prices, Product{Price: price, TaxClass: TaxClass(m[2])})
	}

	n := len(names)
	if len(prices) < n {
		n = len(prices)
	}
	products := make([]Product, 0, n)
	for i := 0; i < n; i++ {
		products = append(products, Product{
			Name:     names[i],
			Price:    prices[i].Price,
			TaxClass: prices[i].TaxClass,
		})
	}
	return products
}

// parseDiscount scans the whole text for the card discount; absence is zero
func parseDiscount(text string) decimal.Decimal {
	m := discountPattern.FindStringSubmatch(text)
	if m == nil {
		return decimal.Zero
	}
	d, err := ParsePrice(m[1])
	if err != nil {
		return decimal.Zero
	}
	return d
}

// isStopLine reports whether a line is known receipt boilerplate
func isStopLine(line string) bool {
	lower := strings.ToLower(line)
	for _, w := range stopWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

// ParsePrice parses an amount accepting a comma or period decimal separator,
// as printed on receipts and as users type corrections
func ParsePrice(s string) (decimal.Decimal, error) {
	s = strings.Replace(strings.TrimSpace(s), ",", ".", 1)
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %q", ErrInvalidPrice, s)
	}
	return d, nil
}
