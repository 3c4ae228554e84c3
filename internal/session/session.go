package session

import (
	"github.com/shopspring/decimal"

	"github.com/zombor/splitbot/internal/receipt"
)

// State identifies where a session is in the confirmation walk
type State int

const (
	// StatePresenting means the item at the cursor is being shown
	StatePresenting State = iota
	// StateAwaitingCorrection means a typed replacement price is expected
	// for the item at the cursor
	StateAwaitingCorrection
	// StateCompleted means every item has been resolved
	StateCompleted
)

// Decision is a user action on the currently presented item
type Decision int

const (
	DecisionAccept Decision = iota
	DecisionEdit
	DecisionPersonal
	DecisionDelete
)

// Session tracks confirmation progress over one parsed receipt for one
// conversation. It works on its own snapshot of the parsed products; items
// only ever move forward into confirmed/personal, the cursor never rewinds.
type Session struct {
	products   []receipt.Product
	discount   decimal.Decimal
	cursor     int
	confirmed  []receipt.Product
	personal   []receipt.Product
	state      State
	settlement *receipt.Settlement
}

// NewSession snapshots a parsed receipt into a fresh session at the first item
func NewSession(rcpt *receipt.Receipt) *Session {
	products := make([]receipt.Product, len(rcpt.Products))
	copy(products, rcpt.Products)

	s := &Session{
		products: products,
		discount: rcpt.Discount,
		state:    StatePresenting,
	}
	if len(products) == 0 {
		// The parser rejects empty receipts, but guard anyway
		s.state = StateCompleted
	}
	return s
}

// State returns the current state
func (s *Session) State() State {
	return s.state
}

// Current returns the product at the cursor; ok is false once completed
func (s *Session) Current() (receipt.Product, bool) {
	if s.cursor >= len(s.products) {
		return receipt.Product{}, false
	}
	return s.products[s.cursor], true
}

// Remaining returns how many items are still unresolved, including the
// current one
func (s *Session) Remaining() int {
	return len(s.products) - s.cursor
}

// advance moves the cursor forward by exactly one resolved item
func (s *Session) advance() {
	s.cursor++
	if s.cursor >= len(s.products) {
		s.state = StateCompleted
	} else {
		s.state = StatePresenting
	}
}

// Settlement computes the final breakdown exactly once; later calls return
// the cached value regardless of any state in between.
func (s *Session) Settlement() receipt.Settlement {
	if s.settlement == nil {
		settlement := receipt.ComputeSettlement(s.confirmed, s.personal, s.discount)
		s.settlement = &settlement
	}
	return *s.settlement
}
