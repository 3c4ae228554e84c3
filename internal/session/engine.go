package session

import (
	"log/slog"

	"github.com/zombor/splitbot/internal/receipt"
)

// Action is a button offered alongside a presented item
type Action string

const (
	ActionAccept   Action = "accept"
	ActionEdit     Action = "edit"
	ActionPersonal Action = "personal"
	ActionDelete   Action = "delete"
)

// allActions is the full button row for a presented item, in display order
var allActions = []Action{ActionAccept, ActionEdit, ActionPersonal, ActionDelete}

// Notifier delivers outbound requests to the messaging transport
type Notifier interface {
	// ShowItem presents one product together with the available actions
	ShowItem(conversationID string, product receipt.Product, actions []Action)

	// ShowMessage delivers a plain text notice
	ShowMessage(conversationID string, text string)

	// ShowSettlement delivers the final breakdown
	ShowSettlement(conversationID string, settlement receipt.Settlement)
}

// Engine drives sessions through the confirmation walk: one decision resolves
// one item, items are visited strictly in receipt order, and the settlement
// is computed exactly once when the walk completes.
type Engine struct {
	store    *Store
	notifier Notifier
}

// NewEngine creates a new Engine over the given store and transport
func NewEngine(store *Store, notifier Notifier) *Engine {
	return &Engine{
		store:    store,
		notifier: notifier,
	}
}

// StartSession installs a fresh session for the conversation, silently
// replacing any session it already had, and presents the first item.
func (e *Engine) StartSession(conversationID string, rcpt *receipt.Receipt) {
	e.store.Put(conversationID, NewSession(rcpt))
	slog.Info("Started confirmation session",
		"conversation", conversationID,
		"products", len(rcpt.Products),
	)
	e.store.With(conversationID, func(s *Session) {
		e.present(conversationID, s)
	})
}

// HandleDecision applies one button decision to the conversation's session.
// Decisions for conversations without a session are dropped; stray button
// presses on stale messages must not fault.
func (e *Engine) HandleDecision(conversationID string, decision Decision) {
	found := e.store.With(conversationID, func(s *Session) {
		switch s.state {
		case StateCompleted:
			// Idempotent: re-emit the cached settlement, mutate nothing
			e.notifier.ShowSettlement(conversationID, s.Settlement())
			return
		case StateAwaitingCorrection:
			// A typed price is expected next; buttons are ignored until then
			return
		}

		current, ok := s.Current()
		if !ok {
			return
		}

		switch decision {
		case DecisionAccept:
			s.confirmed = append(s.confirmed, current)
			s.advance()
		case DecisionPersonal:
			s.confirmed = append(s.confirmed, current)
			s.personal = append(s.personal, current)
			s.advance()
		case DecisionDelete:
			s.advance()
		case DecisionEdit:
			s.state = StateAwaitingCorrection
			e.notifier.ShowMessage(conversationID, "Enter the correct price:")
			return
		}

		e.present(conversationID, s)
	})
	if !found {
		slog.Debug("Decision for unknown conversation dropped", "conversation", conversationID)
	}
}

// HandleCorrection consumes free-text input as a replacement price when the
// conversation's session is awaiting one. Returns false when the text was not
// consumed, so the transport can treat it as ordinary chatter.
func (e *Engine) HandleCorrection(conversationID string, text string) bool {
	consumed := false
	e.store.With(conversationID, func(s *Session) {
		if s.state != StateAwaitingCorrection {
			return
		}
		consumed = true

		current, ok := s.Current()
		if !ok {
			return
		}

		price, err := receipt.ParsePrice(text)
		if err != nil {
			// Treated as a delete for this slot; the walk continues
			e.notifier.ShowMessage(conversationID, "Invalid price format, skipping this item.")
		} else {
			s.confirmed = append(s.confirmed, current.WithPrice(price))
		}

		s.advance()
		e.present(conversationID, s)
	})
	return consumed
}

// present shows the item at the cursor, or finishes the walk
func (e *Engine) present(conversationID string, s *Session) {
	if s.state == StateCompleted {
		e.finish(conversationID, s)
		return
	}

	current, ok := s.Current()
	if !ok {
		return
	}
	e.notifier.ShowItem(conversationID, current, allActions)
}

// finish delivers the settlement and retires the session
func (e *Engine) finish(conversationID string, s *Session) {
	settlement := s.Settlement()
	e.notifier.ShowSettlement(conversationID, settlement)
	e.store.Remove(conversationID)
	slog.Info("Session completed",
		"conversation", conversationID,
		"confirmed", len(s.confirmed),
		"personal", len(s.personal),
		"total", settlement.Total,
	)
}
