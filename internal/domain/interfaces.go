package domain

import (
	"context"
	"encoding/json"
)

// ─── Service Interfaces ─────────────────────────────────────────────────────
// These interfaces define boundaries between layers.
// Infrastructure implements them; the application layer depends on them.

// Wallet abstracts one balance-store backend (local guest wallet or the
// database-backed account store). Spend and Earn return the balance after
// the mutation.
type Wallet interface {
	// Balance reads the actor's current balance. A missing account record
	// yields ErrActorNotFound; guest wallets lazily initialize instead.
	Balance(ctx context.Context, actorID string) (int64, error)

	// Spend atomically debits amount if the balance covers it. Refusal is an
	// *InsufficientBalloonsError and leaves the balance untouched.
	Spend(ctx context.Context, actorID string, amount int64, description string) (int64, error)

	// Earn credits amount, creating the balance record seeded at amount if
	// none exists yet.
	Earn(ctx context.Context, actorID string, amount int64, description string) (int64, error)
}

// TransactionLog exposes the append-only ledger trail. Only account wallets
// have one; the guest wallet deliberately does not.
type TransactionLog interface {
	Transactions(ctx context.Context, actorID string, limit int) ([]Transaction, error)
}

// FunctionInvoker calls a named remote serverless function with a JSON body
// and returns the data portion of its {data, error} envelope.
type FunctionInvoker interface {
	Invoke(ctx context.Context, function string, payload json.RawMessage) (json.RawMessage, error)
}

// Notifier surfaces user-facing messages (the original product showed these
// as toasts). Severity is "info" or "destructive".
type Notifier interface {
	Notify(actor Actor, severity, message string)
}

// NopNotifier discards all notifications.
type NopNotifier struct{}

func (NopNotifier) Notify(Actor, string, string) {}
