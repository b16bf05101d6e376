// Package domain contains pure business types with ZERO infrastructure imports.
// This is the innermost ring of the service; it depends on nothing.
package domain

import (
	"fmt"
	"time"
)

// ─── Actor Types ────────────────────────────────────────────────────────────

// ActorKind distinguishes the two balance-owning populations.
type ActorKind string

const (
	// ActorGuest is an anonymous actor identified by a persistent guest token.
	// Guest balances live in a local wallet file and keep no transaction trail.
	ActorGuest ActorKind = "guest"

	// ActorAccount is an authenticated actor identified by the auth provider's
	// user id. Account balances live in the database with a full ledger.
	ActorAccount ActorKind = "account"
)

// Actor is the unit a balloon balance is scoped to.
type Actor struct {
	ID   string    `json:"id"`
	Kind ActorKind `json:"kind"`
}

// GuestActor builds a guest actor from a guest token.
func GuestActor(token string) Actor { return Actor{ID: token, Kind: ActorGuest} }

// AccountActor builds an authenticated actor from a user id.
func AccountActor(userID string) Actor { return Actor{ID: userID, Kind: ActorAccount} }

// ─── Balance Types ──────────────────────────────────────────────────────────

// Balance is one actor's balloon balance.
type Balance struct {
	ActorID   string    `json:"actor_id"`
	Amount    int64     `json:"amount"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ─── Transaction Types ──────────────────────────────────────────────────────

// TxKind is the direction of a ledger transaction.
type TxKind string

const (
	TxSpend TxKind = "spend"
	TxEarn  TxKind = "earn"
)

// Transaction is a single row in the append-only balloon ledger.
// Amount is signed: negative for spend, positive for earn.
type Transaction struct {
	ID          string    `json:"id"`
	ActorID     string    `json:"actor_id"`
	Amount      int64     `json:"amount"`
	Kind        TxKind    `json:"transaction_type"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// ─── Feature Types ──────────────────────────────────────────────────────────

// Feature maps a gated feature name to its balloon cost and the remote
// serverless function that implements it.
type Feature struct {
	Name        string `json:"name"`
	Cost        int64  `json:"cost"`
	Function    string `json:"function"`
	Description string `json:"description"`
}

// ─── Insufficient Funds ─────────────────────────────────────────────────────

// InsufficientBalloonsError reports a refused spend. It carries the numbers
// the user-facing message must name.
type InsufficientBalloonsError struct {
	Balance  int64
	Required int64
}

func (e *InsufficientBalloonsError) Error() string {
	return fmt.Sprintf("insufficient balloons: you have %d balloons but need %d", e.Balance, e.Required)
}

// Is lets callers match with errors.Is(err, ErrInsufficientBalloons).
func (e *InsufficientBalloonsError) Is(target error) bool {
	return target == ErrInsufficientBalloons
}
