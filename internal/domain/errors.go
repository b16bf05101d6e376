package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure: no infrastructure dependency.

var (
	// Ledger errors
	ErrInsufficientBalloons = errors.New("insufficient balloons")
	ErrInvalidAmount        = errors.New("amount must be a positive integer")
	ErrActorNotFound        = errors.New("no balance record for actor")
	ErrNoTransactionTrail   = errors.New("guest balances keep no transaction history")

	// Feature gate errors
	ErrUnknownFeature = errors.New("unknown feature")
	ErrFunctionFailed = errors.New("remote function call failed")

	// Auth errors
	ErrUnauthorized = errors.New("request carries no valid actor identity")
)
