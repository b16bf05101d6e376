// Package ledger is the only sanctioned mutator of balloon balances.
// It routes each operation to the actor's backing wallet (guest file wallet
// or the database account store), records metrics, and surfaces the
// user-facing messages the product shows as toasts.
package ledger

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/eventor-ai/balloond/internal/domain"
	"github.com/eventor-ai/balloond/internal/infra/observability"
)

// Service composes the two wallet backends behind one spend/earn API.
type Service struct {
	accounts domain.Wallet
	guests   domain.Wallet
	trail    domain.TransactionLog
	notify   domain.Notifier
	log      zerolog.Logger
}

// New creates the ledger service. Both wallets are constructor-injected so
// tests can fake them.
func New(accounts, guests domain.Wallet, trail domain.TransactionLog, notify domain.Notifier, log zerolog.Logger) *Service {
	if notify == nil {
		notify = domain.NopNotifier{}
	}
	return &Service{accounts: accounts, guests: guests, trail: trail, notify: notify, log: log}
}

func (s *Service) wallet(actor domain.Actor) domain.Wallet {
	if actor.Kind == domain.ActorGuest {
		return s.guests
	}
	return s.accounts
}

// Balance reads the actor's balance. A missing account record is rendered
// as zero rather than an error (the row appears on first earn).
func (s *Service) Balance(ctx context.Context, actor domain.Actor) (int64, error) {
	balance, err := s.wallet(actor).Balance(ctx, actor.ID)
	if errors.Is(err, domain.ErrActorNotFound) {
		return 0, nil
	}
	return balance, err
}

// Spend debits amount from the actor. On refusal the balance is untouched,
// the user gets a destructive notification naming both numbers, and the
// returned error matches domain.ErrInsufficientBalloons.
func (s *Service) Spend(ctx context.Context, actor domain.Actor, amount int64, description string) (int64, error) {
	if amount <= 0 {
		return 0, domain.ErrInvalidAmount
	}

	balance, err := s.wallet(actor).Spend(ctx, actor.ID, amount, description)

	var short *domain.InsufficientBalloonsError
	switch {
	case errors.As(err, &short):
		observability.SpendsTotal.WithLabelValues("refused", string(actor.Kind)).Inc()
		s.notify.Notify(actor, "destructive",
			fmt.Sprintf("Not enough balloons: you have %d balloons but need %d.", short.Balance, short.Required))
		return short.Balance, err
	case err != nil:
		observability.SpendsTotal.WithLabelValues("error", string(actor.Kind)).Inc()
		s.log.Error().Err(err).Str("actor", actor.ID).Int64("amount", amount).Msg("spend failed")
		s.notify.Notify(actor, "destructive", "Something went wrong spending your balloons. Please try again.")
		return 0, err
	}

	observability.SpendsTotal.WithLabelValues("ok", string(actor.Kind)).Inc()
	observability.BalloonsSpent.Add(float64(amount))
	s.log.Info().Str("actor", actor.ID).Str("kind", string(actor.Kind)).
		Int64("amount", amount).Int64("balance", balance).Str("description", description).
		Msg("balloons spent")
	return balance, nil
}

// Earn credits amount to the actor, creating the balance record if none
// exists, and tells the user about it.
func (s *Service) Earn(ctx context.Context, actor domain.Actor, amount int64, description string) (int64, error) {
	if amount <= 0 {
		return 0, domain.ErrInvalidAmount
	}

	balance, err := s.wallet(actor).Earn(ctx, actor.ID, amount, description)
	if err != nil {
		observability.EarnsTotal.WithLabelValues("error", string(actor.Kind)).Inc()
		s.log.Error().Err(err).Str("actor", actor.ID).Int64("amount", amount).Msg("earn failed")
		s.notify.Notify(actor, "destructive", "Something went wrong crediting your balloons.")
		return 0, err
	}

	observability.EarnsTotal.WithLabelValues("ok", string(actor.Kind)).Inc()
	observability.BalloonsEarned.Add(float64(amount))
	s.notify.Notify(actor, "info", fmt.Sprintf("You earned %d balloons! 🎈", amount))
	s.log.Info().Str("actor", actor.ID).Str("kind", string(actor.Kind)).
		Int64("amount", amount).Int64("balance", balance).Str("description", description).
		Msg("balloons earned")
	return balance, nil
}

// Transactions returns the actor's ledger trail, newest first.
// Guests have none. The asymmetry is product behavior, not an oversight.
func (s *Service) Transactions(ctx context.Context, actor domain.Actor, limit int) ([]domain.Transaction, error) {
	if actor.Kind == domain.ActorGuest {
		return nil, domain.ErrNoTransactionTrail
	}
	return s.trail.Transactions(ctx, actor.ID, limit)
}
