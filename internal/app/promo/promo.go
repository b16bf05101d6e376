// Package promo hands out the earn-side promotions: the signup bonus for
// newly seen accounts and the once-per-day daily bonus. Grants are guarded
// by a grant record, so claiming twice never pays twice.
package promo

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/eventor-ai/balloond/internal/app/ledger"
	"github.com/eventor-ai/balloond/internal/domain"
)

// GrantRecorder persists promotion grant records (implemented by the sqlite
// store).
type GrantRecorder interface {
	RecordPromoGrant(ctx context.Context, actorID, promo, period string) (bool, error)
}

// Config sets the bonus amounts. Zero disables a promotion.
type Config struct {
	SignupBonus int64
	DailyBonus  int64
}

// Service grants promotions through the ledger.
type Service struct {
	ledger *ledger.Service
	grants GrantRecorder
	cfg    Config
	log    zerolog.Logger
	now    func() time.Time
}

// New creates the promotion service.
func New(ledgerSvc *ledger.Service, grants GrantRecorder, cfg Config, log zerolog.Logger) *Service {
	return &Service{ledger: ledgerSvc, grants: grants, cfg: cfg, log: log, now: time.Now}
}

// ClaimSignup pays the signup bonus to an account actor exactly once.
// Returns the amount granted (0 when already claimed or disabled).
func (s *Service) ClaimSignup(ctx context.Context, actor domain.Actor) (int64, error) {
	if s.cfg.SignupBonus <= 0 || actor.Kind != domain.ActorAccount {
		return 0, nil
	}

	fresh, err := s.grants.RecordPromoGrant(ctx, actor.ID, "signup", "")
	if err != nil {
		return 0, err
	}
	if !fresh {
		return 0, nil
	}

	if _, err := s.ledger.Earn(ctx, actor, s.cfg.SignupBonus, "signup bonus"); err != nil {
		return 0, err
	}
	s.log.Info().Str("actor", actor.ID).Int64("amount", s.cfg.SignupBonus).Msg("signup bonus granted")
	return s.cfg.SignupBonus, nil
}

// ClaimDaily pays the daily bonus at most once per UTC day per actor.
// Returns the amount granted (0 when already claimed today or disabled).
func (s *Service) ClaimDaily(ctx context.Context, actor domain.Actor) (int64, error) {
	if s.cfg.DailyBonus <= 0 {
		return 0, nil
	}

	day := s.now().UTC().Format(time.DateOnly)
	fresh, err := s.grants.RecordPromoGrant(ctx, actor.ID, "daily", day)
	if err != nil {
		return 0, err
	}
	if !fresh {
		return 0, nil
	}

	if _, err := s.ledger.Earn(ctx, actor, s.cfg.DailyBonus, "daily bonus "+day); err != nil {
		return 0, err
	}
	s.log.Info().Str("actor", actor.ID).Int64("amount", s.cfg.DailyBonus).Str("day", day).Msg("daily bonus granted")
	return s.cfg.DailyBonus, nil
}
