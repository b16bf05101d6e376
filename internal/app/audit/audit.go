// Package audit periodically re-checks the ledger invariant: every account
// balance must equal the sum of that actor's transaction amounts. With
// transactional mutations the sweep should always come back clean; drift
// means something wrote around the ledger, and it is reported, never
// auto-corrected.
package audit

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/eventor-ai/balloond/internal/infra/observability"
	"github.com/eventor-ai/balloond/internal/infra/sqlite"
)

// Auditor runs the drift sweep on a cron schedule.
type Auditor struct {
	db   *sqlite.DB
	log  zerolog.Logger
	cron *cron.Cron
}

// New creates an auditor over the account store.
func New(db *sqlite.DB, log zerolog.Logger) *Auditor {
	return &Auditor{db: db, log: log}
}

// Start schedules the sweep with a cron spec (e.g. "0 3 * * *").
func (a *Auditor) Start(schedule string) error {
	a.cron = cron.New()
	if _, err := a.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		a.RunOnce(ctx)
	}); err != nil {
		return err
	}
	a.cron.Start()
	return nil
}

// Stop halts the schedule, waiting for a running sweep.
func (a *Auditor) Stop() {
	if a.cron != nil {
		<-a.cron.Stop().Done()
	}
}

// RunOnce performs one sweep and returns the drifted actors.
func (a *Auditor) RunOnce(ctx context.Context) []sqlite.Drift {
	drifts, err := a.db.AuditDrift(ctx)
	if err != nil {
		observability.AuditRuns.WithLabelValues("error").Inc()
		a.log.Error().Err(err).Msg("ledger audit failed")
		return nil
	}

	observability.LedgerDriftActors.Set(float64(len(drifts)))
	if len(drifts) == 0 {
		observability.AuditRuns.WithLabelValues("clean").Inc()
		a.log.Debug().Msg("ledger audit clean")
		return nil
	}

	observability.AuditRuns.WithLabelValues("drift").Inc()
	for _, d := range drifts {
		a.log.Warn().Str("actor", d.ActorID).Int64("balance", d.Balance).
			Int64("tx_sum", d.TxSum).Msg("ledger drift detected")
	}
	return drifts
}
