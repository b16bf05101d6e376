// Package observability defines the Prometheus metrics exported by balloond.
// Everything is registered on the default registry and served by the API's
// /metrics endpoint.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── Ledger Metrics ─────────────────────────────────────────────────────────

// SpendsTotal counts spend attempts by outcome (ok, refused, error).
var SpendsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "balloond_spends_total",
	Help: "Spend attempts against the balloon ledger, by outcome.",
}, []string{"outcome", "actor_kind"})

// EarnsTotal counts earn operations by outcome (ok, error).
var EarnsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "balloond_earns_total",
	Help: "Earn operations against the balloon ledger, by outcome.",
}, []string{"outcome", "actor_kind"})

// BalloonsSpent accumulates balloons successfully debited.
var BalloonsSpent = promauto.NewCounter(prometheus.CounterOpts{
	Name: "balloond_balloons_spent_total",
	Help: "Total balloons debited by successful spends.",
})

// BalloonsEarned accumulates balloons credited.
var BalloonsEarned = promauto.NewCounter(prometheus.CounterOpts{
	Name: "balloond_balloons_earned_total",
	Help: "Total balloons credited by earns.",
})

// ─── Feature Gate Metrics ───────────────────────────────────────────────────

// FeatureInvocations counts gated feature calls by feature and outcome
// (ok, refused, function_error).
var FeatureInvocations = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "balloond_feature_invocations_total",
	Help: "Feature gate invocations, by feature name and outcome.",
}, []string{"feature", "outcome"})

// FunctionDuration observes remote function call latency per function.
var FunctionDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "balloond_function_duration_seconds",
	Help:    "Latency of remote serverless function calls.",
	Buckets: prometheus.DefBuckets,
}, []string{"function"})

// ─── Audit Metrics ──────────────────────────────────────────────────────────

// LedgerDriftActors reports how many account actors failed the
// balance == sum-of-transactions check on the last audit run.
var LedgerDriftActors = promauto.NewGauge(prometheus.GaugeOpts{
	Name: "balloond_ledger_drift_actors",
	Help: "Account actors whose balance disagrees with their transaction sum.",
})

// AuditRuns counts audit sweeps by outcome (clean, drift, error).
var AuditRuns = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "balloond_audit_runs_total",
	Help: "Ledger audit sweeps, by outcome.",
}, []string{"outcome"})
