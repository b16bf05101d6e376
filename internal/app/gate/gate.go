// Package gate enforces "every AI feature costs N balloons" in one place,
// so individual features never carry billing logic.
//
// The policy is spend-then-attempt: the debit is a true precondition (a
// refused spend means the remote function is never called), and a downstream
// failure does NOT refund the balloons. That is deliberate product behavior,
// not a missing compensation protocol.
package gate

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/rs/zerolog"

	"github.com/eventor-ai/balloond/internal/app/ledger"
	"github.com/eventor-ai/balloond/internal/domain"
	"github.com/eventor-ai/balloond/internal/infra/observability"
)

// Gate wraps every AI-invoking action behind a balloon debit.
type Gate struct {
	ledger  *ledger.Service
	funcs   domain.FunctionInvoker
	catalog map[string]domain.Feature
	log     zerolog.Logger
}

// New creates a feature gate over the given catalog.
func New(ledgerSvc *ledger.Service, funcs domain.FunctionInvoker, features []domain.Feature, log zerolog.Logger) *Gate {
	catalog := make(map[string]domain.Feature, len(features))
	for _, f := range features {
		catalog[f.Name] = f
	}
	return &Gate{ledger: ledgerSvc, funcs: funcs, catalog: catalog, log: log}
}

// Features lists the catalog sorted by name.
func (g *Gate) Features() []domain.Feature {
	out := make([]domain.Feature, 0, len(g.catalog))
	for _, f := range g.catalog {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Invoke charges the feature's cost, then forwards payload to its remote
// function. Order matters: no charge, no call, and no refund after a
// downstream failure.
func (g *Gate) Invoke(ctx context.Context, actor domain.Actor, featureName string, payload json.RawMessage) (json.RawMessage, error) {
	feature, ok := g.catalog[featureName]
	if !ok {
		return nil, domain.ErrUnknownFeature
	}

	if _, err := g.ledger.Spend(ctx, actor, feature.Cost, feature.Description); err != nil {
		observability.FeatureInvocations.WithLabelValues(feature.Name, "refused").Inc()
		return nil, err
	}

	data, err := g.funcs.Invoke(ctx, feature.Function, payload)
	if err != nil {
		observability.FeatureInvocations.WithLabelValues(feature.Name, "function_error").Inc()
		g.log.Error().Err(err).Str("feature", feature.Name).Str("actor", actor.ID).
			Int64("cost", feature.Cost).Msg("feature call failed after spend; balloons not refunded")
		return nil, err
	}

	observability.FeatureInvocations.WithLabelValues(feature.Name, "ok").Inc()
	return data, nil
}

// DefaultCatalog is the built-in feature price list. Costs mirror the
// product's published pricing; the config file can add or override entries.
func DefaultCatalog() []domain.Feature {
	return []domain.Feature{
		{Name: "budget-generation", Cost: 25, Function: "generate-budget", Description: "Budget Generation"},
		{Name: "timeline-generation", Cost: 20, Function: "generate-timeline", Description: "Timeline Generation"},
		{Name: "speech-writer", Cost: 15, Function: "generate-speech", Description: "Speech Writer"},
		{Name: "invite-designer", Cost: 10, Function: "generate-invite", Description: "Invite Designer"},
		{Name: "image-generation", Cost: 20, Function: "generate-image", Description: "AI Image Generation"},
		{Name: "seatmap-suggest", Cost: 5, Function: "suggest-seatmap", Description: "Seatmap Suggestions"},
		{Name: "chat-host", Cost: 40, Function: "event-chat", Description: "AI Event Host Chat"},
		{Name: "survey-questions", Cost: 10, Function: "generate-survey", Description: "Survey Question Generation"},
	}
}
