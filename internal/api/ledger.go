package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/eventor-ai/balloond/internal/domain"
)

// ─── Ledger Endpoints ───────────────────────────────────────────────────────
//
// GET  /api/balloons                 current balance
// POST /api/balloons/spend           {amount, description}
// POST /api/balloons/earn            {amount, description}
// GET  /api/balloons/transactions    ledger trail (accounts only)
// POST /api/promo/signup             claim the one-time signup bonus
// POST /api/promo/daily              claim the daily bonus

type mutateRequest struct {
	Amount      int64  `json:"amount"`
	Description string `json:"description"`
}

// actor resolves the requesting actor or writes a 401 and returns false.
func (s *Server) actor(w http.ResponseWriter, r *http.Request) (domain.Actor, bool) {
	actor, err := s.resolver.FromRequest(r)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "sign in or supply a guest token")
		return domain.Actor{}, false
	}
	return actor, true
}

// HandleBalance returns the actor's current balance.
func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.actor(w, r)
	if !ok {
		return
	}

	balance, err := s.ledger.Balance(r.Context(), actor)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not read balance")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"actor_id": actor.ID,
		"kind":     actor.Kind,
		"balance":  balance,
	})
}

// handleSpend debits balloons from the actor.
func (s *Server) handleSpend(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.actor(w, r)
	if !ok {
		return
	}
	if !s.limiter.allow(actor.ID) {
		writeError(w, http.StatusTooManyRequests, "too many spend requests, slow down")
		return
	}

	var req mutateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	balance, err := s.ledger.Spend(r.Context(), actor, req.Amount, req.Description)
	if err != nil {
		s.writeLedgerError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"balance": balance,
		"spent":   req.Amount,
	})
}

// handleEarn credits balloons to the actor.
func (s *Server) handleEarn(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.actor(w, r)
	if !ok {
		return
	}

	var req mutateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	balance, err := s.ledger.Earn(r.Context(), actor, req.Amount, req.Description)
	if err != nil {
		s.writeLedgerError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"balance": balance,
		"earned":  req.Amount,
	})
}

// handleTransactions returns the actor's ledger trail.
func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.actor(w, r)
	if !ok {
		return
	}

	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	txs, err := s.ledger.Transactions(r.Context(), actor, limit)
	if errors.Is(err, domain.ErrNoTransactionTrail) {
		writeError(w, http.StatusBadRequest, "guest balances have no transaction history")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not read transactions")
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"transactions": txs,
	})
}

// handleClaimSignup pays the one-time signup bonus.
func (s *Server) handleClaimSignup(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.actor(w, r)
	if !ok {
		return
	}
	if actor.Kind != domain.ActorAccount {
		writeError(w, http.StatusBadRequest, "signup bonus requires a signed-in account")
		return
	}

	granted, err := s.promo.ClaimSignup(r.Context(), actor)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not claim signup bonus")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"granted": granted,
	})
}

// handleClaimDaily pays the daily bonus, once per UTC day.
func (s *Server) handleClaimDaily(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.actor(w, r)
	if !ok {
		return
	}

	granted, err := s.promo.ClaimDaily(r.Context(), actor)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not claim daily bonus")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"granted": granted,
	})
}

// handleAudit runs a one-shot ledger drift sweep.
func (s *Server) handleAudit(w http.ResponseWriter, r *http.Request) {
	if s.auditor == nil {
		writeError(w, http.StatusServiceUnavailable, "auditor not configured")
		return
	}

	drifts := s.auditor.RunOnce(r.Context())
	out := make([]map[string]interface{}, 0, len(drifts))
	for _, d := range drifts {
		out = append(out, map[string]interface{}{
			"actor_id": d.ActorID,
			"balance":  d.Balance,
			"tx_sum":   d.TxSum,
		})
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"drift_count": len(drifts),
		"drift":       out,
	})
}

// writeLedgerError maps ledger errors onto HTTP responses. Insufficient
// funds answers 402 with the numbers the frontend's toast must name.
func (s *Server) writeLedgerError(w http.ResponseWriter, err error) {
	var short *domain.InsufficientBalloonsError
	switch {
	case errors.As(err, &short):
		writeJSON(w, http.StatusPaymentRequired, map[string]interface{}{
			"error": map[string]interface{}{
				"message":  fmt.Sprintf("Not enough balloons: you have %d balloons but need %d.", short.Balance, short.Required),
				"type":     "insufficient_balloons",
				"balance":  short.Balance,
				"required": short.Required,
			},
		})
	case errors.Is(err, domain.ErrInvalidAmount):
		writeError(w, http.StatusBadRequest, "amount must be a positive integer")
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "sign in or supply a guest token")
	default:
		writeError(w, http.StatusInternalServerError, "something went wrong, please try again")
	}
}
