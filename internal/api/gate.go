package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/eventor-ai/balloond/internal/domain"
)

// ─── Feature Gate Endpoints ─────────────────────────────────────────────────
//
// GET  /api/features          catalog with balloon costs
// POST /api/features/{name}   charge the cost, then call the AI function

// handleListFeatures returns the feature catalog.
func (s *Server) handleListFeatures(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"features": s.gate.Features(),
	})
}

// handleInvokeFeature charges the feature's balloon cost and forwards the
// request body to its remote function. A refused spend means the function is
// never called; a failed function call does not refund the balloons.
func (s *Server) handleInvokeFeature(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.actor(w, r)
	if !ok {
		return
	}
	if !s.limiter.allow(actor.ID) {
		writeError(w, http.StatusTooManyRequests, "too many requests, slow down")
		return
	}

	name := chi.URLParam(r, "name")

	payload, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read request body")
		return
	}

	data, err := s.gate.Invoke(r.Context(), actor, name, json.RawMessage(payload))
	switch {
	case errors.Is(err, domain.ErrUnknownFeature):
		writeError(w, http.StatusNotFound, "unknown feature: "+name)
		return
	case errors.Is(err, domain.ErrInsufficientBalloons):
		s.writeLedgerError(w, err)
		return
	case errors.Is(err, domain.ErrFunctionFailed):
		writeError(w, http.StatusBadGateway, "the AI service had a problem, please try again")
		return
	case err != nil:
		s.writeLedgerError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"data": data,
	})
}
