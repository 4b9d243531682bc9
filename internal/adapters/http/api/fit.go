package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Jmurp11/hockey-team-scheduler-sub003/internal/domain/model"
	"github.com/Jmurp11/hockey-team-scheduler-sub003/pkg/logger"
)

// FitHandler handles candidate scoring requests.
type FitHandler struct {
	deps   FitDependencies
	logger logger.Logger
}

// NewFitHandler creates a new fit handler.
func NewFitHandler(deps FitDependencies, l logger.Logger) *FitHandler {
	return &FitHandler{deps: deps, logger: l}
}

// fitRequest is the body of both fit endpoints.
type fitRequest struct {
	Team       model.Team        `json:"team"`
	Candidates []model.Candidate `json:"candidates"`
	Schedule   []model.Event     `json:"schedule"`
}

func (f fitRequest) validate() error {
	if len(f.Candidates) == 0 {
		return errors.New("missing candidates")
	}
	for i, c := range f.Candidates {
		if strings.TrimSpace(c.ID) == "" {
			return fmt.Errorf("candidate %d is missing an id", i)
		}
	}
	return nil
}

type tournamentsResponse struct {
	Evaluations any `json:"evaluations"`
}

type opponentsResponse struct {
	Matches any `json:"matches"`
}

// HandlePostTournaments handles POST /v1/fit/tournaments requests.
func (h *FitHandler) HandlePostTournaments(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_fit_tournaments"
	req, ok := h.decode(w, r, op)
	if !ok {
		return
	}
	evals, err := h.deps.ScoreTournaments(r.Context(), req.Team, req.Candidates, req.Schedule)
	if err != nil {
		writeServiceError(r.Context(), w, h.logger, op, err)
		return
	}
	writeJSON(w, http.StatusOK, tournamentsResponse{Evaluations: evals})
}

// HandlePostOpponents handles POST /v1/fit/opponents requests.
func (h *FitHandler) HandlePostOpponents(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_fit_opponents"
	req, ok := h.decode(w, r, op)
	if !ok {
		return
	}
	matches, err := h.deps.ScoreOpponents(r.Context(), req.Team, req.Candidates, req.Schedule)
	if err != nil {
		writeServiceError(r.Context(), w, h.logger, op, err)
		return
	}
	writeJSON(w, http.StatusOK, opponentsResponse{Matches: matches})
}

func (h *FitHandler) decode(w http.ResponseWriter, r *http.Request, op string) (fitRequest, bool) {
	var req fitRequest
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return req, false
	}
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return req, false
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return req, false
	}
	return req, true
}
