package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Jmurp11/hockey-team-scheduler-sub003/internal/domain/model"
	"github.com/Jmurp11/hockey-team-scheduler-sub003/internal/domain/risk"
	"github.com/Jmurp11/hockey-team-scheduler-sub003/pkg/logger"
)

// RisksHandler handles schedule risk requests.
type RisksHandler struct {
	deps   RiskDependencies
	logger logger.Logger
}

// NewRisksHandler creates a new risks handler.
func NewRisksHandler(deps RiskDependencies, l logger.Logger) *RisksHandler {
	return &RisksHandler{deps: deps, logger: l}
}

// risksRequest is the body of POST /v1/risks. Config fields that are
// omitted keep the server defaults.
type risksRequest struct {
	Events []model.Event    `json:"events"`
	Config *json.RawMessage `json:"config,omitempty"`
}

// HandlePostRisks handles POST /v1/risks requests.
func (h *RisksHandler) HandlePostRisks(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_risks"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req risksRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if req.Events == nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, errors.New("missing events")))
		return
	}

	var override *risk.Config
	if req.Config != nil {
		cfg := h.deps.RiskConfig()
		if err := json.Unmarshal(*req.Config, &cfg); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
			return
		}
		override = &cfg
	}

	eval, err := h.deps.EvaluateRisks(r.Context(), req.Events, override)
	if err != nil {
		writeServiceError(r.Context(), w, h.logger, op, err)
		return
	}
	writeJSON(w, http.StatusOK, eval)
}
