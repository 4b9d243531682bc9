// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Jmurp11/hockey-team-scheduler-sub003/internal/adapters/mq/queue"
	service "github.com/Jmurp11/hockey-team-scheduler-sub003/internal/app"
	"github.com/Jmurp11/hockey-team-scheduler-sub003/internal/domain/model"
	"github.com/Jmurp11/hockey-team-scheduler-sub003/internal/domain/risk"
	"github.com/Jmurp11/hockey-team-scheduler-sub003/internal/domain/types"
	"github.com/Jmurp11/hockey-team-scheduler-sub003/pkg/logger"
)

// maxBodyBytes bounds request bodies; a season schedule is far smaller.
const maxBodyBytes = 4 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	RiskDependencies
	FitDependencies
}

// RiskDependencies evaluates schedules.
type RiskDependencies interface {
	RiskConfig() risk.Config
	EvaluateRisks(ctx context.Context, events []model.Event, override *risk.Config) (types.ScheduleRiskEvaluation, error)
}

// FitDependencies scores candidate batches.
type FitDependencies interface {
	ScoreTournaments(ctx context.Context, team model.Team, candidates []model.Candidate, events []model.Event) ([]types.TournamentFitEvaluation, error)
	ScoreOpponents(ctx context.Context, team model.Team, candidates []model.Candidate, events []model.Event) ([]types.OpponentMatch, error)
}

// Server wires HTTP routes for the evaluation API.
type Server struct {
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	risksHandler  *RisksHandler
	fitHandler    *FitHandler
	logger        logger.Logger
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, l logger.Logger) *Server {
	if l == nil {
		l = logger.Nop()
	}
	return &Server{
		healthHandler: NewHealthHandler(),
		statsHandler:  NewStatsHandler(statsProvider),
		risksHandler:  NewRisksHandler(deps, l),
		fitHandler:    NewFitHandler(deps, l),
		logger:        l,
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/v1/risks", MetricsMiddleware(s.risksHandler.HandlePostRisks, "risks"))
	mux.HandleFunc("/v1/fit/tournaments", MetricsMiddleware(s.fitHandler.HandlePostTournaments, "fit_tournaments"))
	mux.HandleFunc("/v1/fit/opponents", MetricsMiddleware(s.fitHandler.HandlePostOpponents, "fit_opponents"))
}

// Handler returns a mux with every route behind the shared middleware chain.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.Register(mux)
	return s.Wrap(mux)
}

// Wrap puts h behind request ids and panic recovery.
func (s *Server) Wrap(h http.Handler) http.Handler {
	return ChainMiddleware(h,
		WithRecovery(s.logger),
		WithRequestID,
	)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// decodeBody reads a single JSON document into v.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return err
	}
	if dec.More() {
		return errors.New("unexpected data after JSON body")
	}
	return nil
}

// writeServiceError maps service failures onto status codes.
func writeServiceError(ctx context.Context, w http.ResponseWriter, l logger.Logger, op string, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
	case errors.Is(err, queue.ErrFull):
		writeError(w, http.StatusTooManyRequests, "backpressure", NewKind(op, ErrBackpressure))
	case errors.Is(err, service.ErrNotStarted), errors.Is(err, queue.ErrClosed):
		writeError(w, http.StatusServiceUnavailable, "unavailable", WrapKind(op, ErrUnavailable, err))
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusServiceUnavailable, "unavailable", WrapKind(op, ErrUnavailable, err))
	default:
		l.Error(ctx, "request failed", logger.String("op", op), logger.String("requestId", RequestID(ctx)), logger.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", NewKind(op, ErrInternal))
	}
}
