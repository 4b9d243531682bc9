// Package service wires the risk evaluator, the fit scorer, the evaluation
// cache and the fit worker pool behind the operations the HTTP API and CLI use.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Jmurp11/hockey-team-scheduler-sub003/internal/adapters/cache"
	"github.com/Jmurp11/hockey-team-scheduler-sub003/internal/adapters/mq/queue"
	"github.com/Jmurp11/hockey-team-scheduler-sub003/internal/adapters/mq/worker"
	"github.com/Jmurp11/hockey-team-scheduler-sub003/internal/domain/fit"
	"github.com/Jmurp11/hockey-team-scheduler-sub003/internal/domain/model"
	"github.com/Jmurp11/hockey-team-scheduler-sub003/internal/domain/risk"
	"github.com/Jmurp11/hockey-team-scheduler-sub003/internal/domain/types"
	"github.com/Jmurp11/hockey-team-scheduler-sub003/pkg/logger"
	"github.com/Jmurp11/hockey-team-scheduler-sub003/pkg/metrics"
)

// Default service configuration constants.
const (
	defaultQueueSize    = 1024
	defaultCacheSize    = 512
	defaultMaxBatchSize = 200
)

// Service implements the evaluation operations.
type Service struct {
	mu sync.RWMutex

	// Core components
	evaluator *risk.Evaluator
	scorer    *fit.Scorer
	cache     cache.EvaluationCache
	jobs      *queue.InMemoryQueue
	pool      *worker.Pool

	// Configuration
	workerCount  int
	queueSize    int
	cacheSize    int
	maxBatchSize int
	riskCfg      risk.Config
	fitCfg       fit.Config

	// Counters
	riskEvaluations atomic.Int64
	cacheHits       atomic.Int64
	fitBatches      atomic.Int64

	started bool
	logger  logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:  runtime.NumCPU(),
		queueSize:    defaultQueueSize,
		cacheSize:    defaultCacheSize,
		maxBatchSize: defaultMaxBatchSize,
		riskCfg:      risk.DefaultConfig(),
		fitCfg:       fit.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start builds the engines and starts the worker pool. It fails on invalid
// engine configuration.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	evaluator, err := risk.NewEvaluator(
		risk.WithConfig(s.riskCfg),
		risk.WithLogger(s.logger.Named("risk")),
	)
	if err != nil {
		return fmt.Errorf("build risk evaluator: %w", err)
	}
	scorer, err := fit.NewScorer(
		fit.WithConfig(s.fitCfg),
		fit.WithLogger(s.logger.Named("fit")),
	)
	if err != nil {
		return fmt.Errorf("build fit scorer: %w", err)
	}

	if s.maxBatchSize > s.queueSize {
		// Enqueue never blocks, so a batch larger than the queue could fail with ErrFull.
		s.logger.Warn(ctx, "max batch size clamped to queue size",
			logger.Int("maxBatchSize", s.maxBatchSize),
			logger.Int("queueSize", s.queueSize),
		)
		s.maxBatchSize = s.queueSize
	}

	s.evaluator = evaluator
	s.scorer = scorer
	s.cache = cache.NewLRU(cache.WithMaxSize(s.cacheSize))
	s.jobs = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.pool = worker.NewPool(s.workerCount, s.jobs, s.scorer, worker.WithLogger(s.logger))
	s.pool.Start(ctx)
	metrics.UpdateCacheEntries(0)

	s.started = true
	s.logger.Info(ctx, "evaluation service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("cacheSize", s.cacheSize),
	)
	return nil
}

// Stop drains queued fit jobs and stops the workers.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}
	s.started = false

	if err := s.pool.Shutdown(ctx); err != nil {
		s.logger.Error(ctx, "worker pool shutdown failed", logger.Error(err))
		return err
	}
	s.logger.Info(ctx, "evaluation service stopped")
	return nil
}

// RiskConfig returns the default risk thresholds.
func (s *Service) RiskConfig() risk.Config { return s.riskCfg }

// FitConfig returns the default fit scoring curve.
func (s *Service) FitConfig() fit.Config { return s.fitCfg }

// MaxBatchSize returns the candidate limit per scoring call.
func (s *Service) MaxBatchSize() int { return s.maxBatchSize }

// EvaluateRisks evaluates a schedule, reusing a cached result for an
// identical event set and thresholds. override may be nil.
func (s *Service) EvaluateRisks(ctx context.Context, events []model.Event, override *risk.Config) (types.ScheduleRiskEvaluation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return types.ScheduleRiskEvaluation{}, ErrNotStarted
	}
	cfg := s.riskCfg
	if override != nil {
		cfg = *override
	}
	if err := cfg.Validate(); err != nil {
		return types.ScheduleRiskEvaluation{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}

	key, keyErr := cache.Fingerprint(events, cfg)
	if keyErr != nil {
		s.logger.Debug(ctx, "schedule not cacheable", logger.Error(keyErr))
	} else if eval, ok := s.cache.Get(ctx, key); ok {
		s.cacheHits.Add(1)
		metrics.RecordCacheHit()
		return eval, nil
	}
	metrics.RecordCacheMiss()

	start := time.Now()
	eval, err := s.evaluator.EvaluateWith(ctx, events, cfg)
	if err != nil {
		return types.ScheduleRiskEvaluation{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	s.riskEvaluations.Add(1)
	metrics.RecordRiskEvaluation(time.Since(start))
	for _, r := range eval.Risks {
		metrics.RecordRiskDetected(string(r.RiskType), string(r.Severity))
	}
	metrics.RecordComparisonsSkipped(len(eval.Skipped))

	if keyErr == nil {
		s.cache.Put(ctx, key, eval)
		metrics.UpdateCacheEntries(int(s.cache.Size()))
	}
	return eval, nil
}

// ScoreTournaments scores tournament candidates on the worker pool. Results
// are returned in candidate order.
func (s *Service) ScoreTournaments(ctx context.Context, team model.Team, candidates []model.Candidate, events []model.Event) ([]types.TournamentFitEvaluation, error) {
	results, err := s.scoreBatch(ctx, model.CandidateTournament, team, candidates, events)
	if err != nil {
		return nil, err
	}
	out := make([]types.TournamentFitEvaluation, len(results))
	for i, r := range results {
		out[i] = *r.Tournament
	}
	return out, nil
}

// ScoreOpponents scores opponent candidates on the worker pool. Results are
// returned in candidate order.
func (s *Service) ScoreOpponents(ctx context.Context, team model.Team, candidates []model.Candidate, events []model.Event) ([]types.OpponentMatch, error) {
	results, err := s.scoreBatch(ctx, model.CandidateOpponent, team, candidates, events)
	if err != nil {
		return nil, err
	}
	out := make([]types.OpponentMatch, len(results))
	for i, r := range results {
		out[i] = *r.Opponent
	}
	return out, nil
}

// scoreBatch fans candidates out to the pool and collects one result per
// candidate into its original slot. A full queue fails the batch with
// queue.ErrFull so callers can back off.
func (s *Service) scoreBatch(ctx context.Context, kind model.CandidateKind, team model.Team, candidates []model.Candidate, events []model.Event) ([]queue.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.started {
		return nil, ErrNotStarted
	}
	if len(candidates) > s.maxBatchSize {
		return nil, fmt.Errorf("%w: %d candidates exceeds the limit of %d", ErrInvalidInput, len(candidates), s.maxBatchSize)
	}
	if len(candidates) == 0 {
		return []queue.Result{}, nil
	}
	s.fitBatches.Add(1)
	metrics.RecordFitBatch(len(candidates))

	reply := make(chan queue.Result, len(candidates))
	results := make([]queue.Result, len(candidates))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		for i, c := range candidates {
			err := s.jobs.Enqueue(gctx, queue.Job{
				Index:     i,
				Candidate: c,
				Kind:      kind,
				Team:      team,
				Events:    events,
				Reply:     reply,
			})
			if err != nil {
				return fmt.Errorf("submit candidate %s: %w", c.ID, err)
			}
		}
		return nil
	})
	g.Go(func() error {
		for received := 0; received < len(candidates); received++ {
			select {
			case r := <-reply:
				if r.Err != nil {
					return fmt.Errorf("score candidate %s: %w", candidates[r.Index].ID, r.Err)
				}
				results[r.Index] = r
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		if errors.Is(err, queue.ErrFull) {
			s.logger.Warn(ctx, "fit queue full, rejecting batch", logger.Int("candidates", len(candidates)))
		}
		return nil, err
	}
	return results, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":         s.started,
		"workerCount":     s.workerCount,
		"queueSize":       s.queueSize,
		"cacheSize":       s.cacheSize,
		"maxBatchSize":    s.maxBatchSize,
		"riskEvaluations": s.riskEvaluations.Load(),
		"cacheHits":       s.cacheHits.Load(),
		"fitBatches":      s.fitBatches.Load(),
	}

	if s.started {
		queueLen := s.jobs.Len(context.Background())
		stats["queueLength"] = queueLen
		stats["cacheEntries"] = s.cache.Size()
		stats["jobsProcessed"] = s.pool.Processed()

		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateWorkerCount(s.pool.Size())
	}
	return stats
}
