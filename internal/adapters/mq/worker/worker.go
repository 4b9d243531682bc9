// Package worker drains fit scoring jobs from the queue and replies with
// per-candidate results.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/Jmurp11/hockey-team-scheduler-sub003/internal/adapters/mq/queue"
	"github.com/Jmurp11/hockey-team-scheduler-sub003/internal/domain/model"
	"github.com/Jmurp11/hockey-team-scheduler-sub003/internal/domain/types"
	"github.com/Jmurp11/hockey-team-scheduler-sub003/pkg/logger"
	"github.com/Jmurp11/hockey-team-scheduler-sub003/pkg/metrics"
)

// Default worker configuration constants.
const (
	metricsUpdateInterval = 5 * time.Second
	poolShutdownTimeout   = 30 * time.Second
)

// Scorer evaluates one candidate.
type Scorer interface {
	EvaluateTournament(ctx context.Context, c model.Candidate, team model.Team, events []model.Event) types.TournamentFitEvaluation
	EvaluateOpponent(ctx context.Context, c model.Candidate, team model.Team, events []model.Event) types.OpponentMatch
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.Job
}

// Worker processes jobs until stopped.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown gracefully stops the worker.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker for fit jobs.
type InMemoryWorker struct {
	queue     Queue
	scorer    Scorer
	name      string
	processed *atomic.Int64

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(q Queue, scorer Scorer, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:     q,
		scorer:    scorer,
		name:      "worker",
		processed: new(atomic.Int64),
		shutdown:  make(chan struct{}),
		done:      make(chan struct{}),
		logger:    logger.Nop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.Named(w.name)
	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case j, ok := <-jobs:
			if !ok {
				return
			}
			w.process(ctx, j)
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	close(w.shutdown)

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// process scores one job and always sends exactly one reply.
func (w *InMemoryWorker) process(ctx context.Context, j queue.Job) { //nolint:gocritic // hugeParam: Job is passed by value for channel semantics
	res := queue.Result{Index: j.Index}
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			metrics.RecordError("worker", "panic")
			w.logger.Error(ctx, "fit scoring panicked",
				logger.String("candidateId", j.Candidate.ID),
				logger.Any("panic", r),
			)
			res = queue.Result{Index: j.Index, Err: fmt.Errorf("score candidate %s: panic: %v", j.Candidate.ID, r)}
		}
		w.processed.Add(1)
		if j.Reply != nil {
			j.Reply <- res
		}
	}()

	switch j.Kind {
	case model.CandidateTournament:
		eval := w.scorer.EvaluateTournament(ctx, j.Candidate, j.Team, j.Events)
		metrics.RecordFitEvaluation(string(j.Kind), eval.FitLabel.String(), time.Since(start))
		res.Tournament = &eval
	case model.CandidateOpponent:
		match := w.scorer.EvaluateOpponent(ctx, j.Candidate, j.Team, j.Events)
		metrics.RecordFitEvaluation(string(j.Kind), match.FitLabel.String(), time.Since(start))
		res.Opponent = &match
	default:
		metrics.RecordError("worker", "unknown_kind")
		res.Err = fmt.Errorf("score candidate %s: unknown kind %q", j.Candidate.ID, j.Kind)
	}
}

// Pool manages multiple workers.
type Pool struct {
	workers   []*InMemoryWorker
	queue     Queue
	processed *atomic.Int64

	shutdown chan struct{}
	started  atomic.Bool
	stopped  atomic.Bool

	logger logger.Logger
}

// NewPool creates a new worker pool. A workerCount below 1 uses one worker per CPU.
func NewPool(workerCount int, q Queue, scorer Scorer, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}

	pool := &Pool{
		workers:   make([]*InMemoryWorker, workerCount),
		queue:     q,
		processed: new(atomic.Int64),
		shutdown:  make(chan struct{}),
		logger:    logger.Nop(),
	}

	for i := 0; i < workerCount; i++ {
		wopts := append([]Option{}, opts...)
		wopts = append(wopts, WithName("worker-"+strconv.Itoa(i)))
		w := NewInMemoryWorker(q, scorer, wopts...)
		w.processed = pool.processed
		pool.workers[i] = w
	}
	probe := &InMemoryWorker{logger: pool.logger}
	for _, opt := range opts {
		opt(probe)
	}
	pool.logger = probe.logger.Named("worker-pool")

	metrics.UpdateWorkerCount(workerCount)
	return pool
}

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// Processed returns how many jobs the pool has completed.
func (p *Pool) Processed() int64 { return p.processed.Load() }

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	if !p.started.CompareAndSwap(false, true) {
		return
	}
	for _, w := range p.workers {
		go w.Run(ctx)
	}
	go p.startMetricsUpdater(ctx)
}

// startMetricsUpdater refreshes the queue depth gauge between enqueues.
func (p *Pool) startMetricsUpdater(ctx context.Context) {
	lener, ok := p.queue.(interface{ Len(context.Context) int })
	if !ok {
		return
	}
	ticker := time.NewTicker(metricsUpdateInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.shutdown:
			return
		case <-ticker.C:
			metrics.UpdateQueueSize(lener.Len(ctx))
		}
	}
}

// Shutdown closes the queue and waits for workers to drain it.
func (p *Pool) Shutdown(ctx context.Context) error {
	if !p.stopped.CompareAndSwap(false, true) {
		return nil
	}
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}
	close(p.shutdown)
	if !p.started.Load() {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
			return fmt.Errorf("worker pool shutdown: %w", shutdownCtx.Err())
		}
	}
	return nil
}
