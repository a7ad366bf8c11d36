// Package worker runs the narrative generation workers: they drain the job
// queue, rate-limit calls to the upstream AI proxy, and publish results
// into the narrative cache.
package worker

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/rotobot/bracketbuilder/internal/adapters/mq/queue"
	"github.com/rotobot/bracketbuilder/internal/domain/model"
	"github.com/rotobot/bracketbuilder/pkg/logger"
	"github.com/rotobot/bracketbuilder/pkg/metrics"
)

// Default worker configuration constants.
const (
	defaultWorkerCount     = 4
	defaultGenerateTimeout = 30 * time.Second
	defaultRatePerSecond   = 2
	workerShutdownTimeout  = 5 * time.Second
)

// Generator produces a narrative for one job. Implemented by the upstream
// client adapter.
type Generator interface {
	GenerateNarrative(ctx context.Context, team1Slug, team2Slug string, round int, region string) (model.Narrative, error)
}

// Sink receives completed work. Implemented by the narrative cache wiring
// in the app layer: Store publishes the bundle, Release clears the
// in-flight marker on success and failure alike.
type Sink interface {
	Store(team1Slug, team2Slug string, n model.Narrative)
	Release(team1Slug, team2Slug string)
}

// JobQueue defines how workers receive jobs.
type JobQueue interface {
	Dequeue(ctx context.Context) <-chan queue.Job
}

// Worker processes narrative jobs until stopped.
type Worker struct {
	queue     JobQueue
	generator Generator
	sink      Sink
	limiter   *rate.Limiter
	timeout   time.Duration
	name      string

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewWorker creates a worker. The limiter is shared across the pool so the
// configured rate bounds total upstream load, not per-worker load.
func NewWorker(q JobQueue, generator Generator, sink Sink, limiter *rate.Limiter, opts ...Option) *Worker {
	w := &Worker{
		queue:     q,
		generator: generator,
		sink:      sink,
		limiter:   limiter,
		timeout:   defaultGenerateTimeout,
		name:      "worker",
		shutdown:  make(chan struct{}),
		done:      make(chan struct{}),
		logger:    logger.Get().Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}
	return w
}

// Run starts the worker loop.
func (w *Worker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			if err := w.process(ctx, job); err != nil {
				w.logger.Error(ctx, "narrative generation failed", logger.Error(err))
			}
		}
	}
}

// Shutdown gracefully stops the worker.
func (w *Worker) Shutdown(ctx context.Context) error {
	close(w.shutdown)
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// process handles a single job. The in-flight marker was claimed before
// the job was enqueued, so Release must run on every exit path.
func (w *Worker) process(ctx context.Context, job queue.Job) error {
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Milliseconds()))
	}()
	defer w.sink.Release(job.Team1Slug, job.Team2Slug)

	if err := w.limiter.Wait(ctx); err != nil {
		metrics.RecordWorkerError()
		return fmt.Errorf("rate limiter: %w", err)
	}

	genCtx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	genStart := time.Now()
	n, err := w.generator.GenerateNarrative(genCtx, job.Team1Slug, job.Team2Slug, job.Round, job.Region)
	metrics.RecordNarrativeLatency(float64(time.Since(genStart).Milliseconds()))

	if err != nil {
		metrics.RecordNarrativeError()
		metrics.RecordWorkerError()
		w.logger.Error(ctx, "upstream narrative call failed",
			logger.String("team1", job.Team1Slug),
			logger.String("team2", job.Team2Slug),
			logger.Error(err),
		)
		return fmt.Errorf("generate %s vs %s: %w", job.Team1Slug, job.Team2Slug, err)
	}

	w.sink.Store(job.Team1Slug, job.Team2Slug, n)
	w.logger.Debug(ctx, "narrative stored",
		logger.String("team1", job.Team1Slug),
		logger.String("team2", job.Team2Slug),
		logger.String("pick", n.RotoBotPick),
		logger.Int("confidence", n.RotoBotConfidence),
	)
	return nil
}

// Pool manages multiple workers sharing one rate limiter.
type Pool struct {
	workers []*Worker
	logger  logger.Logger
}

// NewPool creates a pool of workerCount workers.
func NewPool(workerCount int, q JobQueue, generator Generator, sink Sink, ratePerSecond float64, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = defaultWorkerCount
	}
	if ratePerSecond <= 0 {
		ratePerSecond = defaultRatePerSecond
	}
	limiter := rate.NewLimiter(rate.Limit(ratePerSecond), 1)

	p := &Pool{
		workers: make([]*Worker, workerCount),
		logger:  logger.Get().Named("worker-pool"),
	}
	for i := 0; i < workerCount; i++ {
		named := append([]Option{WithName("worker-" + strconv.Itoa(i))}, opts...)
		p.workers[i] = NewWorker(q, generator, sink, limiter, named...)
	}

	metrics.UpdateWorkerCount(workerCount)

	return p
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Stop stops all workers, waiting briefly for each.
func (p *Pool) Stop() {
	for _, w := range p.workers {
		select {
		case <-w.shutdown:
			// already signalled
		default:
			close(w.shutdown)
		}
	}
	for _, w := range p.workers {
		select {
		case <-w.done:
		case <-time.After(workerShutdownTimeout):
		}
	}
}
