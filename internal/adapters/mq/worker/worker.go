// Package worker runs the asynchronous rescore workers that drain the
// job queue and recompute level scores off the request path.
package worker

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/merito/gigscore/internal/adapters/mq/queue"
	"github.com/merito/gigscore/internal/domain/model"
	"github.com/merito/gigscore/pkg/logger"
	"github.com/merito/gigscore/pkg/metrics"
)

// Shutdown deadlines.
const (
	workerShutdownTimeout = 5 * time.Second
	poolShutdownTimeout   = 30 * time.Second
)

// Rescorer recomputes and persists a user's level score.
type Rescorer interface {
	Rescore(ctx context.Context, userID string) (model.ScoreBreakdown, error)
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.Job
}

// Worker drains the queue until stopped.
type Worker struct {
	queue    Queue
	rescorer Rescorer
	name     string

	shutdown chan struct{}
	done     chan struct{}

	log logger.Logger
}

// NewWorker creates a worker with configuration options.
func NewWorker(q Queue, r Rescorer, opts ...Option) *Worker {
	w := &Worker{
		queue:    q,
		rescorer: r,
		name:     "worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.log == nil {
		w.log = logger.Get().Named(w.name)
	}
	return w
}

// Run processes jobs until ctx is canceled or Shutdown is called.
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
				w.log.Error(ctx, "rescore job failed",
					logger.String("jobID", job.JobID),
					logger.String("userID", job.UserID),
					logger.Error(err),
				)
			}
		}
	}
}

// Shutdown stops the worker, waiting for the in-flight job.
func (w *Worker) Shutdown(ctx context.Context) error {
	close(w.shutdown)
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("worker shutdown timed out: %w", ctx.Err())
	}
}

func (w *Worker) process(ctx context.Context, job queue.Job) error {
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Milliseconds()))
	}()

	breakdown, err := w.rescorer.Rescore(ctx, job.UserID)
	if err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "rescore_error")
		return fmt.Errorf("rescore %s: %w", job.UserID, err)
	}

	w.log.Debug(ctx, "rescored user",
		logger.String("jobID", job.JobID),
		logger.String("userID", job.UserID),
		logger.Float64("finalScore", breakdown.FinalScore),
		logger.String("tier", breakdown.Tier.String()),
		logger.Bool("degraded", breakdown.Degraded),
	)
	return nil
}

// Pool manages a fixed set of workers over one queue.
type Pool struct {
	workers []*Worker
	cancel  context.CancelFunc
	log     logger.Logger
}

// NewPool creates count workers draining q via r.
func NewPool(count int, q Queue, r Rescorer) *Pool {
	if count < 1 {
		count = 1
	}
	p := &Pool{log: logger.Get().Named("workerpool")}
	for i := 0; i < count; i++ {
		p.workers = append(p.workers, NewWorker(q, r, WithName("worker-"+strconv.Itoa(i))))
	}
	return p
}

// Start launches every worker.
func (p *Pool) Start(ctx context.Context) {
	runCtx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	for _, w := range p.workers {
		go w.Run(runCtx)
	}
	metrics.UpdateWorkerCount(len(p.workers))
	p.log.Info(ctx, "worker pool started", logger.Int("workers", len(p.workers)))
}

// Stop shuts down all workers, bounded by the pool deadline.
func (p *Pool) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), poolShutdownTimeout)
	defer cancel()

	for _, w := range p.workers {
		wctx, wcancel := context.WithTimeout(ctx, workerShutdownTimeout)
		if err := w.Shutdown(wctx); err != nil {
			p.log.Warn(ctx, "worker shutdown timed out", logger.String("worker", w.name))
		}
		wcancel()
	}
	if p.cancel != nil {
		p.cancel()
	}
	metrics.UpdateWorkerCount(0)
}
