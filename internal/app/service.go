// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	jobqueue "github.com/merito/gigscore/internal/adapters/mq/queue"
	workerpool "github.com/merito/gigscore/internal/adapters/mq/worker"
	"github.com/merito/gigscore/internal/adapters/repository"
	"github.com/merito/gigscore/internal/domain/boost"
	"github.com/merito/gigscore/internal/domain/credit"
	"github.com/merito/gigscore/internal/domain/inflight"
	"github.com/merito/gigscore/internal/domain/level"
	"github.com/merito/gigscore/internal/domain/model"
	"github.com/merito/gigscore/internal/domain/predictor"
	"github.com/merito/gigscore/internal/domain/spam"
	"github.com/merito/gigscore/pkg/logger"
	"github.com/merito/gigscore/pkg/metrics"
)

// Service implements the API dependencies for the scoring system.
type Service struct {
	mu sync.RWMutex

	// Core components
	store        repository.Store
	tracker      inflight.Tracker
	jobQueue     jobqueue.Queue
	levelEngine  *level.Engine
	creditEngine *credit.Engine
	workerPool   *workerpool.Pool

	// Configuration
	workerCount   int
	queueSize     int
	shardCount    int
	inflightSize  int
	populationCap int

	spamPenalty    bool
	spamThreshold  float64
	predictTimeout time.Duration
	detectTimeout  time.Duration

	predictorMinLatency    time.Duration
	predictorMaxLatency    time.Duration
	predictorRelativeError float64

	deltaBase    float64
	lambdaR      float64
	acceptRate   float64
	targetAccept float64
	eta          float64
	reportScale  float64

	engagement  []boost.EngagementRecord
	preferences map[string]float64

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of rescore worker goroutines.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum size of the rescore queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithShardCount sets the number of repository shards.
func WithShardCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.shardCount = count
		}
	}
}

// WithInflightSize bounds the in-flight rescore tracker.
func WithInflightSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.inflightSize = size
		}
	}
}

// WithPopulationCap bounds the per-role raw score population kept for
// percentile ranking.
func WithPopulationCap(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.populationCap = size
		}
	}
}

// WithSpamPenalty enables direct score deductions for flagged users.
func WithSpamPenalty(enabled bool) Option {
	return func(s *Service) {
		s.spamPenalty = enabled
	}
}

// WithSpamThreshold sets the hybrid spam score above which the penalty
// applies.
func WithSpamThreshold(threshold float64) Option {
	return func(s *Service) {
		if threshold > 0 && threshold <= 1 {
			s.spamThreshold = threshold
		}
	}
}

// WithScoringTimeouts sets the per-call deadlines for the prediction
// and spam detection collaborators.
func WithScoringTimeouts(predict, detect time.Duration) Option {
	return func(s *Service) {
		if predict > 0 {
			s.predictTimeout = predict
		}
		if detect > 0 {
			s.detectTimeout = detect
		}
	}
}

// WithPredictorLatencyRange sets the simulated prediction latency range.
func WithPredictorLatencyRange(minLatency, maxLatency time.Duration) Option {
	return func(s *Service) {
		if minLatency > 0 && maxLatency > minLatency {
			s.predictorMinLatency = minLatency
			s.predictorMaxLatency = maxLatency
		}
	}
}

// WithPredictorRelativeError sets the reported model error margin ratio.
func WithPredictorRelativeError(rel float64) Option {
	return func(s *Service) {
		if rel > 0 {
			s.predictorRelativeError = rel
		}
	}
}

// WithCreditParams sets delta base, combination lambda and report scale
// for credit scoring.
func WithCreditParams(deltaBase, lambdaR, reportScale float64) Option {
	return func(s *Service) {
		if deltaBase > 0 {
			s.deltaBase = deltaBase
		}
		if lambdaR >= 0 && lambdaR <= 1 {
			s.lambdaR = lambdaR
		}
		if reportScale > 0 {
			s.reportScale = reportScale
		}
	}
}

// WithDisparity sets the observed acceptance rate, the target rate and
// the correction strength for the fairness adjustment.
func WithDisparity(acceptRate, targetAccept, eta float64) Option {
	return func(s *Service) {
		s.acceptRate = acceptRate
		s.targetAccept = targetAccept
		s.eta = eta
	}
}

// WithEngagement seeds the prior-period engagement table used for
// initial boosts.
func WithEngagement(records []boost.EngagementRecord, preferences map[string]float64) Option {
	return func(s *Service) {
		s.engagement = records
		s.preferences = preferences
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.logger = log
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount:            runtime.NumCPU(),
		queueSize:              10_000,
		shardCount:             8,
		inflightSize:           50_000,
		populationCap:          10_000,
		spamThreshold:          spam.DefaultThreshold,
		deltaBase:              2.0,
		lambdaR:                0.7,
		acceptRate:             0.6,
		targetAccept:           0.7,
		eta:                    0.1,
		reportScale:            10,
		predictorRelativeError: 0.12,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes and starts the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting scoring service...")

	s.store = repository.NewShardStore(ctx,
		repository.WithShardCount(s.shardCount),
		repository.WithPopulationCap(s.populationCap),
	)
	s.tracker = inflight.NewTracker(
		inflight.WithMaxSize(s.inflightSize),
	)
	s.jobQueue = jobqueue.NewInMemoryQueue(
		jobqueue.WithCapacity(s.queueSize),
		jobqueue.WithBufferSize(s.queueSize),
	)

	predictorOpts := []predictor.Option{
		predictor.WithRelativeError(s.predictorRelativeError),
	}
	if s.predictorMinLatency > 0 {
		predictorOpts = append(predictorOpts,
			predictor.WithLatencyRange(s.predictorMinLatency, s.predictorMaxLatency))
	}

	levelOpts := []level.Option{
		level.WithSpamPenalty(s.spamPenalty),
		level.WithSpamThreshold(s.spamThreshold),
		level.WithLogger(s.logger),
	}
	if s.predictTimeout > 0 {
		levelOpts = append(levelOpts, level.WithPredictTimeout(s.predictTimeout))
	}
	if s.detectTimeout > 0 {
		levelOpts = append(levelOpts, level.WithDetectTimeout(s.detectTimeout))
	}

	s.levelEngine = level.NewEngine(
		predictor.NewInMemoryPredictor(predictorOpts...),
		spam.NewInMemoryDetector(),
		boost.NewTable(s.engagement, s.preferences),
		levelOpts...,
	)
	s.creditEngine = credit.NewEngine(
		credit.WithDeltaBase(s.deltaBase),
		credit.WithLambda(s.lambdaR),
		credit.WithDisparity(s.acceptRate, s.targetAccept, s.eta),
		credit.WithReportScale(s.reportScale),
		credit.WithLogger(s.logger),
	)

	s.workerPool = workerpool.NewPool(s.workerCount, s.jobQueue, s)
	s.workerPool.Start(ctx)

	metrics.UpdateWorkerCount(s.workerCount)
	metrics.UpdateRepositoryShardCount(s.shardCount)

	s.started = true
	s.logger.Info(ctx, "scoring service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("shards", s.shardCount),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.logger.Info(context.Background(), "stopping scoring service...")

	if s.workerPool != nil {
		s.workerPool.Stop()
	}
	if q, ok := s.jobQueue.(*jobqueue.InMemoryQueue); ok {
		_ = q.Close()
	}

	s.started = false
	s.logger.Info(context.Background(), "scoring service stopped")
}

// UpsertProfile creates or replaces a scoring profile. An existing
// score history for the user is preserved across replacements.
func (s *Service) UpsertProfile(ctx context.Context, p model.UserProfile) error {
	if err := s.store.SaveProfile(ctx, p); err != nil {
		return err
	}
	metrics.UpdateRepositoryProfiles(s.store.Count(ctx))
	return nil
}

// Profile returns a stored profile with its score history.
func (s *Service) Profile(ctx context.Context, userID string) (model.UserProfile, error) {
	return s.store.Profile(ctx, userID)
}

// AppendActivity appends one daily log entry to a stored profile.
func (s *Service) AppendActivity(ctx context.Context, userID string, e model.ActivityLogEntry) error {
	return s.store.AppendActivity(ctx, userID, e)
}

// ScoreLevel computes the level score for a stored profile, persists
// the outcome to the user's history and records the raw model score in
// the role population used for percentile ranking.
//
// Pipeline faults are absorbed into the breakdown: a catastrophic
// failure yields a zero-score breakdown with Error set and a nil error,
// so one bad profile never breaks a batch caller. Only a missing
// profile is reported as an error.
func (s *Service) ScoreLevel(ctx context.Context, userID string) (model.ScoreBreakdown, error) {
	p, err := s.store.Profile(ctx, userID)
	if err != nil {
		return model.ScoreBreakdown{}, err
	}

	pop := level.Population{RawValues: s.store.RawValues(ctx, p.Role)}

	start := time.Now()
	b, err := s.levelEngine.Compute(ctx, p, pop)
	metrics.RecordScoringLatency(float64(time.Since(start).Milliseconds()))
	if err != nil {
		metrics.RecordScoringError()
		s.logger.Error(ctx, "level scoring failed",
			logger.String("userID", userID),
			logger.Error(err),
		)
		return model.ScoreBreakdown{UserID: p.UserID, Error: err.Error()}, nil
	}

	if err := s.store.AppendScore(ctx, userID, b.FinalScore); err != nil {
		s.logger.Warn(ctx, "score history append failed",
			logger.String("userID", userID),
			logger.Error(err),
		)
	}
	s.store.RecordRawValue(ctx, p.Role, b.RawNormalized)

	return b, nil
}

// ScoreCredit computes the externally reported credit score. The level
// score is recomputed as an input without being persisted, so credit
// reads never mutate the user's score history.
func (s *Service) ScoreCredit(ctx context.Context, userID string) (model.CreditBreakdown, error) {
	p, err := s.store.Profile(ctx, userID)
	if err != nil {
		return model.CreditBreakdown{}, err
	}

	pop := level.Population{RawValues: s.store.RawValues(ctx, p.Role)}
	lvl, err := s.levelEngine.Compute(ctx, p, pop)
	if err != nil {
		metrics.RecordScoringError()
		return model.CreditBreakdown{UserID: p.UserID, Error: err.Error()}, nil
	}

	peers := s.store.PeersByRole(ctx, p.Role)
	cb, err := s.creditEngine.Compute(ctx, p, peers, lvl)
	if err != nil {
		metrics.RecordScoringError()
		s.logger.Error(ctx, "credit scoring failed",
			logger.String("userID", userID),
			logger.Error(err),
		)
		return model.CreditBreakdown{UserID: p.UserID, Error: err.Error()}, nil
	}

	return cb, nil
}

// Rescore recomputes and persists the level score for a queued job.
// The in-flight reservation is released whether or not scoring
// succeeds, so the user can be rescored again afterwards.
func (s *Service) Rescore(ctx context.Context, userID string) (model.ScoreBreakdown, error) {
	defer s.tracker.Unrecord(ctx, userID)
	return s.ScoreLevel(ctx, userID)
}

// EnqueueRescore submits an asynchronous recompute for a stored
// profile. A user with a rescore already in flight is reported as a
// duplicate without enqueueing new work; a full queue reports ok=false.
func (s *Service) EnqueueRescore(ctx context.Context, userID string) (string, bool, bool, error) {
	if _, err := s.store.Profile(ctx, userID); err != nil {
		return "", false, false, err
	}

	if s.tracker.SeenAndRecord(ctx, userID) {
		return "", true, true, nil
	}

	jobID := uuid.NewString()
	if !s.jobQueue.Enqueue(ctx, jobqueue.Job{JobID: jobID, UserID: userID}) {
		s.tracker.Unrecord(ctx, userID)
		return "", false, false, nil
	}

	return jobID, false, true, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"shardCount":  s.shardCount,
	}

	if s.started {
		queueLen := s.jobQueue.Len(ctx)
		totalProfiles := s.store.Count(ctx)

		stats["queueLength"] = queueLen
		stats["totalProfiles"] = totalProfiles
		stats["inflightRescores"] = s.tracker.Size()

		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateRepositoryProfiles(totalProfiles)
		metrics.UpdateWorkerCount(s.workerCount)
	}

	return stats
}
