// Package level implements the Level Score Engine: the ordered pipeline
// that turns a user profile, its history and a peer population into a
// bounded, auditable per-period score.
package level

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/merito/gigscore/internal/domain/activity"
	"github.com/merito/gigscore/internal/domain/boost"
	"github.com/merito/gigscore/internal/domain/feature"
	"github.com/merito/gigscore/internal/domain/model"
	"github.com/merito/gigscore/internal/domain/predictor"
	"github.com/merito/gigscore/internal/domain/rank"
	"github.com/merito/gigscore/internal/domain/spam"
	"github.com/merito/gigscore/pkg/logger"
	"github.com/merito/gigscore/pkg/metrics"
)

// Pipeline constants. The gain is percentile-driven, tenure-amplified
// and hard-capped per period; the stage order must not change, scores
// depend on the exact composition of the clamped adjustments.
const (
	rawScale           = 1000
	maxLevelScore      = 1000
	gainRate           = 0.15
	tenureBase         = 0.5
	tenureStep         = 0.05
	gainCap            = 80
	trendDropLimit     = 20
	trendPenaltyPoints = 10

	// neutralRawScore substitutes for a failed or timed-out prediction.
	neutralRawScore = 500

	defaultPredictTimeout = 2 * time.Second
	defaultDetectTimeout  = 1 * time.Second
)

// Population carries the peer values the percentile stage normalizes
// against: previously observed normalized raw estimates for the role.
type Population struct {
	RawValues []float64
}

// Engine orchestrates one pipeline invocation. It holds no state across
// calls; given identical inputs and identical collaborator responses it
// produces byte-identical breakdowns.
type Engine struct {
	predictor predictor.Predictor
	detector  spam.Detector
	boosts    boost.Lookup
	log       logger.Logger

	spamPenalty    bool
	spamThreshold  float64
	predictTimeout time.Duration
	detectTimeout  time.Duration
}

// NewEngine creates an engine around the two inference collaborators
// and the boost lookup.
func NewEngine(p predictor.Predictor, d spam.Detector, b boost.Lookup, opts ...Option) *Engine {
	e := &Engine{
		predictor:      p,
		detector:       d,
		boosts:         b,
		spamThreshold:  spam.DefaultThreshold,
		predictTimeout: defaultPredictTimeout,
		detectTimeout:  defaultDetectTimeout,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.log == nil {
		e.log = logger.Get().Named("level")
	}
	return e
}

// Compute runs the full stage order and emits the breakdown. Stage
// faults are recovered with documented neutral defaults and surfaced as
// warnings plus the degraded flag; only a missing user id is
// catastrophic.
func (e *Engine) Compute(ctx context.Context, p model.UserProfile, pop Population) (model.ScoreBreakdown, error) {
	if p.UserID == "" {
		return model.ScoreBreakdown{}, ErrMissingUserID
	}

	var (
		warnings []string
		reasons  []string
		degraded bool
	)

	// Stage 1: weighted feature vector.
	vec, fallback := feature.Build(p.Role, p.Features)
	if fallback {
		warnings = append(warnings, fmt.Sprintf("unknown role %q: scored from sorted raw features with unit weights", p.Role))
		vec = fitVector(vec)
	}

	// Stage 2: raw score prediction, bounded by a deadline so a slow
	// model cannot hang the pipeline.
	est, err := e.predict(ctx, vec)
	if err != nil {
		degraded = true
		warnings = append(warnings, fmt.Sprintf("prediction degraded: %v (neutral raw score substituted)", err))
		e.log.Warn(ctx, "raw score prediction failed",
			logger.String("userID", p.UserID),
			logger.Error(err),
		)
		metrics.RecordDegradedPrediction()
		est = predictor.Estimate{Score: neutralRawScore, Margin: 0}
	}

	// Stage 3: percentile against the role population.
	rawNormalized := est.Score / rawScale
	percentile := rank.PercentileRank(rawNormalized, pop.RawValues)

	// Stage 4: tenure-amplified, capped gain.
	gain := math.Min(
		rawScale*percentile*gainRate*(tenureBase+tenureStep*float64(p.MonthActive)),
		gainCap,
	)

	// Stage 5: trend penalty on a recent drop.
	trendPenalty := 0.0
	n := len(p.HistoryScores)
	if n > 1 && p.HistoryScores[n-2]-p.HistoryScores[n-1] > trendDropLimit {
		trendPenalty = trendPenaltyPoints
	}

	// Stage 6: initial score.
	prev := 0.0
	if n > 0 {
		prev = p.HistoryScores[n-1]
	}
	initial := prev + gain - trendPenalty

	// Stages 7-9: tier before fairness, activity statistics, fairness.
	tier := rank.TierFor(initial, p.Role)
	stats := activity.Analyze(p.ActivityLog)
	scoreAfter, penalty, consistencyBonus := activity.Adjust(initial, tier, stats.InactivityDays, stats.InconsistentDays)

	// Stage 10: initial boost plus lifecycle bonuses.
	boostTotal := e.boosts.Boost(p.UserID) + boost.LifecycleBonus(p)

	// Stage 11: hybrid spam score over the six detector fields.
	spamScore, err := e.detect(ctx, p.Features)
	if err != nil {
		degraded = true
		warnings = append(warnings, fmt.Sprintf("spam detection degraded: %v (score 0 substituted)", err))
		e.log.Warn(ctx, "spam detection failed",
			logger.String("userID", p.UserID),
			logger.Error(err),
		)
		spamScore = 0
	}
	if spamScore > e.spamThreshold {
		metrics.RecordSpamFlagged()
	}

	// Optional local penalty, applied before the boost.
	spamPenaltyApplied := 0.0
	if e.spamPenalty {
		after, _, applied := spam.ApplyPenalty(scoreAfter, 0, spamScore, e.spamThreshold)
		if applied {
			spamPenaltyApplied = scoreAfter - after
			scoreAfter = after
		}
	}

	// Stages 12-13: final score and tier.
	final := math.Min(maxLevelScore, scoreAfter+boostTotal)
	final = math.Max(0, final)
	finalTier := rank.TierFor(final, p.Role)

	// Stage 14: reason trail in application order.
	reasons = append(reasons, fmt.Sprintf("+%.2f gain", gain))
	if trendPenalty > 0 {
		reasons = append(reasons, fmt.Sprintf("-%.0f trend penalty", trendPenalty))
	}
	reasons = append(reasons,
		fmt.Sprintf("-%d penalty", penalty),
		fmt.Sprintf("+%d consistency", consistencyBonus),
	)
	if spamPenaltyApplied > 0 {
		reasons = append(reasons, fmt.Sprintf("-%.0f spam penalty", spamPenaltyApplied))
	}
	reasons = append(reasons,
		fmt.Sprintf("+%.2f boost", boostTotal),
		fmt.Sprintf("±%.2f model error", est.Margin),
		fmt.Sprintf("spam score %.2f", spamScore),
	)

	metrics.RecordScoreComputed()

	return model.ScoreBreakdown{
		UserID:                p.UserID,
		FinalScore:            model.Round2(final),
		Tier:                  finalTier,
		Gain:                  model.Round2(gain),
		TrendPenalty:          trendPenalty,
		Penalty:               penalty,
		ConsistencyBonus:      consistencyBonus,
		SpamPenalty:           model.Round2(spamPenaltyApplied),
		Boost:                 model.Round2(boostTotal),
		InconsistentDays:      stats.InconsistentDays,
		InactivityDays:        stats.InactivityDays,
		AvgInactiveStreak:     model.Round2(stats.AvgInactiveStreak),
		MaxInactiveStreak:     stats.MaxInactiveStreak,
		RawNormalized:         model.Round2(rawNormalized),
		Percentile:            model.Round2(percentile),
		MLPredictionErrMargin: model.Round2(est.Margin),
		SpamScore:             model.Round2(spamScore),
		Degraded:              degraded,
		ReasonLog:             reasons,
		Warnings:              warnings,
	}, nil
}

func (e *Engine) predict(ctx context.Context, vec []float64) (predictor.Estimate, error) {
	pctx, cancel := context.WithTimeout(ctx, e.predictTimeout)
	defer cancel()
	return e.predictor.Predict(pctx, vec)
}

func (e *Engine) detect(ctx context.Context, features map[string]float64) (float64, error) {
	dctx, cancel := context.WithTimeout(ctx, e.detectTimeout)
	defer cancel()
	return e.detector.Score(dctx, spam.Normalize(features))
}

// fitVector pads or truncates an unknown-role fallback vector to the
// predictor's fixed input size.
func fitVector(vec []float64) []float64 {
	if len(vec) == feature.VectorSize {
		return vec
	}
	out := make([]float64, feature.VectorSize)
	copy(out, vec)
	return out
}
