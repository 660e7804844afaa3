// Package credit implements the Final Credit Score Engine: it combines
// the level score, peer ranking and loyalty delta into the externally
// reported credit score on a fixed, documented scale.
package credit

import (
	"context"
	"fmt"
	"math"

	"github.com/merito/gigscore/internal/domain/model"
	"github.com/merito/gigscore/internal/domain/rank"
	"github.com/merito/gigscore/pkg/logger"
	"github.com/merito/gigscore/pkg/metrics"
)

// Combination defaults. ReportScale is the single place the external
// reporting scale is fixed; it multiplies the rounded 0-100 result
// exactly once at the reporting edge.
const (
	defaultDeltaBase    = 2.0
	defaultLambdaR      = 0.7
	defaultAcceptRate   = 0.6
	defaultTargetAccept = 0.7
	defaultEta          = 0.1
	defaultReportScale  = 10.0

	globalFloor = 40
	globalSpan  = 60

	neutralFactor    = 0.5
	neutralRoleScore = 50
)

// extraWeight applies to each of the behavior, loyalty and demand
// factors in the role component.
const extraWeight = 0.2

var extraFactors = []string{"behavior_score", "loyalty_score", "demand_score"}

// tierMultipliers reward higher-tier partners in the loyalty delta.
var tierMultipliers = map[model.Tier]float64{
	model.Gold:   1.75,
	model.Ruby:   1.50,
	model.Amber:  1.25,
	model.Bronze: 1.00,
}

// Engine computes final credit scores. Stateless across calls.
type Engine struct {
	deltaBase    float64
	lambdaR      float64
	acceptRate   float64
	targetAccept float64
	eta          float64
	reportScale  float64
	log          logger.Logger
}

// NewEngine creates an engine with the default combination parameters.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		deltaBase:    defaultDeltaBase,
		lambdaR:      defaultLambdaR,
		acceptRate:   defaultAcceptRate,
		targetAccept: defaultTargetAccept,
		eta:          defaultEta,
		reportScale:  defaultReportScale,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.log == nil {
		e.log = logger.Get().Named("credit")
	}
	return e
}

// Compute combines the level result with peer ranking and the loyalty
// delta. peers must be role-homogeneous with the profile; entries with
// other roles are ignored. An unknown role is catastrophic: the caller
// receives the error and reports a zero-score result.
func (e *Engine) Compute(ctx context.Context, p model.UserProfile, peers []model.UserProfile, lvl model.ScoreBreakdown) (model.CreditBreakdown, error) {
	if !p.Role.Known() {
		return model.CreditBreakdown{}, fmt.Errorf("%w: %q", model.ErrInvalidRole, p.Role)
	}

	var warnings []string

	// Role component: level score blended with the validated extra
	// behavioral factors.
	weighting := peerWeights[p.Role]
	numerator := lvl.FinalScore
	denominator := 0.0
	for _, w := range weighting.weights {
		denominator += math.Abs(w)
	}
	for _, name := range extraFactors {
		f, ok := p.Features[name]
		if !ok {
			f = neutralFactor
		} else if f < 0 || f > 1 {
			warnings = append(warnings, fmt.Sprintf("factor %q out of [0,1] (%.2f), defaulted to %.1f", name, f, neutralFactor))
			e.log.Warn(ctx, "invalid extra factor",
				logger.String("userID", p.UserID),
				logger.String("factor", name),
				logger.Float64("value", f),
			)
			f = neutralFactor
		}
		numerator += extraWeight * f * 100
		denominator += extraWeight * 100
	}
	roleComponent := numerator / denominator

	// Global component: the lighter independent weighting compared
	// against same-role peers, scaled onto [40, 100].
	ownScore, err := e.roleScore(p)
	if err != nil {
		warnings = append(warnings, fmt.Sprintf("peer weighting degraded: %v (neutral %d substituted)", err, neutralRoleScore))
		ownScore = neutralRoleScore
	}
	var peerScores []float64
	for _, peer := range peers {
		if peer.Role != p.Role {
			continue
		}
		s, err := e.roleScore(peer)
		if err != nil {
			continue
		}
		peerScores = append(peerScores, s)
	}
	globalScore := globalFloor + globalSpan*rank.PercentileRank(ownScore, peerScores)

	// Population-level disparity correction, distinct from the per-user
	// activity fairness in the level path.
	fairnessAdj := -e.eta * (e.acceptRate - e.targetAccept)
	fairnessScore := clamp(globalScore+fairnessAdj, 0, 100)

	combined := e.lambdaR*roleComponent + (1-e.lambdaR)*fairnessScore

	deltaAdj := e.deltaBase * tierMultipliers[lvl.Tier]

	final := clamp(combined+deltaAdj, 0, 100)

	metrics.RecordCreditScoreComputed()

	return model.CreditBreakdown{
		UserID:        p.UserID,
		Tier:          lvl.Tier,
		LevelScore:    lvl.FinalScore,
		RoleComponent: model.Round2(roleComponent),
		GlobalScore:   model.Round2(globalScore),
		FairnessAdj:   model.Round2(fairnessAdj),
		FairnessScore: model.Round2(fairnessScore),
		CombinedScore: model.Round2(combined),
		DeltaAdj:      model.Round2(deltaAdj),
		FinalScore:    model.Round2(final),
		ReportScale:   e.reportScale,
		ReportedScore: model.Round2(final) * e.reportScale,
		Warnings:      warnings,
	}, nil
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
