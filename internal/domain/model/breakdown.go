package model

// ScoreBreakdown is the auditable output of one Level Score Engine
// invocation. It is immutable once produced; all numeric fields are
// rounded to two decimals for external reporting.
type ScoreBreakdown struct {
	UserID     string  `json:"user_id"`
	FinalScore float64 `json:"final_score"`
	Tier       Tier    `json:"tier"`

	// Itemized adjustments, in application order inside ReasonLog.
	Gain             float64 `json:"gain"`
	TrendPenalty     float64 `json:"trend_penalty"`
	Penalty          int     `json:"penalty"`
	ConsistencyBonus int     `json:"consistency_bonus"`
	SpamPenalty      float64 `json:"spam_penalty"`
	Boost            float64 `json:"boost"`

	// Activity statistics backing the fairness adjustment.
	InconsistentDays  int     `json:"inconsistent_days"`
	InactivityDays    int     `json:"inactivity_days"`
	AvgInactiveStreak float64 `json:"avg_inactive_streak"`
	MaxInactiveStreak int     `json:"max_inactive_streak"`

	// Collaborator outputs.
	RawNormalized         float64 `json:"raw_normalized"`
	Percentile            float64 `json:"percentile"`
	MLPredictionErrMargin float64 `json:"ml_prediction_error_margin"`
	SpamScore             float64 `json:"spam_score"`

	// Degraded marks that a collaborator call failed or timed out and a
	// documented neutral default was substituted.
	Degraded bool `json:"degraded,omitempty"`

	// ReasonLog lists every adjustment applied during the invocation,
	// in application order.
	ReasonLog []string `json:"reason_log"`

	// Warnings carries recovered per-stage faults so silent degradation
	// stays observable.
	Warnings []string `json:"warnings,omitempty"`

	// Error is set only on catastrophic failure, together with a zero
	// final score.
	Error string `json:"error,omitempty"`
}

// CreditBreakdown is the auditable output of the Final Credit Score
// Engine. CombinedScale fields are on the internal 0-100 scale;
// ReportedScore applies the configured report scale exactly once.
type CreditBreakdown struct {
	UserID        string  `json:"user_id"`
	Tier          Tier    `json:"tier"`
	LevelScore    float64 `json:"level_score"`
	RoleComponent float64 `json:"role_component"`
	GlobalScore   float64 `json:"global_score"`
	FairnessAdj   float64 `json:"fairness_adj"`
	FairnessScore float64 `json:"fairness_score"`
	CombinedScore float64 `json:"combined_score"`
	DeltaAdj      float64 `json:"delta_adj"`
	FinalScore    float64 `json:"final_score"`
	ReportScale   float64 `json:"report_scale"`
	ReportedScore float64 `json:"reported_score"`

	Warnings []string `json:"warnings,omitempty"`
	Error    string   `json:"error,omitempty"`
}
