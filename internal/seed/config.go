// Package seed generates synthetic role-specific profiles and submits
// them to a running service, optionally scoring each one afterwards. It
// exists for local load and smoke testing.
package seed

import "time"

// Config controls a seeding run.
type Config struct {
	// BaseURL of the running service, e.g. http://localhost:9080.
	BaseURL string

	// NumProfiles to generate and submit.
	NumProfiles int

	// Workers is the number of concurrent submitters.
	Workers int

	// Timeout is the per-request HTTP timeout.
	Timeout time.Duration

	// Score also computes level and credit scores after seeding, which
	// fills the percentile populations with realistic values.
	Score bool

	// Verbose enables per-profile logging.
	Verbose bool
}

// Stats summarizes a completed run.
type Stats struct {
	ProfilesSubmitted int
	ProfilesFailed    int
	ScoresComputed    int
	ScoresFailed      int
	Elapsed           time.Duration
}
