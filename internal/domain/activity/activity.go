// Package activity derives consistency and inactivity statistics from a
// user's ordered daily log and converts them into fairness adjustments.
package activity

import "github.com/merito/gigscore/internal/domain/model"

// Stats summarizes the inactive portions of an ordered activity log.
//
// InconsistentDays and InactivityDays are intentionally computed from
// the same predicate: the reference behavior defines them identically
// and product has not confirmed a divergence, so both fields are kept
// and fed from one count rather than silently merged or "fixed".
type Stats struct {
	InconsistentDays  int
	InactivityDays    int
	AvgInactiveStreak float64
	MaxInactiveStreak int
}

// Analyze walks the log once, counting inactive days and run-length
// encoding consecutive inactive streaks. Streak statistics are 0 when
// no inactive run exists.
func Analyze(log []model.ActivityLogEntry) Stats {
	inactive := 0
	var streaks []int
	run := 0
	for _, day := range log {
		if day.Active {
			if run > 0 {
				streaks = append(streaks, run)
				run = 0
			}
			continue
		}
		inactive++
		run++
	}
	if run > 0 {
		streaks = append(streaks, run)
	}

	s := Stats{
		InconsistentDays: inactive,
		InactivityDays:   inactive,
	}
	if len(streaks) == 0 {
		return s
	}
	sum := 0
	for _, n := range streaks {
		sum += n
		if n > s.MaxInactiveStreak {
			s.MaxInactiveStreak = n
		}
	}
	s.AvgInactiveStreak = float64(sum) / float64(len(streaks))
	return s
}
