// Package repository defines the profile, history and population store
// interface and its in-memory implementation.
package repository

import (
	"context"

	"github.com/merito/gigscore/internal/domain/model"
)

// Store provides read/write access to scoring state. Implementations
// must be safe for concurrent use; the pipeline reads from many
// in-flight requests while workers append history.
type Store interface {
	// SaveProfile creates or replaces a profile. History already
	// accumulated for the user is preserved.
	SaveProfile(ctx context.Context, p model.UserProfile) error

	// Profile returns a copy of the stored profile, including its
	// accumulated score history. Returns ErrNotFound if unknown.
	Profile(ctx context.Context, userID string) (model.UserProfile, error)

	// AppendActivity appends one daily entry to the user's ordered log.
	AppendActivity(ctx context.Context, userID string, e model.ActivityLogEntry) error

	// AppendScore records a computed level score at the end of the
	// user's chronological history.
	AppendScore(ctx context.Context, userID string, score float64) error

	// RecordRawValue adds a normalized raw estimate to the role's
	// percentile population.
	RecordRawValue(ctx context.Context, role model.Role, value float64)

	// RawValues returns the role's percentile population.
	RawValues(ctx context.Context, role model.Role) []float64

	// PeersByRole returns copies of every profile with the given role.
	PeersByRole(ctx context.Context, role model.Role) []model.UserProfile

	// Count returns the number of stored profiles.
	Count(ctx context.Context) int
}
