// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/merito/gigscore/internal/adapters/repository"
	"github.com/merito/gigscore/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle
// keeps the handler layer loosely coupled to the service wiring.
type Dependencies interface {
	// UpsertProfile creates or replaces a scoring profile.
	UpsertProfile(ctx context.Context, p model.UserProfile) error

	// Profile returns a stored profile with its score history.
	Profile(ctx context.Context, userID string) (model.UserProfile, error)

	// AppendActivity appends one daily log entry.
	AppendActivity(ctx context.Context, userID string, e model.ActivityLogEntry) error

	// ScoreLevel computes and persists the level score synchronously.
	ScoreLevel(ctx context.Context, userID string) (model.ScoreBreakdown, error)

	// ScoreCredit computes the externally reported credit score.
	ScoreCredit(ctx context.Context, userID string) (model.CreditBreakdown, error)

	// EnqueueRescore submits an asynchronous recompute. duplicate
	// reports an already in-flight rescore for the user; ok=false
	// reports queue backpressure.
	EnqueueRescore(ctx context.Context, userID string) (jobID string, duplicate, ok bool, err error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	profilesHandler *ProfilesHandler
	scoreHandler    *ScoreHandler
	creditHandler   *CreditHandler
	rescoreHandler  *RescoreHandler
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		profilesHandler: NewProfilesHandler(deps),
		scoreHandler:    NewScoreHandler(deps),
		creditHandler:   NewCreditHandler(deps),
		rescoreHandler:  NewRescoreHandler(deps),
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/profiles", MetricsMiddleware(s.profilesHandler.HandleUpsert, "profiles"))
	mux.HandleFunc("/profiles/", MetricsMiddleware(s.profilesHandler.HandleProfilePath, "profiles"))
	mux.HandleFunc("/score", MetricsMiddleware(s.scoreHandler.HandleScore, "score"))
	mux.HandleFunc("/credit-score", MetricsMiddleware(s.creditHandler.HandleCreditScore, "credit-score"))
	mux.HandleFunc("/rescore", MetricsMiddleware(s.rescoreHandler.HandleRescore, "rescore"))
}

// scoreRequest selects the user for score and rescore endpoints.
type scoreRequest struct {
	UserID string `json:"user_id"`
}

func (r scoreRequest) validate() error {
	if strings.TrimSpace(r.UserID) == "" {
		return errors.New("missing user_id")
	}
	return nil
}

type ackResponse struct {
	Status    string `json:"status"`
	JobID     string `json:"job_id,omitempty"`
	Duplicate bool   `json:"duplicate"`
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// isNotFound translates upstream not-found errors to 404.
func isNotFound(err error) bool {
	return errors.Is(err, repository.ErrNotFound)
}
