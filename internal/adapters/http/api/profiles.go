package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/merito/gigscore/internal/domain/feature"
	"github.com/merito/gigscore/internal/domain/model"
)

// profileRequest mirrors the JSON schema for POST /profiles. Features
// arrive loosely typed; non-numeric values are coerced to 0 and
// reported back as warnings.
type profileRequest struct {
	UserID           string                   `json:"user_id"`
	Role             string                   `json:"role"`
	Features         map[string]any           `json:"features"`
	ActivityLog      []model.ActivityLogEntry `json:"activity_log"`
	HistoryScores    []float64                `json:"history_scores"`
	MonthActive      int                      `json:"month_active"`
	FirstTimeAccount bool                     `json:"first_time_account"`
}

func (r profileRequest) validate() error {
	switch {
	case strings.TrimSpace(r.UserID) == "":
		return NewKind("api.profiles", ErrBadRequest)
	case strings.TrimSpace(r.Role) == "":
		return NewKind("api.profiles", ErrBadRequest)
	}
	return nil
}

type upsertResponse struct {
	Status   string   `json:"status"`
	Warnings []string `json:"warnings,omitempty"`
}

type activityRequest struct {
	Active bool `json:"active"`
}

// ProfilesHandler handles profile upsert, read and activity appends.
type ProfilesHandler struct {
	deps Dependencies
}

// NewProfilesHandler creates a new profiles handler.
func NewProfilesHandler(deps Dependencies) *ProfilesHandler {
	return &ProfilesHandler{deps: deps}
}

// HandleUpsert handles POST /profiles requests.
func (h *ProfilesHandler) HandleUpsert(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_profile"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req profileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	features, warnings := feature.Coerce(req.Features)
	p := model.UserProfile{
		UserID:           req.UserID,
		Role:             model.Role(req.Role),
		Features:         features,
		ActivityLog:      req.ActivityLog,
		HistoryScores:    req.HistoryScores,
		MonthActive:      req.MonthActive,
		FirstTimeAccount: req.FirstTimeAccount,
	}
	if err := h.deps.UpsertProfile(r.Context(), p); err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, upsertResponse{Status: "stored", Warnings: warnings})
}

// HandleProfilePath handles GET /profiles/{user_id} and
// POST /profiles/{user_id}/activity requests.
func (h *ProfilesHandler) HandleProfilePath(w http.ResponseWriter, r *http.Request) {
	const op = "api.profile_path"
	path := strings.TrimPrefix(r.URL.Path, "/profiles/")
	if path == "" {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	if userID, found := strings.CutSuffix(path, "/activity"); found {
		h.handleAppendActivity(w, r, userID)
		return
	}
	if strings.Contains(path, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	p, err := h.deps.Profile(r.Context(), path)
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *ProfilesHandler) handleAppendActivity(w http.ResponseWriter, r *http.Request, userID string) {
	const op = "api.append_activity"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	if userID == "" || strings.Contains(userID, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	var req activityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := h.deps.AppendActivity(r.Context(), userID, model.ActivityLogEntry{Active: req.Active}); err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, upsertResponse{Status: "appended"})
}
