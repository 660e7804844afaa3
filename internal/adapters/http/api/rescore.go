package api

import (
	"encoding/json"
	"net/http"
)

// RescoreHandler serves the asynchronous rescore endpoint.
type RescoreHandler struct {
	deps Dependencies
}

// NewRescoreHandler creates a new rescore handler.
func NewRescoreHandler(deps Dependencies) *RescoreHandler {
	return &RescoreHandler{deps: deps}
}

// HandleRescore handles POST /rescore requests. Accepted jobs return
// 202 with a job ID; duplicates of an in-flight job are acknowledged
// with 200 and no new job; a full queue returns 429.
func (h *RescoreHandler) HandleRescore(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_rescore"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req scoreRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	jobID, duplicate, ok, err := h.deps.EnqueueRescore(r.Context(), req.UserID)
	switch {
	case err != nil && isNotFound(err):
		writeError(w, http.StatusNotFound, "not_found", err)
	case err != nil:
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
	case duplicate:
		writeJSON(w, http.StatusOK, ackResponse{Status: "already_queued", Duplicate: true})
	case !ok:
		writeError(w, http.StatusTooManyRequests, "backpressure", NewKind(op, ErrBackpressure))
	default:
		writeJSON(w, http.StatusAccepted, ackResponse{Status: "queued", JobID: jobID})
	}
}
