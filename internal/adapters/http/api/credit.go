package api

import (
	"encoding/json"
	"net/http"
)

// CreditHandler serves the externally reported credit score endpoint.
type CreditHandler struct {
	deps Dependencies
}

// NewCreditHandler creates a new credit handler.
func NewCreditHandler(deps Dependencies) *CreditHandler {
	return &CreditHandler{deps: deps}
}

// HandleCreditScore handles POST /credit-score requests.
func (h *CreditHandler) HandleCreditScore(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_credit_score"
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

	breakdown, err := h.deps.ScoreCredit(r.Context(), req.UserID)
	if err != nil {
		if isNotFound(err) {
			writeError(w, http.StatusNotFound, "not_found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, breakdown)
}
