package handler

import (
	"net/http"

	"github.com/matka/platform/internal/service"
)

// UTRHandler handles player deposit submissions.
type UTRHandler struct {
	utrs *service.UTRService
}

// NewUTRHandler creates a new UTRHandler.
func NewUTRHandler(utrs *service.UTRService) *UTRHandler {
	return &UTRHandler{utrs: utrs}
}

// Submit handles POST /utr.
func (h *UTRHandler) Submit(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	var input struct {
		Amount int64  `json:"amount"`
		UTRNo  string `json:"utr_no"`
	}
	if err := DecodeJSON(r, &input); err != nil {
		RespondJSON(w, http.StatusBadRequest, map[string]string{
			"code":    "VALIDATION_ERROR",
			"message": "invalid request body",
		})
		return
	}

	sub, err := h.utrs.Submit(r.Context(), userID, input.Amount, input.UTRNo)
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusCreated, sub)
}

// List handles GET /utr.
func (h *UTRHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	subs, err := h.utrs.ListOwn(r.Context(), userID, queryLimit(r, 20))
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, subs)
}
