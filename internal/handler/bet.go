package handler

import (
	"net/http"
	"strconv"

	"github.com/matka/platform/internal/service"
)

// BetHandler handles player bet placement and history.
type BetHandler struct {
	bets *service.BetService
}

// NewBetHandler creates a new BetHandler.
func NewBetHandler(bets *service.BetService) *BetHandler {
	return &BetHandler{bets: bets}
}

// Place handles POST /bets.
func (h *BetHandler) Place(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	var input service.PlaceBetInput
	if err := DecodeJSON(r, &input); err != nil {
		RespondJSON(w, http.StatusBadRequest, map[string]string{
			"code":    "VALIDATION_ERROR",
			"message": "invalid request body",
		})
		return
	}

	bet, err := h.bets.PlaceBet(r.Context(), userID, input)
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusCreated, bet)
}

// List handles GET /bets.
func (h *BetHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	bets, err := h.bets.ListOwn(r.Context(), userID, queryLimit(r, 20))
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, bets)
}

// queryLimit parses a bounded ?limit= query parameter.
func queryLimit(r *http.Request, def int) int {
	if s := r.URL.Query().Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 && n <= 100 {
			return n
		}
	}
	return def
}
