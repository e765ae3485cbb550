package admin

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/matka/platform/internal/domain"
	"github.com/matka/platform/internal/handler"
	"github.com/matka/platform/internal/service"
	"github.com/matka/platform/internal/settlement"
)

// BetAdminHandler handles the admin bet list and manual lose marking.
type BetAdminHandler struct {
	bets   *service.BetService
	engine *settlement.Engine
}

// NewBetAdminHandler creates a new BetAdminHandler.
func NewBetAdminHandler(bets *service.BetService, engine *settlement.Engine) *BetAdminHandler {
	return &BetAdminHandler{bets: bets, engine: engine}
}

// List handles GET /admin/bets with optional book_id and status filters.
func (h *BetAdminHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := domain.BetFilter{Limit: 100}
	q := r.URL.Query()

	if s := q.Get("book_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			handler.RespondError(w, domain.ErrValidation("invalid book_id"))
			return
		}
		filter.BookID = &id
	}
	if s := q.Get("status"); s != "" {
		status := domain.BetStatus(s)
		filter.Status = &status
	}
	if s := q.Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 && n <= 500 {
			filter.Limit = n
		}
	}

	bets, err := h.bets.AdminList(r.Context(), filter)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, bets)
}

// MarkLose handles POST /admin/rpc/mark_bets_lose.
func (h *BetAdminHandler) MarkLose(w http.ResponseWriter, r *http.Request) {
	var input struct {
		BetIDs []uuid.UUID `json:"p_bet_ids"`
	}
	if err := handler.DecodeJSON(r, &input); err != nil {
		handler.RespondJSON(w, http.StatusBadRequest, map[string]string{
			"code": "VALIDATION_ERROR", "message": "invalid request body",
		})
		return
	}
	if len(input.BetIDs) == 0 {
		handler.RespondError(w, domain.ErrValidation("at least one bet id is required"))
		return
	}

	report, err := h.engine.MarkLosePending(r.Context(), input.BetIDs)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, report)
}
