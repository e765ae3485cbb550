package admin

import (
	"math"
	"net/http"

	"github.com/matka/platform/internal/handler"
	"github.com/matka/platform/internal/settlement"
)

// SettlementHandler handles the manual settlement RPC.
type SettlementHandler struct {
	engine *settlement.Engine
}

// NewSettlementHandler creates a new SettlementHandler.
func NewSettlementHandler(engine *settlement.Engine) *SettlementHandler {
	return &SettlementHandler{engine: engine}
}

// settleBetsRequest mirrors the RPC parameters. p_multiplier is the decimal
// multiplier as operators enter it (9.5 means 9.5x); the engine works in
// hundredths, so it converts via multiplierX100.
type settleBetsRequest struct {
	BookSlug     string   `json:"p_book_slug"`
	GameTypeSlug string   `json:"p_game_type_slug"`
	WinningValue string   `json:"p_winning_value"`
	Multiplier   *float64 `json:"p_multiplier,omitempty"`
	MarkLose     bool     `json:"p_mark_lose"`
}

// multiplierX100 converts the decimal override to hundredths, rounding to the
// nearest paisa-exact step (9.5 -> 950).
func (r settleBetsRequest) multiplierX100() *int64 {
	if r.Multiplier == nil {
		return nil
	}
	v := int64(math.Round(*r.Multiplier * 100))
	return &v
}

// SettleBets handles POST /admin/rpc/settle_bets.
func (h *SettlementHandler) SettleBets(w http.ResponseWriter, r *http.Request) {
	var input settleBetsRequest
	if err := handler.DecodeJSON(r, &input); err != nil {
		handler.RespondJSON(w, http.StatusBadRequest, map[string]string{
			"code": "VALIDATION_ERROR", "message": "invalid request body",
		})
		return
	}

	report, err := h.engine.SettleBets(r.Context(), settlement.SettleInput{
		BookSlug:       input.BookSlug,
		GameTypeSlug:   input.GameTypeSlug,
		WinningValue:   input.WinningValue,
		MultiplierX100: input.multiplierX100(),
		MarkLose:       input.MarkLose,
	})
	if err != nil {
		handler.RespondError(w, err)
		return
	}

	handler.RespondJSON(w, http.StatusOK, report)
}
