package admin

import (
	"net/http"

	"github.com/matka/platform/internal/domain"
	"github.com/matka/platform/internal/handler"
	"github.com/matka/platform/internal/settlement"
)

// ResultHandler handles result declaration and its settlement fan-out.
type ResultHandler struct {
	engine *settlement.Engine
}

// NewResultHandler creates a new ResultHandler.
func NewResultHandler(engine *settlement.Engine) *ResultHandler {
	return &ResultHandler{engine: engine}
}

// DeclareAndCompute handles POST /admin/rpc/declare_result_and_compute_winners.
func (h *ResultHandler) DeclareAndCompute(w http.ResponseWriter, r *http.Request) {
	var input struct {
		BookSlug   string  `json:"p_book_slug"`
		Date       string  `json:"p_date"`
		Time       string  `json:"p_time"`
		OpenDigit  *string `json:"p_open_digit,omitempty"`
		CloseDigit *string `json:"p_close_digit,omitempty"`
		Jodi       *string `json:"p_jodi,omitempty"`
		OpenPanna  *string `json:"p_open_panna,omitempty"`
		ClosePanna *string `json:"p_close_panna,omitempty"`
	}
	if err := handler.DecodeJSON(r, &input); err != nil {
		handler.RespondJSON(w, http.StatusBadRequest, map[string]string{
			"code": "VALIDATION_ERROR", "message": "invalid request body",
		})
		return
	}

	report, err := h.engine.DeclareResult(r.Context(), settlement.DeclareResultInput{
		BookSlug: input.BookSlug,
		Date:     input.Date,
		Time:     input.Time,
		Digits: domain.ResultDigits{
			OpenDigit:  input.OpenDigit,
			CloseDigit: input.CloseDigit,
			Jodi:       input.Jodi,
			OpenPanna:  input.OpenPanna,
			ClosePanna: input.ClosePanna,
		},
	})
	if err != nil {
		handler.RespondError(w, err)
		return
	}

	handler.RespondJSON(w, http.StatusOK, report)
}
