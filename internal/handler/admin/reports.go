package admin

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/matka/platform/internal/domain"
	"github.com/matka/platform/internal/handler"
	"github.com/matka/platform/internal/service"
)

// ReportHandler serves the ledger report for the admin panel.
type ReportHandler struct {
	wallets *service.WalletService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(wallets *service.WalletService) *ReportHandler {
	return &ReportHandler{wallets: wallets}
}

// Transactions handles GET /admin/reports/transactions with optional type filter.
func (h *ReportHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var txType *domain.TransactionType
	if s := q.Get("type"); s != "" {
		t := domain.TransactionType(s)
		txType = &t
	}

	limit := 100
	if s := q.Get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 && n <= 500 {
			limit = n
		}
	}

	txs, err := h.wallets.Report(r.Context(), txType, limit)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, txs)
}

// CompleteWithdrawal handles POST /admin/rpc/complete_withdrawal.
func (h *ReportHandler) CompleteWithdrawal(w http.ResponseWriter, r *http.Request) {
	var input struct {
		TransactionID string `json:"p_transaction_id"`
		Success       bool   `json:"p_success"`
	}
	if err := handler.DecodeJSON(r, &input); err != nil {
		handler.RespondJSON(w, http.StatusBadRequest, map[string]string{
			"code": "VALIDATION_ERROR", "message": "invalid request body",
		})
		return
	}

	txID, err := uuid.Parse(input.TransactionID)
	if err != nil {
		handler.RespondError(w, domain.ErrValidation("invalid transaction id"))
		return
	}

	if err := h.wallets.CompleteWithdrawal(r.Context(), txID, input.Success); err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, map[string]string{"status": "processed"})
}
