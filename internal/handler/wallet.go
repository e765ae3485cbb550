package handler

import (
	"net/http"

	"github.com/matka/platform/internal/service"
)

// WalletHandler handles the player wallet RPC surface.
type WalletHandler struct {
	wallets *service.WalletService
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(wallets *service.WalletService) *WalletHandler {
	return &WalletHandler{wallets: wallets}
}

// Overview handles POST /rpc/wallet_overview.
func (h *WalletHandler) Overview(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	var input struct {
		Limit int `json:"p_limit"`
	}
	if err := DecodeJSON(r, &input); err != nil {
		RespondJSON(w, http.StatusBadRequest, map[string]string{
			"code":    "VALIDATION_ERROR",
			"message": "invalid request body",
		})
		return
	}
	if input.Limit <= 0 || input.Limit > 100 {
		input.Limit = 20
	}

	overview, err := h.wallets.Overview(r.Context(), userID, input.Limit)
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, overview)
}

// Withdraw handles POST /rpc/withdraw.
func (h *WalletHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromContext(r)
	if err != nil {
		RespondError(w, err)
		return
	}

	var input struct {
		Amount int64 `json:"p_amount"`
	}
	if err := DecodeJSON(r, &input); err != nil {
		RespondJSON(w, http.StatusBadRequest, map[string]string{
			"code":    "VALIDATION_ERROR",
			"message": "invalid request body",
		})
		return
	}

	result, err := h.wallets.Withdraw(r.Context(), userID, input.Amount)
	if err != nil {
		RespondError(w, err)
		return
	}

	RespondJSON(w, http.StatusOK, result)
}
