package admin

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/matka/platform/internal/domain"
	"github.com/matka/platform/internal/handler"
	"github.com/matka/platform/internal/service"
)

// UTRAdminHandler handles operator review of deposit submissions.
type UTRAdminHandler struct {
	utrs *service.UTRService
}

// NewUTRAdminHandler creates a new UTRAdminHandler.
func NewUTRAdminHandler(utrs *service.UTRService) *UTRAdminHandler {
	return &UTRAdminHandler{utrs: utrs}
}

// ListPending handles GET /admin/utr/pending.
func (h *UTRAdminHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	subs, err := h.utrs.ListPending(r.Context(), 100)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, subs)
}

// Approve handles POST /admin/rpc/approve_utr.
func (h *UTRAdminHandler) Approve(w http.ResponseWriter, r *http.Request) {
	utrID, err := decodeUTRID(r)
	if err != nil {
		handler.RespondError(w, err)
		return
	}

	result, err := h.utrs.Approve(r.Context(), utrID)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, result)
}

// Reject handles POST /admin/rpc/reject_utr.
func (h *UTRAdminHandler) Reject(w http.ResponseWriter, r *http.Request) {
	utrID, err := decodeUTRID(r)
	if err != nil {
		handler.RespondError(w, err)
		return
	}

	if err := h.utrs.Reject(r.Context(), utrID); err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, map[string]string{"status": "rejected"})
}

func decodeUTRID(r *http.Request) (uuid.UUID, error) {
	var input struct {
		UTRID string `json:"p_utr_id"`
	}
	if err := handler.DecodeJSON(r, &input); err != nil {
		return uuid.Nil, domain.ErrValidation("invalid request body")
	}
	id, err := uuid.Parse(input.UTRID)
	if err != nil {
		return uuid.Nil, domain.ErrValidation("invalid utr id")
	}
	return id, nil
}
