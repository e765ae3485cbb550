package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/matka/platform/internal/service"
)

// BookHandler serves the public book and result board.
type BookHandler struct {
	catalog *service.CatalogService
}

// NewBookHandler creates a new BookHandler.
func NewBookHandler(catalog *service.CatalogService) *BookHandler {
	return &BookHandler{catalog: catalog}
}

// List handles GET /books.
func (h *BookHandler) List(w http.ResponseWriter, r *http.Request) {
	views, err := h.catalog.ListBooks(r.Context(), time.Now())
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, views)
}

// Results handles GET /books/{slug}/results.
func (h *BookHandler) Results(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	results, err := h.catalog.BookResults(r.Context(), slug, queryLimit(r, 30))
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, results)
}

// GameTypes handles GET /game-types.
func (h *BookHandler) GameTypes(w http.ResponseWriter, r *http.Request) {
	types, err := h.catalog.ListGameTypes(r.Context())
	if err != nil {
		RespondError(w, err)
		return
	}
	RespondJSON(w, http.StatusOK, types)
}
