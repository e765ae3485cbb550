package admin

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/matka/platform/internal/handler"
	"github.com/matka/platform/internal/service"
)

// BookAdminHandler handles catalogue management.
type BookAdminHandler struct {
	catalog *service.CatalogService
}

// NewBookAdminHandler creates a new BookAdminHandler.
func NewBookAdminHandler(catalog *service.CatalogService) *BookAdminHandler {
	return &BookAdminHandler{catalog: catalog}
}

// Create handles POST /admin/books.
func (h *BookAdminHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.BookInput
	if err := handler.DecodeJSON(r, &input); err != nil {
		handler.RespondJSON(w, http.StatusBadRequest, map[string]string{
			"code": "VALIDATION_ERROR", "message": "invalid request body",
		})
		return
	}

	book, err := h.catalog.CreateBook(r.Context(), input)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusCreated, book)
}

// Update handles PUT /admin/books/{slug}.
func (h *BookAdminHandler) Update(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	var input service.BookInput
	if err := handler.DecodeJSON(r, &input); err != nil {
		handler.RespondJSON(w, http.StatusBadRequest, map[string]string{
			"code": "VALIDATION_ERROR", "message": "invalid request body",
		})
		return
	}

	book, err := h.catalog.UpdateBook(r.Context(), slug, input)
	if err != nil {
		handler.RespondError(w, err)
		return
	}
	handler.RespondJSON(w, http.StatusOK, book)
}
