package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/jx"

	"github.com/xenking/storefront/internal/domain/category"
)

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	categories := h.categories.All(r.Context())
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) {
		e.ArrStart()
		for _, c := range categories {
			encodeCategory(e, c)
		}
		e.ArrEnd()
	})
}

func (h *Handler) getCategory(w http.ResponseWriter, r *http.Request) {
	c, err := h.categories.ByName(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) { encodeCategory(e, *c) })
}

// listSubcategories answers from the static table, so unknown categories
// get an empty list rather than 404.
func (h *Handler) listSubcategories(w http.ResponseWriter, r *http.Request) {
	subs := category.Subcategories(chi.URLParam(r, "name"))
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) { encodeSubcategories(e, subs) })
}

func (h *Handler) parentCategory(w http.ResponseWriter, r *http.Request) {
	c, err := h.categories.ByParentOf(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) { encodeCategory(e, *c) })
}
