package handler

import (
	"net/http"
	"strings"

	"github.com/go-faster/jx"

	"github.com/xenking/storefront/internal/domain/product"
)

// listProducts serves the whole catalog, one category, or search results.
// A search query takes precedence over a category filter.
func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	var products []product.Product
	switch search, cat := strings.TrimSpace(q.Get("q")), q.Get("category"); {
	case search != "":
		products = h.products.Search(ctx, search)
	case cat != "":
		products = h.products.ByCategory(ctx, cat)
	default:
		products = h.products.List(ctx)
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) { encodeProducts(e, products) })
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	p, err := h.products.Get(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) { encodeProduct(e, *p) })
}

func (h *Handler) productDetail(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	d, err := h.products.Detail(r.Context(), id)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) { encodeDetail(e, d) })
}

func (h *Handler) relatedProducts(w http.ResponseWriter, r *http.Request) {
	id, limit, err := h.idAndLimit(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	products := h.products.Related(r.Context(), id, limit)
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) { encodeProducts(e, products) })
}

func (h *Handler) complementaryProducts(w http.ResponseWriter, r *http.Request) {
	id, limit, err := h.idAndLimit(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	products := h.products.Complementary(r.Context(), id, limit)
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) { encodeProducts(e, products) })
}

func (h *Handler) idAndLimit(r *http.Request) (int64, int, error) {
	id, err := pathID(r)
	if err != nil {
		return 0, 0, err
	}
	limit, err := queryLimit(r)
	if err != nil {
		return 0, 0, err
	}
	if err := h.check(limitQuery{Limit: limit}); err != nil {
		return 0, 0, err
	}
	return id, limit, nil
}
