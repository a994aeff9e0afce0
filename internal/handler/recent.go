package handler

import (
	"net/http"

	"github.com/go-faster/jx"
)

func (h *Handler) listRecentlyViewed(w http.ResponseWriter, r *http.Request) {
	products := h.recent.All(r.Context())
	writeJSON(w, http.StatusOK, func(e *jx.Encoder) { encodeProducts(e, products) })
}

func (h *Handler) trackView(w http.ResponseWriter, r *http.Request) {
	req, err := decodeTrackView(r)
	if err == nil {
		err = h.check(req)
	}
	if err != nil {
		fail(w, r, err)
		return
	}
	if err := h.recent.TrackView(r.Context(), req.ProductID); err != nil {
		fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) clearRecentlyViewed(w http.ResponseWriter, r *http.Request) {
	if err := h.recent.Clear(r.Context()); err != nil {
		fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
