package handler

import (
	"net/http"

	"github.com/go-faster/jx"

	"github.com/xenking/storefront/internal/domain/cart"
)

func (h *Handler) writeCart(w http.ResponseWriter, status int) {
	c := h.cart.Snapshot()
	writeJSON(w, status, func(e *jx.Encoder) { encodeCart(e, c) })
}

func (h *Handler) getCart(w http.ResponseWriter, _ *http.Request) {
	h.writeCart(w, http.StatusOK)
}

// addCartItem snapshots the product into the cart. The line keeps the title
// and price it had when added.
func (h *Handler) addCartItem(w http.ResponseWriter, r *http.Request) {
	req, err := decodeAddItem(r)
	if err == nil {
		err = h.check(req)
	}
	if err != nil {
		fail(w, r, err)
		return
	}

	ctx := r.Context()
	p, err := h.products.Get(ctx, req.ProductID)
	if err != nil {
		fail(w, r, err)
		return
	}
	if err := h.cart.AddToCart(ctx, cart.ItemFromProduct(*p, req.Quantity)); err != nil {
		fail(w, r, err)
		return
	}
	h.writeCart(w, http.StatusCreated)
}

func (h *Handler) updateCartItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	req, err := decodeUpdateQuantity(r)
	if err == nil {
		err = h.check(req)
	}
	if err != nil {
		fail(w, r, err)
		return
	}
	if err := h.cart.UpdateQuantity(r.Context(), id, req.Quantity); err != nil {
		fail(w, r, err)
		return
	}
	h.writeCart(w, http.StatusOK)
}

func (h *Handler) removeCartItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		fail(w, r, err)
		return
	}
	if err := h.cart.RemoveFromCart(r.Context(), id); err != nil {
		fail(w, r, err)
		return
	}
	h.writeCart(w, http.StatusOK)
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	if err := h.cart.ClearCart(r.Context()); err != nil {
		fail(w, r, err)
		return
	}
	h.writeCart(w, http.StatusOK)
}
