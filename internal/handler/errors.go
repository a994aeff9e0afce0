package handler

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/storefront/internal/domain/category"
	"github.com/xenking/storefront/internal/domain/product"
)

// fail maps domain errors to a status code and writes the error body.
func fail(w http.ResponseWriter, r *http.Request, err error) {
	var reqErr *requestError
	switch {
	case errors.As(err, &reqErr):
		writeError(w, http.StatusBadRequest, reqErr.msg)
	case errors.Is(err, product.ErrNotFound), errors.Is(err, category.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		zctx.From(r.Context()).Error("Handle request", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
