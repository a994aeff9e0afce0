package handler

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-playground/validator/v10"
)

const maxBodySize = 1 << 16

type addItemRequest struct {
	ProductID int64 `validate:"required,gt=0"`
	Quantity  int   `validate:"min=0,max=99"`
}

// updateQuantityRequest accepts negative quantities: they remove the line.
type updateQuantityRequest struct {
	Quantity int `validate:"max=99"`
}

type trackViewRequest struct {
	ProductID int64 `validate:"required,gt=0"`
}

type limitQuery struct {
	Limit int `validate:"min=0,max=50"`
}

// requestError is a failure the client can fix.
type requestError struct {
	msg string
}

func (e *requestError) Error() string { return e.msg }

func badRequest(format string, args ...any) error {
	return &requestError{msg: fmt.Sprintf(format, args...)}
}

func pathID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, badRequest("invalid id %q", raw)
	}
	return id, nil
}

func queryLimit(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, badRequest("invalid limit %q", raw)
	}
	return n, nil
}

// readObject decodes a JSON object body, handing each field to fn. Unknown
// fields are skipped.
func readObject(r *http.Request, fn func(d *jx.Decoder, key string) error) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodySize))
	if err != nil {
		return errors.Wrap(err, "read body")
	}
	d := jx.DecodeBytes(body)
	if d.Next() != jx.Object {
		return badRequest("body must be a JSON object")
	}
	if err := d.ObjBytes(func(d *jx.Decoder, key []byte) error {
		return fn(d, string(key))
	}); err != nil {
		return badRequest("decode body: %s", err)
	}
	return nil
}

func decodeAddItem(r *http.Request) (addItemRequest, error) {
	req := addItemRequest{Quantity: 1}
	err := readObject(r, func(d *jx.Decoder, key string) error {
		switch key {
		case "productId":
			v, err := d.Int64()
			req.ProductID = v
			return err
		case "quantity":
			v, err := d.Int()
			req.Quantity = v
			return err
		default:
			return d.Skip()
		}
	})
	return req, err
}

func decodeUpdateQuantity(r *http.Request) (updateQuantityRequest, error) {
	var req updateQuantityRequest
	seen := false
	err := readObject(r, func(d *jx.Decoder, key string) error {
		if key != "quantity" {
			return d.Skip()
		}
		seen = true
		v, err := d.Int()
		req.Quantity = v
		return err
	})
	if err == nil && !seen {
		err = badRequest("quantity is required")
	}
	return req, err
}

func decodeTrackView(r *http.Request) (trackViewRequest, error) {
	var req trackViewRequest
	err := readObject(r, func(d *jx.Decoder, key string) error {
		if key != "productId" {
			return d.Skip()
		}
		v, err := d.Int64()
		req.ProductID = v
		return err
	})
	return req, err
}

func (h *Handler) check(v any) error {
	if err := h.validate.Struct(v); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return badRequest("field %s failed %s validation", fe.Field(), fe.Tag())
		}
		return badRequest("%s", err)
	}
	return nil
}
