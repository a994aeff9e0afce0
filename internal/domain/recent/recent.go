// Package recent tracks the products a shopper viewed most recently.
package recent

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/storefront/internal/domain/product"
)

// DefaultMax bounds the tracked history.
const DefaultMax = 10

// Tracker stores product ids most recent first, without duplicates.
type Tracker interface {
	IDs(ctx context.Context) ([]int64, error)
	TrackView(ctx context.Context, productID int64) error
	Clear(ctx context.Context) error
}

// Products resolves product ids.
type Products interface {
	ByIDs(ctx context.Context, ids []int64) []product.Product
}

// Service exposes the recently viewed products.
type Service struct {
	tracker  Tracker
	products Products
}

// NewService creates a Service.
func NewService(tracker Tracker, products Products) *Service {
	return &Service{tracker: tracker, products: products}
}

// All returns the tracked products most recent first. Products that no longer
// exist are skipped; tracker failures yield an empty list.
func (s *Service) All(ctx context.Context) []product.Product {
	ids, err := s.tracker.IDs(ctx)
	if err != nil {
		zctx.From(ctx).Warn("Read recently viewed failed", zap.Error(err))
		return []product.Product{}
	}
	if len(ids) == 0 {
		return []product.Product{}
	}

	byID := make(map[int64]product.Product, len(ids))
	for _, p := range s.products.ByIDs(ctx, ids) {
		byID[p.ID] = p
	}
	out := make([]product.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out
}

// TrackView records a view of the product.
func (s *Service) TrackView(ctx context.Context, productID int64) error {
	if err := s.tracker.TrackView(ctx, productID); err != nil {
		return errors.Wrap(err, "track view")
	}
	return nil
}

// Clear forgets the history.
func (s *Service) Clear(ctx context.Context) error {
	if err := s.tracker.Clear(ctx); err != nil {
		return errors.Wrap(err, "clear recently viewed")
	}
	return nil
}
