package cart

import (
	"context"
	"slices"
	"sync"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// Store holds the cart and mirrors it to Storage. Each mutation writes the
// full cart before the in-memory state changes, so a failed write leaves the
// cart untouched.
//
// Store is safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	items   []LineItem
	storage Storage
	key     string

	mutations metric.Int64Counter
}

type options struct {
	key           string
	meterProvider metric.MeterProvider
}

// Option configures a Store.
type Option func(*options)

// WithKey sets the storage key.
func WithKey(key string) Option {
	return func(o *options) {
		o.key = key
	}
}

// WithMeterProvider sets the meter provider for the mutation counter.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *options) {
		o.meterProvider = mp
	}
}

// NewStore creates a Store hydrated from storage. Missing, unreadable or
// malformed data yields an empty cart.
func NewStore(ctx context.Context, storage Storage, opts ...Option) (*Store, error) {
	o := options{
		key:           DefaultKey,
		meterProvider: otel.GetMeterProvider(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	mutations, err := o.meterProvider.Meter("storefront/cart").Int64Counter("storefront.cart.mutations",
		metric.WithDescription("Number of persisted cart mutations"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "create mutation counter")
	}

	s := &Store{
		storage:   storage,
		key:       o.key,
		mutations: mutations,
	}
	s.items = s.hydrate(ctx)
	return s, nil
}

func (s *Store) hydrate(ctx context.Context) []LineItem {
	lg := zctx.From(ctx).With(zap.String("key", s.key))

	raw, ok, err := s.storage.Get(ctx, s.key)
	if err != nil {
		lg.Warn("Read stored cart failed, starting empty", zap.Error(err))
		return nil
	}
	if !ok {
		return nil
	}
	items, err := Decode([]byte(raw))
	if err != nil {
		lg.Warn("Stored cart is malformed, starting empty", zap.Error(err))
		return nil
	}
	return items
}

// AddToCart adds the item, merging with an existing line of the same product
// by summing quantities up to MaxQuantity. A quantity below one counts as one.
func (s *Store) AddToCart(ctx context.Context, item LineItem) error {
	if item.Quantity < 1 {
		item.Quantity = 1
	}
	return s.mutate(ctx, "add", func(items []LineItem) []LineItem {
		return merge(items, item)
	})
}

// UpdateQuantity sets the quantity of a line, capped at MaxQuantity. A
// quantity of zero or less removes the line.
func (s *Store) UpdateQuantity(ctx context.Context, productID int64, quantity int) error {
	if quantity <= 0 {
		return s.RemoveFromCart(ctx, productID)
	}
	return s.mutate(ctx, "update", func(items []LineItem) []LineItem {
		if i := index(items, productID); i >= 0 {
			items[i].Quantity = min(quantity, MaxQuantity)
		}
		return items
	})
}

// RemoveFromCart drops the line of the product. Absent products are ignored.
func (s *Store) RemoveFromCart(ctx context.Context, productID int64) error {
	return s.mutate(ctx, "remove", func(items []LineItem) []LineItem {
		return slices.DeleteFunc(items, func(li LineItem) bool {
			return li.ProductID == productID
		})
	})
}

// ClearCart empties the cart.
func (s *Store) ClearCart(ctx context.Context) error {
	return s.mutate(ctx, "clear", func([]LineItem) []LineItem {
		return nil
	})
}

// TotalItems is the sum of all quantities.
func (s *Store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return totalItems(s.items)
}

// Subtotal is the sum of all line totals.
func (s *Store) Subtotal() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return subtotal(s.items)
}

// Items returns a copy of the line items in insertion order.
func (s *Store) Items() []LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.items)
}

// Snapshot returns the items together with their aggregates.
func (s *Store) Snapshot() Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Cart{
		Items:      slices.Clone(s.items),
		TotalItems: totalItems(s.items),
		Subtotal:   subtotal(s.items),
	}
}

// mutate applies fn to a copy of the items, persists the result and only then
// swaps it in.
func (s *Store) mutate(ctx context.Context, op string, fn func([]LineItem) []LineItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := fn(slices.Clone(s.items))
	if err := s.storage.Set(ctx, s.key, string(Encode(next))); err != nil {
		return errors.Wrapf(err, "persist cart (%s)", op)
	}
	s.items = next
	s.mutations.Add(ctx, 1, metric.WithAttributes(attribute.String("op", op)))
	return nil
}

func index(items []LineItem, productID int64) int {
	return slices.IndexFunc(items, func(li LineItem) bool {
		return li.ProductID == productID
	})
}

func merge(items []LineItem, item LineItem) []LineItem {
	if i := index(items, item.ProductID); i >= 0 {
		items[i].Quantity = min(items[i].Quantity+item.Quantity, MaxQuantity)
		return items
	}
	item.Quantity = min(item.Quantity, MaxQuantity)
	return append(items, item)
}
