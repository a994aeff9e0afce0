package product

import (
	"context"

	"github.com/go-faster/sdk/zctx"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xenking/storefront/internal/records"
)

// Listing defaults.
const (
	DefaultListLimit          = 50
	DefaultRelatedLimit       = 6
	DefaultComplementaryLimit = 4

	// AllProducts is the pseudo-category that disables category filtering.
	AllProducts = "All Products"
)

var (
	relatedPriceLow  = decimal.RequireFromString("0.5")
	relatedPriceHigh = decimal.RequireFromString("1.5")
)

// recordFields is the field selection of every product query.
var recordFields = append(records.Select(
	fieldName, fieldTitle, fieldPrice, fieldSalePrice, fieldImage,
	fieldSubcategory, fieldDescription, fieldSizeRecommendation,
	fieldInStock, fieldStockLevel, fieldSizeStock,
), records.Field{Name: fieldCategory, Reference: fieldName})

// Service reads normalized products from the record-fetch collaborator.
//
// List operations never fail: collaborator failures are logged and turn into
// empty results. Single lookups report ErrNotFound instead.
type Service struct {
	records records.Fetcher
	tracer  trace.Tracer
}

// Option configures a Service.
type Option func(*Service)

// WithTracerProvider sets the tracer provider used for selector spans.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *Service) {
		s.tracer = tp.Tracer("storefront/product")
	}
}

// NewService creates a product Service over the given collaborator.
func NewService(fetcher records.Fetcher, opts ...Option) *Service {
	s := &Service{
		records: fetcher,
		tracer:  otel.GetTracerProvider().Tracer("storefront/product"),
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// List returns the first page of the catalog ordered by id.
func (s *Service) List(ctx context.Context) []Product {
	return s.fetch(ctx, "list", records.Query{
		Fields:  recordFields,
		OrderBy: records.ByIDAsc,
		Paging:  records.Paging{Limit: DefaultListLimit},
	})
}

// Get returns a single product by id.
func (s *Service) Get(ctx context.Context, id int64) (*Product, error) {
	resp, err := s.records.GetRecordByID(ctx, records.EntityProduct, id, records.Query{Fields: recordFields})
	if err != nil {
		zctx.From(ctx).Warn("Fetch product failed", zap.Int64("id", id), zap.Error(err))
		return nil, ErrNotFound
	}
	if !resp.Success {
		zctx.From(ctx).Warn("Fetch product failed", zap.Int64("id", id), zap.String("message", resp.Message))
		return nil, ErrNotFound
	}
	if len(resp.Data) == 0 {
		return nil, ErrNotFound
	}

	raw, err := DecodeRaw(resp.Data)
	if err != nil {
		zctx.From(ctx).Warn("Malformed product record", zap.Int64("id", id), zap.Error(err))
		return nil, ErrNotFound
	}
	p := Normalize(raw)
	return &p, nil
}

// ByCategory lists products of a category. An empty name or AllProducts
// lists the whole catalog page.
func (s *Service) ByCategory(ctx context.Context, category string) []Product {
	q := records.Query{
		Fields:  recordFields,
		OrderBy: records.ByIDAsc,
		Paging:  records.Paging{Limit: DefaultListLimit},
	}
	if category != "" && category != AllProducts {
		q.Where = []records.Condition{records.Where(fieldCategory, records.EqualTo, category)}
	}
	return s.fetch(ctx, "by_category", q)
}

// Search matches the query against titles and descriptions. An empty query
// matches nothing.
func (s *Service) Search(ctx context.Context, query string) []Product {
	if query == "" {
		return nil
	}
	return s.fetch(ctx, "search", records.Query{
		Fields: recordFields,
		Groups: []records.Group{{
			Logic: records.Or,
			Groups: []records.Group{{
				Logic: records.Or,
				Conditions: []records.Condition{
					records.Where(fieldTitle, records.Contains, query),
					records.Where(fieldDescription, records.Contains, query),
				},
			}},
		}},
		OrderBy: records.ByIDAsc,
		Paging:  records.Paging{Limit: DefaultListLimit},
	})
}

// ByIDs returns the products with the given ids ordered by id. Unknown ids
// are skipped.
func (s *Service) ByIDs(ctx context.Context, ids []int64) []Product {
	if len(ids) == 0 {
		return nil
	}
	return s.fetch(ctx, "by_ids", records.Query{
		Fields:  recordFields,
		Where:   []records.Condition{records.Where(records.FieldID, records.ExactMatch, int64Values(ids)...)},
		OrderBy: records.ByIDAsc,
		Paging:  records.Paging{Limit: len(ids)},
	})
}

// Related lists products of the same category priced within half to one and
// a half times the product's price. A missing product has no related items.
func (s *Service) Related(ctx context.Context, id int64, limit int) []Product {
	ctx, span := s.tracer.Start(ctx, "product.Related", trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()

	target, err := s.Get(ctx, id)
	if err != nil {
		return nil
	}
	return s.related(ctx, target, limit)
}

func (s *Service) related(ctx context.Context, target *Product, limit int) []Product {
	if limit <= 0 {
		limit = DefaultRelatedLimit
	}
	q := records.Query{
		Fields: recordFields,
		Where: []records.Condition{
			records.Where(fieldCategory, records.EqualTo, categoryValue(target)),
			records.Where(fieldPrice, records.GreaterThanOrEqualTo, target.Price.Mul(relatedPriceLow)),
			records.Where(fieldPrice, records.LessThanOrEqualTo, target.Price.Mul(relatedPriceHigh)),
			records.Where(records.FieldID, records.NotEqualTo, target.ID),
		},
		OrderBy: records.ByIDAsc,
		Paging:  records.Paging{Limit: limit},
	}
	return truncate(s.fetch(ctx, "related", q), limit)
}

// Detail returns a product together with its related and complementary
// products, fetched concurrently.
func (s *Service) Detail(ctx context.Context, id int64) (*Detail, error) {
	ctx, span := s.tracer.Start(ctx, "product.Detail", trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()

	target, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &Detail{Product: *target}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		detail.Related = s.related(gctx, target, DefaultRelatedLimit)
		return nil
	})
	g.Go(func() error {
		detail.Complementary = s.complementary(gctx, target, DefaultComplementaryLimit)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return detail, nil
}

// fetch runs a list query and normalizes the records, skipping malformed ones.
func (s *Service) fetch(ctx context.Context, op string, q records.Query) []Product {
	lg := zctx.From(ctx).With(zap.String("op", op))

	resp, err := s.records.FetchRecords(ctx, records.EntityProduct, q)
	if err != nil {
		lg.Warn("Fetch products failed", zap.Error(err))
		return nil
	}
	if !resp.Success {
		lg.Warn("Fetch products failed", zap.String("message", resp.Message))
		return nil
	}

	products := make([]Product, 0, len(resp.Data))
	for _, rec := range resp.Data {
		raw, err := DecodeRaw(rec)
		if err != nil {
			lg.Warn("Skipping malformed product record", zap.Error(err))
			continue
		}
		products = append(products, Normalize(raw))
	}
	return products
}

// categoryValue is the lookup value for the product's category: the id when
// known, else the name.
func categoryValue(p *Product) any {
	if p.CategoryID != 0 {
		return p.CategoryID
	}
	return p.Category
}

func truncate(products []Product, limit int) []Product {
	if len(products) > limit {
		return products[:limit]
	}
	return products
}

func int64Values(ids []int64) []any {
	values := make([]any, len(ids))
	for i, id := range ids {
		values[i] = id
	}
	return values
}
