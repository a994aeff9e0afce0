package product

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/xenking/storefront/internal/records"
)

// complementaryIDs is the curated pairing of the seed catalog. Products
// outside it always use the cross-category fallback.
var complementaryIDs = map[int64][]int64{
	1:  {2, 3, 4},
	2:  {1, 3, 5},
	3:  {1, 2, 6},
	4:  {2, 5, 7},
	5:  {3, 6, 8},
	6:  {4, 7, 9},
	7:  {5, 8, 10},
	8:  {6, 9, 11},
	9:  {7, 10, 12},
	10: {8, 11, 13},
}

// Complementary lists products to suggest alongside the given one: the
// curated pairing when any of its products exist, otherwise products from
// other categories.
func (s *Service) Complementary(ctx context.Context, id int64, limit int) []Product {
	ctx, span := s.tracer.Start(ctx, "product.Complementary", trace.WithAttributes(attribute.Int64("product.id", id)))
	defer span.End()

	target, err := s.Get(ctx, id)
	if err != nil {
		return nil
	}
	return s.complementary(ctx, target, limit)
}

func (s *Service) complementary(ctx context.Context, target *Product, limit int) []Product {
	if limit <= 0 {
		limit = DefaultComplementaryLimit
	}

	if ids := complementaryIDs[target.ID]; len(ids) > 0 {
		curated := s.fetch(ctx, "complementary_curated", records.Query{
			Fields:  recordFields,
			Where:   []records.Condition{records.Where(records.FieldID, records.ExactMatch, int64Values(ids)...)},
			OrderBy: records.ByIDAsc,
			Paging:  records.Paging{Limit: limit},
		})
		if len(curated) > 0 {
			return truncate(curated, limit)
		}
	}

	fallback := s.fetch(ctx, "complementary_fallback", records.Query{
		Fields: recordFields,
		Where: []records.Condition{
			records.Where(fieldCategory, records.NotEqualTo, categoryValue(target)),
			records.Where(records.FieldID, records.NotEqualTo, target.ID),
		},
		OrderBy: records.ByIDAsc,
		Paging:  records.Paging{Limit: limit},
	})
	return truncate(fallback, limit)
}
