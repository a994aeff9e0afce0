package category

import (
	"context"

	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/xenking/storefront/internal/records"
)

// ListLimit bounds the category listing.
const ListLimit = 20

// Service reads categories from the record-fetch collaborator.
type Service struct {
	records records.Fetcher
}

// NewService creates a category Service.
func NewService(fetcher records.Fetcher) *Service {
	return &Service{records: fetcher}
}

// All lists categories ordered by id. Failures yield an empty list.
func (s *Service) All(ctx context.Context) []Category {
	resp, err := s.records.FetchRecords(ctx, records.EntityCategory, records.Query{
		Fields:  recordFields,
		OrderBy: records.ByIDAsc,
		Paging:  records.Paging{Limit: ListLimit},
	})
	if err != nil {
		zctx.From(ctx).Warn("Fetch categories failed", zap.Error(err))
		return []Category{}
	}
	if !resp.Success {
		zctx.From(ctx).Warn("Fetch categories failed", zap.String("message", resp.Message))
		return []Category{}
	}
	return s.decodeAll(ctx, resp.Data)
}

// ByID returns the category with the given id.
func (s *Service) ByID(ctx context.Context, id int64) (*Category, error) {
	resp, err := s.records.GetRecordByID(ctx, records.EntityCategory, id, records.Query{Fields: recordFields})
	if err != nil {
		zctx.From(ctx).Warn("Fetch category failed", zap.Int64("id", id), zap.Error(err))
		return nil, ErrNotFound
	}
	if !resp.Success || len(resp.Data) == 0 {
		return nil, ErrNotFound
	}
	c, err := decode(resp.Data)
	if err != nil {
		zctx.From(ctx).Warn("Malformed category record", zap.Int64("id", id), zap.Error(err))
		return nil, ErrNotFound
	}
	return &c, nil
}

// ByName returns the category whose display name equals name.
func (s *Service) ByName(ctx context.Context, name string) (*Category, error) {
	resp, err := s.records.FetchRecords(ctx, records.EntityCategory, records.Query{
		Fields: recordFields,
		Where:  []records.Condition{records.Where(fieldDisplay, records.EqualTo, name)},
		Paging: records.Paging{Limit: 1},
	})
	if err != nil {
		zctx.From(ctx).Warn("Fetch category failed", zap.String("name", name), zap.Error(err))
		return nil, ErrNotFound
	}
	if !resp.Success {
		zctx.From(ctx).Warn("Fetch category failed", zap.String("name", name), zap.String("message", resp.Message))
		return nil, ErrNotFound
	}
	found := s.decodeAll(ctx, resp.Data)
	if len(found) == 0 {
		return nil, ErrNotFound
	}
	return &found[0], nil
}

// ByParentOf resolves a subcategory name to the category that owns it.
func (s *Service) ByParentOf(ctx context.Context, subcategory string) (*Category, error) {
	parent, ok := ParentOf(subcategory)
	if !ok {
		return nil, ErrNotFound
	}
	return s.ByName(ctx, parent)
}

func (s *Service) decodeAll(ctx context.Context, data []jx.Raw) []Category {
	out := make([]Category, 0, len(data))
	for _, rec := range data {
		c, err := decode(rec)
		if err != nil {
			zctx.From(ctx).Warn("Skipping malformed category record", zap.Error(err))
			continue
		}
		out = append(out, c)
	}
	return out
}
