package product

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"testing"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/storefront/internal/records"
)

// --- Mock implementations ---

// mockFetcher serves records from a fixed catalog and answers list queries
// through a per-test function.
type mockFetcher struct {
	mu      sync.Mutex
	byID    map[int64]jx.Raw
	list    func(q records.Query) (*records.ListResponse, error)
	getErr  error
	queries []records.Query
}

func (m *mockFetcher) FetchRecords(_ context.Context, entity string, q records.Query) (*records.ListResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if entity != records.EntityProduct {
		return nil, records.ErrUnknownEntity
	}
	m.queries = append(m.queries, q)
	if m.list == nil {
		return &records.ListResponse{Success: true}, nil
	}
	return m.list(q)
}

func (m *mockFetcher) GetRecordByID(_ context.Context, _ string, id int64, _ records.Query) (*records.RecordResponse, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	rec, ok := m.byID[id]
	if !ok {
		return &records.RecordResponse{Success: true}, nil
	}
	return &records.RecordResponse{Success: true, Data: rec}, nil
}

func (m *mockFetcher) lastQuery(t *testing.T) records.Query {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	require.NotEmpty(t, m.queries)
	return m.queries[len(m.queries)-1]
}

// --- Helpers ---

func productRecord(id, categoryID int64, category, price string) jx.Raw {
	return jx.Raw(fmt.Sprintf(
		`{"Id":%d,"title_c":"Product %d","price_c":%s,"image_c":"img/%d.jpg","category_c":{"Id":%d,"Name":%q},"stock_level_c":10}`,
		id, id, price, id, categoryID, category,
	))
}

func newFetcher(recs ...jx.Raw) *mockFetcher {
	byID := make(map[int64]jx.Raw, len(recs))
	for _, rec := range recs {
		raw, err := DecodeRaw(rec)
		if err != nil {
			panic(err)
		}
		byID[raw.ID] = rec
	}
	return &mockFetcher{byID: byID}
}

func ok(recs ...jx.Raw) func(records.Query) (*records.ListResponse, error) {
	return func(records.Query) (*records.ListResponse, error) {
		return &records.ListResponse{Success: true, Data: recs}, nil
	}
}

func ids(products []Product) []int64 {
	out := make([]int64, len(products))
	for i, p := range products {
		out[i] = p.ID
	}
	return out
}

func conditionFor(q records.Query, field string, op records.Operator) (records.Condition, bool) {
	for _, c := range q.Where {
		if c.Field == field && c.Operator == op {
			return c, true
		}
	}
	return records.Condition{}, false
}

// --- Tests ---

func TestService_Get(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		svc := NewService(newFetcher(productRecord(1, 2, "Toys", "10")))

		p, err := svc.Get(context.Background(), 1)
		require.NoError(t, err)
		assert.Equal(t, "Product 1", p.Title)
		assert.Equal(t, "3-8 years", p.AgeRange)
	})

	t.Run("missing", func(t *testing.T) {
		svc := NewService(newFetcher())

		_, err := svc.Get(context.Background(), 42)
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("collaborator error", func(t *testing.T) {
		f := newFetcher(productRecord(1, 2, "Toys", "10"))
		f.getErr = errors.New("connection reset")
		svc := NewService(f)

		_, err := svc.Get(context.Background(), 1)
		require.ErrorIs(t, err, ErrNotFound)
	})
}

func TestService_List(t *testing.T) {
	t.Run("normalizes records and skips malformed ones", func(t *testing.T) {
		f := newFetcher()
		f.list = ok(productRecord(1, 2, "Toys", "10"), jx.Raw(`{"Id":`), productRecord(2, 2, "Toys", "12"))
		svc := NewService(f)

		got := svc.List(context.Background())
		assert.Equal(t, []int64{1, 2}, ids(got))

		q := f.lastQuery(t)
		assert.Equal(t, DefaultListLimit, q.Paging.Limit)
		assert.Equal(t, records.ByIDAsc, q.OrderBy)
	})

	t.Run("unsuccessful response yields empty", func(t *testing.T) {
		f := newFetcher()
		f.list = func(records.Query) (*records.ListResponse, error) {
			return &records.ListResponse{Success: false, Message: "quota exceeded"}, nil
		}
		assert.Empty(t, NewService(f).List(context.Background()))
	})

	t.Run("transport error yields empty", func(t *testing.T) {
		f := newFetcher()
		f.list = func(records.Query) (*records.ListResponse, error) {
			return nil, errors.New("timeout")
		}
		assert.Empty(t, NewService(f).List(context.Background()))
	})
}

func TestService_ByCategory(t *testing.T) {
	f := newFetcher()
	svc := NewService(f)

	svc.ByCategory(context.Background(), "Toys")
	c, found := conditionFor(f.lastQuery(t), "category_c", records.EqualTo)
	require.True(t, found)
	assert.Equal(t, []any{"Toys"}, c.Values)

	svc.ByCategory(context.Background(), AllProducts)
	assert.Empty(t, f.lastQuery(t).Where)
}

func TestService_Search(t *testing.T) {
	f := newFetcher()
	svc := NewService(f)

	assert.Empty(t, svc.Search(context.Background(), ""))
	assert.Empty(t, f.queries, "empty query must not reach the collaborator")

	svc.Search(context.Background(), "hoodie")
	q := f.lastQuery(t)
	require.Len(t, q.Groups, 1)
	require.Len(t, q.Groups[0].Groups, 1)
	inner := q.Groups[0].Groups[0]
	assert.Equal(t, records.Or, inner.Logic)
	assert.Equal(t, []records.Condition{
		{Field: "title_c", Operator: records.Contains, Values: []any{"hoodie"}},
		{Field: "description_c", Operator: records.Contains, Values: []any{"hoodie"}},
	}, inner.Conditions)
}

func TestService_Related(t *testing.T) {
	f := newFetcher(productRecord(5, 3, "Toys", "20"))
	f.list = ok(
		productRecord(6, 3, "Toys", "12"),
		productRecord(7, 3, "Toys", "25"),
		productRecord(8, 3, "Toys", "29"),
	)
	svc := NewService(f)

	got := svc.Related(context.Background(), 5, 2)
	assert.Equal(t, []int64{6, 7}, ids(got))

	q := f.lastQuery(t)
	assert.Equal(t, 2, q.Paging.Limit)

	c, found := conditionFor(q, "category_c", records.EqualTo)
	require.True(t, found)
	assert.Equal(t, []any{int64(3)}, c.Values)

	low, found := conditionFor(q, "price_c", records.GreaterThanOrEqualTo)
	require.True(t, found)
	assert.True(t, decimal.NewFromInt(10).Equal(low.Values[0].(decimal.Decimal)))

	high, found := conditionFor(q, "price_c", records.LessThanOrEqualTo)
	require.True(t, found)
	assert.True(t, decimal.NewFromInt(30).Equal(high.Values[0].(decimal.Decimal)))

	self, found := conditionFor(q, "Id", records.NotEqualTo)
	require.True(t, found)
	assert.Equal(t, []any{int64(5)}, self.Values)
}

func TestService_Related_MissingProduct(t *testing.T) {
	f := newFetcher()
	svc := NewService(f)

	assert.Empty(t, svc.Related(context.Background(), 99, 6))
	assert.Empty(t, f.queries)
}

func TestService_Complementary(t *testing.T) {
	t.Run("curated ids", func(t *testing.T) {
		f := newFetcher(productRecord(1, 2, "Kids Clothing", "20"))
		f.list = func(q records.Query) (*records.ListResponse, error) {
			c, found := conditionFor(q, "Id", records.ExactMatch)
			if !found {
				return &records.ListResponse{Success: true, Data: []jx.Raw{productRecord(40, 4, "Toys", "5")}}, nil
			}
			var data []jx.Raw
			for _, v := range c.Values {
				id := v.(int64)
				if slices.Contains([]int64{2, 3, 4, 5}, id) {
					data = append(data, productRecord(id, 2, "Kids Clothing", "10"))
				}
			}
			return &records.ListResponse{Success: true, Data: data}, nil
		}
		svc := NewService(f)

		got := svc.Complementary(context.Background(), 1, 4)
		assert.Equal(t, []int64{2, 3, 4}, ids(got))
		assert.Len(t, f.queries, 1, "fallback must not run when curated ids resolve")
	})

	t.Run("falls back to other categories", func(t *testing.T) {
		f := newFetcher(productRecord(3, 2, "Kids Clothing", "20"))
		f.list = func(q records.Query) (*records.ListResponse, error) {
			if _, found := conditionFor(q, "Id", records.ExactMatch); found {
				return &records.ListResponse{Success: true}, nil
			}
			return &records.ListResponse{Success: true, Data: []jx.Raw{
				productRecord(20, 4, "Toys", "5"),
				productRecord(21, 5, "Home Goods", "7"),
			}}, nil
		}
		svc := NewService(f)

		got := svc.Complementary(context.Background(), 3, 4)
		assert.Equal(t, []int64{20, 21}, ids(got))

		q := f.lastQuery(t)
		c, found := conditionFor(q, "category_c", records.NotEqualTo)
		require.True(t, found)
		assert.Equal(t, []any{int64(2)}, c.Values)
		self, found := conditionFor(q, "Id", records.NotEqualTo)
		require.True(t, found)
		assert.Equal(t, []any{int64(3)}, self.Values)
	})

	t.Run("ids outside the curated table go straight to fallback", func(t *testing.T) {
		f := newFetcher(productRecord(77, 2, "Kids Clothing", "20"))
		svc := NewService(f)

		svc.Complementary(context.Background(), 77, 4)
		require.Len(t, f.queries, 1)
		_, found := conditionFor(f.queries[0], "category_c", records.NotEqualTo)
		assert.True(t, found)
	})

	t.Run("collaborator failure yields empty", func(t *testing.T) {
		f := newFetcher(productRecord(1, 2, "Kids Clothing", "20"))
		f.list = func(records.Query) (*records.ListResponse, error) {
			return nil, errors.New("boom")
		}
		assert.Empty(t, NewService(f).Complementary(context.Background(), 1, 4))
	})
}

func TestService_Detail(t *testing.T) {
	f := newFetcher(productRecord(1, 2, "Kids Clothing", "20"))
	f.list = func(q records.Query) (*records.ListResponse, error) {
		if _, found := conditionFor(q, "Id", records.ExactMatch); found {
			return &records.ListResponse{Success: true, Data: []jx.Raw{productRecord(2, 2, "Kids Clothing", "15")}}, nil
		}
		return &records.ListResponse{Success: true, Data: []jx.Raw{productRecord(9, 2, "Kids Clothing", "18")}}, nil
	}
	svc := NewService(f)

	d, err := svc.Detail(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), d.Product.ID)
	assert.Equal(t, []int64{9}, ids(d.Related))
	assert.Equal(t, []int64{2}, ids(d.Complementary))

	_, err = svc.Detail(context.Background(), 100)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestService_ByIDs(t *testing.T) {
	f := newFetcher()
	svc := NewService(f)

	assert.Empty(t, svc.ByIDs(context.Background(), nil))
	assert.Empty(t, f.queries)

	svc.ByIDs(context.Background(), []int64{4, 2})
	c, found := conditionFor(f.lastQuery(t), "Id", records.ExactMatch)
	require.True(t, found)
	assert.Equal(t, []any{int64(4), int64(2)}, c.Values)
}
