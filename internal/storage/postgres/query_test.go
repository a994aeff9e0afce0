package postgres

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/storefront/internal/domain/product"
	"github.com/xenking/storefront/internal/records"
)

func TestBuildSelect(t *testing.T) {
	tests := []struct {
		name     string
		entity   string
		query    records.Query
		wantSQL  string
		wantArgs []any
	}{
		{
			name:     "plain listing",
			entity:   records.EntityCategory,
			query:    records.Query{Fields: records.Select("name_c"), OrderBy: records.ByIDAsc, Paging: records.Paging{Limit: 20}},
			wantSQL:  "SELECT jsonb_build_object('Id', c.id, 'name_c', c.name_c) FROM category_c c ORDER BY c.id ASC LIMIT $1",
			wantArgs: []any{20},
		},
		{
			name:   "reference by id and price band",
			entity: records.EntityProduct,
			query: records.Query{
				Where: []records.Condition{
					records.Where("category_c", records.EqualTo, int64(2)),
					records.Where("price_c", records.GreaterThanOrEqualTo, decimal.NewFromInt(5)),
					records.Where("Id", records.NotEqualTo, int64(1)),
				},
			},
			wantSQL: "SELECT jsonb_build_object('Id', p.id) FROM product_c p LEFT JOIN category_c c ON c.id = p.category_c" +
				" WHERE p.category_c = $1 AND p.price_c >= $2 AND p.id IS DISTINCT FROM $3",
			wantArgs: []any{int64(2), decimal.NewFromInt(5), int64(1)},
		},
		{
			name:   "reference by name",
			entity: records.EntityProduct,
			query:  records.Query{Where: []records.Condition{records.Where("category_c", records.NotEqualTo, "Toys")}},
			wantSQL: "SELECT jsonb_build_object('Id', p.id) FROM product_c p LEFT JOIN category_c c ON c.id = p.category_c" +
				" WHERE " + categoryDisplayName + " IS DISTINCT FROM $1",
			wantArgs: []any{"Toys"},
		},
		{
			name:   "exact match list",
			entity: records.EntityProduct,
			query: records.Query{
				Where:  []records.Condition{records.Where("Id", records.ExactMatch, int64(2), int64(3))},
				Paging: records.Paging{Limit: 2, Offset: 4},
			},
			wantSQL: "SELECT jsonb_build_object('Id', p.id) FROM product_c p LEFT JOIN category_c c ON c.id = p.category_c" +
				" WHERE p.id IN ($1, $2) LIMIT $3 OFFSET $4",
			wantArgs: []any{int64(2), int64(3), 2, 4},
		},
		{
			name:   "nested or group",
			entity: records.EntityProduct,
			query: records.Query{Groups: []records.Group{{
				Logic: records.Or,
				Groups: []records.Group{{
					Logic: records.Or,
					Conditions: []records.Condition{
						records.Where("title_c", records.Contains, "50%"),
						records.Where("description_c", records.Contains, "50%"),
					},
				}},
			}}},
			wantSQL: "SELECT jsonb_build_object('Id', p.id) FROM product_c p LEFT JOIN category_c c ON c.id = p.category_c" +
				" WHERE ((p.title_c ILIKE '%' || $1::text || '%' OR p.description_c ILIKE '%' || $2::text || '%'))",
			wantArgs: []any{`50\%`, `50\%`},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args, err := buildSelect(tt.entity, tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, sql)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestBuildSelect_ReferenceField(t *testing.T) {
	sql, _, err := buildSelect(records.EntityProduct, records.Query{
		Fields: []records.Field{{Name: "category_c", Reference: "Name"}},
	})
	require.NoError(t, err)
	assert.Contains(t, sql, "'category_c', CASE WHEN c.id IS NULL THEN NULL ELSE jsonb_build_object('Id', c.id, 'Name', "+categoryDisplayName+") END")
}

func TestBuildSelect_Errors(t *testing.T) {
	tests := []struct {
		name    string
		entity  string
		query   records.Query
		wantErr error
	}{
		{name: "unknown entity", entity: "order_c", wantErr: records.ErrUnknownEntity},
		{name: "unknown field", entity: records.EntityProduct, query: records.Query{Fields: records.Select("secret")}, wantErr: records.ErrUnknownField},
		{name: "unknown where field", entity: records.EntityCategory, query: records.Query{Where: []records.Condition{records.Where("price_c", records.EqualTo, 1)}}, wantErr: records.ErrUnknownField},
		{name: "unknown order field", entity: records.EntityProduct, query: records.Query{OrderBy: []records.Order{{Field: "category_c"}}}, wantErr: records.ErrUnknownField},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := buildSelect(tt.entity, tt.query)
			require.ErrorIs(t, err, tt.wantErr)
		})
	}

	_, _, err := buildSelect(records.EntityProduct, records.Query{Where: []records.Condition{{Field: "Id", Operator: records.EqualTo}}})
	require.Error(t, err)
	_, _, err = buildSelect(records.EntityProduct, records.Query{Where: []records.Condition{records.Where("Id", "Between", 1)}})
	require.Error(t, err)
}

func TestSizeStockJSON(t *testing.T) {
	assert.Nil(t, sizeStockJSON(product.SizeStockField{}))
	assert.JSONEq(t, `"{\"S\":2}"`, string(sizeStockJSON(product.SizeStockFromText(`{"S":2}`))))
	assert.JSONEq(t, `{"M":3}`, string(sizeStockJSON(product.SizeStockFromMap(map[string]int{"M": 3}))))
}

func TestDecodeCategoryRow(t *testing.T) {
	c, err := DecodeCategoryRow([]byte(`{"Id":2,"Name":"Kids Clothing","id_c":"kids-clothing","name_c":"Kids Clothing","icon_c":"Shirt","extra":[1]}`))
	require.NoError(t, err)
	assert.Equal(t, CategoryRow{ID: 2, Name: "Kids Clothing", Key: "kids-clothing", DisplayName: "Kids Clothing", Icon: "Shirt"}, c)

	_, err = DecodeCategoryRow([]byte(`[]`))
	require.Error(t, err)
}
