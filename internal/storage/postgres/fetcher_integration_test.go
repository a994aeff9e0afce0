//go:build integration

package postgres

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/xenking/storefront/internal/domain/category"
	"github.com/xenking/storefront/internal/domain/product"
	"github.com/xenking/storefront/internal/records"
)

func startPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	ctr, err := testcontainers.Run(ctx, "postgres:16-alpine",
		testcontainers.WithExposedPorts("5432/tcp"),
		testcontainers.WithEnv(map[string]string{
			"POSTGRES_USER":     "storefront",
			"POSTGRES_PASSWORD": "storefront",
			"POSTGRES_DB":       "storefront",
		}),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
		),
	)
	testcontainers.CleanupContainer(t, ctr)
	require.NoError(t, err)

	host, err := ctr.Host(ctx)
	require.NoError(t, err)
	port, err := ctr.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	pool, err := NewPool(ctx, fmt.Sprintf("postgres://storefront:storefront@%s:%s/storefront?sslmode=disable", host, port.Port()))
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, RunMigrations(ctx, pool))
	return pool
}

func seedCatalog(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	ctx := context.Background()
	s := NewSeeder(pool)

	for _, c := range []CategoryRow{
		{ID: 1, Name: "Toys", Key: "toys", DisplayName: "Toys", Icon: "Gamepad2"},
		{ID: 2, Name: "Kids Clothing", Key: "kids-clothing", DisplayName: "Kids Clothing", Icon: "Shirt"},
	} {
		require.NoError(t, s.UpsertCategory(ctx, c))
	}

	for _, id := range []int64{1, 2, 3, 4, 5, 6, 20} {
		cat := product.CategoryRef{ID: 2}
		if id > 4 {
			cat = product.CategoryRef{ID: 1}
		}
		p := product.RawProduct{
			ID:         id,
			Title:      fmt.Sprintf("Item %d", id),
			Price:      decimal.NewFromInt(10 * id),
			Image:      fmt.Sprintf("img/%d.jpg", id),
			Category:   cat,
			StockLevel: int(id),
			SizeStock:  product.SizeStockFromText(`{"S":2}`),
		}
		require.NoError(t, s.UpsertProduct(ctx, p))
	}
	require.NoError(t, s.ResetSequences(ctx))
}

func TestFetcher_Integration(t *testing.T) {
	pool := startPostgres(t)
	seedCatalog(t, pool)
	ctx := context.Background()
	f := NewFetcher(pool)

	t.Run("get record", func(t *testing.T) {
		products := product.NewService(f)
		p, err := products.Get(ctx, 3)
		require.NoError(t, err)
		assert.Equal(t, "Item 3", p.Title)
		assert.Equal(t, "Kids Clothing", p.Category)
		assert.Equal(t, map[string]int{"S": 2}, p.SizeStock)
		assert.Equal(t, product.LowStock, p.StockStatus)

		_, err = products.Get(ctx, 99)
		require.ErrorIs(t, err, product.ErrNotFound)
	})

	t.Run("related", func(t *testing.T) {
		// Item 2 costs 20: the band is [10, 30] within Kids Clothing.
		got := product.NewService(f).Related(ctx, 2, 6)
		var ids []int64
		for _, p := range got {
			ids = append(ids, p.ID)
		}
		assert.Equal(t, []int64{1, 3}, ids)
	})

	t.Run("complementary", func(t *testing.T) {
		products := product.NewService(f)

		// Curated pairing of 5 is {3, 6, 8}; 8 is not seeded.
		var ids []int64
		for _, p := range products.Complementary(ctx, 5, 4) {
			ids = append(ids, p.ID)
		}
		assert.Equal(t, []int64{3, 6}, ids)

		// 20 has no pairing and falls back to other categories.
		got := products.Complementary(ctx, 20, 4)
		require.Len(t, got, 4)
		for _, p := range got {
			assert.Equal(t, "Kids Clothing", p.Category)
		}
	})

	t.Run("search", func(t *testing.T) {
		got := product.NewService(f).Search(ctx, "item 6")
		require.Len(t, got, 1)
		assert.Equal(t, int64(6), got[0].ID)
	})

	t.Run("categories", func(t *testing.T) {
		cats := category.NewService(f)
		all := cats.All(ctx)
		require.Len(t, all, 2)
		assert.True(t, all[1].HasChildren())

		c, err := cats.ByParentOf(ctx, "Teen (8+)")
		require.NoError(t, err)
		assert.Equal(t, int64(2), c.ID)
	})

	t.Run("unknown entity is unsuccessful", func(t *testing.T) {
		resp, err := f.FetchRecords(ctx, "order_c", records.Query{})
		require.NoError(t, err)
		assert.False(t, resp.Success)
		assert.NotEmpty(t, resp.Message)
	})
}

func TestPool_DecimalCodecAndIdempotentSchema(t *testing.T) {
	pool := startPostgres(t)
	ctx := context.Background()

	require.NoError(t, RunMigrations(ctx, pool))

	var got decimal.Decimal
	require.NoError(t, pool.QueryRow(ctx, "SELECT $1::numeric(12,2) * 2", decimal.RequireFromString("10.25")).Scan(&got))
	assert.True(t, decimal.RequireFromString("20.50").Equal(got), got.String())
}
