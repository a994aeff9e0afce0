package main

import (
	"bytes"
	"io/fs"
	"testing"
	"testing/fstest"

	pgzip "github.com/klauspost/pgzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xenking/storefront/db"
	"github.com/xenking/storefront/internal/domain/product"
	"github.com/xenking/storefront/internal/storage/postgres"
)

func gzipped(t *testing.T, s string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := pgzip.NewWriter(&buf)
	_, err := w.Write([]byte(s))
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return buf.Bytes()
}

func collect(t *testing.T, catalog fs.FS, name string) []string {
	t.Helper()
	var out []string
	require.NoError(t, eachRecord(catalog, name, func(raw []byte) error {
		out = append(out, string(raw))
		return nil
	}))
	return out
}

func TestEachRecord(t *testing.T) {
	catalog := fstest.MapFS{
		categoriesFile:       {Data: []byte(`[{"Id":1},{"Id":2,"Name":"Toys"}]`)},
		productsFile + ".gz": {Data: gzipped(t, `[{"Id":7}]`)},
		"broken.json":        {Data: []byte(`{"Id":1}`)},
	}

	assert.Equal(t, []string{`{"Id":1}`, `{"Id":2,"Name":"Toys"}`}, collect(t, catalog, categoriesFile))
	assert.Equal(t, []string{`{"Id":7}`}, collect(t, catalog, productsFile))

	err := eachRecord(catalog, "broken.json", func([]byte) error { return nil })
	assert.ErrorContains(t, err, "expected a JSON array")

	err = eachRecord(catalog, "missing.json", func([]byte) error { return nil })
	assert.ErrorContains(t, err, "open missing.json.gz")
}

func TestEmbeddedCatalog(t *testing.T) {
	catalog, err := fs.Sub(db.Seed, "seed")
	require.NoError(t, err)

	var categories []postgres.CategoryRow
	require.NoError(t, eachRecord(catalog, categoriesFile, func(raw []byte) error {
		c, err := postgres.DecodeCategoryRow(raw)
		categories = append(categories, c)
		return err
	}))
	require.Len(t, categories, 6)
	assert.Equal(t, "Kids Clothing", categories[1].Name)

	seen := map[int64]bool{}
	require.NoError(t, eachRecord(catalog, productsFile, func(raw []byte) error {
		p, err := product.DecodeRaw(raw)
		if err != nil {
			return err
		}
		assert.False(t, seen[p.ID], "duplicate id %d", p.ID)
		seen[p.ID] = true
		assert.Positive(t, p.ID)
		assert.NotEmpty(t, p.Title)
		return nil
	}))
	assert.Len(t, seen, 15)
}
