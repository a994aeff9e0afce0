package postgres

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/xenking/storefront/internal/domain/product"
)

const (
	upsertCategorySQL = `INSERT INTO category_c (id, name, id_c, name_c, icon_c)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name, id_c = EXCLUDED.id_c,
			name_c = EXCLUDED.name_c, icon_c = EXCLUDED.icon_c`

	upsertProductSQL = `INSERT INTO product_c (id, name, title_c, price_c, sale_price_c, image_c,
			category_c, subcategory_c, description_c, size_recommendation_c,
			in_stock_c, stock_level_c, size_stock_c)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name, title_c = EXCLUDED.title_c,
			price_c = EXCLUDED.price_c, sale_price_c = EXCLUDED.sale_price_c,
			image_c = EXCLUDED.image_c, category_c = EXCLUDED.category_c,
			subcategory_c = EXCLUDED.subcategory_c, description_c = EXCLUDED.description_c,
			size_recommendation_c = EXCLUDED.size_recommendation_c,
			in_stock_c = EXCLUDED.in_stock_c, stock_level_c = EXCLUDED.stock_level_c,
			size_stock_c = EXCLUDED.size_stock_c`

	resetSequencesSQL = `
		SELECT setval(pg_get_serial_sequence('category_c', 'id'), COALESCE((SELECT MAX(id) FROM category_c), 0) + 1, false);
		SELECT setval(pg_get_serial_sequence('product_c', 'id'), COALESCE((SELECT MAX(id) FROM product_c), 0) + 1, false);`
)

// CategoryRow is a category record as stored.
type CategoryRow struct {
	ID          int64
	Name        string
	Key         string
	DisplayName string
	Icon        string
}

// DecodeCategoryRow decodes a category record in the data service shape.
func DecodeCategoryRow(data []byte) (CategoryRow, error) {
	var c CategoryRow
	err := jx.DecodeBytes(data).ObjBytes(func(d *jx.Decoder, key []byte) error {
		var err error
		switch string(key) {
		case "Id":
			c.ID, err = d.Int64()
		case "Name":
			c.Name, err = d.Str()
		case "id_c":
			c.Key, err = d.Str()
		case "name_c":
			c.DisplayName, err = d.Str()
		case "icon_c":
			c.Icon, err = d.Str()
		default:
			return d.Skip()
		}
		return err
	})
	if err != nil {
		return CategoryRow{}, errors.Wrap(err, "decode category row")
	}
	return c, nil
}

// Seeder writes catalog records with fixed ids.
type Seeder struct {
	pool *pgxpool.Pool
}

// NewSeeder returns a Seeder that uses the given pool.
func NewSeeder(pool *pgxpool.Pool) *Seeder {
	return &Seeder{pool: pool}
}

// UpsertCategory inserts or replaces a category.
func (s *Seeder) UpsertCategory(ctx context.Context, c CategoryRow) error {
	if _, err := s.pool.Exec(ctx, upsertCategorySQL, c.ID, c.Name, c.Key, c.DisplayName, c.Icon); err != nil {
		return errors.Wrapf(err, "upsert category %d", c.ID)
	}
	return nil
}

// UpsertProduct inserts or replaces a product. The size stock keeps its
// stored shape: text stays a JSON string, an object stays an object.
func (s *Seeder) UpsertProduct(ctx context.Context, p product.RawProduct) error {
	var categoryID any
	if p.Category.ID != 0 {
		categoryID = p.Category.ID
	}
	if _, err := s.pool.Exec(ctx, upsertProductSQL,
		p.ID, p.Name, p.Title, p.Price, p.SalePrice, p.Image,
		categoryID, p.Subcategory, p.Description, p.SizeRecommendation,
		p.InStock, p.StockLevel, sizeStockJSON(p.SizeStock),
	); err != nil {
		return errors.Wrapf(err, "upsert product %d", p.ID)
	}
	return nil
}

// ResetSequences moves the id sequences past the seeded ids.
func (s *Seeder) ResetSequences(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, resetSequencesSQL); err != nil {
		return errors.Wrap(err, "reset sequences")
	}
	return nil
}

// sizeStockJSON renders the field for a jsonb column; nil stores NULL.
func sizeStockJSON(f product.SizeStockField) []byte {
	var e jx.Encoder
	switch f.Kind {
	case product.SizeStockText:
		e.Str(f.Text)
	case product.SizeStockObject:
		e.ObjStart()
		for size, n := range f.Object {
			e.FieldStart(size)
			e.Int(n)
		}
		e.ObjEnd()
	default:
		return nil
	}
	return e.Bytes()
}
