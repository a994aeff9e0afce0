package main

import (
	"context"
	"flag"
	"io"
	"io/fs"
	"os"
	"os/signal"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/joho/godotenv"
	pgzip "github.com/klauspost/pgzip"
	"go.uber.org/zap"

	"github.com/xenking/storefront/db"
	"github.com/xenking/storefront/internal/domain/product"
	"github.com/xenking/storefront/internal/storage/postgres"
)

const (
	categoriesFile = "categories.json"
	productsFile   = "products.json"
)

func main() {
	var (
		databaseURL string
		dir         string
	)

	flag.StringVar(&databaseURL, "database-url", "", "PostgreSQL connection URL (or DATABASE_URL env)")
	flag.StringVar(&dir, "dir", "", "directory with categories.json[.gz] and products.json[.gz]; embedded catalog when empty")
	flag.Parse()

	lg, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer func() { _ = lg.Sync() }()

	_ = godotenv.Load()
	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		lg.Fatal("Database URL is required: set --database-url or DATABASE_URL")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	catalog, err := fs.Sub(db.Seed, "seed")
	if err != nil {
		lg.Fatal("Open embedded catalog", zap.Error(err))
	}
	if dir != "" {
		catalog = os.DirFS(dir)
	}

	if err := run(ctx, lg, databaseURL, catalog); err != nil {
		lg.Fatal("Seed failed", zap.Error(err))
	}
	lg.Info("Seed completed")
}

func run(ctx context.Context, lg *zap.Logger, databaseURL string, catalog fs.FS) error {
	lg.Info("Connecting to database")

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		return errors.Wrap(err, "connect to database")
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	seeder := postgres.NewSeeder(pool)
	if err := seedCategories(ctx, lg, seeder, catalog); err != nil {
		return errors.Wrap(err, "seed categories")
	}
	if err := seedProducts(ctx, lg, seeder, catalog); err != nil {
		return errors.Wrap(err, "seed products")
	}
	return seeder.ResetSequences(ctx)
}

func seedCategories(ctx context.Context, lg *zap.Logger, seeder *postgres.Seeder, catalog fs.FS) error {
	return eachRecord(catalog, categoriesFile, func(raw []byte) error {
		c, err := postgres.DecodeCategoryRow(raw)
		if err != nil {
			return err
		}
		if err := seeder.UpsertCategory(ctx, c); err != nil {
			return errors.Wrapf(err, "upsert category %d", c.ID)
		}
		lg.Info("Upserted category", zap.Int64("id", c.ID), zap.String("name", c.Name))
		return nil
	})
}

func seedProducts(ctx context.Context, lg *zap.Logger, seeder *postgres.Seeder, catalog fs.FS) error {
	return eachRecord(catalog, productsFile, func(raw []byte) error {
		p, err := product.DecodeRaw(raw)
		if err != nil {
			return err
		}
		if err := seeder.UpsertProduct(ctx, p); err != nil {
			return errors.Wrapf(err, "upsert product %d", p.ID)
		}
		lg.Info("Upserted product", zap.Int64("id", p.ID), zap.String("title", p.Title))
		return nil
	})
}

// eachRecord calls fn with every element of the JSON array in name, or in
// name.gz when only the compressed file exists.
func eachRecord(catalog fs.FS, name string, fn func(raw []byte) error) error {
	data, err := readFile(catalog, name)
	if err != nil {
		return err
	}
	d := jx.DecodeBytes(data)
	if d.Next() != jx.Array {
		return errors.Errorf("%s: expected a JSON array", name)
	}
	return d.Arr(func(d *jx.Decoder) error {
		raw, err := d.Raw()
		if err != nil {
			return errors.Wrapf(err, "%s: read record", name)
		}
		return fn(raw)
	})
}

func readFile(catalog fs.FS, name string) ([]byte, error) {
	data, err := fs.ReadFile(catalog, name)
	if err == nil {
		return data, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, errors.Wrapf(err, "read %s", name)
	}

	gzName := name + ".gz"
	f, err := catalog.Open(gzName)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", gzName)
	}
	defer func() { _ = f.Close() }()

	gz, err := pgzip.NewReader(f)
	if err != nil {
		return nil, errors.Wrapf(err, "create gzip reader for %s", gzName)
	}
	defer func() { _ = gz.Close() }()

	data, err = io.ReadAll(gz)
	if err != nil {
		return nil, errors.Wrapf(err, "decompress %s", gzName)
	}
	return data, nil
}
