package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/xenking/storefront/internal/domain/cart"
	"github.com/xenking/storefront/internal/domain/category"
	"github.com/xenking/storefront/internal/domain/product"
	"github.com/xenking/storefront/internal/domain/recent"
	"github.com/xenking/storefront/internal/handler"
	"github.com/xenking/storefront/internal/storage/memory"
	"github.com/xenking/storefront/internal/storage/postgres"
	redisstore "github.com/xenking/storefront/internal/storage/redis"
	"github.com/xenking/storefront/pkg/health"
	"github.com/xenking/storefront/pkg/httpmiddleware"
)

const (
	serviceName = "storefront-api"
	keyPrefix   = "storefront:"
)

// sessionStorage is where the cart and the viewing history live.
type sessionStorage struct {
	kv      cart.Storage
	tracker recent.Tracker
	close   func()
}

func openSessionStorage(ctx context.Context, lg *zap.Logger, cfg *Config, hc *health.Health) (*sessionStorage, error) {
	if cfg.RedisURL == "" {
		lg.Warn("Redis URL is not set, cart and history are kept in memory")
		return &sessionStorage{
			kv:      memory.NewKV(),
			tracker: memory.NewTracker(cfg.RecentlyViewedMax),
			close:   func() {},
		}, nil
	}

	client, err := redisstore.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		return nil, errors.Wrap(err, "connect to redis")
	}
	hc.AddReadinessCheck("redis", 2*time.Second, func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	})
	return &sessionStorage{
		kv:      redisstore.NewKV(client, keyPrefix),
		tracker: redisstore.NewTracker(client, keyPrefix+redisstore.RecentlyViewedKey, cfg.RecentlyViewedMax),
		close:   func() { _ = client.Close() },
	}, nil
}

// middlewares is the server chain, outermost first. The logger and request id
// are installed before Recovery so recovered panics are logged with both.
func middlewares(lg *zap.Logger, cfg *Config, tp trace.TracerProvider, mp metric.MeterProvider) []httpmiddleware.Middleware {
	return []httpmiddleware.Middleware{
		httpmiddleware.InjectLogger(lg),
		httpmiddleware.RequestID(),
		httpmiddleware.Recovery(),
		httpmiddleware.CORS(httpmiddleware.CORSConfig{
			AllowOrigins:     cfg.CORS.Origins,
			AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
			AllowHeaders:     []string{"Content-Type", httpmiddleware.HeaderRequestID},
			ExposeHeaders:    []string{httpmiddleware.HeaderRequestID},
			AllowCredentials: cfg.CORS.AllowCredentials,
			MaxAge:           86400,
		}),
		httpmiddleware.Instrument(serviceName, tp, mp, "/livez", "/readyz"),
	}
}

// Run creates all dependencies, starts the HTTP server, and handles graceful
// shutdown. It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing", zap.String("addr", cfg.Addr))

	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return errors.Wrap(err, "create db pool")
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	healthSvc := health.New()
	healthSvc.AddReadinessCheck("postgres", 5*time.Second, health.PingCheck(pool))
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))

	storage, err := openSessionStorage(ctx, lg, cfg, healthSvc)
	if err != nil {
		return err
	}
	defer storage.close()

	fetcher := postgres.NewFetcher(pool)
	products := product.NewService(fetcher, product.WithTracerProvider(m.TracerProvider()))
	categories := category.NewService(fetcher)
	recents := recent.NewService(storage.tracker, products)

	cartStore, err := cart.NewStore(ctx, storage.kv,
		cart.WithKey(cfg.CartKey),
		cart.WithMeterProvider(m.MeterProvider()),
	)
	if err != nil {
		return errors.Wrap(err, "create cart store")
	}
	lg.Info("Cart loaded", zap.Int("items", cartStore.TotalItems()))

	h := handler.New(products, categories, cartStore, recents)

	r := chi.NewRouter()
	r.Get("/livez", healthSvc.LiveEndpoint)
	r.Get("/readyz", healthSvc.ReadyEndpoint)
	r.Mount("/api", h.Routes())

	healthSvc.Start(ctx, 10*time.Second)
	healthSvc.SetReady(true)

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler:           httpmiddleware.Wrap(r, middlewares(zctx.From(ctx), cfg, m.TracerProvider(), m.MeterProvider())...),
	}

	// Graceful shutdown: wait for context cancellation, drain, then stop.
	shutdownDone := make(chan struct{})
	go func() {
		<-ctx.Done()
		healthSvc.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("Server shutdown error", zap.Error(err))
		}
		healthSvc.Stop()
		close(shutdownDone)
	}()

	lg.Info("Server listening", zap.String("addr", cfg.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server")
	}
	<-shutdownDone
	return nil
}
