package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	_ "github.com/Skotchmaster/loja/docs"
	"github.com/Skotchmaster/loja/internal/cache"
	"github.com/Skotchmaster/loja/internal/config"
	"github.com/Skotchmaster/loja/internal/events"
	"github.com/Skotchmaster/loja/internal/httpserver"
	"github.com/Skotchmaster/loja/internal/mongorepo"
	"github.com/Skotchmaster/loja/internal/payment"
	"github.com/Skotchmaster/loja/internal/repo"
	"github.com/Skotchmaster/loja/internal/search"
	"github.com/Skotchmaster/loja/internal/service"
	"github.com/Skotchmaster/loja/pkg/db"
	"github.com/Skotchmaster/loja/pkg/logging"
	loggingmw "github.com/Skotchmaster/loja/pkg/middleware/logging"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("notice: .env not loaded, using process environment: %v", err)
	}

	cfg := config.Load()
	logger := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid_config", "error", err)
		os.Exit(1)
	}

	if err := run(cfg, logger); err != nil {
		logger.Error("server_exit", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	initCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	var closers []func() error

	store, closeStore, err := openStore(initCtx, cfg)
	if err != nil {
		return err
	}
	closers = append(closers, closeStore)

	var publisher service.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		if err := events.EnsureTopics(initCtx, cfg.KafkaBrokers[0], service.Topics...); err != nil {
			logger.Warn("kafka_topics_not_created", "error", err)
		}
		prod, err := events.NewProducer(cfg.KafkaBrokers)
		if err != nil {
			return err
		}
		publisher = prod
		closers = append(closers, prod.Close)
	} else {
		logger.Info("kafka_disabled")
	}

	var index service.ProductIndex
	if cfg.ESURL != "" {
		es, err := search.NewClient(initCtx, search.Config{
			URL:      cfg.ESURL,
			User:     cfg.ESUser,
			Password: cfg.ESPassword,
			Index:    cfg.ESIndex,
		})
		if err != nil {
			logger.Warn("search_disabled", "error", err)
		} else {
			index = es
		}
	}

	var productCache service.Cache
	if cfg.RedisAddr != "" {
		rc, err := cache.NewRedisClient(initCtx, cfg.RedisAddr)
		if err != nil {
			logger.Warn("cache_disabled", "error", err)
		} else {
			productCache = rc
			closers = append(closers, rc.Close)
		}
	}

	provider, err := payment.NewStripeProvider(cfg.StripeSecretKey)
	if err != nil {
		return err
	}

	deps := &httpserver.Deps{
		UserHandler: &httpserver.UserHTTP{Svc: &service.UserService{
			Users:               store,
			Events:              publisher,
			JWTSecret:           cfg.JWTSecret,
			TokenTTL:            cfg.TokenTTL,
			AllowRoleOnRegister: cfg.AllowRoleOnRegister,
		}},
		CatalogHandler: &httpserver.CatalogHTTP{Svc: &service.CatalogService{
			Products: store,
			Index:    index,
			Cache:    productCache,
			CacheTTL: cfg.CacheTTL,
			Events:   publisher,
		}},
		CartHandler: &httpserver.CartHTTP{Svc: &service.CartService{
			Carts:    store,
			Products: store,
			Users:    store,
			Events:   publisher,
		}},
		PaymentHandler: &httpserver.PaymentHTTP{Svc: &service.PaymentService{
			Provider:       provider,
			Carts:          store,
			Payments:       store,
			Events:         publisher,
			AmountFromCart: cfg.AmountFromCart,
			PublishableKey: cfg.StripePublishableKey,
		}},
		Store:     store,
		JWTSecret: cfg.JWTSecret,
	}

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = httpserver.ErrorHandler
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(
		middleware.Recover(),
		middleware.RequestID(),
		loggingmw.RequestLogger(logger),
		middleware.CORSWithConfig(middleware.CORSConfig{AllowOrigins: cfg.CORSOrigins}),
	)
	httpserver.Register(e, deps)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           e,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 3 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("http_server_start", "addr", srv.Addr, "store", cfg.StoreDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		if err != nil {
			logger.Error("http_server_error", "error", err)
		}
	case sig := <-quit:
		logger.Info("shutting_down", "signal", sig.String())
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http_server_shutdown_error", "error", err)
	}

	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](); err != nil {
			logger.Warn("close_error", "error", err)
		}
	}
	logger.Info("shutdown_complete")
	return nil
}

func openStore(ctx context.Context, cfg *config.Config) (service.Store, func() error, error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		client, database, err := db.OpenMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, nil, err
		}
		r := mongorepo.New(database)
		if err := r.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, nil, err
		}
		return r, func() error { return client.Disconnect(context.Background()) }, nil
	default:
		gdb, err := db.Open(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		r := repo.New(gdb)
		if cfg.AutoMigrate {
			if err := r.AutoMigrate(ctx); err != nil {
				_ = db.Close(gdb)
				return nil, nil, err
			}
		}
		return r, func() error { return db.Close(gdb) }, nil
	}
}
