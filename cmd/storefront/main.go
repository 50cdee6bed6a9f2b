package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fjod/go_cart/storefront/internal/catalog"
	"github.com/fjod/go_cart/storefront/internal/config"
	"github.com/fjod/go_cart/storefront/internal/events"
	h "github.com/fjod/go_cart/storefront/internal/http"
	"github.com/fjod/go_cart/storefront/internal/session"
	"github.com/fjod/go_cart/storefront/internal/storage"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg.LogMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	ctx := context.Background()

	store, closeStore, err := openStorage(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to open storage", zap.String("backend", cfg.StorageBackend), zap.Error(err))
	}
	defer closeStore()

	products, err := catalog.LoadFile(cfg.CatalogPath)
	if err != nil {
		logger.Fatal("failed to load catalog", zap.String("path", cfg.CatalogPath), zap.Error(err))
	}
	logger.Info("catalog loaded", zap.Int("products", products.Len()))

	bus := events.NewBus()
	notifiers := events.Multi{bus}

	var publisher *events.KafkaPublisher
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewKafkaPublisher(logger, cfg.KafkaBrokers...)
		notifiers = append(notifiers, publisher)
	}

	sessions := session.NewRegistry(store, notifiers, cfg.Policy(), logger)

	sweepCtx, stopSweeper := context.WithCancel(ctx)
	defer stopSweeper()
	go sessions.RunSweeper(sweepCtx, cfg.SessionSweepInterval, cfg.SessionIdleTTL)

	consumerCtx, stopConsumer := context.WithCancel(ctx)
	defer stopConsumer()
	var consumer *events.CheckoutConsumer
	if len(cfg.KafkaBrokers) > 0 {
		consumer = events.NewCheckoutConsumer(sessions, logger, cfg.KafkaBrokers...)
		go consumer.Run(consumerCtx)
		logger.Info("checkout consumer started", zap.Strings("brokers", cfg.KafkaBrokers))
	}

	router := h.NewRouter(h.RouterConfig{
		Sessions:           sessions,
		Catalog:            products,
		Bus:                bus,
		Fees:               cfg.Fees(),
		Log:                logger,
		RequestTimeout:     cfg.RequestTimeout,
		MaxRequestBodySize: cfg.MaxRequestBodySize,
		KeepAlive:          cfg.EventsKeepAlive,
		Storage:            storageHealth(store),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(router, "storefront"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("storefront starting", zap.String("port", cfg.HTTPPort), zap.String("storage", cfg.StorageBackend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(ctx, cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}

	stopSweeper()
	stopConsumer()
	if consumer != nil {
		consumer.Close()
	}
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			logger.Warn("failed to close kafka publisher", zap.Error(err))
		}
	}

	logger.Info("server exited")
}

func newLogger(mode string) (*zap.Logger, error) {
	if mode == "prod" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// openStorage connects the configured backend. Remote backends sit behind a
// circuit breaker so a dead server fails requests fast.
func openStorage(ctx context.Context, cfg *config.Config, logger *zap.Logger) (storage.Store, func(), error) {
	switch cfg.StorageBackend {
	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, fmt.Errorf("redis ping: %w", err)
		}
		logger.Info("connected to redis", zap.String("addr", cfg.RedisAddr))
		store := storage.NewBreaker("redis", storage.NewRedisStore(client, cfg.SlotRetention))
		return store, func() { client.Close() }, nil

	case config.BackendMongo:
		db, err := storage.OpenMongo(ctx, storage.MongoOptions{
			URI:            cfg.MongoURI,
			Database:       cfg.MongoDatabase,
			ConnectTimeout: cfg.MongoConnectTimeout,
			MaxPoolSize:    cfg.MongoMaxPoolSize,
		})
		if err != nil {
			return nil, nil, err
		}
		mongoStore := storage.NewMongoStore(db)
		if err := mongoStore.CreateIndexes(ctx, cfg.SlotRetention); err != nil {
			db.Client().Disconnect(ctx)
			return nil, nil, err
		}
		logger.Info("connected to mongodb", zap.String("database", cfg.MongoDatabase))
		return storage.NewBreaker("mongo", mongoStore), func() { db.Client().Disconnect(context.Background()) }, nil

	default:
		logger.Warn("using in-memory storage; state is lost on restart")
		return storage.NewMemoryStore(), func() {}, nil
	}
}

func storageHealth(st storage.Store) h.StorageHealth {
	if b, ok := st.(*storage.Breaker); ok {
		return b
	}
	return nil
}
