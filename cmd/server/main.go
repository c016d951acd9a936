package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/kobina/pos-cart-service/internal/application/session"
	"github.com/kobina/pos-cart-service/internal/config"
	"github.com/kobina/pos-cart-service/internal/infrastructure/http/server"
	"github.com/kobina/pos-cart-service/internal/infrastructure/monitoring"
	"github.com/kobina/pos-cart-service/internal/infrastructure/persistence/postgres"
	"github.com/kobina/pos-cart-service/internal/infrastructure/persistence/redis"
	"github.com/kobina/pos-cart-service/internal/infrastructure/refresher"
	"github.com/kobina/pos-cart-service/internal/pkg/clock"
	"github.com/kobina/pos-cart-service/internal/pkg/generator"
	"github.com/kobina/pos-cart-service/internal/pkg/logging"
)

func main() {
	configPath := flag.String("config", "config.json", "Path to configuration file")
	flag.Parse()

	// Money and stock figures serialize as JSON numbers, not strings.
	decimal.MarshalJSONWithoutQuotes = true

	cfg, configErr := config.LoadConfig(*configPath)
	if configErr != nil {
		panic(configErr)
	}

	log := logging.MustNewLogger("pos-cart-service", cfg.Server.Env)
	defer log.Sync()
	log.Info("Starting POS cart service")

	db, dbErr := postgres.NewConnection(cfg.Database)
	if dbErr != nil {
		log.Fatal("Failed to connect to database", zap.Error(dbErr))
	}
	defer db.Close()

	if migrationErr := postgres.RunMigrations(cfg.Database, log); migrationErr != nil {
		log.Fatal("Failed to run migrations", zap.Error(migrationErr))
	}

	redisConn, err := redis.NewConnection(cfg.Redis)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisConn.Close()

	dbMetricsCollector := monitoring.NewDBMetricsCollector(db.GetDB())
	dbMetricsCollector.StartCollecting(context.Background(), 30*time.Second)

	productSource := postgres.NewProductSource(db)
	snapshotCache := redis.NewSnapshotCache(redisConn, 2*cfg.Engine.SnapshotRefreshInterval(), log)
	loader := refresher.NewCachedLoader(productSource, snapshotCache, log)

	registry := redis.NewCategoryRegistry(redisConn)
	filter := redis.NewSubmissionFilter(redisConn)
	sink := monitoring.NewInstrumentedSaleSink(postgres.NewSaleSink(db, filter, log))
	saleReader := postgres.NewSaleReader(db)

	ids := generator.NewIDGenerator()
	store := session.NewStore(session.StoreOptions{
		Clock: clock.NewRealClock(),
		Config: session.Config{
			ClearArmTimeout: cfg.Engine.ClearArmTimeout(),
			MessageTTL:      cfg.Engine.MessageTTL(),
		},
		IdleTimeout:  cfg.Engine.SessionIdleTimeout(),
		Loader:       loader,
		Sink:         sink,
		Registry:     registry,
		NewSessionID: ids.GenerateSessionID,
		NewSaleID:    ids.GenerateClientSaleID,
		Logger:       log,
	})

	snapshotRefresher := refresher.NewSnapshotRefresher(productSource, snapshotCache, cfg.Engine.SnapshotRefreshInterval(), log)

	httpServer := server.NewServer(cfg, server.Dependencies{
		DB:             db.GetDB(),
		RedisConn:      redisConn,
		Store:          store,
		SnapshotLoader: loader,
		Registry:       registry,
		SaleReader:     saleReader,
	}, log)

	metricsServer := monitoring.NewMetricsServer(cfg.Server.MetricsAddr)

	serverCtx, serverStopCtx := context.WithCancel(context.Background())

	go snapshotRefresher.Start(serverCtx)
	store.StartJanitor(serverCtx, time.Minute)

	go func() {
		if err := metricsServer.Start(); err != nil && err != http.ErrServerClosed {
			log.Error("Metrics server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigChan
		shutdownCtx, cancel := context.WithTimeout(serverCtx, 30*time.Second)
		defer cancel()

		log.Info("Shutting down server...")
		snapshotRefresher.Stop()
		if err := metricsServer.Stop(shutdownCtx); err != nil {
			log.Error("Metrics server shutdown error", zap.Error(err))
		}
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error("Server shutdown error", zap.Error(err))
		}

		serverStopCtx()
	}()

	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("Server failed", zap.Error(err))
	}

	<-serverCtx.Done()
	log.Info("Server stopped")
}
