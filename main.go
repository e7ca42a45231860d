// File: studiobook/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"studiobook/config"
	"studiobook/cron"
	"studiobook/database"
	slotsRepo "studiobook/database/repository/slots"
	slotsqlRepo "studiobook/database/repository/slotsql"
	"studiobook/handlers"
	"studiobook/routes"
	"studiobook/services/availability"
	"studiobook/services/events"
	"studiobook/services/localtime"
	"studiobook/services/schedule"
	"studiobook/services/snapshot"
	"studiobook/utils"
)

const serviceName = "studiobook"

// store is whichever backend STORAGE_DRIVER selected.
type store struct {
	slots    slotsRepo.SlotRepository
	bookings slotsRepo.BookingRepository
	health   utils.HealthCheck
	close    func(ctx context.Context) error
}

func openStore(ctx context.Context, cfg config.Config) (*store, error) {
	switch cfg.StorageDriver {
	case "", "mongo":
		client, err := database.NewMongoClient(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		repo := slotsRepo.NewMongoSlotRepo(client.Database(cfg.DatabaseName))
		if err := repo.EnsureIndexes(ctx); err != nil {
			_ = client.Disconnect(ctx)
			return nil, err
		}
		return &store{
			slots:    repo,
			bookings: repo,
			health:   utils.HealthCheck{Name: "mongo", Check: func(ctx context.Context) error { return client.Ping(ctx, nil) }},
			close:    client.Disconnect,
		}, nil

	case "postgres", "sqlite":
		dsn := cfg.PostgresDSN
		if cfg.StorageDriver == "sqlite" {
			dsn = cfg.SQLitePath
		}
		db, err := database.NewGormDB(cfg.StorageDriver, dsn)
		if err != nil {
			return nil, err
		}
		repo := slotsqlRepo.NewGormSlotRepository(db)
		if err := repo.AutoMigrate(ctx); err != nil {
			return nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		return &store{
			slots:    repo,
			bookings: repo,
			health:   utils.HealthCheck{Name: cfg.StorageDriver, Check: sqlDB.PingContext},
			close:    func(context.Context) error { return sqlDB.Close() },
		}, nil
	}
	return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
}

func main() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger := utils.GetLogger()
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := utils.InitTracing(ctx, serviceName)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize tracing: %v", err)
	}

	loc, err := localtime.LoadLocation(cfg.BusinessTimezone)
	if err != nil {
		logger.Sugar().Fatalf("main: invalid BUSINESS_TIMEZONE: %v", err)
	}
	clock := localtime.New(loc)

	st, err := openStore(ctx, cfg)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to open %s storage: %v", cfg.StorageDriver, err)
	}
	healthChecks := []utils.HealthCheck{st.health}

	// Snapshot cache and warm-up queue.
	var (
		cache       snapshot.SnapshotCache
		warmer      schedule.Enqueuer
		asynqClient *asynq.Client
		redisOpts   asynq.RedisClientOpt
	)
	if cfg.RedisEnabled {
		cacheClient, err := utils.NewRedisClient(cfg.RedisCacheDB)
		if err != nil {
			logger.Sugar().Fatalf("main: %v", err)
		}
		defer cacheClient.Close()
		cache = snapshot.NewRedisSnapshotCache(cacheClient, cfg.SnapshotCacheTTL)
		healthChecks = append(healthChecks, utils.HealthCheck{Name: "redis", Check: func(ctx context.Context) error {
			return cacheClient.Ping(ctx).Err()
		}})
		go cron.MonitorRedisConnection(ctx, cacheClient, logger)

		redisOpts = asynq.RedisClientOpt{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisTaskDB}
		asynqClient = asynq.NewClient(redisOpts)
		defer asynqClient.Close()
		warmer = asynqClient
	} else {
		logger.Warn("Redis disabled, using in-process snapshot cache without warm-up")
		cache = snapshot.NewMemorySnapshotCache(cfg.SnapshotCacheTTL)
	}

	// Change events.
	var publisher events.Publisher = events.NoopPublisher{}
	if brokers := events.SplitBrokers(cfg.KafkaBrokers); len(brokers) > 0 {
		publisher = events.NewKafkaPublisher(brokers, cfg.KafkaSlotsTopic, logger)
	} else {
		logger.Info("KAFKA_BROKERS empty, slot change events disabled")
	}
	defer publisher.Close()

	// services.
	slotRepository := schedule.NewRepository(st.slots, st.bookings, cfg.RepositoryTimeout, logger)
	loader := snapshot.NewLoader(cache, slotRepository, clock, logger)
	availabilityService := availability.NewAvailabilityService(loader, slotRepository, clock, logger)
	coordinator := schedule.NewCoordinator(slotRepository, cache, clock, publisher, warmer, cfg.WarmupWeeks, logger)

	var worker *asynq.Server
	if asynqClient != nil {
		worker = cron.InitWarmupWorker(redisOpts, loader, logger)
	}

	health := utils.NewHealthMonitor(60*time.Second, logger, healthChecks...)
	health.Start(ctx)

	// Create the Gin router.
	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())

	handlerBundle := handlers.NewHandlerBundle(
		handlers.NewAvailabilityHandler(availabilityService),
		handlers.NewScheduleHandler(coordinator),
		health,
	)
	routes.RegisterRoutes(router, handlerBundle, cfg.MaxRequestsPerMin)

	// Start the HTTP server.
	port := cfg.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: otelhttp.NewHandler(router, serviceName),
	}

	logger.Info("Starting server",
		zap.String("addr", srv.Addr),
		zap.String("storage", cfg.StorageDriver),
		zap.String("timezone", loc.String()),
	)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	<-ctx.Done()
	logger.Info("main: server is shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("main: server forced to shutdown", zap.Error(err))
	}
	if worker != nil {
		worker.Shutdown()
	}
	if err := st.close(shutdownCtx); err != nil {
		logger.Warn("main: failed to close storage", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Warn("main: failed to flush traces", zap.Error(err))
	}

	logger.Info("main: server stopped gracefully")
}
