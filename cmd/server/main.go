package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	cartapp "github.com/storefront/backend/internal/application/cart"
	catalogapp "github.com/storefront/backend/internal/application/catalog"
	complaintapp "github.com/storefront/backend/internal/application/complaint"
	couponapp "github.com/storefront/backend/internal/application/coupon"
	identityapp "github.com/storefront/backend/internal/application/identity"
	"github.com/storefront/backend/internal/application/notification"
	orderapp "github.com/storefront/backend/internal/application/order"
	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/infrastructure/auth"
	"github.com/storefront/backend/internal/infrastructure/config"
	"github.com/storefront/backend/internal/infrastructure/event"
	"github.com/storefront/backend/internal/infrastructure/logger"
	"github.com/storefront/backend/internal/infrastructure/mail"
	"github.com/storefront/backend/internal/infrastructure/persistence"
	"github.com/storefront/backend/internal/infrastructure/storage"
	"github.com/storefront/backend/internal/infrastructure/telemetry"
	"github.com/storefront/backend/internal/interfaces/http/handler"
	"github.com/storefront/backend/internal/interfaces/http/middleware"
	"github.com/storefront/backend/internal/interfaces/http/router"
)

var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}
	cfg.Telemetry.ServiceVersion = version

	logCfg := &logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	}
	bootLog, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// OTLP log export needs a logger to report its own setup
	logProvider, err := telemetry.NewLoggerProvider(ctx, cfg.Telemetry, bootLog)
	if err != nil {
		bootLog.Fatal("Failed to initialize log exporter", zap.Error(err))
	}
	log := bootLog
	if logProvider.IsEnabled() {
		if log, err = logger.New(logCfg, logProvider.ZapCore(logger.ParseLevel(cfg.Log.Level))); err != nil {
			bootLog.Fatal("Failed to initialize logger", zap.Error(err))
		}
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting storefront backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	tracerProvider, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	meterProvider, err := telemetry.NewMeterProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}
	metrics, err := telemetry.NewBusinessMetrics(meterProvider.Meter("storefront"))
	if err != nil {
		log.Fatal("Failed to register business metrics", zap.Error(err))
	}

	db, err := persistence.NewDatabase(&cfg.Database,
		persistence.WithQueryLogger(log, logger.MapGormLogLevel(cfg.Log.Level)),
		persistence.WithSlowQueryThreshold(cfg.Telemetry.DBSlowQueryThresh),
		persistence.WithSQLInLogs(!cfg.App.IsProduction()),
	)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	if cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled {
		if err := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfigFrom(cfg.Telemetry, "postgres"), log).Register(db.DB); err != nil {
			log.Warn("Database tracing disabled", zap.Error(err))
		}
	}
	log.Info("Database connected")

	checks := map[string]handler.Pinger{"database": db}

	var sessionStore identity.SessionStore = auth.NewMemorySessionStore()
	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		if redisClient, err = auth.NewRedisClient(cfg.Redis); err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		sessionStore = auth.NewRedisSessionStore(redisClient)
		checks["redis"] = handler.PingFunc(func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		})
		log.Info("Sessions stored in Redis", zap.String("addr", cfg.Redis.Addr()))
	} else {
		log.Warn("Redis disabled, sessions are kept in process memory")
	}

	mailer, err := mail.New(cfg.SMTP, log)
	if err != nil {
		log.Fatal("Failed to configure mailer", zap.Error(err))
	}
	renderer := notification.MustNewRenderer(cfg.App.Name)

	var objects catalogapp.ObjectStorage
	if cfg.Storage.Enabled {
		s3, err := storage.NewS3ObjectStorage(&cfg.Storage,
			storage.WithLogger(log),
			storage.WithPresignExpiration(cfg.Storage.PresignExpiration),
		)
		if err != nil {
			log.Fatal("Failed to configure object storage", zap.Error(err))
		}
		if err := s3.EnsureBucket(ctx); err != nil {
			log.Fatal("Failed to prepare image bucket", zap.Error(err))
		}
		objects = s3
	} else {
		log.Info("Object storage disabled, image uploads are rejected")
	}

	shopperRepo := persistence.NewGormShopperRepository(db.DB)
	merchantRepo := persistence.NewGormMerchantRepository(db.DB)
	itemRepo := persistence.NewGormItemRepository(db.DB)
	cartRepo := persistence.NewGormCartRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	couponRepo := persistence.NewGormCouponRepository(db.DB)
	complaintRepo := persistence.NewGormComplaintRepository(db.DB)

	eventBus := event.NewAsyncEventBus(event.Config{
		Workers:   cfg.Event.Workers,
		QueueSize: cfg.Event.QueueSize,
	}, log)
	eventBus.Subscribe(notification.NewCouponBroadcaster(shopperRepo, mailer, renderer, log).WithMetrics(metrics))
	eventBus.Subscribe(orderapp.NewMetricsHandler(metrics))
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}

	notifier := notification.NewNotifier(mailer, renderer, log).WithMetrics(metrics)
	sessions := identityapp.NewSessionManager(auth.NewJWTService(cfg.JWT), sessionStore, log)

	handlers := router.Handlers{
		Shoppers: handler.NewShopperHandler(
			identityapp.NewShopperService(shopperRepo, sessions, log).WithMetrics(metrics)),
		Merchants: handler.NewMerchantHandler(
			identityapp.NewMerchantService(merchantRepo, sessions, log).WithMetrics(metrics)),
		Catalog: handler.NewCatalogHandler(
			catalogapp.NewItemService(itemRepo, objects, log), cfg.Storage.MaxUploadSize),
		Cart: handler.NewCartHandler(cartapp.NewCartService(cartRepo, itemRepo, log)),
		Orders: handler.NewOrderHandler(
			orderapp.NewOrderService(orderRepo, shopperRepo, itemRepo, cartRepo, notifier, eventBus, log)),
		Coupons:    handler.NewCouponHandler(couponapp.NewCouponService(couponRepo, eventBus, log)),
		Complaints: handler.NewComplaintHandler(complaintapp.NewComplaintService(complaintRepo, notifier, log)),
		Health:     handler.NewHealthHandler(version, checks),
	}

	guards := router.Guards{
		Sessions:    sessions,
		OperatorKey: cfg.Operator.APIKey,
		Logger:      log,
	}
	if cfg.Operator.APIKey == "" {
		log.Warn("Operator API key not set, operator routes are closed")
	}
	if cfg.HTTP.AuthRateLimitEnabled {
		guards.AuthLimiter = middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		go guards.AuthLimiter.Run(ctx)
	}

	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	engineOpts := router.EngineOptions{
		HTTP:          cfg.HTTP,
		ServiceName:   cfg.Telemetry.ServiceName,
		Tracing:       tracerProvider.IsEnabled(),
		MeterProvider: meterProvider,
		Logger:        log,
	}
	if cfg.HTTP.RateLimitEnabled {
		engineOpts.RateLimiter = middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		go engineOpts.RateLimiter.Run(ctx)
	}
	engine := router.NewEngine(engineOpts)
	router.Mount(engine, handlers, guards)

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	// queued coupon broadcasts get their own budget
	drainCtx, drainCancel := context.WithTimeout(context.Background(), cfg.Event.DrainTimeout)
	if err := eventBus.Stop(drainCtx); err != nil {
		log.Error("Event bus did not drain", zap.Error(err))
	}
	drainCancel()

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			log.Error("Error closing Redis", zap.Error(err))
		}
	}
	if err := db.Close(); err != nil {
		log.Error("Error closing database", zap.Error(err))
	}

	for name, shutdown := range map[string]func(context.Context) error{
		"traces":  tracerProvider.Shutdown,
		"metrics": meterProvider.Shutdown,
		"logs":    logProvider.Shutdown,
	} {
		if err := shutdown(shutdownCtx); err != nil {
			log.Error("Telemetry shutdown failed", zap.String("signal", name), zap.Error(err))
		}
	}

	log.Info("Server exited gracefully")
}
