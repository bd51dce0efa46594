package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	appordering "github.com/retailportal/backend/internal/application/ordering"
	"github.com/retailportal/backend/internal/domain/erp"
	"github.com/retailportal/backend/internal/infrastructure/auth"
	"github.com/retailportal/backend/internal/infrastructure/config"
	"github.com/retailportal/backend/internal/infrastructure/linnworks"
	"github.com/retailportal/backend/internal/infrastructure/logger"
	"github.com/retailportal/backend/internal/infrastructure/persistence"
	"github.com/retailportal/backend/internal/infrastructure/scheduler"
	"github.com/retailportal/backend/internal/interfaces/http/handler"
	"github.com/retailportal/backend/internal/interfaces/http/middleware"
	"github.com/retailportal/backend/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting retail portal backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database connection with zap-backed GORM logging
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// The ERP session token is cached in Redis when available so that
	// replicas share one Linnworks session. Without Redis each process
	// keeps its own token in memory.
	var tokenStore linnworks.TokenStore
	if cfg.Redis.Enabled() {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer func() {
			if err := redisClient.Close(); err != nil {
				log.Error("Error closing redis client", zap.Error(err))
			}
		}()
		tokenStore = linnworks.NewRedisTokenStore(redisClient, "linnworks:session")
		log.Info("Redis token store enabled", zap.String("addr", cfg.Redis.Addr()))
	} else {
		tokenStore = linnworks.NewMemoryTokenStore()
	}

	// ERP client: real Linnworks API or the offline mock, chosen once at
	// startup from config.
	var erpClient erp.Client
	if cfg.Linnworks.UseMock() {
		erpClient = linnworks.NewMockClient(log)
		log.Warn("Linnworks credentials not configured, using mock ERP client")
	} else {
		client, err := linnworks.NewClient(cfg.Linnworks, tokenStore, log)
		if err != nil {
			log.Fatal("Failed to initialize Linnworks client", zap.Error(err))
		}
		erpClient = client
	}

	// Repositories
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	retailerRepo := persistence.NewGormRetailerRepository(db.DB)
	skuRepo := persistence.NewGormSKURepository(db.DB)

	// Application services
	validator := appordering.NewValidator(cfg.Ordering)
	payloadBuilder := linnworks.NewPayloadBuilder(cfg.Ordering)
	syncService := appordering.NewSyncService(orderRepo, retailerRepo, skuRepo, erpClient, payloadBuilder, log)
	orderService := appordering.NewOrderService(orderRepo, retailerRepo, skuRepo, validator, syncService, cfg.Ordering, log)
	webhookService := appordering.NewWebhookService(orderRepo, log)
	reconcileService := appordering.NewReconcileService(orderRepo, erpClient, log)

	// HTTP handlers
	orderHandler := handler.NewOrderHandler(orderService)
	webhookHandler := handler.NewWebhookHandler(webhookService)
	syncHandler := handler.NewSyncHandler(reconcileService, cfg.Sync)
	healthHandler := handler.NewHealthHandler(db.DB)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.CORSWithConfig(middleware.DefaultCORSConfig()))

	// Liveness and readiness live outside the versioned API
	engine.GET("/health", healthHandler.Health)
	engine.GET("/ready", healthHandler.Ready)

	// Each route group carries its own auth chain: retailer endpoints
	// take portal bearer tokens, the webhook and sync endpoints take
	// shared secrets.
	verifier := auth.NewTokenVerifier(cfg.JWT)
	retailerAuth := middleware.RetailerAuth(verifier, cfg.JWT.Secret != "", log)

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register([]gin.HandlerFunc{retailerAuth}, orderHandler).
		Register([]gin.HandlerFunc{middleware.SharedSecret(cfg.Webhook.Secret)}, webhookHandler).
		Register([]gin.HandlerFunc{middleware.SharedSecret(cfg.Sync.Secret)}, syncHandler)
	r.Setup()

	// Background reconciliation trigger
	if cfg.Sync.Enabled {
		trigger := scheduler.NewReconcileTrigger(cfg.Sync, reconcileService, log)
		if err := trigger.Start(context.Background()); err != nil {
			log.Fatal("Failed to start reconcile trigger", zap.Error(err))
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := trigger.Stop(stopCtx); err != nil {
				log.Error("Error stopping reconcile trigger", zap.Error(err))
			}
		}()
		log.Info("Reconcile trigger started", zap.Duration("interval", cfg.Sync.Interval))
	}

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
