package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	availabilityapp "github.com/comercial/backend/internal/application/availability"
	inventoryapp "github.com/comercial/backend/internal/application/inventory"
	"github.com/comercial/backend/internal/infrastructure/cache"
	"github.com/comercial/backend/internal/infrastructure/config"
	"github.com/comercial/backend/internal/infrastructure/event"
	"github.com/comercial/backend/internal/infrastructure/logger"
	"github.com/comercial/backend/internal/infrastructure/persistence"
	"github.com/comercial/backend/internal/infrastructure/scheduler"
	"github.com/comercial/backend/internal/interfaces/http/handler"
	"github.com/comercial/backend/internal/interfaces/http/middleware"
	"github.com/comercial/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting inventory engine",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
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

	// Initialize repositories
	productRepo := persistence.NewGormProductRepository(db.DB)
	comboRepo := persistence.NewGormComboDefinitionRepository(db.DB)
	stockRepo := persistence.NewGormStockRecordRepository(db.DB)
	reservationRepo := persistence.NewGormReservationRepository(db.DB)
	movementRepo := persistence.NewGormStockMovementRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Initialize application services
	ledgerService := inventoryapp.NewStockLedgerService(stockRepo, movementRepo, txScope)
	reservationService := inventoryapp.NewReservationService(
		reservationRepo, stockRepo, txScope, cfg.Inventory.DefaultReservationTTL,
	)
	expirationService := inventoryapp.NewReservationExpirationService(
		reservationRepo, reservationService, log,
	)
	expirationService.SetBatchSize(cfg.Inventory.ExpirationBatchSize)

	capacityCalculator := availabilityapp.NewCapacityCalculator(productRepo, comboRepo, stockRepo)
	availabilityService := availabilityapp.NewAvailabilityService(
		productRepo, stockRepo, capacityCalculator, ledgerService, reservationService, log,
	)

	// Idempotency store for reservation deduplication
	idempotencyStore, err := cache.NewIdempotencyStore(cfg.Cache, cfg.Redis, log)
	if err != nil {
		log.Fatal("Failed to initialize idempotency store", zap.Error(err))
	}
	defer func() {
		if err := idempotencyStore.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}()
	availabilityService.SetIdempotencyStore(idempotencyStore)

	// Initialize event bus and handlers
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(event.NewLowStockAlertHandler(log))

	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Inject event bus into services that publish events
	ledgerService.SetEventPublisher(eventBus)
	reservationService.SetEventPublisher(eventBus)

	// Background sweep of overdue reservations
	if cfg.Inventory.SweeperEnabled {
		sweeper := scheduler.NewExpirationSweeper(scheduler.ExpirationSweeperConfig{
			Interval: cfg.Inventory.SweepInterval,
		}, expirationService, log)
		if err := sweeper.Start(context.Background()); err != nil {
			log.Fatal("Failed to start expiration sweeper", zap.Error(err))
		}
		defer func() {
			if err := sweeper.Stop(context.Background()); err != nil {
				log.Error("Error stopping expiration sweeper", zap.Error(err))
			}
		}()
		log.Info("Expiration sweeper started",
			zap.Duration("interval", cfg.Inventory.SweepInterval),
			zap.Int("batch_size", cfg.Inventory.ExpirationBatchSize),
		)
	}

	// Initialize HTTP handlers
	stockHandler := handler.NewStockHandler(ledgerService)
	reservationHandler := handler.NewReservationHandler(reservationService)
	availabilityHandler := handler.NewAvailabilityHandler(availabilityService, capacityCalculator)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware order: request ID first so recovery and access logs carry it
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	if len(cfg.HTTP.CORSAllowMethods) > 0 {
		corsConfig.AllowMethods = cfg.HTTP.CORSAllowMethods
	}
	if len(cfg.HTTP.CORSAllowHeaders) > 0 {
		corsConfig.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db))

	// API routes
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	stockRoutes := router.NewDomainGroup("stock", "/stock")
	stockRoutes.GET("", stockHandler.GetStock)
	stockRoutes.POST("/adjust", stockHandler.AdjustStock)
	stockRoutes.POST("/count", stockHandler.SetStockCount)
	stockRoutes.POST("/threshold", stockHandler.SetThreshold)
	stockRoutes.GET("/:id/movements", stockHandler.ListMovements)

	productRoutes := router.NewDomainGroup("products", "/products")
	productRoutes.GET("/:id/stock", stockHandler.GetStockByProduct)

	warehouseRoutes := router.NewDomainGroup("warehouses", "/warehouses")
	warehouseRoutes.GET("/:id/stock", stockHandler.ListByWarehouse)
	warehouseRoutes.GET("/:id/low-stock", stockHandler.ListBelowThreshold)

	reservationRoutes := router.NewDomainGroup("reservations", "/reservations")
	reservationRoutes.POST("", reservationHandler.Reserve)
	reservationRoutes.GET("", reservationHandler.List)
	reservationRoutes.GET("/by-source", reservationHandler.ListBySource)
	reservationRoutes.POST("/release-by-source", reservationHandler.ReleaseBySource)
	reservationRoutes.GET("/:id", reservationHandler.GetByID)
	reservationRoutes.POST("/:id/consume", reservationHandler.Consume)
	reservationRoutes.POST("/:id/release", reservationHandler.Release)

	availabilityRoutes := router.NewDomainGroup("availability", "/availability")
	availabilityRoutes.GET("", availabilityHandler.Check)
	availabilityRoutes.POST("/reserve", availabilityHandler.ReserveForOrder)

	comboRoutes := router.NewDomainGroup("combos", "/combos")
	comboRoutes.GET("/:id/capacity", availabilityHandler.ComboCapacity)

	r.Register(stockRoutes).
		Register(productRoutes).
		Register(warehouseRoutes).
		Register(reservationRoutes).
		Register(availabilityRoutes).
		Register(comboRoutes)
	r.Setup()

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
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

// healthHandler reports process and database health
func healthHandler(db *persistence.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
