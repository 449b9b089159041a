package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	billingapp "github.com/tailor/backend/internal/application/billing"
	customerapp "github.com/tailor/backend/internal/application/customer"
	"github.com/tailor/backend/internal/application/document"
	inventoryapp "github.com/tailor/backend/internal/application/inventory"
	appnotif "github.com/tailor/backend/internal/application/notification"
	orderapp "github.com/tailor/backend/internal/application/order"
	paymentapp "github.com/tailor/backend/internal/application/payment"
	workshopapp "github.com/tailor/backend/internal/application/workshop"
	"github.com/tailor/backend/internal/infrastructure/cache"
	"github.com/tailor/backend/internal/infrastructure/config"
	"github.com/tailor/backend/internal/infrastructure/event"
	"github.com/tailor/backend/internal/infrastructure/logger"
	"github.com/tailor/backend/internal/infrastructure/notification"
	"github.com/tailor/backend/internal/infrastructure/persistence"
	"github.com/tailor/backend/internal/infrastructure/printing"
	"github.com/tailor/backend/internal/infrastructure/scheduler"
	"github.com/tailor/backend/internal/interfaces/http/handler"
	"github.com/tailor/backend/internal/interfaces/http/middleware"
	"github.com/tailor/backend/internal/interfaces/http/router"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting tailor shop backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Database
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
	log.Info("Database connected")

	// Repositories
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	materialRepo := persistence.NewGormMaterialRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	loyaltyEntryRepo := persistence.NewGormLoyaltyEntryRepository(db.DB)
	referralRepo := persistence.NewGormReferralRepository(db.DB)
	couponRepo := persistence.NewGormCouponRepository(db.DB)
	installmentRepo := persistence.NewGormInstallmentRepository(db.DB)
	paymentTxRepo := persistence.NewGormPaymentTransactionRepository(db.DB)
	reminderRepo := persistence.NewGormReminderRepository(db.DB)
	workerRepo := persistence.NewGormWorkerRepository(db.DB)
	taskRepo := persistence.NewGormWorkTaskRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Event bus with an audit trail of order lifecycle events
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(event.NewAuditLogHandler(log))

	// Summary cache: Redis when enabled, in-process otherwise
	var summaryCache orderapp.SummaryCache
	if cfg.Redis.Enabled {
		redisCache, err := cache.NewRedisSummaryCache(cache.RedisOptions{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		}, 0, log)
		if err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() {
			if err := redisCache.Close(); err != nil {
				log.Error("Error closing Redis", zap.Error(err))
			}
		}()
		summaryCache = redisCache
		log.Info("Redis summary cache enabled", zap.String("addr", cfg.Redis.Addr()))
	} else {
		summaryCache = cache.NewInMemorySummaryCache(0)
	}

	// Invoice renderer: headless Chrome when enabled, disabled renderer
	// logs a warning per completion otherwise
	var invoiceRenderer document.InvoiceRenderer
	if cfg.Invoice.Enabled {
		chromeRenderer, err := printing.NewChromedpRenderer(&printing.ChromedpConfig{
			Timeout:   cfg.Invoice.RenderTimeout,
			NoSandbox: true,
			Logger:    log,
		})
		if err != nil {
			log.Fatal("Failed to initialize invoice renderer", zap.Error(err))
		}
		defer func() {
			_ = chromeRenderer.Close()
		}()
		invoiceRenderer = chromeRenderer
	}

	// Notification gateway. The log gateway stands in until a real
	// SMS/WhatsApp/email provider is wired in.
	var notifier appnotif.Gateway = notification.NewLogGateway(log)

	// Application services
	orderService := orderapp.NewService(txScope, orderRepo, customerRepo, notifier, invoiceRenderer, summaryCache, eventBus, log)
	paymentService := paymentapp.NewService(txScope, installmentRepo, paymentTxRepo, reminderRepo, orderRepo, customerRepo, notifier, log)
	couponService := billingapp.NewService(couponRepo, log)
	customerService := customerapp.NewService(txScope, customerRepo, loyaltyEntryRepo, referralRepo, log)
	workerService := workshopapp.NewService(workerRepo, taskRepo, orderRepo, log)
	materialService := inventoryapp.NewService(txScope, materialRepo, log)

	// Reminder scheduler
	reminderScheduler := scheduler.NewReminderScheduler(paymentService, log, scheduler.ReminderSchedulerConfig{
		Enabled:       cfg.Reminder.Enabled,
		SweepInterval: cfg.Reminder.SweepInterval,
		SweepTimeout:  cfg.Reminder.SweepTimeout,
	})
	if err := reminderScheduler.Start(context.Background()); err != nil {
		log.Fatal("Failed to start reminder scheduler", zap.Error(err))
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := reminderScheduler.Stop(stopCtx); err != nil {
			log.Error("Error stopping reminder scheduler", zap.Error(err))
		}
	}()

	// HTTP handlers
	orderHandler := handler.NewOrderHandler(orderService)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	couponHandler := handler.NewCouponHandler(couponService)
	customerHandler := handler.NewCustomerHandler(customerService)
	workerHandler := handler.NewWorkerHandler(workerService)
	materialHandler := handler.NewMaterialHandler(materialService)
	systemHandler := handler.NewSystemHandler()

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	engine.GET("/health", healthHandler(db, log))

	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Register(orderHandler).
		Register(paymentHandler).
		Register(couponHandler).
		Register(customerHandler).
		Register(workerHandler).
		Register(materialHandler).
		Register(systemHandler)
	r.Setup()

	// Per-customer order listing shares the /customers prefix
	api := engine.Group("/api/v1")
	orderHandler.RegisterCustomerOrderRoutes(api)

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown on SIGINT/SIGTERM
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server stopped")
}

// healthHandler reports service and database health
func healthHandler(db *persistence.Database, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			log.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "down",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"database": "up",
		})
	}
}
