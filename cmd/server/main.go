package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/crownpawn/titlepawn-backend/config"
	"github.com/crownpawn/titlepawn-backend/internal/app/controller"
	"github.com/crownpawn/titlepawn-backend/internal/app/repository"
	"github.com/crownpawn/titlepawn-backend/internal/app/service"
	"github.com/crownpawn/titlepawn-backend/internal/db"
	"github.com/crownpawn/titlepawn-backend/internal/middleware"
	"github.com/crownpawn/titlepawn-backend/internal/refdata"
	"github.com/crownpawn/titlepawn-backend/internal/router"
	"github.com/crownpawn/titlepawn-backend/internal/scheduler"
	"github.com/crownpawn/titlepawn-backend/internal/storage"
	ws "github.com/crownpawn/titlepawn-backend/internal/websocket"
	"github.com/crownpawn/titlepawn-backend/pkg/logger"
	"github.com/crownpawn/titlepawn-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting title pawn backend", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Redis backs the token blacklist and the rate-tier cache. The server
	// still works without it: logouts become no-ops and tier lookups hit
	// the database.
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Warn("Redis unavailable, running without cache and token blacklist", map[string]interface{}{
			"error": err.Error(),
		})
	} else {
		defer redis.Close()
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	companyRepo := repository.NewCompanyRepository(db.GetDB())
	customerRepo := repository.NewCustomerRepository(db.GetDB())
	vehicleRepo := repository.NewVehicleRepository(db.GetDB())
	storeRepo := repository.NewStoreRepository(db.GetDB())
	tierRepo := repository.NewRateTierRepository(db.GetDB())
	stateRuleRepo := repository.NewStateRuleRepository(db.GetDB())
	pawnRepo := repository.NewTitlePawnRepository(db.GetDB())
	paymentRepo := repository.NewPaymentRepository(db.GetDB())
	feeRepo := repository.NewFeeRepository(db.GetDB())
	policyRepo := repository.NewApprovalPolicyRepository(db.GetDB())
	vendorRepo := repository.NewVendorRepository(db.GetDB())

	// Initialize services
	authService := service.NewAuthService(
		userRepo,
		companyRepo,
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	tierCache := service.NewRedisTierCache(10 * time.Minute)
	rateService := service.NewRateService(tierRepo, stateRuleRepo, tierCache)
	customerService := service.NewCustomerService(customerRepo)
	vehicleService := service.NewVehicleService(vehicleRepo, customerRepo)
	storeService := service.NewStoreService(storeRepo, tierRepo, stateRuleRepo, refdata.USStates(), rateService)
	pawnService := service.NewTitlePawnService(pawnRepo, db.GetDB())
	feeService := service.NewFeeService(feeRepo, pawnRepo, db.GetDB())
	policyService := service.NewApprovalPolicyService(policyRepo, pawnRepo)
	vendorService := service.NewVendorService(vendorRepo)
	scheduleService := service.NewPaymentScheduleService()
	reportService := service.NewReportService(pawnRepo, paymentRepo)

	// WebSocket hub for lifecycle events
	hub := ws.NewHub()
	go hub.Run()

	// Document storage
	s3Storage := storage.NewS3Storage(
		cfg.S3.Region,
		cfg.S3.Bucket,
		cfg.S3.AccessKeyID,
		cfg.S3.SecretAccessKey,
		cfg.S3.BaseURL,
	)

	// Initialize controllers
	authController := controller.NewAuthController(authService)
	customerController := controller.NewCustomerController(customerService)
	vehicleController := controller.NewVehicleController(vehicleService)
	storeController := controller.NewStoreController(storeService, rateService)
	titlePawnController := controller.NewTitlePawnController(
		pawnService,
		customerService,
		policyService,
		rateService,
		scheduleService,
		hub,
	)
	feeController := controller.NewFeeController(feeService, vendorService, hub)
	vendorController := controller.NewVendorController(vendorService)
	policyController := controller.NewApprovalPolicyController(policyService, authService)
	reportController := controller.NewReportController(reportService)
	documentController := controller.NewDocumentController(s3Storage, vehicleService)
	eventController := controller.NewEventController(hub)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Setup router
	r := router.NewRouter(
		authController,
		customerController,
		vehicleController,
		storeController,
		titlePawnController,
		feeController,
		vendorController,
		policyController,
		reportController,
		documentController,
		eventController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Nightly late-fee sweep
	var lateFeeScheduler *scheduler.LateFeeScheduler
	if cfg.Scheduler.Enabled {
		lateFeeScheduler = scheduler.NewLateFeeScheduler(pawnService, feeService, cfg.Scheduler.LateFeeSweepSpec)
		if err := lateFeeScheduler.Start(); err != nil {
			logger.Fatal("Failed to start late fee scheduler", err)
		}
	}

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	if lateFeeScheduler != nil {
		lateFeeScheduler.Stop()
	}
	logger.Info("Server stopped successfully")
}
