package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	billingapp "github.com/irenerossetti/condominio-backend/internal/application/billing"
	catalogapp "github.com/irenerossetti/condominio-backend/internal/application/catalog"
	reportapp "github.com/irenerossetti/condominio-backend/internal/application/report"
	"github.com/irenerossetti/condominio-backend/internal/domain/shared"
	"github.com/irenerossetti/condominio-backend/internal/infrastructure/auth"
	"github.com/irenerossetti/condominio-backend/internal/infrastructure/cache"
	"github.com/irenerossetti/condominio-backend/internal/infrastructure/config"
	"github.com/irenerossetti/condominio-backend/internal/infrastructure/event"
	"github.com/irenerossetti/condominio-backend/internal/infrastructure/export"
	"github.com/irenerossetti/condominio-backend/internal/infrastructure/logger"
	"github.com/irenerossetti/condominio-backend/internal/infrastructure/persistence"
	"github.com/irenerossetti/condominio-backend/internal/infrastructure/telemetry"
	"github.com/irenerossetti/condominio-backend/internal/interfaces/http/dto"
	"github.com/irenerossetti/condominio-backend/internal/interfaces/http/handler"
	"github.com/irenerossetti/condominio-backend/internal/interfaces/http/middleware"
	"github.com/irenerossetti/condominio-backend/internal/interfaces/http/router"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

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

	log.Info("Starting condominio billing service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)
	if cfg.JWT.Secret == config.DefaultJWTSecret {
		log.Warn("Using the development JWT secret; set CONDO_JWT_SECRET outside development")
	}

	ctx := context.Background()

	tp, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, telemetry.ServiceInfo{
		Version:     version,
		Environment: cfg.App.Env,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	db, err := persistence.NewDatabase(&cfg.Database, &cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := telemetry.NewMetrics(registry)

	storeFactory := cache.NewIdempotencyStoreFactory(cfg.Redis,
		cache.WithLogger(log),
		cache.WithKeyPrefix(cfg.Idempotency.KeyPrefix),
	)
	idempotencyStore, redisClient, err := storeFactory.CreateStore(ctx)
	if err != nil {
		log.Fatal("Failed to create idempotency store", zap.Error(err))
	}
	defer func() {
		if err := idempotencyStore.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}()

	// Repositories
	expenseTypeRepo := persistence.NewGormExpenseTypeRepository(db.DB)
	unitRepo := persistence.NewGormUnitRepository(db.DB)
	feeRepo := persistence.NewGormFeeRepository(db.DB)
	paymentRepo := persistence.NewGormPaymentRepository(db.DB)
	financeReportRepo := persistence.NewGormFinanceReportRepository(db.DB)
	txScope := persistence.NewGormTransactionScope(db.DB)

	// Event bus: audit log and ledger counters run after commit
	eventBus := event.NewInMemoryEventBus(log)
	eventBus.Subscribe(billingapp.NewLedgerAuditHandler(log))
	eventBus.Subscribe(billingapp.NewLedgerMetricsHandler(metrics))
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Application services
	issuanceService := billingapp.NewIssuanceService(txScope, log)
	issuanceService.SetDefaultDueDay(cfg.Billing.DefaultDueDay)
	issuanceService.SetEventPublisher(eventBus)
	issuanceService.SetMetrics(metrics)

	reconciliationService := billingapp.NewReconciliationService(txScope, feeRepo, unitRepo, paymentRepo, log)
	reconciliationService.SetIdempotencyStore(idempotencyStore, shared.IdempotencyConfig{
		Enabled:   cfg.Idempotency.Enabled,
		TTL:       cfg.Idempotency.TTL,
		KeyPrefix: cfg.Idempotency.KeyPrefix,
	})
	reconciliationService.SetEventPublisher(eventBus)
	reconciliationService.SetMetrics(metrics)

	overdueService := billingapp.NewOverdueService(feeRepo, log)
	overdueService.SetEventPublisher(eventBus)
	overdueService.SetMetrics(metrics)

	feeQueryService := billingapp.NewFeeQueryService(feeRepo, unitRepo, paymentRepo)
	expenseTypeService := catalogapp.NewExpenseTypeService(expenseTypeRepo, log)
	unitService := catalogapp.NewUnitService(unitRepo, log)

	reportService := reportapp.NewFinanceReportService(financeReportRepo, export.NewFinanceReportExporter(), log)
	reportService.SetMetrics(metrics)

	// HTTP
	if cfg.App.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	dto.SetupValidator()

	checks := []handler.ReadinessCheck{{Name: "database", Check: db.PingContext}}
	if redisClient != nil {
		checks = append(checks, handler.ReadinessCheck{
			Name:  "redis",
			Check: func(ctx context.Context) error { return redisClient.Ping(ctx).Err() },
		})
	}

	corsCfg := middleware.DefaultCORSConfig()
	if len(cfg.HTTP.CORSAllowOrigins) > 0 {
		corsCfg.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	}

	engine := router.New(router.Config{
		Logger:         log,
		TokenValidator: auth.NewJWTService(cfg.JWT),
		Metrics:        metrics,
		Gatherer:       registry,
		CORS:           corsCfg,
		Tracing: middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     cfg.Telemetry.Enabled,
		},
	}, router.Handlers{
		Health:       handler.NewHealthHandler(cfg.App.Name, version, log, checks...),
		Fees:         handler.NewFeeHandler(issuanceService, reconciliationService, feeQueryService, overdueService, log),
		Reports:      handler.NewReportHandler(reportService, log),
		ExpenseTypes: handler.NewExpenseTypeHandler(expenseTypeService, log),
		Units:        handler.NewUnitHandler(unitService, log),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}

	log.Info("Server exited gracefully")
}
