package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/irenerossetti/condominio-backend/internal/infrastructure/logger"
	"github.com/irenerossetti/condominio-backend/internal/infrastructure/telemetry"
	"github.com/irenerossetti/condominio-backend/internal/interfaces/http/dto"
	"github.com/irenerossetti/condominio-backend/internal/interfaces/http/handler"
	"github.com/irenerossetti/condominio-backend/internal/interfaces/http/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Handlers are the HTTP handlers mounted by New
type Handlers struct {
	Health       *handler.HealthHandler
	Fees         *handler.FeeHandler
	Reports      *handler.ReportHandler
	ExpenseTypes *handler.ExpenseTypeHandler
	Units        *handler.UnitHandler
}

// Config carries the cross-cutting pieces of the engine
type Config struct {
	Logger         *zap.Logger
	TokenValidator middleware.TokenValidator
	Metrics        *telemetry.Metrics
	Gatherer       prometheus.Gatherer
	CORS           middleware.CORSConfig
	Tracing        middleware.TracingConfig
	MaxBodyBytes   int64
}

// New builds the gin engine serving the ledger API
func New(cfg Config, h Handlers) *gin.Engine {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = middleware.DefaultMaxBodyBytes
	}

	engine := gin.New()
	engine.Use(
		logger.Recovery(log),
		middleware.RequestID(),
		logger.GinMiddleware(log),
		middleware.Tracing(cfg.Tracing),
		middleware.CORS(cfg.CORS),
		middleware.Secure(),
		middleware.BodyLimit(maxBody),
		middleware.HTTPMetrics(cfg.Metrics),
	)

	engine.GET("/health", h.Health.Health)
	engine.GET("/ready", h.Health.Ready)
	if cfg.Gatherer != nil {
		engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))
	}

	jwtCfg := middleware.DefaultJWTConfig(cfg.TokenValidator)
	jwtCfg.Logger = log

	r := NewRouter(engine, WithAPIVersion("v1"))
	r.Register(FeeRoutes(h.Fees)).
		Register(MeRoutes(h.Fees)).
		Register(ReportRoutes(h.Reports)).
		Register(ExpenseTypeRoutes(h.ExpenseTypes)).
		Register(UnitRoutes(h.Units))
	r.Setup(middleware.JWTAuth(jwtCfg), middleware.SpanEnricher())

	engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(dto.ErrCodeNoRoute, "Route not found", middleware.GetRequestID(c)))
	})
	return engine
}

// FeeRoutes mounts the fee ledger under /fees
func FeeRoutes(h *handler.FeeHandler) *DomainGroup {
	return NewDomainGroup("fees", "/fees").
		POST("/issue", h.Issue).
		POST("/mark-overdue", h.MarkOverdue).
		GET("", h.List).
		GET("/:id", h.Get).
		GET("/:id/balance", h.Balance).
		POST("/:id/pay", h.Pay)
}

// MeRoutes mounts the caller-scoped views under /me
func MeRoutes(h *handler.FeeHandler) *DomainGroup {
	return NewDomainGroup("me", "/me").
		GET("/fees", h.ListMine)
}

// ReportRoutes mounts the finance report under /reports
func ReportRoutes(h *handler.ReportHandler) *DomainGroup {
	return NewDomainGroup("reports", "/reports").
		GET("/finance", h.Finance).
		GET("/finance/export", h.Export)
}

// ExpenseTypeRoutes mounts the expense catalog under /expense-types
func ExpenseTypeRoutes(h *handler.ExpenseTypeHandler) *DomainGroup {
	return NewDomainGroup("expense-types", "/expense-types").
		GET("", h.List).
		POST("", h.Create).
		GET("/:id", h.Get).
		PUT("/:id", h.Update)
}

// UnitRoutes mounts the unit registry under /units
func UnitRoutes(h *handler.UnitHandler) *DomainGroup {
	return NewDomainGroup("units", "/units").
		GET("", h.List).
		POST("", h.Create).
		GET("/:id", h.Get).
		PUT("/:id", h.Update)
}
