package api

import (
	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/shopkit/accounts-api/docs"
	"github.com/shopkit/accounts-api/internal/api/handler"
	"github.com/shopkit/accounts-api/internal/api/middleware"
	"github.com/shopkit/accounts-api/internal/core/domain"
	"github.com/shopkit/accounts-api/internal/core/ports"
)

// Dependencies groups what the router needs to build its handlers.
type Dependencies struct {
	Accounts ports.AccountService
	Schema   domain.Schema
	Checks   map[string]handler.DependencyCheck
	Log      zerolog.Logger
	// Registry receives the HTTP metrics. Nil means the default registry,
	// which also holds the counters from the metrics package.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLogger(deps.Log))
	e.Use(echomiddleware.CORS())
	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if deps.Registry != nil {
		registerer, gatherer = deps.Registry, deps.Registry
	}
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "accounts",
		Registerer: registerer,
	}))

	// --- Dependencies ---
	accountHandler := handler.NewAccountHandler(deps.Accounts, deps.Schema, deps.Log)

	// --- Account routes ---
	users := e.Group("/api/users")
	users.POST("", accountHandler.Create)
	users.POST("/", accountHandler.Create)
	users.POST("/login", accountHandler.Login)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(deps.Checks)

	e.GET("/health", healthHandler.Liveness)            // liveness
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
