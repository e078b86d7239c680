package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/envios-ar/shipping-tracker/docs" // swagger docs
	"github.com/envios-ar/shipping-tracker/internal/api/handler"
	"github.com/envios-ar/shipping-tracker/internal/api/middleware"
	"github.com/envios-ar/shipping-tracker/internal/core/ports"
)

// Deps carries what the router wires into handlers.
type Deps struct {
	Shipments  ports.ShipmentService
	Dispatcher handler.CommandDispatcher
	// Health lists the dependencies checked by /health/ready.
	Health map[string]handler.Pinger
	// JWTSecret empty leaves mutation routes unauthenticated.
	JWTSecret string
	Logger    zerolog.Logger
	// Registerer and Gatherer default to the Prometheus default registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)
	e.Validator = handler.NewValidator()

	if deps.Registerer == nil {
		deps.Registerer = prometheus.DefaultRegisterer
	}
	if deps.Gatherer == nil {
		deps.Gatherer = prometheus.DefaultGatherer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(deps.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "shipping",
		Registerer: deps.Registerer,
	}))

	// --- Operational endpoints (no auth required) ---
	health := handler.NewHealthHandler(deps.Health)
	e.GET("/health", health.Liveness)
	e.GET("/health/ready", health.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: deps.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	// --- Shipments ---
	shipments := handler.NewShipmentHandler(deps.Shipments)
	commands := handler.NewCommandHandler(deps.Dispatcher)

	v1 := e.Group("/v1")
	v1.GET("/counter", shipments.Counter)
	v1.GET("/statistics", shipments.Statistics)
	v1.POST("/shipments", shipments.Create)
	v1.GET("/shipments", shipments.List)
	v1.GET("/shipments/search", shipments.Search)
	v1.GET("/shipments/range", shipments.Range)
	v1.GET("/shipments/:code", shipments.Get)

	// --- Status mutations (operator or admin when auth is enabled) ---
	var guard []echo.MiddlewareFunc
	if deps.JWTSecret != "" {
		guard = append(guard,
			middleware.Auth(deps.JWTSecret),
			middleware.RequireRole(middleware.RoleOperator),
		)
	} else {
		deps.Logger.Warn().Msg("JWT_SECRET not set, status routes are unauthenticated")
	}

	status := v1.Group("/shipments", guard...)
	status.PUT("/:code/status", shipments.ChangeStatus)
	status.POST("/:code/advance", shipments.Advance)
	status.POST("/:code/return", shipments.Return)
	status.POST("/status/batch", commands.ReceiveBatch)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Error != nil {
				evt = log.Warn().Err(v.Error)
			}
			evt.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
