package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/ayursutra/clinic/internal/api/docs"
	"github.com/ayursutra/clinic/internal/api/handler"
	"github.com/ayursutra/clinic/internal/core/domain"
	"github.com/ayursutra/clinic/internal/core/ports"
	"github.com/ayursutra/clinic/internal/infrastructure/http/handlers"
	httpmw "github.com/ayursutra/clinic/internal/infrastructure/http/middleware"
)

// Deps are the services behind the reference clinic API.
type Deps struct {
	Patients      ports.RecordService[domain.Patient]
	Therapies     ports.RecordService[domain.Therapy]
	Notifications ports.RecordService[domain.Notification]
	Mail          ports.MailService
	Health        *handlers.HealthHandler

	// Registry receives the HTTP metrics. Nil uses the default registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if deps.Registry != nil {
		registerer, gatherer = deps.Registry, deps.Registry
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(httpmw.RequestLog(log))
	e.Use(echomiddleware.CORS())
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "clinic_api",
		Registerer: registerer,
	}))

	// --- Collections ---
	api := e.Group("/api")
	handler.NewPatientHandler(deps.Patients).Register(api.Group("/patients"))
	handler.NewTherapyHandler(deps.Therapies).Register(api.Group("/therapies"))
	handler.NewNotificationHandler(deps.Notifications).Register(api.Group("/notifications"))
	api.POST("/send-email", handler.NewMailHandler(deps.Mail).Send)

	// --- Health probes and tooling ---
	health := deps.Health
	if health == nil {
		health = handlers.NewHealthHandler()
	}
	e.GET("/health", health.Liveness)
	e.GET("/health/ready", health.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
