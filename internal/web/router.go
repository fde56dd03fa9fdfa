package web

import (
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/ayursutra/clinic/internal/core/ports"
	"github.com/ayursutra/clinic/internal/infrastructure/http/handlers"
	httpmw "github.com/ayursutra/clinic/internal/infrastructure/http/middleware"
	"github.com/ayursutra/clinic/internal/web/middleware"
)

// Deps configure the portal router.
type Deps struct {
	Controllers  *Registry
	Renderer     ports.Renderer
	Secret       string
	SessionTTL   time.Duration
	PollInterval time.Duration
	Health       *handlers.HealthHandler

	// Metrics receives the HTTP metrics. Nil uses the default registry.
	Metrics *prometheus.Registry
}

// NewRouter builds the portal's Echo instance.
func NewRouter(deps Deps, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	var (
		registerer prometheus.Registerer = prometheus.DefaultRegisterer
		gatherer   prometheus.Gatherer   = prometheus.DefaultGatherer
	)
	if deps.Metrics != nil {
		registerer, gatherer = deps.Metrics, deps.Metrics
	}
	poll := deps.PollInterval
	if poll <= 0 {
		poll = time.Second
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(httpmw.RequestLog(log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "clinic_portal",
		Registerer: registerer,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/screen" || c.Path() == "/metrics"
		},
	}))

	h := NewPortalHandler(deps.Controllers, deps.Renderer, deps.Secret, deps.SessionTTL, poll, log)

	session := middleware.Session(deps.Secret)
	signedIn := []echo.MiddlewareFunc{session, middleware.RequireSession()}
	staff := []echo.MiddlewareFunc{session, middleware.RequireSession(), middleware.Staff()}

	// --- Public ---
	e.GET("/", h.Page, session)
	e.GET("/screen", h.Screen, session)
	e.POST("/session", h.SelectRole, session)
	e.DELETE("/session", h.EndSession, session)

	// --- Any role ---
	e.POST("/views/:view", h.ShowView, signedIn...)
	e.POST("/prompt/:id", h.ResolvePrompt, signedIn...)
	e.POST("/schedule/suggest", h.Suggest, signedIn...)
	e.POST("/schedule", h.Schedule, signedIn...)

	// --- Staff only ---
	e.POST("/patients", h.CreatePatient, staff...)
	e.POST("/patients/filter", h.FilterPatients, staff...)
	e.PUT("/patients/:id", h.UpdatePatient, staff...)
	e.DELETE("/patients/:id", h.DeletePatient, staff...)
	e.POST("/patients/:id/details", h.PatientDetails, staff...)
	e.POST("/therapies", h.CreateTherapy, staff...)
	e.PUT("/therapies/:id", h.UpdateTherapy, staff...)
	e.DELETE("/therapies/:id", h.DeleteTherapy, staff...)
	e.POST("/notifications", h.CreateNotification, staff...)
	e.PUT("/notifications/:id", h.UpdateNotification, staff...)
	e.DELETE("/notifications/:id", h.DeleteNotification, staff...)
	e.GET("/editor/:collection/:id", h.OpenEditor, staff...)
	e.POST("/alerts", h.SendAlert, staff...)

	// --- Health probes ---
	health := deps.Health
	if health == nil {
		health = handlers.NewHealthHandler()
	}
	e.GET("/health", health.Liveness)
	e.GET("/health/ready", health.Readiness)
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))

	return e
}
