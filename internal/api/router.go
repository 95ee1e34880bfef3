package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/moveswift/logistics-console/docs"
	"github.com/moveswift/logistics-console/internal/api/handler"
	"github.com/moveswift/logistics-console/internal/api/middleware"
	"github.com/moveswift/logistics-console/internal/core/ports"
	"github.com/moveswift/logistics-console/internal/infrastructure/http/handlers"
)

// Deps are the collaborators the router wires into handlers. Mongo and Redis
// may be nil; readiness then skips them.
type Deps struct {
	Session   ports.SessionService
	Customers ports.CustomerService
	Shipments ports.ShipmentService
	Dashboard ports.DashboardService
	Mongo     *mongo.Database
	Redis     *redis.Client
	Logger    zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Logger)

	// HTTP metrics go to a per-router registry; the custom console metrics
	// live in the default one.
	reg := prometheus.NewRegistry()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.PropagateRequestID())
	e.Use(middleware.RequestLogger(deps.Logger))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "console",
		Registerer: reg,
	}))

	auth := []echo.MiddlewareFunc{
		middleware.RequireSession(deps.Session),
		middleware.RequireActiveAdmin(),
	}

	authHandler := handler.NewAuthHandler(deps.Session)
	prefsHandler := handler.NewPreferencesHandler(deps.Session)
	customerHandler := handler.NewCustomerHandler(deps.Customers, deps.Logger)
	shipmentHandler := handler.NewShipmentHandler(deps.Shipments, deps.Logger)
	trackingHandler := handler.NewTrackingHandler(deps.Shipments, deps.Logger)
	dashboardHandler := handler.NewDashboardHandler(deps.Dashboard)

	// --- Auth routes ---
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/signup", authHandler.Signup)
	e.GET("/auth/session", authHandler.Session)
	e.POST("/auth/logout", authHandler.Logout, auth...)
	e.GET("/auth/me", authHandler.Me, auth...)

	e.GET("/preferences", prefsHandler.Get, auth...)
	e.PUT("/preferences", prefsHandler.Update, auth...)

	e.GET("/dashboard", dashboardHandler.Summary, auth...)

	// --- Customers ---
	e.GET("/customers", customerHandler.List, auth...)
	e.POST("/customers", customerHandler.Create, auth...)
	e.GET("/customers/:id", customerHandler.Get, auth...)
	e.PUT("/customers/:id", customerHandler.Update, auth...)
	e.DELETE("/customers/:id", customerHandler.Delete, auth...)
	e.PUT("/customers/:id/restore", customerHandler.Restore, auth...)

	// --- Shipments ---
	e.GET("/shipments", shipmentHandler.List, auth...)
	e.POST("/shipments", shipmentHandler.Create, auth...)
	e.GET("/shipments/:id", shipmentHandler.Get, auth...)
	e.PUT("/shipments/:id", shipmentHandler.Update, auth...)
	e.DELETE("/shipments/:id", shipmentHandler.Delete, auth...)

	e.GET("/track/:trackingNumber", trackingHandler.Track, auth...)

	// --- Health checks (no auth required) ---
	healthHandler := handlers.NewHealthHandler()
	healthDepsHandler := handlers.NewHealthDependenciesHandler(deps.Mongo, deps.Redis)

	e.GET("/health", healthHandler.Liveness)            // liveness: is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness: are dependencies up?

	// --- Operations ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
		Gatherer: prometheus.Gatherers{prometheus.DefaultGatherer, reg},
	}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
