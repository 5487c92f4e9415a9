package api

import (
	"net/http"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"

	_ "github.com/greenhouse/plants-api/docs"
	"github.com/greenhouse/plants-api/internal/api/handler"
	"github.com/greenhouse/plants-api/internal/api/middleware"
	"github.com/greenhouse/plants-api/internal/core/domain"
	"github.com/greenhouse/plants-api/internal/core/ports"
)

const loginLimiterExpiry = 3 * time.Minute

// Dependencies are the collaborators NewRouter wires into handlers.
type Dependencies struct {
	Log    zerolog.Logger
	Auth   ports.AuthService
	Plants ports.PlantService
	Tokens ports.TokenVerifier

	// Readiness maps a dependency name to its ping, e.g. "mongodb".
	Readiness map[string]handler.Pinger
	// Registry backs /metrics. A fresh registry is used when nil.
	Registry *prometheus.Registry

	// LoginRateLimit is the sustained per-IP rate of POST /login in requests
	// per second. Zero disables the limiter.
	LoginRateLimit float64
	LoginRateBurst int

	// Production hides the /__routes__ listing.
	Production bool
}

// NewRouter builds and returns the Echo instance with all routes registered.
//
// @title                       Plants API
// @version                     1.0
// @description                 Plants catalogue with JWT authentication and role-based access control.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(deps.Log)

	reg := deps.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(requestLogger(deps.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "http",
		Registerer: reg,
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
	}))

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(deps.Auth)
	plantHandler := handler.NewPlantHandler(deps.Plants)
	healthHandler := handler.NewHealthHandler(deps.Readiness)

	authenticated := middleware.Require(deps.Tokens)
	adminOnly := middleware.Require(deps.Tokens, domain.RoleAdmin)
	managerOrAdmin := middleware.Require(deps.Tokens, domain.RoleManager, domain.RoleAdmin)

	// --- Auth routes ---
	e.GET("/", authHandler.Index)
	e.POST("/login", authHandler.Login, loginLimiter(deps.LoginRateLimit, deps.LoginRateBurst)...)
	e.GET("/whoami", authHandler.Whoami, authenticated)
	e.GET("/admin-only", authHandler.AdminOnly, adminOnly)
	e.GET("/manager-area", authHandler.ManagerArea, managerOrAdmin)

	// --- User management ---
	e.POST("/users", authHandler.CreateUser, adminOnly)
	e.GET("/users", authHandler.ListUsers, managerOrAdmin)

	// --- Plants: reads are public, writes need any valid token ---
	plants := e.Group("/plants")
	plants.GET("", plantHandler.List)
	plants.GET("/:id", plantHandler.Get)
	plants.POST("", plantHandler.Create, authenticated)
	plants.PUT("/:id", plantHandler.Update, authenticated)
	plants.DELETE("/:id", plantHandler.Delete, authenticated)

	// --- Health probes (no auth required) ---
	e.GET("/health", healthHandler.Liveness)        // liveness  – is the process alive?
	e.GET("/health/ready", healthHandler.Readiness) // readiness – are dependencies up?

	// --- Operations ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: reg}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	if !deps.Production {
		e.GET("/__routes__", listRoutes(e))
	}

	return e
}

// requestLogger writes one access log line per request through zerolog.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRemoteIP:  true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			if v.Error != nil {
				ev = log.Warn().Err(v.Error)
			}
			ev.Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}

// loginLimiter throttles POST /login per client IP.
func loginLimiter(limit float64, burst int) []echo.MiddlewareFunc {
	if limit <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 1
	}

	store := echomiddleware.NewRateLimiterMemoryStoreWithConfig(echomiddleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(limit),
		Burst:     burst,
		ExpiresIn: loginLimiterExpiry,
	})
	return []echo.MiddlewareFunc{echomiddleware.RateLimiterWithConfig(echomiddleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusForbidden, "unable to identify client")
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests, "too many login attempts")
		},
	})}
}

func listRoutes(e *echo.Echo) echo.HandlerFunc {
	return func(c echo.Context) error {
		routes := make([]string, 0, len(e.Routes()))
		for _, r := range e.Routes() {
			routes = append(routes, r.Method+" "+r.Path)
		}
		sort.Strings(routes)
		return c.JSON(http.StatusOK, routes)
	}
}
