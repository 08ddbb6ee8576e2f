// Package api assembles the HTTP surface: middleware chain, routes, and the
// central error handler.
package api

import (
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/99minutos/project-registry/docs"
	"github.com/99minutos/project-registry/internal/api/handler"
	"github.com/99minutos/project-registry/internal/api/metrics"
	"github.com/99minutos/project-registry/internal/api/middleware"
	"github.com/99minutos/project-registry/internal/core/ports"
)

// RouterConfig carries everything the HTTP layer depends on.
type RouterConfig struct {
	Logger   zerolog.Logger
	Registry *prometheus.Registry
	Metrics  *metrics.Metrics

	AuthService    ports.AuthService
	UserService    ports.UserService
	ProjectService ports.ProjectService
	Auditor        ports.Auditor

	// ReadinessChecks are pinged by GET /health/ready, keyed by dependency name.
	ReadinessChecks map[string]handler.Checker
	HTTPSRedirect   bool
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(cfg RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(cfg.Logger)

	// --- Global middleware ---
	e.Pre(echomiddleware.RemoveTrailingSlash())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(requestLogger(cfg.Logger))
	e.Use(middleware.TotalCount())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowCredentials: true,
		// Reflect the caller's origin; browsers reject "*" with credentials.
		UnsafeWildcardOriginWithAllowCredentials: true,
	}))
	if cfg.HTTPSRedirect {
		e.Use(echomiddleware.HTTPSRedirect())
	}
	if cfg.Registry != nil {
		e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
			Subsystem:  "http",
			Registerer: cfg.Registry,
			Skipper: func(c echo.Context) bool {
				return c.Path() == "/metrics" || strings.HasPrefix(c.Path(), "/swagger")
			},
		}))
		e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
			Gatherer: cfg.Registry,
		}))
	}

	// --- Dependencies ---
	authHandler := handler.NewAuthHandler(cfg.AuthService, cfg.Auditor, cfg.Metrics)
	userHandler := handler.NewUserHandler(cfg.UserService, cfg.ProjectService, cfg.Auditor, cfg.Metrics)
	projectHandler := handler.NewProjectHandler(cfg.ProjectService, cfg.Auditor, cfg.Metrics)
	bearer := middleware.Auth(cfg.AuthService, cfg.Auditor, cfg.Metrics)
	self := middleware.RequireSelf("id")

	// --- Auth routes ---
	e.GET("/", authHandler.Root)
	e.POST("/token", authHandler.Login)
	e.GET("/current", authHandler.Current, bearer)

	// --- Users ---
	users := e.Group("/users")
	users.POST("", userHandler.Create)
	users.GET("", userHandler.List)
	users.GET("/:id", userHandler.Get)
	users.PUT("/:id", userHandler.Update, bearer, self)
	users.DELETE("/:id", userHandler.Delete, bearer, self)
	users.GET("/:id/projects", userHandler.Projects)

	// --- Projects ---
	projects := e.Group("/projects")
	projects.POST("", projectHandler.Create)
	projects.GET("", projectHandler.List)
	projects.GET("/:id", projectHandler.Get)
	projects.PUT("/:id", projectHandler.Update)
	projects.DELETE("/:id", projectHandler.Delete)

	// --- Health probes (no auth required) ---
	e.GET("/health", handler.NewHealthHandler().Liveness)
	e.GET("/health/ready", handler.NewReadinessHandler(cfg.ReadinessChecks).Readiness)

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

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
		LogValuesFunc: func(_ echo.Context, v echomiddleware.RequestLoggerValues) error {
			ev := log.Info()
			switch {
			case v.Status >= 500:
				ev = log.Error().Err(v.Error)
			case v.Status >= 400:
				ev = log.Warn()
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
