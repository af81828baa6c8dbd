package api

import (
	"github.com/google/uuid"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/userservice/user-service/docs"
	"github.com/userservice/user-service/internal/api/handler"
	"github.com/userservice/user-service/internal/api/middleware"
	"github.com/userservice/user-service/internal/core/domain"
	"github.com/userservice/user-service/internal/core/ports"
	"github.com/userservice/user-service/internal/infrastructure/wallet"
)

// Deps are the collaborators the HTTP layer is built from.
type Deps struct {
	Auth     ports.AuthService
	Accounts ports.AccountService
	Decider  ports.AuthDecider
	Wallets  ports.WalletClient
	// Ledger may be nil.
	Ledger ports.CascadeLedger

	HealthChecks map[string]handler.Check
	PublicPaths  []string

	// Registry receives the HTTP metrics. Nil uses the default registry.
	Registry *prometheus.Registry
	Log      zerolog.Logger
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
		RequestIDHandler: func(c echo.Context, id string) {
			req := c.Request()
			c.SetRequest(req.WithContext(wallet.WithRequestID(req.Context(), id)))
		},
	}))
	e.Use(requestLogger(d.Log))
	e.Use(metricsMiddleware(d.Registry))
	e.Use(middleware.Gate(d.Decider, d.PublicPaths, d.Log))

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(d.Auth)
	e.POST("/api/auth/register", authHandler.Register)
	e.POST("/api/auth/login", authHandler.Login)

	// --- Owner-or-admin routes ---
	userHandler := handler.NewUserHandler(d.Accounts, d.Wallets)
	users := e.Group("/users")
	users.GET("/:userId", userHandler.Get)
	users.PATCH("/:userId", userHandler.Patch)
	users.DELETE("/:userId", userHandler.Delete)
	users.GET("/:userId/wallets", userHandler.Wallets)

	// --- Admin routes ---
	adminHandler := handler.NewAdminHandler(d.Accounts, d.Ledger)
	admin := e.Group("/admin", middleware.RequireRole(domain.RoleAdmin))
	admin.GET("/users", adminHandler.List)
	admin.POST("/users", adminHandler.Create)
	admin.GET("/users/:userId", adminHandler.Get)
	admin.PATCH("/users/:userId", adminHandler.Update)
	admin.DELETE("/users/:userId", adminHandler.Delete)
	admin.POST("/users/blacklist/:userId", adminHandler.Blacklist)
	admin.POST("/users/blacklist/:userId/unblock", adminHandler.Unblock)
	admin.GET("/cascade-failures", adminHandler.CascadeFailures)

	// --- Health probes, metrics and docs (public) ---
	healthHandler := handler.NewHealthHandler(d.HealthChecks)
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", metricsHandler(d.Registry))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Status >= 500 {
				evt = log.Error().Err(v.Error)
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

func metricsMiddleware(reg *prometheus.Registry) echo.MiddlewareFunc {
	cfg := echoprometheus.MiddlewareConfig{
		Subsystem: "user_service",
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/metrics"
		},
		DoNotUseRequestPathFor404: true,
	}
	if reg != nil {
		cfg.Registerer = reg
	}
	return echoprometheus.NewMiddlewareWithConfig(cfg)
}

func metricsHandler(reg *prometheus.Registry) echo.HandlerFunc {
	if reg == nil {
		return echoprometheus.NewHandler()
	}
	return echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: reg})
}
