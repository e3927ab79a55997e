package api

import (
	"fmt"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/lppm/portal-auth/docs"
	"github.com/lppm/portal-auth/internal/api/handler"
	"github.com/lppm/portal-auth/internal/api/middleware"
	"github.com/lppm/portal-auth/internal/core/domain"
	"github.com/lppm/portal-auth/internal/core/ports"
	"github.com/lppm/portal-auth/internal/pkg/config"
)

// multipartOverhead is the room left for the reviewer form fields next to the CV.
const multipartOverhead = 1 << 20

// Deps carries everything the router wires into handlers and middleware.
type Deps struct {
	Config *config.Config
	Log    zerolog.Logger

	AuthService    ports.AuthService
	UserService    ports.UserService
	ProfileService ports.ProfileService
	Tokens         ports.TokenVerifier
	Limiter        ports.RateLimiter

	// Health lists the stores checked by /health/ready.
	Health map[string]handler.Pinger
	// Registerer receives the HTTP metrics. Defaults to the global registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	cfg := d.Config

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)

	registerer, gatherer := d.Registerer, d.Gatherer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowCredentials: true,
		AllowHeaders: []string{
			echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization,
		},
	}))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Namespace:  "lppm",
		Registerer: registerer,
	}))

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	healthHandler := handler.NewHealthHandler()
	healthDepsHandler := handler.NewHealthDependenciesHandler(d.Health)
	e.GET("/health", healthHandler.Liveness)            // liveness  – is the process alive?
	e.GET("/health/ready", healthDepsHandler.Readiness) // readiness – are dependencies up?

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(d.AuthService, d.ProfileService, handler.AuthHandlerConfig{
		CVMaxBytes:     cfg.Upload.CVMaxBytes,
		OAuthGoogleURL: cfg.HTTP.OAuthGoogleURL,
	})
	userHandler := handler.NewUserHandler(d.UserService)
	dosenHandler := handler.NewDosenHandler(d.ProfileService)

	authMW := middleware.Auth(d.Tokens)
	registerLimit := middleware.RateLimit(d.Limiter, middleware.RateLimitConfig{
		Scope:  "register",
		Limit:  cfg.RateLimit.RegisterLimit,
		Window: cfg.RateLimit.RegisterWindow,
	}, d.Log)
	loginLimit := middleware.RateLimit(d.Limiter, middleware.RateLimitConfig{
		Scope:          "login",
		Limit:          cfg.RateLimit.LoginLimit,
		Window:         cfg.RateLimit.LoginWindow,
		KeyFunc:        middleware.LoginKey,
		SkipSuccessful: true,
	}, d.Log)
	cvBodyLimit := echomiddleware.BodyLimit(fmt.Sprintf("%dK", (cfg.Upload.CVMaxBytes+multipartOverhead)/1024))

	api := e.Group("/api")

	// --- Auth routes ---
	auth := api.Group("/auth")
	auth.POST("/register", authHandler.RegisterUser, registerLimit)
	auth.POST("/register/dosen", authHandler.RegisterDosen, registerLimit)
	auth.POST("/register/reviewer", authHandler.RegisterReviewer, cvBodyLimit, registerLimit)
	auth.POST("/login", authHandler.Login, loginLimit)
	auth.GET("/me", authHandler.Me, authMW)
	auth.GET("/oauth/google", authHandler.GoogleOAuth)

	// --- Admin user management ---
	users := api.Group("/users", authMW, middleware.RBAC(domain.RoleAdminLPPM, domain.RoleStaffLPPM))
	users.GET("", userHandler.List)
	users.GET("/:id", userHandler.Get)
	adminOnly := middleware.RBAC(domain.RoleAdminLPPM)
	users.PATCH("/:id/role", userHandler.UpdateRole, adminOnly)
	users.PATCH("/:id/status", userHandler.UpdateStatus, adminOnly)

	// --- Dosen self-service ---
	dosen := api.Group("/dosen", authMW, middleware.RBAC(domain.RoleDosen))
	dosen.GET("/profile", dosenHandler.GetProfile)
	dosen.PATCH("/profile", dosenHandler.UpdateProfile)

	return e
}

// requestLogger emits one zerolog entry per request.
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
			var ev *zerolog.Event
			switch {
			case v.Status >= 500:
				ev = log.Error().Err(v.Error)
			case v.Status >= 400:
				ev = log.Warn()
			default:
				ev = log.Info()
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
