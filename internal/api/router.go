package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/resumeforge/resume-api/docs"
	"github.com/resumeforge/resume-api/internal/api/handler"
	"github.com/resumeforge/resume-api/internal/api/middleware"
	"github.com/resumeforge/resume-api/internal/core/access"
	"github.com/resumeforge/resume-api/internal/core/domain"
	"github.com/resumeforge/resume-api/internal/core/ports"
)

// Deps carries everything the HTTP layer needs. Services are built by the
// caller so tests can pass stubs.
type Deps struct {
	Log        zerolog.Logger
	Tokens     middleware.TokenValidator
	Identities ports.IdentityResolver
	Policy     access.Evaluator

	Auth    ports.AuthService
	Users   ports.UserService
	Resumes ports.ResumeService

	// Checks are run by the readiness probe, keyed by dependency name.
	Checks map[string]handler.Check

	TokenTTL     time.Duration
	CookieSecure bool
	CORSOrigins  []string
	AuthRate     float64
	AuthBurst    int
	EnableDebug  bool
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(d Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(d.Log)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(middleware.Metrics())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestIDWithConfig(echomiddleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(requestLogger(d.Log))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     d.CORSOrigins,
		AllowCredentials: true,
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		ExposeHeaders:    []string{echo.HeaderContentDisposition},
	}))
	e.Use(middleware.Authenticate(d.Tokens, d.Identities, d.Log))

	user := middleware.Require(d.Policy, domain.RoleUser)
	admin := middleware.Require(d.Policy, domain.RoleAdmin)
	limiter := middleware.NewRateLimiter(d.AuthRate, d.AuthBurst)

	// --- Auth routes ---
	authHandler := handler.NewAuthHandler(d.Auth, handler.CookieOptions{Secure: d.CookieSecure, MaxAge: d.TokenTTL})
	authGroup := e.Group("/api/auth")
	authGroup.POST("/signin", authHandler.SignIn, limiter.Middleware())
	authGroup.POST("/signup", authHandler.SignUp, limiter.Middleware())
	authGroup.POST("/refresh", authHandler.Refresh, user)
	authGroup.POST("/signout", authHandler.SignOut)

	// --- Resume routes ---
	resumeHandler := handler.NewResumeHandler(d.Resumes)
	resumes := e.Group("/api/resumes", user)
	resumes.GET("", resumeHandler.ListAll, admin)
	resumes.POST("", resumeHandler.Create)
	resumes.GET("/user/:userId", resumeHandler.ListByOwner)
	resumes.GET("/:id", resumeHandler.Get)
	resumes.PUT("/:id", resumeHandler.Update)
	resumes.DELETE("/:id", resumeHandler.Delete)
	resumes.GET("/:id/pdf", resumeHandler.PDF)
	resumes.POST("/:id/share", resumeHandler.Share)
	resumes.POST("/:id/unshare", resumeHandler.Unshare)

	// --- Public resume routes (no auth required) ---
	publicHandler := handler.NewPublicHandler(d.Resumes)
	public := e.Group("/api/public/resumes")
	public.GET("", publicHandler.List)
	public.GET("/:link", publicHandler.Get)
	public.GET("/:link/pdf", publicHandler.PDF)

	// --- User routes ---
	userHandler := handler.NewUserHandler(d.Users)
	users := e.Group("/api/users", user)
	users.GET("", userHandler.List, admin)
	users.GET("/:id", userHandler.Get)
	users.PUT("/:id", userHandler.Update)
	users.POST("/:id/change-password", userHandler.ChangePassword)
	users.DELETE("/:id", userHandler.Delete, admin)

	if d.EnableDebug {
		debugHandler := handler.NewDebugHandler(d.Resumes)
		e.GET("/api/debug/auth-status", debugHandler.AuthStatus)
		e.GET("/api/debug/check-permissions/:resumeId", debugHandler.CheckPermissions)
	}

	// --- Ops ---
	e.GET("/health", handler.NewHealthHandler().Liveness)                   // liveness  – is the process alive?
	e.GET("/health/ready", handler.NewReadinessHandler(d.Checks).Readiness) // readiness – are dependencies up?
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
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
		LogRemoteIP:  true,
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
