package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/sweetconnect/messaging-system/docs"
	"github.com/sweetconnect/messaging-system/internal/api/handler"
	"github.com/sweetconnect/messaging-system/internal/api/middleware"
	"github.com/sweetconnect/messaging-system/internal/core/domain"
	"github.com/sweetconnect/messaging-system/internal/core/ports"
)

// Deps are the collaborators the HTTP layer needs.
type Deps struct {
	Auth       ports.AuthService
	Messages   ports.MessageService
	Activities ports.ActivityService
	Hub        handler.PushHub
	Readiness  map[string]handler.Pinger

	JWTSecret      string
	AllowedOrigins []string
	CheckOrigin    func(*http.Request) bool
	EnableSwagger  bool
	Log            zerolog.Logger
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
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(d.Log))
	e.Use(echoprometheus.NewMiddleware("sweetconnect"))
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: d.AllowedOrigins,
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	authHandler := handler.NewAuthHandler(d.Auth)
	messageHandler := handler.NewMessageHandler(d.Messages)
	activityHandler := handler.NewActivityHandler(d.Activities)
	wsHandler := handler.NewWSHandler(d.Hub, d.JWTSecret, d.CheckOrigin, d.Log)
	healthHandler := handler.NewHealthHandler(d.Readiness)

	// --- Public routes ---
	e.POST("/api/register", authHandler.Register)
	e.POST("/api/login", authHandler.Login)

	// --- Authenticated routes ---
	authed := e.Group("/api", middleware.Auth(d.JWTSecret))
	authed.GET("/profile", authHandler.Profile)
	authed.POST("/messages", messageHandler.Send)
	authed.GET("/messages", messageHandler.History)
	authed.POST("/activities", activityHandler.Log)
	authed.GET("/users", authHandler.ListUsers, middleware.RBAC(domain.RoleAdmin))

	// --- Push channel (token in query string) ---
	e.GET("/ws", wsHandler.Connect)

	// --- Operations ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", healthHandler.Readiness)
	e.GET("/metrics", echoprometheus.NewHandler())
	if d.EnableSwagger {
		e.GET("/swagger/*", echoSwagger.WrapHandler)
	}

	return e
}

// requestLogger emits one structured line per request through zerolog.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURIPath:   true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Status >= http.StatusInternalServerError {
				evt = log.Warn()
			}
			evt.Str("method", v.Method).
				Str("path", v.URIPath).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
