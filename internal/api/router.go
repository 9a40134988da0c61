// Package api assembles the HTTP surface: routes, middleware, metrics and
// error mapping.
package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/abelov/technical-records/internal/api/handler"
	"github.com/abelov/technical-records/internal/api/middleware"
	"github.com/abelov/technical-records/internal/core/domain"
	"github.com/abelov/technical-records/internal/core/ports"
)

// Dependencies carries everything the router wires together.
type Dependencies struct {
	Auth    *handler.AuthHandler
	Tickets *handler.TicketHandler
	Admin   *handler.AdminHandler
	Health  *handler.HealthHandler

	AuthService ports.AuthService
	RateLimiter middleware.Limiter

	Log zerolog.Logger
}

// NewRouter builds the echo instance with all routes registered.
func NewRouter(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewErrorHandler(deps.Log)

	e.Use(echomw.Recover())
	e.Use(echomw.RequestID())
	e.Use(echoprometheus.NewMiddleware("technical_records"))

	e.GET("/health", deps.Health.Live)
	e.GET("/health/ready", deps.Health.Ready)
	e.GET("/metrics", echoprometheus.NewHandler())

	// Public auth endpoints, rate limited per client IP.
	auth := e.Group("/auth")
	if deps.RateLimiter != nil {
		auth.Use(middleware.RateLimit(deps.RateLimiter))
	}
	auth.POST("/signup", deps.Auth.SignUp)
	auth.POST("/login", deps.Auth.Login)
	auth.POST("/logout", deps.Auth.Logout)
	auth.GET("/me", deps.Auth.Me, middleware.Auth(deps.AuthService))

	// Service-request API, authenticated.
	v1 := e.Group("/api/v1")
	if deps.RateLimiter != nil {
		v1.Use(middleware.RateLimit(deps.RateLimiter))
	}
	v1.Use(middleware.Auth(deps.AuthService))

	requests := v1.Group("/requests")
	requests.GET("", deps.Tickets.List)
	requests.POST("", deps.Tickets.Create)
	requests.GET("/search", deps.Tickets.Search)
	requests.GET("/stats/:userId", deps.Tickets.Stats)
	requests.GET("/:id", deps.Tickets.Get)
	requests.PUT("/:id", deps.Tickets.Update)
	requests.PATCH("/:id", deps.Tickets.Update)
	requests.DELETE("/:id", deps.Tickets.Delete)
	requests.POST("/:id/payment", deps.Tickets.RecordPayment)

	// Admin surface. Init is open so an empty installation can bootstrap
	// itself; everything else requires the admin role.
	admin := e.Group("/admin")
	admin.POST("/init", deps.Admin.Init)

	adminUsers := admin.Group("/users", middleware.Auth(deps.AuthService), middleware.RequireRoles(domain.RoleAdmin))
	adminUsers.POST("/:id/roles", deps.Admin.AssignRole)
	adminUsers.DELETE("/:id/roles/:role", deps.Admin.RemoveRole)
	adminUsers.PATCH("/:id/status", deps.Admin.SetActive)

	return e
}
