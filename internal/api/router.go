package api

import (
	"database/sql"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/initiatives-platform/identity/internal/api/handler"
	"github.com/initiatives-platform/identity/internal/api/middleware"
	"github.com/initiatives-platform/identity/internal/core/domain"
	"github.com/initiatives-platform/identity/internal/core/service"
	"github.com/initiatives-platform/identity/internal/infrastructure/config"
	"github.com/initiatives-platform/identity/internal/infrastructure/crypto"
	"github.com/initiatives-platform/identity/internal/infrastructure/db/postgres"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *sql.DB, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())

	// --- Dependencies ---
	store := postgres.NewStore(db)
	encoder := crypto.NewBcryptEncoder(0)
	authorityService := service.NewAuthorityService(store, cfg.Auth.DefaultAuthority, log)
	userService := service.NewUserService(store, authorityService, log)
	tokenService := service.NewTokenService(service.TokenConfig{
		ServerPort:      cfg.Port,
		ClientID:        cfg.OAuth2.ClientID,
		ClientSecret:    cfg.OAuth2.ClientSecret,
		TestURLSentinel: cfg.Auth.TestURLSentinel,
		Timeout:         cfg.Auth.TokenTimeout,
	}, log)

	authHandler := handler.NewAuthHandler(userService, tokenService, encoder)
	tokenHandler := handler.NewTokenHandler(userService, encoder, cfg.OAuth2.ClientID, cfg.OAuth2.ClientSecret, cfg.Auth.TokenTTL)
	userHandler := handler.NewUserHandler(userService, encoder)
	authorityHandler := handler.NewAuthorityHandler(authorityService)

	// --- Authentication ---
	e.POST("/api/signin", authHandler.SignIn)
	e.POST("/oauth/token", tokenHandler.Token)

	// --- User and authority management (admin only) ---
	admin := e.Group("/api",
		middleware.Auth(cfg.OAuth2.ClientSecret),
		middleware.RequireAuthority(domain.RoleAdmin),
	)
	admin.GET("/users", userHandler.FindAll)
	admin.GET("/users/:id", userHandler.FindByID)
	admin.POST("/users", userHandler.Create)
	admin.PUT("/users/:id", userHandler.Edit)
	admin.DELETE("/users/:id", userHandler.Delete)
	admin.GET("/users/:id/authorities", userHandler.FindAuthorities)
	admin.PUT("/users/:id/authorities/:authorityID", userHandler.AddAuthority)
	admin.DELETE("/users/:id/authorities/:authorityID", userHandler.RemoveAuthority)
	admin.GET("/authorities", authorityHandler.FindAll)
	admin.POST("/authorities", authorityHandler.Create)

	// --- Health probes and metrics (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	return e
}
