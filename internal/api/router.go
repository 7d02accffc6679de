package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/agroplaza/identity-api/docs"
	"github.com/agroplaza/identity-api/internal/api/handler"
	"github.com/agroplaza/identity-api/internal/api/middleware"
	"github.com/agroplaza/identity-api/internal/core/domain"
	"github.com/agroplaza/identity-api/internal/core/ports"
	"github.com/agroplaza/identity-api/internal/core/service"
	"github.com/agroplaza/identity-api/internal/infrastructure/config"
	identitymongo "github.com/agroplaza/identity-api/internal/infrastructure/db/mongo"
	identityredis "github.com/agroplaza/identity-api/internal/infrastructure/db/redis"
)

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(db *mongo.Database, rdb *redis.Client, notifier ports.Notifier, cfg *config.Config, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(echoprometheus.NewMiddleware("identity"))
	e.Use(middleware.Auth(cfg.JWTSecret))

	// --- Repositories ---
	accounts := identitymongo.NewAccountRepository(db)
	verifications := identitymongo.NewVerificationRepository(db)

	// --- Services ---
	tokens := service.NewTokenIssuer(cfg.JWTSecret, cfg.Auth.TokenTTL)
	registration := service.NewRegistrationService(accounts, verifications, notifier, cfg.Auth.CodeTTL)
	login := service.NewLoginService(accounts, verifications, tokens, cfg.Auth.MaxLoginAttempts, cfg.Auth.LockoutWindow)
	verification := service.NewVerificationService(accounts, verifications, notifier, cfg.Auth.CodeTTL, cfg.FrontendURL)
	recovery := service.NewRecoveryService(accounts, verifications, notifier, cfg.Auth.RandomPasswordTTL)
	admin := service.NewAccountAdminService(accounts)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(registration, login)
	verificationHandler := handler.NewVerificationHandler(verification)
	recoveryHandler := handler.NewRecoveryHandler(recovery)
	adminHandler := handler.NewAdminHandler(admin)

	limiter := identityredis.NewFixedWindowLimiter(rdb, cfg.RateLimit.Max, cfg.RateLimit.Window, "ratelimit")

	// --- Auth routes ---
	e.POST("/auth/register", authHandler.Register)
	e.POST("/auth/login", authHandler.Login)

	// --- Verification routes (rate limited: codes are guessable) ---
	e.POST("/auth/email/verify", verificationHandler.VerifyEmail, middleware.RateLimit(limiter, "email_verify", log))
	e.POST("/auth/email/resend", verificationHandler.ResendEmailCode, middleware.RateLimit(limiter, "email_resend", log))
	e.POST("/auth/phone/send", verificationHandler.SendPhoneCode, middleware.RateLimit(limiter, "phone_send", log))
	e.POST("/auth/phone/verify", verificationHandler.VerifyPhone, middleware.RateLimit(limiter, "phone_verify", log))

	// --- Recovery routes ---
	e.POST("/auth/recovery", recoveryHandler.RequestRecovery, middleware.RateLimit(limiter, "recovery", log))
	e.POST("/auth/recovery/reset", recoveryHandler.ResetPassword)

	// --- Admin routes ---
	adminGroup := e.Group("/admin", middleware.RequireAuth(), middleware.RBAC(domain.RoleAdmin))
	adminGroup.PUT("/accounts/:id/status", adminHandler.UpdateStatus)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	e.GET("/health", healthHandler.Liveness)          // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?

	// --- Operational endpoints ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}
