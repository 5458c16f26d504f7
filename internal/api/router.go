package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/storefront/identity-service/docs"
	"github.com/storefront/identity-service/internal/api/handler"
	"github.com/storefront/identity-service/internal/api/middleware"
	"github.com/storefront/identity-service/internal/core/domain"
	"github.com/storefront/identity-service/internal/core/ports"
	"github.com/storefront/identity-service/internal/core/service"
	"github.com/storefront/identity-service/internal/infrastructure/config"
	mongodb "github.com/storefront/identity-service/internal/infrastructure/db/mongo"
	"github.com/storefront/identity-service/internal/ratelimit"
)

// NewRouter builds the Echo instance with all routes registered. The rate
// limit store and reset-mail notifier are passed in because their lifecycles
// (sweep loop, worker pool) belong to main.
func NewRouter(
	db *mongo.Database,
	rdb *redis.Client,
	limitStore ratelimit.Store,
	notifier ports.ResetNotifier,
	cfg *config.Config,
	log zerolog.Logger,
) (*echo.Echo, error) {
	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.Logger())
	e.Use(middleware.SecureHeaders())
	e.Use(echoprometheus.NewMiddleware("identity"))

	// --- Repositories ---
	identityRepo := mongodb.NewIdentityRepository(db)
	resetRepo := mongodb.NewResetTokenRepository(db)
	orderRepo := mongodb.NewOrderRepository(db)

	// --- Core services ---
	tokenService, err := service.NewTokenService(cfg.JWTSecret, cfg.Token.AdminTTL, cfg.Token.CustomerTTL)
	if err != nil {
		return nil, err
	}
	credentialService, err := service.NewCredentialService(identityRepo, service.AdminAccount{
		Email:        cfg.Admin.Email,
		PasswordHash: cfg.Admin.PasswordHash,
	})
	if err != nil {
		return nil, err
	}
	authService := service.NewAuthService(credentialService, tokenService, log)
	registrationService := service.NewRegistrationService(credentialService, tokenService, log)
	resetService := service.NewPasswordResetService(identityRepo, resetRepo, credentialService, notifier, cfg.Reset.TokenTTL, log)
	orderService := service.NewOrderService(orderRepo, log)
	adminService := service.NewAdminService(identityRepo, orderRepo)

	// --- Handlers ---
	authHandler := handler.NewAuthHandler(authService, registrationService, resetService)
	orderHandler := handler.NewOrderHandler(orderService)
	adminHandler := handler.NewAdminHandler(adminService)
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(db, rdb)

	// --- Gate middleware ---
	authenticate := middleware.Authenticate(tokenService, log)
	customerOnly := middleware.RequireRole(domain.RoleCustomer)
	adminOnly := middleware.RequireRole(domain.RoleAdmin)

	limiter := ratelimit.NewLimiter(limitStore)
	limit := func(route string, rl config.RouteLimit) echo.MiddlewareFunc {
		return middleware.RateLimit(limiter, route, ratelimit.Config{
			Window:  rl.Window,
			Max:     rl.Max,
			Message: rl.Message,
		}, log)
	}

	// --- Auth routes (rate limited per route class) ---
	e.POST("/auth/register", authHandler.Register, limit("register", cfg.RateLimit.Register))
	e.POST("/auth/login", authHandler.Login, limit("login", cfg.RateLimit.Login))
	e.POST("/auth/forgot-password", authHandler.ForgotPassword, limit("forgot", cfg.RateLimit.Forgot))
	e.POST("/auth/reset-password", authHandler.ResetPassword, limit("reset", cfg.RateLimit.Reset))

	// --- Customer-scoped resources ---
	e.GET("/orders", orderHandler.List, authenticate, customerOnly)
	e.GET("/orders/:id", orderHandler.Get, authenticate, customerOnly)

	// --- Admin routes ---
	e.GET("/admin/identities", adminHandler.ListIdentities, authenticate, adminOnly)
	e.GET("/admin/orders", adminHandler.ListOrders, authenticate, adminOnly)

	// --- Health probes (no auth required) ---
	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	// --- Observability & docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e, nil
}
