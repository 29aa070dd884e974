package handler

import (
	"github.com/plakshaa/xrplwallet/internal/adapter/http/middleware"
	redisStore "github.com/plakshaa/xrplwallet/internal/adapter/storage/redis"
	"github.com/plakshaa/xrplwallet/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	CustodySvc     ports.CustodyService
	PaymentSvc     ports.PaymentService
	Oracle         ports.RateOracle
	TokenSvc       ports.TokenService
	RateLimitStore *redisStore.RateLimitStore // nil = rate limiting disabled
	HealthCheckers []ports.HealthChecker
	QuoteCurrency  string
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20)) // 1 MB request body limit

	// Health check (deep, verifies PostgreSQL + Redis)
	r.GET("/health", HealthCheck(deps.HealthCheckers...))

	// Rate limit rules
	rules := middleware.DefaultRateLimitRules()

	// Helper: return rate limiter middleware if store is available, else noop.
	rl := func(group string) gin.HandlerFunc {
		if deps.RateLimitStore == nil {
			return func(c *gin.Context) { c.Next() }
		}
		rule, ok := rules[group]
		if !ok {
			return func(c *gin.Context) { c.Next() }
		}
		return middleware.RateLimiter(deps.RateLimitStore, group, rule, deps.Logger)
	}

	// All API routes require a bearer token from the identity provider.
	jwtAuth := middleware.JWTAuth(deps.TokenSvc, deps.Logger)
	v1 := r.Group("/api/v1", jwtAuth)

	walletHandler := NewWalletHandler(deps.CustodySvc)
	wallets := v1.Group("/wallets")
	{
		wallets.POST("", rl("wallets_write"), walletHandler.Provision)
		wallets.POST("/register", rl("wallets_write"), walletHandler.Register)
		wallets.GET("", rl("wallets_read"), walletHandler.List)
		wallets.GET("/:id", rl("wallets_read"), walletHandler.Get)
		wallets.DELETE("/:id", rl("wallets_write"), walletHandler.Retire)
		wallets.POST("/:id/refresh", rl("wallets_read"), walletHandler.RefreshBalance)
	}

	paymentHandler := NewPaymentHandler(deps.PaymentSvc)
	payments := v1.Group("/payments")
	{
		payments.POST("", rl("payments"), paymentHandler.Create)
		payments.GET("", rl("payments_read"), paymentHandler.List)
		payments.GET("/:id", rl("payments_read"), paymentHandler.Get)
		payments.PATCH("/:id/status", rl("payments"), paymentHandler.UpdateStatus)
	}

	rateHandler := NewRateHandler(deps.Oracle, deps.QuoteCurrency)
	rates := v1.Group("/rates")
	{
		rates.GET("/convert", rl("rates"), rateHandler.Convert)
		rates.GET("/:asset", rl("rates"), rateHandler.SpotPrice)
	}

	return r
}
