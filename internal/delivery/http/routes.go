package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rfpdesk/backend/config"
	"github.com/rfpdesk/backend/internal/domain"
	"go.uber.org/zap"
)

const apiPrefix = "/api/v1"

// RouterDeps carries the collaborators the router wires into middleware
type RouterDeps struct {
	Credential domain.CredentialChecker
	Limiter    domain.RateLimiter
	Logger     *zap.Logger
}

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler, deps RouterDeps) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()

	// Only listed proxies may set the client IP via X-Forwarded-For
	if err := router.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		logger.Error("invalid trusted proxies, trusting none", zap.Error(err))
		_ = router.SetTrustedProxies(nil)
	}

	// Global middleware; CORS also answers OPTIONS on unknown paths
	router.Use(RecoveryMiddleware(logger))
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware(logger))
	router.Use(MetricsMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	router.GET("/health", handler.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes
	v1 := router.Group(apiPrefix)
	v1.Use(RateLimitMiddleware(deps.Limiter, logger))
	{
		v1.GET("/catalog", handler.Catalog)
		v1.POST("/pricing/quote", handler.Quote)
		v1.POST("/extract-pdf-text", handler.ExtractPDFText)

		// LLM gateway endpoints
		gateway := v1.Group("")
		gateway.Use(RequireCredential(deps.Credential, logger))
		{
			gateway.POST("/summarize", handler.Summarize)
			gateway.POST("/match", handler.Match)
			gateway.POST("/generate-proposal", handler.GenerateProposal)
		}
	}

	return router
}
