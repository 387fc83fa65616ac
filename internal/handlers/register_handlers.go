package handlers

import (
	"github.com/SscSPs/rivanna_bank_ledger/cmd/docs"
	portssvc "github.com/SscSPs/rivanna_bank_ledger/internal/core/ports/services"
	"github.com/SscSPs/rivanna_bank_ledger/internal/middleware"
	"github.com/SscSPs/rivanna_bank_ledger/internal/platform/config"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces.
// A nil rateLimiter disables rate limiting.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	rateLimiter *limiter.Limiter,
) {
	r.GET("/health", getHealth)

	api := r.Group("/api/v1")
	if rateLimiter != nil {
		api.Use(middleware.RateLimit(rateLimiter))
	}

	// Public authentication routes
	registerAuthRoutes(api, services.Provisioning, services.Auth)

	// Everything else acts on behalf of the authenticated customer
	protected := api.Group("", middleware.AuthMiddleware(cfg.JWTSecret))
	RegisterAccountRoutes(protected, services.Provisioning, services.Query, services.Ledger)
	RegisterTransferRoutes(protected, services.Ledger, services.Query, services.Provisioning)
	RegisterTransactionRoutes(protected, services.Query)

	setupSwaggerRoutes(r, cfg)
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
