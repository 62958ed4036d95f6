package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"billsense/internal/config"
	"billsense/internal/handler"
	"billsense/internal/middleware"
)

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	cfg *config.Config,
	log *zap.Logger,
	billingH *handler.BillingHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(log))
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	// Health checks
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)

	v1 := r.Group("/api/v1")

	billing := v1.Group("/billing")
	billing.GET("/analysis", billingH.GetAnalysis)
	billing.GET("/analysis/export", billingH.ExportAnalysis)

	return r
}
