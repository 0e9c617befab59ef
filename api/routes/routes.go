package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/picquest/rewards-backend/internal/config"
	"github.com/picquest/rewards-backend/internal/handlers"
	"github.com/picquest/rewards-backend/internal/middleware"
	"github.com/picquest/rewards-backend/pkg/metrics"
)

// HandlerDependencies carries the constructed handlers into the router
type HandlerDependencies struct {
	AuthHandler       *handlers.AuthHandler
	SubmissionHandler *handlers.SubmissionHandler
	WalletHandler     *handlers.WalletHandler
	RedemptionHandler *handlers.RedemptionHandler
	WebhookHandler    *handlers.WebhookHandler
	BankHandler       *handlers.BankHandler
	UserHandler       *handlers.UserHandler
	UploadHandler     *handlers.UploadHandler
}

// SetupRouter sets up the router
func SetupRouter(cfg *config.Config, deps HandlerDependencies) *gin.Engine {
	router := gin.Default()

	router.Use(middleware.CORSMiddleware(cfg))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware())

	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// Locally stored artifacts are served straight from disk.
	if cfg.Artifact.Dir != "" {
		router.Static(cfg.Artifact.BaseURL, cfg.Artifact.Dir)
	}

	// Public routes
	public := router.Group("/api/v1")
	{
		public.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{"status": "ok"})
		})

		public.POST("/auth/login", deps.AuthHandler.Login)

		// The reviewer callback authenticates by body signature, not identity.
		public.POST("/n8n/webhook", deps.WebhookHandler.ReceiveVerdict)
	}

	// Identity-protected routes
	protected := router.Group("/api/v1")
	protected.Use(middleware.IdentityMiddleware(cfg))
	{
		protected.POST("/submissions", deps.SubmissionHandler.CreateSubmission)
		protected.GET("/submissions", deps.SubmissionHandler.ListSubmissions)

		protected.GET("/wallet/me", deps.WalletHandler.GetMyWallet)

		protected.POST("/redemptions", deps.RedemptionHandler.CreateRedemption)
		protected.GET("/redemptions", deps.RedemptionHandler.ListRedemptions)

		protected.GET("/bank", deps.BankHandler.GetBankDetails)
		protected.PUT("/bank", deps.BankHandler.UpdateBankDetails)

		protected.PUT("/user/expertise", deps.UserHandler.UpdateExpertise)

		protected.POST("/upload", deps.UploadHandler.Upload)
	}

	// Back-office routes
	admin := router.Group("/api/v1/admin")
	admin.Use(middleware.AdminAuthMiddleware(cfg))
	{
		admin.PUT("/redemptions/:id/status", deps.RedemptionHandler.UpdateRedemptionStatus)
	}

	return router
}
