package router

import (
	"net/http"

	"github.com/beathaus/jobs-be/internal/api/auth"
	"github.com/beathaus/jobs-be/internal/api/handler"
	"github.com/gin-gonic/gin"
)

// SetupRouter configures and returns the Gin router with all routes
func SetupRouter(deps *handler.Dependencies, tokens *auth.TokenService) *gin.Engine {
	r := gin.New()

	// Middleware
	r.Use(gin.Recovery())
	r.Use(LoggerMiddleware(deps.Logger))
	r.Use(CORSMiddleware())

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		if deps.DBClient != nil {
			if err := deps.DBClient.HealthCheck(c.Request.Context()); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{
					"status":  "unhealthy",
					"service": "job-api-service",
				})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "job-api-service",
		})
	})

	jobHandler := handler.NewJobHandler(deps)
	escrowHandler := handler.NewEscrowHandler(deps)
	uploadHandler := handler.NewUploadHandler(deps)

	// API v1 routes, all authenticated
	v1 := r.Group("/api/v1")
	v1.Use(AuthMiddleware(tokens))
	{
		v1.POST("/uploads", uploadHandler.CreateUploadURL)

		jobs := v1.Group("/jobs")
		{
			jobs.POST("", jobHandler.CreateJob)
			jobs.GET("", jobHandler.ListJobs)
			jobs.GET("/mine", jobHandler.ListMyJobs)
			jobs.GET("/:job_id", jobHandler.GetJob)

			// Moderation: PENDING -> OPEN
			jobs.POST("/:job_id/open", RequireRole(auth.RoleAdmin), jobHandler.OpenJob)

			jobs.POST("/:job_id/complete", jobHandler.CompleteJob)
			jobs.POST("/:job_id/cancel", jobHandler.CancelJob)

			jobs.POST("/:job_id/bids", jobHandler.SubmitBid)
			jobs.POST("/:job_id/bids/:bid_id/accept", jobHandler.AcceptBid)
			jobs.DELETE("/:job_id/bids/:bid_id", jobHandler.DeclineBid)

			jobs.GET("/:job_id/escrow", escrowHandler.GetEscrow)
			jobs.POST("/:job_id/escrow/fund", escrowHandler.FundEscrow)
			jobs.POST("/:job_id/escrow/release", escrowHandler.ReleaseEscrow)
			jobs.POST("/:job_id/pay", escrowHandler.CapturePayment)
		}
	}

	return r
}
