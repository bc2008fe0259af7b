package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"go-referral-backend/config"
	"go-referral-backend/internal/delivery/http/middleware"
	"go-referral-backend/internal/delivery/http/response"
	"go-referral-backend/internal/domain"
)

// maxRequestBytes caps the request body well above the 5 MiB attachment
// ceiling, so an oversize upload reaches the validator and comes back as a
// field error instead of a dropped connection.
const maxRequestBytes = 10 << 20

type RouterDeps struct {
	ReferralUC domain.ReferralUsecase
	Config     *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.MaxMultipartMemory = 8 << 20

	window := time.Duration(deps.Config.RateLimitWindowSeconds) * time.Second

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(deps.Config.FrontendURL)) // CORS must be first!
	r.Use(gin.Recovery())
	r.Use(gin.Logger()) // Use standard Gin logger
	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.ErrorHandler(deps.Config.IsDevelopment()))
	r.Use(middleware.RateLimitMiddleware(middleware.GlobalRateLimitConfig(deps.Config.RateLimitGlobalThreshold, window)))
	r.Use(func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxRequestBytes)
		c.Next()
	})

	v1 := r.Group("/v1")

	// Health Check
	v1.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, "System operational", nil)
	})

	// Public routes; the submission route carries the stricter upload limit
	submitLimit := middleware.RateLimitMiddleware(middleware.SubmitRateLimitConfig(deps.Config.RateLimitSubmitThreshold, window))
	NewReferralHandler(v1, deps.ReferralUC, submitLimit)

	// Swagger
	v1.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}
