package api

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/grantmatch/grant-match-api/internal/auth"
	apperrors "github.com/grantmatch/grant-match-api/internal/errors"
	"github.com/grantmatch/grant-match-api/internal/logger"
	"github.com/grantmatch/grant-match-api/internal/services"
	"github.com/grantmatch/grant-match-api/pkg/config"
)

// SetupRoutes configures all API routes
func SetupRoutes(r *gin.Engine, db *sql.DB, cfg *config.Config, log logger.Logger) error {
	svcs, err := services.NewServices(db, cfg, log)
	if err != nil {
		return err
	}

	pipeline := services.NewRecommendationPipeline(db, svcs, log)

	healthHandler := NewHealthHandler(db)
	authHandler := NewAuthHandler(svcs.Auth)
	profileHandler := NewProfileHandler(svcs.Profile)
	grantHandler := NewGrantHandler(svcs.Grant)
	recommendationHandler := NewRecommendationHandler(svcs.Recommendation, svcs.Profile)
	feedbackHandler := NewFeedbackHandler(svcs.Feedback)
	pipelineHandler := NewPipelineHandler(pipeline, cfg)

	r.GET("/healthz", healthHandler.Check)

	// Public routes
	public := r.Group("/api/v1")
	{
		public.POST("/auth/login", authHandler.Login)
		public.POST("/auth/register", authHandler.Register)
	}

	// Protected routes
	protected := r.Group("/api/v1")
	protected.Use(auth.JWTMiddleware(cfg.JWTSecret))
	{
		protected.GET("/auth/me", authHandler.Me)

		// Business profile endpoints
		protected.POST("/profiles", profileHandler.CreateProfile)
		protected.GET("/profiles/me", profileHandler.GetMyProfile)
		protected.GET("/profiles/:id", profileHandler.GetProfile)
		protected.PUT("/profiles/:id", profileHandler.UpdateProfile)

		// Grant catalog endpoints
		protected.GET("/grants", grantHandler.GetGrants)
		protected.GET("/grants/:id", grantHandler.GetGrant)
		protected.POST("/grants", grantHandler.CreateGrant)
		protected.GET("/grants/:id/requirements", grantHandler.GetRequirements)
		protected.POST("/applications", grantHandler.RecordApplication)

		// Compatibility analysis endpoints
		protected.GET("/profiles/:id/compatibility/:grant_id", recommendationHandler.AnalyzeCompatibility)
		protected.GET("/profiles/:id/compliance/:grant_id", recommendationHandler.CheckCompliance)
		protected.GET("/profiles/:id/predictions/:grant_id", recommendationHandler.PredictSuccess)
		protected.GET("/profiles/:id/recommendations", recommendationHandler.GetRecommendations)
		protected.POST("/profiles/:id/recommendations/refresh", recommendationHandler.RefreshRecommendations)

		// Feedback endpoints
		protected.POST("/feedback", feedbackHandler.SubmitFeedback)
		protected.GET("/feedback/metrics", feedbackHandler.GetMetrics)

		// Batch pipeline endpoints
		protected.GET("/pipeline/status", pipelineHandler.GetPipelineStatus)
		protected.POST("/pipeline/start", pipelineHandler.StartPipeline)
		protected.POST("/pipeline/stop", pipelineHandler.StopPipeline)
		protected.POST("/pipeline/run-once", pipelineHandler.RunPipelineOnce)
	}

	return nil
}

// respondError maps application errors to HTTP statuses
func respondError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		c.JSON(statusForCode(appErr.Code), gin.H{"error": appErr.Message})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

func statusForCode(code string) int {
	switch code {
	case apperrors.CodeNotFound:
		return http.StatusNotFound
	case apperrors.CodeInvalidInput:
		return http.StatusBadRequest
	case apperrors.CodeUnauthorized:
		return http.StatusUnauthorized
	case apperrors.CodeForbidden:
		return http.StatusForbidden
	case apperrors.CodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
