package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/EXTREMOPHILARUM/google-timeline-analyzer/internal/config"
	"github.com/EXTREMOPHILARUM/google-timeline-analyzer/internal/database"
	"github.com/EXTREMOPHILARUM/google-timeline-analyzer/internal/detection"
	"github.com/EXTREMOPHILARUM/google-timeline-analyzer/internal/handler"
	"github.com/EXTREMOPHILARUM/google-timeline-analyzer/internal/middleware"
	"github.com/EXTREMOPHILARUM/google-timeline-analyzer/internal/repository"
	"github.com/EXTREMOPHILARUM/google-timeline-analyzer/internal/service"
)

// SetupRouter wires repositories, services and handlers onto a gin engine
func SetupRouter(cfg *config.Config) *gin.Engine {
	db := database.GetDB()

	segmentRepo := repository.NewSegmentRepository(db)
	tripRepo := repository.NewTripRepository(db)
	profileRepo := repository.NewProfileRepository(db)

	detector := detection.NewDetector(segmentRepo, tripRepo, profileRepo)

	segmentHandler := handler.NewSegmentHandler(service.NewSegmentService(segmentRepo))
	tripHandler := handler.NewTripHandler(service.NewTripService(tripRepo))
	profileHandler := handler.NewProfileHandler(service.NewProfileService(profileRepo))
	detectionHandler := handler.NewDetectionHandler(service.NewDetectionService(detector, cfg.Detection))

	r := gin.New()
	r.Use(middleware.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(100, time.Minute))

	// CORS
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Timeline Analyzer API is running",
		})
	})

	api := r.Group("/api/v1")
	{
		segments := api.Group("/segments")
		{
			segments.GET("", segmentHandler.GetSegments)
			segments.POST("", segmentHandler.ImportSegments)
		}

		profile := api.Group("/profile")
		{
			profile.GET("", profileHandler.GetProfile)
			profile.PUT("", profileHandler.SaveProfile)
		}

		trips := api.Group("/trips")
		{
			trips.GET("", tripHandler.GetTrips)
			trips.GET("/summary", tripHandler.GetSummary)
			trips.GET("/:id", tripHandler.GetTripByID)
		}

		api.POST("/detect", detectionHandler.Detect)
	}

	return r
}
