package api

import (
	"github.com/annvu/foodvision/internal/api/handler"
	"github.com/annvu/foodvision/internal/api/middleware"
	"github.com/annvu/foodvision/internal/config"
	"github.com/annvu/foodvision/internal/service"
	"github.com/gin-gonic/gin"
)

// SetupRouter configures the Gin router with all routes
func SetupRouter(
	recognition *service.RecognitionService,
	meals *service.MealService,
	cfg *config.Config,
) *gin.Engine {
	// Set Gin mode
	switch cfg.Server.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()

	// Add middleware
	r.Use(gin.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins:  cfg.Server.CORS.AllowedOrigins,
		AllowAllOrigins: cfg.Server.CORS.AllowAllOrigins,
	}))

	// Create handlers
	healthHandler := handler.NewHealthHandler()
	predictHandler := handler.NewPredictHandler(recognition)
	mealHandler := handler.NewMealHandler(meals)

	// Health check
	r.GET("/health", healthHandler.Health)

	// Prediction
	r.POST("/predict", predictHandler.Predict)

	// Meal history
	r.POST("/save-meal", mealHandler.SaveMeal)
	r.GET("/meal-history", mealHandler.History)
	r.GET("/daily-summary", mealHandler.Summary)
	r.DELETE("/meal/:id", mealHandler.Delete)

	return r
}
