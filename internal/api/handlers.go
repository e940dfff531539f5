package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/pageza/cravings/backend/internal/service"
)

// HealthCheck returns the health status of the API
func HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// RegisterRoutes registers all API routes
func RegisterRoutes(router *gin.Engine, recipes service.IRecipeService, logger logrus.FieldLogger) {
	router.GET("/health", HealthCheck)

	recipeHandler := NewRecipeHandler(recipes, logger)

	v1 := router.Group("/api/v1")
	recipeHandler.RegisterRoutes(v1)

	// Unversioned paths used by the existing web client
	legacy := router.Group("/api")
	legacy.POST("/recipes", recipeHandler.Suggest)
	legacy.POST("/recipe-details", recipeHandler.Detail)
}
