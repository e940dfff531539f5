package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/pageza/cravings/backend/internal/api"
	"github.com/pageza/cravings/backend/internal/middleware"
	"github.com/pageza/cravings/backend/internal/service"
)

// SetupRouter configures the middleware chain and the application routes
func SetupRouter(corsOrigins []string, recipes service.IRecipeService, logger logrus.FieldLogger) *gin.Engine {
	router := gin.New()

	// Request logging wraps recovery so recovered panics are logged with their status
	router.Use(
		middleware.RequestLogger(logger),
		middleware.Recovery(logger),
		middleware.Metrics(),
		middleware.CORS(corsOrigins),
	)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	api.RegisterRoutes(router, recipes, logger)

	return router
}
