package router

import (
	"github.com/gin-gonic/gin"

	"github.com/pageza/recipe-hub/backend/config"
	"github.com/pageza/recipe-hub/backend/internal/api"
	"github.com/pageza/recipe-hub/backend/internal/middleware"
)

// SetupRouter configures the middleware chain and the application routes
func SetupRouter(cfg *config.Config, deps api.Dependencies) *gin.Engine {
	router := gin.New()
	// route on the escaped path so an encoded "/" stays inside a parameter
	router.UseRawPath = true

	router.Use(middleware.RequestLogger())
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS(cfg.CORSOrigins))
	router.Use(middleware.BodyLimit(middleware.MaxBodyBytes))

	router.NoRoute(middleware.NotFound())

	api.RegisterRoutes(router, deps)

	return router
}
