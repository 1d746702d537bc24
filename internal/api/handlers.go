package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/pageza/recipe-hub/backend/internal/apperr"
	"github.com/pageza/recipe-hub/backend/internal/middleware"
	"github.com/pageza/recipe-hub/backend/internal/service"
)

// Dependencies are the services and optional rate limiters the routes use
type Dependencies struct {
	Recipes   service.IRecipeService
	Discovery service.IDiscoveryService

	// Nil limiters leave the routes unlimited
	DiscoveryLimiter *middleware.RateLimiter
	WriteLimiter     *middleware.RateLimiter
}

// Banner answers the root path
func Banner(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Recipe Hub API is running!"})
}

// HealthCheck reports whether the recipe store is reachable
func HealthCheck(recipes service.IRecipeService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := recipes.Ping(ctx); err != nil {
			logrus.WithError(err).Warn("Health check failed")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": apperr.Message(err)})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	}
}

// RegisterRoutes registers all API routes
func RegisterRoutes(router *gin.Engine, deps Dependencies) {
	router.GET("/", Banner)
	router.GET("/health", HealthCheck(deps.Recipes))

	api := router.Group("/api")

	recipeHandler := NewRecipeHandler(deps.Recipes, deps.WriteLimiter)
	recipeHandler.RegisterRoutes(api)

	discoveryHandler := NewDiscoveryHandler(deps.Discovery, deps.Recipes, deps.DiscoveryLimiter, deps.WriteLimiter)
	discoveryHandler.RegisterRoutes(api)
}

// limited prepends the limiter's middleware when one is configured
func limited(limiter *middleware.RateLimiter, handler gin.HandlerFunc) []gin.HandlerFunc {
	if limiter == nil {
		return []gin.HandlerFunc{handler}
	}
	return []gin.HandlerFunc{limiter.RateLimitMiddleware(), handler}
}

// respondError writes err in the uniform failure shape with its mapped status
func respondError(c *gin.Context, err error) {
	status := apperr.StatusCode(err)
	entry := logrus.WithFields(logrus.Fields{
		"request_id": c.GetString("request_id"),
		"status":     status,
	}).WithError(err)
	if status >= http.StatusInternalServerError {
		entry.Error("Request failed")
	} else {
		entry.Debug("Request rejected")
	}
	c.JSON(status, middleware.ErrorResponse{Error: apperr.Message(err)})
}

// bindJSON decodes the request body into obj, answering 400 or 413 itself
// when that fails. It reports whether the handler should continue.
func bindJSON(c *gin.Context, obj interface{}) bool {
	err := c.ShouldBindJSON(obj)
	if err == nil {
		return true
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		c.JSON(http.StatusRequestEntityTooLarge, middleware.ErrorResponse{Error: "Request body too large"})
		return false
	}
	respondError(c, apperr.NewValidationError("Invalid request body: "+err.Error()))
	return false
}
