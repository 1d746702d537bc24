package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipe-hub/backend/internal/middleware"
	"github.com/pageza/recipe-hub/backend/internal/model"
	"github.com/pageza/recipe-hub/backend/internal/service"
)

// DiscoveryHandler proxies the external recipe catalog and imports from it
type DiscoveryHandler struct {
	discovery    service.IDiscoveryService
	recipes      service.IRecipeService
	limiter      *middleware.RateLimiter
	writeLimiter *middleware.RateLimiter
}

func NewDiscoveryHandler(discovery service.IDiscoveryService, recipes service.IRecipeService, limiter, writeLimiter *middleware.RateLimiter) *DiscoveryHandler {
	return &DiscoveryHandler{
		discovery:    discovery,
		recipes:      recipes,
		limiter:      limiter,
		writeLimiter: writeLimiter,
	}
}

func (h *DiscoveryHandler) RegisterRoutes(router *gin.RouterGroup) {
	catalog := router.Group("/spoonacular/recipes")
	{
		catalog.GET("/random", limited(h.limiter, h.RandomRecipes)...)
		catalog.GET("/search", limited(h.limiter, h.SearchRecipes)...)
		catalog.POST("/import", limited(h.writeLimiter, h.ImportRecipe)...)
	}
}

// RandomRecipes passes the catalog's random recipes through unchanged
func (h *DiscoveryHandler) RandomRecipes(c *gin.Context) {
	body, err := h.discovery.Random(c.Request.Context(), queryNumber(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

// SearchRecipes passes the catalog's search results through unchanged
func (h *DiscoveryHandler) SearchRecipes(c *gin.Context) {
	body, err := h.discovery.Search(c.Request.Context(), c.Query("query"), queryNumber(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

// ImportRecipe adds a catalog recipe to the collection
func (h *DiscoveryHandler) ImportRecipe(c *gin.Context) {
	var discovered model.DiscoveredRecipe
	if !bindJSON(c, &discovered) {
		return
	}

	recipe, err := h.recipes.ImportDiscovered(c.Request.Context(), discovered)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, CreatedResponse{Success: true, ID: recipe.ID, Data: recipe})
}

// queryNumber reads ?number=, leaving defaults to the catalog client
func queryNumber(c *gin.Context) int {
	n, err := strconv.Atoi(c.Query("number"))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
