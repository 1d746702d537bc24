package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/recipe-hub/backend/internal/apperr"
	"github.com/pageza/recipe-hub/backend/internal/middleware"
	"github.com/pageza/recipe-hub/backend/internal/model"
	"github.com/pageza/recipe-hub/backend/internal/service"
)

type RecipeHandler struct {
	recipes      service.IRecipeService
	writeLimiter *middleware.RateLimiter
}

func NewRecipeHandler(recipes service.IRecipeService, writeLimiter *middleware.RateLimiter) *RecipeHandler {
	return &RecipeHandler{
		recipes:      recipes,
		writeLimiter: writeLimiter,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		recipes.GET("", h.ListRecipes)
		recipes.GET("/search/:term", h.SearchRecipes)
		recipes.GET("/:id", h.GetRecipe)
		recipes.POST("/filter", h.FilterRecipes)
		recipes.POST("", limited(h.writeLimiter, h.CreateRecipe)...)
		recipes.PUT("/:id", limited(h.writeLimiter, h.UpdateRecipe)...)
		recipes.DELETE("/:id", limited(h.writeLimiter, h.DeleteRecipe)...)
		recipes.DELETE("", limited(h.writeLimiter, h.DeleteAllRecipes)...)
	}
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	recipes, err := h.recipes.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, RecipeListResponse{Success: true, Data: recipes})
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	recipe, err := h.recipes.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, RecipeResponse{Success: true, Data: recipe})
}

func (h *RecipeHandler) SearchRecipes(c *gin.Context) {
	recipes, err := h.recipes.SearchByTitle(c.Request.Context(), c.Param("term"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, RecipeListResponse{Success: true, Data: recipes})
}

func (h *RecipeHandler) FilterRecipes(c *gin.Context) {
	var req FilterRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Restrictions == nil {
		respondError(c, apperr.NewValidationError("Please provide an array of dietary restrictions"))
		return
	}

	recipes, err := h.recipes.FilterByDietaryFlags(c.Request.Context(), req.Restrictions)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, RecipeListResponse{Success: true, Data: recipes})
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var in model.RecipeInput
	if !bindJSON(c, &in) {
		return
	}

	recipe, err := h.recipes.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, CreatedResponse{Success: true, ID: recipe.ID, Data: recipe})
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	var patch model.RecipePatch
	if !bindJSON(c, &patch) {
		return
	}

	modified, err := h.recipes.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, ModifiedResponse{Success: true, ModifiedCount: modified})
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	deleted, err := h.recipes.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, DeletedResponse{Success: true, DeletedCount: deleted})
}

func (h *RecipeHandler) DeleteAllRecipes(c *gin.Context) {
	deleted, err := h.recipes.DeleteAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, DeletedResponse{Success: true, DeletedCount: deleted})
}
