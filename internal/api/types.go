package api

import "github.com/pageza/recipe-hub/backend/internal/model"

// RecipeResponse wraps a single recipe
type RecipeResponse struct {
	Success bool          `json:"success"`
	Data    *model.Recipe `json:"data"`
}

// RecipeListResponse wraps a list of recipes
type RecipeListResponse struct {
	Success bool            `json:"success"`
	Data    []*model.Recipe `json:"data"`
}

// CreatedResponse is returned when a recipe is created or imported
type CreatedResponse struct {
	Success bool          `json:"success"`
	ID      string        `json:"id"`
	Data    *model.Recipe `json:"data"`
}

// ModifiedResponse is returned by updates
type ModifiedResponse struct {
	Success       bool  `json:"success"`
	ModifiedCount int64 `json:"modifiedCount"`
}

// DeletedResponse is returned by deletes
type DeletedResponse struct {
	Success      bool  `json:"success"`
	DeletedCount int64 `json:"deletedCount"`
}

// FilterRequest is the body of the dietary filter endpoint
type FilterRequest struct {
	Restrictions []string `json:"restrictions"`
}
