package service

import (
	"context"
	"encoding/json"

	"github.com/pageza/recipe-hub/backend/internal/model"
)

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	Create(ctx context.Context, in model.RecipeInput) (*model.Recipe, error)
	List(ctx context.Context) ([]*model.Recipe, error)
	Get(ctx context.Context, id string) (*model.Recipe, error)
	SearchByTitle(ctx context.Context, term string) ([]*model.Recipe, error)
	FilterByDietaryFlags(ctx context.Context, names []string) ([]*model.Recipe, error)
	Update(ctx context.Context, id string, patch model.RecipePatch) (int64, error)
	Delete(ctx context.Context, id string) (int64, error)
	DeleteAll(ctx context.Context) (int64, error)
	ImportDiscovered(ctx context.Context, recipe model.DiscoveredRecipe) (*model.Recipe, error)
	Ping(ctx context.Context) error
}

// IDiscoveryService defines the interface for the external recipe catalog.
// Responses are the upstream JSON, passed through untouched.
type IDiscoveryService interface {
	Random(ctx context.Context, number int) (json.RawMessage, error)
	Search(ctx context.Context, query string, number int) (json.RawMessage, error)
}

// ImageStore persists image bytes and returns the URL they are served from
type ImageStore interface {
	Upload(ctx context.Context, data []byte, contentType string) (string, error)
}
