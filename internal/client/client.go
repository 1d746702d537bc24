// Package client talks to the recipe API and holds the client-side state:
// the cached recipe list, the local search filter and the favorites set.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/pageza/recipe-hub/backend/internal/model"
)

// DefaultBaseURL is where the API listens when run locally
const DefaultBaseURL = "http://localhost:5000"

// APIError is a failed response from the recipe API
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.Status, e.Message)
}

// APIClient is a typed client for every recipe API endpoint
type APIClient struct {
	client *resty.Client
}

// NewAPIClient creates a client for the API at baseURL
func NewAPIClient(baseURL string) *APIClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &APIClient{
		client: resty.New().
			SetBaseURL(strings.TrimRight(baseURL, "/")).
			SetTimeout(30*time.Second).
			SetHeader("Content-Type", "application/json"),
	}
}

type listResponse struct {
	Data []*model.Recipe `json:"data"`
}

type recipeResponse struct {
	ID   string        `json:"id"`
	Data *model.Recipe `json:"data"`
}

type countResponse struct {
	ModifiedCount int64 `json:"modifiedCount"`
	DeletedCount  int64 `json:"deletedCount"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// List fetches every recipe
func (c *APIClient) List(ctx context.Context) ([]*model.Recipe, error) {
	var out listResponse
	if err := c.do(ctx, http.MethodGet, "/api/recipes", nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// Get fetches a recipe by id
func (c *APIClient) Get(ctx context.Context, id string) (*model.Recipe, error) {
	var out recipeResponse
	if err := c.do(ctx, http.MethodGet, "/api/recipes/"+url.PathEscape(id), nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// Search runs the server-side title search. A blank term lists everything.
func (c *APIClient) Search(ctx context.Context, term string) ([]*model.Recipe, error) {
	if strings.TrimSpace(term) == "" {
		return c.List(ctx)
	}
	var out listResponse
	if err := c.do(ctx, http.MethodGet, "/api/recipes/search/"+url.PathEscape(term), nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// Filter returns recipes with every named dietary flag set
func (c *APIClient) Filter(ctx context.Context, restrictions []string) ([]*model.Recipe, error) {
	if restrictions == nil {
		restrictions = []string{}
	}
	var out listResponse
	body := map[string][]string{"restrictions": restrictions}
	if err := c.do(ctx, http.MethodPost, "/api/recipes/filter", body, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// Create adds a recipe
func (c *APIClient) Create(ctx context.Context, in model.RecipeInput) (*model.Recipe, error) {
	var out recipeResponse
	if err := c.do(ctx, http.MethodPost, "/api/recipes", in, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// Update sends the present fields of patch
func (c *APIClient) Update(ctx context.Context, id string, patch model.RecipePatch) (int64, error) {
	var out countResponse
	if err := c.do(ctx, http.MethodPut, "/api/recipes/"+url.PathEscape(id), patch, &out); err != nil {
		return 0, err
	}
	return out.ModifiedCount, nil
}

// Delete removes a recipe
func (c *APIClient) Delete(ctx context.Context, id string) (int64, error) {
	var out countResponse
	if err := c.do(ctx, http.MethodDelete, "/api/recipes/"+url.PathEscape(id), nil, &out); err != nil {
		return 0, err
	}
	return out.DeletedCount, nil
}

// DeleteAll clears the collection
func (c *APIClient) DeleteAll(ctx context.Context) (int64, error) {
	var out countResponse
	if err := c.do(ctx, http.MethodDelete, "/api/recipes", nil, &out); err != nil {
		return 0, err
	}
	return out.DeletedCount, nil
}

// DiscoverRandom fetches random recipes from the catalog proxy
func (c *APIClient) DiscoverRandom(ctx context.Context, number int) ([]model.DiscoveredRecipe, error) {
	var out model.RandomRecipes
	path := "/api/spoonacular/recipes/random?number=" + strconv.Itoa(number)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out.Recipes, nil
}

// DiscoverSearch queries the catalog proxy
func (c *APIClient) DiscoverSearch(ctx context.Context, query string, number int) ([]model.DiscoveredRecipe, error) {
	var out model.SearchResults
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("query", query).
		SetQueryParam("number", strconv.Itoa(number)).
		Get("/api/spoonacular/recipes/search")
	if err := checkResponse(resp, err); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return nil, fmt.Errorf("failed to decode search results: %w", err)
	}
	return out.Results, nil
}

// Import adds a catalog recipe to the collection
func (c *APIClient) Import(ctx context.Context, recipe model.DiscoveredRecipe) (*model.Recipe, error) {
	var out recipeResponse
	if err := c.do(ctx, http.MethodPost, "/api/spoonacular/recipes/import", recipe, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

func (c *APIClient) do(ctx context.Context, method, path string, body, out interface{}) error {
	req := c.client.R().SetContext(ctx)
	if body != nil {
		req.SetBody(body)
	}

	resp, err := req.Execute(method, path)
	if err := checkResponse(resp, err); err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("failed to decode %s %s: %w", method, path, err)
	}
	return nil
}

func checkResponse(resp *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	if !resp.IsError() {
		return nil
	}

	var body errorResponse
	message := http.StatusText(resp.StatusCode())
	if json.Unmarshal(resp.Body(), &body) == nil && body.Error != "" {
		message = body.Error
	}
	return &APIError{Status: resp.StatusCode(), Message: message}
}
