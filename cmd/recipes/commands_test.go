package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageza/recipe-hub/backend/config"
	"github.com/pageza/recipe-hub/backend/internal/api"
	"github.com/pageza/recipe-hub/backend/internal/client"
	"github.com/pageza/recipe-hub/backend/internal/router"
	"github.com/pageza/recipe-hub/backend/internal/service"
	"github.com/pageza/recipe-hub/backend/internal/store"
)

type testEnv struct {
	apiURL    string
	stateFile string
}

func setupTestEnv(t *testing.T) testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	catalog := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"recipes":[
			{"id":101,"title":"Green Curry","readyInMinutes":40,"vegetarian":true,"vegan":true,
			 "extendedIngredients":[{"name":"tofu","original":"200g tofu"}],"instructions":"Simmer."},
			{"id":102,"title":"Steak Frites","readyInMinutes":25,
			 "extendedIngredients":[{"name":"steak","original":"2 steaks"}],"instructions":"Grill."}
		]}`))
	}))
	t.Cleanup(catalog.Close)

	cfg := &config.Config{
		CORSOrigins:       []string{"*"},
		SpoonacularURL:    catalog.URL,
		SpoonacularAPIKey: "test-key",
	}
	srv := httptest.NewServer(router.SetupRouter(cfg, api.Dependencies{
		Recipes:   service.NewRecipeService(store.NewMemoryStore(), nil),
		Discovery: service.NewDiscoveryService(cfg, nil),
	}))
	t.Cleanup(srv.Close)

	return testEnv{apiURL: srv.URL, stateFile: filepath.Join(t.TempDir(), "state.json")}
}

func (e testEnv) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	full := append([]string{name, "--api-url", e.apiURL, "--state-file", e.stateFile}, args...)
	err := newApp(&out).Run(context.Background(), full)
	return out.String(), err
}

func TestRecipeCommands(t *testing.T) {
	env := setupTestEnv(t)

	out, err := env.run(t, "add", "--title", "Soup", "--ingredient", "water", "--ingredient", "salt",
		"--instructions", "Boil it.", "--diet", "vegan")
	require.NoError(t, err)
	assert.Contains(t, out, "Created Soup")

	recipes, err := client.NewAPIClient(env.apiURL).List(context.Background())
	require.NoError(t, err)
	require.Len(t, recipes, 1)
	id := recipes[0].ID

	out, err = env.run(t, "list", "--query", "SALT")
	require.NoError(t, err)
	assert.Contains(t, out, "Soup")
	assert.Contains(t, out, "vegan")

	out, err = env.run(t, "list", "--query", "pizza")
	require.NoError(t, err)
	assert.Contains(t, out, "No recipes found")

	out, err = env.run(t, "edit", "--duration", "45", id)
	require.NoError(t, err)
	assert.Contains(t, out, "1 modified")

	out, err = env.run(t, "show", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Duration: 45 minutes")
	assert.Contains(t, out, "  - water")

	out, err = env.run(t, "delete", id)
	require.NoError(t, err)
	assert.Contains(t, out, "Deleted "+id)

	_, err = env.run(t, "show", id)
	assert.Error(t, err)

	_, err = env.run(t, "show")
	assert.Error(t, err)
}

func TestFavoriteCommands(t *testing.T) {
	env := setupTestEnv(t)

	_, err := env.run(t, "add", "--title", "Soup", "--ingredient", "water", "--instructions", "Boil it.")
	require.NoError(t, err)
	_, err = env.run(t, "add", "--title", "Salad", "--ingredient", "lettuce", "--instructions", "Toss.")
	require.NoError(t, err)

	recipes, err := client.NewAPIClient(env.apiURL).List(context.Background())
	require.NoError(t, err)
	require.Len(t, recipes, 2)
	soupID := recipes[0].ID

	out, err := env.run(t, "fav", soupID)
	require.NoError(t, err)
	assert.Contains(t, out, "Added")

	out, err = env.run(t, "favorites")
	require.NoError(t, err)
	assert.Contains(t, out, "Soup")
	assert.NotContains(t, out, "Salad")

	out, err = env.run(t, "favorites", "--query", "lettuce")
	require.NoError(t, err)
	assert.Contains(t, out, "No recipes found")

	out, err = env.run(t, "fav", soupID)
	require.NoError(t, err)
	assert.Contains(t, out, "Removed")

	out, err = env.run(t, "favorites")
	require.NoError(t, err)
	assert.Contains(t, out, "No recipes found")
}

func TestDiscoverCommands(t *testing.T) {
	env := setupTestEnv(t)

	out, err := env.run(t, "discover", "--diet", "vegan")
	require.NoError(t, err)
	assert.Contains(t, out, "Green Curry")
	assert.NotContains(t, out, "Steak Frites")

	out, err = env.run(t, "discover", "--max-ready-time", "30")
	require.NoError(t, err)
	assert.Contains(t, out, "Steak Frites")
	assert.NotContains(t, out, "Green Curry")

	out, err = env.run(t, "import", "101", "999")
	require.NoError(t, err)
	assert.Contains(t, out, "Imported Green Curry")
	assert.Contains(t, out, "999 not found")

	out, err = env.run(t, "import", "101")
	require.NoError(t, err)
	assert.Contains(t, out, "Skipped Green Curry")

	_, err = env.run(t, "import")
	assert.Error(t, err)
}
