package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pageza/recipe-hub/backend/config"
	"github.com/pageza/recipe-hub/backend/internal/api"
	"github.com/pageza/recipe-hub/backend/internal/middleware"
	"github.com/pageza/recipe-hub/backend/internal/model"
	"github.com/pageza/recipe-hub/backend/internal/router"
	"github.com/pageza/recipe-hub/backend/internal/service"
	"github.com/pageza/recipe-hub/backend/internal/store"
)

func setupStore(t *testing.T) *store.SQLStore {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	s, err := store.NewSQLStoreFromDB(db)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	return s
}

func setupRouter(t *testing.T, catalogURL string) *gin.Engine {
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	cfg := &config.Config{
		CORSOrigins:       []string{"*"},
		SpoonacularURL:    catalogURL,
		SpoonacularAPIKey: "dummy",
	}
	deps := api.Dependencies{
		Recipes:          service.NewRecipeService(setupStore(t), nil),
		Discovery:        service.NewDiscoveryService(cfg, rdb),
		DiscoveryLimiter: middleware.NewDiscoveryRateLimiter(rdb, 100),
		WriteLimiter:     middleware.NewWriteRateLimiter(rdb, 100),
	}
	return router.SetupRouter(cfg, deps)
}

func doJSON(t *testing.T, r http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIntegrationCreateModifyDelete(t *testing.T) {
	r := setupRouter(t, "http://127.0.0.1:1")

	w := doJSON(t, r, http.MethodPost, "/api/recipes",
		`{"title":"Soup","ingredients":["water","salt"],"instructions":"Boil it."}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("create failed: %d %s", w.Code, w.Body.String())
	}
	if w.Header().Get(middleware.RequestIDHeader) == "" {
		t.Fatalf("no request id returned")
	}
	var created api.CreatedResponse
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to decode create response: %v", err)
	}
	if created.ID == "" {
		t.Fatalf("recipe id missing")
	}
	if created.Data.Duration != model.DefaultDuration {
		t.Fatalf("expected default duration, got %q", created.Data.Duration)
	}

	path := "/api/recipes/" + created.ID
	w = doJSON(t, r, http.MethodGet, path, "")
	if w.Code != http.StatusOK {
		t.Fatalf("get failed: %d", w.Code)
	}

	w = doJSON(t, r, http.MethodPut, path, `{"duration":"45"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("update failed: %d %s", w.Code, w.Body.String())
	}

	w = doJSON(t, r, http.MethodGet, path, "")
	var got api.RecipeResponse
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("failed to decode get response: %v", err)
	}
	if got.Data.Duration != "45" || got.Data.Title != "Soup" {
		t.Fatalf("unexpected recipe after update: %+v", got.Data)
	}
	if got.Data.UpdatedAt.Before(created.Data.UpdatedAt) {
		t.Fatalf("updatedAt moved backwards")
	}

	w = doJSON(t, r, http.MethodGet, "/api/recipes/search/SOU", "")
	var found api.RecipeListResponse
	if err := json.Unmarshal(w.Body.Bytes(), &found); err != nil {
		t.Fatalf("failed to decode search response: %v", err)
	}
	if len(found.Data) != 1 {
		t.Fatalf("expected one search hit, got %d", len(found.Data))
	}

	w = doJSON(t, r, http.MethodDelete, path, "")
	if w.Code != http.StatusOK {
		t.Fatalf("delete failed: %d", w.Code)
	}
	w = doJSON(t, r, http.MethodGet, path, "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", w.Code)
	}
}

func TestIntegrationImportFromCatalog(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"results":[{"id":7,"title":"Lentil Soup","readyInMinutes":35,"vegan":true,`+
			`"extendedIngredients":[{"name":"lentils","original":"1 cup lentils"}],`+
			`"instructions":"<p>Cook the <b>lentils</b>.</p>"}],"totalResults":1}`)
	}))
	defer ts.Close()

	r := setupRouter(t, ts.URL)

	for i := 0; i < 2; i++ {
		w := doJSON(t, r, http.MethodGet, "/api/spoonacular/recipes/search?query=soup&number=1", "")
		if w.Code != http.StatusOK {
			t.Fatalf("search failed: %d %s", w.Code, w.Body.String())
		}
	}
	if n := calls.Load(); n != 1 {
		t.Fatalf("expected cached catalog search, got %d upstream calls", n)
	}

	var results model.SearchResults
	w := doJSON(t, r, http.MethodGet, "/api/spoonacular/recipes/search?query=soup&number=1", "")
	if err := json.Unmarshal(w.Body.Bytes(), &results); err != nil {
		t.Fatalf("failed to decode catalog results: %v", err)
	}
	body, err := json.Marshal(results.Results[0])
	if err != nil {
		t.Fatalf("failed to marshal import body: %v", err)
	}

	w = doJSON(t, r, http.MethodPost, "/api/spoonacular/recipes/import", string(body))
	if w.Code != http.StatusCreated {
		t.Fatalf("import failed: %d %s", w.Code, w.Body.String())
	}
	var created api.CreatedResponse
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to decode import response: %v", err)
	}
	if created.Data.Instructions != "Cook the lentils." {
		t.Fatalf("unexpected instructions %q", created.Data.Instructions)
	}

	w = doJSON(t, r, http.MethodPost, "/api/recipes/filter", `{"restrictions":["vegan"]}`)
	var vegan api.RecipeListResponse
	if err := json.Unmarshal(w.Body.Bytes(), &vegan); err != nil {
		t.Fatalf("failed to decode filter response: %v", err)
	}
	if len(vegan.Data) != 1 {
		t.Fatalf("expected imported recipe to be vegan, got %d results", len(vegan.Data))
	}

	w = doJSON(t, r, http.MethodPost, "/api/spoonacular/recipes/import", string(body))
	if w.Code != http.StatusConflict {
		t.Fatalf("expected duplicate import to conflict, got %d", w.Code)
	}
}
