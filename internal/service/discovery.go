package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/pageza/recipe-hub/backend/config"
	"github.com/pageza/recipe-hub/backend/internal/apperr"
)

const (
	// DefaultDiscoveryCount is how many catalog recipes are requested when the caller does not say
	DefaultDiscoveryCount = 30

	searchCacheTTL = 10 * time.Minute
)

// ErrDiscoveryNotConfigured is returned by every catalog call when no API key is set
var ErrDiscoveryNotConfigured = &apperr.UpstreamError{
	Status:  http.StatusInternalServerError,
	Message: "Spoonacular API key not configured. Please add it to config.env file.",
}

// DiscoveryService proxies the Spoonacular recipe catalog
type DiscoveryService struct {
	apiKey     string
	configured bool
	client     *resty.Client
	cache      *redis.Client
}

// NewDiscoveryService creates a new DiscoveryService instance. cache may be
// nil, which disables caching of search responses.
func NewDiscoveryService(cfg *config.Config, cache *redis.Client) *DiscoveryService {
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.SpoonacularURL, "/")).
		SetTimeout(30*time.Second).
		SetHeader("Accept", "application/json")

	return &DiscoveryService{
		apiKey:     cfg.SpoonacularAPIKey,
		configured: cfg.SpoonacularConfigured(),
		client:     client,
		cache:      cache,
	}
}

// Random fetches random catalog recipes
func (s *DiscoveryService) Random(ctx context.Context, number int) (json.RawMessage, error) {
	if !s.configured {
		return nil, ErrDiscoveryNotConfigured
	}
	return s.get(ctx, "/recipes/random", map[string]string{
		"number": strconv.Itoa(countOrDefault(number)),
	})
}

// Search queries the catalog. Responses are cached in Redis when available.
func (s *DiscoveryService) Search(ctx context.Context, query string, number int) (json.RawMessage, error) {
	if !s.configured {
		return nil, ErrDiscoveryNotConfigured
	}
	number = countOrDefault(number)
	query = strings.TrimSpace(query)

	key := fmt.Sprintf("spoonacular:search:%s:%d", strings.ToLower(query), number)
	if cached := s.cached(ctx, key); cached != nil {
		return cached, nil
	}

	body, err := s.get(ctx, "/recipes/complexSearch", map[string]string{
		"query":                query,
		"number":               strconv.Itoa(number),
		"addRecipeInformation": "true",
		"fillIngredients":      "true",
	})
	if err != nil {
		return nil, err
	}

	s.remember(ctx, key, body)
	return body, nil
}

func (s *DiscoveryService) get(ctx context.Context, path string, params map[string]string) (json.RawMessage, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParam("apiKey", s.apiKey).
		SetQueryParams(params).
		Get(path)
	if err != nil {
		logrus.WithError(err).WithField("path", path).Error("Spoonacular API error")
		return nil, &apperr.UpstreamError{
			Status:  http.StatusInternalServerError,
			Message: "Failed to reach Spoonacular",
			Err:     err,
		}
	}

	if resp.IsError() {
		var upstream struct {
			Message string `json:"message"`
		}
		message := "Failed to fetch recipes from Spoonacular"
		if json.Unmarshal(resp.Body(), &upstream) == nil && upstream.Message != "" {
			message = upstream.Message
		}
		logrus.WithFields(logrus.Fields{
			"path":   path,
			"status": resp.StatusCode(),
		}).Warn("Spoonacular returned an error")
		return nil, &apperr.UpstreamError{Status: resp.StatusCode(), Message: message}
	}

	body := resp.Body()
	if !json.Valid(body) {
		return nil, &apperr.UpstreamError{
			Status:  http.StatusBadGateway,
			Message: "Spoonacular returned a malformed response",
		}
	}
	return json.RawMessage(body), nil
}

func (s *DiscoveryService) cached(ctx context.Context, key string) json.RawMessage {
	if s.cache == nil {
		return nil
	}
	data, err := s.cache.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			logrus.WithError(err).Warn("Failed to read catalog cache")
		}
		return nil
	}
	logrus.WithField("key", key).Debug("Catalog cache hit")
	return json.RawMessage(data)
}

func (s *DiscoveryService) remember(ctx context.Context, key string, body json.RawMessage) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, []byte(body), searchCacheTTL).Err(); err != nil {
		logrus.WithError(err).Warn("Failed to write catalog cache")
	}
}

func countOrDefault(number int) int {
	if number <= 0 {
		return DefaultDiscoveryCount
	}
	return number
}
