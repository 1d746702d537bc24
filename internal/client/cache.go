package client

import (
	"context"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/pageza/recipe-hub/backend/internal/model"
)

// Lister fetches the full recipe list
type Lister interface {
	List(ctx context.Context) ([]*model.Recipe, error)
}

// Cache holds the last fetched recipe list and a view filtered by the current
// query. Filtering never goes back to the server.
type Cache struct {
	mu     sync.RWMutex
	source Lister
	all    []*model.Recipe
	query  string
	view   []*model.Recipe
}

// NewCache creates an empty cache filled from source on Refresh
func NewCache(source Lister) *Cache {
	return &Cache{source: source}
}

// Refresh refetches the list. On failure the previous list stays in place.
// Concurrent refreshes are applied in the order their responses arrive.
func (c *Cache) Refresh(ctx context.Context) error {
	recipes, err := c.source.List(ctx)
	if err != nil {
		logrus.WithError(err).Warn("Recipe refresh failed, keeping cached list")
		return err
	}
	c.Replace(recipes)
	return nil
}

// Replace swaps in a new list and recomputes the view
func (c *Cache) Replace(recipes []*model.Recipe) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.all = recipes
	c.view = FilterLocal(c.all, c.query)
	logrus.WithField("count", len(recipes)).Debug("Recipe cache replaced")
}

// SetQuery changes the search query and recomputes the view locally
func (c *Cache) SetQuery(query string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.query = query
	c.view = FilterLocal(c.all, query)
}

// Query returns the current search query
func (c *Cache) Query() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.query
}

// All returns the full cached list
func (c *Cache) All() []*model.Recipe {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.all
}

// View returns the cached recipes matching the current query
func (c *Cache) View() []*model.Recipe {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.view
}

// Find returns the cached recipe with id, if any
func (c *Cache) Find(id string) (*model.Recipe, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, r := range c.all {
		if r.ID == id {
			return r, true
		}
	}
	return nil, false
}

// FilterLocal keeps the recipes matching query in any field, preserving order.
// A blank query keeps everything.
func FilterLocal(recipes []*model.Recipe, query string) []*model.Recipe {
	if strings.TrimSpace(query) == "" {
		return recipes
	}
	out := make([]*model.Recipe, 0, len(recipes))
	for _, r := range recipes {
		if r.Matches(query) {
			out = append(out, r)
		}
	}
	return out
}
