package store

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/pageza/recipe-hub/backend/internal/model"
)

// MemoryStore keeps recipes in process memory in insertion order
type MemoryStore struct {
	mu      sync.RWMutex
	order   []string
	recipes map[string]*model.Recipe
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{recipes: make(map[string]*model.Recipe)}
}

func (s *MemoryStore) Insert(ctx context.Context, recipe *model.Recipe) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	recipe.ID = NewID()
	s.recipes[recipe.ID] = recipe.Clone()
	s.order = append(s.order, recipe.ID)
	logrus.WithField("recipe_id", recipe.ID).Debug("Recipe stored in memory")
	return recipe.ID, nil
}

func (s *MemoryStore) FindAll(ctx context.Context) ([]*model.Recipe, error) {
	return s.filter(func(*model.Recipe) bool { return true }), nil
}

func (s *MemoryStore) FindByID(ctx context.Context, id string) (*model.Recipe, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.recipes[id]
	if !ok {
		return nil, notFound(id)
	}
	return r.Clone(), nil
}

func (s *MemoryStore) FindByTitle(ctx context.Context, text string) ([]*model.Recipe, error) {
	return s.filter(func(r *model.Recipe) bool { return titleMatches(r.Title, text) }), nil
}

func (s *MemoryStore) FindByFlags(ctx context.Context, names []string) ([]*model.Recipe, error) {
	return s.filter(func(r *model.Recipe) bool { return r.DietaryRestrictions.HasAll(names) }), nil
}

func (s *MemoryStore) Update(ctx context.Context, id string, patch model.RecipePatch) (int64, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.recipes[id]
	if !ok {
		return 0, 0, nil
	}
	if patch.Apply(r) {
		return 1, 1, nil
	}
	return 1, 0, nil
}

func (s *MemoryStore) Delete(ctx context.Context, id string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.recipes[id]; !ok {
		return 0, nil
	}
	delete(s.recipes, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return 1, nil
}

func (s *MemoryStore) DeleteAll(ctx context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := int64(len(s.recipes))
	s.recipes = make(map[string]*model.Recipe)
	s.order = nil
	return n, nil
}

func (s *MemoryStore) Ping(ctx context.Context) error { return nil }

func (s *MemoryStore) Close(ctx context.Context) error { return nil }

func (s *MemoryStore) filter(keep func(*model.Recipe) bool) []*model.Recipe {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*model.Recipe, 0, len(s.order))
	for _, id := range s.order {
		if r := s.recipes[id]; keep(r) {
			out = append(out, r.Clone())
		}
	}
	return out
}
