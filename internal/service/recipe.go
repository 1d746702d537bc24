package service

import (
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pageza/recipe-hub/backend/internal/apperr"
	"github.com/pageza/recipe-hub/backend/internal/model"
	"github.com/pageza/recipe-hub/backend/internal/store"
)

// RecipeService handles recipe operations
type RecipeService struct {
	store  store.RecipeStore
	images ImageStore
	now    func() time.Time
}

// NewRecipeService creates a new RecipeService instance. images may be nil,
// in which case inline images are stored as given.
func NewRecipeService(s store.RecipeStore, images ImageStore) *RecipeService {
	return &RecipeService{
		store:  s,
		images: images,
		now:    func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}
}

// Create validates and persists a new recipe
func (s *RecipeService) Create(ctx context.Context, in model.RecipeInput) (*model.Recipe, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	in.Normalize()

	imageURL, err := s.offloadImage(ctx, in.ImageURL)
	if err != nil {
		return nil, err
	}
	in.ImageURL = imageURL

	recipe := model.NewRecipe(in, s.now())
	if _, err := s.store.Insert(ctx, recipe); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"recipe_id": recipe.ID,
		"title":     recipe.Title,
	}).Info("Recipe created")
	return recipe, nil
}

// List returns every recipe
func (s *RecipeService) List(ctx context.Context) ([]*model.Recipe, error) {
	return s.store.FindAll(ctx)
}

// Get retrieves a recipe by ID
func (s *RecipeService) Get(ctx context.Context, id string) (*model.Recipe, error) {
	if !store.ValidID(id) {
		return nil, &apperr.NotFoundError{ID: id}
	}
	return s.store.FindByID(ctx, id)
}

// SearchByTitle matches term against titles, ignoring case.
// An empty term returns every recipe.
func (s *RecipeService) SearchByTitle(ctx context.Context, term string) ([]*model.Recipe, error) {
	recipes, err := s.store.FindByTitle(ctx, term)
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{"term": term, "count": len(recipes)}).Debug("Title search")
	return recipes, nil
}

// FilterByDietaryFlags returns recipes with every named flag set
func (s *RecipeService) FilterByDietaryFlags(ctx context.Context, names []string) ([]*model.Recipe, error) {
	recipes, err := s.store.FindByFlags(ctx, names)
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{"restrictions": names, "count": len(recipes)}).Debug("Dietary filter")
	return recipes, nil
}

// Update applies the fields present in patch and reports how many
// documents changed. updatedAt never moves backwards.
func (s *RecipeService) Update(ctx context.Context, id string, patch model.RecipePatch) (int64, error) {
	if !store.ValidID(id) {
		return 0, &apperr.NotFoundError{ID: id}
	}
	patch.Normalize()

	if patch.ImageURL != nil {
		imageURL, err := s.offloadImage(ctx, *patch.ImageURL)
		if err != nil {
			return 0, err
		}
		patch.ImageURL = &imageURL
	}
	patch.UpdatedAt = s.now()

	matched, modified, err := s.store.Update(ctx, id, patch)
	if err != nil {
		return 0, err
	}
	if matched == 0 {
		return 0, &apperr.NotFoundError{ID: id}
	}

	logrus.WithFields(logrus.Fields{"recipe_id": id, "count": modified}).Info("Recipe updated")
	return modified, nil
}

// Delete removes a recipe. A missing id is reported as not found.
func (s *RecipeService) Delete(ctx context.Context, id string) (int64, error) {
	if !store.ValidID(id) {
		return 0, &apperr.NotFoundError{ID: id}
	}
	deleted, err := s.store.Delete(ctx, id)
	if err != nil {
		return 0, err
	}
	if deleted == 0 {
		return 0, &apperr.NotFoundError{ID: id}
	}

	logrus.WithField("recipe_id", id).Info("Recipe deleted")
	return deleted, nil
}

// DeleteAll clears the collection
func (s *RecipeService) DeleteAll(ctx context.Context) (int64, error) {
	deleted, err := s.store.DeleteAll(ctx)
	if err != nil {
		return 0, err
	}
	logrus.WithField("count", deleted).Warn("All recipes deleted")
	return deleted, nil
}

// ImportDiscovered copies a catalog recipe into the collection unless one
// with the same title is already there.
func (s *RecipeService) ImportDiscovered(ctx context.Context, discovered model.DiscoveredRecipe) (*model.Recipe, error) {
	in := discovered.ToInput()
	key := model.NormalizedTitle(in.Title)

	if key != "" {
		existing, err := s.store.FindByTitle(ctx, strings.TrimSpace(in.Title))
		if err != nil {
			return nil, err
		}
		for _, r := range existing {
			if model.NormalizedTitle(r.Title) == key {
				logrus.WithFields(logrus.Fields{
					"recipe_id":     r.ID,
					"discovered_id": discovered.ID,
				}).Info("Skipping import of recipe already in collection")
				return nil, apperr.ErrDuplicate
			}
		}
	}

	return s.Create(ctx, in)
}

// Ping checks the store connection
func (s *RecipeService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}
