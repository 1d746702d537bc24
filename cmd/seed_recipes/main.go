package main

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pageza/recipe-hub/backend/config"
	"github.com/pageza/recipe-hub/backend/internal/apperr"
	"github.com/pageza/recipe-hub/backend/internal/model"
	"github.com/pageza/recipe-hub/backend/internal/service"
	"github.com/pageza/recipe-hub/backend/internal/store"
)

const (
	numRecipes = 25 // Number of catalog recipes to import
	batchSize  = 5  // Number of recipes fetched per catalog call
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	if !cfg.SpoonacularConfigured() {
		logrus.Fatal("SPOONACULAR_API_KEY is required to seed recipes")
	}

	ctx := context.Background()

	recipeStore, err := store.Open(ctx, store.Options{
		Type:     cfg.StorageType,
		URL:      cfg.DatabaseURL,
		Database: cfg.DatabaseName,
	})
	if err != nil {
		logrus.WithError(err).Fatal("Failed to open recipe store")
	}
	defer func() {
		if err := recipeStore.Close(context.Background()); err != nil {
			logrus.WithError(err).Error("Failed to close recipe store")
		}
	}()

	recipes := service.NewRecipeService(recipeStore, nil)
	discovery := service.NewDiscoveryService(cfg, nil)

	imported, skipped := 0, 0
	for i := 0; i < numRecipes; i += batchSize {
		batchEnd := i + batchSize
		if batchEnd > numRecipes {
			batchEnd = numRecipes
		}

		logrus.Infof("Fetching catalog recipes %d-%d", i+1, batchEnd)

		raw, err := discovery.Random(ctx, batchEnd-i)
		if err != nil {
			logrus.WithError(err).Warn("Failed to fetch batch of recipes")
			continue
		}

		var batch model.RandomRecipes
		if err := json.Unmarshal(raw, &batch); err != nil {
			logrus.WithError(err).Warn("Failed to parse catalog response")
			continue
		}

		for _, discovered := range batch.Recipes {
			recipe, err := recipes.ImportDiscovered(ctx, discovered)
			if errors.Is(err, apperr.ErrDuplicate) {
				skipped++
				continue
			}
			if err != nil {
				logrus.WithError(err).WithField("title", discovered.Title).Warn("Failed to import recipe")
				continue
			}
			imported++
			logrus.WithFields(logrus.Fields{"recipe_id": recipe.ID, "title": recipe.Title}).Info("Imported recipe")
		}

		// Small delay between batches to stay under the catalog quota
		time.Sleep(2 * time.Second)
	}

	logrus.WithFields(logrus.Fields{"imported": imported, "skipped": skipped}).Info("Seeding finished")
}
