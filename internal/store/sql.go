package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pageza/recipe-hub/backend/internal/model"
)

// SQLStore persists recipes through gorm on sqlite or postgres
type SQLStore struct {
	db *gorm.DB
}

// NewSQLStore opens dsn and migrates the recipes table. Postgres URLs and
// key/value DSNs select the postgres driver; anything else is a sqlite path.
func NewSQLStore(dsn string) (*SQLStore, error) {
	if dsn == "" {
		return nil, fmt.Errorf("database URL is not defined")
	}

	var dialector gorm.Dialector
	isSQLite := false
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"), strings.Contains(dsn, "host="):
		dialector = postgres.Open(dsn)
	default:
		isSQLite = true
		dialector = sqlite.Open(strings.TrimPrefix(dsn, "sqlite://"))
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	if isSQLite {
		// sqlite serializes writers anyway
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(25)
		sqlDB.SetConnMaxLifetime(5 * time.Minute)
	}
	return NewSQLStoreFromDB(db)
}

// NewSQLStoreFromDB wraps an existing gorm connection
func NewSQLStoreFromDB(db *gorm.DB) (*SQLStore, error) {
	if err := db.AutoMigrate(&model.Recipe{}); err != nil {
		return nil, fmt.Errorf("failed to migrate recipes table: %w", err)
	}
	return &SQLStore{db: db}, nil
}

func (s *SQLStore) Insert(ctx context.Context, recipe *model.Recipe) (string, error) {
	row := recipe.Clone()
	row.ID = NewID()
	if err := s.db.WithContext(ctx).Create(row).Error; err != nil {
		return "", storeErr("insert", err)
	}
	recipe.ID = row.ID
	return recipe.ID, nil
}

func (s *SQLStore) FindAll(ctx context.Context) ([]*model.Recipe, error) {
	var recipes []*model.Recipe
	if err := s.db.WithContext(ctx).Order("created_at, id").Find(&recipes).Error; err != nil {
		return nil, storeErr("find all", err)
	}
	return recipes, nil
}

func (s *SQLStore) FindByID(ctx context.Context, id string) (*model.Recipe, error) {
	if !ValidID(id) {
		return nil, notFound(id)
	}
	var recipe model.Recipe
	err := s.db.WithContext(ctx).First(&recipe, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, storeErr("find by id", err)
	}
	return &recipe, nil
}

// FindByTitle filters after loading since sqlite's LOWER only folds ASCII
func (s *SQLStore) FindByTitle(ctx context.Context, text string) ([]*model.Recipe, error) {
	all, err := s.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*model.Recipe, 0, len(all))
	for _, r := range all {
		if titleMatches(r.Title, text) {
			out = append(out, r)
		}
	}
	return out, nil
}

// FindByFlags filters after loading since the flags column is JSON text
// and the JSON operators differ between sqlite and postgres.
func (s *SQLStore) FindByFlags(ctx context.Context, names []string) ([]*model.Recipe, error) {
	all, err := s.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*model.Recipe, 0, len(all))
	for _, r := range all {
		if r.DietaryRestrictions.HasAll(names) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *SQLStore) Update(ctx context.Context, id string, patch model.RecipePatch) (int64, int64, error) {
	if !ValidID(id) {
		return 0, 0, nil
	}

	var matched, modified int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe model.Recipe
		if err := tx.First(&recipe, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		matched = 1
		if !patch.Apply(&recipe) {
			return nil
		}
		if err := tx.Save(&recipe).Error; err != nil {
			return err
		}
		modified = 1
		return nil
	})
	if err != nil {
		return 0, 0, storeErr("update", err)
	}
	return matched, modified, nil
}

func (s *SQLStore) Delete(ctx context.Context, id string) (int64, error) {
	if !ValidID(id) {
		return 0, nil
	}
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Recipe{})
	if result.Error != nil {
		return 0, storeErr("delete", result.Error)
	}
	return result.RowsAffected, nil
}

func (s *SQLStore) DeleteAll(ctx context.Context) (int64, error) {
	result := s.db.WithContext(ctx).Where("1 = 1").Delete(&model.Recipe{})
	if result.Error != nil {
		return 0, storeErr("delete all", result.Error)
	}
	return result.RowsAffected, nil
}

func (s *SQLStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return storeErr("ping", err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return storeErr("ping", err)
	}
	return nil
}

func (s *SQLStore) Close(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
