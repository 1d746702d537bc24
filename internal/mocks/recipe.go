package mocks

import (
	"context"

	"github.com/pageza/recipe-hub/backend/internal/model"
	"github.com/stretchr/testify/mock"
)

// MockRecipeStore is a mock implementation of the recipe store
type MockRecipeStore struct {
	mock.Mock
}

// Insert mocks the Insert method
func (m *MockRecipeStore) Insert(ctx context.Context, recipe *model.Recipe) (string, error) {
	args := m.Called(ctx, recipe)
	return args.String(0), args.Error(1)
}

// FindAll mocks the FindAll method
func (m *MockRecipeStore) FindAll(ctx context.Context) ([]*model.Recipe, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Recipe), args.Error(1)
}

// FindByID mocks the FindByID method
func (m *MockRecipeStore) FindByID(ctx context.Context, id string) (*model.Recipe, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Recipe), args.Error(1)
}

// FindByTitle mocks the FindByTitle method
func (m *MockRecipeStore) FindByTitle(ctx context.Context, text string) ([]*model.Recipe, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Recipe), args.Error(1)
}

// FindByFlags mocks the FindByFlags method
func (m *MockRecipeStore) FindByFlags(ctx context.Context, names []string) ([]*model.Recipe, error) {
	args := m.Called(ctx, names)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Recipe), args.Error(1)
}

// Update mocks the Update method
func (m *MockRecipeStore) Update(ctx context.Context, id string, patch model.RecipePatch) (int64, int64, error) {
	args := m.Called(ctx, id, patch)
	return args.Get(0).(int64), args.Get(1).(int64), args.Error(2)
}

// Delete mocks the Delete method
func (m *MockRecipeStore) Delete(ctx context.Context, id string) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

// DeleteAll mocks the DeleteAll method
func (m *MockRecipeStore) DeleteAll(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// Ping mocks the Ping method
func (m *MockRecipeStore) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Close mocks the Close method
func (m *MockRecipeStore) Close(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
