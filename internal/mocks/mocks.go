package mocks

import (
	"context"
	"encoding/json"

	"github.com/stretchr/testify/mock"
)

// MockImageStore is a mock implementation of the image store
type MockImageStore struct {
	mock.Mock
}

func (m *MockImageStore) Upload(ctx context.Context, data []byte, contentType string) (string, error) {
	args := m.Called(ctx, data, contentType)
	return args.String(0), args.Error(1)
}

// MockDiscoveryService is a mock implementation of the recipe catalog
type MockDiscoveryService struct {
	mock.Mock
}

func (m *MockDiscoveryService) Random(ctx context.Context, number int) (json.RawMessage, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

func (m *MockDiscoveryService) Search(ctx context.Context, query string, number int) (json.RawMessage, error) {
	args := m.Called(ctx, query, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}
