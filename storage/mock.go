package storage

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/lastweeknextday/review-gateway/interfaces"
)

// MockStorageBackend implements interfaces.StorageBackend for testing
type MockStorageBackend struct {
	mock.Mock
}

func (m *MockStorageBackend) Fetch(ctx context.Context, id interfaces.ContentID) ([]byte, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockStorageBackend) Store(ctx context.Context, data []byte, name string) (interfaces.ContentID, error) {
	args := m.Called(ctx, data, name)
	return args.Get(0).(interfaces.ContentID), args.Error(1)
}

func (m *MockStorageBackend) Available(ctx context.Context) bool {
	args := m.Called(ctx)
	return args.Bool(0)
}

func (m *MockStorageBackend) Name() string {
	return "mock"
}

func (m *MockStorageBackend) LocationURI() string {
	return "mock:"
}
