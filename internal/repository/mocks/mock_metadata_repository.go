package mocks

import (
	"context"

	"docvault/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockMetadataRepository struct {
	mock.Mock
}

func (m *MockMetadataRepository) Upsert(ctx context.Context, md *model.DocumentMetadata) (*model.DocumentMetadata, error) {
	args := m.Called(ctx, md)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	if f, ok := args.Get(0).(func(context.Context, *model.DocumentMetadata) *model.DocumentMetadata); ok {
		return f(ctx, md), args.Error(1)
	}
	return args.Get(0).(*model.DocumentMetadata), args.Error(1)
}

func (m *MockMetadataRepository) Insert(ctx context.Context, md *model.DocumentMetadata) (*model.DocumentMetadata, error) {
	args := m.Called(ctx, md)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	if f, ok := args.Get(0).(func(context.Context, *model.DocumentMetadata) *model.DocumentMetadata); ok {
		return f(ctx, md), args.Error(1)
	}
	return args.Get(0).(*model.DocumentMetadata), args.Error(1)
}

func (m *MockMetadataRepository) ListByDocument(ctx context.Context, documentID string) ([]model.DocumentMetadata, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DocumentMetadata), args.Error(1)
}

func (m *MockMetadataRepository) ListByDocumentKey(ctx context.Context, documentID, key string) ([]model.DocumentMetadata, error) {
	args := m.Called(ctx, documentID, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DocumentMetadata), args.Error(1)
}

func (m *MockMetadataRepository) DeleteByDocument(ctx context.Context, documentID string) (int64, error) {
	args := m.Called(ctx, documentID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMetadataRepository) DeleteByDocumentKey(ctx context.Context, documentID, key string) (int64, error) {
	args := m.Called(ctx, documentID, key)
	return args.Get(0).(int64), args.Error(1)
}
