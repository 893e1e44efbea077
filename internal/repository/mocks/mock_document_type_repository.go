package mocks

import (
	"context"
	"time"

	"docvault/internal/model"
	"docvault/internal/repository"

	"github.com/stretchr/testify/mock"
)

type MockDocumentTypeRepository struct {
	mock.Mock
}

func (m *MockDocumentTypeRepository) Create(ctx context.Context, dt *model.DocumentType) (*model.DocumentType, error) {
	args := m.Called(ctx, dt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	if f, ok := args.Get(0).(func(context.Context, *model.DocumentType) *model.DocumentType); ok {
		return f(ctx, dt), args.Error(1)
	}
	return args.Get(0).(*model.DocumentType), args.Error(1)
}

func (m *MockDocumentTypeRepository) FindByID(ctx context.Context, id string) (*model.DocumentType, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DocumentType), args.Error(1)
}

func (m *MockDocumentTypeRepository) FindByName(ctx context.Context, name string) (*model.DocumentType, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DocumentType), args.Error(1)
}

func (m *MockDocumentTypeRepository) FindByTypeName(ctx context.Context, typeName string) (*model.DocumentType, error) {
	args := m.Called(ctx, typeName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DocumentType), args.Error(1)
}

func (m *MockDocumentTypeRepository) Update(ctx context.Context, dt *model.DocumentType) (*model.DocumentType, error) {
	args := m.Called(ctx, dt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	if f, ok := args.Get(0).(func(context.Context, *model.DocumentType) *model.DocumentType); ok {
		return f(ctx, dt), args.Error(1)
	}
	return args.Get(0).(*model.DocumentType), args.Error(1)
}

func (m *MockDocumentTypeRepository) Delete(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockDocumentTypeRepository) SetActive(ctx context.Context, id string, active bool, at time.Time) (bool, error) {
	args := m.Called(ctx, id, active, at)
	return args.Bool(0), args.Error(1)
}

func (m *MockDocumentTypeRepository) List(ctx context.Context, pq repository.PageQuery, activeOnly bool) (*repository.PageResult[model.DocumentType], error) {
	args := m.Called(ctx, pq, activeOnly)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.PageResult[model.DocumentType]), args.Error(1)
}

func (m *MockDocumentTypeRepository) Count(ctx context.Context, activeOnly bool) (int, error) {
	args := m.Called(ctx, activeOnly)
	return args.Int(0), args.Error(1)
}
