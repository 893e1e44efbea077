package mocks

import (
	"context"
	"io"

	"docvault/internal/model"

	"github.com/stretchr/testify/mock"
)

type MockClassificationService struct {
	mock.Mock
}

func (m *MockClassificationService) Classify(ctx context.Context, r io.Reader, filename string) (model.ClassificationResult, error) {
	args := m.Called(ctx, r, filename)
	return args.Get(0).(model.ClassificationResult), args.Error(1)
}

func (m *MockClassificationService) Apply(ctx context.Context, documentID string, result model.ClassificationResult) (bool, error) {
	args := m.Called(ctx, documentID, result)
	return args.Bool(0), args.Error(1)
}

func (m *MockClassificationService) History(ctx context.Context, documentID string) ([]model.ClassificationResult, error) {
	args := m.Called(ctx, documentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ClassificationResult), args.Error(1)
}

func (m *MockClassificationService) Reset(ctx context.Context, documentID string) (bool, error) {
	args := m.Called(ctx, documentID)
	return args.Bool(0), args.Error(1)
}
