package mocks

import (
	"context"

	"docvault/internal/classify"

	"github.com/stretchr/testify/mock"
)

type MockClassifier struct {
	mock.Mock
}

func (m *MockClassifier) Classify(ctx context.Context, text string) (classify.Result, error) {
	args := m.Called(ctx, text)
	return args.Get(0).(classify.Result), args.Error(1)
}
