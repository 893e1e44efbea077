package mocks

import (
	"context"

	"docvault/internal/repository"

	"github.com/stretchr/testify/mock"
)

// MockTx records Commit/Rollback calls so tests can assert transaction
// outcomes.
type MockTx struct {
	mock.Mock
}

func (m *MockTx) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockTx) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

// MockUnitOfWork is a hand-rolled unit of work whose repository accessors
// return the attached mocks. Begin hands back the configured Tx and the same
// unit of work, mirroring how the postgres implementation scopes repositories
// to a transaction.
type MockUnitOfWork struct {
	mock.Mock

	DocumentsMock *MockDocumentRepository
	TypesMock     *MockDocumentTypeRepository
	MetadataMock  *MockMetadataRepository
	UsersMock     *MockUserRepository
}

// NewMockUnitOfWork builds a unit of work with fresh repository mocks.
func NewMockUnitOfWork() *MockUnitOfWork {
	return &MockUnitOfWork{
		DocumentsMock: new(MockDocumentRepository),
		TypesMock:     new(MockDocumentTypeRepository),
		MetadataMock:  new(MockMetadataRepository),
		UsersMock:     new(MockUserRepository),
	}
}

var _ repository.UnitOfWork = (*MockUnitOfWork)(nil)

func (m *MockUnitOfWork) Documents() repository.DocumentRepository { return m.DocumentsMock }

func (m *MockUnitOfWork) DocumentTypes() repository.DocumentTypeRepository { return m.TypesMock }

func (m *MockUnitOfWork) Metadata() repository.DocumentMetadataRepository { return m.MetadataMock }

func (m *MockUnitOfWork) Users() repository.UserRepository { return m.UsersMock }

func (m *MockUnitOfWork) Begin(ctx context.Context) (repository.Tx, repository.UnitOfWork, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(repository.Tx), m, args.Error(2)
}

// AssertRepoExpectations asserts expectations on the unit of work and every
// attached repository mock.
func (m *MockUnitOfWork) AssertRepoExpectations(t mock.TestingT) {
	m.AssertExpectations(t)
	m.DocumentsMock.AssertExpectations(t)
	m.TypesMock.AssertExpectations(t)
	m.MetadataMock.AssertExpectations(t)
	m.UsersMock.AssertExpectations(t)
}
