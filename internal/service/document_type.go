package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"docvault/internal/config"
	"docvault/internal/model"
	"docvault/internal/repository"
)

// DocumentTypeListResult is the service-level DTO for paginated types.
type DocumentTypeListResult struct {
	Items []model.DocumentType `json:"data"`
	Total int                  `json:"total"`
}

// TypeCommand carries the caller-supplied fields for a document type. The
// normalized type name is always derived from Name, never supplied.
type TypeCommand struct {
	Name        string
	Description string
}

// DocumentTypeService defines the use cases for managing document types.
type DocumentTypeService interface {
	// Create inserts a new type after checking the name is not taken
	// (case-sensitive exact match). A duplicate fails with a ValidationError.
	Create(ctx context.Context, cmd TypeCommand) (*model.DocumentType, error)

	// Get returns a type by id, or ErrNotFound.
	Get(ctx context.Context, id string) (*model.DocumentType, error)

	// Update renames or re-describes a type. A rename re-checks uniqueness
	// against all other types. Returns ErrNotFound for a missing id.
	Update(ctx context.Context, id string, cmd TypeCommand) (*model.DocumentType, error)

	// Delete hard-deletes the type, but only when no non-deleted document
	// still references it; otherwise it fails with a ValidationError.
	Delete(ctx context.Context, id string) (bool, error)

	// Deactivate soft-disables the type. Returns ErrNotFound for a missing id.
	Deactivate(ctx context.Context, id string) error

	// List returns types ordered by name, optionally active ones only.
	List(ctx context.Context, limit, offset int, activeOnly bool) (*DocumentTypeListResult, error)

	// Count returns the number of types.
	Count(ctx context.Context, activeOnly bool) (int, error)
}

type documentTypeService struct {
	uow        repository.UnitOfWork
	pagination config.PaginationConfig
	logger     *slog.Logger
}

// NewDocumentTypeService constructs a new DocumentTypeService.
func NewDocumentTypeService(uow repository.UnitOfWork, pagination config.PaginationConfig, logger *slog.Logger) DocumentTypeService {
	return &documentTypeService{
		uow:        uow,
		pagination: pagination,
		logger:     logger.With("service", "document_types"),
	}
}

func (s *documentTypeService) Create(ctx context.Context, cmd TypeCommand) (*model.DocumentType, error) {
	if cmd.Name == "" {
		return nil, &ValidationError{Field: "name", Reason: "name is required"}
	}

	now := time.Now().UTC()
	return runInTxValue(ctx, s.uow, s.logger, "create document type", func(uow repository.UnitOfWork) (*model.DocumentType, error) {
		if err := checkNameAvailable(ctx, uow, cmd.Name, ""); err != nil {
			return nil, err
		}
		return uow.DocumentTypes().Create(ctx, &model.DocumentType{
			ID:          uuid.NewString(),
			Name:        cmd.Name,
			TypeName:    model.DeriveTypeName(cmd.Name),
			Description: cmd.Description,
			IsActive:    true,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	})
}

func (s *documentTypeService) Get(ctx context.Context, id string) (*model.DocumentType, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	dt, err := s.uow.DocumentTypes().FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return dt, nil
}

func (s *documentTypeService) Update(ctx context.Context, id string, cmd TypeCommand) (*model.DocumentType, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	if cmd.Name == "" {
		return nil, &ValidationError{Field: "name", Reason: "name is required"}
	}

	now := time.Now().UTC()
	return runInTxValue(ctx, s.uow, s.logger, "update document type", func(uow repository.UnitOfWork) (*model.DocumentType, error) {
		dt, err := uow.DocumentTypes().FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, ErrNotFound
			}
			return nil, err
		}

		if dt.Name != cmd.Name {
			if err := checkNameAvailable(ctx, uow, cmd.Name, id); err != nil {
				return nil, err
			}
		}

		dt.Name = cmd.Name
		dt.TypeName = model.DeriveTypeName(cmd.Name)
		dt.Description = cmd.Description
		dt.UpdatedAt = now
		return uow.DocumentTypes().Update(ctx, dt)
	})
}

func (s *documentTypeService) Delete(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, ErrIDRequired
	}

	return runInTxValue(ctx, s.uow, s.logger, "delete document type", func(uow repository.UnitOfWork) (bool, error) {
		// Referential guard: a type still referenced by live documents must
		// not disappear from under them.
		inUse, err := uow.Documents().CountByType(ctx, id)
		if err != nil {
			return false, err
		}
		if inUse > 0 {
			return false, &ValidationError{Field: "id", Reason: "document type is in use"}
		}
		return uow.DocumentTypes().Delete(ctx, id)
	})
}

func (s *documentTypeService) Deactivate(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	ok, err := s.uow.DocumentTypes().SetActive(ctx, id, false, time.Now().UTC())
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return nil
}

func (s *documentTypeService) List(ctx context.Context, limit, offset int, activeOnly bool) (*DocumentTypeListResult, error) {
	if limit <= 0 {
		limit = s.pagination.DefaultLimit
	}
	if s.pagination.MaxLimit > 0 && limit > s.pagination.MaxLimit {
		limit = s.pagination.MaxLimit
	}
	if offset < 0 {
		offset = 0
	}
	res, err := s.uow.DocumentTypes().List(ctx, repository.PageQuery{Limit: limit, Offset: offset}, activeOnly)
	if err != nil {
		return nil, err
	}
	return &DocumentTypeListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *documentTypeService) Count(ctx context.Context, activeOnly bool) (int, error) {
	return s.uow.DocumentTypes().Count(ctx, activeOnly)
}

// checkNameAvailable fails with a ValidationError when another type (any type
// when excludeID is empty) already carries the name.
func checkNameAvailable(ctx context.Context, uow repository.UnitOfWork, name, excludeID string) error {
	existing, err := uow.DocumentTypes().FindByName(ctx, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		return err
	}
	if existing.ID != excludeID {
		return &ValidationError{Field: "name", Reason: "a document type with this name already exists"}
	}
	return nil
}
