package repository

import (
	"context"
	"time"

	"docvault/internal/model"
)

// DocumentTypeRepository defines data access for document types.
// Uniqueness of the name is validated at the service layer; FindByName exists
// to support that pre-check.
type DocumentTypeRepository interface {
	Create(ctx context.Context, dt *model.DocumentType) (*model.DocumentType, error)

	FindByID(ctx context.Context, id string) (*model.DocumentType, error)

	// FindByName performs a case-sensitive exact match on the display name.
	FindByName(ctx context.Context, name string) (*model.DocumentType, error)

	// FindByTypeName looks up a type by its normalized type name. Used to map
	// classifier labels back to stored types.
	FindByTypeName(ctx context.Context, typeName string) (*model.DocumentType, error)

	Update(ctx context.Context, dt *model.DocumentType) (*model.DocumentType, error)

	// Delete hard-deletes the type. Callers must have verified no non-deleted
	// document still references it. Reports false when the row did not exist.
	Delete(ctx context.Context, id string) (bool, error)

	// SetActive toggles the soft activation flag.
	SetActive(ctx context.Context, id string, active bool, at time.Time) (bool, error)

	List(ctx context.Context, pq PageQuery, activeOnly bool) (*PageResult[model.DocumentType], error)

	Count(ctx context.Context, activeOnly bool) (int, error)
}
