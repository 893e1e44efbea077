package repository

import (
	"context"
	"time"

	"docvault/internal/model"
)

// DocumentRepository defines data access for documents using SQL queries only.
// No business logic here — strictly persistence operations.
//
// Soft-deleted documents are invisible to every method except SoftDelete
// itself; lookups return sql.ErrNoRows and listings and counts skip them.
type DocumentRepository interface {
	// Create inserts a new document row. The caller provides ID and timestamps.
	Create(ctx context.Context, doc *model.Document) (*model.Document, error)

	// FindByID returns a non-deleted document by its ID (without metadata).
	FindByID(ctx context.Context, id string) (*model.Document, error)

	// Update replaces the mutable fields (name, description, type, updated_at)
	// of a non-deleted document.
	Update(ctx context.Context, doc *model.Document) (*model.Document, error)

	// SoftDelete marks the document deleted and bumps updated_at. It reports
	// false when the document does not exist or is already deleted.
	SoftDelete(ctx context.Context, id string, at time.Time) (bool, error)

	// SetClassification writes the document type reference and classification
	// confidence. Pass nils to clear both. Reports false for a missing or
	// deleted document.
	SetClassification(ctx context.Context, id string, typeID *string, confidence *float64, at time.Time) (bool, error)

	// SetFile points the document at a new stored blob (path, size, hash),
	// used when a new file version is saved.
	SetFile(ctx context.Context, id, filePath string, sizeBytes int64, contentHash string, at time.Time) (bool, error)

	// Search matches term case-insensitively against name and description,
	// optionally restricted to one document type.
	Search(ctx context.Context, term string, typeID *string, pq PageQuery) (*PageResult[model.Document], error)

	// ListByType returns documents of the given type, newest first.
	ListByType(ctx context.Context, typeID string, pq PageQuery) (*PageResult[model.Document], error)

	// Recent returns the most recently created documents.
	Recent(ctx context.Context, limit int) ([]model.Document, error)

	// Count returns the number of non-deleted documents.
	Count(ctx context.Context) (int, error)

	// CountByType returns the number of non-deleted documents referencing the
	// type. It doubles as the referential guard for document type deletion.
	CountByType(ctx context.Context, typeID string) (int, error)
}
