package repository

import (
	"context"

	"docvault/internal/model"
)

// DocumentMetadataRepository defines data access for document metadata rows.
type DocumentMetadataRepository interface {
	// Upsert inserts the row or, when a row with the same (document_id, key)
	// exists, replaces its value, data type, and updated_at. Calling it twice
	// with the same key leaves exactly one row holding the latest value.
	Upsert(ctx context.Context, md *model.DocumentMetadata) (*model.DocumentMetadata, error)

	// Insert appends a row without conflict handling. Only the append-only
	// classification-history key may bypass Upsert.
	Insert(ctx context.Context, md *model.DocumentMetadata) (*model.DocumentMetadata, error)

	// ListByDocument returns all metadata for a document ordered by key.
	ListByDocument(ctx context.Context, documentID string) ([]model.DocumentMetadata, error)

	// ListByDocumentKey returns all rows for one key, newest first.
	ListByDocumentKey(ctx context.Context, documentID, key string) ([]model.DocumentMetadata, error)

	// DeleteByDocument removes every metadata row of a document and returns
	// the number of rows removed.
	DeleteByDocument(ctx context.Context, documentID string) (int64, error)

	// DeleteByDocumentKey removes all rows for one key of a document.
	DeleteByDocumentKey(ctx context.Context, documentID, key string) (int64, error)
}
