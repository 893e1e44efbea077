package postgres

import (
	"context"

	"docvault/internal/model"
	"docvault/internal/repository"
)

const metadataColumns = `id, document_id, key, value, data_type, created_at, updated_at`

// MetadataPostgres is a PostgreSQL implementation of repository.DocumentMetadataRepository.
type MetadataPostgres struct {
	db repository.DBTX
}

// NewMetadataPostgres creates a new MetadataPostgres repository.
func NewMetadataPostgres(db repository.DBTX) *MetadataPostgres {
	return &MetadataPostgres{db: db}
}

var _ repository.DocumentMetadataRepository = (*MetadataPostgres)(nil)

func scanMetadata(rs rowScanner) (model.DocumentMetadata, error) {
	var md model.DocumentMetadata
	err := rs.Scan(
		&md.ID,
		&md.DocumentID,
		&md.Key,
		&md.Value,
		&md.DataType,
		&md.CreatedAt,
		&md.UpdatedAt,
	)
	return md, err
}

// Upsert inserts the row or replaces value, data type, and updated_at when a
// row with the same (document_id, key) already exists. Backed by the partial
// unique index on (document_id, key).
func (r *MetadataPostgres) Upsert(ctx context.Context, md *model.DocumentMetadata) (*model.DocumentMetadata, error) {
	const q = `
		INSERT INTO document_metadata (id, document_id, key, value, data_type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (document_id, key) WHERE key <> 'ClassificationResult'
		DO UPDATE SET value = EXCLUDED.value, data_type = EXCLUDED.data_type, updated_at = EXCLUDED.updated_at
		RETURNING ` + metadataColumns
	row := r.db.QueryRowContext(ctx, q,
		md.ID,
		md.DocumentID,
		md.Key,
		md.Value,
		md.DataType,
		md.CreatedAt,
		md.UpdatedAt,
	)
	out, err := scanMetadata(row)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Insert appends a metadata row without conflict handling.
func (r *MetadataPostgres) Insert(ctx context.Context, md *model.DocumentMetadata) (*model.DocumentMetadata, error) {
	const q = `
		INSERT INTO document_metadata (id, document_id, key, value, data_type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + metadataColumns
	row := r.db.QueryRowContext(ctx, q,
		md.ID,
		md.DocumentID,
		md.Key,
		md.Value,
		md.DataType,
		md.CreatedAt,
		md.UpdatedAt,
	)
	out, err := scanMetadata(row)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListByDocument returns all metadata rows of a document ordered by key.
func (r *MetadataPostgres) ListByDocument(ctx context.Context, documentID string) ([]model.DocumentMetadata, error) {
	const q = `
		SELECT ` + metadataColumns + `
		FROM document_metadata
		WHERE document_id = $1
		ORDER BY key ASC, created_at ASC
	`
	rows, err := r.db.QueryContext(ctx, q, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.DocumentMetadata, 0)
	for rows.Next() {
		md, err := scanMetadata(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, md)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// ListByDocumentKey returns all rows for one key, newest first.
func (r *MetadataPostgres) ListByDocumentKey(ctx context.Context, documentID, key string) ([]model.DocumentMetadata, error) {
	const q = `
		SELECT ` + metadataColumns + `
		FROM document_metadata
		WHERE document_id = $1 AND key = $2
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.db.QueryContext(ctx, q, documentID, key)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.DocumentMetadata, 0)
	for rows.Next() {
		md, err := scanMetadata(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, md)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// DeleteByDocument removes every metadata row of a document.
func (r *MetadataPostgres) DeleteByDocument(ctx context.Context, documentID string) (int64, error) {
	const q = `DELETE FROM document_metadata WHERE document_id = $1`
	res, err := r.db.ExecContext(ctx, q, documentID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// DeleteByDocumentKey removes all rows for one key of a document.
func (r *MetadataPostgres) DeleteByDocumentKey(ctx context.Context, documentID, key string) (int64, error) {
	const q = `DELETE FROM document_metadata WHERE document_id = $1 AND key = $2`
	res, err := r.db.ExecContext(ctx, q, documentID, key)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
