package postgres

import (
	"context"
	"time"

	"docvault/internal/model"
	"docvault/internal/repository"
)

const documentTypeColumns = `id, name, type_name, description, is_active, created_at, updated_at`

// DocumentTypePostgres is a PostgreSQL implementation of repository.DocumentTypeRepository.
type DocumentTypePostgres struct {
	db repository.DBTX
}

// NewDocumentTypePostgres creates a new DocumentTypePostgres repository.
func NewDocumentTypePostgres(db repository.DBTX) *DocumentTypePostgres {
	return &DocumentTypePostgres{db: db}
}

var _ repository.DocumentTypeRepository = (*DocumentTypePostgres)(nil)

func scanDocumentType(rs rowScanner) (model.DocumentType, error) {
	var dt model.DocumentType
	err := rs.Scan(
		&dt.ID,
		&dt.Name,
		&dt.TypeName,
		&dt.Description,
		&dt.IsActive,
		&dt.CreatedAt,
		&dt.UpdatedAt,
	)
	return dt, err
}

// Create inserts a new document type row and returns the stored record.
func (r *DocumentTypePostgres) Create(ctx context.Context, dt *model.DocumentType) (*model.DocumentType, error) {
	const q = `
		INSERT INTO document_types (id, name, type_name, description, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + documentTypeColumns
	row := r.db.QueryRowContext(ctx, q,
		dt.ID,
		dt.Name,
		dt.TypeName,
		dt.Description,
		dt.IsActive,
		dt.CreatedAt,
		dt.UpdatedAt,
	)
	out, err := scanDocumentType(row)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// FindByID fetches a single document type by its ID.
func (r *DocumentTypePostgres) FindByID(ctx context.Context, id string) (*model.DocumentType, error) {
	const q = `SELECT ` + documentTypeColumns + ` FROM document_types WHERE id = $1`
	dt, err := scanDocumentType(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, err
	}
	return &dt, nil
}

// FindByName fetches a document type by exact, case-sensitive display name.
func (r *DocumentTypePostgres) FindByName(ctx context.Context, name string) (*model.DocumentType, error) {
	const q = `SELECT ` + documentTypeColumns + ` FROM document_types WHERE name = $1`
	dt, err := scanDocumentType(r.db.QueryRowContext(ctx, q, name))
	if err != nil {
		return nil, err
	}
	return &dt, nil
}

// FindByTypeName fetches a document type by its normalized type name.
func (r *DocumentTypePostgres) FindByTypeName(ctx context.Context, typeName string) (*model.DocumentType, error) {
	const q = `SELECT ` + documentTypeColumns + ` FROM document_types WHERE type_name = $1`
	dt, err := scanDocumentType(r.db.QueryRowContext(ctx, q, typeName))
	if err != nil {
		return nil, err
	}
	return &dt, nil
}

// Update replaces name, type name, and description.
func (r *DocumentTypePostgres) Update(ctx context.Context, dt *model.DocumentType) (*model.DocumentType, error) {
	const q = `
		UPDATE document_types
		SET name = $1, type_name = $2, description = $3, updated_at = $4
		WHERE id = $5
		RETURNING ` + documentTypeColumns
	row := r.db.QueryRowContext(ctx, q,
		dt.Name,
		dt.TypeName,
		dt.Description,
		dt.UpdatedAt,
		dt.ID,
	)
	out, err := scanDocumentType(row)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete hard-deletes a document type. It reports whether a row was removed.
func (r *DocumentTypePostgres) Delete(ctx context.Context, id string) (bool, error) {
	const q = `DELETE FROM document_types WHERE id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// SetActive toggles the activation flag.
func (r *DocumentTypePostgres) SetActive(ctx context.Context, id string, active bool, at time.Time) (bool, error) {
	const q = `UPDATE document_types SET is_active = $1, updated_at = $2 WHERE id = $3`
	res, err := r.db.ExecContext(ctx, q, active, at, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// List returns document types ordered by name.
func (r *DocumentTypePostgres) List(ctx context.Context, pq repository.PageQuery, activeOnly bool) (*repository.PageResult[model.DocumentType], error) {
	const qCount = `SELECT COUNT(*) FROM document_types WHERE is_active = TRUE OR $1 = FALSE`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount, activeOnly).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `
		SELECT ` + documentTypeColumns + `
		FROM document_types
		WHERE is_active = TRUE OR $1 = FALSE
		ORDER BY name ASC, id ASC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.QueryContext(ctx, qList, activeOnly, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.DocumentType, 0)
	for rows.Next() {
		dt, err := scanDocumentType(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, dt)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.DocumentType]{Items: items, Total: total}, nil
}

// Count returns the number of document types.
func (r *DocumentTypePostgres) Count(ctx context.Context, activeOnly bool) (int, error) {
	const q = `SELECT COUNT(*) FROM document_types WHERE is_active = TRUE OR $1 = FALSE`
	var total int
	if err := r.db.QueryRowContext(ctx, q, activeOnly).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}
