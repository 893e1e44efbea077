package postgres

import (
	"context"
	"time"

	"docvault/internal/model"
	"docvault/internal/repository"
)

// documentColumns is the projection shared by every document query.
const documentColumns = `id, name, description, document_type_id, uploaded_by_id, file_type,
		file_path, file_size_bytes, content_hash, classification_confidence, is_deleted,
		created_at, updated_at`

// DocumentPostgres is a PostgreSQL implementation of repository.DocumentRepository.
// It uses parameterized queries only and contains no business logic. It runs
// against whatever connection scope the unit of work hands it.
type DocumentPostgres struct {
	db repository.DBTX
}

// NewDocumentPostgres creates a new DocumentPostgres repository.
func NewDocumentPostgres(db repository.DBTX) *DocumentPostgres {
	return &DocumentPostgres{db: db}
}

var _ repository.DocumentRepository = (*DocumentPostgres)(nil)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(rs rowScanner) (model.Document, error) {
	var d model.Document
	err := rs.Scan(
		&d.ID,
		&d.Name,
		&d.Description,
		&d.DocumentTypeID,
		&d.UploadedByID,
		&d.FileType,
		&d.FilePath,
		&d.FileSizeBytes,
		&d.ContentHash,
		&d.ClassificationConfidence,
		&d.IsDeleted,
		&d.CreatedAt,
		&d.UpdatedAt,
	)
	return d, err
}

// Create inserts a new document row and returns the stored record.
func (r *DocumentPostgres) Create(ctx context.Context, doc *model.Document) (*model.Document, error) {
	const q = `
		INSERT INTO documents (id, name, description, document_type_id, uploaded_by_id, file_type,
			file_path, file_size_bytes, content_hash, classification_confidence, is_deleted,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING ` + documentColumns
	row := r.db.QueryRowContext(ctx, q,
		doc.ID,
		doc.Name,
		doc.Description,
		doc.DocumentTypeID,
		doc.UploadedByID,
		doc.FileType,
		doc.FilePath,
		doc.FileSizeBytes,
		doc.ContentHash,
		doc.ClassificationConfidence,
		doc.IsDeleted,
		doc.CreatedAt,
		doc.UpdatedAt,
	)
	out, err := scanDocument(row)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// FindByID fetches a single non-deleted document by its ID.
func (r *DocumentPostgres) FindByID(ctx context.Context, id string) (*model.Document, error) {
	const q = `
		SELECT ` + documentColumns + `
		FROM documents
		WHERE id = $1 AND is_deleted = FALSE
	`
	d, err := scanDocument(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Update replaces the mutable fields of a non-deleted document.
func (r *DocumentPostgres) Update(ctx context.Context, doc *model.Document) (*model.Document, error) {
	const q = `
		UPDATE documents
		SET name = $1, description = $2, document_type_id = $3, updated_at = $4
		WHERE id = $5 AND is_deleted = FALSE
		RETURNING ` + documentColumns
	row := r.db.QueryRowContext(ctx, q,
		doc.Name,
		doc.Description,
		doc.DocumentTypeID,
		doc.UpdatedAt,
		doc.ID,
	)
	out, err := scanDocument(row)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// SoftDelete marks a document deleted. It reports whether a row was affected.
func (r *DocumentPostgres) SoftDelete(ctx context.Context, id string, at time.Time) (bool, error) {
	const q = `
		UPDATE documents
		SET is_deleted = TRUE, updated_at = $1
		WHERE id = $2 AND is_deleted = FALSE
	`
	res, err := r.db.ExecContext(ctx, q, at, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// SetClassification writes the type reference and confidence produced by
// classification. Nil arguments clear the fields.
func (r *DocumentPostgres) SetClassification(ctx context.Context, id string, typeID *string, confidence *float64, at time.Time) (bool, error) {
	const q = `
		UPDATE documents
		SET document_type_id = $1, classification_confidence = $2, updated_at = $3
		WHERE id = $4 AND is_deleted = FALSE
	`
	res, err := r.db.ExecContext(ctx, q, typeID, confidence, at, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// SetFile points the document at a newly stored blob version.
func (r *DocumentPostgres) SetFile(ctx context.Context, id, filePath string, sizeBytes int64, contentHash string, at time.Time) (bool, error) {
	const q = `
		UPDATE documents
		SET file_path = $1, file_size_bytes = $2, content_hash = $3, updated_at = $4
		WHERE id = $5 AND is_deleted = FALSE
	`
	res, err := r.db.ExecContext(ctx, q, filePath, sizeBytes, contentHash, at, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// Search matches the term against name and description, newest first.
func (r *DocumentPostgres) Search(ctx context.Context, term string, typeID *string, pq repository.PageQuery) (*repository.PageResult[model.Document], error) {
	pattern := "%" + term + "%"

	const qCount = `
		SELECT COUNT(*)
		FROM documents
		WHERE is_deleted = FALSE
		  AND (name ILIKE $1 OR description ILIKE $1)
		  AND ($2::uuid IS NULL OR document_type_id = $2)
	`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount, pattern, typeID).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `
		SELECT ` + documentColumns + `
		FROM documents
		WHERE is_deleted = FALSE
		  AND (name ILIKE $1 OR description ILIKE $1)
		  AND ($2::uuid IS NULL OR document_type_id = $2)
		ORDER BY created_at DESC, id DESC
		LIMIT $3 OFFSET $4
	`
	rows, err := r.db.QueryContext(ctx, qList, pattern, typeID, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Document]{Items: items, Total: total}, nil
}

// ListByType returns non-deleted documents of one type, newest first.
func (r *DocumentPostgres) ListByType(ctx context.Context, typeID string, pq repository.PageQuery) (*repository.PageResult[model.Document], error) {
	const qCount = `SELECT COUNT(*) FROM documents WHERE is_deleted = FALSE AND document_type_id = $1`
	var total int
	if err := r.db.QueryRowContext(ctx, qCount, typeID).Scan(&total); err != nil {
		return nil, err
	}

	const qList = `
		SELECT ` + documentColumns + `
		FROM documents
		WHERE is_deleted = FALSE AND document_type_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.QueryContext(ctx, qList, typeID, pq.Limit, pq.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &repository.PageResult[model.Document]{Items: items, Total: total}, nil
}

// Recent returns the most recently created non-deleted documents.
func (r *DocumentPostgres) Recent(ctx context.Context, limit int) ([]model.Document, error) {
	const q = `
		SELECT ` + documentColumns + `
		FROM documents
		WHERE is_deleted = FALSE
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Document, 0)
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Count returns the number of non-deleted documents.
func (r *DocumentPostgres) Count(ctx context.Context) (int, error) {
	const q = `SELECT COUNT(*) FROM documents WHERE is_deleted = FALSE`
	var total int
	if err := r.db.QueryRowContext(ctx, q).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// CountByType returns the number of non-deleted documents referencing a type.
func (r *DocumentPostgres) CountByType(ctx context.Context, typeID string) (int, error) {
	const q = `SELECT COUNT(*) FROM documents WHERE is_deleted = FALSE AND document_type_id = $1`
	var total int
	if err := r.db.QueryRowContext(ctx, q, typeID).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}
