package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"docvault/internal/model"
	"docvault/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var documentCols = []string{
	"id", "name", "description", "document_type_id", "uploaded_by_id", "file_type",
	"file_path", "file_size_bytes", "content_hash", "classification_confidence", "is_deleted",
	"created_at", "updated_at",
}

func documentRow(doc *model.Document) *sqlmock.Rows {
	return sqlmock.NewRows(documentCols).AddRow(
		doc.ID, doc.Name, doc.Description, doc.DocumentTypeID, doc.UploadedByID, doc.FileType,
		doc.FilePath, doc.FileSizeBytes, doc.ContentHash, doc.ClassificationConfidence, doc.IsDeleted,
		doc.CreatedAt, doc.UpdatedAt,
	)
}

func TestDocumentPostgres_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	doc := &model.Document{
		ID:            "doc-uuid",
		Name:          "report.pdf",
		Description:   "quarterly report",
		UploadedByID:  "user-uuid",
		FileType:      ".pdf",
		FilePath:      "documents/doc-uuid.pdf",
		FileSizeBytes: 1024,
		ContentHash:   "abc123",
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	mock.ExpectQuery("INSERT INTO documents").
		WithArgs(doc.ID, doc.Name, doc.Description, nil, doc.UploadedByID, doc.FileType,
			doc.FilePath, doc.FileSizeBytes, doc.ContentHash, nil, false, now, now).
		WillReturnRows(documentRow(doc))

	result, err := repo.Create(ctx, doc)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, doc.ID, result.ID)
	assert.Equal(t, doc.ContentHash, result.ContentHash)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_FindByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		doc := &model.Document{ID: "doc-1", Name: "file.txt", CreatedAt: time.Now(), UpdatedAt: time.Now()}
		mock.ExpectQuery("SELECT (.+) FROM documents").
			WithArgs("doc-1").
			WillReturnRows(documentRow(doc))

		got, err := repo.FindByID(ctx, "doc-1")

		assert.NoError(t, err)
		assert.Equal(t, "doc-1", got.ID)
	})

	t.Run("soft deleted rows are invisible", func(t *testing.T) {
		mock.ExpectQuery("SELECT (.+) FROM documents").
			WithArgs("gone").
			WillReturnError(sql.ErrNoRows)

		got, err := repo.FindByID(ctx, "gone")

		assert.Nil(t, got)
		assert.True(t, errors.Is(err, sql.ErrNoRows))
	})
}

func TestDocumentPostgres_SoftDelete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()
	now := time.Now().UTC()

	t.Run("marks the row deleted", func(t *testing.T) {
		mock.ExpectExec("UPDATE documents").
			WithArgs(now, "doc-1").
			WillReturnResult(sqlmock.NewResult(0, 1))

		ok, err := repo.SoftDelete(ctx, "doc-1", now)

		assert.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("already deleted or missing", func(t *testing.T) {
		mock.ExpectExec("UPDATE documents").
			WithArgs(now, "doc-1").
			WillReturnResult(sqlmock.NewResult(0, 0))

		ok, err := repo.SoftDelete(ctx, "doc-1", now)

		assert.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestDocumentPostgres_Search(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT COUNT\\(\\*\\)").
		WithArgs("%invoice%", nil).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	doc := &model.Document{ID: "doc-1", Name: "invoice.pdf", CreatedAt: time.Now(), UpdatedAt: time.Now()}
	mock.ExpectQuery("SELECT (.+) FROM documents").
		WithArgs("%invoice%", nil, 10, 0).
		WillReturnRows(documentRow(doc))

	res, err := repo.Search(ctx, "invoice", nil, repository.PageQuery{Limit: 10, Offset: 0})

	assert.NoError(t, err)
	assert.Equal(t, 1, res.Total)
	assert.Len(t, res.Items, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDocumentPostgres_SetClassification(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()
	now := time.Now().UTC()

	typeID := "type-1"
	conf := 0.92

	mock.ExpectExec("UPDATE documents").
		WithArgs(&typeID, &conf, now, "doc-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := repo.SetClassification(ctx, "doc-1", &typeID, &conf, now)

	assert.NoError(t, err)
	assert.True(t, ok)
}

func TestDocumentPostgres_CountByType(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewDocumentPostgres(db)
	ctx := context.Background()

	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM documents").
		WithArgs("type-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	n, err := repo.CountByType(ctx, "type-1")

	assert.NoError(t, err)
	assert.Equal(t, 3, n)
}
