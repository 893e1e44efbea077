package postgres

import (
	"context"
	"testing"
	"time"

	"docvault/internal/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var metadataCols = []string{"id", "document_id", "key", "value", "data_type", "created_at", "updated_at"}

func metadataRow(md *model.DocumentMetadata) *sqlmock.Rows {
	return sqlmock.NewRows(metadataCols).AddRow(
		md.ID, md.DocumentID, md.Key, md.Value, md.DataType, md.CreatedAt, md.UpdatedAt,
	)
}

func TestMetadataPostgres_Upsert(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewMetadataPostgres(db)
	ctx := context.Background()

	now := time.Now().UTC()
	md := &model.DocumentMetadata{
		ID:         "md-1",
		DocumentID: "doc-1",
		Key:        "invoiceNumber",
		Value:      "INV-001",
		DataType:   model.DataTypeString,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	mock.ExpectQuery("INSERT INTO document_metadata .+ ON CONFLICT").
		WithArgs(md.ID, md.DocumentID, md.Key, md.Value, md.DataType, now, now).
		WillReturnRows(metadataRow(md))

	out, err := repo.Upsert(ctx, md)

	assert.NoError(t, err)
	assert.Equal(t, "INV-001", out.Value)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMetadataPostgres_Upsert_SecondWriteReplacesValue(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewMetadataPostgres(db)
	ctx := context.Background()
	now := time.Now().UTC()

	first := &model.DocumentMetadata{
		ID: "md-1", DocumentID: "doc-1", Key: "status", Value: "draft",
		DataType: model.DataTypeString, CreatedAt: now, UpdatedAt: now,
	}
	second := &model.DocumentMetadata{
		ID: "md-2", DocumentID: "doc-1", Key: "status", Value: "final",
		DataType: model.DataTypeString, CreatedAt: now, UpdatedAt: now,
	}
	// The conflict clause keeps the original row id but the latest value.
	replaced := &model.DocumentMetadata{
		ID: "md-1", DocumentID: "doc-1", Key: "status", Value: "final",
		DataType: model.DataTypeString, CreatedAt: now, UpdatedAt: now,
	}

	mock.ExpectQuery("INSERT INTO document_metadata .+ ON CONFLICT").
		WithArgs(first.ID, first.DocumentID, first.Key, first.Value, first.DataType, now, now).
		WillReturnRows(metadataRow(first))
	mock.ExpectQuery("INSERT INTO document_metadata .+ ON CONFLICT").
		WithArgs(second.ID, second.DocumentID, second.Key, second.Value, second.DataType, now, now).
		WillReturnRows(metadataRow(replaced))

	_, err = repo.Upsert(ctx, first)
	require.NoError(t, err)

	out, err := repo.Upsert(ctx, second)
	require.NoError(t, err)

	assert.Equal(t, "md-1", out.ID)
	assert.Equal(t, "final", out.Value)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMetadataPostgres_ListByDocumentKey(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewMetadataPostgres(db)
	ctx := context.Background()
	now := time.Now().UTC()

	rows := sqlmock.NewRows(metadataCols).
		AddRow("md-2", "doc-1", model.MetadataKeyClassificationResult, `{"is_successful":true}`, model.DataTypeJSON, now, now).
		AddRow("md-1", "doc-1", model.MetadataKeyClassificationResult, `{"is_successful":false}`, model.DataTypeJSON, now.Add(-time.Hour), now.Add(-time.Hour))

	mock.ExpectQuery("SELECT (.+) FROM document_metadata").
		WithArgs("doc-1", model.MetadataKeyClassificationResult).
		WillReturnRows(rows)

	items, err := repo.ListByDocumentKey(ctx, "doc-1", model.MetadataKeyClassificationResult)

	assert.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "md-2", items[0].ID)
}

func TestMetadataPostgres_DeleteByDocument(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewMetadataPostgres(db)
	ctx := context.Background()

	mock.ExpectExec("DELETE FROM document_metadata").
		WithArgs("doc-1").
		WillReturnResult(sqlmock.NewResult(0, 4))

	n, err := repo.DeleteByDocument(ctx, "doc-1")

	assert.NoError(t, err)
	assert.Equal(t, int64(4), n)
}
