package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"

	"docvault/internal/config"
	"docvault/internal/model"
	"docvault/internal/repository"
	"docvault/internal/storage"
)

// downloadURLExpiry bounds how long a presigned content URL stays valid.
const downloadURLExpiry = 15 * time.Minute

// DocumentListResult is the service-level DTO for paginated documents.
type DocumentListResult struct {
	Items []model.Document `json:"data"`
	Total int              `json:"total"`
}

// UploadCommand carries the caller-supplied fields for a new document.
// Metadata keys are upserted alongside the document in the same transaction.
type UploadCommand struct {
	Name           string
	Description    string
	DocumentTypeID *string
	UploadedByID   string
	Filename       string
	ContentType    string
	Metadata       map[string]string
}

// UpdateCommand carries a partial replace of a document's descriptive fields.
// A nil Metadata map leaves the stored metadata untouched; a non-nil map
// (empty included) replaces the full set.
type UpdateCommand struct {
	Name           string
	Description    string
	DocumentTypeID *string
	Metadata       map[string]string
}

// DocumentService defines the use cases for handling documents.
type DocumentService interface {
	// Upload hashes and stores the content, persists the document row and its
	// metadata in one transaction, then attempts best-effort classification.
	// Classification failure never fails the upload, and a predicted type is
	// assigned only when the command did not name one explicitly.
	Upload(ctx context.Context, r io.Reader, cmd UploadCommand) (*model.Document, error)

	// Get returns a non-deleted document with its metadata.
	Get(ctx context.Context, id string) (*model.Document, error)

	// GetContent streams the document's current file content.
	GetContent(ctx context.Context, id string) (io.ReadCloser, storage.ObjectInfo, error)

	// DownloadURL returns a time-limited URL for fetching the content
	// directly from object storage.
	DownloadURL(ctx context.Context, id string) (string, error)

	// Update replaces name, description, and type. When cmd.Metadata is
	// non-nil the stored metadata set is replaced wholesale. Returns
	// ErrNotFound for a missing or deleted document.
	Update(ctx context.Context, id string, cmd UpdateCommand) (*model.Document, error)

	// Delete soft-deletes the document. It reports false when the document
	// does not exist or is already deleted. Metadata and stored bytes remain.
	Delete(ctx context.Context, id string) (bool, error)

	// Search matches term against name and description, optionally filtered
	// by type, excluding soft-deleted documents.
	Search(ctx context.Context, term string, typeID *string, limit, offset int) (*DocumentListResult, error)

	// ListByType returns documents of one type, newest first.
	ListByType(ctx context.Context, typeID string, limit, offset int) (*DocumentListResult, error)

	// Recent returns the most recently created documents.
	Recent(ctx context.Context, limit int) ([]model.Document, error)

	// Count returns the number of non-deleted documents.
	Count(ctx context.Context) (int, error)

	// CountByType returns the number of non-deleted documents of one type.
	CountByType(ctx context.Context, typeID string) (int, error)

	// SaveVersion stores the content as a new file version and repoints the
	// document's file fields at it in one transaction.
	SaveVersion(ctx context.Context, id string, r io.Reader, filename, savedBy string) (*storage.VersionInfo, error)

	// VersionHistory lists the document's saved file versions, newest first.
	VersionHistory(ctx context.Context, id string) ([]storage.VersionInfo, error)

	// GetVersion streams one saved version's content; version 0 is the latest.
	GetVersion(ctx context.Context, id string, version int) (io.ReadCloser, storage.ObjectInfo, error)
}

// documentService is a concrete implementation of DocumentService.
type documentService struct {
	uow        repository.UnitOfWork
	store      storage.Storage
	classifier ClassificationService
	pagination config.PaginationConfig
	logger     *slog.Logger
}

// NewDocumentService constructs a new DocumentService. Pass a nil classifier
// to disable the post-upload classification step.
func NewDocumentService(uow repository.UnitOfWork, store storage.Storage, classifier ClassificationService, pagination config.PaginationConfig, logger *slog.Logger) DocumentService {
	return &documentService{
		uow:        uow,
		store:      store,
		classifier: classifier,
		pagination: pagination,
		logger:     logger.With("service", "documents"),
	}
}

func (s *documentService) Upload(ctx context.Context, r io.Reader, cmd UploadCommand) (*model.Document, error) {
	if r == nil {
		return nil, ErrReaderNil
	}

	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read content: %w", err)
	}

	sum := sha256.Sum256(content)
	hash := hex.EncodeToString(sum[:])

	ext := filepath.Ext(cmd.Filename)
	id := uuid.NewString()
	key := filepath.ToSlash(filepath.Join("documents", id+ext))

	// Store bytes first; the database row references the resulting path.
	if _, err := s.store.Put(ctx, key, bytes.NewReader(content), storage.PutObjectOptions{
		Size:        int64(len(content)),
		ContentType: cmd.ContentType,
		Metadata: map[string]string{
			"original-filename": cmd.Filename,
		},
	}); err != nil {
		return nil, fmt.Errorf("upload to storage: %w", err)
	}

	now := time.Now().UTC()
	name := cmd.Name
	if name == "" {
		name = cmd.Filename
	}
	doc := &model.Document{
		ID:             id,
		Name:           name,
		Description:    cmd.Description,
		DocumentTypeID: cmd.DocumentTypeID,
		UploadedByID:   cmd.UploadedByID,
		FileType:       ext,
		FilePath:       key,
		FileSizeBytes:  int64(len(content)),
		ContentHash:    hash,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	err = runInTx(ctx, s.uow, s.logger, "upload document", func(uow repository.UnitOfWork) error {
		if cmd.DocumentTypeID != nil {
			if err := validateTypeExists(ctx, uow, *cmd.DocumentTypeID); err != nil {
				return err
			}
		}
		if cmd.UploadedByID != "" {
			if _, err := uow.Users().FindByID(ctx, cmd.UploadedByID); err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return &ValidationError{Field: "uploaded_by_id", Reason: "unknown user"}
				}
				return err
			}
		}

		stored, err := uow.Documents().Create(ctx, doc)
		if err != nil {
			return fmt.Errorf("persist document: %w", err)
		}
		doc = stored

		metadata, err := upsertMetadataSet(ctx, uow, doc.ID, cmd.Metadata, now)
		if err != nil {
			return err
		}
		doc.Metadata = metadata
		return nil
	})
	if err != nil {
		// The row never committed; remove the orphaned object.
		if delErr := s.store.Delete(ctx, key); delErr != nil {
			s.logger.Error("storage cleanup failed after rollback", "key", key, "error", delErr)
		}
		return nil, err
	}

	// Durable phase done; classification is best-effort and must never undo it.
	s.autoClassify(ctx, doc, content, cmd.DocumentTypeID != nil)

	return doc, nil
}

// autoClassify runs the post-commit classification step. Failures are logged
// and swallowed; the predicted type is applied only when the uploader did not
// choose one explicitly.
func (s *documentService) autoClassify(ctx context.Context, doc *model.Document, content []byte, explicitType bool) {
	if s.classifier == nil {
		return
	}

	result, err := s.classifier.Classify(ctx, bytes.NewReader(content), doc.FilePath)
	if err != nil {
		s.logger.Warn("auto-classification failed", "document_id", doc.ID, "error", err)
		return
	}
	if !result.IsSuccessful {
		s.logger.Info("auto-classification produced no prediction", "document_id", doc.ID, "reason", result.ErrorMessage)
		return
	}
	if explicitType {
		s.logger.Info("auto-classification skipped, type set explicitly", "document_id", doc.ID, "predicted", result.DocumentType)
		return
	}

	applied, err := s.classifier.Apply(ctx, doc.ID, result)
	if err != nil {
		s.logger.Warn("applying classification failed", "document_id", doc.ID, "error", err)
		return
	}
	if applied {
		doc.DocumentTypeID = result.DocumentTypeID
		doc.ClassificationConfidence = &result.Confidence
	}
}

func (s *documentService) Get(ctx context.Context, id string) (*model.Document, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	doc, err := s.uow.Documents().FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	metadata, err := s.uow.Metadata().ListByDocument(ctx, id)
	if err != nil {
		return nil, err
	}
	doc.Metadata = metadata
	return doc, nil
}

func (s *documentService) GetContent(ctx context.Context, id string) (io.ReadCloser, storage.ObjectInfo, error) {
	if id == "" {
		return nil, storage.ObjectInfo{}, ErrIDRequired
	}
	doc, err := s.uow.Documents().FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ObjectInfo{}, ErrNotFound
		}
		return nil, storage.ObjectInfo{}, err
	}
	return s.store.Get(ctx, doc.FilePath)
}

func (s *documentService) DownloadURL(ctx context.Context, id string) (string, error) {
	if id == "" {
		return "", ErrIDRequired
	}
	doc, err := s.uow.Documents().FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return s.store.PresignGet(ctx, doc.FilePath, downloadURLExpiry)
}

func (s *documentService) Update(ctx context.Context, id string, cmd UpdateCommand) (*model.Document, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	if cmd.Name == "" {
		return nil, &ValidationError{Field: "name", Reason: "name is required"}
	}

	now := time.Now().UTC()
	return runInTxValue(ctx, s.uow, s.logger, "update document", func(uow repository.UnitOfWork) (*model.Document, error) {
		doc, err := uow.Documents().FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, ErrNotFound
			}
			return nil, err
		}

		if cmd.DocumentTypeID != nil {
			if err := validateTypeExists(ctx, uow, *cmd.DocumentTypeID); err != nil {
				return nil, err
			}
		}

		doc.Name = cmd.Name
		doc.Description = cmd.Description
		doc.DocumentTypeID = cmd.DocumentTypeID
		doc.UpdatedAt = now

		updated, err := uow.Documents().Update(ctx, doc)
		if err != nil {
			return nil, err
		}

		if cmd.Metadata != nil {
			// Full replace: clear the old set, re-insert the supplied one.
			if _, err := uow.Metadata().DeleteByDocument(ctx, id); err != nil {
				return nil, err
			}
			metadata, err := upsertMetadataSet(ctx, uow, id, cmd.Metadata, now)
			if err != nil {
				return nil, err
			}
			updated.Metadata = metadata
		} else {
			metadata, err := uow.Metadata().ListByDocument(ctx, id)
			if err != nil {
				return nil, err
			}
			updated.Metadata = metadata
		}
		return updated, nil
	})
}

func (s *documentService) Delete(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, ErrIDRequired
	}
	return s.uow.Documents().SoftDelete(ctx, id, time.Now().UTC())
}

func (s *documentService) Search(ctx context.Context, term string, typeID *string, limit, offset int) (*DocumentListResult, error) {
	pq := s.page(limit, offset)
	res, err := s.uow.Documents().Search(ctx, term, typeID, pq)
	if err != nil {
		return nil, err
	}
	return &DocumentListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *documentService) ListByType(ctx context.Context, typeID string, limit, offset int) (*DocumentListResult, error) {
	if typeID == "" {
		return nil, ErrIDRequired
	}
	pq := s.page(limit, offset)
	res, err := s.uow.Documents().ListByType(ctx, typeID, pq)
	if err != nil {
		return nil, err
	}
	return &DocumentListResult{Items: res.Items, Total: res.Total}, nil
}

func (s *documentService) Recent(ctx context.Context, limit int) ([]model.Document, error) {
	pq := s.page(limit, 0)
	return s.uow.Documents().Recent(ctx, pq.Limit)
}

func (s *documentService) Count(ctx context.Context) (int, error) {
	return s.uow.Documents().Count(ctx)
}

func (s *documentService) CountByType(ctx context.Context, typeID string) (int, error) {
	if typeID == "" {
		return 0, ErrIDRequired
	}
	return s.uow.Documents().CountByType(ctx, typeID)
}

func (s *documentService) SaveVersion(ctx context.Context, id string, r io.Reader, filename, savedBy string) (*storage.VersionInfo, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	if r == nil {
		return nil, ErrReaderNil
	}

	if _, err := s.uow.Documents().FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read content: %w", err)
	}
	sum := sha256.Sum256(content)
	hash := hex.EncodeToString(sum[:])

	info, err := s.store.SaveVersion(ctx, id, bytes.NewReader(content), filename, savedBy, storage.PutObjectOptions{
		Size: int64(len(content)),
	})
	if err != nil {
		return nil, fmt.Errorf("save version: %w", err)
	}

	now := time.Now().UTC()
	err = runInTx(ctx, s.uow, s.logger, "save document version", func(uow repository.UnitOfWork) error {
		ok, err := uow.Documents().SetFile(ctx, id, info.Path, int64(len(content)), hash, now)
		if err != nil {
			return err
		}
		if !ok {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &info, nil
}

func (s *documentService) VersionHistory(ctx context.Context, id string) ([]storage.VersionInfo, error) {
	if id == "" {
		return nil, ErrIDRequired
	}
	return s.store.VersionHistory(ctx, id)
}

func (s *documentService) GetVersion(ctx context.Context, id string, version int) (io.ReadCloser, storage.ObjectInfo, error) {
	if id == "" {
		return nil, storage.ObjectInfo{}, ErrIDRequired
	}
	return s.store.GetVersion(ctx, id, version)
}

// page normalizes caller-supplied pagination against the configured bounds.
func (s *documentService) page(limit, offset int) repository.PageQuery {
	if limit <= 0 {
		limit = s.pagination.DefaultLimit
	}
	if s.pagination.MaxLimit > 0 && limit > s.pagination.MaxLimit {
		limit = s.pagination.MaxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return repository.PageQuery{Limit: limit, Offset: offset}
}

// validateTypeExists fails with a ValidationError when the referenced
// document type is unknown.
func validateTypeExists(ctx context.Context, uow repository.UnitOfWork, typeID string) error {
	if _, err := uow.DocumentTypes().FindByID(ctx, typeID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return &ValidationError{Field: "document_type_id", Reason: "unknown document type"}
		}
		return err
	}
	return nil
}

// upsertMetadataSet writes the supplied key/value pairs with inferred data
// types. Keys are processed in sorted order so writes are deterministic.
func upsertMetadataSet(ctx context.Context, uow repository.UnitOfWork, documentID string, pairs map[string]string, now time.Time) ([]model.DocumentMetadata, error) {
	if len(pairs) == 0 {
		return nil, nil
	}

	keys := make([]string, 0, len(pairs))
	for k := range pairs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]model.DocumentMetadata, 0, len(keys))
	for _, k := range keys {
		stored, err := uow.Metadata().Upsert(ctx, &model.DocumentMetadata{
			ID:         uuid.NewString(),
			DocumentID: documentID,
			Key:        k,
			Value:      pairs[k],
			DataType:   model.InferDataType(pairs[k]),
			CreatedAt:  now,
			UpdatedAt:  now,
		})
		if err != nil {
			return nil, fmt.Errorf("upsert metadata %q: %w", k, err)
		}
		out = append(out, *stored)
	}
	return out, nil
}
