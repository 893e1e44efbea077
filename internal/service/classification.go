package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"docvault/internal/classify"
	"docvault/internal/extract"
	"docvault/internal/model"
	"docvault/internal/repository"
)

// errNotApplied signals inside the transaction closure that the target
// document no longer exists; callers translate it to (false, nil).
var errNotApplied = errors.New("classification not applied")

// ClassificationService orchestrates text extraction, classification, and the
// transactional application of results to documents.
//
// Each request moves through Requested, TextExtracted, Classified, and then
// Applied or Failed. A Failed result carries IsSuccessful=false and is a
// normal outcome for the caller to check, never an error.
type ClassificationService interface {
	// Classify extracts text from the content and produces a classification
	// result. It never returns an error for extractor or classifier failures;
	// those degrade to an unsuccessful result.
	Classify(ctx context.Context, r io.Reader, filename string) (model.ClassificationResult, error)

	// Apply writes the predicted type and confidence onto the document and
	// appends the serialized result to the document's classification history,
	// in one transaction. It reports false without writing anything when the
	// document does not exist or the result carries no resolved type id (a
	// label that maps to no stored active type must not clear the document's
	// current type).
	Apply(ctx context.Context, documentID string, result model.ClassificationResult) (bool, error)

	// History returns the document's past classification results, newest
	// first. Malformed entries are skipped and logged.
	History(ctx context.Context, documentID string) ([]model.ClassificationResult, error)

	// Reset clears the document's type and confidence and deletes its
	// classification history, in one transaction.
	Reset(ctx context.Context, documentID string) (bool, error)
}

type classificationService struct {
	uow        repository.UnitOfWork
	extractor  extract.Extractor
	classifier classify.Classifier
	fallback   classify.Classifier
	logger     *slog.Logger
}

// NewClassificationService constructs a ClassificationService. The fallback
// classifier is consulted when the primary one errors or reports failure;
// pass nil to disable the degradation step.
func NewClassificationService(uow repository.UnitOfWork, extractor extract.Extractor, classifier, fallback classify.Classifier, logger *slog.Logger) ClassificationService {
	return &classificationService{
		uow:        uow,
		extractor:  extractor,
		classifier: classifier,
		fallback:   fallback,
		logger:     logger.With("service", "classification"),
	}
}

func (s *classificationService) Classify(ctx context.Context, r io.Reader, filename string) (model.ClassificationResult, error) {
	if r == nil {
		return model.FailedClassification("no content provided", time.Now().UTC()), nil
	}

	text, err := s.extractor.Extract(r, filepath.Ext(filename))
	if err != nil || text == "" {
		return model.FailedClassification("no text could be extracted", time.Now().UTC()), nil
	}

	res, err := s.classifier.Classify(ctx, text)
	if (err != nil || !res.IsSuccessful) && s.fallback != nil && s.fallback != s.classifier {
		if err != nil {
			s.logger.Warn("classifier unavailable, using fallback", "error", err)
		}
		res, err = s.fallback.Classify(ctx, text)
	}
	if err != nil {
		return model.FailedClassification(err.Error(), time.Now().UTC()), nil
	}
	if !res.IsSuccessful {
		return model.FailedClassification(res.ErrorMessage, time.Now().UTC()), nil
	}

	return s.mapResult(ctx, res), nil
}

// mapResult resolves the predicted label against stored document types so a
// successful result carries the concrete type id when one exists.
func (s *classificationService) mapResult(ctx context.Context, res classify.Result) model.ClassificationResult {
	out := model.ClassificationResult{
		IsSuccessful: true,
		DocumentType: res.Label,
		Confidence:   res.Confidence,
		Predictions:  res.Predictions,
		ClassifiedAt: time.Now().UTC(),
	}

	dt, err := s.uow.DocumentTypes().FindByTypeName(ctx, model.DeriveTypeName(res.Label))
	switch {
	case err == nil && dt.IsActive:
		out.DocumentTypeID = &dt.ID
		out.DocumentType = dt.Name
	case err != nil && !errors.Is(err, sql.ErrNoRows):
		s.logger.Warn("document type lookup failed", "label", res.Label, "error", err)
	}
	return out
}

func (s *classificationService) Apply(ctx context.Context, documentID string, result model.ClassificationResult) (bool, error) {
	if documentID == "" {
		return false, ErrIDRequired
	}
	if result.DocumentTypeID == nil {
		// Nothing to apply; only Reset may clear a document's type.
		return false, nil
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return false, fmt.Errorf("serialize classification result: %w", err)
	}

	now := time.Now().UTC()
	err = runInTx(ctx, s.uow, s.logger, "apply classification", func(uow repository.UnitOfWork) error {
		ok, err := uow.Documents().SetClassification(ctx, documentID, result.DocumentTypeID, &result.Confidence, now)
		if err != nil {
			return err
		}
		if !ok {
			return errNotApplied
		}
		_, err = uow.Metadata().Insert(ctx, &model.DocumentMetadata{
			ID:         uuid.NewString(),
			DocumentID: documentID,
			Key:        model.MetadataKeyClassificationResult,
			Value:      string(payload),
			DataType:   model.DataTypeJSON,
			CreatedAt:  now,
			UpdatedAt:  now,
		})
		return err
	})
	if errors.Is(err, errNotApplied) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *classificationService) History(ctx context.Context, documentID string) ([]model.ClassificationResult, error) {
	if documentID == "" {
		return nil, ErrIDRequired
	}

	rows, err := s.uow.Metadata().ListByDocumentKey(ctx, documentID, model.MetadataKeyClassificationResult)
	if err != nil {
		return nil, err
	}

	history := make([]model.ClassificationResult, 0, len(rows))
	for _, row := range rows {
		var res model.ClassificationResult
		if err := json.Unmarshal([]byte(row.Value), &res); err != nil {
			s.logger.Warn("skipping malformed classification entry", "document_id", documentID, "metadata_id", row.ID, "error", err)
			continue
		}
		history = append(history, res)
	}
	return history, nil
}

func (s *classificationService) Reset(ctx context.Context, documentID string) (bool, error) {
	if documentID == "" {
		return false, ErrIDRequired
	}

	now := time.Now().UTC()
	err := runInTx(ctx, s.uow, s.logger, "reset classification", func(uow repository.UnitOfWork) error {
		ok, err := uow.Documents().SetClassification(ctx, documentID, nil, nil, now)
		if err != nil {
			return err
		}
		if !ok {
			return errNotApplied
		}
		_, err = uow.Metadata().DeleteByDocumentKey(ctx, documentID, model.MetadataKeyClassificationResult)
		return err
	})
	if errors.Is(err, errNotApplied) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
