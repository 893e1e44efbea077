package model

import "time"

// MetadataKeyClassificationResult is the metadata key under which serialized
// classification results are stored. Rows with this key are append-only so the
// full classification history of a document can be read back.
const MetadataKeyClassificationResult = "ClassificationResult"

// UnknownDocumentType is the placeholder label returned when classification
// cannot produce a prediction.
const UnknownDocumentType = "Unknown"

// ClassificationResult is the outcome of classifying a document's text.
// It is not persisted as its own table; applied results are serialized into a
// DocumentMetadata row keyed MetadataKeyClassificationResult.
//
// A failed classification is a normal outcome, not an error: IsSuccessful is
// false, DocumentType is "Unknown", and Confidence is zero.
type ClassificationResult struct {
	IsSuccessful   bool               `json:"is_successful"`
	DocumentTypeID *string            `json:"document_type_id,omitempty"`
	DocumentType   string             `json:"document_type"`
	Confidence     float64            `json:"confidence"`
	Predictions    map[string]float64 `json:"predictions,omitempty"`
	ErrorMessage   string             `json:"error_message,omitempty"`
	ClassifiedAt   time.Time          `json:"classified_at"`
}

// FailedClassification builds the zero-confidence "Unknown" result used when
// extraction or classification cannot proceed.
func FailedClassification(reason string, at time.Time) ClassificationResult {
	return ClassificationResult{
		IsSuccessful: false,
		DocumentType: UnknownDocumentType,
		Confidence:   0,
		ErrorMessage: reason,
		ClassifiedAt: at,
	}
}
