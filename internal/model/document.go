package model

import "time"

// Document represents a stored file and its descriptive fields.
// This is a pure domain model with no database-specific dependencies or tags.
// It can be used across layers (HTTP, service, storage) without coupling to persistence.
type Document struct {
	ID                       string             `json:"id"`
	Name                     string             `json:"name"`
	Description              string             `json:"description"`
	DocumentTypeID           *string            `json:"document_type_id,omitempty"`
	UploadedByID             string             `json:"uploaded_by_id"`
	FileType                 string             `json:"file_type"`
	FilePath                 string             `json:"file_path"`
	FileSizeBytes            int64              `json:"file_size_bytes"`
	ContentHash              string             `json:"content_hash"`
	ClassificationConfidence *float64           `json:"classification_confidence,omitempty"`
	IsDeleted                bool               `json:"is_deleted"`
	CreatedAt                time.Time          `json:"created_at"`
	UpdatedAt                time.Time          `json:"updated_at"`
	Metadata                 []DocumentMetadata `json:"metadata,omitempty"`
}
