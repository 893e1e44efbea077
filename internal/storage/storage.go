package storage

import (
	"context"
	"io"
	"time"
)

// Package storage contains file/object storage abstractions and utilities for object stores (S3-compatible).
// Implementations must avoid using local disk and rely on streaming I/O only.

// PutObjectOptions define optional parameters for uploading objects.
// Size should be the exact number of bytes if known; if unknown, set to -1 and the implementation
// will buffer/chunk as supported by the backend.
// ContentType and Metadata are optional.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo contains basic information about an object in storage.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// VersionInfo describes one saved version of a document's file.
type VersionInfo struct {
	Version   int       `json:"version"`
	Path      string    `json:"path"`
	SizeBytes int64     `json:"size_bytes"`
	SavedBy   string    `json:"saved_by,omitempty"`
	SavedAt   time.Time `json:"saved_at"`
}

// Storage is a reusable, S3-compatible object storage client interface.
// Methods use context and streaming readers/writers; no local disk is used.
//
// Version objects are kept per document under a dedicated prefix; version
// numbers start at 1 and grow monotonically.
type Storage interface {
	// Put uploads an object under the given key using the provided reader and options.
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Get retrieves an object's content as a streaming reader alongside its info.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	// Delete removes an object by key.
	Delete(ctx context.Context, key string) error
	// PresignGet returns a time-limited URL that can be used to download the object without credentials.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)

	// SaveVersion stores the content as the next version of the document's
	// file and returns the assigned version number and storage path.
	SaveVersion(ctx context.Context, documentID string, r io.Reader, filename, savedBy string, opt PutObjectOptions) (VersionInfo, error)
	// VersionHistory lists the saved versions of a document, newest first.
	VersionHistory(ctx context.Context, documentID string) ([]VersionInfo, error)
	// GetVersion retrieves one version's content; version 0 means the latest.
	GetVersion(ctx context.Context, documentID string, version int) (io.ReadCloser, ObjectInfo, error)
}
