package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"docvault/internal/config"
)

// versionPrefix is the key namespace for per-document file versions.
// Layout: versions/<documentID>/<00001>/<filename>
const versionPrefix = "versions"

// metadataSavedBy carries the uploading user through object user metadata.
const metadataSavedBy = "saved-by"

// minioStorage implements the Storage interface using an S3-compatible backend (MinIO, AWS S3, etc.).
// It is safe for concurrent use by multiple goroutines.
type minioStorage struct {
	client *minio.Client
	bucket string
}

// NewMinIO creates a new S3-compatible storage client backed by MinIO.
// It validates connectivity and ensures the bucket exists (creates it if missing).
func NewMinIO(cfg config.MinIOConfig) (Storage, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio endpoint is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("minio credentials are required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("minio bucket is required")
	}

	cli, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	ms := &minioStorage{client: cli, bucket: cfg.Bucket}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Ensure bucket exists.
	exists, err := cli.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		if err := cli.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}

	return ms, nil
}

// Put uploads an object using streaming I/O only (no local disk).
func (m *minioStorage) Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error) {
	putOpts := minio.PutObjectOptions{
		ContentType:  opt.ContentType,
		UserMetadata: opt.Metadata,
	}
	info, err := m.client.PutObject(ctx, m.bucket, key, r, opt.Size, putOpts)
	if err != nil {
		return ObjectInfo{}, err
	}
	return ObjectInfo{
		Key:          key,
		Size:         info.Size,
		ETag:         info.ETag,
		ContentType:  opt.ContentType,
		LastModified: time.Now(), // MinIO PutObjectInfo doesn't return LastModified
		Metadata:     opt.Metadata,
	}, nil
}

// Get downloads an object content as a ReadCloser along with basic info.
func (m *minioStorage) Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error) {
	obj, err := m.client.GetObject(ctx, m.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, ObjectInfo{}, err
	}
	// Fetch stat to populate info; avoid reading content into memory.
	st, err := obj.Stat()
	if err != nil {
		obj.Close()
		return nil, ObjectInfo{}, err
	}
	info := ObjectInfo{
		Key:          key,
		Size:         st.Size,
		ETag:         st.ETag,
		ContentType:  st.ContentType,
		LastModified: st.LastModified,
		Metadata:     st.UserMetadata,
	}
	return obj, info, nil
}

// Delete removes an object by key.
func (m *minioStorage) Delete(ctx context.Context, key string) error {
	return m.client.RemoveObject(ctx, m.bucket, key, minio.RemoveObjectOptions{})
}

// PresignGet generates a pre-signed URL for GET with the specified expiry.
func (m *minioStorage) PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	u, err := m.client.PresignedGetObject(ctx, m.bucket, key, expiry, url.Values{})
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

// SaveVersion stores the content under the next version number for the document.
func (m *minioStorage) SaveVersion(ctx context.Context, documentID string, r io.Reader, filename, savedBy string, opt PutObjectOptions) (VersionInfo, error) {
	history, err := m.VersionHistory(ctx, documentID)
	if err != nil {
		return VersionInfo{}, fmt.Errorf("list versions: %w", err)
	}
	next := 1
	if len(history) > 0 {
		next = history[0].Version + 1
	}

	key := versionKey(documentID, next, filename)
	if opt.Metadata == nil {
		opt.Metadata = map[string]string{}
	}
	if savedBy != "" {
		opt.Metadata[metadataSavedBy] = savedBy
	}

	info, err := m.Put(ctx, key, r, opt)
	if err != nil {
		return VersionInfo{}, err
	}
	return VersionInfo{
		Version:   next,
		Path:      key,
		SizeBytes: info.Size,
		SavedBy:   savedBy,
		SavedAt:   info.LastModified,
	}, nil
}

// VersionHistory lists stored versions of a document, newest first.
func (m *minioStorage) VersionHistory(ctx context.Context, documentID string) ([]VersionInfo, error) {
	prefix := path.Join(versionPrefix, documentID) + "/"

	versions := make([]VersionInfo, 0)
	for obj := range m.client.ListObjects(ctx, m.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		v, ok := parseVersionKey(obj.Key, prefix)
		if !ok {
			continue
		}
		versions = append(versions, VersionInfo{
			Version:   v,
			Path:      obj.Key,
			SizeBytes: obj.Size,
			SavedBy:   obj.UserMetadata[metadataSavedBy],
			SavedAt:   obj.LastModified,
		})
	}

	sort.Slice(versions, func(i, j int) bool { return versions[i].Version > versions[j].Version })
	return versions, nil
}

// GetVersion streams one version's content. Version 0 resolves to the latest.
func (m *minioStorage) GetVersion(ctx context.Context, documentID string, version int) (io.ReadCloser, ObjectInfo, error) {
	history, err := m.VersionHistory(ctx, documentID)
	if err != nil {
		return nil, ObjectInfo{}, fmt.Errorf("list versions: %w", err)
	}
	if len(history) == 0 {
		return nil, ObjectInfo{}, fmt.Errorf("document %s has no stored versions", documentID)
	}

	if version == 0 {
		return m.Get(ctx, history[0].Path)
	}
	for _, v := range history {
		if v.Version == version {
			return m.Get(ctx, v.Path)
		}
	}
	return nil, ObjectInfo{}, fmt.Errorf("document %s has no version %d", documentID, version)
}

func versionKey(documentID string, version int, filename string) string {
	return path.Join(versionPrefix, documentID, fmt.Sprintf("%05d", version), filename)
}

// parseVersionKey extracts the version number from a key shaped
// versions/<id>/<00001>/<filename>.
func parseVersionKey(key, prefix string) (int, bool) {
	rest := strings.TrimPrefix(key, prefix)
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) != 2 {
		return 0, false
	}
	v, err := strconv.Atoi(parts[0])
	if err != nil || v < 1 {
		return 0, false
	}
	return v, true
}
