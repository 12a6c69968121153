package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrNotFound   = errors.New("object not found")
	ErrInvalidKey = errors.New("invalid object key")
)

// Storage defines the interface for object storage operations
type Storage interface {
	// Save stores an object under the given key
	Save(ctx context.Context, key string, reader io.Reader, contentType string) error

	// Delete removes an object; a missing object is not an error
	Delete(ctx context.Context, key string) error

	// Exists checks if an object exists
	Exists(ctx context.Context, key string) (bool, error)

	// List returns every key that starts with prefix
	List(ctx context.Context, prefix string) ([]string, error)

	// URL returns a public URL for the object
	URL(key string) string

	// KeyFromURL maps a public URL produced by URL back to its key
	KeyFromURL(url string) (string, bool)
}

// Config holds storage configuration
type Config struct {
	Type       string // local, s3, cloudflare_r2
	BasePath   string // For local storage
	BaseURL    string // Public URL base
	Bucket     string // For S3/R2
	Region     string // For S3
	AccessKey  string // For S3/R2
	SecretKey  string // For S3/R2
	Endpoint   string // For R2 or custom S3
	AccountID  string // For R2 when endpoint is empty
	PublicRead bool   // Make files public by default
}

// NewStorage creates a new storage instance based on configuration
func NewStorage(cfg Config) (Storage, error) {
	switch cfg.Type {
	case "local":
		return NewLocalStorage(cfg)
	case "s3":
		return NewS3Storage(cfg)
	case "cloudflare_r2":
		return NewCloudflareR2Storage(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage type: %s", cfg.Type)
	}
}

// ProjectPrefix - все файлы проекта лежат под этим префиксом
func ProjectPrefix(projectID string) string {
	return "projects/" + projectID + "/"
}

// ChatPrefix - файлы чата; ':' из id комнаты заменяется
func ChatPrefix(roomID string) string {
	return "chat/" + strings.ReplaceAll(roomID, ":", "_") + "/"
}

// NewObjectKey строит ключ вида {prefix}{uuid}{ext}
func NewObjectKey(prefix, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	if len(ext) > 10 {
		ext = ""
	}
	return prefix + uuid.NewString() + ext
}

// trimBase отрезает базовый URL и возвращает ключ
func trimBase(baseURL, url string) (string, bool) {
	base := strings.TrimRight(baseURL, "/") + "/"
	if !strings.HasPrefix(url, base) {
		return "", false
	}
	key := strings.TrimPrefix(url, base)
	if key == "" {
		return "", false
	}
	return key, true
}
