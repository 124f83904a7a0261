package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
)

var (
	// ErrInvalidFileType is returned for uploads that are not JPEG, PNG,
	// or GIF. The check runs on sniffed content, not the client-supplied
	// content type.
	ErrInvalidFileType = errors.New("invalid file type. Only JPEG, PNG, and GIF are allowed")
)

// Store is the blob store uploads are written to. Keys are opaque to the
// callers; the returned location is what gets persisted and served back to
// clients.
type Store interface {
	Put(ctx context.Context, key string, data io.Reader, contentType string) (string, error)
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
}

// DiskStore writes uploads under a local directory and returns relative
// forward-slash paths, matching the legacy upload layout.
type DiskStore struct {
	dir string
}

// NewDiskStore creates a disk store rooted at dir, creating it if needed.
func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &DiskStore{dir: dir}, nil
}

// Put writes the blob to disk and returns its relative path with forward
// slashes regardless of platform.
func (s *DiskStore) Put(ctx context.Context, key string, data io.Reader, contentType string) (string, error) {
	path := filepath.Join(s.dir, key)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, data); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write upload file: %w", err)
	}

	return filepath.ToSlash(path), nil
}

// Get reads a blob back from disk.
func (s *DiskStore) Get(ctx context.Context, key string) ([]byte, error) {
	return os.ReadFile(filepath.Join(s.dir, key))
}

// Delete removes a blob from disk.
func (s *DiskStore) Delete(ctx context.Context, key string) error {
	return os.Remove(filepath.Join(s.dir, key))
}

// GenerateKey generates a unique key for an uploaded file: the submission
// time followed by the original filename with spaces replaced.
func GenerateKey(filename string) string {
	sanitized := strings.ReplaceAll(filename, " ", "_")
	return fmt.Sprintf("%d_%s", time.Now().Unix(), sanitized)
}

// SniffImageType sniffs the content and returns its MIME type if it is an
// allowed image format, or ErrInvalidFileType otherwise.
func SniffImageType(data []byte) (string, error) {
	mtype := mimetype.Detect(data)
	switch mtype.String() {
	case "image/jpeg", "image/png", "image/gif":
		return mtype.String(), nil
	}
	return "", ErrInvalidFileType
}

// SaveImage validates and stores an uploaded image, returning the stored
// location. The blob is fully written before the caller proceeds to any
// database insert; a failed write aborts the upload with nothing stored.
func SaveImage(ctx context.Context, store Store, fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}

	contentType, err := SniffImageType(data)
	if err != nil {
		return "", err
	}

	key := GenerateKey(fh.Filename)
	return store.Put(ctx, key, bytes.NewReader(data), contentType)
}
