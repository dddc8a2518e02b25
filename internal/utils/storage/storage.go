package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const (
	BucketProfileImages = "profile_images"
	BucketRecipes       = "recipes"
)

var ErrInvalidKey = errors.New("storage: invalid object key")

// Storage keeps uploaded images addressed by "<bucket>/<name>" keys.
type Storage interface {
	UploadFile(ctx context.Context, bucket, filename string, data []byte) (string, error)
	ReadFile(ctx context.Context, key string) ([]byte, error)
	WriteFile(ctx context.Context, key string, data []byte) error
	// DeleteFile does not fail when the object is already gone.
	DeleteFile(ctx context.Context, key string) error
	URL(key string) string
}

// NewObjectKey builds a unique key in bucket keeping the upload's extension.
func NewObjectKey(bucket, filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return path.Join(bucket, uuid.New().String()+ext)
}

type localStorage struct {
	root    string
	baseURL string
}

// NewLocalStorage stores objects under root and serves them from baseURL.
func NewLocalStorage(root, baseURL string) Storage {
	return &localStorage{
		root:    root,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (s *localStorage) path(key string) (string, error) {
	clean := path.Clean("/" + key)
	if key == "" || clean == "/" || strings.Contains(key, "..") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return filepath.Join(s.root, filepath.FromSlash(clean)), nil
}

func (s *localStorage) UploadFile(ctx context.Context, bucket, filename string, data []byte) (string, error) {
	key := NewObjectKey(bucket, filename)
	if err := s.WriteFile(ctx, key, data); err != nil {
		return "", err
	}
	return key, nil
}

func (s *localStorage) ReadFile(_ context.Context, key string) ([]byte, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(p)
}

func (s *localStorage) WriteFile(_ context.Context, key string, data []byte) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fmt.Errorf("storage: creating directory: %w", err)
	}
	return os.WriteFile(p, data, 0o644)
}

func (s *localStorage) DeleteFile(_ context.Context, key string) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (s *localStorage) URL(key string) string {
	if key == "" {
		return ""
	}
	return s.baseURL + "/" + key
}
