// AngelaMos | 2026
// storage.go

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

var ErrObjectNotFound = errors.New("object not found")

// ObjectStorage is the blob backend posters are written to.
type ObjectStorage interface {
	EnsureBucket(ctx context.Context) error
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Bucket() string
}

// PosterStore names poster uploads and hands back the opaque reference the
// catalog persists.
type PosterStore struct {
	backend ObjectStorage
}

func NewPosterStore(backend ObjectStorage) *PosterStore {
	return &PosterStore{backend: backend}
}

// Save stores the poster under a fresh key and returns that key. The
// original filename only contributes its extension.
func (s *PosterStore) Save(
	ctx context.Context,
	filename string,
	r io.Reader,
	size int64,
	contentType string,
) (string, error) {
	key := "posters/" + uuid.NewString() + strings.ToLower(path.Ext(filename))

	if err := s.backend.Put(ctx, key, r, size, contentType); err != nil {
		return "", fmt.Errorf("put poster %s: %w", key, err)
	}

	return key, nil
}

func (s *PosterStore) Open(ctx context.Context, ref string) (io.ReadCloser, error) {
	rc, err := s.backend.Get(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("get poster %s: %w", ref, err)
	}
	return rc, nil
}

// Remove is used to roll back an upload whose catalog insert failed.
func (s *PosterStore) Remove(ctx context.Context, ref string) error {
	if err := s.backend.Delete(ctx, ref); err != nil {
		return fmt.Errorf("delete poster %s: %w", ref, err)
	}
	return nil
}

// Ping reports whether the bucket is reachable.
func (s *PosterStore) Ping(ctx context.Context) error {
	return s.backend.EnsureBucket(ctx)
}
