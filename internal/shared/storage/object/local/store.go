package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"interview-backend/internal/shared/storage/object"
)

var errInvalidKey = errors.New("invalid storage key")

// Store implements ObjectStore on the local filesystem.
type Store struct {
	baseDir string
}

// New creates a local object store rooted at baseDir.
func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

// Save writes the upload under the user's hashed namespace.
func (s *Store) Save(ctx context.Context, userID string, fileName string, r io.Reader) (string, int64, string, error) {
	key, err := object.NewKey(userID, fileName)
	if err != nil {
		return "", 0, "", err
	}
	if err := ctx.Err(); err != nil {
		return "", 0, "", err
	}
	mimeType, body, err := object.Sniff(r)
	if err != nil {
		return "", 0, "", err
	}
	size, err := s.write(key, body)
	if err != nil {
		return "", 0, "", err
	}
	return key, size, mimeType, nil
}

// Open opens a stored object for reading.
func (s *Store) Open(ctx context.Context, storageKey string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	full, err := s.resolve(storageKey)
	if err != nil {
		return nil, err
	}
	return os.Open(full)
}

// Delete removes a stored file.
func (s *Store) Delete(ctx context.Context, storageKey string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	full, err := s.resolve(storageKey)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove file: %w", err)
	}
	return nil
}

// SaveWithKey writes the reader at a specific storage key.
func (s *Store) SaveWithKey(ctx context.Context, storageKey string, contentType string, r io.Reader) (int64, error) {
	_ = contentType
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	return s.write(storageKey, r)
}

func (s *Store) write(storageKey string, r io.Reader) (int64, error) {
	full, err := s.resolve(storageKey)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return 0, fmt.Errorf("mkdir: %w", err)
	}
	f, err := os.OpenFile(full, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return 0, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	written, err := io.Copy(f, r)
	if err != nil {
		return 0, fmt.Errorf("write body: %w", err)
	}
	return written, nil
}

// resolve maps a storage key to a path inside baseDir, rejecting escapes.
func (s *Store) resolve(storageKey string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(storageKey))
	if clean == "." || strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", errInvalidKey
	}
	return filepath.Join(s.baseDir, clean), nil
}

var (
	_ object.ObjectStore = (*Store)(nil)
	_ object.KeySaver    = (*Store)(nil)
)
