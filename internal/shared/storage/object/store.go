package object

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"net/http"
	"path"
	"strconv"
	"time"

	"interview-backend/internal/shared/util"
)

// ObjectStore saves and retrieves uploaded resume files.
type ObjectStore interface {
	Save(ctx context.Context, userID string, fileName string, r io.Reader) (storageKey string, sizeBytes int64, mimeType string, err error)
	Open(ctx context.Context, storageKey string) (io.ReadCloser, error)
	// Delete removes a stored object. Deleting a missing object is not an error.
	Delete(ctx context.Context, storageKey string) error
}

// KeySaver is implemented by stores that can write derived objects at a caller-chosen key.
type KeySaver interface {
	SaveWithKey(ctx context.Context, storageKey string, contentType string, r io.Reader) (int64, error)
}

const sniffLen = 512

// NewKey builds the storage key for a user's upload: a hashed user namespace, then a
// random prefix in front of the sanitized file name.
func NewKey(userID, fileName string) (string, error) {
	clean, err := util.SanitizeFileName(fileName)
	if err != nil {
		return "", fmt.Errorf("sanitize file name: %w", err)
	}
	return path.Join(util.HashKey(userID), randomID()+"_"+clean), nil
}

// Sniff detects the content type from the first bytes of r and returns a reader that
// replays them followed by the rest of r.
func Sniff(r io.Reader) (string, io.Reader, error) {
	var head [sniffLen]byte
	n, err := io.ReadFull(r, head[:])
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", nil, fmt.Errorf("read sniff: %w", err)
	}
	return http.DetectContentType(head[:n]), io.MultiReader(bytes.NewReader(head[:n]), r), nil
}

func randomID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		return strconv.FormatInt(time.Now().UnixNano(), 10)
	}
	return hex.EncodeToString(b[:])
}
