package resumes

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"interview-backend/internal/extract"
	"interview-backend/internal/shared/storage/object"
)

// Service stores resumes and extracts their text.
type Service struct {
	Store    object.ObjectStore
	Repo     ResumesRepo
	Provider string
	Now      func() time.Time
}

// Upload saves the file to object storage and records the resume.
func (s *Service) Upload(ctx context.Context, userID, fileName string, r io.Reader) (Resume, error) {
	if userID == "" {
		return Resume{}, fmt.Errorf("%w: user id required", ErrInvalidInput)
	}
	if strings.TrimSpace(fileName) == "" {
		return Resume{}, fmt.Errorf("%w: file name required", ErrInvalidInput)
	}

	storageKey, size, mimeType, err := s.Store.Save(ctx, userID, fileName, r)
	if err != nil {
		return Resume{}, fmt.Errorf("store resume: %w", err)
	}

	res := Resume{
		ID:              uuid.NewString(),
		UserID:          userID,
		FileName:        fileName,
		MimeType:        mimeType,
		SizeBytes:       size,
		StorageProvider: s.Provider,
		StorageKey:      storageKey,
		CreatedAt:       s.now(),
	}
	if err := s.Repo.Create(ctx, res); err != nil {
		return Resume{}, err
	}
	return res, nil
}

// Text extracts the plain text of a stored resume and records the derived copy.
func (s *Service) Text(ctx context.Context, res Resume) (string, error) {
	text, err := extract.ExtractText(ctx, s.Store, res.StorageKey, res.MimeType, res.FileName)
	switch {
	case err == nil:
	case errors.Is(err, extract.ErrUnsupportedFormat),
		errors.Is(err, extract.ErrInvalidEncoding),
		errors.Is(err, extract.ErrUnreadable):
		return "", fmt.Errorf("%w: %w", ErrInvalidInput, err)
	default:
		return "", err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyText
	}
	if err := s.Repo.UpdateExtraction(ctx, res.UserID, res.ID, extract.ExtractedKey(res.StorageKey), s.now()); err != nil {
		return "", err
	}
	return text, nil
}

// Discard removes a resume that no interview will use: the stored file, any derived
// text copy and the record. Every step is attempted and the failures are joined.
func (s *Service) Discard(ctx context.Context, res Resume) error {
	var errs []error
	if err := s.Store.Delete(ctx, res.StorageKey); err != nil {
		errs = append(errs, fmt.Errorf("delete resume object: %w", err))
	}
	if err := s.Store.Delete(ctx, extract.ExtractedKey(res.StorageKey)); err != nil {
		errs = append(errs, fmt.Errorf("delete extracted text: %w", err))
	}
	if err := s.Repo.Delete(ctx, res.UserID, res.ID); err != nil {
		errs = append(errs, fmt.Errorf("delete resume record: %w", err))
	}
	return errors.Join(errs...)
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
