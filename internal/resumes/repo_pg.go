package resumes

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// PGRepo implements ResumesRepo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new resume.
func (r *PGRepo) Create(ctx context.Context, resume Resume) error {
	const query = `
INSERT INTO resumes (
    id,
    user_id,
    file_name,
    mime_type,
    size_bytes,
    storage_provider,
    storage_key,
    created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	storageProvider := resume.StorageProvider
	if storageProvider == "" {
		storageProvider = "local"
	}

	_, err := r.DB.ExecContext(
		ctx,
		query,
		resume.ID,
		resume.UserID,
		resume.FileName,
		resume.MimeType,
		resume.SizeBytes,
		storageProvider,
		resume.StorageKey,
		resume.CreatedAt,
	)
	return err
}

// GetByID fetches a resume by ID for a user.
func (r *PGRepo) GetByID(ctx context.Context, userID, resumeID string) (Resume, error) {
	const query = `
SELECT id, user_id, file_name, mime_type, size_bytes, storage_provider, storage_key, extracted_text_key, extracted_at, created_at
FROM resumes
WHERE user_id = $1 AND id = $2
LIMIT 1`
	var res Resume
	var extractedKey sql.NullString
	var extractedAt sql.NullTime
	err := r.DB.QueryRowContext(ctx, query, userID, resumeID).Scan(
		&res.ID,
		&res.UserID,
		&res.FileName,
		&res.MimeType,
		&res.SizeBytes,
		&res.StorageProvider,
		&res.StorageKey,
		&extractedKey,
		&extractedAt,
		&res.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Resume{}, ErrNotFound
		}
		return Resume{}, err
	}
	if extractedKey.Valid {
		res.ExtractedTextKey = extractedKey.String
	}
	if extractedAt.Valid {
		res.ExtractedAt = &extractedAt.Time
	}
	return res, nil
}

// UpdateExtraction stores the extracted text metadata for a resume.
func (r *PGRepo) UpdateExtraction(ctx context.Context, userID, resumeID, extractedKey string, extractedAt time.Time) error {
	const query = `
UPDATE resumes
SET extracted_text_key = $1, extracted_at = $2
WHERE user_id = $3 AND id = $4 AND extracted_text_key IS NULL`
	_, err := r.DB.ExecContext(ctx, query, extractedKey, extractedAt, userID, resumeID)
	return err
}

// Delete removes a resume row.
func (r *PGRepo) Delete(ctx context.Context, userID, resumeID string) error {
	_, err := r.DB.ExecContext(ctx, `DELETE FROM resumes WHERE user_id = $1 AND id = $2`, userID, resumeID)
	return err
}

var _ ResumesRepo = (*PGRepo)(nil)
